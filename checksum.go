package iban

// chunkDigits is the widest decimal chunk fed to a single reduction step.
// remainder text plus chunk never exceeds 9 digits, so every intermediate
// value stays below 10^9 and fits a uint32.
const chunkDigits = 9

// ComputeCheckValue returns the ISO 7064 MOD 97-10 check value of an IBAN:
// 98 minus the remainder of the rearranged numeric form modulo 97.
//
// The argument is normalized first, so any string is accepted. For a
// correctly formed IBAN the result equals its check digits.
func ComputeCheckValue(iban string) int {
	return 98 - mod97(checkDigitInput(Normalize(iban)))
}

// checkDigitInput rearranges a normalized IBAN for the checksum: BBAN, then
// the country code, then "00" in place of the check digits, with every
// letter replaced by its two-digit value (A=10 ... Z=35).
//
//	DE68210501700012345678 -> 210501700012345678131400
func checkDigitInput(s string) string {
	rearranged := substr(s, 4, len(s)) + substr(s, 0, 2) + "00"

	out := make([]byte, 0, 2*len(rearranged))
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		if c >= 'A' && c <= 'Z' {
			v := c - 'A' + 10
			out = append(out, '0'+v/10, '0'+v%10)
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// mod97 reduces a decimal digit string modulo 97 without building the full
// integer. It walks the string left to right: each step prefixes the next
// chunk with the decimal text of the running remainder and reduces the
// result. The first chunk is 9 digits; later chunks shrink by the width of
// the remainder so the combined text is at most 9 digits.
func mod97(digits string) int {
	var remainder uint32
	remainderWidth := 0 // no remainder yet
	for pos := 0; pos < len(digits); {
		end := min(pos+chunkDigits-remainderWidth, len(digits))

		value := remainder
		for i := pos; i < end; i++ {
			value = value*10 + uint32(digits[i]-'0')
		}
		remainder = value % 97
		remainderWidth = decimalWidth(remainder)
		pos = end
	}
	return int(remainder)
}

// decimalWidth returns the number of digits in the decimal text of n.
func decimalWidth(n uint32) int {
	w := 1
	for n >= 10 {
		n /= 10
		w++
	}
	return w
}
