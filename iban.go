// Package iban validates and decomposes International Bank Account Numbers
// (ISO 13616).
//
// An IBAN is built from any string and normalized on construction; it never
// fails to build. Fields are derived on demand from the normalized text and
// the country layout registry, and validity is a separate query:
//
//	n := iban.New("de68 2105 0170 0012 3456 78")
//	n.String()     // "DE68210501700012345678"
//	n.BankCode()   // "21050170", true
//	n.Account()    // "0012345678", true
//	n.IsValid()    // true
//
// Layouts come from an embedded table of countries with a published IBAN
// format. Use WithRegistry to resolve against a custom table loaded with
// ParseRegistry.
package iban

import (
	"fmt"
	"strings"
)

// IBAN is a normalized International Bank Account Number.
// The zero value is an empty IBAN resolved against the default registry.
type IBAN struct {
	value    string
	registry *Registry // nil means DefaultRegistry()
}

// config holds the options applied by New.
type config struct {
	registry *Registry
}

// Option is a functional option for configuring an IBAN.
type Option func(*config)

// WithRegistry resolves country layouts against r instead of the default
// registry. A nil registry keeps the default.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// New normalizes raw and returns it as an IBAN. The result is kept even when
// it is empty, malformed or names an unknown country; use IsValid to check it.
func New(raw string, opts ...Option) IBAN {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return IBAN{value: Normalize(raw), registry: cfg.registry}
}

// Normalize trims raw, drops every character that is not an ASCII letter or
// digit and uppercases the rest. Normalize is idempotent.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z':
			return r
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		}
		return -1
	}, strings.TrimSpace(raw))
}

// String returns the normalized IBAN.
func (n IBAN) String() string {
	return n.value
}

// CountryCode returns the ISO 3166-1 alpha-2 country code (characters 0-1).
func (n IBAN) CountryCode() string {
	return substr(n.value, 0, 2)
}

// CheckDigits returns the two check digits (characters 2-3).
func (n IBAN) CheckDigits() string {
	return substr(n.value, 2, 4)
}

// BBAN returns the Basic Bank Account Number, everything after the check digits.
func (n IBAN) BBAN() string {
	return substr(n.value, 4, len(n.value))
}

// Layout returns the registry layout for the IBAN's country code.
func (n IBAN) Layout() (CountryLayout, bool) {
	reg := n.registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	return reg.Lookup(n.CountryCode())
}

// CountryName returns the country's display name. ok is false when the
// country code is not in the registry.
func (n IBAN) CountryName() (string, bool) {
	layout, ok := n.Layout()
	if !ok {
		return "", false
	}
	return layout.Name, true
}

// BankCode returns the bank code. ok is false when the country code is not in
// the registry; a short IBAN yields whatever part of the field is present.
func (n IBAN) BankCode() (string, bool) {
	layout, ok := n.Layout()
	if !ok {
		return "", false
	}
	return substr(n.value, layout.BankCode.Offset, layout.BankCode.End()), true
}

// Account returns the account number. ok is false when the country code is
// not in the registry; a short IBAN yields whatever part of the field is present.
func (n IBAN) Account() (string, bool) {
	layout, ok := n.Layout()
	if !ok {
		return "", false
	}
	return substr(n.value, layout.Account.Offset, layout.Account.End()), true
}

// IsValidLength reports whether the country is known and the IBAN has exactly
// the length registered for it.
func (n IBAN) IsValidLength() bool {
	layout, ok := n.Layout()
	return ok && len(n.value) == layout.Length
}

// IsValid reports whether the IBAN has a valid length and its check digits
// match the computed check value.
func (n IBAN) IsValid() bool {
	return n.Validate() == nil
}

// Validate returns nil for a valid IBAN, or an error wrapping
// ErrUnknownCountry, ErrInvalidLength or ErrInvalidCheckDigits.
func (n IBAN) Validate() error {
	layout, ok := n.Layout()
	if !ok {
		return fmt.Errorf("%q: %w", n.CountryCode(), ErrUnknownCountry)
	}
	if len(n.value) != layout.Length {
		return fmt.Errorf("%s: %d characters, want %d: %w", layout.Code, len(n.value), layout.Length, ErrInvalidLength)
	}
	digits, ok := parseCheckDigits(n.CheckDigits())
	if !ok || digits != ComputeCheckValue(n.value) {
		return fmt.Errorf("%q: %w", n.CheckDigits(), ErrInvalidCheckDigits)
	}
	return nil
}

// Format returns the IBAN in paper format: groups of four characters
// separated by single spaces.
func (n IBAN) Format() string {
	var b strings.Builder
	b.Grow(len(n.value) + len(n.value)/4)
	for i := 0; i < len(n.value); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(n.value[i])
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (n IBAN) MarshalText() ([]byte, error) {
	return []byte(n.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is normalized
// as by New and never rejected; the registry resets to the default.
func (n *IBAN) UnmarshalText(text []byte) error {
	*n = New(string(text))
	return nil
}

// parseCheckDigits parses exactly two ASCII digits.
func parseCheckDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// substr returns s[start:end] clamped to the bounds of s.
func substr(s string, start, end int) string {
	end = min(end, len(s))
	if start >= end {
		return ""
	}
	return s[start:end]
}
