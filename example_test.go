package iban_test

import (
	"errors"
	"fmt"

	"github.com/andreiashu/iban"
)

func Example() {
	n := iban.New("DE68 2105 0170 0012 3456 78")

	name, _ := n.CountryName()
	bank, _ := n.BankCode()
	account, _ := n.Account()

	fmt.Println(n)
	fmt.Println(n.BBAN())
	fmt.Println(n.CountryCode())
	fmt.Println(name)
	fmt.Println(bank)
	fmt.Println(account)
	fmt.Println(n.CheckDigits())
	if n.IsValid() {
		fmt.Println("IBAN is valid")
	}
	// Output:
	// DE68210501700012345678
	// 210501700012345678
	// DE
	// Germany
	// 21050170
	// 0012345678
	// 68
	// IBAN is valid
}

func ExampleIBAN_Validate() {
	err := iban.New("DE69 2105 0170 0012 3456 78").Validate()
	fmt.Println(errors.Is(err, iban.ErrInvalidCheckDigits))
	// Output: true
}

func ExampleIBAN_Format() {
	fmt.Println(iban.New("ch10002300a1023502601").Format())
	// Output: CH10 0023 00A1 0235 0260 1
}

func ExampleComputeCheckValue() {
	fmt.Println(iban.ComputeCheckValue("CH10002300A1023502601"))
	// Output: 10
}

func ExampleRegistry_FindByName() {
	layout, ok := iban.DefaultRegistry().FindByName("Swtzerland", 2)
	fmt.Println(layout.Code, layout.Length, ok)
	// Output: CH 21 true
}
