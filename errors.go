package iban

import "errors"

// Validation errors returned by IBAN.Validate, wrapped with the offending
// value. Test for them with errors.Is.
var (
	ErrUnknownCountry     = errors.New("unknown country code")
	ErrInvalidLength      = errors.New("invalid length")
	ErrInvalidCheckDigits = errors.New("invalid check digits")
)

// Registry errors returned by ParseRegistry and Registry.Validate.
var (
	ErrEmptyRegistry    = errors.New("empty country table")
	ErrDuplicateCountry = errors.New("duplicate country code")
	ErrInvalidLayout    = errors.New("layout does not match schema")
)
