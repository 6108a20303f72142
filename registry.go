package iban

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countryData []byte

// Span is a character range within a normalized IBAN.
// Offsets count from the start of the IBAN, not the BBAN.
type Span struct {
	Offset int `yaml:"offset"`
	Length int `yaml:"length"`
}

// End returns the exclusive end position of the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// CountryLayout describes the IBAN structure of a single country.
type CountryLayout struct {
	Code     string `yaml:"-"`         // ISO 3166-1 alpha-2 code (e.g., "DE")
	Name     string `yaml:"name"`      // Display name (e.g., "Germany")
	Length   int    `yaml:"length"`    // Exact length of a valid IBAN
	BankCode Span   `yaml:"bank_code"` // Bank code position
	Account  Span   `yaml:"account"`   // Account number position
	Schema   string `yaml:"schema"`    // Display schema, e.g. "ccdd bbbb bbbb aaaa aaaa aa"
}

// Registry maps country codes to their IBAN layouts.
// A Registry is never modified after it is built and is safe for concurrent use.
type Registry struct {
	layouts map[string]CountryLayout
	codes   []string // sorted
}

// defaultRegistry is decoded from the embedded table on first use.
var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := ParseRegistry(bytes.NewReader(countryData))
	if err != nil {
		panic(fmt.Sprintf("iban: embedded country table: %v", err))
	}
	return r
})

// DefaultRegistry returns the built-in registry of countries with a
// published IBAN format.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Lookup returns the layout for a country code from the default registry.
func Lookup(code string) (CountryLayout, bool) {
	return DefaultRegistry().Lookup(code)
}

// ParseRegistry decodes a YAML layout table keyed by country code, in the
// format of the embedded countries.yaml:
//
//	"DE":
//	  name: "Germany"
//	  length: 22
//	  bank_code: {offset: 4, length: 8}
//	  account: {offset: 12, length: 10}
//	  schema: "ccdd bbbb bbbb aaaa aaaa aa"
//
// The table is validated before it is returned.
func ParseRegistry(r io.Reader) (*Registry, error) {
	var raw map[string]CountryLayout
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding country table: %w", ErrEmptyRegistry)
		}
		return nil, fmt.Errorf("decoding country table: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("decoding country table: %w", ErrEmptyRegistry)
	}

	reg := &Registry{
		layouts: make(map[string]CountryLayout, len(raw)),
		codes:   make([]string, 0, len(raw)),
	}
	for key, layout := range raw {
		code := strings.ToUpper(strings.TrimSpace(key))
		if code != key {
			log.Printf("warning: country code %q normalized to %q", key, code)
		}
		if _, dup := reg.layouts[code]; dup {
			return nil, fmt.Errorf("country %s: %w", code, ErrDuplicateCountry)
		}
		layout.Code = code
		reg.layouts[code] = layout
		reg.codes = append(reg.codes, code)
	}
	sort.Strings(reg.codes)

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Lookup returns the layout for a country code. The code must already be
// uppercase. ok is false for codes without a published IBAN format.
func (r *Registry) Lookup(code string) (CountryLayout, bool) {
	layout, ok := r.layouts[code]
	return layout, ok
}

// Codes returns all country codes in the registry, sorted.
func (r *Registry) Codes() []string {
	return append([]string(nil), r.codes...)
}

// Len returns the number of countries in the registry.
func (r *Registry) Len() int {
	return len(r.codes)
}

// Validate checks that every layout agrees with its schema string: the
// schema without spaces is Length characters long, and the first index and
// count of 'b' and 'a' markers equal the bank code and account spans.
// All violations are reported together.
func (r *Registry) Validate() error {
	var errs []error
	for _, code := range r.codes {
		if err := r.layouts[code].validate(); err != nil {
			errs = append(errs, fmt.Errorf("country %s: %w", code, err))
		}
	}
	return errors.Join(errs...)
}

// validate checks a single layout against its schema.
func (l CountryLayout) validate() error {
	if len(l.Code) != 2 || !isUpperASCII(l.Code[0]) || !isUpperASCII(l.Code[1]) {
		return fmt.Errorf("code %q: %w", l.Code, ErrInvalidLayout)
	}
	if l.Name == "" {
		return fmt.Errorf("missing name: %w", ErrInvalidLayout)
	}

	schema := strings.ReplaceAll(l.Schema, " ", "")
	if len(schema) != l.Length {
		return fmt.Errorf("schema length %d, want %d: %w", len(schema), l.Length, ErrInvalidLayout)
	}
	if err := l.BankCode.match(schema, 'b', l.Length); err != nil {
		return fmt.Errorf("bank code: %w", err)
	}
	if err := l.Account.match(schema, 'a', l.Length); err != nil {
		return fmt.Errorf("account: %w", err)
	}
	return nil
}

// match checks the span against the positions of marker in schema.
func (s Span) match(schema string, marker byte, length int) error {
	if s.Offset < 4 || s.Length < 1 || s.End() > length {
		return fmt.Errorf("span [%d,%d) outside BBAN of length %d: %w", s.Offset, s.End(), length, ErrInvalidLayout)
	}
	if first := strings.IndexByte(schema, marker); first != s.Offset {
		return fmt.Errorf("offset %d, schema starts at %d: %w", s.Offset, first, ErrInvalidLayout)
	}
	if n := strings.Count(schema, string(marker)); n != s.Length {
		return fmt.Errorf("length %d, schema has %d: %w", s.Length, n, ErrInvalidLayout)
	}
	return nil
}

// maxNameDistance caps the edit distance accepted by FindByName.
const maxNameDistance = 3

// FindByName returns the layout whose country name matches name.
// An exact case-insensitive match wins; otherwise the closest name within
// maxDist Levenshtein edits is returned. maxDist is capped at 3, and ties
// go to the alphabetically first country code.
func (r *Registry) FindByName(name string, maxDist int) (CountryLayout, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CountryLayout{}, false
	}
	if maxDist > maxNameDistance {
		maxDist = maxNameDistance
	}

	query := strings.ToLower(name)
	var best CountryLayout
	bestDist := -1
	for _, code := range r.codes {
		layout := r.layouts[code]
		candidate := strings.ToLower(layout.Name)
		if candidate == query {
			return layout, true
		}
		if maxDist <= 0 {
			continue
		}
		dist := levenshtein.ComputeDistance(query, candidate)
		if dist <= maxDist && (bestDist < 0 || dist < bestDist) {
			best, bestDist = layout, dist
		}
	}
	return best, bestDist >= 0
}

func isUpperASCII(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
