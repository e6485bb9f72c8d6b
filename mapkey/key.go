// Package mapkey defines the single-glyph symbols that palette entries are addressed by
package mapkey

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Key is one Unicode code point used as a palette symbol
// The zero Key means "no key" and never matches an entry
type Key rune

// Default is the key used when no other key is available
const Default Key = '.'

// None is the invalid zero key
const None Key = 0

// ErrInvalidKey is returned when a string does not hold exactly one code point
var ErrInvalidKey = errors.New("map key must be exactly one character")

// Parse converts a one-character string to a Key
func Parse(s string) (Key, error) {
	if s == "" || utf8.RuneCountInString(s) != 1 {
		return None, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return None, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key(r), nil
}

// MustParse is Parse for literals known to be valid
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Valid reports whether the key can address an entry
func (k Key) Valid() bool {
	return k != None
}

// String returns the glyph, or an empty string for the zero key
func (k Key) String() string {
	if k == None {
		return ""
	}
	return string(rune(k))
}

// AllowsDefaultFill reports whether cells with this key accept the mapgen's fill terrain
// ' ' and '.' are the only such keys
func (k Key) AllowsDefaultFill() bool {
	return k == ' ' || k == '.'
}

// MarshalText writes the key as its glyph
func (k Key) MarshalText() ([]byte, error) {
	if k == None {
		return nil, ErrInvalidKey
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a one-character glyph
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
