// SPDX-License-Identifier: MIT

package eligibility

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for parsing.
var (
	// ErrUnknownGender indicates a gender label outside the fixed set.
	ErrUnknownGender = errors.New("eligibility: unknown gender")

	// ErrUnknownDesignation indicates a shelter designation outside the fixed set.
	ErrUnknownDesignation = errors.New("eligibility: unknown designation")
)

// Gender is a demand category. The set is fixed; NumGenders sizes per-gender arrays.
type Gender int

const (
	// Men is the male demand category.
	Men Gender = iota

	// Women is the female demand category.
	Women

	// NumGenders is the number of demand categories.
	NumGenders = 2
)

// Genders lists every Gender in canonical iteration order.
var Genders = [NumGenders]Gender{Men, Women}

// String returns the canonical lower-case label.
func (g Gender) String() string {
	switch g {
	case Men:
		return "men"
	case Women:
		return "women"
	default:
		return fmt.Sprintf("gender(%d)", int(g))
	}
}

// Valid reports whether g is one of the fixed categories.
func (g Gender) Valid() bool { return g == Men || g == Women }

// MarshalText encodes g as its canonical label.
func (g Gender) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGender, int(g))
	}

	return []byte(g.String()), nil
}

// UnmarshalText accepts every label ParseGender does.
func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v

	return nil
}

// ParseGender maps a label (case-insensitive) onto a Gender.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "men", "man", "male", "m":
		return Men, nil
	case "women", "woman", "female", "f", "w":
		return Women, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGender, s)
	}
}

// Designation restricts which genders a shelter may serve.
type Designation int

const (
	// Mixed shelters accept every gender.
	Mixed Designation = iota

	// MenOnly shelters accept only Men.
	MenOnly

	// WomenOnly shelters accept only Women.
	WomenOnly
)

// String returns the canonical label used in scenario files.
func (d Designation) String() string {
	switch d {
	case Mixed:
		return "mixed"
	case MenOnly:
		return "men-only"
	case WomenOnly:
		return "women-only"
	default:
		return fmt.Sprintf("designation(%d)", int(d))
	}
}

// Valid reports whether d is one of the fixed designations.
func (d Designation) Valid() bool { return d == Mixed || d == MenOnly || d == WomenOnly }

// ParseDesignation maps a label (case-insensitive) onto a Designation.
// Underscores and spaces are accepted in place of hyphens.
func ParseDesignation(s string) (Designation, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "mixed", "all", "co-ed", "coed", "any":
		return Mixed, nil
	case "men-only", "men", "male", "male-only":
		return MenOnly, nil
	case "women-only", "women", "female", "female-only":
		return WomenOnly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDesignation, s)
	}
}
