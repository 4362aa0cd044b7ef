// Package charset implements the ISO 9660 a-character and d-character
// filter/pad/truncate transforms used for every identifier field on the
// wire (volume labels, publisher/preparer strings, directory and file
// identifiers).
package charset

import (
	"fmt"
	"strings"

	"github.com/bgrewell/isoimage/pkg/consts"
	"github.com/bgrewell/isoimage/pkg/helpers"
)

// ErrEmptyIdentifier is returned when filtering a required identifier
// leaves nothing behind (every input byte was outside the allowed set).
var ErrEmptyIdentifier = fmt.Errorf("identifier is empty after character filtering")

// filter drops any rune not present in allowed, uppercasing ASCII letters
// first so lowercase input normalizes the same as uppercase input.
func filter(s string, allowed string) string {
	upper := strings.ToUpper(s)
	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		if strings.ContainsRune(allowed, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// A filters s to the a-character set, then pads or truncates it to width
// bytes. With requireNonEmpty set, a non-empty s that filters to nothing
// returns ErrEmptyIdentifier; an empty s is padded without error. Pass
// requireNonEmpty=false for fields that are legitimately blank (e.g. unset
// publisher identifiers).
func A(s string, width int, requireNonEmpty bool) ([]byte, error) {
	return transform(s, consts.A_CHARACTERS, width, requireNonEmpty)
}

// D filters s to the d-character set, then pads or truncates it to width
// bytes.
func D(s string, width int, requireNonEmpty bool) ([]byte, error) {
	return transform(s, consts.D_CHARACTERS, width, requireNonEmpty)
}

func transform(s string, allowed string, width int, requireNonEmpty bool) ([]byte, error) {
	filtered := filter(s, allowed)
	if requireNonEmpty && s != "" && filtered == "" {
		return nil, ErrEmptyIdentifier
	}
	if len(filtered) > width {
		filtered = filtered[:width]
	}
	return helpers.PadString(filtered, width), nil
}
