package sheet

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Placeholder glyphs used by the spreadsheet.
const (
	// CarryForward in the description column repeats the previous row's description.
	CarryForward = "↑"
	// NoAssignee in the assignee column means nobody is assigned.
	NoAssignee = "—"
)

// repairMojibake undoes the common export artifact where UTF-8 bytes were
// decoded as Windows-1252 ("â†‘" for "↑"). Text that does not round-trip to
// valid UTF-8 is returned unchanged.
func repairMojibake(s string) string {
	encoded, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || encoded == s || !utf8.ValidString(encoded) {
		return s
	}
	return encoded
}

// isGlyph reports whether a cell holds the given placeholder glyph, tolerating
// surrounding whitespace, non-NFC forms and Windows-1252 mojibake.
func isGlyph(cell, glyph string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}
	cell = norm.NFC.String(cell)
	return cell == glyph || repairMojibake(cell) == glyph
}
