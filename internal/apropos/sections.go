package apropos

import "strings"

// Titles maps lower-cased section identifiers to display names.
type Titles map[string]string

// SectionTitles holds the names of the standard manual sections.
var SectionTitles = Titles{
	"0":    "Header files",
	"0p":   "Header files (POSIX)",
	"1":    "Programs and commands",
	"1p":   "Programs and commands (POSIX)",
	"2":    "System calls",
	"3":    "Library and API functions",
	"3am":  "GNU AWK",
	"3g":   "OpenGL",
	"3p":   "Library and API functions (POSIX)",
	"3pm":  "Perl",
	"3ssl": "OpenSSL API",
	"4":    "Devices/Special files",
	"5":    "File formats",
	"6":    "Games and screensavers",
	"6x":   "Games and screensavers",
	"7":    "Miscellaneous",
	"8":    "Administration programs",
	"9":    "Kernel",
	"n":    "Tcl/Tk",
}

// Lookup returns the name of a section, ignoring case, or "" for
// sections without a known name.
func (t Titles) Lookup(section string) string {
	return t[strings.ToLower(section)]
}
