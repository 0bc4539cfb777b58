package model

import "strings"

const defaultIndentUnit = "    "

// LineIndent returns the whitespace that precedes offset on its line. The
// second result is false when something other than whitespace comes first.
func (u *Unit) LineIndent(offset int) (string, bool) {
	lineStart := strings.LastIndexByte(string(u.Text[:offset]), '\n') + 1
	prefix := string(u.Text[lineStart:offset])

	if strings.TrimLeft(prefix, " \t") != "" {
		return "", false
	}

	return prefix, true
}

// IndentUnit guesses one level of indentation for the unit: a tab when any
// line is tab-indented, otherwise the narrowest space indentation in use.
func (u *Unit) IndentUnit() string {
	narrowest := 0

	for _, line := range strings.Split(string(u.Text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "\t") {
			return "\t"
		}

		width := len(line) - len(strings.TrimLeft(line, " "))
		if width > 0 && (narrowest == 0 || width < narrowest) {
			narrowest = width
		}
	}

	if narrowest == 0 {
		return defaultIndentUnit
	}

	return strings.Repeat(" ", narrowest)
}
