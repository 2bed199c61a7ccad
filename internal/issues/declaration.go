package issues

import (
	"regexp"
	"strings"
)

// declarationPattern matches a whole line of the form "Status: <name>", tolerating
// markdown bold markers, quotes around the name and a trailing "." or "!".
var declarationPattern = regexp.MustCompile(
	`(?i)^(?:\*\*)?status(?:\*\*)?:\s*(?:\*\*)?\s*["']?(.+?)["']?\s*(?:\*\*)?[.!]?(?:\*\*)?$`,
)

// ParseDeclaration returns the status declared in a comment body. When several
// lines declare a status the last one wins. Lines naming an unknown status are
// ignored.
func ParseDeclaration(body string) (Status, bool) {
	found := StatusNone
	for _, line := range strings.Split(body, "\n") {
		if s, ok := parseLine(line); ok {
			found = s
		}
	}
	return found, found != StatusNone
}

func parseLine(line string) (Status, bool) {
	m := declarationPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return StatusNone, false
	}
	return ParseName(m[1])
}
