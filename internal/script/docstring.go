package script

import (
	"regexp"
	"strings"
)

var (
	returnsLine = regexp.MustCompile(`^[Rr]eturns? .*`)
	paramLine   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(\([^)]*\))?:\s*(.*)$`)
)

// docstring is the parsed form of an action docstring: a short description,
// the declared parameter names, and the return-value description, following
// the conventional "summary, Args:, Returns:" layout.
type docstring struct {
	short   string
	params  []string
	returns string
}

func sectionHeader(line string) string {
	switch strings.TrimSpace(line) {
	case "Args:", "Arguments:", "Parameters:":
		return "params"
	case "Returns:":
		return "returns"
	default:
		return ""
	}
}

func parseDocstring(doc string) docstring {
	var parsed docstring
	lines := strings.Split(doc, "\n")

	section := ""
	var short []string
	shortDone := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if header := sectionHeader(line); header != "" {
			section = header
			shortDone = true
			continue
		}
		switch section {
		case "params":
			if m := paramLine.FindStringSubmatch(line); m != nil {
				parsed.params = append(parsed.params, m[1])
			}
		case "returns":
			if line != "" {
				if parsed.returns != "" {
					parsed.returns += " "
				}
				parsed.returns += line
			}
		default:
			// The short description is the first paragraph.
			if line == "" {
				if len(short) > 0 {
					shortDone = true
				}
				continue
			}
			if !shortDone {
				short = append(short, line)
			}
		}
	}
	parsed.short = strings.Join(short, " ")
	return parsed
}

// FromDocstring converts an action docstring into a description:
//
//   - a docstring of the form "Returns X" becomes an inline Value;
//   - a docstring with a short description and declared parameters becomes
//     a Template whose holes are the parameter names;
//   - a docstring with a documented return value becomes an inline Value;
//   - anything else becomes Steps, one per line.
//
// An empty docstring yields nil.
func FromDocstring(doc string) Desc {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	firstLine, _, _ := strings.Cut(doc, "\n")
	if m := returnsLine.FindString(firstLine); m != "" {
		return &Value{Text: m}
	}

	parsed := parseDocstring(doc)
	if parsed.short != "" && len(parsed.params) > 0 {
		return &Template{Text: parsed.short, Params: parsed.params}
	}
	if parsed.returns != "" {
		return &Value{Text: parsed.returns}
	}

	var descs []Desc
	for _, line := range strings.Split(doc, "\n") {
		descs = append(descs, &Step{Text: strings.TrimRight(line, " \t")})
	}
	return Concat(descs...)
}
