package entry

import (
	"encoding/json"
	"fmt"
)

// BuiltinPath is the distinguished path of entries supplied by the host
// platform rather than the analysed package.
const BuiltinPath = "builtin"

// Location records where an entry was declared: a file path plus an optional
// line/column span. Builtin entries carry the literal path "builtin" and no
// span. Lines and columns are 1-based; zero means unknown.
type Location struct {
	Path        string `json:"path"`
	StartLine   int    `json:"start_line,omitempty"`
	StartColumn int    `json:"start_column,omitempty"`
	EndLine     int    `json:"end_line,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
}

// BuiltinLocation returns the location shared by all builtin entries.
func BuiltinLocation() Location {
	return Location{Path: BuiltinPath}
}

// Builtin reports whether the location denotes a host-platform entry.
func (l Location) Builtin() bool {
	return l.Path == BuiltinPath
}

func pointString(line, column int) string {
	if line == 0 {
		return ""
	}
	if column == 0 {
		return fmt.Sprintf("%d", line)
	}
	return fmt.Sprintf("%d:%d", line, column)
}

func (l Location) String() string {
	start := pointString(l.StartLine, l.StartColumn)
	if start == "" {
		return l.Path
	}
	end := pointString(l.EndLine, l.EndColumn)
	if end == "" {
		return fmt.Sprintf("%s:%s", l.Path, start)
	}
	return fmt.Sprintf("%s:%s-%s", l.Path, start, end)
}

// MarshalJSON encodes builtin locations as the literal string "builtin" and
// everything else as an object. The cache format depends on this shape.
func (l Location) MarshalJSON() ([]byte, error) {
	if l.Builtin() {
		return json.Marshal(BuiltinPath)
	}
	type plain Location
	return json.Marshal(plain(l))
}

// UnmarshalJSON accepts either the literal string "builtin" or an object.
func (l *Location) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != BuiltinPath {
			return fmt.Errorf("expected literal %q or a location object, found %q", BuiltinPath, s)
		}
		*l = BuiltinLocation()
		return nil
	}
	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}
