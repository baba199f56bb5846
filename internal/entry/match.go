package entry

import "sort"

// Match is one activation clause of a context: the context is a candidate
// only when the runtime value named by Key matches Pattern. A context with
// no match clauses is always active.
type Match struct {
	Key     string `json:"key"`
	Pattern string `json:"pattern"`
}

// MatchesFromMap converts a key/pattern mapping into a clause list sorted by
// key, so that contexts compare and serialise deterministically.
func MatchesFromMap(m map[string]string) []Match {
	if len(m) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(m))
	for key, pattern := range m {
		matches = append(matches, Match{Key: key, Pattern: pattern})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Key < matches[j].Key })
	return matches
}
