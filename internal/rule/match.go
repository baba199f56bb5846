package rule

import (
	"fmt"
	"sort"
	"strings"
)

// Resolver supplies the definitions of list and capture references while
// matching. A false return means the name cannot be resolved; the matcher
// then treats the reference as matching nothing, so the overall answer is a
// conservative false rather than an error.
type Resolver interface {
	// List returns the literal alternatives of the named list.
	List(name string) ([]string, bool)
	// Capture returns the rule of the named capture.
	Capture(name string) (Node, bool)
}

// Match reports whether the tokenised phrase satisfies the rule. With
// fullmatch set, the rule must consume every token; otherwise a match
// against a prefix of the phrase suffices. Matching always starts at the
// first token.
func Match(words []string, n Node, fullmatch bool, r Resolver) bool {
	ends := advance(n, words, []int{0}, r)
	if fullmatch {
		for _, end := range ends {
			if end == len(words) {
				return true
			}
		}
		return false
	}
	return len(ends) > 0
}

// advance returns every position the rule can reach when started from each
// of the given positions. Positions are indexes into words; reaching
// len(words) means the whole phrase was consumed. The result is sorted and
// deduplicated, and empty when the rule cannot match anywhere.
func advance(n Node, words []string, starts []int, r Resolver) []int {
	if len(starts) == 0 {
		return nil
	}
	switch n := n.(type) {
	case *Word:
		var ends []int
		for _, s := range starts {
			if s < len(words) && words[s] == n.Text {
				ends = append(ends, s+1)
			}
		}
		return ends
	case *Seq:
		positions := starts
		for _, item := range n.Items {
			positions = advance(item, words, positions, r)
			if len(positions) == 0 {
				return nil
			}
		}
		return positions
	case *Choice:
		var ends []int
		for _, alt := range n.Alts {
			ends = append(ends, advance(alt, words, starts, r)...)
		}
		return dedup(ends)
	case *Optional:
		return dedup(append(advance(n.Item, words, starts, r), starts...))
	case *Repeat:
		return closure(n.Item, words, starts, r)
	case *Repeat1:
		once := advance(n.Item, words, starts, r)
		return closure(n.Item, words, once, r)
	case *Paren:
		return advance(n.Item, words, starts, r)
	case *StartAnchor:
		var ends []int
		for _, s := range starts {
			if s == 0 {
				ends = append(ends, s)
			}
		}
		return ends
	case *EndAnchor:
		var ends []int
		for _, s := range starts {
			if s == len(words) {
				ends = append(ends, s)
			}
		}
		return ends
	case *ListRef:
		alternatives, ok := r.List(n.Name)
		if !ok {
			return nil
		}
		var ends []int
		for _, alternative := range alternatives {
			ends = append(ends, advanceLiteral(strings.Fields(alternative), words, starts)...)
		}
		return dedup(ends)
	case *CaptureRef:
		sub, ok := r.Capture(n.Name)
		if !ok {
			return nil
		}
		return advance(sub, words, starts, r)
	default:
		panic(fmt.Sprintf("unhandled rule node %T", n))
	}
}

// closure computes the zero-or-more repetition of item: every position
// reachable by applying item any number of times.
func closure(item Node, words []string, starts []int, r Resolver) []int {
	reached := make(map[int]bool, len(starts))
	for _, s := range starts {
		reached[s] = true
	}
	frontier := starts
	for len(frontier) > 0 {
		var next []int
		for _, end := range advance(item, words, frontier, r) {
			if !reached[end] {
				reached[end] = true
				next = append(next, end)
			}
		}
		frontier = next
	}
	ends := make([]int, 0, len(reached))
	for end := range reached {
		ends = append(ends, end)
	}
	sort.Ints(ends)
	return ends
}

// advanceLiteral matches a fixed sequence of tokens.
func advanceLiteral(literal []string, words []string, starts []int) []int {
	var ends []int
	for _, s := range starts {
		if s+len(literal) > len(words) {
			continue
		}
		matched := true
		for i, w := range literal {
			if words[s+i] != w {
				matched = false
				break
			}
		}
		if matched {
			ends = append(ends, s+len(literal))
		}
	}
	return ends
}

func dedup(positions []int) []int {
	if len(positions) < 2 {
		return positions
	}
	sort.Ints(positions)
	out := positions[:1]
	for _, p := range positions[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
