// Package rule implements the spoken-phrase grammar: the rule AST, a parser
// for the surface syntax used in command labels and capture declarations,
// and a backtracking matcher that decides whether a tokenised phrase
// satisfies a rule.
//
// The grammar is small: words match literally, `a | b` is a choice,
// `[a]` is optional, `(a b)` groups, `a*` and `a+` repeat, `{name}`
// references a list of literal alternatives, `<name>` references another
// capture's rule, and `^`/`$` anchor to the start and end of the phrase.
package rule
