// Package script turns command scripts into natural-language descriptions.
//
// The describer folds a script's AST into a Desc value, resolving each
// action call to its declaration's docstring through the registry. Docstrings
// that document parameters become templates whose holes are filled with the
// folded call arguments; docstrings that document a return value become
// inline fragments; everything else becomes a sequence of steps.
package script
