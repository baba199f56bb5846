// Package registry is the exclusive owner of all knowledge-base entries.
//
// It provides registration with duplicate detection, typed lookup, the
// declaration/override default resolution used for documentation, rule
// matching against registered captures and lists, active package/file
// tracking for the analysis session, and serialisation of the knowledge
// base to and from the builtin cache format.
package registry
