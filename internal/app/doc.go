// Package app wires the analysis pipeline together: configuration, logging,
// the registry, the builtin cache, package analysis and the two output
// modes (command search and knowledge-base export).
package app
