// Package entry defines the immutable records that make up the knowledge
// base: packages, files, modules, contexts, commands, and the grouped
// action/capture/list/setting declarations and overrides, together with
// their source locations.
//
// Entries are created once by the analysis adapters, registered with the
// registry, and never mutated afterwards, with two exceptions: the registry
// maintains parent back-references (a package's files, a file's modules and
// contexts, a context's commands) at registration time, and a group grows
// as overrides for its name arrive.
package entry
