// Package luadecl executes declaration files in a sandboxed Lua interpreter.
//
// The interpreter carries no io, os or debug libraries. An injected global
// "voice" table is the only bridge out of the sandbox: every call on it records a
// declaration against the active package and file. Functions referenced by
// actions and captures stay callable for as long as the interpreter that
// produced them is kept open.
package luadecl
