// Package cli implements the interactive licai shell.
//
// The App opens the record store and the session area, resumes a valid
// session and runs a read–eval–print loop over the account, deposit and fund
// services. Every failed command prints "Error: <message>" and the loop keeps
// going.
//
// Testing hooks are exposed as package variables (printlnFn, readPassword,
// getSimpleText, getPassword) so tests can script input and capture output.
package cli
