// Package app contains the host's startup logic. It wires the logger, the
// asset provider and the module registry together, loads every compiled and
// manifest module, and optionally serves the registry over HTTP, decoupled
// from any specific entrypoint like a CLI.
package app
