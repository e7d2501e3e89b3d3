// Package registry is the process-wide index of module capabilities.
//
// At host startup Load presents every module to the scanner, runs the
// capability classifiers over its candidates and publishes the module's
// registrations once its whole pass has completed. Downstream code (the
// entity initializer, the introspection server, the CLI) then reads the
// registry through the query methods, which never fail: absence is reported
// with an ok flag because most modules register nothing of a given kind.
//
// The registry has two states. Load moves it from Empty to Loaded and is not
// re-entrant. Unload drops everything and returns it to Empty; it can then
// be loaded again. Load is single-threaded and must complete before any
// query; after that, queries are safe for concurrent use.
package registry
