// Package cli builds the capreg command tree. It binds flags, environment
// variables (CAPREG_*) and an optional config file into the application's
// configuration, and maps failures onto process exit codes.
package cli
