// Package capability defines the four extension roles a module type can play
// (Source, Controller, Manager and Unit) and the descriptors modules use to
// declare them.
//
// A Descriptor is a tagged variant: it is built by one of NewSource,
// NewController, NewManager or NewUnit and carries exactly one factory. The
// families are therefore mutually exclusive without any type inspection, and
// a descriptor can be handed to the scanner without running module code.
package capability
