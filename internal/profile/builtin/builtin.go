// Package builtin registers the stock vendor profiles with the profile
// registry. Import this package to ensure they are registered.
package builtin

// This file exists to provide a single import point.
// Each vendor file uses init() to register its profiles.
