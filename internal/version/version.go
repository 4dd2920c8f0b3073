// Package version contains the current version of the oak toolchain. It is
// split from the main program for easy use by both cmd/oak and cmd/oakd.
package version

// Current is the string representing the current version of oak.
const Current = "0.1.0"
