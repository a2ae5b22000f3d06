// Package cli holds the bodies of the hexwire commands. cmd/hexwire parses
// flags and calls into it.
package cli
