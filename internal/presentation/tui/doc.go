// Package tui renders hexwire output for terminals.
package tui
