// Package memory provides in-memory implementations of the hexwire ports.
package memory
