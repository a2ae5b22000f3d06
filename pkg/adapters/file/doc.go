// Package file provides filesystem-backed log storage and crash capture.
//
// Both adapters are bound to a directory passed at construction; there is no
// process-wide log location.
package file
