// Package loam stores transaction presets as Markdown documents in a Loam repository.
package loam
