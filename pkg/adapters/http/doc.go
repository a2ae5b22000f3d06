// Package http exposes the hexwire client and its log and crash stores over a
// JSON API described by the embedded openapi.yaml.
package http
