/*
Package observability turns engine lifecycle events into Prometheus metrics and
debug log narration.

Both are exposed as domain.LifecycleHooks and can be combined with
domain.ChainHooks before being passed to hexwire.WithLifecycleHooks.
*/
package observability
