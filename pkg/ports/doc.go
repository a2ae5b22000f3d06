/*
Package ports defines the driven ports (interfaces) of the hexwire engine and its
collaborators.

These interfaces decouple the transaction core from the network stack and from the
storage backends used by the command surfaces.

# Key Interfaces

  - Dialer: opens the TCP connection for a transaction (net.Dialer in production,
    fakes in tests).
  - Resolver: optional hostname lookup for targets that are not IP literals.
  - LogStore: persists and queries leveled log entries.
  - FaultSink: persists crash reports and lists the most recent ones.
  - PresetStore: saves and loads named transactions.
*/
package ports
