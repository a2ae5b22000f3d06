/*
Package domain contains the core types shared by the hexwire engine and its adapters.

It defines what a transaction is, how it can fail, and the records the surrounding
collaborators (log storage, crash capture, presets) exchange with the engine. The
package is kept free of I/O so every adapter can depend on it.

# Key Entities

  - TransactionRequest / TransactionResult: one connect, send, receive cycle.
  - FailureReason / Failure: the closed taxonomy of classified failures, each with
    operator-facing remediation text.
  - Stage: the per-call lifecycle (decoding, resolving, connecting, ...).
  - LifecycleHooks: observability callbacks fired by the engine.
  - LogEntry, CrashReport, Preset: records owned by the collaborators.
*/
package domain
