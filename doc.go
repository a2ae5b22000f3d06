/*
Package hexwire sends raw byte payloads to TCP devices and reports what came back.

Payloads and responses are written as hex text, two digits per byte separated by
whitespace ("01 02 ff"). Each call performs exactly one connect, send and receive cycle
against a single target. Failures are classified into a closed set of reasons
(for example connection refused or empty response) and carry operator-facing
remediation text describing likely causes and suggested actions.

The library is organised as a hexagon: the transaction engine lives in internal/runtime,
its collaborators such as log storage and crash capture are ports in pkg/ports
with adapters under pkg/adapters, and the same operation is exposed over a CLI, an
HTTP/JSON API and MCP tools.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/hexwire"
		"github.com/aretw0/hexwire/pkg/domain"
	)

	func main() {
		client := hexwire.New()

		resp, err := client.Send(context.Background(), "192.168.1.10", 502, "01 03 00 00 00 02", nil)
		if err != nil {
			if f, ok := domain.AsFailure(err); ok {
				fmt.Println(f.Detail())
				return
			}
			log.Fatal(err)
		}
		fmt.Println(resp)
	}

A zero timeout falls back to the client default of five seconds. Host names are rejected
unless a resolver is configured with WithResolver.
*/
package hexwire
