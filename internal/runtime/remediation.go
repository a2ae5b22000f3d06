package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
)

var wellKnownPorts = map[uint16]string{
	21:   "FTP",
	22:   "SSH",
	25:   "SMTP",
	80:   "HTTP",
	110:  "POP3",
	143:  "IMAP",
	443:  "HTTPS",
	1433: "MSSQL",
	3306: "MySQL",
	5432: "PostgreSQL",
}

// PortLabel renders a port, naming the service when the port is well known.
func PortLabel(port uint16) string {
	if svc, ok := wellKnownPorts[port]; ok {
		return fmt.Sprintf("%d (well-known port: %s)", port, svc)
	}
	return fmt.Sprintf("%d", port)
}

type advice struct {
	causes  []string
	actions []string
}

// Remediation returns operator guidance for a failure: a numbered list of likely
// causes followed by suggested actions.
func Remediation(f *domain.Failure, host string, port uint16, timeout time.Duration) string {
	a := adviceFor(f.Reason, f.Stage, host, port, timeout)

	var sb strings.Builder
	if len(a.causes) > 0 {
		sb.WriteString("Likely causes:\n")
		for i, c := range a.causes {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Suggested actions:\n")
	for _, act := range a.actions {
		fmt.Fprintf(&sb, "- %s\n", act)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func adviceFor(reason domain.FailureReason, stage domain.Stage, host string, port uint16, timeout time.Duration) advice {
	switch reason {
	case domain.ReasonAddressFormatInvalid:
		return advice{
			causes: []string{
				fmt.Sprintf("%q is not a valid IPv4 or IPv6 address", host),
				"The port is outside 1-65535",
			},
			actions: []string{
				"Enter the device address as an IP literal such as 192.168.1.10",
				"Check the port number",
			},
		}
	case domain.ReasonPayloadFormatInvalid:
		return advice{
			causes: []string{
				"A token is not exactly two hexadecimal digits",
			},
			actions: []string{
				"Separate bytes with spaces, for example \"01 02 ff\"",
				"Pad single digits with a leading zero",
			},
		}
	case domain.ReasonConnectionRefused:
		return advice{
			causes: []string{
				fmt.Sprintf("No program is listening on port %s of %s", PortLabel(port), host),
				"A firewall rejected the connection",
				"The device is online but its service is not started",
			},
			actions: []string{
				"Check that the device is powered and running its service",
				"Verify the port number",
				"Check firewall settings",
			},
		}
	case domain.ReasonConnectionTimedOut:
		return advice{
			causes: []string{
				fmt.Sprintf("%s is offline or the network is congested", host),
				"A firewall on the device silently drops connection attempts",
				"A router or device on the path blocks the connection",
			},
			actions: []string{
				"Check that the device is powered and attached to the network",
				fmt.Sprintf("Run ping %s to test basic reachability", host),
				"Check network settings and firewalls",
			},
		}
	case domain.ReasonNetworkUnreachable:
		return advice{
			causes: []string{
				"The local network is misconfigured, for example no valid IP address",
				"The target is not on a network this machine can reach",
				"The routing table is wrong",
			},
			actions: []string{
				"Check the local network connection",
				fmt.Sprintf("Confirm %s is inside your network range", host),
				"Check gateway and route settings",
			},
		}
	case domain.ReasonNoRouteToHost:
		return advice{
			causes: []string{
				fmt.Sprintf("%s exists but an intermediate router blocks it", host),
				"An ACL or firewall rule on a router rejects the connection",
				"The target host is disabled or misconfigured",
			},
			actions: []string{
				fmt.Sprintf("Run traceroute %s to inspect the path", host),
				"Check firewall and ACL settings on network equipment",
				"Confirm the network configuration of the device",
			},
		}
	case domain.ReasonHostUnreachable:
		return advice{
			causes: []string{
				fmt.Sprintf("%s does not exist or is not assigned", host),
				"The local network received an ICMP host unreachable message",
				"The device is shut down or its interface is disabled",
			},
			actions: []string{
				"Confirm the IP address",
				"Check the network state of the device",
				fmt.Sprintf("Run ping %s and look for replies", host),
			},
		}
	case domain.ReasonConnectionReset:
		if stage == domain.StageReceiving {
			return advice{
				causes: []string{
					"The device crashed while handling the request",
					"The device closed the connection",
					"The device detected an anomaly and aborted the exchange",
				},
				actions: []string{
					"Check the device logs",
					"Confirm the command format",
					"Check whether the device firmware needs an update",
				},
			}
		}
		return advice{
			causes: []string{
				fmt.Sprintf("%s actively rejected the connection", host),
				"The service on the device crashed or is not answering correctly",
				"A firewall or security software interrupted the connection",
			},
			actions: []string{
				"Check that the application on the device is running",
				fmt.Sprintf("Confirm port %d is configured correctly", port),
				"Check the device logs",
			},
		}
	case domain.ReasonBrokenPipeOnSend:
		return advice{
			causes: []string{
				"The device closed the connection while data was being sent",
				"The network connection dropped",
				"The device received invalid data and closed the connection",
			},
			actions: []string{
				"Check device state and network stability",
				"Verify the payload format",
			},
		}
	case domain.ReasonSendTimedOut:
		return advice{
			causes: []string{
				"The network is congested or unstable",
				"The device cannot accept data fast enough",
				"The device is busy or not responding",
			},
			actions: []string{
				"Increase the timeout",
				"Check the device state",
				"Send a smaller payload",
			},
		}
	case domain.ReasonReceiveTimedOut:
		return advice{
			causes: []string{
				fmt.Sprintf("The device took longer than the configured timeout (%dms)", timeout.Milliseconds()),
				"The device needs more time to process the request",
				"The device received the request but did not finish processing it",
			},
			actions: []string{
				"Increase the timeout",
				"Check the device state",
				"Simplify the request",
			},
		}
	case domain.ReasonEmptyResponse:
		return advice{
			causes: []string{
				"The device accepted the request but had nothing to return",
				"The device protocol expects a differently formatted request",
				fmt.Sprintf("The device needs more than %dms to answer", timeout.Milliseconds()),
			},
			actions: []string{
				"Check the command format",
				"Verify the device supports the command",
				"Consider increasing the timeout",
			},
		}
	}

	switch stage {
	case domain.StageSending:
		return advice{actions: []string{
			"Check the network connection",
			"Confirm the device is running",
			"Verify the payload format",
		}}
	case domain.StageReceiving:
		return advice{actions: []string{
			"Check the network connection",
			"Confirm the device is still online",
			"Try connecting again",
		}}
	}
	return advice{actions: []string{
		"Check the network connection",
		"Verify the IP address and port",
		"Confirm the device state",
	}}
}
