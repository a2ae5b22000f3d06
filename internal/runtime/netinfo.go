package runtime

import (
	"net"
	"strings"
)

// localNetworkInfo summarises the non-loopback IPv4 addresses of this host for
// diagnostic logging, e.g. "eth0=192.168.1.4, wlan0=10.0.0.7".
func localNetworkInfo() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "interfaces unavailable"
	}

	var parts []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			parts = append(parts, iface.Name+"="+ipnet.IP.String())
		}
	}
	if len(parts) == 0 {
		return "no active interfaces, local=127.0.0.1"
	}
	return strings.Join(parts, ", ")
}
