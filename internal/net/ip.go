package net

import (
	"log/slog"
	"net"
)

// Interface listing, swappable in tests.
var (
	interfaces     = net.Interfaces
	interfaceAddrs = func(i net.Interface) ([]net.Addr, error) { return i.Addrs() }
)

// GetOutgoingIP finds the preferred local IP address to put in share links.
func GetOutgoingIP(logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		logger.Debug("no outbound route, scanning interfaces", "error", err)
		return firstIPv4(logger).String()
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// firstIPv4 returns the first non-loopback IPv4 address of an up interface.
func firstIPv4(logger *slog.Logger) net.IP {
	ifaces, err := interfaces()
	if err != nil {
		logger.Warn("listing network interfaces failed", "error", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := interfaceAddrs(iface)
		if err != nil {
			logger.Warn("reading interface addresses failed", "interface", iface.Name, "error", err)
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	logger.Warn("no suitable local IP found, share link uses loopback")
	return net.IPv4(127, 0, 0, 1)
}
