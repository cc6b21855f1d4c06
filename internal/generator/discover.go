package generator

import (
	"errors"
	"log/slog"

	inknet "HandwritingBoard/internal/net"
)

// ServiceType is the mDNS service a LAN generation server advertises.
const ServiceType = "_handwriting._tcp"

var ErrNotFound = errors.New("generator: no service found on the local network")

// Discover looks up a generation server on the LAN and returns its base URL.
func Discover(logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var endpoint string
	err := inknet.Browse(ServiceType, func(s inknet.Service) {
		if endpoint == "" {
			endpoint = "http://" + s.Addr
			logger.Info("generation service discovered", "addr", s.Addr, "info", s.Info)
		}
	})
	if err != nil {
		return "", err
	}
	if endpoint == "" {
		return "", ErrNotFound
	}
	return endpoint, nil
}
