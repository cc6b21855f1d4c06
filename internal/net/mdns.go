package net

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/mdns"
)

// PadService is the mDNS service type the editor host advertises for
// remote pads.
const PadService = "_inkboard._tcp"

// Service is one browse result.
type Service struct {
	Addr string
	Info []string
}

// Advertise publishes service on port until the returned server is shut down.
func Advertise(service string, port int, info []string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	zone, err := mdns.NewMDNSService(host, service, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: zone})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse runs one lookup for service and calls found for every IPv4 entry.
// It returns once the lookup window has closed and every entry is handled.
func Browse(service string, found func(Service)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Service{Addr: fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port), Info: e.InfoFields})
		}
	}()
	err := mdns.Lookup(service, entries)
	close(entries)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("mdns lookup %s: %w", service, err)
	}
	return nil
}
