// Package discovery advertises a TCP bridge to the test stand's serial link
// via mDNS/DNS-SD, so a ground-station GUI running on a different machine
// than the one with the USB-serial adapter plugged in can find it without
// typing in an IP and port. Grounded directly on dns_sd.go's
// dns_sd_announce, same github.com/brutella/dnssd Config/NewService/
// NewResponder/Add/Respond call shape, different service type.
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// ServiceType is advertised instead of dns_sd.go's "_kiss-tnc._tcp", since
// this bridges RCP frames rather than KISS/AX.25 frames.
const ServiceType = "_rcp-bridge._tcp"

// Announcer advertises one RCP bridge service and can be stopped.
type Announcer struct {
	responder dnssd.Responder
	cancel    context.CancelFunc
}

// Announce advertises name (falling back to the hostname if empty) on port
// as an _rcp-bridge._tcp service, and starts responding to queries in the
// background.
func Announce(name string, port int) (*Announcer, error) {
	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("discovery: create service: %w", err)
	}

	resp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("discovery: create responder: %w", err)
	}

	if _, err := resp.Add(svc); err != nil {
		return nil, fmt.Errorf("discovery: add service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_ = resp.Respond(ctx)
	}()

	return &Announcer{responder: resp, cancel: cancel}, nil
}

// Stop withdraws the advertisement.
func (a *Announcer) Stop() {
	a.cancel()
}
