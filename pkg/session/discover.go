// Package session carries the metadata around one qrsmonitor capture
// run that is not part of the detection algorithm itself: an optional
// mDNS/DNS-SD advertisement of a live network stream, and dated
// filenames plus an optional capture-site location tagged onto a
// session's output.
package session

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

// ServiceType is the DNS-SD service type a qrsmonitor -net -discover
// session advertises itself under, the ECG-streaming analogue of the
// teacher's "_kiss-tnc._tcp".
const ServiceType = "_qrsdetect._tcp"

// Announcer advertises one live capture session over mDNS/DNS-SD.
type Announcer struct {
	responder dnssd.Responder
}

// Announce starts advertising name on port and begins responding to
// mDNS queries in a background goroutine, exactly as the teacher's
// dns_sd_announce does for its KISS-over-TCP service. Errors during
// the background responder's run are logged, not returned, since by
// that point the announcement has already started.
func Announce(ctx context.Context, logger *log.Logger, name string, port int) (*Announcer, error) {
	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: ServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: creating dns-sd service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("session: creating dns-sd responder: %w", err)
	}

	if _, err := responder.Add(svc); err != nil {
		return nil, fmt.Errorf("session: adding dns-sd service: %w", err)
	}

	logger.Info("announcing qrsmonitor session", "name", name, "port", port, "type", ServiceType)

	go func() {
		if err := responder.Respond(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dns-sd responder exited", "err", err)
		}
	}()

	return &Announcer{responder: responder}, nil
}
