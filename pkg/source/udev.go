package source

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// DeviceEvent is a hot-plug notification for a matching serial device
// node, e.g. "/dev/ttyACM0" appearing or disappearing.
type DeviceEvent struct {
	Action string // "add", "remove", "change"
	DevNode string
}

// WatchTTYDevices watches the "tty" subsystem for add/remove events
// and reports them on the returned channel until ctx is canceled. The
// teacher's device-oriented I/O (serial_port.go, cm108.go) assumes the
// device node already exists when it opens it; this adds a hot-plug
// wait a caller can use to block until a USB ECG dongle actually shows
// up, rather than polling os.Stat in a loop. Neither cmd/qrsdetect nor
// cmd/qrsmonitor calls it.
func WatchTTYDevices(ctx context.Context) (<-chan DeviceEvent, error) {
	u := &udev.Udev{}

	monitor := u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("source: filtering udev monitor on subsystem tty: %w", err)
	}

	deviceCh, err := monitor.DeviceChan(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: starting udev monitor: %w", err)
	}

	events := make(chan DeviceEvent, 16)

	go func() {
		defer close(events)

		for d := range deviceCh {
			node := d.Devnode()
			if node == "" {
				continue
			}

			select {
			case events <- DeviceEvent{Action: d.Action(), DevNode: node}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
