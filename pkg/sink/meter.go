package sink

import (
	"fmt"
	"io"

	"github.com/pkg/term"

	"github.com/doismellburning/qrsdetect/pkg/detector"
)

// Meter is a live terminal heart-rate display: a running beat-tick
// counter and the detector's short/long-time HR (spec.md §6), refreshed
// on every confirmed beat. It puts its input device into raw mode, the
// same technique the teacher's serial console handling uses, so a
// single keypress can quit the loop without waiting on Enter.
//
// The quit key is watched on its own goroutine rather than polled
// between samples: a raw-mode read blocks until a byte arrives, and a
// live-capture loop that called a blocking read once per sample would
// stall waiting for a keypress that may never come.
type Meter struct {
	in   *term.Term
	out  io.Writer
	quit chan struct{}

	beats int64
}

// OpenMeter puts inputDevice (typically "/dev/tty", or a pty slave path
// in tests) into raw mode and returns a Meter that writes to out
// (typically os.Stdout).
func OpenMeter(inputDevice string, out io.Writer) (*Meter, error) {
	t, err := term.Open(inputDevice, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("sink: opening %s in raw mode: %w", inputDevice, err)
	}

	m := &Meter{
		in:   t,
		out:  out,
		quit: make(chan struct{}),
	}

	go m.watchQuitKey()

	return m, nil
}

func (m *Meter) watchQuitKey() {
	buf := make([]byte, 1)

	for {
		n, err := m.in.Read(buf)
		if err != nil {
			return
		}

		if n > 0 && (buf[0] == 'q' || buf[0] == 0x03) {
			close(m.quit)

			return
		}
	}
}

// Beat records one confirmed beat and repaints the meter line.
func (m *Meter) Beat(d *detector.Detector) {
	m.beats++

	fmt.Fprintf(m.out, "\rbeats=%-6d short_hr=%-3d long_hr=%-3d state=%-10s\r\n",
		m.beats,
		d.ShortTimeHR(detector.SamplesPerSecond),
		d.LongTimeHR(detector.SamplesPerSecond),
		d.State(),
	)
}

// QuitChan closes once the quit key ('q' or Ctrl-C) has been read from
// the input device. A live-capture loop selects on it alongside its
// sample channel and signal channel.
func (m *Meter) QuitChan() <-chan struct{} {
	return m.quit
}

// Close restores the terminal to its prior mode. The watchQuitKey
// goroutine exits on its own once the subsequent Read fails against
// the now-closed/restored device.
func (m *Meter) Close() error {
	if err := m.in.Restore(); err != nil {
		m.in.Close()

		return fmt.Errorf("sink: restoring terminal: %w", err)
	}

	return m.in.Close()
}
