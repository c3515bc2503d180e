package source

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/term"
)

// SerialReader reads bare 2-byte big-endian int16 samples -- the
// payload of NetReader's frames, without its 2-byte length prefix --
// from a raw-mode serial port, the way the teacher's
// serial_port.go opens a TNC's serial link with github.com/pkg/term
// rather than the standard library (which has no portable serial
// support). A USB ECG dongle enumerating as a CDC-ACM device is the
// typical source at the other end.
type SerialReader struct {
	t       *term.Term
	samples chan int16
	err     error
}

// OpenSerial opens device at baud (0 leaves the current speed alone,
// matching serial_port_open's convention) and starts reading samples.
func OpenSerial(device string, baud int) (*SerialReader, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("source: opening serial port %s: %w", device, err)
	}

	if baud != 0 {
		if err := t.SetSpeed(baud); err != nil {
			t.Close()

			return nil, fmt.Errorf("source: setting speed %d on %s: %w", baud, device, err)
		}
	}

	r := &SerialReader{
		t:       t,
		samples: make(chan int16, 256),
	}

	go r.run()

	return r, nil
}

func (r *SerialReader) run() {
	defer close(r.samples)

	var payload [2]byte

	for {
		if _, err := io.ReadFull(r.t, payload[:]); err != nil {
			if err != io.EOF {
				r.err = fmt.Errorf("source: reading serial sample: %w", err)
			}

			return
		}

		r.samples <- int16(binary.BigEndian.Uint16(payload[:]))
	}
}

func (r *SerialReader) Samples() <-chan int16 { return r.samples }
func (r *SerialReader) Err() error            { return r.err }
func (r *SerialReader) Close() error          { return r.t.Close() }
