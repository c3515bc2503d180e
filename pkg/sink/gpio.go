package sink

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOBeatIndicator toggles a GPIO line high for pulseWidth on each
// confirmed beat, driving an LED or buzzer -- the nearest idiomatic Go
// analogue of the teacher's PTT (push-to-talk) keying line, repurposed
// from "keying a transmitter" to "flashing a heartbeat".
type GPIOBeatIndicator struct {
	line       *gpiocdev.Line
	pulseWidth time.Duration
}

// NewGPIOBeatIndicator requests offset on chip (e.g. "gpiochip0") as an
// output line, initially low.
func NewGPIOBeatIndicator(chip string, offset int, pulseWidth time.Duration) (*GPIOBeatIndicator, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("sink: requesting gpio line %s:%d: %w", chip, offset, err)
	}

	return &GPIOBeatIndicator{line: line, pulseWidth: pulseWidth}, nil
}

// Beat drives the line high, then schedules it low again after
// pulseWidth without blocking the caller -- a detector's beat delay can
// arrive from the middle of the processing loop, which must not stall
// waiting on GPIO timing.
func (g *GPIOBeatIndicator) Beat() error {
	if err := g.line.SetValue(1); err != nil {
		return fmt.Errorf("sink: setting gpio line high: %w", err)
	}

	go func() {
		time.Sleep(g.pulseWidth)
		_ = g.line.SetValue(0)
	}()

	return nil
}

// Close releases the GPIO line.
func (g *GPIOBeatIndicator) Close() error {
	if err := g.line.Close(); err != nil {
		return fmt.Errorf("sink: closing gpio line: %w", err)
	}

	return nil
}
