// Package sink provides beat-output consumers for a pkg/detector.Detector:
// a per-sample CSV instrumentation writer, a GPIO beat indicator, and a
// live terminal heart-rate meter.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/doismellburning/qrsdetect/pkg/detector"
)

// csvHeader is the fixed header spec.md §6 requires -- column order and
// names are part of the external contract, not a style choice.
var csvHeader = []string{
	"Input", "LPFilter", "HPFilter", "DerivativeF", "SQRFilter", "MVAFilter",
	"RBeat", "RunningThI1", "SignalLevel", "NoiseLevel", "RunningThF",
}

// CSVWriter writes one row per sample, matching the teacher's
// atest.go-style per-sample instrumentation dump but through
// encoding/csv instead of hand-rolled fmt.Fprintf formatting.
type CSVWriter struct {
	w           *csv.Writer
	sampleCount int64
}

// NewCSVWriter wraps w and writes the fixed header immediately.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("sink: writing csv header: %w", err)
	}

	return &CSVWriter{w: cw}, nil
}

// WriteSample appends one row for the sample x that produced the given
// beatDelay (0 if no beat fired on this call) and snapshot. RBeat is
// sample_count - beat_delay when a beat fired, else 0, exactly as
// spec.md §6 defines it; sample_count is this writer's own count of
// rows written so far, starting at 1 for the first sample.
func (c *CSVWriter) WriteSample(x int16, beatDelay int16, snap detector.Snapshot) error {
	c.sampleCount++

	var rBeat int64
	if beatDelay != 0 {
		rBeat = c.sampleCount - int64(beatDelay)
	}

	row := []string{
		strconv.FormatInt(int64(x), 10),
		strconv.FormatInt(int64(snap.LPFVal), 10),
		strconv.FormatInt(int64(snap.HPFVal), 10),
		strconv.FormatInt(int64(snap.DRFVal), 10),
		strconv.FormatUint(uint64(snap.SQFVal), 10),
		strconv.FormatUint(uint64(snap.MVAVal), 10),
		strconv.FormatInt(rBeat, 10),
		strconv.FormatUint(uint64(snap.ThI1), 10),
		strconv.FormatUint(uint64(snap.SPKI), 10),
		strconv.FormatUint(uint64(snap.NPKI), 10),
		strconv.FormatInt(int64(snap.ThF1), 10),
	}

	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("sink: writing csv row: %w", err)
	}

	return nil
}

// Flush flushes any buffered rows and returns the first error, if any,
// the underlying csv.Writer encountered.
func (c *CSVWriter) Flush() error {
	c.w.Flush()

	return c.w.Error()
}
