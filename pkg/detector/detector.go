package detector

// Detector is one independent QRS-detection pipeline over one ECG
// stream. All state is owned by the instance; nothing here is safe to
// share across goroutines, and multiple concurrent streams each need
// their own Detector (§5). The zero value is not ready to use -- call
// NewDetector or Init first.
type Detector struct {
	s state

	stats Stats
}

// Stats is purely-additive operational instrumentation: none of it
// feeds back into the detection algorithm, so it is safe to read from
// another goroutine as long as ProcessSample isn't running concurrently
// with the read (the same rule that applies to every other field).
type Stats struct {
	SamplesProcessed int64
	BeatsEmitted     int64
	Resets           int64
	TWavesRejected   int64
	SearchBacks      int64
}

// NewDetector returns a Detector ready to accept samples, equivalent to
// zero-value-then-Init.
func NewDetector() *Detector {
	d := &Detector{}
	d.Init()

	return d
}

// Init (re)initializes all state and installs the startup constants of
// §4.10, leaving the state machine in StartUp. Calling Init twice in a
// row is equivalent to calling it once (§8's reset-idempotence law).
func (d *Detector) Init() {
	d.s.reset()
}

// ProcessSample consumes one 16-bit signed ECG sample and returns the
// beat delay: 0 if no beat was reported this sample, otherwise the
// number of samples ago the R-peak occurred. The caller recovers the
// absolute sample index as sampleCount - delay (§4.11).
//
// The order below -- LP, HP, BP-peak, derivative, DR-peak, square, MVA,
// MVA-peak, blank-time gate, decision, search-back -- is a contract
// (§5): reordering it changes results for a given input stream.
func (d *Detector) ProcessSample(x int16) int16 {
	s := &d.s

	d.stats.SamplesProcessed++

	lpf := s.lowPass(x)
	hpf := s.highPass(lpf)

	s.peakDetectorBP(hpf)

	drf := s.derivative(hpf)

	s.peakDetectorDR(drf)

	sqf := square(drf)
	mva := s.movingAverage(sqf)

	s.lpfVal = lpf
	s.hpfVal = hpf
	s.drfVal = drf
	s.sqfVal = sqf
	s.mvaVal = mva

	peaki := s.peakDetectorI(mva)
	gated := s.blankTimeGate(peaki)

	s.countSinceRR++

	if s.countSinceRR > pt4000ms {
		d.stats.Resets++
		s.reset()

		return 0
	}

	// The T-wave branch of confirmOrRejectCandidate is taken exactly when
	// this holds; it is tested here, before decide mutates the state.
	if s.ptState == Detecting && gated > s.thI1 && s.bestPeakBP > s.thF1 &&
		s.countSinceRR < pt360ms && s.bestPeakDR < s.oldPeakDR/4 {
		d.stats.TWavesRejected++
	}

	beatDelay := s.decide(gated)

	if sb := s.searchBack(); sb > 0 {
		beatDelay = sb

		d.stats.SearchBacks++
	}

	if beatDelay > 0 {
		d.stats.BeatsEmitted++
	}

	return beatDelay
}

// --- Introspection accessors (§6). One per quantity, read-only. ---

func (d *Detector) LPFVal() int16    { return d.s.lpfVal }
func (d *Detector) HPFVal() int16    { return d.s.hpfVal }
func (d *Detector) DRFVal() int16    { return d.s.drfVal }
func (d *Detector) SQFVal() uint16   { return d.s.sqfVal }
func (d *Detector) MVAVal() uint16   { return d.s.mvaVal }
func (d *Detector) ThI1() uint16     { return d.s.thI1 }
func (d *Detector) ThF1() int16      { return d.s.thF1 }
func (d *Detector) SPKI() uint16     { return d.s.spki }
func (d *Detector) NPKI() uint16     { return d.s.npki }
func (d *Detector) SPKF() int16      { return d.s.spkf }
func (d *Detector) NPKF() int16      { return d.s.npkf }
func (d *Detector) HRState() HRState { return d.s.hrState }
func (d *Detector) State() State     { return d.s.ptState }

// ShortTimeHR returns 60 * fs / recentRRMean (0 if either is not
// positive): the heart rate implied
// by the last 8 RR intervals regardless of whether they were regular.
func (d *Detector) ShortTimeHR(fs int) int {
	return heartRate(d.s.recentRRMean, fs)
}

// LongTimeHR returns 60 * fs / rrMean (0 if either is not positive):
// the heart rate implied by the
// last 8 RR intervals that fell within the regular band.
func (d *Detector) LongTimeHR(fs int) int {
	return heartRate(d.s.rrMean, fs)
}

func heartRate(meanRR int16, fs int) int {
	if meanRR <= 0 || fs <= 0 {
		return 0
	}

	return 60 * fs / int(meanRR)
}

// Stats returns the accumulated operational counters (§"Supplemented
// features" in SPEC_FULL.md). These are diagnostic only; they play no
// part in the detection algorithm itself.
func (d *Detector) Stats() Stats {
	return d.stats
}

// Snapshot is a read-only copy of every §6 introspection accessor, taken
// in one call. It exists so a sink polling state every sample -- the
// CSV writer, or a live meter reading from a different goroutine's
// last-known-good copy -- doesn't pay for a method call per field.
type Snapshot struct {
	LPFVal  int16
	HPFVal  int16
	DRFVal  int16
	SQFVal  uint16
	MVAVal  uint16
	ThI1    uint16
	ThF1    int16
	SPKI    uint16
	NPKI    uint16
	SPKF    int16
	NPKF    int16
	HRState HRState
	State   State
}

func (d *Detector) Snapshot() Snapshot {
	return Snapshot{
		LPFVal:  d.s.lpfVal,
		HPFVal:  d.s.hpfVal,
		DRFVal:  d.s.drfVal,
		SQFVal:  d.s.sqfVal,
		MVAVal:  d.s.mvaVal,
		ThI1:    d.s.thI1,
		ThF1:    d.s.thF1,
		SPKI:    d.s.spki,
		NPKI:    d.s.npki,
		SPKF:    d.s.spkf,
		NPKF:    d.s.npkf,
		HRState: d.s.hrState,
		State:   d.s.ptState,
	}
}
