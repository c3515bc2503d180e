// Package detector implements a real-time, fixed-point QRS (R-peak)
// detector for a single-lead ECG stream sampled at 200 Hz.
//
// It is a Pan-Tompkins style cascade: a band-pass filter pair, a
// derivative filter, a squaring stage, a moving-average integrator, two
// peak detectors, and an adaptive dual-threshold decision state machine
// with search-back and T-wave discrimination. Every stage is integer
// arithmetic: mostly adds, subtracts and shifts, plus the multiply of
// the squaring stage, the divide by the window length in the moving
// average, and the /25 and /50 fractions of the RR limits in updateRR.
// No floating point is used, so it is safe to run on targets without a
// hardware FPU.
package detector

// Sample rate the constants below assume. Changing it without also
// rescaling every *MS constant produces a detector tuned for the wrong
// heart rate range; see pkg/config for the (rejected-by-default) escape
// hatch.
const SamplesPerSecond = 200

// Time-window constants, expressed in samples at 200 Hz.
const (
	pt200ms  = 40  // blank-time window; also added to every beat delay
	pt360ms  = 72  // T-wave discrimination window
	pt1000ms = 200 // one second; initial RR estimate
	pt2000ms = 400 // learning-phase-1 duration
	pt4000ms = 800 // stall-recovery ceiling on count_since_rr
)

// GeneralDelay is the cumulative filter-group delay, in samples, from ADC
// input to MVA peak: LP(5) + HP(16) + derivative(2) + MVA(15) = 38.
const GeneralDelay = 5 + 16 + 2 + 15

// Ring-buffer sizes for each filter stage.
const (
	lpBufLen  = 12
	hpBufLen  = 32
	drBufLen  = 4
	mvaBufLen = 30
	rrBufLen  = 8
)

// Squaring-stage and MVA clamp values (§4.4, §4.5 of the design).
const (
	sqrLimVal = 256   // |drf_val| above this saturates sqf_val to 0xFFFF
	sqrLimOut = 30000 // squared output hard limit
	mvaLimVal = 32000 // mva_val hard limit after normalization
)

// State is the four-phase learning/detecting state of the decision
// state machine (§4.8).
type State int

const (
	StartUp State = iota
	LearnPh1
	LearnPh2
	Detecting
)

func (s State) String() string {
	switch s {
	case StartUp:
		return "StartUp"
	case LearnPh1:
		return "LearnPh1"
	case LearnPh2:
		return "LearnPh2"
	case Detecting:
		return "Detecting"
	default:
		return "Unknown"
	}
}

// HRState reports whether the last RR interval fell inside the adaptive
// regular band (§4.10).
type HRState int

const (
	Regular HRState = iota
	Irregular
)

func (h HRState) String() string {
	if h == Irregular {
		return "Irregular"
	}

	return "Regular"
}
