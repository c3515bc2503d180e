package detector

// state holds every mutable register the detector needs, grouped the way
// §3 of the design groups them. The reference implementation this was
// ported from kept several of these ("free" peak-tracking registers) as
// file-local statics outside the main aggregate; there is no functional
// reason to split them from the rest, and doing so would break running
// more than one stream at a time, so they all live here.
type state struct {
	// Filter ring buffers and their head indices.
	lpBuf  [lpBufLen]int16
	hpBuf  [hpBufLen]int16
	drBuf  [drBufLen]int16
	mvaBuf [mvaBufLen]uint16

	lpHead  int
	hpHead  int
	mvaHead int

	// Direct-Form-I transients carried between calls.
	lpYNew int16 // LP recursive y[n-1]
	lpYOld int16 // LP recursive y[n-2]
	yH     int16 // HP recursive accumulator
	mvSum  uint16 // MVA running sum

	// Most recent filter outputs.
	lpfVal int16
	hpfVal int16
	drfVal int16
	sqfVal uint16
	mvaVal uint16

	// MVA 3-point local-max history.
	prevMVA     uint16
	prevPrevMVA uint16

	// BP rectified running max since last reset.
	prevBP     int16
	prevPrevBP int16
	bestPeakBP int16

	// Derivative rectified running max since last reset, plus the
	// snapshot taken at the most recently confirmed beat.
	prevDR     int16
	prevPrevDR int16
	bestPeakDR int16
	oldPeakDR  int16

	// Blank-time gate.
	blankCnt   int16
	peakiTemp  uint16

	// Adaptive thresholds, integrated-signal side.
	spki  uint16
	npki  uint16
	thI1  uint16
	thI2  uint16

	// Adaptive thresholds, band-pass side.
	spkf  int16
	npkf  int16
	thF1  int16
	thF2  int16

	// RR tracking.
	rrAvrg1Buf [rrBufLen]int16
	rrAvrg2Buf [rrBufLen]int16
	rr1Head    int
	rr2Head    int
	rr1Sum     int32
	rr2Sum     int32

	recentRRMean int16
	rrMean       int16
	rrLowL       int16
	rrHighL      int16
	rrMissedL    int16
	hrState      HRState

	// Search-back registers.
	sbCntI   uint16
	sbPeakI  uint16
	sbPeakBP int16
	sbPeakDR int16

	// Learning aggregates (StartUp / LearnPh1).
	stMxPk     uint16
	stMeanPk   uint16
	stMeanPkBP int16

	countSinceRR int16
	ptState      State
}

// reset re-initializes every field to its startup value, exactly as a
// fresh zero-valued state plus the non-zero startup constants from §4.10.
// It is used both by Detector.Init and by the emergency stall-recovery
// path (§7.1), and the two must be indistinguishable afterwards.
func (s *state) reset() {
	*s = state{}

	for i := range s.rrAvrg1Buf {
		s.rrAvrg1Buf[i] = pt1000ms
	}

	for i := range s.rrAvrg2Buf {
		s.rrAvrg2Buf[i] = pt1000ms
	}

	s.rr1Sum = pt1000ms << 3
	s.rr2Sum = pt1000ms << 3

	s.recentRRMean = pt1000ms
	s.rrMean = pt1000ms
	s.rrLowL = 184
	s.rrHighL = 232
	s.rrMissedL = 332

	s.ptState = StartUp
}
