package detector

// abs16 rectifies a signed 16-bit value. The three peak detectors below
// all operate on rectified signals even though only one of them
// (peakDetectorI) is itself unsigned to begin with.
func abs16(v int16) int16 {
	if v == -32768 {
		return 32767
	}

	if v < 0 {
		return -v
	}

	return v
}

// peakDetectorI is the MVA 3-point local-maximum detector (§4.6). It
// emits the previous sample whenever it was a local max -- i.e. the
// current sample has fallen back at or below it, and it was itself
// above the sample before it -- otherwise it emits 0. The two-sample
// history shifts on every call regardless of whether a peak fired.
func (s *state) peakDetectorI(mva uint16) uint16 {
	var peaki uint16

	if mva <= s.prevMVA && s.prevMVA > s.prevPrevMVA {
		peaki = s.prevMVA
	}

	s.prevPrevMVA = s.prevMVA
	s.prevMVA = mva

	return peaki
}

// peakDetectorBP tracks the largest rectified BP peak seen since the
// last reset (§4.6); unlike peakDetectorI it never emits per-sample --
// the running max is consumed directly at decision time and cleared
// there.
func (s *state) peakDetectorBP(hpf int16) {
	rectified := abs16(hpf)

	if rectified <= s.prevBP && s.prevBP > s.prevPrevBP {
		if s.prevBP > s.bestPeakBP {
			s.bestPeakBP = s.prevBP
		}
	}

	s.prevPrevBP = s.prevBP
	s.prevBP = rectified
}

// peakDetectorDR is peakDetectorBP's twin over the rectified derivative
// signal, feeding T-wave discrimination (§4.8) instead of the BP
// confirmation threshold.
func (s *state) peakDetectorDR(drf int16) {
	rectified := abs16(drf)

	if rectified <= s.prevDR && s.prevDR > s.prevPrevDR {
		if s.prevDR > s.bestPeakDR {
			s.bestPeakDR = s.prevDR
		}
	}

	s.prevPrevDR = s.prevDR
	s.prevDR = rectified
}

// blankTimeGate implements the 200ms "keep the tallest peak" window of
// §4.7. peaki is this sample's raw peakDetectorI output; the return
// value is what the decision state machine actually sees.
//
// The third branch's decrement-when-not-taller case is easy to miss
// (§9's open question calls it out explicitly) -- a peak that arrives
// while a window is already open, but isn't tall enough to restart it,
// still counts down the existing window like any quiet sample would.
func (s *state) blankTimeGate(peaki uint16) uint16 {
	switch {
	case peaki == 0 && s.blankCnt > 0:
		s.blankCnt--

		if s.blankCnt == 0 {
			return s.peakiTemp
		}

		return 0

	case peaki > 0 && s.blankCnt == 0:
		s.blankCnt = pt200ms
		s.peakiTemp = peaki

		return 0

	case peaki > 0:
		if peaki > s.peakiTemp {
			s.blankCnt = pt200ms
			s.peakiTemp = peaki

			return 0
		}

		s.blankCnt--

		if s.blankCnt == 0 {
			return s.peakiTemp
		}

		return 0

	default:
		return 0
	}
}
