package detector

// updateThI adapts the integrated-signal (MVA) threshold pair (§4.9).
// noise selects which of the two running levels -- signal peak or noise
// peak -- absorbs this observation; both levels feed thI1/thI2 on every
// call regardless of which one moved.
func (s *state) updateThI(peak uint16, noise bool) {
	if noise {
		s.npki = s.npki - s.npki/8 + peak/8
	} else {
		s.spki = s.spki - s.spki/8 + peak/8
	}

	s.thI1 = s.npki + (s.spki-s.npki)/4
	s.thI2 = s.thI1 / 2
}

// updateThF is updateThI's structural twin over the band-pass fields.
func (s *state) updateThF(peak int16, noise bool) {
	if noise {
		s.npkf = s.npkf - s.npkf/8 + peak/8
	} else {
		s.spkf = s.spkf - s.spkf/8 + peak/8
	}

	s.thF1 = s.npkf + (s.spkf-s.npkf)/4
	s.thF2 = s.thF1 / 2
}

// updateRR folds a new RR interval into both rolling buffers and
// recomputes the acceptance/missed-beat limits (§4.10). The "recent"
// buffer absorbs every RR unconditionally; the "selected" buffer, and
// the limits it drives, only move when the interval falls inside the
// current regular band.
func (s *state) updateRR(qrs int16) {
	s.rr1Sum += int32(qrs) - int32(s.rrAvrg1Buf[s.rr1Head])
	s.rrAvrg1Buf[s.rr1Head] = qrs
	s.rr1Head = (s.rr1Head + 1) % rrBufLen
	s.recentRRMean = int16(s.rr1Sum / rrBufLen)

	if qrs >= s.rrLowL && qrs <= s.rrHighL {
		s.rr2Sum += int32(qrs) - int32(s.rrAvrg2Buf[s.rr2Head])
		s.rrAvrg2Buf[s.rr2Head] = qrs
		s.rr2Head = (s.rr2Head + 1) % rrBufLen
		s.rrMean = int16(s.rr2Sum / rrBufLen)

		s.rrLowL = s.recentRRMean - (s.recentRRMean*2)/25
		s.rrHighL = s.recentRRMean + (s.recentRRMean*4)/25
		s.rrMissedL = s.rrMean + (s.rrMean*33)/50
		s.hrState = Regular
	} else {
		s.rrMissedL = s.recentRRMean + (s.recentRRMean*33)/50
		s.thI1 >>= 1
		s.thF1 >>= 1
		s.thI2 = s.thI1 / 2
		s.thF2 = s.thF1 / 2
		s.hrState = Irregular
	}
}

// decide runs one sample through the §4.8 state machine and returns the
// beat delay produced by the *primary* decision path, if any; the
// search-back pass that follows it in ProcessSample may still override
// a zero result.
func (s *state) decide(peaki uint16) int16 {
	switch {
	case s.ptState == StartUp || s.ptState == LearnPh1:
		if s.countSinceRR < pt2000ms {
			s.learn(peaki)

			return 0
		}

		s.enterLearnPh2()

		return 0

	default:
		return s.decideLearnPh2OrDetecting(peaki)
	}
}

// learn accumulates the StartUp/LearnPh1 aggregates used to seed the
// adaptive thresholds. The asymmetry here -- st_mean_pk_bp is seeded
// from the *current* best_peak_bp but only averaged while in LearnPh1,
// while spkf is later initialized from best_peak_bp again rather than
// from st_mean_pk_bp -- is preserved exactly as specified; it is not a
// bug to "fix".
func (s *state) learn(peaki uint16) {
	if peaki == 0 {
		return
	}

	if peaki > s.stMxPk {
		s.stMxPk = peaki
	}

	switch s.ptState {
	case StartUp:
		s.stMeanPk = peaki
		s.stMeanPkBP = s.bestPeakBP
		s.ptState = LearnPh1
	case LearnPh1:
		s.stMeanPk = (s.stMeanPk + peaki) / 2
		s.stMeanPkBP = (s.stMeanPkBP + s.bestPeakBP) / 2
	}
}

// enterLearnPh2 seeds both adaptive threshold pairs from the learning
// aggregates and transitions out of the learning phases (§4.8). It
// fires exactly once, on the first sample where count_since_rr reaches
// pt2000ms, regardless of whether any peak was ever observed during
// learning (a silent ECG produces a LearnPh2 seeded entirely with
// zeros, which is the expected, harmless outcome).
func (s *state) enterLearnPh2() {
	s.spki = s.stMxPk / 2
	s.npki = s.stMeanPk / 8
	s.thI1 = s.npki + (s.spki-s.npki)/4
	s.thI2 = s.thI1 / 2

	s.spkf = s.bestPeakBP / 2
	s.npkf = s.stMeanPkBP / 8
	s.thF1 = s.npkf + (s.spkf-s.npkf)/4
	s.thF2 = s.thF1 / 2

	s.ptState = LearnPh2
}

// decideLearnPh2OrDetecting implements the second bullet of §4.8: the
// candidate-beat / T-wave / noise classification that runs on every
// post-gate peak once learning has produced thresholds.
func (s *state) decideLearnPh2OrDetecting(peaki uint16) int16 {
	if peaki == 0 {
		return 0
	}

	if peaki > s.thI1 && s.bestPeakBP > s.thF1 {
		return s.confirmOrRejectCandidate(peaki)
	}

	s.trackNoiseCandidate(peaki)

	return 0
}

// confirmOrRejectCandidate handles a peak that cleared both thresholds.
// In LearnPh2 the very first such peak is accepted unconditionally (RR
// buffers are not touched -- there is no prior beat to measure an
// interval from). From Detecting onward it must additionally survive
// the T-wave test.
func (s *state) confirmOrRejectCandidate(peaki uint16) int16 {
	if s.ptState == LearnPh2 {
		s.updateThI(peaki, false)
		s.updateThF(s.bestPeakBP, false)
		s.confirmBeat()
		s.ptState = Detecting

		return GeneralDelay + pt200ms
	}

	if s.countSinceRR < pt360ms && s.bestPeakDR < s.oldPeakDR/4 {
		// T wave: update thresholds as noise, leave everything else
		// (RR, count_since_rr, search-back registers) untouched.
		s.updateThI(peaki, true)
		s.updateThF(s.bestPeakBP, true)

		return 0
	}

	s.updateThI(peaki, false)
	s.updateThF(s.bestPeakBP, false)
	s.updateRR(s.countSinceRR)
	s.confirmBeat()
	s.clearSearchBack()

	return GeneralDelay + pt200ms
}

// trackNoiseCandidate handles a peak that failed the dual-threshold
// test: thresholds still adapt (as noise), and -- outside the 360ms
// refractory -- it becomes the new search-back candidate if it is the
// tallest seen since the last confirmed beat.
func (s *state) trackNoiseCandidate(peaki uint16) {
	s.updateThI(peaki, true)
	s.updateThF(s.bestPeakBP, true)

	if peaki > s.sbPeakI && s.countSinceRR >= pt360ms {
		s.sbCntI = uint16(s.countSinceRR)
		s.sbPeakI = peaki
		s.sbPeakBP = s.bestPeakBP
		s.sbPeakDR = s.bestPeakDR
	}
}

// confirmBeat snapshots the derivative peak for the next T-wave test
// and clears the running BP/DR maxima for the next beat-to-beat window.
func (s *state) confirmBeat() {
	s.countSinceRR = 0
	s.oldPeakDR = s.bestPeakDR
	s.bestPeakDR = 0
	s.bestPeakBP = 0
}

func (s *state) clearSearchBack() {
	s.sbCntI = 0
	s.sbPeakI = 0
	s.sbPeakBP = 0
	s.sbPeakDR = 0
}

// searchBack promotes the tallest noise-classified peak seen outside
// the refractory window to a confirmed beat once too long has passed
// since the last one (§4.8's search-back paragraph). It only runs, and
// only has anything to promote, once the state machine has reached
// Detecting.
func (s *state) searchBack() int16 {
	if s.ptState != Detecting {
		return 0
	}

	if !(s.countSinceRR > s.rrMissedL && s.sbPeakI > s.thI2 && s.sbPeakBP > s.thF2) {
		return 0
	}

	s.updateThI(s.sbPeakI, false)
	s.updateThF(s.sbPeakBP, false)
	s.updateRR(int16(s.sbCntI))

	delay := (s.countSinceRR - int16(s.sbCntI)) + GeneralDelay + pt200ms
	s.countSinceRR -= int16(s.sbCntI)

	s.oldPeakDR = s.sbPeakDR
	s.bestPeakDR = 0
	s.bestPeakBP = 0
	s.clearSearchBack()

	return delay
}
