package detector

// ringIndex returns the index of the sample that is `age` samples old in
// a ring buffer of length n, given that buf[head] currently holds the
// oldest surviving sample (age == n). This is the one piece of index
// arithmetic every stage below shares.
func ringIndex(head, age, n int) int {
	return (head + (n - age)) % n
}

// lowPass implements the LP stage of §4.1, Direct Form I:
//
//	y[n] = 2*y[n-1] - y[n-2] + x[n] - 2*x[n-6] + x[n-12]
//
// lpBuf holds the raw input samples (not the filter output); the
// recursive half of the difference equation is carried in lpYNew/lpYOld,
// which are full-resolution (unshifted) accumulator state -- the >>5
// below is purely the presentation scaling applied to the exposed
// output, it is not fed back into the recursion. Overflow in the 16-bit
// intermediate sum is intentionally left unguarded (§4.1); Go's signed
// integer wraparound matches the reference's.
func (s *state) lowPass(x int16) int16 {
	xN12 := s.lpBuf[s.lpHead]
	xN6 := s.lpBuf[ringIndex(s.lpHead, 6, lpBufLen)]

	y := 2*s.lpYNew - s.lpYOld + x - 2*xN6 + xN12

	s.lpBuf[s.lpHead] = x
	s.lpHead = (s.lpHead + 1) % lpBufLen

	s.lpYOld = s.lpYNew
	s.lpYNew = y

	return y >> 5
}

// highPass implements the HP stage of §4.2:
//
//	y[n] = y[n-1] + x[n-32]/32 - x[n]/32 + x[n-16] - x[n-17]
//
// where x is the LP output. The two "/32" terms are computed as
// arithmetic right shifts (§9: division is never replaced by a shift
// except where the reference already uses one; a divide-by-a-power-of-
// two is exactly such a shift, not one of the two true divisions called
// out in §4.5/§4.10). hpBuf holds the LP output stream; yH is the
// recursive accumulator, exposed as hpfVal = yH >> 1.
func (s *state) highPass(x int16) int16 {
	xN32 := s.hpBuf[s.hpHead]
	xN16 := s.hpBuf[ringIndex(s.hpHead, 16, hpBufLen)]
	xN17 := s.hpBuf[ringIndex(s.hpHead, 17, hpBufLen)]

	s.yH = s.yH + (xN32 >> 5) - (x >> 5) + xN16 - xN17

	s.hpBuf[s.hpHead] = x
	s.hpHead = (s.hpHead + 1) % hpBufLen

	return s.yH >> 1
}

// derivative implements the 5-point derivative of §4.3:
//
//	y[n] = (2*x[n] + x[n-1] - x[n-3] - 2*x[n-4]) >> 3
//
// using the 4-tap shift line drBuf (no ring pointer, per §4.3 -- the
// window is small enough that shifting taps every sample is cheaper
// than indexing). Input is hpfVal.
func (s *state) derivative(x int16) int16 {
	y := (2*x + s.drBuf[0] - s.drBuf[2] - 2*s.drBuf[3]) >> 3

	s.drBuf[3] = s.drBuf[2]
	s.drBuf[2] = s.drBuf[1]
	s.drBuf[1] = s.drBuf[0]
	s.drBuf[0] = x

	return y
}

// square implements §4.4. Clamps are applied strictly in the documented
// order: a derivative magnitude over sqrLimVal saturates to 0xFFFF
// before squaring is even attempted (it would overflow uint16 squared),
// then the squared magnitude is hard-limited to sqrLimOut.
func square(drf int16) uint16 {
	mag := int32(drf)
	if mag < 0 {
		mag = -mag
	}

	if mag > sqrLimVal {
		return 0xFFFF
	}

	sq := uint32(mag * mag)
	if sq > sqrLimOut {
		return sqrLimOut
	}

	return uint16(sq)
}

// movingAverage implements the §4.5 integrator: a running sum over the
// last mvaBufLen squared samples, saturating on add and clamping to
// zero rather than going negative on subtract (the reference never
// trusts the sum to stay in range, since sqfVal can arrive at its
// saturated ceiling every sample).
func (s *state) movingAverage(sqf uint16) uint16 {
	sum := uint32(s.mvSum) + uint32(sqf)
	if sum > 0xFFFF {
		sum = 0xFFFF
	}

	oldest := s.mvaBuf[s.mvaHead]
	if uint16(sum) > oldest {
		sum -= uint32(oldest)
	} else {
		sum = 0
	}

	s.mvaBuf[s.mvaHead] = sqf
	s.mvaHead = (s.mvaHead + 1) % mvaBufLen
	s.mvSum = uint16(sum)

	mva := s.mvSum / mvaBufLen
	if mva > mvaLimVal {
		mva = mvaLimVal
	}

	return mva
}
