package detector

import (
	"reflect"
	"testing"
)

func TestInitIsIdempotent(t *testing.T) {
	d := NewDetector()

	for i := int16(0); i < 50; i++ {
		d.ProcessSample(i * 37)
	}

	once := &Detector{}
	once.Init()

	twice := &Detector{}
	twice.Init()
	twice.Init()

	if !reflect.DeepEqual(once.s, twice.s) {
		t.Fatalf("Init(); Init() diverged from a single Init()")
	}
}

func TestStallRecoveryMatchesFreshDetector(t *testing.T) {
	d := NewDetector()

	// Feed a few real samples first so there is state to discard, then
	// enough silence to push count_since_rr past the 800-sample stall
	// ceiling. count_since_rr already counts the 100 real samples, so the
	// reset fires on the last silent sample and nothing runs after it.
	for i := int16(0); i < 100; i++ {
		d.ProcessSample(200)
	}

	for i := 0; i < pt4000ms+1-100; i++ {
		d.ProcessSample(0)
	}

	fresh := NewDetector()

	if !reflect.DeepEqual(d.s, fresh.s) {
		t.Fatalf("state after a stall reset is not observably equal to a fresh detector:\ngot:  %+v\nwant: %+v", d.s, fresh.s)
	}

	if d.stats.Resets != 1 {
		t.Fatalf("Resets = %d, want exactly 1", d.stats.Resets)
	}
}

func TestCountSinceRRStaysWithinBounds(t *testing.T) {
	d := NewDetector()

	for i := 0; i < 5000; i++ {
		d.ProcessSample(int16((i * 131) % 400))

		if d.s.countSinceRR < 0 || d.s.countSinceRR > pt4000ms {
			t.Fatalf("sample %d: countSinceRR = %d, out of [0,%d]", i, d.s.countSinceRR, pt4000ms)
		}

		if d.s.blankCnt < 0 || d.s.blankCnt > pt200ms {
			t.Fatalf("sample %d: blankCnt = %d, out of [0,%d]", i, d.s.blankCnt, pt200ms)
		}

		if d.s.lpHead < 0 || d.s.lpHead >= lpBufLen {
			t.Fatalf("sample %d: lpHead out of range: %d", i, d.s.lpHead)
		}

		if d.s.hpHead < 0 || d.s.hpHead >= hpBufLen {
			t.Fatalf("sample %d: hpHead out of range: %d", i, d.s.hpHead)
		}

		if d.s.mvaHead < 0 || d.s.mvaHead >= mvaBufLen {
			t.Fatalf("sample %d: mvaHead out of range: %d", i, d.s.mvaHead)
		}

		if d.s.rr1Head < 0 || d.s.rr1Head >= rrBufLen || d.s.rr2Head < 0 || d.s.rr2Head >= rrBufLen {
			t.Fatalf("sample %d: rr head out of range: rr1=%d rr2=%d", i, d.s.rr1Head, d.s.rr2Head)
		}

		var wantSum1, wantSum2 int32
		for _, v := range d.s.rrAvrg1Buf {
			wantSum1 += int32(v)
		}

		for _, v := range d.s.rrAvrg2Buf {
			wantSum2 += int32(v)
		}

		if d.s.rr1Sum != wantSum1 {
			t.Fatalf("sample %d: rr1Sum = %d, want %d (sum of buffer)", i, d.s.rr1Sum, wantSum1)
		}

		if d.s.rr2Sum != wantSum2 {
			t.Fatalf("sample %d: rr2Sum = %d, want %d (sum of buffer)", i, d.s.rr2Sum, wantSum2)
		}

		if d.s.thI2 != d.s.thI1/2 {
			t.Fatalf("sample %d: thI2 = %d, want thI1/2 = %d", i, d.s.thI2, d.s.thI1/2)
		}

		if d.s.thF2 != d.s.thF1/2 {
			t.Fatalf("sample %d: thF2 = %d, want thF1/2 = %d", i, d.s.thF2, d.s.thF1/2)
		}
	}
}
