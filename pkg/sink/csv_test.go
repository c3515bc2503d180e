package sink_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/qrsdetect/pkg/detector"
	"github.com/doismellburning/qrsdetect/pkg/sink"
)

func TestCSVWriterHeaderMatchesSpec(t *testing.T) {
	var buf bytes.Buffer

	_, err := sink.NewCSVWriter(&buf)
	require.NoError(t, err)

	want := "Input,LPFilter,HPFilter,DerivativeF,SQRFilter,MVAFilter,RBeat,RunningThI1,SignalLevel,NoiseLevel,RunningThF\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVWriterRBeatColumn(t *testing.T) {
	var buf bytes.Buffer

	w, err := sink.NewCSVWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteSample(10, 0, detector.Snapshot{}))
	require.NoError(t, w.WriteSample(20, 5, detector.Snapshot{ThI1: 7}))
	require.NoError(t, w.Flush())

	want := "Input,LPFilter,HPFilter,DerivativeF,SQRFilter,MVAFilter,RBeat,RunningThI1,SignalLevel,NoiseLevel,RunningThF\n" +
		"10,0,0,0,0,0,0,0,0,0,0\n" +
		"20,0,0,0,0,0,-3,7,0,0,0\n"

	assert.Equal(t, want, buf.String())
}
