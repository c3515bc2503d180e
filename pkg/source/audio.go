package source

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/doismellburning/qrsdetect/pkg/detector"
)

// AudioReader treats the default sound-card input the way the teacher's
// audio.go treats it as a TNC's radio: a continuous PCM stream, here
// decimated down to the detector's fixed 200Hz sample rate. Cheap
// AD8232-class ECG front-ends commonly output their analog trace into a
// phone or laptop's microphone jack, so this is a legitimate capture
// path, not just a novelty.
type AudioReader struct {
	stream  *portaudio.Stream
	samples chan int16
	err     error
	done    chan struct{}
}

// defaultDeviceSampleRate is the rate portaudio.OpenDefaultStream is
// asked for; most consumer sound cards accept 44100 natively.
const defaultDeviceSampleRate = 44100

// decimation is how many device-rate frames are averaged into one
// 200Hz sample: 44100/200 = 220.5, truncated to 220, so the output
// rate is about 200.5Hz.
const decimation = defaultDeviceSampleRate / detector.SamplesPerSecond

// OpenAudio initializes PortAudio and opens the default input device.
// The caller must call Close when done to release the device and call
// portaudio.Terminate (shared process-wide, so only the last AudioReader
// should do it in a process that opens more than one).
func OpenAudio() (*AudioReader, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("source: initializing portaudio: %w", err)
	}

	in := make([]float32, decimation)

	stream, err := portaudio.OpenDefaultStream(1, 0, defaultDeviceSampleRate, len(in), in)
	if err != nil {
		portaudio.Terminate()

		return nil, fmt.Errorf("source: opening default input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()

		return nil, fmt.Errorf("source: starting input stream: %w", err)
	}

	r := &AudioReader{
		stream:  stream,
		samples: make(chan int16, 256),
		done:    make(chan struct{}),
	}

	go r.run(in)

	return r, nil
}

func (r *AudioReader) run(buf []float32) {
	defer close(r.samples)

	for {
		select {
		case <-r.done:
			return
		default:
		}

		if err := r.stream.Read(); err != nil {
			r.err = fmt.Errorf("source: reading audio stream: %w", err)

			return
		}

		var sum float32
		for _, v := range buf {
			sum += v
		}

		mean := sum / float32(len(buf))
		r.samples <- clampToInt16(mean * 32767)
	}
}

func clampToInt16(v float32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}

func (r *AudioReader) Samples() <-chan int16 { return r.samples }
func (r *AudioReader) Err() error            { return r.err }

func (r *AudioReader) Close() error {
	close(r.done)

	if err := r.stream.Stop(); err != nil {
		r.stream.Close()
		portaudio.Terminate()

		return fmt.Errorf("source: stopping audio stream: %w", err)
	}

	if err := r.stream.Close(); err != nil {
		portaudio.Terminate()

		return fmt.Errorf("source: closing audio stream: %w", err)
	}

	return portaudio.Terminate()
}
