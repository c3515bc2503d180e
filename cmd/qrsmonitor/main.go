// Command qrsmonitor runs the detector continuously against a live
// sample source -- a sound card or a framed TCP stream -- painting a live terminal heart-rate meter and optionally
// driving a GPIO alert on every confirmed beat. It is the live-capture
// counterpart to cmd/qrsdetect's file-replay mode.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/doismellburning/qrsdetect/pkg/detector"
	"github.com/doismellburning/qrsdetect/pkg/session"
	"github.com/doismellburning/qrsdetect/pkg/sink"
	"github.com/doismellburning/qrsdetect/pkg/source"
)

// options bundles qrsmonitor's flags so run can take a terminal device
// path as an argument instead of assuming os.Stdin -- the seam an
// integration test drives through a pty.
type options struct {
	audio      bool
	netAddr    string
	discover   bool
	gpioChip   string
	gpioOffset int
}

func main() {
	os.Exit(run(os.Args[1:], "/dev/tty"))
}

func run(args []string, meterDevice string) int {
	flags := pflag.NewFlagSet("qrsmonitor", pflag.ContinueOnError)

	opts := options{} //nolint:exhaustruct

	flags.BoolVar(&opts.audio, "audio", false, "capture from the default sound-card input")
	flags.StringVar(&opts.netAddr, "net", "", "capture from a framed TCP sample stream at host:port")
	flags.BoolVar(&opts.discover, "discover", false, "advertise this session over mDNS/DNS-SD (requires -net)")
	flags.StringVar(&opts.gpioChip, "gpio-chip", "", "gpiochip device for the beat indicator, e.g. gpiochip0")
	flags.IntVar(&opts.gpioOffset, "gpio-offset", -1, "gpio line offset for the beat indicator")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	logger := log.New(os.Stderr)

	if !opts.audio && opts.netAddr == "" {
		fmt.Fprintln(os.Stderr, "qrsmonitor: one of --audio or --net is required")

		return 1
	}

	if opts.discover && opts.netAddr == "" {
		fmt.Fprintln(os.Stderr, "qrsmonitor: --discover requires --net")

		return 1
	}

	var reader source.Reader
	var err error

	switch {
	case opts.audio:
		reader, err = source.OpenAudio()
	case opts.netAddr != "":
		reader, err = source.DialNet(opts.netAddr)
	}

	if err != nil {
		logger.Error("opening sample source", "err", err)

		return 1
	}
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.discover {
		if _, err := session.Announce(ctx, logger, "qrsmonitor", portFromAddr(opts.netAddr)); err != nil {
			logger.Error("announcing session", "err", err)
		}
	}

	var beatIndicator *sink.GPIOBeatIndicator
	if opts.gpioChip != "" && opts.gpioOffset >= 0 {
		beatIndicator, err = sink.NewGPIOBeatIndicator(opts.gpioChip, opts.gpioOffset, 50*time.Millisecond)
		if err != nil {
			logger.Error("opening gpio beat indicator", "err", err)

			return 1
		}
		defer beatIndicator.Close()
	}

	meter, err := sink.OpenMeter(meterDevice, os.Stdout)
	if err != nil {
		logger.Error("opening terminal meter", "err", err)

		return 1
	}
	defer meter.Close()

	det := detector.NewDetector()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	for {
		select {
		case <-sigCh:
			return 0
		case <-meter.QuitChan():
			return 0
		case x, ok := <-reader.Samples():
			if !ok {
				if err := reader.Err(); err != nil {
					logger.Error("sample source ended", "err", err)

					return 1
				}

				return 0
			}

			if delay := det.ProcessSample(x); delay != 0 {
				meter.Beat(det)

				if beatIndicator != nil {
					if err := beatIndicator.Beat(); err != nil {
						logger.Warn("driving gpio beat indicator", "err", err)
					}
				}
			}
		}
	}
}

func portFromAddr(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}

	return port
}
