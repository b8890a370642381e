package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/yunginnanet/ftdi-adc11131/pkg/adc11131"
	"github.com/yunginnanet/ftdi-adc11131/pkg/ft232h"
	"github.com/yunginnanet/ftdi-adc11131/pkg/periphspi"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	backend  string
	ftIndex  int
	ftCS     uint
	spiPort  string
	spiCS    string
	clock    uint
	channel  int
	start    int
	count    int
	interval time.Duration
	vRef     float64
	debug    bool
}

func flags() options {
	var o options
	flag.StringVar(&o.backend, "bus", "ft232h", "Bus backend: ft232h or periph")
	flag.IntVar(&o.ftIndex, "FT232H", 0, "FT232H Index")
	flag.UintVar(&o.ftCS, "CS", 0x10, "Chip Select (FT232H GPIO)")
	flag.StringVar(&o.spiPort, "port", "", "SPI port (periph)")
	flag.StringVar(&o.spiCS, "cs-pin", "GPIO8", "Chip Select pin name (periph)")
	flag.UintVar(&o.clock, "clock", uint(adc11131.Clock1MHz), "SPI clock in Hz")
	flag.IntVar(&o.channel, "channel", -1, "Read a single channel")
	flag.IntVar(&o.start, "start", 0, "First channel of a range read")
	flag.IntVar(&o.count, "count", 0, "Number of channels of a range read")
	flag.DurationVar(&o.interval, "scan", 0, "Sweep all channels at this interval until interrupted")
	flag.Float64Var(&o.vRef, "vref", 2.5, "Reference voltage")
	flag.BoolVar(&o.debug, "debug", false, "Debug logging")
	flag.Parse()
	return o
}

func connect(o options) (adc11131.SerialInterface, error) {
	switch o.backend {
	case "periph":
		bus, err := periphspi.Open(o.spiPort, o.spiCS)
		if err != nil {
			return nil, err
		}
		bus.SetLogger(log)
		return bus, nil
	default:
		ft, err := ft232h.Connect(ft232h.ByIndex(o.ftIndex))
		if err != nil {
			return nil, err
		}
		ft.SetLogger(log)
		log.Info().Stringer("info", ft.Info()).Msgf("connected to %s", ft)
		if err = ft.SetCSPin(o.ftCS); err != nil {
			return nil, err
		}
		return ft, nil
	}
}

func logReadings(readings []uint16, first int, vRef float64) {
	for i, code := range readings {
		log.Info().Int("channel", first+i).Uint16("code", code).
			Float64("volts", adc11131.CodeToVolts(code, vRef)).Msg("reading")
	}
}

// scan sweeps every channel each interval until ctx is done or the scan
// ends by itself, e.g. after too many failed sweeps.
func scan(ctx context.Context, adc *adc11131.ADC, interval time.Duration, vRef float64) error {
	chScan, err := adc.ScanContinuously(ctx, interval, adc11131.MaxChannels, func(readings []uint16, ok bool) {
		if !ok {
			log.Warn().Msg("sweep had mismatched channel tags")
		}
		logReadings(readings, 0, vRef)
	})
	if err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}

	err = chScan.Wait(ctx)
	chScan.Stop()
	if ctx.Err() == nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return chScan.Wait(waitCtx)
}

func main() {
	o := flags()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if o.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	bus, err := connect(o)
	if err != nil {
		log.Fatal().Err(err).Str("bus", o.backend).Msg("failed to connect")
	}

	adc := adc11131.NewADC11131(bus)
	defer func() {
		if err := adc.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ADC11131")
		}
		log.Info().Msg("closed ADC11131")
	}()

	cfg := adc11131.DefaultConfig()
	cfg.Clock = uint32(o.clock)

	log.Debug().Any("config", cfg).Msg("initializing ADC11131")
	if err = adc.Initialize(cfg); err != nil {
		log.Error().Err(err).Msg("failed to initialize ADC11131")
		return
	}
	log.Info().Msg("initialized ADC11131")

	switch {
	case o.channel >= 0:
		code, err := adc.ReadChannel(o.channel)
		if err != nil {
			log.Error().Err(err).Int("channel", o.channel).Msg("failed to read channel")
			return
		}
		logReadings([]uint16{code}, o.channel, o.vRef)

	case o.count > 0:
		readings, err := adc.ReadRange(o.start, o.count)
		if err != nil {
			log.Error().Err(err).Msg("failed to read range")
			return
		}
		logReadings(readings, o.start, o.vRef)

	case o.interval > 0:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err = scan(ctx, adc, o.interval, o.vRef); err != nil {
			log.Error().Err(err).Msg("scan finished with errors")
		}

	default:
		readings, ok, err := adc.ReadAllChannels()
		if err != nil {
			log.Error().Err(err).Msg("failed to read channels")
			return
		}
		if !ok {
			log.Warn().Msg("sweep had mismatched channel tags")
		}
		logReadings(readings, 0, o.vRef)
	}
}
