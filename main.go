// ABOUTME: Entry point for the Sawt speech player
// ABOUTME: Parses CLI flags and runs the speaker panel or a one-shot batch job
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/sawtlab/sawt-go/internal/config"
	"github.com/sawtlab/sawt-go/internal/logging"
	"github.com/sawtlab/sawt-go/internal/metrics"
	"github.com/sawtlab/sawt-go/internal/session"
	"github.com/sawtlab/sawt-go/internal/ui"
	"github.com/sawtlab/sawt-go/internal/version"
	"github.com/sawtlab/sawt-go/pkg/audio"
	"github.com/sawtlab/sawt-go/pkg/audio/decode"
	"github.com/sawtlab/sawt-go/pkg/audio/output"
	"github.com/sawtlab/sawt-go/pkg/playback"
	"github.com/sawtlab/sawt-go/pkg/tts"
)

var (
	text        = flag.String("text", "", "Text to speak")
	textFile    = flag.String("text-file", "", "Read the text to speak from a file")
	voice       = flag.String("voice", "", "Voice id: karim, bakr, shadi, faris, zuhair")
	style       = flag.String("style", "", "Style id: natural, documentary, news, scientific, suspense, historical, investigative")
	speed       = flag.Float64("speed", 0, "Playback rate between 0.5 and 2.0")
	rewrite     = flag.Bool("rewrite", false, "Rewrite the text in the chosen style before speaking (batch mode)")
	inB64       = flag.String("in-b64", "", "Load base64 PCM from a file instead of generating (- for stdin)")
	inWAV       = flag.String("in-wav", "", "Load a 16-bit PCM WAV file instead of generating")
	outDir      = flag.String("out-dir", "", "Directory to save audio.wav into")
	noTUI       = flag.Bool("no-tui", false, "Run once without the TUI and save audio.wav")
	play        = flag.Bool("play", false, "Play the audio before exiting (batch mode)")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile     = flag.String("log-file", "sawt.log", "Log file path")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		logging.Init(cfg.LogLevel, false, f)
	} else {
		// Batch mode: log to both stderr and file
		logging.Init(cfg.LogLevel, cfg.LogPretty, io.MultiWriter(os.Stderr, f))
	}

	if err := run(cfg, useTUI); err != nil {
		log.Error().Err(err).Msg("Player failed")
		if !useTUI {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// applyFlags overrides environment configuration with explicitly set flags
func applyFlags(cfg *config.Config) error {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "voice":
			cfg.DefaultVoice = *voice
		case "style":
			cfg.DefaultStyle = *style
		case "speed":
			cfg.DefaultSpeed = *speed
		case "out-dir":
			cfg.OutputDir = *outDir
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if *inB64 != "" && *inWAV != "" {
		return errors.New("-in-b64 and -in-wav are mutually exclusive")
	}
	if *text != "" && *textFile != "" {
		return errors.New("-text and -text-file are mutually exclusive")
	}
	return nil
}

func run(cfg *config.Config, useTUI bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("version", version.Version).
		Str("backend", cfg.AudioBackend).
		Bool("tui", useTUI).
		Msg("Starting " + version.Product)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				log.Error().Err(err).Msg("Metrics endpoint failed")
			}
		}()
	}

	// Audio engine and playback controller
	engine, err := output.New(cfg.AudioBackend, output.DefaultOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close audio engine")
		}
	}()

	events := newPlaybackEvents()
	ctrl := playback.New(engine, playback.Config{
		OnStateChange: func(s playback.State) {
			m.SetPlaying(s == playback.Playing)
			events.publish(s)
		},
	})

	// Speech service is optional when audio is loaded from a file
	var client *tts.Client
	if cfg.APIKey != "" {
		client, err = tts.NewClient(cfg.TTSConfig())
		if err != nil {
			return err
		}
	}

	sessCfg := session.Config{
		Player:  ctrl,
		Saver:   session.DirSaver{Dir: cfg.OutputDir},
		Metrics: m,
	}
	if client != nil {
		sessCfg.Synthesizer = client
	}
	sess := session.New(sessCfg)
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close session")
		}
	}()

	input, err := readText()
	if err != nil {
		return err
	}

	preloaded, err := loadAudio()
	if err != nil {
		return err
	}
	if preloaded != nil {
		if err := sess.Load(preloaded); err != nil {
			return err
		}
	}

	voiceID, _ := tts.ParseVoice(cfg.DefaultVoice)
	styleID, _ := tts.ParseStyle(cfg.DefaultStyle)

	if useTUI {
		opts := ui.Options{
			Text:    input,
			Voice:   voiceID,
			Style:   styleID,
			Speed:   cfg.DefaultSpeed,
			Speaker: sess,
		}
		if client != nil {
			opts.Rewriter = client
		}
		return runTUI(ctx, opts, preloaded, events)
	}

	return runBatch(ctx, cfg, client, sess, batchJob{
		text:  input,
		voice: voiceID,
		style: styleID,
		have:  preloaded != nil,
	}, events)
}

// readText returns the -text or -text-file input
func readText() (string, error) {
	if *textFile == "" {
		return *text, nil
	}
	data, err := os.ReadFile(*textFile)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// loadAudio decodes -in-b64 or -in-wav, or returns nil when neither is set
func loadAudio() (*audio.Buffer, error) {
	switch {
	case *inB64 != "":
		var data []byte
		var err error
		if *inB64 == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(*inB64)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read base64 input: %w", err)
		}
		return decode.Base64PCM(strings.TrimSpace(string(data)))
	case *inWAV != "":
		data, err := os.ReadFile(*inWAV)
		if err != nil {
			return nil, fmt.Errorf("failed to read wav input: %w", err)
		}
		return decode.WAV(bytes.NewReader(data))
	}
	return nil, nil
}

func runTUI(ctx context.Context, opts ui.Options, preloaded *audio.Buffer, events *playbackEvents) error {
	model := ui.NewModel(ctx, opts)
	if preloaded != nil {
		model = model.WithAudio(preloaded.Duration())
	}

	prog := ui.Run(model)
	events.forwardTo(func(s playback.State) { prog.Send(ui.PlaybackMsg{State: s}) })

	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	log.Info().Msg("Player stopped")
	return nil
}

type batchJob struct {
	text  string
	voice tts.Voice
	style tts.Style
	have  bool
}

func runBatch(ctx context.Context, cfg *config.Config, client *tts.Client, sess *session.Session, job batchJob, events *playbackEvents) error {
	if !job.have {
		if strings.TrimSpace(job.text) == "" {
			return errors.New("nothing to do: pass -text, -text-file, -in-b64 or -in-wav")
		}
		if err := cfg.RequireAPIKey(); err != nil {
			return err
		}

		if *rewrite {
			rewritten, err := client.Rewrite(ctx, job.text, job.style)
			if err != nil {
				return fmt.Errorf("rewrite failed: %w", err)
			}
			log.Info().Str("text", rewritten).Msg("Text rewritten")
			job.text = rewritten
		}

		if _, err := sess.Generate(ctx, tts.Request{Text: job.text, Voice: job.voice, Style: job.style}); err != nil {
			return err
		}
	}

	if *play {
		idle := events.subscribe()
		if err := sess.Play(cfg.DefaultSpeed); err != nil {
			return err
		}
		select {
		case <-idle:
		case <-ctx.Done():
			log.Info().Msg("Interrupted, stopping playback")
		}
		if err := sess.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop playback")
		}
	}

	path, err := sess.Download()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
