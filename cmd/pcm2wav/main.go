// ABOUTME: Entry point for the offline base64 PCM to WAV converter
// ABOUTME: Parses CLI flags and writes a canonical 44-byte-header WAV file
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sawtlab/sawt-go/internal/logging"
	"github.com/sawtlab/sawt-go/internal/session"
	"github.com/sawtlab/sawt-go/internal/version"
	"github.com/sawtlab/sawt-go/pkg/audio/decode"
	"github.com/sawtlab/sawt-go/pkg/audio/encode"
)

var (
	in         = flag.String("in", "-", "Base64 PCM input file (- for stdin)")
	out        = flag.String("out", "audio.wav", "Output WAV path")
	sampleRate = flag.Int("rate", 24000, "Sample rate of the PCM stream")
	channels   = flag.Int("channels", 1, "Channel count of the PCM stream")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	logging.Init(level, true, os.Stderr)

	if err := convert(*in, *out, *sampleRate, *channels); err != nil {
		log.Error().Err(err).Msg("Conversion failed")
		os.Exit(1)
	}
}

func convert(inPath, outPath string, rate, ch int) error {
	payload, err := readInput(inPath)
	if err != nil {
		return err
	}

	raw, err := decode.Base64(strings.TrimSpace(payload))
	if err != nil {
		return err
	}
	buf, err := decode.PCM(raw, rate, ch)
	if err != nil {
		return err
	}

	data, err := encode.WAV(buf)
	if err != nil {
		return err
	}

	saver := session.DirSaver{Dir: filepath.Dir(outPath)}
	path, err := saver.Save(filepath.Base(outPath), encode.MIMEType, data)
	if err != nil {
		return err
	}

	log.Info().
		Str("version", version.Version).
		Str("path", path).
		Int("frames", buf.FrameCount()).
		Dur("duration", buf.Duration()).
		Int("bytes", len(data)).
		Msg("WAV written")
	return nil
}

func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
