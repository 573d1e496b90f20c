// ABOUTME: Prometheus metrics for generation, decoding, playback, and downloads
// ABOUTME: Registers collectors on a caller-supplied registry and serves /metrics
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Result labels
const (
	ResultOK         = "ok"
	ResultError      = "error"
	ResultSuperseded = "superseded"
)

// Metrics contains all Prometheus metrics for the player
type Metrics struct {
	// Speech generation
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram

	// Audio pipeline
	DecodeErrors  prometheus.Counter
	AudioDuration prometheus.Histogram
	WAVBytes      prometheus.Histogram

	// Playback
	PlaybacksStarted prometheus.Counter
	Playing          prometheus.Gauge

	// Downloads
	Downloads *prometheus.CounterVec
}

// New creates and registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sawt_generations_total",
			Help: "Total number of speech generations by result",
		}, []string{"result"}),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sawt_generation_duration_seconds",
			Help:    "Time from request to decoded buffer",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "sawt_decode_errors_total",
			Help: "Total number of payloads that failed base64 or PCM decoding",
		}),
		AudioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sawt_audio_duration_seconds",
			Help:    "Duration of decoded audio buffers",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4 minutes
		}),
		WAVBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sawt_wav_size_bytes",
			Help:    "Size of encoded WAV files",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KB to ~16MB
		}),
		PlaybacksStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sawt_playbacks_started_total",
			Help: "Total number of playbacks started",
		}),
		Playing: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sawt_playing",
			Help: "1 while a playback is active",
		}),
		Downloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sawt_downloads_total",
			Help: "Total number of WAV downloads by result",
		}, []string{"result"}),
	}
}

// NewNop returns metrics registered on a private registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveGeneration records one finished generation
func (m *Metrics) ObserveGeneration(result string, elapsed time.Duration) {
	m.Generations.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.GenerationDuration.Observe(elapsed.Seconds())
	}
}

// SetPlaying mirrors playback state
func (m *Metrics) SetPlaying(playing bool) {
	if playing {
		m.Playing.Set(1)
		return
	}
	m.Playing.Set(0)
}

// Serve exposes reg on addr at /metrics until ctx is done
func Serve(ctx context.Context, addr string, reg prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
