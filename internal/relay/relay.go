// Package relay turns a POST /tts body into a provider call and a JSON result.
package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aladhefafalquran/tts/internal/media"
	"github.com/aladhefafalquran/tts/internal/metrics"
	"github.com/aladhefafalquran/tts/internal/scratch"
	"github.com/aladhefafalquran/tts/internal/tts"
	"github.com/aladhefafalquran/tts/internal/voices"
)

// Response is the JSON envelope returned for every /tts call.
type Response struct {
	Success  bool      `json:"success"`
	Audio    string    `json:"audio,omitempty"`
	Format   string    `json:"format,omitempty"`
	Voice    string    `json:"voice,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type Settings struct {
	Rate int `json:"rate"`
}

func failure(msg string) Response {
	return Response{Success: false, Error: msg}
}

type Options struct {
	DefaultVoice string
	TempDir      string
	Cleanup      scratch.Policy
	// ProbeAudio logs the ffprobe duration of each result.
	ProbeAudio bool
	Metrics    *metrics.Metrics
}

// Relay holds only read-only collaborators, so one value serves all requests.
type Relay struct {
	provider     tts.TTSProvider
	log          zerolog.Logger
	metrics      *metrics.Metrics
	defaultVoice string
	tempDir      string
	cleanup      scratch.Policy
	probe        func(path string) (float64, error)
}

func New(provider tts.TTSProvider, log zerolog.Logger, opts Options) *Relay {
	r := &Relay{
		provider:     provider,
		log:          log,
		metrics:      opts.Metrics,
		defaultVoice: opts.DefaultVoice,
		tempDir:      opts.TempDir,
		cleanup:      opts.Cleanup,
	}
	if r.defaultVoice == "" {
		r.defaultVoice = DefaultVoice
	}
	if r.cleanup.Attempts < 1 {
		r.cleanup = scratch.DefaultPolicy
	}
	if opts.ProbeAudio {
		r.probe = media.ProbeDuration
	}
	return r
}

// Handle processes a raw request body. It never returns an error: every
// failure is reported through Response.Error.
func (r *Relay) Handle(ctx context.Context, body []byte) Response {
	req, err := ParseRequest(body)
	if err != nil {
		r.log.Error().Err(err).Msg("json decode error")
		r.metrics.ObserveOutcome(metrics.OutcomeInvalidJSON)
		return failure(MsgInvalidJSON)
	}

	n := req.normalize(r.defaultVoice)
	r.log.Info().
		Str("voice", n.Voice).
		Int("rate", n.Rate).
		Str("format", n.Format).
		Int("text_length", len([]rune(n.Text))).
		Msg("tts request")

	if f := n.validate(); f != nil {
		r.metrics.ObserveOutcome(f.Outcome)
		return failure(f.Message)
	}

	resp, err := r.synthesize(ctx, n)
	if err != nil {
		r.log.Error().Err(err).Str("voice", n.Voice).Msg("tts generation error")
		r.metrics.ObserveOutcome(metrics.OutcomeSynthesisError)
		return failure(err.Error())
	}
	r.metrics.ObserveOutcome(metrics.OutcomeSuccess)
	return resp
}

func (r *Relay) synthesize(ctx context.Context, n Normalized) (Response, error) {
	rate := FormatRate(n.Rate)

	artifact, err := scratch.New(r.tempDir, n.Format, r.cleanup, r.log)
	if err != nil {
		return Response{}, err
	}
	artifact.OnCleanupFailure(r.metrics.CleanupFailed)
	defer artifact.Release()

	start := time.Now()
	err = r.provider.Synthesize(ctx, n.Text, artifact.Path(), n.Voice, tts.Options{Rate: rate})
	r.metrics.ObserveSynthesis(time.Since(start))
	if err != nil {
		return Response{}, err
	}

	audio, err := artifact.ReadAll()
	if err != nil {
		return Response{}, err
	}
	if len(audio) == 0 {
		return Response{}, fmt.Errorf("%s: %w", r.provider.Name(), tts.ErrEmptyAudio)
	}
	r.metrics.ObserveAudio(len(audio))

	event := r.log.Info().
		Str("voice_name", voices.DisplayName(n.Voice)).
		Str("format", strings.ToUpper(n.Format)).
		Int("words", len(strings.Fields(n.Text))).
		Int("bytes", len(audio)).
		Dur("elapsed", time.Since(start))
	if v, ok := voices.Lookup(n.Voice); ok {
		event = event.Str("voice_label", v.Label)
	}
	if rate != "" {
		event = event.Str("rate", rate)
	}
	if r.probe != nil {
		if seconds, err := r.probe(artifact.Path()); err != nil {
			r.log.Debug().Err(err).Msg("audio probe failed")
		} else {
			event = event.Float64("duration_seconds", seconds)
		}
	}
	event.Msg("generated audio")

	return Response{
		Success:  true,
		Audio:    base64.StdEncoding.EncodeToString(audio),
		Format:   n.Format,
		Voice:    n.Voice,
		Settings: &Settings{Rate: n.Rate},
	}, nil
}
