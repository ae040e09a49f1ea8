package tts

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedEngine  = errors.New("unsupported TTS engine")
	ErrMissingCredentials = errors.New("provider credentials not configured")
	ErrEmptyAudio         = errors.New("provider produced no audio")
)

// Options carries per-request synthesis modifiers.
type Options struct {
	// Rate is a signed percentage such as "+20%" or "-10%". Empty keeps the
	// provider's normal speed.
	Rate string
}

// TTSProvider defines the interface for Text-to-Speech synthesis.
type TTSProvider interface {
	Name() string
	// Synthesize converts text to speech and writes the audio to outputPath.
	// The file at outputPath already exists and may be truncated.
	Synthesize(ctx context.Context, text, outputPath, voiceName string, opts Options) error
}
