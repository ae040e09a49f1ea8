package tts

import (
	"fmt"

	"github.com/aladhefafalquran/tts/internal/config"
)

type EngineType string

const (
	EngineEdge   EngineType = "edge"
	EngineOpenAI EngineType = "openai"
	EngineGoogle EngineType = "google"
	EngineXunfei EngineType = "xunfei"
)

// NewTTSProvider returns a TTSProvider based on the engine type.
func NewTTSProvider(engine EngineType, cfg *config.Config) (TTSProvider, error) {
	switch engine {
	case EngineEdge:
		return NewEdgeProvider(cfg), nil
	case EngineOpenAI:
		return NewOpenAIProvider(cfg), nil
	case EngineGoogle:
		return NewGoogleProvider(cfg), nil
	case EngineXunfei:
		return NewXunfeiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, engine)
	}
}
