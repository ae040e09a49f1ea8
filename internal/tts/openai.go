package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aladhefafalquran/tts/internal/config"
)

type OpenAIProvider struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	baseURL := cfg.OpenAIBaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = "tts-1"
	}
	return &OpenAIProvider{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  http.DefaultClient,
	}
}

func (p *OpenAIProvider) Name() string { return string(EngineOpenAI) }

type openAISpeechRequest struct {
	Model string  `json:"model"`
	Input string  `json:"input"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

func (p *OpenAIProvider) Synthesize(ctx context.Context, text, outputPath, voiceName string, opts Options) error {
	if p.APIKey == "" {
		return fmt.Errorf("openai: %w", ErrMissingCredentials)
	}
	if voiceName == "" {
		voiceName = "alloy"
	}

	// OpenAI supports speed 0.25 to 4.0, default 1.0.
	body, err := json.Marshal(openAISpeechRequest{
		Model: p.Model,
		Input: text,
		Voice: voiceName,
		Speed: clamp(RateFactor(opts.Rate), 0.25, 4.0),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("OpenAI API failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	n, err := io.Copy(outFile, resp.Body)
	if err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("openai: %w", ErrEmptyAudio)
	}
	return nil
}
