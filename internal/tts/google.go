package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aladhefafalquran/tts/internal/config"
)

type GoogleProvider struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGoogleProvider(cfg *config.Config) *GoogleProvider {
	baseURL := cfg.GoogleBaseURL
	if baseURL == "" {
		baseURL = "https://texttospeech.googleapis.com/v1"
	}
	return &GoogleProvider{
		APIKey:  cfg.GoogleAPIKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  http.DefaultClient,
	}
}

func (p *GoogleProvider) Name() string { return string(EngineGoogle) }

type googleSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
	} `json:"audioConfig"`
}

// languageCode takes the locale prefix of a voice name: en-US-Neural2-F -> en-US.
func languageCode(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) < 2 {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}

func (p *GoogleProvider) Synthesize(ctx context.Context, text, outputPath, voiceName string, opts Options) error {
	if p.APIKey == "" {
		return fmt.Errorf("google: %w", ErrMissingCredentials)
	}
	if voiceName == "" {
		voiceName = "en-US-Neural2-F"
	}

	var reqBody googleSynthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = languageCode(voiceName)
	reqBody.Voice.Name = voiceName
	reqBody.AudioConfig.AudioEncoding = "MP3"
	// Google supports 0.25 to 4.0
	reqBody.AudioConfig.SpeakingRate = clamp(RateFactor(opts.Rate), 0.25, 4.0)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	endpoint := p.BaseURL + "/text:synthesize?key=" + url.QueryEscape(p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("google request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Google API failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Google returns JSON with "audioContent": base64 string
	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode google response: %w", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return fmt.Errorf("decode audio content: %w", err)
	}
	if len(decoded) == 0 {
		return fmt.Errorf("google: %w", ErrEmptyAudio)
	}

	return os.WriteFile(outputPath, decoded, 0644)
}
