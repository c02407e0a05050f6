package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealplanner/config"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

// SpeechSynthesizer reads a reply aloud.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechClient calls an ElevenLabs-compatible text-to-speech API and
// returns MPEG audio.
type SpeechClient struct {
	baseURL string
	apiKey  string
	voice   string
	client  *http.Client
	retry   utils.RetryConfig
}

func NewSpeechClient(cfg config.AssistantConfig, retry utils.RetryConfig) *SpeechClient {
	return &SpeechClient{
		baseURL: strings.TrimRight(cfg.SpeechURL, "/"),
		apiKey:  cfg.SpeechAPIKey,
		voice:   cfg.SpeechVoice,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry:   retry,
	}
}

func (c *SpeechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("speech", "nothing to say")
	}
	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, fmt.Errorf("encode speech payload: %w", err)
	}
	u := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voice)

	return callUpstream(ctx, c.retry, "speech", func() ([]byte, error) {
		req, err := newRequest(ctx, http.MethodPost, u, bytesReader(payload))
		if err != nil {
			return nil, fmt.Errorf("speech: build request: %w", err)
		}
		req.Header.Set("xi-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "audio/mpeg")
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, apperr.Upstream("speech", 0, err)
		}
		return readResponse("speech", resp, false)
	})
}
