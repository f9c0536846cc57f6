package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Provider is one TTS engine. Synthesize returns MP3 bytes for the given text.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Chain tries providers in order and returns the first success
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Synthesize runs the fallback chain. Every provider failure is logged; only
// when all providers fail does the chain return an error.
func (c *Chain) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if len(c.providers) == 0 {
		return nil, "", fmt.Errorf("no TTS providers configured")
	}

	var lastErr error
	for _, p := range c.providers {
		data, err := p.Synthesize(ctx, text)
		if err == nil {
			return data, p.Name(), nil
		}
		log.Printf("[audio] %s failed: %v — trying next provider", p.Name(), err)
		lastErr = err
	}
	return nil, "", fmt.Errorf("all TTS providers failed, last error: %w", lastErr)
}

// ElevenLabs synthesizes via the ElevenLabs v1 API
type ElevenLabs struct {
	voiceID    string
	httpClient *http.Client
}

func NewElevenLabs(voiceID string) *ElevenLabs {
	return &ElevenLabs{
		voiceID:    voiceID,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	apiKey := os.Getenv("ELEVENLABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
	}

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s?output_format=mp3_44100_128", e.voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, raw)
	}
	return io.ReadAll(resp.Body)
}

// OpenAITTS synthesizes via the OpenAI speech endpoint
type OpenAITTS struct {
	model      string
	voice      string
	httpClient *http.Client
}

func NewOpenAITTS(model, voice string) *OpenAITTS {
	if model == "" {
		model = "tts-1"
	}
	if voice == "" {
		voice = "alloy"
	}
	return &OpenAITTS{
		model:      model,
		voice:      voice,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *OpenAITTS) Name() string { return "openai-tts" }

func (o *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	body, err := json.Marshal(map[string]any{
		"model":           o.model,
		"voice":           o.voice,
		"input":           text,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, raw)
	}
	return io.ReadAll(resp.Body)
}
