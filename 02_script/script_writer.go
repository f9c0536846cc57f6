package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"reel-pipeline/config"
	"reel-pipeline/types"
)

const systemPrompt = `You are a senior short-form video copywriter. You write punchy promotional reel scripts for local businesses (Instagram Reels / YouTube Shorts, vertical, 15-40 seconds).

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

The JSON must have exactly these fields:
- "title": short internal working title
- "hook": the opening line that stops the scroll (max 10 words)
- "mood": one of "upbeat" | "cozy" | "premium" | "energetic" | "calm"
- "segments": array of 3-6 segments, each with:
  - "caption": the narration line for this beat (1-2 short sentences)
  - "image_prompt": a detailed, photorealistic image generation prompt for the visual
  - "mood": one of "bright" | "cozy" | "fresh" | "premium" | "warm"
  - "zoom": one of "slow_zoom_in" | "slow_zoom_out" | "ken_burns" | "ken_burns_left" | "ken_burns_right" | "static" OR null
  - "style": one of "vibrant" | "muted" | "noir" OR null

Segment rules:
- Segment 1 IS the hook. Lead with the strongest sensory detail.
- The last segment must end on the call to action.
- Total narration must read aloud in the target duration at ~2.5 words per second.
- Never invent facts: only use details given about the business.`

// Writer generates reel scripts using the Groq API
type Writer struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new script Writer
func New(cfg *config.Config) *Writer {
	return &Writer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// scriptJSON is the raw structure returned by Groq
type scriptJSON struct {
	Title    string        `json:"title"`
	Hook     string        `json:"hook"`
	Mood     string        `json:"mood"`
	Segments []segmentJSON `json:"segments"`
}

type segmentJSON struct {
	Caption     string `json:"caption"`
	ImagePrompt string `json:"image_prompt"`
	Mood        string `json:"mood"`
	Zoom        string `json:"zoom"`
	Style       string `json:"style"`
}

// Run generates a timed reel script from the business profile
func (w *Writer) Run(ctx context.Context, profile *types.BusinessProfile) (*types.ReelScript, error) {
	log.Println("[script] Generating reel script via Groq...")

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	reqBody := groqRequest{
		Model: w.cfg.Script.GroqModel,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(profile, w.cfg.Script.TargetDurationSec, w.cfg.Script.SegmentCount)},
		},
		Temperature: w.cfg.Script.Temperature,
		MaxTokens:   2048,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var groqResp groqResponse
	if err := json.Unmarshal(respBytes, &groqResp); err != nil {
		return nil, fmt.Errorf("parse groq response: %w", err)
	}
	if groqResp.Error != nil {
		return nil, fmt.Errorf("groq error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("groq returned no choices")
	}

	content := cleanJSON(groqResp.Choices[0].Message.Content)

	var raw scriptJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse script JSON: %w\nraw content: %.200s", err, content)
	}
	if len(raw.Segments) == 0 {
		return nil, fmt.Errorf("script has no segments")
	}

	reelScript := w.convertToScript(raw)
	log.Printf("[script] ✅ Script ready: %d segments, ~%.0f seconds", len(reelScript.Segments), reelScript.TotalSec)
	return reelScript, nil
}

func buildUserPrompt(profile *types.BusinessProfile, targetSec float64, segmentCount int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a ~%.0f second promotional reel script for this business.\n", targetSec)
	if segmentCount > 0 {
		fmt.Fprintf(&sb, "Use exactly %d segments.\n", segmentCount)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "BUSINESS: %s\n", profile.Name)
	if profile.Tagline != "" {
		fmt.Fprintf(&sb, "TAGLINE: %s\n", profile.Tagline)
	}
	if profile.Address != "" {
		fmt.Fprintf(&sb, "LOCATION: %s\n", profile.Address)
	}
	if profile.Rating != "" {
		fmt.Fprintf(&sb, "RATING: %s\n", profile.Rating)
	}

	if len(profile.HookIdeas) > 0 {
		sb.WriteString("\nHOOK STYLES CURRENTLY WORKING (imitate the structure, not the content):\n")
		for _, idea := range profile.HookIdeas {
			sb.WriteString("- " + idea + "\n")
		}
	}

	sb.WriteString("\nRespond ONLY with valid JSON. No markdown. No explanation.")
	return sb.String()
}

// convertToScript spreads the segments evenly across the target duration; the
// audio stage rescales the timings once the real voiceover length is known
func (w *Writer) convertToScript(raw scriptJSON) *types.ReelScript {
	total := w.cfg.Script.TargetDurationSec
	if total <= 0 {
		total = 30
	}
	per := total / float64(len(raw.Segments))

	reelScript := &types.ReelScript{
		Title:    raw.Title,
		Hook:     raw.Hook,
		Mood:     raw.Mood,
		TotalSec: total,
	}
	for i, s := range raw.Segments {
		reelScript.Segments = append(reelScript.Segments, types.Segment{
			Index:       i,
			Start:       float64(i) * per,
			End:         float64(i+1) * per,
			Caption:     s.Caption,
			ImagePrompt: s.ImagePrompt,
			Mood:        s.Mood,
			Zoom:        s.Zoom,
			Style:       s.Style,
		})
	}
	return reelScript
}

// cleanJSON strips markdown code fences some models wrap around JSON
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
