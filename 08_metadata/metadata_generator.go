package metadata

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

const metadataSystemPrompt = `You are a local-business social media strategist.
Generate YouTube Shorts metadata that drives views and sends viewers to the business.

You MUST respond with ONLY valid JSON — no markdown, no explanation, no preamble.

The JSON must have exactly these fields:
- "title": string (max 70 chars, punchy, includes the business name or its specialty)
- "description": string (~150 words, warm and inviting, ends with the booking link and address)
- "tags": array of strings (mix of the business niche, the city, and broad discovery tags)

Title formulas that work for local promo Shorts:
- "The [specialty] everyone in [city] is talking about"
- "POV: you just found your new favorite [business type]"
- "[Business name] might be [city]'s best kept secret"`

// Generator creates publish metadata via Groq
type Generator struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new metadata Generator
func New(cfg *config.Config) *Generator {
	return &Generator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type metadataJSON struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Run generates title, description and tags for the finished reel
func (g *Generator) Run(ctx context.Context, script *types.ReelScript, profile *types.BusinessProfile) (*types.VideoMetadata, error) {
	log.Println("[metadata] Generating publish metadata via Groq...")

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	model := g.cfg.Metadata.GroqModel
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": metadataSystemPrompt},
			{"role": "user", "content": buildMetadataPrompt(script, profile)},
		},
		"temperature": 0.8,
		"max_tokens":  1024,
	}

	bodyBytes, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.groq.com/openai/v1/chat/completions",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	var groqResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

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

	var raw metadataJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w\ncontent: %s", err, content[:min(300, len(content))])
	}

	maxTitle := g.cfg.Metadata.TitleMaxChars
	if maxTitle == 0 {
		maxTitle = 70
	}
	title := raw.Title
	if len(title) > maxTitle {
		title = title[:maxTitle-3] + "..."
	}

	tags := raw.Tags
	if g.cfg.Metadata.TagsCount > 0 && len(tags) > g.cfg.Metadata.TagsCount {
		tags = tags[:g.cfg.Metadata.TagsCount]
	}

	meta := &types.VideoMetadata{
		Title:       title,
		Description: raw.Description,
		Tags:        tags,
		CategoryID:  g.cfg.Publish.CategoryID,
		Visibility:  g.cfg.Publish.Visibility,
	}

	log.Printf("[metadata] ✅ Title: %q", meta.Title)
	log.Printf("[metadata] Tags: %d generated", len(meta.Tags))
	return meta, nil
}

func buildMetadataPrompt(script *types.ReelScript, profile *types.BusinessProfile) string {
	var sb strings.Builder
	sb.WriteString("Generate metadata for this local business promo Short.\n\n")
	sb.WriteString(fmt.Sprintf("BUSINESS: %s\n", profile.Name))
	if profile.Tagline != "" {
		sb.WriteString(fmt.Sprintf("TAGLINE: %s\n", profile.Tagline))
	}
	if profile.Address != "" {
		sb.WriteString(fmt.Sprintf("ADDRESS: %s\n", profile.Address))
	}
	sb.WriteString(fmt.Sprintf("WEBSITE: %s\n", profile.Website))
	if profile.BookingURL != "" {
		sb.WriteString(fmt.Sprintf("BOOKING LINK: %s\n", profile.BookingURL))
	}
	sb.WriteString(fmt.Sprintf("\nREEL TITLE (working): %s\n", script.Title))
	if script.Hook != "" {
		sb.WriteString(fmt.Sprintf("HOOK: %s\n", script.Hook))
	}
	sb.WriteString("\nSEGMENT CAPTIONS:\n")
	for _, seg := range script.Segments {
		if seg.Caption != "" {
			sb.WriteString("- " + seg.Caption + "\n")
		}
	}
	return sb.String()
}

// cleanJSON strips markdown code fences that LLMs sometimes wrap around JSON
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
