package visuals

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"reel-pipeline/config"
	"reel-pipeline/storage"
	"reel-pipeline/types"
)

// Fetcher produces one hosted image per segment. Real photos scraped from the
// business site are used first; segments beyond the photo pool fall back to
// AI generation via Pollinations.ai (free, no key needed).
type Fetcher struct {
	cfg        *config.Config
	uploader   *storage.Client
	httpClient *http.Client
}

// New creates a new Fetcher
func New(cfg *config.Config, uploader *storage.Client) *Fetcher {
	return &Fetcher{
		cfg:        cfg,
		uploader:   uploader,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Run fills in ImageURL for every segment of the script.
func (f *Fetcher) Run(ctx context.Context, script *types.ReelScript, profile *types.BusinessProfile, outputDir string) error {
	log.Printf("[visuals] Sourcing images for %d segments...", len(script.Segments))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create visuals dir: %w", err)
	}

	photos := profile.PhotoURLs
	for i := range script.Segments {
		seg := &script.Segments[i]

		if i < len(photos) {
			seg.ImageURL = photos[i]
			log.Printf("[visuals] Segment %d: using business photo %s", seg.Index, photos[i])
			continue
		}

		hostedURL, err := f.generate(ctx, seg, outputDir)
		if err != nil {
			return fmt.Errorf("segment %d image: %w", seg.Index, err)
		}
		seg.ImageURL = hostedURL
	}

	log.Printf("[visuals] ✅ All %d segments have images", len(script.Segments))
	return nil
}

// generate creates an AI image for the segment, saves it locally and uploads
// it so the renderer can reference it by URL.
func (f *Fetcher) generate(ctx context.Context, seg *types.Segment, outputDir string) (string, error) {
	prompt := seg.ImagePrompt
	if prompt == "" {
		prompt = seg.Caption
	}
	if prompt == "" {
		return "", fmt.Errorf("no image prompt or caption to generate from")
	}

	enhanced := enhancePrompt(prompt, seg.Mood)

	width, height := f.cfg.Visuals.Width, f.cfg.Visuals.Height
	if width == 0 {
		width = 1080
	}
	if height == 0 {
		height = 1920
	}

	imageURL := fmt.Sprintf(
		"https://image.pollinations.ai/prompt/%s?width=%d&height=%d&nologo=true&model=flux&seed=%d",
		url.PathEscape(enhanced),
		width, height,
		seg.Index*42+7, // deterministic seed per segment for reproducibility
	)

	outFile := filepath.Join(outputDir, fmt.Sprintf("segment_%03d.jpg", seg.Index))

	log.Printf("[visuals] Generating AI image for segment %d: %q", seg.Index, truncate(enhanced, 60))

	// Retry up to 3 times (Pollinations occasionally times out)
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = f.downloadImage(ctx, imageURL, outFile)
		if err == nil {
			break
		}
		log.Printf("[visuals] Attempt %d failed for segment %d: %v", attempt, seg.Index, err)
		time.Sleep(time.Duration(attempt) * 3 * time.Second)
	}
	if err != nil {
		return "", fmt.Errorf("pollinations fetch failed after 3 attempts: %w", err)
	}

	hosted, err := f.uploader.UploadFile(ctx, outFile, "reel-images")
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	log.Printf("[visuals] ✅ Segment %d image hosted: %s", seg.Index, hosted)
	return hosted, nil
}

func (f *Fetcher) downloadImage(ctx context.Context, imageURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ReelPipeline/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from Pollinations", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Validate it's actually an image (not an error HTML page)
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes) — likely an error", len(data))
	}

	return os.WriteFile(outFile, data, 0644)
}

// enhancePrompt adds promo-reel style modifiers to the base prompt
func enhancePrompt(base, mood string) string {
	moodStyles := map[string]string{
		"bright":  "bright natural daylight, vivid colors, clean composition, 4K photorealistic",
		"cozy":    "warm golden-hour glow, soft bokeh, inviting atmosphere, photorealistic",
		"fresh":   "crisp morning light, airy whites and greens, minimal styling, photorealistic",
		"premium": "moody studio lighting, rich contrast, editorial composition, 4K",
		"warm":    "warm amber tones, soft shadows, welcoming feel, photorealistic",
	}

	style, ok := moodStyles[mood]
	if !ok {
		style = "bright inviting lighting, vivid colors, photorealistic, 4K"
	}

	// Always add these safety/quality modifiers
	safetyModifiers := "no text, no watermark, no logos, commercial photography"

	return fmt.Sprintf("%s, %s, %s", base, style, safetyModifiers)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
