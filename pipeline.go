package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"reel-pipeline/01_research"
	"reel-pipeline/02_script"
	"reel-pipeline/03_audio"
	"reel-pipeline/04_visuals"
	"reel-pipeline/05_subtitles"
	"reel-pipeline/06_music"
	"reel-pipeline/07_render"
	"reel-pipeline/08_metadata"
	"reel-pipeline/09_publish"
	"reel-pipeline/config"
	"reel-pipeline/storage"
	"reel-pipeline/types"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (local dev only — GitHub Actions uses Secrets)
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Paths.Output, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Fatalf("Failed to create run dir: %v", err)
	}

	log.Printf("🎬 Reel Pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", runDir)

	ctx := context.Background()
	state := &types.PipelineState{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// Save state on exit
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveState(state, runDir)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
			os.Exit(1)
		}
		if state.YouTubeURL != "" {
			log.Printf("✅ Pipeline complete! Video: %s", state.YouTubeURL)
		} else if state.Render != nil {
			log.Printf("✅ Pipeline complete! Rendered: %s", state.Render.VideoURL)
		}
	}()

	uploader, err := storage.NewFromEnv()
	if err != nil {
		state.Error = fmt.Sprintf("Storage init: %v", err)
		return
	}

	// ─────────────────────────────────────────────
	// STAGE 1: Research
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 1: Research ━━━")
	scraper := research.New(cfg)
	profile, err := scraper.Run(ctx)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 1 Research: %v", err)
		return
	}
	scraper.MineHookIdeas(ctx, profile)
	state.Profile = profile
	saveJSON(filepath.Join(runDir, "profile.json"), profile)

	// ─────────────────────────────────────────────
	// STAGE 2: Script Writing
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 2: Script Writing ━━━")
	writer := script.New(cfg)
	reelScript, err := writer.Run(ctx, profile)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 2 Script: %v", err)
		return
	}
	state.Script = reelScript
	saveJSON(filepath.Join(runDir, "script.json"), reelScript)

	// ─────────────────────────────────────────────
	// STAGE 3: Voiceover
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 3: Voiceover ━━━")
	audioGen := audio.New(cfg, uploader)
	voiceoverURL, voiceoverSec, err := audioGen.Run(ctx, reelScript, filepath.Join(runDir, "audio"))
	if err != nil {
		state.Error = fmt.Sprintf("Stage 3 Voiceover: %v", err)
		return
	}
	// Stretch segment timings to the measured voiceover length
	rescaleSegments(reelScript, voiceoverSec)
	saveJSON(filepath.Join(runDir, "script.json"), reelScript)

	// ─────────────────────────────────────────────
	// STAGE 4: Visuals
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 4: Visuals ━━━")
	fetcher := visuals.New(cfg, uploader)
	if err := fetcher.Run(ctx, reelScript, profile, filepath.Join(runDir, "visuals")); err != nil {
		state.Error = fmt.Sprintf("Stage 4 Visuals: %v", err)
		return
	}
	saveJSON(filepath.Join(runDir, "script.json"), reelScript)

	// ─────────────────────────────────────────────
	// STAGE 5: Subtitles
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 5: Subtitles ━━━")
	subGen := subtitles.New(cfg, uploader)
	subtitlesURL, err := subGen.Run(ctx, filepath.Join(runDir, "audio", "voiceover.mp3"), filepath.Join(runDir, "subtitles"))
	if err != nil {
		log.Printf("⚠️  Stage 5 Subtitles failed: %v — continuing without captions", err)
		subtitlesURL = ""
	}

	// ─────────────────────────────────────────────
	// STAGE 6: Music
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 6: Music ━━━")
	track := music.New(cfg).Pick(reelScript.Mood)

	// ─────────────────────────────────────────────
	// STAGE 7: Render
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 7: Rendering ━━━")
	manifest := buildManifest(cfg, profile, reelScript, voiceoverURL, subtitlesURL, track)
	state.Manifest = manifest
	saveJSON(filepath.Join(runDir, "manifest.json"), manifest)

	compiler := render.NewCompiler(render.NewResolver())
	edit, err := compiler.Compile(ctx, manifest)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 7 Compile: %v", err)
		return
	}

	client := render.NewClient(
		cfg.Render.BaseURL,
		os.Getenv("SHOTSTACK_API_KEY"),
		time.Duration(cfg.Render.PollIntervalSec)*time.Second,
		cfg.Render.MaxPollAttempts,
	)
	result, err := client.Render(ctx, edit)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 7 Render: %v", err)
		return
	}
	state.Render = result
	log.Printf("[pipeline] Rendered video: %s", result.VideoURL)

	// ─────────────────────────────────────────────
	// STAGE 8: Metadata
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 8: Metadata ━━━")
	meta, err := metadata.New(cfg).Run(ctx, reelScript, profile)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 8 Metadata: %v", err)
		return
	}
	state.Metadata = meta
	saveJSON(filepath.Join(runDir, "metadata.json"), meta)

	// ─────────────────────────────────────────────
	// STAGE 9: Publish
	// ─────────────────────────────────────────────
	if !cfg.Publish.Enabled {
		log.Println("\n━━━ STAGE 9: Publish (disabled in config) ━━━")
		return
	}
	log.Println("\n━━━ STAGE 9: Publish ━━━")
	pub := publish.New(cfg)
	videoID, videoURL, err := pub.Run(ctx, result, meta, runDir)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 9 Publish: %v", err)
		return
	}
	state.YouTubeID = videoID
	state.YouTubeURL = videoURL

	_ = publish.LogUpload(videoID, videoURL, meta, cfg.Paths.Logs)
}

// rescaleSegments stretches segment boundaries so the last segment ends at the
// measured voiceover duration instead of the script's estimate.
func rescaleSegments(s *types.ReelScript, actualSec float64) {
	if actualSec <= 0 || s.TotalSec <= 0 || len(s.Segments) == 0 {
		return
	}
	factor := actualSec / s.TotalSec
	for i := range s.Segments {
		s.Segments[i].Start *= factor
		s.Segments[i].End *= factor
	}
	s.TotalSec = actualSec
}

// buildManifest assembles the render manifest from everything the earlier
// stages produced plus the business config.
func buildManifest(cfg *config.Config, profile *types.BusinessProfile, s *types.ReelScript, voiceoverURL, subtitlesURL string, track config.MusicTrack) *types.ReelManifest {
	bookingURL := cfg.Business.BookingURL
	if bookingURL == "" {
		bookingURL = profile.BookingURL
	}

	m := &types.ReelManifest{
		DurationSeconds:      s.TotalSec,
		Segments:             s.Segments,
		VoiceoverURL:         voiceoverURL,
		MusicURL:             track.URL,
		MusicDurationSeconds: track.DurationSeconds,
		SubtitlesURL:         subtitlesURL,
		LogoURL:              profile.LogoURL,
		LogoPosition:         cfg.Render.LogoPosition,
		DefaultZoom:          cfg.Script.DefaultZoom,
		Branding: &types.Branding{
			LogoURL:      profile.LogoURL,
			BusinessName: profile.Name,
			Address:      profile.Address,
			Hours:        profile.Hours,
			Phone:        profile.Phone,
			Email:        profile.Email,
			CallToAction: cfg.Business.CallToAction,
			QRTargetURL:  bookingURL,
		},
	}

	rating := cfg.Business.Rating
	if rating == "" {
		rating = profile.Rating
	}
	if rating != "" {
		m.Overlays = append(m.Overlays, types.Overlay{
			Type:   "rating",
			Text:   rating,
			Start:  cfg.Render.RatingOverlayStart,
			Length: cfg.Render.RatingOverlayLength,
		})
	}

	return m
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func saveState(state *types.PipelineState, dir string) {
	saveJSON(filepath.Join(dir, "pipeline_state.json"), state)
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
