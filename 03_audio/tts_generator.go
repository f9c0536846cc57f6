package audio

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"reel-pipeline/config"
	"reel-pipeline/storage"
	"reel-pipeline/types"
)

// Generator handles voiceover generation for the reel script
type Generator struct {
	cfg      *config.Config
	chain    *Chain
	uploader *storage.Client
}

// New creates a new Generator. The provider chain is built from
// cfg.Audio.Providers in order; unknown names are skipped with a warning.
func New(cfg *config.Config, uploader *storage.Client) *Generator {
	var providers []Provider
	for _, name := range cfg.Audio.Providers {
		switch name {
		case "elevenlabs":
			providers = append(providers, NewElevenLabs(cfg.Audio.ElevenLabsVoice))
		case "openai":
			providers = append(providers, NewOpenAITTS(cfg.Audio.OpenAIModel, cfg.Audio.OpenAIVoice))
		default:
			log.Printf("[audio] Warning: unknown TTS provider %q in config, skipping", name)
		}
	}
	if len(providers) == 0 {
		providers = []Provider{
			NewElevenLabs(cfg.Audio.ElevenLabsVoice),
			NewOpenAITTS(cfg.Audio.OpenAIModel, cfg.Audio.OpenAIVoice),
		}
	}
	return &Generator{cfg: cfg, chain: NewChain(providers...), uploader: uploader}
}

// Run synthesizes the full voiceover, measures its real duration and uploads
// it so the renderer can reference it by URL. Returns the hosted URL and the
// measured duration in seconds.
func (g *Generator) Run(ctx context.Context, script *types.ReelScript, outputDir string) (string, float64, error) {
	log.Println("[audio] Generating voiceover...")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("create audio dir: %w", err)
	}

	narration := buildNarration(script)
	if narration == "" {
		return "", 0, fmt.Errorf("script has no narration text")
	}

	data, providerName, err := g.chain.Synthesize(ctx, narration)
	if err != nil {
		return "", 0, fmt.Errorf("voiceover synthesis: %w", err)
	}
	log.Printf("[audio] Synthesized %d bytes via %s", len(data), providerName)

	outFile := filepath.Join(outputDir, "voiceover.mp3")
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return "", 0, fmt.Errorf("write voiceover: %w", err)
	}

	dur, err := getAudioDuration(outFile)
	if err != nil {
		log.Printf("[audio] Warning: could not measure duration, using script estimate: %v", err)
		dur = script.TotalSec
	}

	url, err := g.uploader.UploadFile(ctx, outFile, "reel-audio")
	if err != nil {
		return "", 0, fmt.Errorf("upload voiceover: %w", err)
	}

	log.Printf("[audio] ✅ Voiceover ready: %.2fs → %s", dur, url)
	return url, dur, nil
}

// buildNarration joins the hook and segment captions into one spoken script.
func buildNarration(script *types.ReelScript) string {
	var parts []string
	if script.Hook != "" {
		parts = append(parts, script.Hook)
	}
	for _, seg := range script.Segments {
		if c := strings.TrimSpace(seg.Caption); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// getAudioDuration uses ffprobe to get accurate audio duration in seconds
func getAudioDuration(audioFile string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}
