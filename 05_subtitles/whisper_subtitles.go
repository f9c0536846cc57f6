package subtitles

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"reel-pipeline/config"
	"reel-pipeline/storage"
)

// Generator transcribes the voiceover with Whisper and hosts the SRT so the
// renderer can attach it as a caption track.
type Generator struct {
	cfg      *config.Config
	uploader *storage.Client
}

// New creates a new subtitle Generator
func New(cfg *config.Config, uploader *storage.Client) *Generator {
	return &Generator{cfg: cfg, uploader: uploader}
}

// Run transcribes the audio file and returns the hosted SRT URL.
func (g *Generator) Run(ctx context.Context, audioFile, outputDir string) (string, error) {
	log.Println("[subtitles] Running Whisper transcription...")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	srtFile := filepath.Join(outputDir, "subtitles.srt")

	model := g.cfg.Subtitles.WhisperModel
	if model == "" {
		model = "base"
	}
	maxChars := g.cfg.Subtitles.MaxCharsPerLine
	if maxChars == 0 {
		maxChars = 32
	}

	// whisper audio.mp3 --model base --output_format srt --output_dir /path/
	cmd := exec.CommandContext(ctx,
		"whisper",
		audioFile,
		"--model", model,
		"--output_format", "srt",
		"--output_dir", outputDir,
		"--language", "en",
		"--word_timestamps", "True",
		"--max_line_width", fmt.Sprintf("%d", maxChars),
		"--max_line_count", "2",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	// Whisper saves as <audioFilename>.srt — find it
	base := strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))
	whisperOut := filepath.Join(outputDir, base+".srt")
	if _, err := os.Stat(whisperOut); err == nil && whisperOut != srtFile {
		if err := os.Rename(whisperOut, srtFile); err != nil {
			srtFile = whisperOut // use the whisper path directly
		}
	}

	if err := ValidateSRT(srtFile); err != nil {
		return "", fmt.Errorf("transcription output: %w", err)
	}

	url, err := g.uploader.UploadFile(ctx, srtFile, "reel-subtitles")
	if err != nil {
		return "", fmt.Errorf("upload subtitles: %w", err)
	}

	log.Printf("[subtitles] ✅ SRT hosted: %s", url)
	return url, nil
}

// ValidateSRT checks that the SRT file is valid and non-empty
func ValidateSRT(srtFile string) error {
	f, err := os.Open(srtFile)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
	}

	if lineCount < 4 {
		return fmt.Errorf("SRT file appears empty or malformed (%d lines)", lineCount)
	}
	return nil
}
