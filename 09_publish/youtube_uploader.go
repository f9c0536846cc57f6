package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"reel-pipeline/config"
	"reel-pipeline/types"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Uploader publishes the rendered reel to YouTube via Data API v3
type Uploader struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Run downloads the rendered video from its hosted URL and uploads it to
// YouTube with the generated metadata. Returns the YouTube video ID and URL.
func (u *Uploader) Run(ctx context.Context, result *types.RenderResult, metadata *types.VideoMetadata, outputDir string) (string, string, error) {
	videoFile, err := u.download(ctx, result.VideoURL, outputDir)
	if err != nil {
		return "", "", fmt.Errorf("download rendered video: %w", err)
	}

	log.Println("[publish] Authenticating with YouTube API...")

	client, err := u.getOAuthClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	log.Printf("[publish] Uploading: %q", metadata.Title)

	snippet := &youtube.VideoSnippet{
		Title:                metadata.Title,
		Description:          metadata.Description,
		Tags:                 metadata.Tags,
		CategoryId:           metadata.CategoryID,
		DefaultLanguage:      u.cfg.Publish.DefaultLanguage,
		DefaultAudioLanguage: u.cfg.Publish.DefaultLanguage,
	}

	status := &youtube.VideoStatus{
		PrivacyStatus:           metadata.Visibility,
		SelfDeclaredMadeForKids: u.cfg.Publish.MadeForKids,
	}

	video := &youtube.Video{
		Snippet: snippet,
		Status:  status,
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	fi, _ := f.Stat()
	log.Printf("[publish] File size: %.1f MB", float64(fi.Size())/1024/1024)

	// Resumable upload (required for files > 5MB)
	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.NotifySubscribers(u.cfg.Publish.NotifySubscribers)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoID := uploaded.Id
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	log.Printf("[publish] ✅ Uploaded successfully!")
	log.Printf("[publish] Video ID: %s", videoID)
	log.Printf("[publish] Video URL: %s", videoURL)

	return videoID, videoURL, nil
}

// download fetches the rendered MP4 from the render host to a local file.
func (u *Uploader) download(ctx context.Context, videoURL, outputDir string) (string, error) {
	if videoURL == "" {
		return "", fmt.Errorf("empty video URL")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	log.Printf("[publish] Downloading rendered video: %s", videoURL)

	req, err := http.NewRequestWithContext(ctx, "GET", videoURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d fetching rendered video", resp.StatusCode)
	}

	outFile := filepath.Join(outputDir, "reel_final.mp4")
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("save video: %w", err)
	}
	return outFile, nil
}

// getOAuthClient creates an OAuth2 HTTP client using env credentials
func (u *Uploader) getOAuthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

// LogUpload saves the upload result to the logs directory
func LogUpload(videoID, videoURL string, metadata *types.VideoMetadata, logsDir string) error {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return err
	}

	entry := map[string]interface{}{
		"video_id":    videoID,
		"video_url":   videoURL,
		"title":       metadata.Title,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
	}

	logFile := filepath.Join(logsDir, fmt.Sprintf("upload_%s.json", time.Now().Format("20060102_150405")))
	data, _ := json.MarshalIndent(entry, "", "  ")
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		return err
	}

	log.Printf("[publish] Upload log saved: %s", logFile)
	return nil
}
