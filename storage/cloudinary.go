package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client uploads pipeline artifacts (voiceover, images, subtitles) to
// Cloudinary via unsigned upload, so the remote renderer can fetch them by URL
type Client struct {
	cloudName    string
	uploadPreset string
	httpClient   *http.Client
}

// NewFromEnv builds a Client from CLOUDINARY_CLOUD_NAME and
// CLOUDINARY_UPLOAD_PRESET
func NewFromEnv() (*Client, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	preset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	if cloudName == "" || preset == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME or CLOUDINARY_UPLOAD_PRESET not set")
	}
	return &Client{
		cloudName:    cloudName,
		uploadPreset: preset,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadFile uploads a local file and returns its public HTTPS URL
func (c *Client) UploadFile(ctx context.Context, path, folder string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return c.Upload(ctx, data, filepath.Base(path), folder)
}

// Upload pushes raw bytes under the given filename and folder
func (c *Client) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	mw.WriteField("upload_preset", c.uploadPreset)
	if folder != "" {
		mw.WriteField("folder", folder)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", c.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var ur uploadResponse
	if err := json.Unmarshal(raw, &ur); err != nil {
		return "", fmt.Errorf("decode cloudinary response: %w", err)
	}
	if ur.Error != nil {
		return "", fmt.Errorf("cloudinary upload failed: %s", ur.Error.Message)
	}
	if ur.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no secure_url (HTTP %d)", resp.StatusCode)
	}
	return ur.SecureURL, nil
}
