package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// maxInlineDimension bounds the pixel size of inlined logos so the HTML asset
// payload stays small
const maxInlineDimension = 512

const qrPixelSize = 512

// Resolver fetches remote images and generates QR codes as data: URIs so the
// remote renderer never has to perform its own network fetches inside HTML
// assets. All failures are returned to the caller, which falls back to the
// raw URL or a placeholder.
type Resolver struct {
	httpClient *http.Client
}

// NewResolver creates a Resolver with a sane fetch timeout
func NewResolver() *Resolver {
	return &Resolver{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchImageAsBase64 downloads an image and returns it as a data: URI. The
// content type comes from the response header, defaulting to PNG. Oversized
// PNG/JPEG logos are downscaled before encoding.
func (r *Resolver) FetchImageAsBase64(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}

	if scaled, ok := downscale(data, contentType); ok {
		data = scaled
		contentType = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

// GenerateQRCode encodes a target URL into a QR bitmap as a data: URI
func (r *Resolver) GenerateQRCode(targetURL string) (string, error) {
	if targetURL == "" {
		return "", fmt.Errorf("empty QR target URL")
	}
	pngData, err := qrcode.Encode(targetURL, qrcode.Medium, qrPixelSize)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData), nil
}

// downscale shrinks PNG/JPEG images whose largest side exceeds
// maxInlineDimension, re-encoding as PNG. Returns ok=false when the image is
// small enough or cannot be decoded (webp, svg, …) — callers keep the raw bytes.
func downscale(data []byte, contentType string) ([]byte, bool) {
	var src image.Image
	var err error
	switch contentType {
	case "image/png":
		src, err = png.Decode(bytes.NewReader(data))
	case "image/jpeg":
		src, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxInlineDimension && h <= maxInlineDimension {
		return nil, false
	}

	scale := float64(maxInlineDimension) / float64(w)
	if h > w {
		scale = float64(maxInlineDimension) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
