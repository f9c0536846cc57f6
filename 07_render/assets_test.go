package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateQRCodeDataURI(t *testing.T) {
	r := NewResolver()
	uri, err := r.GenerateQRCode("https://lunacafe.test/book")
	if err != nil {
		t.Fatalf("GenerateQRCode: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("not a PNG data URI: %.40s", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("payload is not a decodable PNG: %v", err)
	}
}

func TestGenerateQRCodeRejectsEmptyTarget(t *testing.T) {
	if _, err := NewResolver().GenerateQRCode(""); err == nil {
		t.Fatal("empty target must fail")
	}
}

func TestFetchImageAsBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8, 0xff, 0xdb, 0x00}) // not decodable, kept as-is
	}))
	defer srv.Close()

	r := &Resolver{httpClient: srv.Client()}
	uri, err := r.FetchImageAsBase64(context.Background(), srv.URL+"/logo.jpg")
	if err != nil {
		t.Fatalf("FetchImageAsBase64: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("content type not carried through: %.40s", uri)
	}
}

func TestFetchImageDefaultsToPNGContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("bytes"))
	}))
	defer srv.Close()

	r := &Resolver{httpClient: srv.Client()}
	uri, err := r.FetchImageAsBase64(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchImageAsBase64: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("non-image content type must default to PNG: %.40s", uri)
	}
}

func TestFetchImageFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	r := &Resolver{httpClient: srv.Client()}
	if _, err := r.FetchImageAsBase64(context.Background(), srv.URL); err == nil {
		t.Fatal("non-200 must return an error for the caller to degrade on")
	}
}

func TestOversizedLogoIsDownscaled(t *testing.T) {
	var buf bytes.Buffer
	big := image.NewRGBA(image.Rect(0, 0, 1600, 800))
	if err := png.Encode(&buf, big); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	r := &Resolver{httpClient: srv.Client()}
	uri, err := r.FetchImageAsBase64(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("FetchImageAsBase64: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode downscaled PNG: %v", err)
	}
	if w := img.Bounds().Dx(); w != maxInlineDimension {
		t.Errorf("downscaled width %d, want %d", w, maxInlineDimension)
	}
	if h := img.Bounds().Dy(); h != maxInlineDimension/2 {
		t.Errorf("downscaled height %d, want %d", h, maxInlineDimension/2)
	}
}
