package main

import (
	"math"
	"testing"

	"reel-pipeline/config"
	"reel-pipeline/types"
)

func TestRescaleSegments(t *testing.T) {
	s := &types.ReelScript{
		TotalSec: 30,
		Segments: []types.Segment{
			{Index: 0, Start: 0, End: 10},
			{Index: 1, Start: 10, End: 20},
			{Index: 2, Start: 20, End: 30},
		},
	}

	rescaleSegments(s, 24)

	if s.TotalSec != 24 {
		t.Fatalf("total %.1f, want the measured 24", s.TotalSec)
	}
	wantBounds := [][2]float64{{0, 8}, {8, 16}, {16, 24}}
	for i, seg := range s.Segments {
		if math.Abs(seg.Start-wantBounds[i][0]) > 1e-9 || math.Abs(seg.End-wantBounds[i][1]) > 1e-9 {
			t.Errorf("segment %d: %.2f-%.2f, want %.2f-%.2f",
				i, seg.Start, seg.End, wantBounds[i][0], wantBounds[i][1])
		}
	}
}

func TestRescaleSegmentsIgnoresBadInput(t *testing.T) {
	s := &types.ReelScript{TotalSec: 30, Segments: []types.Segment{{End: 30}}}
	rescaleSegments(s, 0)
	if s.TotalSec != 30 || s.Segments[0].End != 30 {
		t.Error("zero measured duration must leave timings untouched")
	}
}

func TestBuildManifest(t *testing.T) {
	cfg := &config.Config{
		Business: config.BusinessConfig{Rating: "4.8 ★ (213 reviews)"},
		Script:   config.ScriptConfig{DefaultZoom: "ken_burns"},
		Render: config.RenderConfig{
			LogoPosition:        "end",
			RatingOverlayStart:  2,
			RatingOverlayLength: 3,
		},
	}
	profile := &types.BusinessProfile{
		Name:       "Luna Cafe",
		Website:    "https://lunacafe.test",
		BookingURL: "https://lunacafe.test/book",
		Phone:      "+1 555 0101",
		LogoURL:    "https://lunacafe.test/logo.png",
	}
	s := &types.ReelScript{
		TotalSec: 24,
		Segments: []types.Segment{{Index: 0, Start: 0, End: 24, ImageURL: "https://img.test/a.jpg"}},
	}
	track := config.MusicTrack{URL: "https://cdn.test/music.mp3", DurationSeconds: 95}

	m := buildManifest(cfg, profile, s, "https://cdn.test/vo.mp3", "https://cdn.test/subs.srt", track)

	if m.DurationSeconds != 24 {
		t.Errorf("duration %.1f, want 24", m.DurationSeconds)
	}
	if m.VoiceoverURL != "https://cdn.test/vo.mp3" || m.SubtitlesURL != "https://cdn.test/subs.srt" {
		t.Error("voiceover/subtitles URLs not carried through")
	}
	if m.MusicURL != track.URL || m.MusicDurationSeconds != 95 {
		t.Error("music track not carried through")
	}
	if m.LogoPosition != "end" || m.DefaultZoom != "ken_burns" {
		t.Error("render config not carried through")
	}

	if m.Branding == nil {
		t.Fatal("branding expected")
	}
	if m.Branding.BusinessName != "Luna Cafe" || m.Branding.Phone != "+1 555 0101" {
		t.Error("branding contact details missing")
	}
	if m.Branding.QRTargetURL != "https://lunacafe.test/book" {
		t.Errorf("QR target %q, want the booking link", m.Branding.QRTargetURL)
	}

	if len(m.Overlays) != 1 {
		t.Fatalf("want a rating overlay, got %d overlays", len(m.Overlays))
	}
	o := m.Overlays[0]
	if o.Type != "rating" || o.Text != "4.8 ★ (213 reviews)" || o.Start != 2 || o.Length != 3 {
		t.Errorf("unexpected rating overlay: %+v", o)
	}
}

func TestBuildManifestWithoutRating(t *testing.T) {
	m := buildManifest(&config.Config{}, &types.BusinessProfile{Name: "Luna Cafe"},
		&types.ReelScript{TotalSec: 20}, "https://cdn.test/vo.mp3", "", config.MusicTrack{})
	if len(m.Overlays) != 0 {
		t.Errorf("no rating configured, got %d overlays", len(m.Overlays))
	}
	if m.MusicURL != "" {
		t.Error("zero music track must leave the manifest without music")
	}
}
