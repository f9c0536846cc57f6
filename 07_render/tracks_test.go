package render

import (
	"math"
	"testing"

	"reel-pipeline/types"
)

func TestMusicLooping(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds:      45,
		MusicURL:             "https://cdn.test/music.mp3",
		MusicDurationSeconds: 20,
	}

	track := buildMusicTrack(m)
	if track == nil {
		t.Fatal("music track expected")
	}
	if len(track.Clips) != 3 {
		t.Fatalf("want 3 clips, got %d", len(track.Clips))
	}

	first := track.Clips[0].Asset.(AudioAsset)
	last := track.Clips[2].Asset.(AudioAsset)
	mid := track.Clips[1].Asset.(AudioAsset)
	if first.Effect != "fadeIn" {
		t.Errorf("first clip effect %q, want fadeIn", first.Effect)
	}
	if last.Effect != "fadeOut" {
		t.Errorf("last clip effect %q, want fadeOut", last.Effect)
	}
	if mid.Effect != "" {
		t.Errorf("middle clip effect %q, want none", mid.Effect)
	}
	if math.Abs(track.Clips[2].Length-5) > 1e-9 {
		t.Errorf("last clip length %.2f, want 5", track.Clips[2].Length)
	}
	for _, c := range track.Clips {
		if c.Asset.(AudioAsset).Volume != 0.1 {
			t.Errorf("music volume %.2f, want 0.1", c.Asset.(AudioAsset).Volume)
		}
	}
}

func TestMusicSkippedWithoutDuration(t *testing.T) {
	m := &types.ReelManifest{DurationSeconds: 30, MusicURL: "https://cdn.test/music.mp3"}
	if buildMusicTrack(m) != nil {
		t.Fatal("music track must be skipped without a duration")
	}
}

func TestCaptionClampedToVisualEnd(t *testing.T) {
	m := &types.ReelManifest{DurationSeconds: 20, SubtitlesURL: "https://cdn.test/subs.srt"}

	track := buildCaptionTrack(m, 11.5)
	if track == nil {
		t.Fatal("caption track expected")
	}
	clip := track.Clips[0]
	if clip.Length != 11.5 {
		t.Errorf("caption length %.2f, want 11.5", clip.Length)
	}
	if clip.Position != "bottom" || clip.Offset == nil {
		t.Error("captions must sit near the bottom of frame with an offset")
	}
}

func TestOverlayClippingAndDropping(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds: 20,
		Overlays: []types.Overlay{
			{Type: "rating", Text: "4.8 ★", Start: 2, Length: 5},
			{Type: "qr", TargetURL: "https://lunacafe.test/book", Start: 9, Length: 6},
			{Type: "rating", Text: "4.8 ★", Start: 12, Length: 3}, // past visual end
		},
	}

	tracks := buildOverlayTracks(m, 11.5)
	if len(tracks) != 2 {
		t.Fatalf("want 2 overlay tracks, got %d", len(tracks))
	}

	qr := tracks[1].Clips[0]
	if math.Abs(qr.Length-2.5) > 1e-9 {
		t.Errorf("qr overlay length %.2f, want clamped 2.5", qr.Length)
	}
	if qr.Position != "center" || qr.Effect != "zoomIn" {
		t.Error("qr overlay must be centered with a zoom-in effect")
	}
	if _, ok := qr.Asset.(ImageAsset); !ok {
		t.Errorf("qr overlay asset %T, want ImageAsset", qr.Asset)
	}

	rating := tracks[0].Clips[0]
	if _, ok := rating.Asset.(HTMLAsset); !ok {
		t.Errorf("rating overlay asset %T, want HTMLAsset", rating.Asset)
	}
}

func TestLogoPlacements(t *testing.T) {
	cases := []struct {
		position   string
		visualEnd  float64
		wantStart  float64
		wantLength float64
	}{
		{"end", 15, 10, 5},
		{"end", 3, 0, 3},
		{"beginning", 15, 0, 5},
		{"overlay", 15, 0, 15},
	}
	for _, tc := range cases {
		m := &types.ReelManifest{
			DurationSeconds: 15,
			LogoURL:         "https://cdn.test/logo.png",
			LogoPosition:    tc.position,
		}
		track := buildLogoTrack(m, tc.visualEnd)
		if track == nil {
			t.Fatalf("%s: logo track expected", tc.position)
		}
		clip := track.Clips[0]
		if clip.Start != tc.wantStart || math.Abs(clip.Length-tc.wantLength) > 1e-9 {
			t.Errorf("%s/end=%.0f: start=%.1f length=%.1f, want %.1f/%.1f",
				tc.position, tc.visualEnd, clip.Start, clip.Length, tc.wantStart, tc.wantLength)
		}
		if clip.Scale != logoScale {
			t.Errorf("%s: scale %.2f, want %.2f", tc.position, clip.Scale, logoScale)
		}
	}
}

func TestLogoSkipsIconFiles(t *testing.T) {
	m := &types.ReelManifest{DurationSeconds: 15, LogoURL: "https://cdn.test/favicon.ICO"}
	if buildLogoTrack(m, 15) != nil {
		t.Fatal("icon-format logos must be skipped")
	}
}

func TestVoiceoverTrack(t *testing.T) {
	m := &types.ReelManifest{DurationSeconds: 30, VoiceoverURL: "https://cdn.test/vo.mp3"}
	track := buildVoiceoverTrack(m)
	clip := track.Clips[0]
	if clip.Start != 0 || clip.Length != 30 {
		t.Errorf("voiceover clip %f/%f, want 0/30", clip.Start, clip.Length)
	}
	if clip.Asset.(AudioAsset).Volume != 1 {
		t.Error("voiceover must play at full volume")
	}
}
