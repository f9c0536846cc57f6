package music

import (
	"testing"

	"reel-pipeline/config"
)

func testLibrary() []config.MusicTrack {
	return []config.MusicTrack{
		{URL: "https://cdn.test/upbeat.mp3", DurationSeconds: 95, Tags: []string{"bright", "upbeat"}},
		{URL: "https://cdn.test/acoustic.mp3", DurationSeconds: 120, Tags: []string{"cozy", "warm"}},
	}
}

func TestPickMatchesMoodTag(t *testing.T) {
	p := New(&config.Config{Music: config.MusicConfig{Library: testLibrary()}})

	track := p.Pick("Cozy") // tag match is case-insensitive
	if track.URL != "https://cdn.test/acoustic.mp3" {
		t.Errorf("picked %q, want the cozy track", track.URL)
	}
	if track.DurationSeconds != 120 {
		t.Errorf("duration %.0f, want 120", track.DurationSeconds)
	}
}

func TestPickFallsBackToDefaultMood(t *testing.T) {
	p := New(&config.Config{Music: config.MusicConfig{
		Library:     testLibrary(),
		DefaultMood: "warm",
	}})

	if track := p.Pick("energetic"); track.URL != "https://cdn.test/acoustic.mp3" {
		t.Errorf("picked %q, want the default-mood track", track.URL)
	}
}

func TestPickFallsBackToFirstTrack(t *testing.T) {
	p := New(&config.Config{Music: config.MusicConfig{Library: testLibrary()}})

	if track := p.Pick("energetic"); track.URL != "https://cdn.test/upbeat.mp3" {
		t.Errorf("picked %q, want the first library track", track.URL)
	}
}

func TestPickEmptyLibrary(t *testing.T) {
	p := New(&config.Config{})
	if track := p.Pick("bright"); track.URL != "" || track.DurationSeconds != 0 {
		t.Errorf("empty library must yield a zero track, got %+v", track)
	}
}
