package music

import (
	"log"
	"strings"

	"reel-pipeline/config"
)

// Picker selects a background track from the configured library by mood tag
type Picker struct {
	cfg *config.Config
}

// New creates a new music Picker
func New(cfg *config.Config) *Picker {
	return &Picker{cfg: cfg}
}

// Pick returns the track whose tags match the script mood. Falls back to the
// configured default mood, then to the first library entry. Returns a zero
// track when the library is empty.
func (p *Picker) Pick(mood string) config.MusicTrack {
	library := p.cfg.Music.Library
	if len(library) == 0 {
		log.Println("[music] Library is empty — reel will have no background music")
		return config.MusicTrack{}
	}

	if track, ok := matchByTag(library, mood); ok {
		log.Printf("[music] Matched mood %q → %s (%.0fs)", mood, track.URL, track.DurationSeconds)
		return track
	}

	if track, ok := matchByTag(library, p.cfg.Music.DefaultMood); ok {
		log.Printf("[music] No track for mood %q, using default mood %q", mood, p.cfg.Music.DefaultMood)
		return track
	}

	log.Printf("[music] No tag match for mood %q — using first library track", mood)
	return library[0]
}

func matchByTag(library []config.MusicTrack, mood string) (config.MusicTrack, bool) {
	if mood == "" {
		return config.MusicTrack{}, false
	}
	for _, track := range library {
		for _, tag := range track.Tags {
			if strings.EqualFold(tag, mood) {
				return track, true
			}
		}
	}
	return config.MusicTrack{}, false
}
