package render

import (
	"fmt"
	"html"
	"log"
	"math"
	"net/url"
	"strings"

	"reel-pipeline/types"
)

const musicVolume = 0.1

const captionBottomOffset = 0.07

const (
	logoScale       = 0.15
	logoTailSeconds = 5.0
)

// buildVoiceoverTrack is the one track that is always present: a single
// full-duration, full-volume narration clip
func buildVoiceoverTrack(m *types.ReelManifest) Track {
	return Track{Clips: []Clip{{
		Asset:  NewAudioAsset(m.VoiceoverURL, 1),
		Start:  0,
		Length: m.DurationSeconds,
	}}}
}

// buildMusicTrack loops the background music across the full reel. Requires
// both a URL and a known duration; the first clip fades in, the last fades
// out, and the last clip is clamped to the remaining time.
func buildMusicTrack(m *types.ReelManifest) *Track {
	if m.MusicURL == "" {
		return nil
	}
	if m.MusicDurationSeconds <= 0 {
		log.Printf("[render] Warning: music URL given without a duration — skipping music track")
		return nil
	}

	reps := int(math.Ceil(m.DurationSeconds / m.MusicDurationSeconds))
	if reps < 1 {
		reps = 1
	}

	var clips []Clip
	for i := 0; i < reps; i++ {
		start := float64(i) * m.MusicDurationSeconds
		length := m.MusicDurationSeconds
		if start+length > m.DurationSeconds {
			length = m.DurationSeconds - start
		}

		asset := NewAudioAsset(m.MusicURL, musicVolume)
		switch {
		case reps == 1:
			asset.Effect = "fadeInFadeOut"
		case i == 0:
			asset.Effect = "fadeIn"
		case i == reps-1:
			asset.Effect = "fadeOut"
		}

		clips = append(clips, Clip{Asset: asset, Start: start, Length: length})
	}
	return &Track{Clips: clips}
}

// buildCaptionTrack references the external subtitles resource. Captions must
// never overlap the branding card, so the clip ends at the visual end time.
func buildCaptionTrack(m *types.ReelManifest, visualEnd float64) *Track {
	if m.SubtitlesURL == "" {
		return nil
	}
	return &Track{Clips: []Clip{{
		Asset:    NewCaptionAsset(m.SubtitlesURL),
		Start:    0,
		Length:   math.Min(m.DurationSeconds, visualEnd),
		Position: "bottom",
		Offset:   &Offset{Y: captionBottomOffset},
	}}}
}

// buildOverlayTracks emits one track per manifest overlay, clipped to the
// visual end time. Overlays that would start on the branding card are dropped.
func buildOverlayTracks(m *types.ReelManifest, visualEnd float64) []Track {
	var tracks []Track
	for _, o := range m.Overlays {
		if o.Start >= visualEnd {
			log.Printf("[render] Dropping %s overlay at %.1fs — past visual end %.1fs", o.Type, o.Start, visualEnd)
			continue
		}
		length := o.Length
		if o.Start+length > visualEnd {
			length = visualEnd - o.Start
		}

		var clip Clip
		switch o.Type {
		case "rating":
			clip = ratingClip(o, length)
		case "qr":
			clip = qrOverlayClip(o, length)
		default:
			log.Printf("[render] Warning: unknown overlay type %q — skipping", o.Type)
			continue
		}
		tracks = append(tracks, Track{Clips: []Clip{clip}})
	}
	return tracks
}

// ratingClip renders a small pill badge, e.g. "4.8 ★ (213 reviews)"
func ratingClip(o types.Overlay, length float64) Clip {
	position := o.Position
	if position == "" {
		position = "top"
	}
	htmlBody := fmt.Sprintf(`<div class="pill">%s</div>`, html.EscapeString(o.Text))
	css := `.pill { display: inline-block; padding: 18px 44px; border-radius: 60px; background: rgba(0,0,0,0.65); color: #ffd24a; font-family: 'Helvetica Neue', Arial, sans-serif; font-size: 42px; font-weight: 700; }`
	return Clip{
		Asset:      NewHTMLAsset(htmlBody, css, 700, 140),
		Start:      o.Start,
		Length:     length,
		Position:   position,
		Offset:     &Offset{Y: -0.06},
		Transition: &Transition{In: transitionFade, Out: transitionFade},
	}
}

// qrOverlayClip shows a remotely generated QR image centered on screen with a
// zoom-in attention effect. Unlike the end card, this is a plain image asset
// the renderer can fetch itself, so no inlining is needed.
func qrOverlayClip(o types.Overlay, length float64) Clip {
	src := fmt.Sprintf(
		"https://api.qrserver.com/v1/create-qr-code/?size=%dx%d&data=%s",
		qrPixelSize, qrPixelSize, url.QueryEscape(o.TargetURL),
	)
	return Clip{
		Asset:    NewImageAsset(src),
		Start:    o.Start,
		Length:   length,
		Position: "center",
		Scale:    0.45,
		Effect:   effectZoomIn,
	}
}

// buildLogoTrack pins a small corner logo. Icon files render poorly and are
// skipped. Placement "end" starts 5 seconds before the visual end; everything
// else starts at zero. Lengths are clamped against the visual end time.
func buildLogoTrack(m *types.ReelManifest, visualEnd float64) *Track {
	if m.LogoURL == "" || strings.HasSuffix(strings.ToLower(m.LogoURL), ".ico") {
		return nil
	}

	var start, length float64
	switch m.LogoPosition {
	case "end":
		start = visualEnd - logoTailSeconds
		if start < 0 {
			start = 0
		}
		length = visualEnd - start
	case "overlay":
		start = 0
		length = visualEnd
	default: // beginning
		start = 0
		length = math.Min(logoTailSeconds, visualEnd)
	}
	if length <= 0 {
		return nil
	}

	return &Track{Clips: []Clip{{
		Asset:      NewImageAsset(m.LogoURL),
		Start:      start,
		Length:     length,
		Position:   "topRight",
		Scale:      logoScale,
		Offset:     &Offset{X: -0.04, Y: -0.04},
		Transition: &Transition{In: transitionFade, Out: transitionFade},
	}}}
}
