package render

import (
	"errors"
	"math"
	"strings"

	"reel-pipeline/types"
)

// ErrNoVisualSource means the manifest carries neither segments nor animated
// video URLs; a reel cannot be compiled without a visual track.
var ErrNoVisualSource = errors.New("reel manifest has no visual source")

// turboPrefix marks an entry in AnimatedVideoURLs that is really a still image
// (produced by the fast image model instead of a video model)
const turboPrefix = "turbo:"

// singleVideoRefSeconds is the assumed length of a single animated video
// source. The render API has no loop flag, so the builder stacks repetitions.
const singleVideoRefSeconds = 10.0

const (
	effectZoomIn     = "zoomIn"
	effectZoomOut    = "zoomOut"
	effectSlideLeft  = "slideLeft"
	effectSlideRight = "slideRight"
)

const transitionFade = "fade"

// buildVisualTrack converts the manifest's visual source into an ordered
// sequence of clips covering [0, duration), before any branding truncation.
// Source priority: multiple animated videos, single animated video, segments.
func buildVisualTrack(m *types.ReelManifest) (Track, error) {
	switch {
	case len(m.AnimatedVideoURLs) > 0:
		return buildMultiVideoClips(m), nil
	case m.AnimatedVideoURL != "":
		return buildLoopedVideoClips(m), nil
	case len(m.Segments) > 0:
		return buildSegmentClips(m), nil
	default:
		return Track{}, ErrNoVisualSource
	}
}

// buildMultiVideoClips splits the duration evenly across the video URLs.
// A turbo:-prefixed URL is a still image and gets a zoom instead of a mute.
func buildMultiVideoClips(m *types.ReelManifest) Track {
	per := m.DurationSeconds / float64(len(m.AnimatedVideoURLs))

	var clips []Clip
	for i, src := range m.AnimatedVideoURLs {
		clip := Clip{
			Start:  float64(i) * per,
			Length: per,
		}
		if strings.HasPrefix(src, turboPrefix) {
			clip.Asset = NewImageAsset(strings.TrimPrefix(src, turboPrefix))
			clip.Effect = effectZoomIn
		} else {
			clip.Asset = NewVideoAsset(src, 0)
		}
		clips = append(clips, clip)
	}
	return Track{Clips: clips}
}

// buildLoopedVideoClips simulates looping a single video source by stacking
// full-length repetitions, truncating the last one to the remaining time.
func buildLoopedVideoClips(m *types.ReelManifest) Track {
	reps := int(math.Ceil(m.DurationSeconds / singleVideoRefSeconds))
	if reps < 1 {
		reps = 1
	}

	var clips []Clip
	for i := 0; i < reps; i++ {
		start := float64(i) * singleVideoRefSeconds
		length := singleVideoRefSeconds
		if start+length > m.DurationSeconds {
			length = m.DurationSeconds - start
		}
		clips = append(clips, Clip{
			Asset:  NewVideoAsset(m.AnimatedVideoURL, 0),
			Start:  start,
			Length: length,
		})
	}
	return Track{Clips: clips}
}

// buildSegmentClips emits one image clip per segment, timing taken directly
// from the segment bounds. Fit is "contain" — the full image must be visible.
func buildSegmentClips(m *types.ReelManifest) Track {
	var clips []Clip
	for i, seg := range m.Segments {
		clip := Clip{
			Asset:  NewImageAsset(seg.ImageURL),
			Start:  seg.Start,
			Length: seg.End - seg.Start,
			Fit:    "contain",
			Effect: resolveZoom(m, seg, i),
			Filter: styleFilter(seg.Style),
			Transition: &Transition{
				Out: transitionFade,
			},
		}
		if i == 0 {
			clip.Transition.In = transitionFade
		}
		clips = append(clips, clip)
	}
	return Track{Clips: clips}
}

// resolveZoom picks the motion effect for one segment. Priority: manifest-level
// zoom sequence entry for this index, the segment's own override, the
// manifest-level default, then zoom-in.
func resolveZoom(m *types.ReelManifest, seg types.Segment, idx int) string {
	zoom := ""
	if idx < len(m.ZoomSequence) {
		zoom = m.ZoomSequence[idx]
	}
	if zoom == "" {
		zoom = seg.Zoom
	}
	if zoom == "" {
		zoom = m.DefaultZoom
	}
	return ZoomEffect(zoom, idx)
}

// ZoomEffect maps an abstract zoom type to a render effect. Parity-based types
// alternate in/out across segment indexes. Unrecognized types zoom in.
func ZoomEffect(zoom string, idx int) string {
	switch zoom {
	case "slow_zoom_in":
		return effectZoomIn
	case "slow_zoom_out":
		return effectZoomOut
	case "ken_burns", "alternating":
		if idx%2 == 0 {
			return effectZoomIn
		}
		return effectZoomOut
	case "ken_burns_left":
		return effectSlideLeft
	case "ken_burns_right":
		return effectSlideRight
	case "static":
		return ""
	default:
		return effectZoomIn
	}
}

// styleFilter maps a segment's visual style to a render filter
func styleFilter(style string) string {
	switch style {
	case "vibrant":
		return "boost"
	case "muted":
		return "muted"
	case "noir":
		return "greyscale"
	default:
		return ""
	}
}
