package render

import (
	"context"
	"log"

	"reel-pipeline/types"
)

// Compiler deterministically turns a ReelManifest into a multi-track edit for
// the remote render API. Compilation is a pure function of the manifest plus
// the two resolved assets (logo, QR); nothing is shared across invocations.
type Compiler struct {
	assets *Resolver
}

// NewCompiler creates a Compiler backed by the given asset resolver
func NewCompiler(assets *Resolver) *Compiler {
	return &Compiler{assets: assets}
}

// Compile builds the full timeline: visual track (truncated for branding when
// present), then music, voiceover, overlays, logo and captions, in the z-order
// the compositor contract requires.
func (c *Compiler) Compile(ctx context.Context, m *types.ReelManifest) (*Edit, error) {
	visual, err := buildVisualTrack(m)
	if err != nil {
		return nil, err
	}

	visualEnd := visualEndTime(m)

	if m.Branding != nil {
		visual = truncateVisuals(visual, visualEnd)
		card := c.buildEndCard(ctx, m.Branding, visualEnd, m.DurationSeconds)
		visual.Clips = append(visual.Clips, card)
		log.Printf("[render] Branding card: %.1fs → %.1fs", visualEnd, m.DurationSeconds)
	}

	ts := trackSet{
		visual:    visual,
		music:     buildMusicTrack(m),
		voiceover: buildVoiceoverTrack(m),
		overlays:  buildOverlayTracks(m, visualEnd),
		logo:      buildLogoTrack(m, visualEnd),
		captions:  buildCaptionTrack(m, visualEnd),
	}

	edit := &Edit{
		Timeline: Timeline{
			Background: timelineBackground,
			Tracks:     ts.tracks(),
		},
		Output: defaultOutput(),
	}
	log.Printf("[render] Compiled timeline: %d tracks, %.1fs", len(edit.Timeline.Tracks), m.DurationSeconds)
	return edit, nil
}
