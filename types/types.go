package types

// BusinessProfile holds everything the research stage could learn about a business
type BusinessProfile struct {
	Name       string   `json:"name"`
	Tagline    string   `json:"tagline,omitempty"`
	Website    string   `json:"website"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Address    string   `json:"address,omitempty"`
	Hours      string   `json:"hours,omitempty"`
	LogoURL    string   `json:"logo_url,omitempty"`
	BookingURL string   `json:"booking_url,omitempty"`
	PhotoURLs  []string `json:"photo_urls,omitempty"`
	Rating     string   `json:"rating,omitempty"` // e.g. "4.8 ★ (213 reviews)"
	HookIdeas  []string `json:"hook_ideas,omitempty"`
}

// Segment is one timed visual beat of the reel
type Segment struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	ImageURL string  `json:"image_url"`
	Caption  string  `json:"caption,omitempty"`
	Zoom     string  `json:"zoom,omitempty"`  // per-segment override, see render.ZoomEffect
	Style    string  `json:"style,omitempty"` // vibrant | muted | noir

	// pipeline-side fields, filled in during script/visuals stages
	ImagePrompt string `json:"image_prompt,omitempty"`
	Mood        string `json:"mood,omitempty"`
}

// Branding holds the end-card content for a business
type Branding struct {
	LogoURL      string `json:"logo_url,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	Address      string `json:"address,omitempty"`
	Hours        string `json:"hours,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	CallToAction string `json:"call_to_action,omitempty"`
	QRTargetURL  string `json:"qr_target_url,omitempty"`
}

// Overlay is a rating badge or QR code shown over the visuals for a time window
type Overlay struct {
	Type      string  `json:"type"` // rating | qr
	Text      string  `json:"text,omitempty"`
	TargetURL string  `json:"target_url,omitempty"`
	Start     float64 `json:"start"`
	Length    float64 `json:"length"`
	Position  string  `json:"position,omitempty"`
}

// ReelManifest is the provider-agnostic description of one reel, handed to the
// timeline compiler exactly once per job. Exactly one of Segments,
// AnimatedVideoURL or AnimatedVideoURLs drives the visual track.
type ReelManifest struct {
	DurationSeconds      float64   `json:"duration_seconds"`
	Segments             []Segment `json:"segments,omitempty"`
	AnimatedVideoURL     string    `json:"animated_video_url,omitempty"`
	AnimatedVideoURLs    []string  `json:"animated_video_urls,omitempty"`
	VoiceoverURL         string    `json:"voiceover_url"`
	MusicURL             string    `json:"music_url,omitempty"`
	MusicDurationSeconds float64   `json:"music_duration_seconds,omitempty"`
	SubtitlesURL         string    `json:"subtitles_url,omitempty"`
	LogoURL              string    `json:"logo_url,omitempty"`
	LogoPosition         string    `json:"logo_position,omitempty"` // beginning | end | overlay
	Branding             *Branding `json:"branding,omitempty"`
	Overlays             []Overlay `json:"overlays,omitempty"`
	DefaultZoom          string    `json:"default_zoom,omitempty"`
	ZoomSequence         []string  `json:"zoom_sequence,omitempty"`
}

// ReelScript is the LLM-planned script before assets exist
type ReelScript struct {
	Title    string    `json:"title"`
	Hook     string    `json:"hook,omitempty"`
	TotalSec float64   `json:"total_sec"`
	Segments []Segment `json:"segments"`
	Mood     string    `json:"mood,omitempty"` // overall mood, drives music pick
}

// RenderResult is what the remote renderer hands back on success
type RenderResult struct {
	VideoURL string `json:"video_url"`
	RenderID string `json:"render_id"`
}

// VideoMetadata holds the publish metadata for the finished Short
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
	Visibility  string   `json:"visibility"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID       string           `json:"run_id"`
	StartedAt   string           `json:"started_at"`
	CompletedAt string           `json:"completed_at"`
	Profile     *BusinessProfile `json:"profile,omitempty"`
	Script      *ReelScript      `json:"script,omitempty"`
	Manifest    *ReelManifest    `json:"manifest,omitempty"`
	Render      *RenderResult    `json:"render,omitempty"`
	Metadata    *VideoMetadata   `json:"metadata,omitempty"`
	YouTubeID   string           `json:"youtube_id,omitempty"`
	YouTubeURL  string           `json:"youtube_url,omitempty"`
	Error       string           `json:"error,omitempty"`
}
