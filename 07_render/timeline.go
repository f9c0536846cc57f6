package render

// Wire model for the remote render API. Tracks are rendered bottom-to-top:
// track 0 is furthest back, later tracks composite on top of earlier ones.

const timelineBackground = "#000000"

// Edit is the full payload submitted to the render endpoint
type Edit struct {
	Timeline Timeline `json:"timeline"`
	Output   Output   `json:"output"`
}

type Timeline struct {
	Background string  `json:"background"`
	Tracks     []Track `json:"tracks"`
}

type Track struct {
	Clips []Clip `json:"clips"`
}

// Clip is a time-bounded placement of one asset within a track
type Clip struct {
	Asset      Asset       `json:"asset"`
	Start      float64     `json:"start"`
	Length     float64     `json:"length"`
	Fit        string      `json:"fit,omitempty"`
	Position   string      `json:"position,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
	Effect     string      `json:"effect,omitempty"`
	Filter     string      `json:"filter,omitempty"`
	Scale      float64     `json:"scale,omitempty"`
	Offset     *Offset     `json:"offset,omitempty"`
}

type Transition struct {
	In  string `json:"in,omitempty"`
	Out string `json:"out,omitempty"`
}

type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Asset is the closed set of payloads a clip can carry. Each kind is a struct
// with a fixed "type" discriminator set by its constructor; nothing outside
// this file implements the interface.
type Asset interface {
	assetKind() string
}

type VideoAsset struct {
	Type   string  `json:"type"`
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
}

func (VideoAsset) assetKind() string { return "video" }

// NewVideoAsset builds a video asset. Volume 0 mutes the source audio so the
// voiceover track carries all narration.
func NewVideoAsset(src string, volume float64) VideoAsset {
	return VideoAsset{Type: "video", Src: src, Volume: volume}
}

type ImageAsset struct {
	Type string `json:"type"`
	Src  string `json:"src"`
}

func (ImageAsset) assetKind() string { return "image" }

func NewImageAsset(src string) ImageAsset {
	return ImageAsset{Type: "image", Src: src}
}

type AudioAsset struct {
	Type   string  `json:"type"`
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
	Effect string  `json:"effect,omitempty"` // fadeIn | fadeOut | fadeInFadeOut
}

func (AudioAsset) assetKind() string { return "audio" }

func NewAudioAsset(src string, volume float64) AudioAsset {
	return AudioAsset{Type: "audio", Src: src, Volume: volume}
}

type CaptionAsset struct {
	Type string `json:"type"`
	Src  string `json:"src"`
}

func (CaptionAsset) assetKind() string { return "caption" }

func NewCaptionAsset(src string) CaptionAsset {
	return CaptionAsset{Type: "caption", Src: src}
}

type HTMLAsset struct {
	Type       string `json:"type"`
	HTML       string `json:"html"`
	CSS        string `json:"css,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Background string `json:"background,omitempty"`
}

func (HTMLAsset) assetKind() string { return "html" }

func NewHTMLAsset(html, css string, width, height int) HTMLAsset {
	return HTMLAsset{Type: "html", HTML: html, CSS: css, Width: width, Height: height}
}

// Output describes the rendered file: a 9:16 vertical MP4 for reels/shorts
type Output struct {
	Format      string `json:"format"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspectRatio"`
	FPS         int    `json:"fps"`
	Quality     string `json:"quality"`
}

func defaultOutput() Output {
	return Output{
		Format:      "mp4",
		Resolution:  "1080",
		AspectRatio: "9:16",
		FPS:         30,
		Quality:     "high",
	}
}

// trackSet keys tracks by role so the compiler never reasons about wire
// positions. The positional array only exists at the serialization boundary.
type trackSet struct {
	visual    Track
	music     *Track
	voiceover Track
	overlays  []Track
	logo      *Track
	captions  *Track
}

// tracks flattens the roles into wire order. The order is a hard contract with
// the compositor: visuals, music, voiceover, overlays, logo, captions.
func (ts *trackSet) tracks() []Track {
	out := []Track{ts.visual}
	if ts.music != nil {
		out = append(out, *ts.music)
	}
	out = append(out, ts.voiceover)
	out = append(out, ts.overlays...)
	if ts.logo != nil {
		out = append(out, *ts.logo)
	}
	if ts.captions != nil {
		out = append(out, *ts.captions)
	}
	return out
}
