package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Business  BusinessConfig  `yaml:"business"`
	Research  ResearchConfig  `yaml:"research"`
	Script    ScriptConfig    `yaml:"script"`
	Audio     AudioConfig     `yaml:"audio"`
	Visuals   VisualsConfig   `yaml:"visuals"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Music     MusicConfig     `yaml:"music"`
	Render    RenderConfig    `yaml:"render"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Publish   PublishConfig   `yaml:"publish"`
	Paths     PathsConfig     `yaml:"paths"`
}

type BusinessConfig struct {
	WebsiteURL   string `yaml:"website_url"`
	BookingURL   string `yaml:"booking_url"`
	Rating       string `yaml:"rating"`
	CallToAction string `yaml:"call_to_action"`
}

type ResearchConfig struct {
	Subreddits     []string `yaml:"subreddits"`
	MaxHookIdeas   int      `yaml:"max_hook_ideas"`
	MaxPhotos      int      `yaml:"max_photos"`
	RequestTimeout int      `yaml:"request_timeout_sec"`
}

type ScriptConfig struct {
	TargetDurationSec float64 `yaml:"target_duration_sec"`
	SegmentCount      int     `yaml:"segment_count"`
	GroqModel         string  `yaml:"groq_model"`
	Temperature       float64 `yaml:"temperature"`
	DefaultZoom       string  `yaml:"default_zoom"`
}

type AudioConfig struct {
	Providers       []string `yaml:"providers"` // tried in order, first success wins
	ElevenLabsVoice string   `yaml:"elevenlabs_voice"`
	OpenAIVoice     string   `yaml:"openai_voice"`
	OpenAIModel     string   `yaml:"openai_model"`
}

type VisualsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type SubtitlesConfig struct {
	WhisperModel    string `yaml:"whisper_model"`
	MaxCharsPerLine int    `yaml:"max_chars_per_line"`
}

// MusicTrack is one entry in the tag-matched music library
type MusicTrack struct {
	URL             string   `yaml:"url"`
	DurationSeconds float64  `yaml:"duration_seconds"`
	Tags            []string `yaml:"tags"`
}

type MusicConfig struct {
	Library     []MusicTrack `yaml:"library"`
	DefaultMood string       `yaml:"default_mood"`
}

type RenderConfig struct {
	BaseURL             string  `yaml:"base_url"`
	PollIntervalSec     int     `yaml:"poll_interval_sec"`
	MaxPollAttempts     int     `yaml:"max_poll_attempts"`
	LogoPosition        string  `yaml:"logo_position"` // beginning | end | overlay
	RatingOverlayStart  float64 `yaml:"rating_overlay_start"`
	RatingOverlayLength float64 `yaml:"rating_overlay_length"`
}

type MetadataConfig struct {
	GroqModel     string `yaml:"groq_model"`
	TitleMaxChars int    `yaml:"title_max_chars"`
	TagsCount     int    `yaml:"tags_count"`
}

type PublishConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"youtube_category_id"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	DefaultLanguage   string `yaml:"default_language"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Logs   string `yaml:"logs"`
}

// Load reads config.yaml and returns a Config struct
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
