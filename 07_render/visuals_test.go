package render

import (
	"math"
	"testing"

	"reel-pipeline/types"
)

func segs(bounds ...float64) []types.Segment {
	var out []types.Segment
	for i := 0; i+1 < len(bounds); i += 2 {
		out = append(out, types.Segment{
			Index:    i / 2,
			Start:    bounds[i],
			End:      bounds[i+1],
			ImageURL: "https://img.test/seg.jpg",
		})
	}
	return out
}

func TestSegmentClipsPartitionDuration(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds: 30,
		Segments:        segs(0, 7, 7, 15, 15, 22, 22, 30),
		VoiceoverURL:    "https://cdn.test/vo.mp3",
	}

	track, err := buildVisualTrack(m)
	if err != nil {
		t.Fatalf("buildVisualTrack: %v", err)
	}
	if len(track.Clips) != 4 {
		t.Fatalf("want 4 clips, got %d", len(track.Clips))
	}

	cursor := 0.0
	for i, c := range track.Clips {
		if math.Abs(c.Start-cursor) > 1e-9 {
			t.Errorf("clip %d: start %.3f, want %.3f (gap or overlap)", i, c.Start, cursor)
		}
		cursor = c.Start + c.Length
	}
	if math.Abs(cursor-m.DurationSeconds) > 1e-9 {
		t.Errorf("clips end at %.3f, want %.3f", cursor, m.DurationSeconds)
	}
}

func TestSegmentClipTransitionsAndFit(t *testing.T) {
	m := &types.ReelManifest{DurationSeconds: 10, Segments: segs(0, 5, 5, 10)}

	track, _ := buildVisualTrack(m)
	for i, c := range track.Clips {
		if c.Fit != "contain" {
			t.Errorf("clip %d: fit %q, want contain", i, c.Fit)
		}
		if c.Transition == nil || c.Transition.Out != "fade" {
			t.Errorf("clip %d: missing fade-out transition", i)
		}
	}
	if track.Clips[0].Transition.In != "fade" {
		t.Error("first clip must fade in")
	}
	if track.Clips[1].Transition.In != "" {
		t.Error("only the first clip fades in")
	}
}

func TestMultiVideoEvenSplitAndTurboSentinel(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds: 30,
		AnimatedVideoURLs: []string{
			"https://cdn.test/a.mp4",
			"turbo:https://cdn.test/still.png",
			"https://cdn.test/b.mp4",
		},
	}

	track, err := buildVisualTrack(m)
	if err != nil {
		t.Fatalf("buildVisualTrack: %v", err)
	}
	if len(track.Clips) != 3 {
		t.Fatalf("want 3 clips, got %d", len(track.Clips))
	}

	for i, c := range track.Clips {
		if c.Length != 10 {
			t.Errorf("clip %d: length %.1f, want 10", i, c.Length)
		}
		if c.Start != float64(i)*10 {
			t.Errorf("clip %d: start %.1f, want %.1f", i, c.Start, float64(i)*10)
		}
	}

	video, ok := track.Clips[0].Asset.(VideoAsset)
	if !ok {
		t.Fatalf("clip 0: want VideoAsset, got %T", track.Clips[0].Asset)
	}
	if video.Volume != 0 {
		t.Errorf("video clip must be muted, volume %.1f", video.Volume)
	}

	still, ok := track.Clips[1].Asset.(ImageAsset)
	if !ok {
		t.Fatalf("clip 1: want ImageAsset, got %T", track.Clips[1].Asset)
	}
	if still.Src != "https://cdn.test/still.png" {
		t.Errorf("turbo prefix not stripped: %q", still.Src)
	}
	if track.Clips[1].Effect != "zoomIn" {
		t.Errorf("still clip effect %q, want zoomIn", track.Clips[1].Effect)
	}
}

func TestSingleVideoLooping(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds:  25,
		AnimatedVideoURL: "https://cdn.test/loop.mp4",
	}

	track, err := buildVisualTrack(m)
	if err != nil {
		t.Fatalf("buildVisualTrack: %v", err)
	}
	// ceil(25/10) = 3 repetitions, last truncated to 5s
	if len(track.Clips) != 3 {
		t.Fatalf("want 3 clips, got %d", len(track.Clips))
	}
	last := track.Clips[2]
	if last.Start != 20 || last.Length != 5 {
		t.Errorf("last clip start=%.1f length=%.1f, want 20/5", last.Start, last.Length)
	}
}

func TestNoVisualSourceFails(t *testing.T) {
	m := &types.ReelManifest{DurationSeconds: 30, VoiceoverURL: "https://cdn.test/vo.mp3"}
	if _, err := buildVisualTrack(m); err != ErrNoVisualSource {
		t.Fatalf("want ErrNoVisualSource, got %v", err)
	}
}

func TestZoomEffectMapping(t *testing.T) {
	cases := []struct {
		zoom string
		idx  int
		want string
	}{
		{"slow_zoom_in", 0, "zoomIn"},
		{"slow_zoom_out", 0, "zoomOut"},
		{"ken_burns", 0, "zoomIn"},
		{"ken_burns", 1, "zoomOut"},
		{"ken_burns", 2, "zoomIn"},
		{"ken_burns", 3, "zoomOut"},
		{"ken_burns_left", 5, "slideLeft"},
		{"ken_burns_right", 0, "slideRight"},
		{"alternating", 1, "zoomOut"},
		{"static", 0, ""},
		{"", 0, "zoomIn"},
		{"wobble", 0, "zoomIn"},
	}
	for _, tc := range cases {
		if got := ZoomEffect(tc.zoom, tc.idx); got != tc.want {
			t.Errorf("ZoomEffect(%q, %d) = %q, want %q", tc.zoom, tc.idx, got, tc.want)
		}
	}
}

func TestResolveZoomPriority(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds: 20,
		DefaultZoom:     "slow_zoom_out",
		ZoomSequence:    []string{"ken_burns_left"},
		Segments: []types.Segment{
			{Index: 0, Start: 0, End: 10, ImageURL: "a", Zoom: "static"},
			{Index: 1, Start: 10, End: 20, ImageURL: "b", Zoom: "static"},
		},
	}

	track, _ := buildVisualTrack(m)
	// index 0: sequence entry wins over the segment override
	if track.Clips[0].Effect != "slideLeft" {
		t.Errorf("clip 0 effect %q, want slideLeft", track.Clips[0].Effect)
	}
	// index 1: sequence too short, segment override wins over the default
	if track.Clips[1].Effect != "" {
		t.Errorf("clip 1 effect %q, want static (none)", track.Clips[1].Effect)
	}
}

func TestStyleFilter(t *testing.T) {
	m := &types.ReelManifest{
		DurationSeconds: 10,
		Segments: []types.Segment{
			{Index: 0, Start: 0, End: 5, ImageURL: "a", Style: "noir"},
			{Index: 1, Start: 5, End: 10, ImageURL: "b"},
		},
	}
	track, _ := buildVisualTrack(m)
	if track.Clips[0].Filter != "greyscale" {
		t.Errorf("noir filter %q, want greyscale", track.Clips[0].Filter)
	}
	if track.Clips[1].Filter != "" {
		t.Errorf("unstyled segment filter %q, want none", track.Clips[1].Filter)
	}
}
