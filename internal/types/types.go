package types

import "time"

// Transition tags are advisory: they only influence whether a boundary between
// two clips is rendered with a fade.
const (
	TransitionCut       = "cut"
	TransitionFade      = "fade"
	TransitionCrossfade = "crossfade"
)

type Project struct {
	Name           string    `json:"project_name"`
	Voice          string    `json:"voice"`
	EffectsEnabled *bool     `json:"ken_burns_enabled,omitempty"`
	Chapters       []Chapter `json:"chapters"`
}

type Chapter struct {
	ID             string    `json:"chapter_id"`
	Title          string    `json:"title"`
	MusicTrack     string    `json:"music_track,omitempty"`
	MusicGain      *float64  `json:"music_volume,omitempty"`
	EffectsEnabled *bool     `json:"ken_burns_enabled,omitempty"`
	Segments       []Segment `json:"segments"`
}

type Segment struct {
	ID          string   `json:"segment_id"`
	Narration   string   `json:"narration"`
	ImagePrompt string   `json:"image_prompt,omitempty"`
	Effects     []string `json:"ken_burns_sequence,omitempty"`
	Transition  string   `json:"transition,omitempty"`
}

// EffectsOn reports the project-level toggle; absent means enabled.
func (p Project) EffectsOn() bool {
	return p.EffectsEnabled == nil || *p.EffectsEnabled
}

// EffectsOn reports the chapter-level flag; absent means enabled.
func (c Chapter) EffectsOn() bool {
	return c.EffectsEnabled == nil || *c.EffectsEnabled
}

func (p Project) SegmentCount() int {
	n := 0
	for _, c := range p.Chapters {
		n += len(c.Segments)
	}
	return n
}

// ClipInfo is what ffprobe reports about a rendered clip.
type ClipInfo struct {
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	VideoCodec string
	AudioCodec string
}

// Summary is the batch driver's report.
type Summary struct {
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}
