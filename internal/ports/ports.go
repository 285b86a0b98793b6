package ports

import (
	"context"
	"time"

	"github.com/storyreel/storyreel/internal/domain/effects"
	"github.com/storyreel/storyreel/internal/types"
)

// Every clip is rendered at one fixed frame geometry so assembly can
// stream-copy without inspecting encoder settings per clip.
const (
	FrameWidth  = 1920
	FrameHeight = 1080
	FrameRate   = 30
)

// RenderSpec describes one clip render: inputs, motion path, audio mix, and
// the output path the encoder writes.
type RenderSpec struct {
	ImagePath string
	AudioPath string

	// MusicPath empty means no music bed. MusicGain applies to the music
	// only; narration is never attenuated.
	MusicPath string
	MusicGain float64

	// LeadPad delays the narration from clip start; TailPad extends silence
	// after it. Total is narration duration plus both pads and caps the
	// encoded output.
	LeadPad time.Duration
	TailPad time.Duration
	Total   time.Duration

	Steps []effects.Step

	// Zero means no fade on that end.
	FadeIn  time.Duration
	FadeOut time.Duration

	OutPath string
}

type MediaTool interface {
	// ProbeAudioDuration measures a narration track.
	ProbeAudioDuration(ctx context.Context, path string) (time.Duration, error)
	// ProbeClip inspects a rendered clip's container and streams.
	ProbeClip(ctx context.Context, path string) (types.ClipInfo, error)
	// RenderClip synthesizes one clip per spec, writing spec.OutPath.
	RenderClip(ctx context.Context, spec RenderSpec) error
	// Concat joins parameter-identical clips losslessly into outPath.
	Concat(ctx context.Context, clipPaths []string, outPath string) error
}
