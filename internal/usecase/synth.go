package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/storyreel/storyreel/internal/domain/effects"
	"github.com/storyreel/storyreel/internal/ports"
)

// SegmentInput describes one clip synthesis job. Paths are already resolved;
// Effects holds the effective names (nil renders a static clip).
type SegmentInput struct {
	SegmentID string
	ImagePath string
	AudioPath string

	// MusicPath empty means no music. A path that points at nothing demotes
	// to no music with a warning instead of failing the segment.
	MusicPath string
	MusicGain float64

	Effects []string

	LeadPad time.Duration
	TailPad time.Duration
	FadeIn  time.Duration
	FadeOut time.Duration

	OutPath string
}

// RenderSegment synthesizes one clip: probes the narration, derives the
// motion sequence, runs the encode against a temp path, and publishes the
// artifact with an atomic rename. It never retries; that policy belongs to
// the batch driver.
func (u Usecase) RenderSegment(ctx context.Context, in SegmentInput) error {
	if _, err := os.Stat(in.ImagePath); err != nil {
		return fmt.Errorf("segment %s: %w: image %s", in.SegmentID, ErrInputMissing, in.ImagePath)
	}
	if _, err := os.Stat(in.AudioPath); err != nil {
		return fmt.Errorf("segment %s: %w: narration %s", in.SegmentID, ErrInputMissing, in.AudioPath)
	}
	music := in.MusicPath
	if music != "" {
		if _, err := os.Stat(music); err != nil {
			u.d.Log.Warn().
				Str("segment", in.SegmentID).
				Str("music", music).
				Msg("music track not found, rendering without it")
			music = ""
		}
	}

	narration, err := u.d.Media.ProbeAudioDuration(ctx, in.AudioPath)
	if err != nil {
		return fmt.Errorf("segment %s: %w: %v", in.SegmentID, ErrInvalidAudio, err)
	}
	if narration <= 0 {
		return fmt.Errorf("segment %s: %w: narration duration %s", in.SegmentID, ErrInvalidAudio, narration)
	}

	total := narration + in.LeadPad + in.TailPad
	steps, err := effects.Sequence(in.Effects, total, ports.FrameRate)
	if err != nil {
		return fmt.Errorf("segment %s: %w", in.SegmentID, err)
	}

	tmp := partialPath(in.OutPath)
	defer os.Remove(tmp)

	spec := ports.RenderSpec{
		ImagePath: in.ImagePath,
		AudioPath: in.AudioPath,
		MusicPath: music,
		MusicGain: in.MusicGain,
		LeadPad:   in.LeadPad,
		TailPad:   in.TailPad,
		Total:     total,
		Steps:     steps,
		FadeIn:    in.FadeIn,
		FadeOut:   in.FadeOut,
		OutPath:   tmp,
	}
	if err := u.d.Media.RenderClip(ctx, spec); err != nil {
		return fmt.Errorf("segment %s: %w: %v", in.SegmentID, ErrEncodeFailed, err)
	}
	if err := os.Rename(tmp, in.OutPath); err != nil {
		return fmt.Errorf("segment %s: publish clip: %w", in.SegmentID, err)
	}

	u.d.Log.Debug().
		Str("segment", in.SegmentID).
		Dur("total", total).
		Int("steps", len(steps)).
		Msg("clip rendered")
	return nil
}
