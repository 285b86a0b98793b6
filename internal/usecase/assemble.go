package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/storyreel/storyreel/internal/domain/timeline"
	"github.com/storyreel/storyreel/internal/types"
)

// fpsTolerance absorbs rational/decimal frame-rate representations of the
// same rate (30 vs 30000/1001 still differ; 30 vs 29.997 do not).
const fpsTolerance = 0.01

type AssembleInput struct {
	Project  types.Project
	ClipsDir string
	OutPath  string
}

type AssembleResult struct {
	VideoPath   string
	MarkersPath string
	Total       time.Duration
	Markers     []timeline.Marker
}

// Assemble verifies every clip, concatenates them losslessly in project
// order and writes the chapter marker sidecar next to the video. Nothing is
// written until verification passes in full.
func (u Usecase) Assemble(ctx context.Context, in AssembleInput) (AssembleResult, error) {
	if in.Project.SegmentCount() == 0 {
		return AssembleResult{}, errors.New("assemble: project has no segments")
	}

	var (
		paths     []string
		durations = make(map[string]time.Duration)
		first     types.ClipInfo
	)
	for _, ch := range in.Project.Chapters {
		for _, seg := range ch.Segments {
			path := filepath.Join(in.ClipsDir, seg.ID+".mp4")
			if _, err := os.Stat(path); err != nil {
				return AssembleResult{}, fmt.Errorf("segment %s: %w: %s", seg.ID, ErrMissingClip, path)
			}
			info, err := u.d.Media.ProbeClip(ctx, path)
			if err != nil {
				// Unreadable counts as absent: the fix is the same, regenerate.
				return AssembleResult{}, fmt.Errorf("segment %s: %w: %v", seg.ID, ErrMissingClip, err)
			}
			if len(paths) == 0 {
				first = info
			} else if miss := mismatch(first, info); miss != "" {
				return AssembleResult{}, fmt.Errorf("segment %s: %w: %s", seg.ID, ErrIncompatibleClip, miss)
			}
			paths = append(paths, path)
			durations[seg.ID] = info.Duration
		}
	}

	entries, markers, err := timeline.Build(in.Project, durations)
	if err != nil {
		return AssembleResult{}, fmt.Errorf("assemble timeline: %w", err)
	}

	tmp := partialPath(in.OutPath)
	defer os.Remove(tmp)
	if err := u.d.Media.Concat(ctx, paths, tmp); err != nil {
		return AssembleResult{}, fmt.Errorf("assemble concat: %w", err)
	}
	if err := os.Rename(tmp, in.OutPath); err != nil {
		return AssembleResult{}, fmt.Errorf("assemble publish: %w", err)
	}

	markersPath := strings.TrimSuffix(in.OutPath, filepath.Ext(in.OutPath)) + ".chapters.txt"
	if err := writeFileAtomic(markersPath, []byte(timeline.RenderMarkers(markers))); err != nil {
		return AssembleResult{}, fmt.Errorf("assemble markers: %w", err)
	}

	total := timeline.Total(entries)
	u.d.Log.Info().
		Int("clips", len(paths)).
		Dur("total", total).
		Str("output", in.OutPath).
		Msg("assembled video")
	return AssembleResult{
		VideoPath:   in.OutPath,
		MarkersPath: markersPath,
		Total:       total,
		Markers:     markers,
	}, nil
}

// mismatch reports the first assembly parameter on which info diverges from
// the reference clip, or "" when the clips can be concatenated losslessly.
func mismatch(ref, info types.ClipInfo) string {
	switch {
	case info.Width != ref.Width || info.Height != ref.Height:
		return fmt.Sprintf("frame size %dx%d != %dx%d", info.Width, info.Height, ref.Width, ref.Height)
	case math.Abs(info.FPS-ref.FPS) > fpsTolerance:
		return fmt.Sprintf("frame rate %.3f != %.3f", info.FPS, ref.FPS)
	case info.VideoCodec != ref.VideoCodec:
		return fmt.Sprintf("video codec %s != %s", info.VideoCodec, ref.VideoCodec)
	case info.AudioCodec != ref.AudioCodec:
		return fmt.Sprintf("audio codec %s != %s", info.AudioCodec, ref.AudioCodec)
	}
	return ""
}
