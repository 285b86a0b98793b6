package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/storyreel/storyreel/internal/project"
	"github.com/storyreel/storyreel/internal/types"
	"github.com/storyreel/storyreel/internal/usecase"
)

// RunSegment renders one clip from explicit inputs.
func RunSegment(ctx context.Context, cfg SegmentConfig) error {
	uc, err := newUsecase(cfg.Tools, "clip")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.OutPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	id := strings.TrimSuffix(filepath.Base(cfg.OutPath), filepath.Ext(cfg.OutPath))
	return uc.RenderSegment(ctx, usecase.SegmentInput{
		SegmentID: id,
		ImagePath: cfg.ImagePath,
		AudioPath: cfg.AudioPath,
		MusicPath: cfg.MusicPath,
		MusicGain: cfg.MusicGain,
		Effects:   cfg.Effects,
		LeadPad:   cfg.LeadPad,
		TailPad:   cfg.TailPad,
		FadeIn:    cfg.FadeIn,
		FadeOut:   cfg.FadeOut,
		OutPath:   cfg.OutPath,
	})
}

// RunBatch loads the project file and renders every segment's clip.
func RunBatch(ctx context.Context, cfg BatchConfig) (types.Summary, error) {
	uc, err := newUsecase(cfg.Tools, "batch")
	if err != nil {
		return types.Summary{}, err
	}
	p, err := project.Load(cfg.ProjectPath)
	if err != nil {
		return types.Summary{}, err
	}
	if err := os.MkdirAll(cfg.ClipsDir, 0o755); err != nil {
		return types.Summary{}, err
	}
	return uc.RunBatch(ctx, usecase.BatchInput{
		Project:          p,
		ImagesDir:        cfg.ImagesDir,
		AudioDir:         cfg.AudioDir,
		ClipsDir:         cfg.ClipsDir,
		MusicDir:         cfg.MusicDir,
		DefaultMusicGain: cfg.MusicGain,
		LeadPad:          cfg.LeadPad,
		TailPad:          cfg.TailPad,
		Fade:             cfg.Fade,
		Workers:          cfg.Workers,
		Force:            cfg.Force,
	})
}

// RunAssemble loads the project file and concatenates its clips.
func RunAssemble(ctx context.Context, cfg AssembleConfig) (usecase.AssembleResult, error) {
	uc, err := newUsecase(cfg.Tools, "assemble")
	if err != nil {
		return usecase.AssembleResult{}, err
	}
	p, err := project.Load(cfg.ProjectPath)
	if err != nil {
		return usecase.AssembleResult{}, err
	}
	if dir := filepath.Dir(cfg.OutPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return usecase.AssembleResult{}, err
		}
	}
	return uc.Assemble(ctx, usecase.AssembleInput{
		Project:  p,
		ClipsDir: cfg.ClipsDir,
		OutPath:  cfg.OutPath,
	})
}

type RunResult struct {
	Summary  types.Summary
	Assemble usecase.AssembleResult
}

// Run chains batch synthesis and assembly. Assembly only starts when every
// segment has a clip; a partial batch reports its summary and stops.
func Run(ctx context.Context, cfg RunConfig) (RunResult, error) {
	sum, err := RunBatch(ctx, cfg.Batch)
	res := RunResult{Summary: sum}
	if err != nil {
		return res, err
	}
	if sum.Failed > 0 {
		return res, fmt.Errorf("%d segment(s) failed, skipping assembly: %v", sum.Failed, sum.FailedIDs)
	}
	as, err := RunAssemble(ctx, AssembleConfig{
		Tools:       cfg.Batch.Tools,
		ProjectPath: cfg.Batch.ProjectPath,
		ClipsDir:    cfg.Batch.ClipsDir,
		OutPath:     cfg.OutPath,
	})
	if err != nil {
		return res, err
	}
	res.Assemble = as
	return res, nil
}
