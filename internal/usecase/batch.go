package usecase

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/storyreel/storyreel/internal/ports"
	"github.com/storyreel/storyreel/internal/project"
	"github.com/storyreel/storyreel/internal/types"
)

// BatchInput drives synthesis across a whole project. Input artifacts follow
// the segment-id naming convention inside the configured directories.
type BatchInput struct {
	Project types.Project

	ImagesDir string
	AudioDir  string
	ClipsDir  string
	MusicDir  string

	// DefaultMusicGain applies to chapters that do not set their own.
	DefaultMusicGain float64

	LeadPad time.Duration
	TailPad time.Duration
	// Fade is the length rendered for fade/crossfade transitions.
	Fade time.Duration

	Workers int
	// Force regenerates clips even when a valid artifact exists.
	Force bool
}

type batchJob struct {
	SegmentInput
	transition string
}

type jobStatus int

const (
	jobSkipped jobStatus = iota
	jobGenerated
	jobFailed
)

type jobResult struct {
	status jobStatus
	err    error
}

// RunBatch renders every segment's clip, in chapter/segment order, through a
// bounded worker pool. Per-segment failures are recorded and do not stop the
// rest; the returned error is non-nil only when the whole batch could not run
// (cancellation). The summary lists failed segment ids in project order.
func (u Usecase) RunBatch(ctx context.Context, in BatchInput) (types.Summary, error) {
	jobs := buildJobs(in)
	log := u.d.Log.With().Str("run", uuid.NewString()[:8]).Logger()
	log.Info().
		Int("segments", len(jobs)).
		Int("workers", in.Workers).
		Msg("batch synthesis starting")

	u.sweepPartials(in.ClipsDir)

	results := make([]jobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	workers := in.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = jobResult{status: jobFailed, err: err}
				return err
			}
			if !in.Force && u.clipValid(gctx, job.OutPath) {
				results[i] = jobResult{status: jobSkipped}
				log.Info().Str("segment", job.SegmentID).Msg("clip exists, skipping")
				return nil
			}
			if err := u.RenderSegment(gctx, job.SegmentInput); err != nil {
				results[i] = jobResult{status: jobFailed, err: err}
				log.Error().Err(err).Str("segment", job.SegmentID).Msg("segment failed")
				// Isolation: a bad segment never aborts its siblings.
				return nil
			}
			results[i] = jobResult{status: jobGenerated}
			log.Info().Str("segment", job.SegmentID).Msg("clip generated")
			return nil
		})
	}
	_ = g.Wait()

	var sum types.Summary
	for i, r := range results {
		switch r.status {
		case jobGenerated:
			sum.Generated++
		case jobSkipped:
			sum.Skipped++
		case jobFailed:
			sum.Failed++
			sum.FailedIDs = append(sum.FailedIDs, jobs[i].SegmentID)
		}
	}
	log.Info().
		Int("generated", sum.Generated).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("batch synthesis finished")

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// buildJobs resolves every segment to concrete paths and parameters, in
// project order. Fade windows come from the transition tags: a fade or
// crossfade tag fades its own clip in and the preceding clip out, so the
// boundary reads as a fade while every clip stays independently renderable.
func buildJobs(in BatchInput) []batchJob {
	jobs := make([]batchJob, 0, in.Project.SegmentCount())
	for _, ch := range in.Project.Chapters {
		musicPath := ""
		if ch.MusicTrack != "" {
			musicPath = filepath.Join(in.MusicDir, ch.MusicTrack)
		}
		gain := in.DefaultMusicGain
		if ch.MusicGain != nil {
			gain = *ch.MusicGain
		}
		for _, seg := range ch.Segments {
			jobs = append(jobs, batchJob{
				SegmentInput: SegmentInput{
					SegmentID: seg.ID,
					ImagePath: filepath.Join(in.ImagesDir, seg.ID+".png"),
					AudioPath: filepath.Join(in.AudioDir, seg.ID+".mp3"),
					MusicPath: musicPath,
					MusicGain: gain,
					Effects:   project.EffectNames(in.Project, ch, seg),
					LeadPad:   in.LeadPad,
					TailPad:   in.TailPad,
					OutPath:   filepath.Join(in.ClipsDir, seg.ID+".mp4"),
				},
				transition: seg.Transition,
			})
		}
	}
	for i := range jobs {
		if wantsFade(jobs[i].transition) {
			jobs[i].FadeIn = in.Fade
			if i > 0 {
				jobs[i-1].FadeOut = in.Fade
			}
		}
	}
	return jobs
}

func wantsFade(transition string) bool {
	return transition == types.TransitionFade || transition == types.TransitionCrossfade
}

// clipValid is the completed-and-valid idempotency check: the artifact must
// probe cleanly with a positive duration at the fixed frame geometry. A
// truncated or foreign file reads as absent and gets regenerated.
func (u Usecase) clipValid(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	info, err := u.d.Media.ProbeClip(ctx, path)
	if err != nil {
		return false
	}
	return info.Duration > 0 &&
		info.Width == ports.FrameWidth &&
		info.Height == ports.FrameHeight
}

// sweepPartials clears temp files a cancelled or crashed run left behind.
func (u Usecase) sweepPartials(clipsDir string) {
	stale, err := filepath.Glob(filepath.Join(clipsDir, "*.partial"))
	if err != nil {
		return
	}
	for _, p := range stale {
		if err := os.Remove(p); err == nil {
			u.d.Log.Debug().Str("path", p).Msg("removed stale partial")
		}
	}
}
