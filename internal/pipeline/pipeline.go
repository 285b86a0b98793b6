package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/storyreel/storyreel/internal/domain/effects"
	"github.com/storyreel/storyreel/internal/logging"
	"github.com/storyreel/storyreel/internal/ports"
	"github.com/storyreel/storyreel/internal/ports/adapters/ffmpeg"
	"github.com/storyreel/storyreel/internal/usecase"
)

// Tools selects the external binaries and encoder tuning shared by every
// entrypoint. Zero values mean the compiled-in defaults.
type Tools struct {
	FFmpegPath  string
	FFprobePath string
	Preset      string
	CRF         int
	Threads     int
}

// SegmentConfig renders a single clip outside any project file.
type SegmentConfig struct {
	Tools

	ImagePath string
	AudioPath string
	MusicPath string
	MusicGain float64
	Effects   []string
	LeadPad   time.Duration
	TailPad   time.Duration
	FadeIn    time.Duration
	FadeOut   time.Duration
	OutPath   string
}

func (c SegmentConfig) Validate() error {
	if c.ImagePath == "" {
		return errors.New("image path is empty")
	}
	if c.AudioPath == "" {
		return errors.New("audio path is empty")
	}
	if c.OutPath == "" {
		return errors.New("output path is empty")
	}
	if c.MusicGain < 0 || c.MusicGain > 1 {
		return fmt.Errorf("music gain %v out of range [0,1]", c.MusicGain)
	}
	if c.LeadPad < 0 || c.TailPad < 0 {
		return errors.New("padding must be >= 0")
	}
	if c.FadeIn < 0 || c.FadeOut < 0 {
		return errors.New("fade must be >= 0")
	}
	for _, name := range c.Effects {
		if _, err := effects.ParseKind(name); err != nil {
			return err
		}
	}
	return nil
}

// BatchConfig drives clip synthesis for a whole project file.
type BatchConfig struct {
	Tools

	ProjectPath string
	ImagesDir   string
	AudioDir    string
	ClipsDir    string
	MusicDir    string
	MusicGain   float64
	LeadPad     time.Duration
	TailPad     time.Duration
	Fade        time.Duration
	Workers     int
	Force       bool
}

func (c BatchConfig) Validate() error {
	if c.ProjectPath == "" {
		return errors.New("project path is empty")
	}
	if c.ImagesDir == "" || c.AudioDir == "" || c.ClipsDir == "" {
		return errors.New("images, audio and clips dirs are required")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if c.MusicGain < 0 || c.MusicGain > 1 {
		return fmt.Errorf("music gain %v out of range [0,1]", c.MusicGain)
	}
	if c.LeadPad < 0 || c.TailPad < 0 {
		return errors.New("padding must be >= 0")
	}
	if c.Fade < 0 {
		return errors.New("fade must be >= 0")
	}
	return nil
}

// AssembleConfig concatenates a project's clips into the final video.
type AssembleConfig struct {
	Tools

	ProjectPath string
	ClipsDir    string
	OutPath     string
}

func (c AssembleConfig) Validate() error {
	if c.ProjectPath == "" {
		return errors.New("project path is empty")
	}
	if c.ClipsDir == "" {
		return errors.New("clips dir is empty")
	}
	if c.OutPath == "" {
		return errors.New("output path is empty")
	}
	return nil
}

// RunConfig chains batch synthesis and assembly in one go.
type RunConfig struct {
	Batch   BatchConfig
	OutPath string
}

func (c RunConfig) Validate() error {
	if err := c.Batch.Validate(); err != nil {
		return err
	}
	if c.OutPath == "" {
		return errors.New("output path is empty")
	}
	return nil
}

func newUsecase(t Tools, component string) (usecase.Usecase, error) {
	adapter := ffmpeg.New(logging.WithComponent("ffmpeg"), t.FFmpegPath, t.FFprobePath, ffmpeg.Options{
		Preset:  t.Preset,
		CRF:     t.CRF,
		Threads: t.Threads,
	})
	if err := adapter.AssertReady(); err != nil {
		return usecase.Usecase{}, err
	}
	return usecase.New(usecase.Deps{
		Media: adapter,
		Log:   logging.WithComponent(component),
	}), nil
}

// ensure the adapter implements the port
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
