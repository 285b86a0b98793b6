package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storyreel/storyreel/internal/ports"
)

// Fixed output profile. Every clip is rendered with it so the assembler can
// stream-copy; only encoder tuning (preset, CRF, threads) is adjustable.
const (
	videoCodec   = "libx264"
	audioCodec   = "aac"
	audioBitrate = "192k"
	audioRate    = 48000

	defaultPreset = "medium"
	defaultCRF    = 23

	// zoompan is sampled at twice the output size; panning at native
	// resolution produces visible single-pixel jitter.
	superWidth  = 3840
	superHeight = 2160
)

type Options struct {
	Preset  string
	CRF     int
	Threads int
}

type Adapter struct {
	log     zerolog.Logger
	ffmpeg  string
	ffprobe string
	preset  string
	crf     int
	threads int
}

func New(log zerolog.Logger, ffmpegPath, ffprobePath string, opts Options) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if opts.Preset == "" {
		opts.Preset = defaultPreset
	}
	if opts.CRF <= 0 {
		opts.CRF = defaultCRF
	}
	return &Adapter{
		log:     log,
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		preset:  opts.Preset,
		crf:     opts.CRF,
		threads: opts.Threads,
	}
}

// AssertReady fails early when the external binaries are not runnable.
func (a *Adapter) AssertReady() error {
	for _, bin := range []string{a.ffmpeg, a.ffprobe} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}
	return nil
}

// RenderClip runs one ffmpeg invocation for the given render spec, writing
// spec.OutPath. Callers own temp naming and the rename to the final path.
func (a *Adapter) RenderClip(ctx context.Context, spec ports.RenderSpec) error {
	args := a.renderArgs(spec)
	return a.run(ctx, "render clip", args)
}

func (a *Adapter) renderArgs(spec ports.RenderSpec) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if a.threads > 0 {
		args = append(args, "-threads", strconv.Itoa(a.threads))
	}
	args = append(args, "-i", spec.ImagePath, "-i", spec.AudioPath)
	if spec.MusicPath != "" {
		args = append(args, "-i", spec.MusicPath)
	}
	args = append(args,
		"-filter_complex", filterComplex(spec),
		"-map", "[v]",
		"-map", "[aud]",
		"-t", fmtSeconds(spec.Total),
		"-r", strconv.Itoa(ports.FrameRate),
		"-c:v", videoCodec,
		"-preset", a.preset,
		"-crf", strconv.Itoa(a.crf),
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-ar", strconv.Itoa(audioRate),
		"-ac", "2",
		"-movflags", "+faststart",
		spec.OutPath,
	)
	return args
}

// Concat joins clips with the concat demuxer in stream-copy mode. The inputs
// must already share one profile; no re-encode happens here.
func (a *Adapter) Concat(ctx context.Context, clipPaths []string, outPath string) error {
	list, err := writeConcatList(clipPaths)
	if err != nil {
		return err
	}
	defer os.Remove(list)

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		outPath,
	}
	return a.run(ctx, "concat", args)
}

func writeConcatList(clipPaths []string) (string, error) {
	f, err := os.CreateTemp("", "storyreel-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer f.Close()

	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("resolve %s: %w", p, err)
		}
		// Single quotes inside the demuxer's quoted form close, escape, reopen.
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("write concat list: %w", err)
		}
	}
	return f.Name(), nil
}

func (a *Adapter) run(ctx context.Context, op string, args []string) error {
	a.log.Debug().Str("bin", a.ffmpeg).Strs("args", args).Msg("running ffmpeg")
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", op, err, string(b))
	}
	return nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
