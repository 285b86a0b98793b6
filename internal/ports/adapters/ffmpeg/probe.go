package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/storyreel/storyreel/internal/types"
)

// ProbeAudioDuration measures a narration or music track.
func (a *Adapter) ProbeAudioDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// ProbeClip inspects a rendered clip. It is used both for the batch driver's
// completed-and-valid check and for the assembler's compatibility check, so
// it reports stream parameters, not just duration.
func (a *Adapter) ProbeClip(ctx context.Context, path string) (types.ClipInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.ClipInfo{}, fmt.Errorf("ffprobe %s: %w\n%s", path, err, string(b))
	}
	return parseClipInfo(b)
}

func parseClipInfo(b []byte) (types.ClipInfo, error) {
	var res probeResult
	if err := json.Unmarshal(b, &res); err != nil {
		return types.ClipInfo{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	var info types.ClipInfo
	if res.Format.Duration != "" {
		sec, err := strconv.ParseFloat(res.Format.Duration, 64)
		if err != nil {
			return types.ClipInfo{}, fmt.Errorf("parse duration %q: %w", res.Format.Duration, err)
		}
		info.Duration = time.Duration(sec * float64(time.Second))
	}

	for _, s := range res.Streams {
		switch s.CodecType {
		case "video":
			info.Width = s.Width
			info.Height = s.Height
			info.VideoCodec = s.CodecName
			info.FPS = parseFrameRate(s.AvgFrameRate)
		case "audio":
			info.AudioCodec = s.CodecName
		}
	}
	if info.VideoCodec == "" {
		return types.ClipInfo{}, fmt.Errorf("no video stream found")
	}
	return info, nil
}

// parseFrameRate handles ffprobe's rational form ("30/1", "30000/1001").
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
