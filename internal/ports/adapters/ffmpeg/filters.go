package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/storyreel/storyreel/internal/domain/effects"
	"github.com/storyreel/storyreel/internal/ports"
)

// filterComplex builds the whole graph for one clip: the still image through
// per-step zoompan stages into a single video stream, and narration plus the
// optional music bed into a single mix.
func filterComplex(spec ports.RenderSpec) string {
	stmts := videoChain(spec)
	stmts = append(stmts, audioChain(spec)...)
	return strings.Join(stmts, ";")
}

func videoChain(spec ports.RenderSpec) []string {
	// Aspect-preserving upscale plus center crop normalizes any source image
	// to the 16:9 supersampled frame the crop windows are defined over.
	stmts := []string{fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1[base]",
		superWidth, superHeight, superWidth, superHeight,
	)}

	steps := spec.Steps
	switch len(steps) {
	case 0:
		// The sequencer always emits at least a static step; keep the graph
		// well-formed anyway.
		stmts = append(stmts, "[base]"+zoompanFilter(effects.Step{
			Kind:   effects.Static,
			Frames: effects.TotalFrames(spec.Total, ports.FrameRate),
			Start:  effects.Identity,
			End:    effects.Identity,
		})+"[vz]")
	case 1:
		stmts = append(stmts, "[base]"+zoompanFilter(steps[0])+"[vz]")
	default:
		var split strings.Builder
		fmt.Fprintf(&split, "[base]split=%d", len(steps))
		for i := range steps {
			fmt.Fprintf(&split, "[ks%d]", i)
		}
		stmts = append(stmts, split.String())

		var join strings.Builder
		for i, s := range steps {
			stmts = append(stmts, fmt.Sprintf("[ks%d]%s[ve%d]", i, zoompanFilter(s), i))
			fmt.Fprintf(&join, "[ve%d]", i)
		}
		fmt.Fprintf(&join, "concat=n=%d:v=1:a=0[vz]", len(steps))
		stmts = append(stmts, join.String())
	}

	var post []string
	if spec.FadeIn > 0 {
		post = append(post, fmt.Sprintf("fade=t=in:st=0:d=%s", fmtSeconds(spec.FadeIn)))
	}
	if spec.FadeOut > 0 {
		st := spec.Total - spec.FadeOut
		if st < 0 {
			st = 0
		}
		post = append(post, fmt.Sprintf("fade=t=out:st=%s:d=%s", fmtSeconds(st), fmtSeconds(spec.FadeOut)))
	}
	post = append(post, "format=yuv420p")
	stmts = append(stmts, "[vz]"+strings.Join(post, ",")+"[v]")
	return stmts
}

func audioChain(spec ports.RenderSpec) []string {
	lead := spec.LeadPad.Milliseconds()
	narration := fmt.Sprintf("adelay=%d|%d,apad=pad_dur=%s", lead, lead, fmtSeconds(spec.TailPad))

	if spec.MusicPath == "" {
		return []string{"[1:a]" + narration + "[aud]"}
	}
	return []string{
		"[1:a]" + narration + "[nar]",
		// Music starts at time zero so it covers the padding, loops as long
		// as needed, and is trimmed to the exact clip duration.
		fmt.Sprintf("[2:a]volume=%s,aloop=loop=-1:size=2e+09,atrim=duration=%s[mus]",
			fnum(spec.MusicGain), fmtSeconds(spec.Total)),
		// normalize=0 keeps the narration at unity; the configured gain is
		// the only attenuation on the music.
		"[nar][mus]amix=inputs=2:duration=longest:dropout_transition=2:normalize=0[aud]",
	}
}

// zoompanFilter renders one motion step. The crop window is interpolated
// linearly in the output frame counter so the start and end windows are met
// exactly on the step's first and last frame.
func zoompanFilter(s effects.Step) string {
	m := s.Frames - 1
	if m < 1 {
		m = 1
	}

	var z string
	if s.Start.W == s.End.W {
		z = fnum(1 / s.Start.W)
	} else {
		z = "1/" + lerp(s.Start.W, s.End.W, m)
	}
	x := "iw*" + lerpOrConst(s.Start.X, s.End.X, m)
	y := "ih*" + lerpOrConst(s.Start.Y, s.End.Y, m)

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
		z, x, y, s.Frames, ports.FrameWidth, ports.FrameHeight, ports.FrameRate)
}

func lerpOrConst(a, b float64, m int) string {
	if a == b {
		return fnum(a)
	}
	return lerp(a, b, m)
}

func lerp(a, b float64, m int) string {
	d := b - a
	op := "+"
	if d < 0 {
		op = "-"
		d = -d
	}
	return fmt.Sprintf("(%s%s%s*on/%d)", fnum(a), op, fnum(d), m)
}

// fnum formats a coefficient rounded to six decimals with trailing zeros
// trimmed, keeping filter expressions free of float representation noise.
func fnum(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
