package effects

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind enumerates the supported camera motions. Static is the synthetic
// no-motion entry used when a segment has no effects or effects are disabled.
type Kind int

const (
	Static Kind = iota
	ZoomIn
	ZoomOut
	PanLeft
	PanRight
	PanUp
	PanDown
)

func (k Kind) String() string {
	switch k {
	case ZoomIn:
		return "zoom-in"
	case ZoomOut:
		return "zoom-out"
	case PanLeft:
		return "pan-left"
	case PanRight:
		return "pan-right"
	case PanUp:
		return "pan-up"
	case PanDown:
		return "pan-down"
	default:
		return "static"
	}
}

// Window is a normalized crop rectangle over the source frame: top-left
// origin, coordinates in [0,1]. The source is scaled to the 16:9 output
// frame before cropping, so an equal-sided normalized window stays 16:9
// in pixels.
type Window struct {
	X, Y, W, H float64
}

var Identity = Window{X: 0, Y: 0, W: 1, H: 1}

const (
	// Zoom travels between full frame and a centered window at this scale.
	zoomScale = 0.77
	// Pans keep a fixed window at this scale and slide it edge to edge.
	panScale = 0.85
)

func centered(scale float64) Window {
	m := (1 - scale) / 2
	return Window{X: m, Y: m, W: scale, H: scale}
}

// Windows returns the start and end crop windows for the kind.
func (k Kind) Windows() (start, end Window) {
	mid := (1 - panScale) / 2
	edge := 1 - panScale
	switch k {
	case ZoomIn:
		return Identity, centered(zoomScale)
	case ZoomOut:
		return centered(zoomScale), Identity
	case PanLeft:
		// The window travels toward the left edge of the image.
		return Window{X: edge, Y: mid, W: panScale, H: panScale},
			Window{X: 0, Y: mid, W: panScale, H: panScale}
	case PanRight:
		return Window{X: 0, Y: mid, W: panScale, H: panScale},
			Window{X: edge, Y: mid, W: panScale, H: panScale}
	case PanUp:
		return Window{X: mid, Y: edge, W: panScale, H: panScale},
			Window{X: mid, Y: 0, W: panScale, H: panScale}
	case PanDown:
		return Window{X: mid, Y: 0, W: panScale, H: panScale},
			Window{X: mid, Y: edge, W: panScale, H: panScale}
	default:
		return Identity, Identity
	}
}

// Step is one sub-duration of a clip's motion path. Frames is the exact
// number of output frames the step covers; motion between Start and End is
// interpolated linearly per frame.
type Step struct {
	Kind   Kind
	Frames int
	Start  Window
	End    Window
}

// Duration converts the step's frame count back to wall time at fps.
func (s Step) Duration(fps int) time.Duration {
	return time.Duration(s.Frames) * time.Second / time.Duration(fps)
}

var kindNames = map[string]Kind{
	"static":    Static,
	"zoom_in":   ZoomIn,
	"zoom_out":  ZoomOut,
	"pan_left":  PanLeft,
	"pan_right": PanRight,
	"pan_up":    PanUp,
	"pan_down":  PanDown,
}

// ParseKind resolves an effect name from a project document. Both the
// hyphenated and the underscored spellings are in the wild, so both parse.
func ParseKind(name string) (Kind, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	k, ok := kindNames[key]
	if !ok {
		return Static, fmt.Errorf("unknown effect %q", name)
	}
	return k, nil
}

// TotalFrames rounds a clip duration to whole output frames at fps.
func TotalFrames(total time.Duration, fps int) int {
	return int(math.Round(total.Seconds() * float64(fps)))
}

// Sequence splits total across the named effects. Frames are divided into
// equal shares and the division remainder goes entirely to the last step, so
// the steps cover the clip exactly with no gap or overlap. An empty name list
// yields a single static step over the whole duration; callers that want a
// static clip for a segment that names effects pass nil instead.
func Sequence(names []string, total time.Duration, fps int) ([]Step, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	if total <= 0 {
		return nil, fmt.Errorf("clip duration must be positive, got %s", total)
	}
	totalFrames := TotalFrames(total, fps)
	if totalFrames < 1 {
		totalFrames = 1
	}

	if len(names) == 0 {
		return []Step{{Kind: Static, Frames: totalFrames, Start: Identity, End: Identity}}, nil
	}
	if len(names) > totalFrames {
		return nil, fmt.Errorf("%d effects cannot share %d frames", len(names), totalFrames)
	}

	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}

	share := totalFrames / len(kinds)
	rem := totalFrames % len(kinds)
	steps := make([]Step, 0, len(kinds))
	for i, k := range kinds {
		frames := share
		if i == len(kinds)-1 {
			frames += rem
		}
		start, end := k.Windows()
		steps = append(steps, Step{Kind: k, Frames: frames, Start: start, End: end})
	}
	return steps, nil
}
