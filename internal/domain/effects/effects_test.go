package effects

import (
	"math"
	"testing"
	"time"
)

func TestSequence_SharesSumToTotal(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		names []string
		total time.Duration
	}{
		"single effect":     {names: []string{"zoom-in"}, total: 10 * time.Second},
		"even split":        {names: []string{"zoom-in", "pan-left"}, total: 10 * time.Second},
		"remainder":         {names: []string{"zoom-in", "pan-left", "pan-up"}, total: 10 * time.Second},
		"fractional total":  {names: []string{"zoom-out", "pan-down"}, total: 7300 * time.Millisecond},
		"many over short":   {names: []string{"pan-left", "pan-right", "pan-up", "pan-down", "zoom-in"}, total: 2 * time.Second},
		"sub-second":        {names: []string{"zoom-in"}, total: 700 * time.Millisecond},
		"underscored names": {names: []string{"zoom_in", "pan_right"}, total: 4 * time.Second},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			steps, err := Sequence(tc.names, tc.total, 30)
			if err != nil {
				t.Fatalf("sequence: %v", err)
			}
			if len(steps) != len(tc.names) {
				t.Fatalf("expected %d steps, got %d", len(tc.names), len(steps))
			}
			sum := 0
			for _, s := range steps {
				if s.Frames <= 0 {
					t.Fatalf("step %s has %d frames", s.Kind, s.Frames)
				}
				sum += s.Frames
			}
			want := TotalFrames(tc.total, 30)
			if sum != want {
				t.Fatalf("frames sum to %d, want %d", sum, want)
			}
			// Frame rounding keeps the covered duration within one frame
			// period of the requested total.
			covered := time.Duration(sum) * time.Second / 30
			if diff := (covered - tc.total).Abs(); diff > time.Second/30 {
				t.Fatalf("covered %s differs from total %s by %s", covered, tc.total, diff)
			}
		})
	}
}

func TestSequence_OnlyLastAbsorbsRemainder(t *testing.T) {
	t.Parallel()

	// 301 frames across 3 effects: 100+100+101.
	total := 301 * time.Second / 30
	steps, err := Sequence([]string{"pan-left", "pan-right", "zoom-in"}, total, 30)
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if steps[0].Frames != 100 || steps[1].Frames != 100 {
		t.Fatalf("expected equal shares of 100, got %d and %d", steps[0].Frames, steps[1].Frames)
	}
	if steps[2].Frames != 101 {
		t.Fatalf("expected last step to absorb remainder (101), got %d", steps[2].Frames)
	}
}

func TestSequence_EmptyListIsStatic(t *testing.T) {
	t.Parallel()

	steps, err := Sequence(nil, 5*time.Second, 30)
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("expected a single static step, got %d", len(steps))
	}
	s := steps[0]
	if s.Kind != Static {
		t.Fatalf("expected static kind, got %s", s.Kind)
	}
	if s.Start != Identity || s.End != Identity {
		t.Fatalf("static step must not move: start=%+v end=%+v", s.Start, s.End)
	}
	if s.Frames != 150 {
		t.Fatalf("expected 150 frames for 5s at 30fps, got %d", s.Frames)
	}
}

func TestSequence_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Sequence([]string{"swirl"}, time.Second, 30); err == nil {
		t.Fatalf("expected error for unknown effect name")
	}
	if _, err := Sequence([]string{"zoom-in"}, 0, 30); err == nil {
		t.Fatalf("expected error for non-positive duration")
	}
	if _, err := Sequence([]string{"zoom-in"}, time.Second, 0); err == nil {
		t.Fatalf("expected error for non-positive fps")
	}
	many := make([]string, 10)
	for i := range many {
		many[i] = "zoom-in"
	}
	if _, err := Sequence(many, 100*time.Millisecond, 30); err == nil {
		t.Fatalf("expected error when effects outnumber frames")
	}
}

func TestWindows_Endpoints(t *testing.T) {
	t.Parallel()

	approx := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	start, end := ZoomIn.Windows()
	if start != Identity {
		t.Fatalf("zoom-in must start at full frame, got %+v", start)
	}
	if !approx(end.W, 0.77) || !approx(end.X, 0.115) || !approx(end.Y, 0.115) {
		t.Fatalf("zoom-in must end on the centered 77%% window, got %+v", end)
	}

	zs, ze := ZoomOut.Windows()
	if zs != end || ze != start {
		t.Fatalf("zoom-out must reverse zoom-in, got %+v -> %+v", zs, ze)
	}

	cases := map[Kind]struct {
		startX, startY, endX, endY float64
	}{
		PanLeft:  {startX: 0.15, startY: 0.075, endX: 0, endY: 0.075},
		PanRight: {startX: 0, startY: 0.075, endX: 0.15, endY: 0.075},
		PanUp:    {startX: 0.075, startY: 0.15, endX: 0.075, endY: 0},
		PanDown:  {startX: 0.075, startY: 0, endX: 0.075, endY: 0.15},
	}
	for kind, want := range cases {
		kind, want := kind, want
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			s, e := kind.Windows()
			if !approx(s.W, 0.85) || !approx(e.W, 0.85) || !approx(s.H, 0.85) || !approx(e.H, 0.85) {
				t.Fatalf("pans must keep the 85%% window, got %+v -> %+v", s, e)
			}
			if !approx(s.X, want.startX) || !approx(s.Y, want.startY) {
				t.Fatalf("unexpected start window %+v", s)
			}
			if !approx(e.X, want.endX) || !approx(e.Y, want.endY) {
				t.Fatalf("unexpected end window %+v", e)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	cases := map[string]Kind{
		"zoom-in":   ZoomIn,
		"zoom_in":   ZoomIn,
		"ZOOM-OUT":  ZoomOut,
		"pan_left":  PanLeft,
		"pan-right": PanRight,
		" pan-up ":  PanUp,
		"pan_down":  PanDown,
		"static":    Static,
	}
	for in, want := range cases {
		in, want := in, want
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKind(in)
			if err != nil {
				t.Fatalf("parse %q: %v", in, err)
			}
			if got != want {
				t.Fatalf("parse %q = %s, want %s", in, got, want)
			}
		})
	}

	if _, err := ParseKind("dolly"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestStepDuration(t *testing.T) {
	t.Parallel()

	s := Step{Frames: 45}
	if got := s.Duration(30); got != 1500*time.Millisecond {
		t.Fatalf("45 frames at 30fps = %s, want 1.5s", got)
	}
}
