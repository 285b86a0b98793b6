package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/storyreel/storyreel/internal/domain/effects"
	"github.com/storyreel/storyreel/internal/types"
)

// Load reads and validates a project document. The document is the JSON file
// produced by the upstream authoring tooling; fields this pipeline does not
// know are ignored.
func Load(path string) (types.Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Project{}, fmt.Errorf("read project: %w", err)
	}
	p, err := Parse(b)
	if err != nil {
		return types.Project{}, fmt.Errorf("project %s: %w", path, err)
	}
	return p, nil
}

func Parse(b []byte) (types.Project, error) {
	var p types.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return types.Project{}, fmt.Errorf("decode: %w", err)
	}
	if err := Validate(p); err != nil {
		return types.Project{}, err
	}
	return p, nil
}

// Validate checks the integrity rules the pipeline depends on: unique ids
// (segment ids become artifact filenames), usable titles (markers are
// line-oriented), known effect names and transition tags, music gain in range.
func Validate(p types.Project) error {
	chapterIDs := make(map[string]bool, len(p.Chapters))
	segmentIDs := make(map[string]bool)
	for ci, ch := range p.Chapters {
		if strings.TrimSpace(ch.ID) == "" {
			return fmt.Errorf("chapter %d: empty chapter id", ci+1)
		}
		if chapterIDs[ch.ID] {
			return fmt.Errorf("duplicate chapter id %q", ch.ID)
		}
		chapterIDs[ch.ID] = true
		if strings.TrimSpace(ch.Title) == "" {
			return fmt.Errorf("chapter %q: empty title", ch.ID)
		}
		if strings.ContainsAny(ch.Title, "\r\n") {
			return fmt.Errorf("chapter %q: title must be a single line", ch.ID)
		}
		if g := ch.MusicGain; g != nil && (*g < 0 || *g > 1) {
			return fmt.Errorf("chapter %q: music gain %v outside [0,1]", ch.ID, *g)
		}
		for si, seg := range ch.Segments {
			if strings.TrimSpace(seg.ID) == "" {
				return fmt.Errorf("chapter %q: segment %d: empty segment id", ch.ID, si+1)
			}
			if segmentIDs[seg.ID] {
				return fmt.Errorf("duplicate segment id %q", seg.ID)
			}
			segmentIDs[seg.ID] = true
			for _, name := range seg.Effects {
				if _, err := effects.ParseKind(name); err != nil {
					return fmt.Errorf("segment %q: %w", seg.ID, err)
				}
			}
			switch seg.Transition {
			case "", types.TransitionCut, types.TransitionFade, types.TransitionCrossfade:
			default:
				return fmt.Errorf("segment %q: unknown transition %q", seg.ID, seg.Transition)
			}
		}
	}
	return nil
}

// EffectNames resolves the effective effect list for a segment: nil when the
// project toggle or the owning chapter disables motion, the segment's own
// list otherwise. An empty result renders the segment as a static clip.
func EffectNames(p types.Project, c types.Chapter, s types.Segment) []string {
	if !p.EffectsOn() || !c.EffectsOn() {
		return nil
	}
	return s.Effects
}
