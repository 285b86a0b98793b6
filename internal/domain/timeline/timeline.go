package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/storyreel/storyreel/internal/types"
)

// Entry is one clip's position on the assembled timeline.
type Entry struct {
	SegmentID string
	ChapterID string
	Offset    time.Duration
	Duration  time.Duration
}

// Marker is a chapter's start position with its display title.
type Marker struct {
	Offset time.Duration
	Title  string
}

// Build walks chapters in order, then segments within each chapter, and lays
// clips end to end. durations maps segment id to the clip's measured duration
// and must cover every referenced segment. A chapter's marker lands on the
// offset accumulated before its first segment, so the first marker is always
// zero.
func Build(p types.Project, durations map[string]time.Duration) ([]Entry, []Marker, error) {
	entries := make([]Entry, 0, p.SegmentCount())
	markers := make([]Marker, 0, len(p.Chapters))
	var offset time.Duration
	for _, ch := range p.Chapters {
		markers = append(markers, Marker{Offset: offset, Title: ch.Title})
		for _, seg := range ch.Segments {
			d, ok := durations[seg.ID]
			if !ok {
				return nil, nil, fmt.Errorf("no measured duration for segment %q", seg.ID)
			}
			entries = append(entries, Entry{
				SegmentID: seg.ID,
				ChapterID: ch.ID,
				Offset:    offset,
				Duration:  d,
			})
			offset += d
		}
	}
	return entries, markers, nil
}

// Total is the assembled video's duration: the end of the last entry.
func Total(entries []Entry) time.Duration {
	if len(entries) == 0 {
		return 0
	}
	last := entries[len(entries)-1]
	return last.Offset + last.Duration
}

// FormatTimestamp renders an offset as H:MM:SS with unpadded hours, floored
// to whole seconds.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// RenderMarkers produces the chapter sidecar content: one line per chapter,
// timestamp then title, in chapter order. Titles appear verbatim.
func RenderMarkers(markers []Marker) string {
	var b strings.Builder
	for _, m := range markers {
		b.WriteString(FormatTimestamp(m.Offset))
		b.WriteByte(' ')
		b.WriteString(m.Title)
		b.WriteByte('\n')
	}
	return b.String()
}
