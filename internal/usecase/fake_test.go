package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storyreel/storyreel/internal/ports"
	"github.com/storyreel/storyreel/internal/types"
)

// fakeMedia scripts probe answers by file base name and records every call.
// RenderClip and Concat write a small file at the output path so the atomic
// rename in the usecase has something to publish.
type fakeMedia struct {
	mu sync.Mutex

	audioDurations map[string]time.Duration
	audioErrs      map[string]error
	clipInfos      map[string]types.ClipInfo
	clipErrs       map[string]error
	renderErrs     map[string]error // keyed by image base name
	concatErr      error

	renders    []ports.RenderSpec
	probed     []string
	concatsIn  [][]string
	concatsOut []string
}

func (f *fakeMedia) ProbeAudioDuration(_ context.Context, path string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	base := filepath.Base(path)
	if err := f.audioErrs[base]; err != nil {
		return 0, err
	}
	if d, ok := f.audioDurations[base]; ok {
		return d, nil
	}
	return 3 * time.Second, nil
}

func (f *fakeMedia) ProbeClip(_ context.Context, path string) (types.ClipInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	base := filepath.Base(path)
	f.probed = append(f.probed, base)
	if err := f.clipErrs[base]; err != nil {
		return types.ClipInfo{}, err
	}
	if info, ok := f.clipInfos[base]; ok {
		return info, nil
	}
	return validClipInfo(3 * time.Second), nil
}

func (f *fakeMedia) RenderClip(_ context.Context, spec ports.RenderSpec) error {
	f.mu.Lock()
	f.renders = append(f.renders, spec)
	err := f.renderErrs[filepath.Base(spec.ImagePath)]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(spec.OutPath, []byte("clip"), 0o644)
}

func (f *fakeMedia) Concat(_ context.Context, clipPaths []string, outPath string) error {
	f.mu.Lock()
	f.concatsIn = append(f.concatsIn, append([]string(nil), clipPaths...))
	f.concatsOut = append(f.concatsOut, outPath)
	err := f.concatErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("video"), 0o644)
}

func validClipInfo(d time.Duration) types.ClipInfo {
	return types.ClipInfo{
		Duration:   d,
		Width:      ports.FrameWidth,
		Height:     ports.FrameHeight,
		FPS:        ports.FrameRate,
		VideoCodec: "h264",
		AudioCodec: "aac",
	}
}

func newTestUsecase(f *fakeMedia) Usecase {
	return New(Deps{Media: f, Log: zerolog.Nop()})
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
