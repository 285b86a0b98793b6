package usecase

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storyreel/storyreel/internal/ports"
)

type Deps struct {
	Media ports.MediaTool
	Log   zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

// partialPath gives each write a unique temp target in the output's own
// directory, so the final rename is atomic on the same filesystem and a
// crashed run can never leave something that looks like a finished artifact.
func partialPath(out string) string {
	return fmt.Sprintf("%s.%s.partial", out, uuid.NewString()[:8])
}

func writeFileAtomic(path string, b []byte) error {
	tmp := partialPath(path)
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
