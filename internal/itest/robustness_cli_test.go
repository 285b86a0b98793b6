//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 30 * time.Second

const minimalProject = `{
  "project_name": "robustness",
  "chapters": [
    {"chapter_id": "ch_01", "title": "T", "segments": [{"segment_id": "seg_01", "narration": "n"}]}
  ]
}`

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	cases := []robustCase{
		{
			name: "unknown command",
			args: staticArgs("frobnicate"),
			wantContains: []string{
				`unknown command "frobnicate"`,
			},
		},
		{
			name: "unknown flag",
			args: staticArgs("batch", "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "workers non int",
			args: staticArgs("batch", "--project", "p.json", "--workers", "nope"),
			wantContains: []string{
				`invalid argument "nope" for "--workers"`,
			},
		},
		{
			name: "batch without project",
			args: staticArgs("batch"),
			wantContains: []string{
				`required flag(s) "project" not set`,
			},
		},
		{
			name: "clip without inputs",
			args: staticArgs("clip"),
			wantContains: []string{
				"required flag(s)",
			},
		},
		{
			name: "negative workers",
			args: func(t *testing.T, _ string) []string {
				return []string{"batch", "--project", writeProjectFixture(t, minimalProject), "--workers", "-1"}
			},
			wantContains: []string{
				"config: workers must be > 0",
			},
		},
		{
			name: "unknown effect name",
			args: staticArgs("clip",
				"--image", "x.png", "--audio", "x.mp3", "--output", "o.mp4",
				"--effects", "swirl"),
			wantContains: []string{
				`config: unknown effect "swirl"`,
			},
		},
	}

	runRobustCases(t, mustRepoRoot(t), cases)
}

func TestRobustness_ProjectHandling(t *testing.T) {
	requireTools(t)

	cases := []robustCase{
		{
			name: "missing project file",
			args: func(t *testing.T, _ string) []string {
				return []string{"batch", "--project", filepath.Join(t.TempDir(), "absent.json")}
			},
			wantContains: []string{
				"read project",
			},
		},
		{
			name: "project is not json",
			args: func(t *testing.T, _ string) []string {
				return []string{"batch", "--project", writeProjectFixture(t, "{not json")}
			},
			wantContains: []string{
				"decode:",
			},
		},
		{
			name: "duplicate segment ids",
			args: func(t *testing.T, _ string) []string {
				doc := `{
  "project_name": "r",
  "chapters": [
    {"chapter_id": "ch_01", "title": "T", "segments": [
      {"segment_id": "seg_01", "narration": "n"},
      {"segment_id": "seg_01", "narration": "n"}
    ]}
  ]
}`
				return []string{"batch", "--project", writeProjectFixture(t, doc)}
			},
			wantContains: []string{
				`duplicate segment id "seg_01"`,
			},
		},
		{
			name: "unknown transition tag",
			args: func(t *testing.T, _ string) []string {
				doc := `{
  "project_name": "r",
  "chapters": [
    {"chapter_id": "ch_01", "title": "T", "segments": [
      {"segment_id": "seg_01", "narration": "n", "transition": "wipe"}
    ]}
  ]
}`
				return []string{"batch", "--project", writeProjectFixture(t, doc)}
			},
			wantContains: []string{
				`unknown transition "wipe"`,
			},
		},
		{
			name: "assemble without clips",
			args: func(t *testing.T, _ string) []string {
				tmp := t.TempDir()
				return []string{"assemble",
					"--project", writeProjectFixture(t, minimalProject),
					"--clips-dir", tmp,
					"--output", filepath.Join(tmp, "final.mp4"),
				}
			},
			wantContains: []string{
				"missing clip",
				"seg_01",
			},
		},
	}

	runRobustCases(t, mustRepoRoot(t), cases)
}

func TestRobustness_EnvOverrides(t *testing.T) {
	cases := []robustCase{
		{
			name: "padding not a number",
			args: func(t *testing.T, _ string) []string {
				return []string{"batch", "--project", writeProjectFixture(t, minimalProject)}
			},
			env: map[string]string{
				"DEFAULT_PADDING_START": "abc",
			},
			wantContains: []string{
				`DEFAULT_PADDING_START="abc" is not a number`,
			},
		},
		{
			name: "music volume not a number",
			args: func(t *testing.T, _ string) []string {
				return []string{"batch", "--project", writeProjectFixture(t, minimalProject)}
			},
			env: map[string]string{
				"DEFAULT_MUSIC_VOLUME": "loud",
			},
			wantContains: []string{
				`DEFAULT_MUSIC_VOLUME="loud" is not a number`,
			},
		},
	}

	runRobustCases(t, mustRepoRoot(t), cases)
}

func writeProjectFixture(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write project fixture: %v", err)
	}
	return path
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/storyreel"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
