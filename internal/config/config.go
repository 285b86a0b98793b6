package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional tool configuration file. Everything has a compiled-in
// default; a config file overrides defaults, environment variables override
// the file, and command-line flags override everything.
type Config struct {
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Render RenderConfig `yaml:"render"`
	Batch  BatchConfig  `yaml:"batch"`
	Paths  PathsConfig  `yaml:"paths"`
}

type FFmpegConfig struct {
	Binary  string `yaml:"binary"`
	Probe   string `yaml:"probe"`
	Preset  string `yaml:"preset"`
	CRF     int    `yaml:"crf"`
	Threads int    `yaml:"threads"`
}

type RenderConfig struct {
	// Seconds of silence before and after the narration.
	PaddingStart float64 `yaml:"padding_start"`
	PaddingEnd   float64 `yaml:"padding_end"`
	// Default music gain when a chapter does not set its own.
	MusicGain float64 `yaml:"music_gain"`
	// Length of the fade rendered for fade/crossfade transitions.
	FadeDuration float64 `yaml:"fade_duration"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type PathsConfig struct {
	ImagesDir string `yaml:"images_dir"`
	AudioDir  string `yaml:"audio_dir"`
	ClipsDir  string `yaml:"clips_dir"`
	MusicDir  string `yaml:"music_dir"`
}

func (r RenderConfig) PadLead() time.Duration { return secondsToDuration(r.PaddingStart) }
func (r RenderConfig) PadTail() time.Duration { return secondsToDuration(r.PaddingEnd) }
func (r RenderConfig) Fade() time.Duration    { return secondsToDuration(r.FadeDuration) }

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func Default() Config {
	return Config{
		FFmpeg: FFmpegConfig{
			Binary: "ffmpeg",
			Probe:  "ffprobe",
			Preset: "medium",
			CRF:    23,
		},
		Render: RenderConfig{
			PaddingStart: 0.5,
			PaddingEnd:   0.5,
			MusicGain:    0.15,
			FadeDuration: 0.5,
		},
		Batch: BatchConfig{Workers: 4},
		Paths: PathsConfig{
			ImagesDir: "images",
			AudioDir:  "audio",
			ClipsDir:  "clips",
			MusicDir:  "music",
		},
	}
}

// Load builds the effective config: defaults, then the config file (the given
// path, or the first default location found), then environment overrides. A
// missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Environment names shared with the authoring tooling, so one .env serves
// both sides of the workflow.
func applyEnv(cfg *Config) error {
	if err := envFloat("DEFAULT_PADDING_START", &cfg.Render.PaddingStart); err != nil {
		return err
	}
	if err := envFloat("DEFAULT_PADDING_END", &cfg.Render.PaddingEnd); err != nil {
		return err
	}
	return envFloat("DEFAULT_MUSIC_VOLUME", &cfg.Render.MusicGain)
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s=%q is not a number: %w", key, v, err)
	}
	*dst = f
	return nil
}

func findConfigFile() string {
	candidates := []string{"storyreel.yaml", "storyreel.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "storyreel", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
