package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/storyreel/storyreel/internal/config"
	"github.com/storyreel/storyreel/internal/pipeline"
	"github.com/storyreel/storyreel/internal/types"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render a clip for every segment in a project file",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	addBatchFlags(cmd)
	return cmd
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Project JSON file")
	cmd.Flags().String("images-dir", "", "Directory with <segment_id>.png stills")
	cmd.Flags().String("audio-dir", "", "Directory with <segment_id>.mp3 narration")
	cmd.Flags().String("clips-dir", "", "Directory for rendered clips")
	cmd.Flags().String("music-dir", "", "Directory with music tracks")
	cmd.Flags().Int("workers", 0, "Parallel renders (default from config)")
	cmd.Flags().Bool("force", false, "Re-render clips that already exist")
	_ = cmd.MarkFlagRequired("project")
}

func batchConfig(cmd *cobra.Command, cfg config.Config) pipeline.BatchConfig {
	projectPath, _ := cmd.Flags().GetString("project")
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Batch.Workers
	}
	force, _ := cmd.Flags().GetBool("force")

	return pipeline.BatchConfig{
		Tools:       tools(cfg),
		ProjectPath: projectPath,
		ImagesDir:   flagOrDefault(cmd, "images-dir", cfg.Paths.ImagesDir),
		AudioDir:    flagOrDefault(cmd, "audio-dir", cfg.Paths.AudioDir),
		ClipsDir:    flagOrDefault(cmd, "clips-dir", cfg.Paths.ClipsDir),
		MusicDir:    flagOrDefault(cmd, "music-dir", cfg.Paths.MusicDir),
		MusicGain:   cfg.Render.MusicGain,
		LeadPad:     cfg.Render.PadLead(),
		TailPad:     cfg.Render.PadTail(),
		Fade:        cfg.Render.Fade(),
		Workers:     workers,
		Force:       force,
	}
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bcfg := batchConfig(cmd, cfg)
	if err := bcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 6*time.Hour)
	defer cancel()

	sum, err := pipeline.RunBatch(ctx, bcfg)
	if err != nil {
		return err
	}
	printSummary(cmd, sum)
	// Per-segment failures are reported in the summary, not the exit code,
	// so a re-run can pick up where this one left off.
	return nil
}

func printSummary(cmd *cobra.Command, sum types.Summary) {
	cmd.Printf("generated %d, skipped %d, failed %d\n", sum.Generated, sum.Skipped, sum.Failed)
	for _, id := range sum.FailedIDs {
		cmd.Printf("  failed: %s\n", id)
	}
}
