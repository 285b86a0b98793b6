package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/storyreel/storyreel/internal/pipeline"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render all clips and assemble the final video in one go",
		Args:  cobra.NoArgs,
		RunE:  runAll,
	}
	addBatchFlags(cmd)
	cmd.Flags().String("output", "", "Final video path")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	rcfg := pipeline.RunConfig{
		Batch:   batchConfig(cmd, cfg),
		OutPath: output,
	}
	if err := rcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 8*time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, rcfg)
	if err != nil {
		return err
	}
	printSummary(cmd, res.Summary)
	cmd.Printf("video written: %s (%s)\n", res.Assemble.VideoPath, res.Assemble.Total.Round(time.Second))
	cmd.Printf("chapters written: %s\n", res.Assemble.MarkersPath)
	return nil
}
