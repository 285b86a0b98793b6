package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/storyreel/storyreel/internal/pipeline"
)

func assembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Concatenate a project's clips into the final video",
		Args:  cobra.NoArgs,
		RunE:  runAssemble,
	}

	cmd.Flags().String("project", "", "Project JSON file")
	cmd.Flags().String("clips-dir", "", "Directory with rendered clips")
	cmd.Flags().String("output", "", "Final video path")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	projectPath, _ := cmd.Flags().GetString("project")
	output, _ := cmd.Flags().GetString("output")

	acfg := pipeline.AssembleConfig{
		Tools:       tools(cfg),
		ProjectPath: projectPath,
		ClipsDir:    flagOrDefault(cmd, "clips-dir", cfg.Paths.ClipsDir),
		OutPath:     output,
	}
	if err := acfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Hour)
	defer cancel()

	res, err := pipeline.RunAssemble(ctx, acfg)
	if err != nil {
		return err
	}
	cmd.Printf("video written: %s (%s)\n", res.VideoPath, res.Total.Round(time.Second))
	cmd.Printf("chapters written: %s\n", res.MarkersPath)
	return nil
}
