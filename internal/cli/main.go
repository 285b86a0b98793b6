package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/storyreel/storyreel/internal/config"
	"github.com/storyreel/storyreel/internal/logging"
	"github.com/storyreel/storyreel/internal/pipeline"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "storyreel",
		Short:         "Turn stills and narration into a chaptered video",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logging.Init(verbose)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	root.PersistentFlags().String("config", "", "Config file (default storyreel.yaml)")

	root.AddCommand(clipCmd(), batchCmd(), assembleCmd(), runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func tools(cfg config.Config) pipeline.Tools {
	return pipeline.Tools{
		FFmpegPath:  cfg.FFmpeg.Binary,
		FFprobePath: cfg.FFmpeg.Probe,
		Preset:      cfg.FFmpeg.Preset,
		CRF:         cfg.FFmpeg.CRF,
		Threads:     cfg.FFmpeg.Threads,
	}
}

func flagOrDefault(cmd *cobra.Command, name, def string) string {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return def
	}
	return v
}
