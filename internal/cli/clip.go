package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/storyreel/storyreel/internal/pipeline"
)

func clipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Render a single clip from a still and a narration track",
		Args:  cobra.NoArgs,
		RunE:  runClip,
	}

	cmd.Flags().String("image", "", "Still image")
	cmd.Flags().String("audio", "", "Narration track")
	cmd.Flags().String("output", "", "Output clip path")
	cmd.Flags().StringSlice("effects", nil,
		"Motion effects in order (zoom-in, zoom-out, pan-left, pan-right, pan-up, pan-down)")
	cmd.Flags().String("music", "", "Background music track")
	cmd.Flags().Float64("music-gain", 0, "Music volume 0..1 (default from config)")
	cmd.Flags().Float64("fade-in", 0, "Fade from black, seconds")
	cmd.Flags().Float64("fade-out", 0, "Fade to black, seconds")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("audio")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runClip(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	image, _ := cmd.Flags().GetString("image")
	audio, _ := cmd.Flags().GetString("audio")
	output, _ := cmd.Flags().GetString("output")
	effects, _ := cmd.Flags().GetStringSlice("effects")
	music, _ := cmd.Flags().GetString("music")
	fadeIn, _ := cmd.Flags().GetFloat64("fade-in")
	fadeOut, _ := cmd.Flags().GetFloat64("fade-out")

	gain := cfg.Render.MusicGain
	if cmd.Flags().Changed("music-gain") {
		gain, _ = cmd.Flags().GetFloat64("music-gain")
	}

	pcfg := pipeline.SegmentConfig{
		Tools:     tools(cfg),
		ImagePath: image,
		AudioPath: audio,
		MusicPath: music,
		MusicGain: gain,
		Effects:   effects,
		LeadPad:   cfg.Render.PadLead(),
		TailPad:   cfg.Render.PadTail(),
		FadeIn:    seconds(fadeIn),
		FadeOut:   seconds(fadeOut),
		OutPath:   output,
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	if err := pipeline.RunSegment(ctx, pcfg); err != nil {
		return err
	}
	cmd.Printf("clip written: %s\n", output)
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
