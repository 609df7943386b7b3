// Copyright (c) 2026 Harry Huang

// map-tracker merges map tile screenshots into full maps, stitches
// overlapping maps into composites with exclusive territories, and
// maintains the bounding box index of the exported assets.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/config"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/interaction"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/merger"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/stitcher"
	"github.com/MaaXYZ/MaaEnd/tools/map-tracker/tiles"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
		cfg        = config.Default()
	)

	root := &cobra.Command{
		Use:          "map-tracker",
		Short:        "Map asset pipeline for MapTracker",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
				Level(level).
				With().Timestamp().Logger()

			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				log.Info().Str("path", configPath).Msg("Config loaded")
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file overriding the built-in defaults")

	root.AddCommand(newMergeCmd(&cfg))
	root.AddCommand(newStitchCmd(&cfg))
	root.AddCommand(newBBoxCmd(&cfg))
	return root
}

func newMergeCmd(cfg *config.Config) *cobra.Command {
	var (
		inputDir  string
		outputDir string
		mapType   string
	)
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge tile screenshots into full map images",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := merger.New(*cfg, interaction.Auto{})
			return m.Run(inputDir, outputDir, tiles.MapType(mapType))
		},
	}
	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory holding the tile screenshots")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for the merged maps")
	cmd.Flags().StringVarP(&mapType, "type", "t", string(tiles.MapTypeNormalTier),
		"map type to collect: normal_tier, base or dungeon")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newStitchCmd(cfg *config.Config) *cobra.Command {
	var (
		inputDir    string
		outputDir   string
		barrierPath string
		skipSplit   bool
	)
	cmd := &cobra.Command{
		Use:   "stitch",
		Short: "Stitch merged maps into composites and split overlaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res interaction.Resolver = interaction.Auto{}
			if barrierPath != "" {
				if skipSplit {
					return fmt.Errorf("--barrier and --skip-split are mutually exclusive")
				}
				barrier, err := interaction.LoadBarrierPNG(barrierPath)
				if err != nil {
					return fmt.Errorf("failed to load barrier stroke: %w", err)
				}
				res = interaction.FixedBarrier{Barrier: barrier}
			}
			s := stitcher.New(*cfg, res)
			return s.Run(inputDir, outputDir)
		},
	}
	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory holding the merged maps")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for the stitched results")
	cmd.Flags().StringVarP(&barrierPath, "barrier", "b", "",
		"PNG stroke file splitting overlapping territory (canvas-sized)")
	cmd.Flags().BoolVar(&skipSplit, "skip-split", false, "leave overlapping regions shared")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newBBoxCmd(cfg *config.Config) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "bbox",
		Short: "Regenerate the map_bbox.json index of a map directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return stitcher.GenerateBBoxIndex(dir, *cfg)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory holding the exported maps")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
