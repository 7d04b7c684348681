package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/papertexture/internal/compose"
	"github.com/MeKo-Tech/papertexture/internal/paper"
	"github.com/MeKo-Tech/papertexture/internal/texture"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate finished paper textures",
	Long: `Generate complete paper textures through the full pipeline: texture
acquisition (library retrieval or procedural synthesis), optional blending of
a second texture, colorization and brightness normalization.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int("width", 1000, "Output width in pixels")
	generateCmd.Flags().Int("height", 1000, "Output height in pixels")
	generateCmd.Flags().IntP("count", "n", 1, "Number of textures to generate")
	generateCmd.Flags().Int64("seed", 1337, "Deterministic seed for texture synthesis")
	generateCmd.Flags().String("color", "random", "Colorize the paper: true, false or random")
	generateCmd.Flags().String("blend", "random", "Blend a second texture on top: true, false or random")
	generateCmd.Flags().String("blend-method", "ink_to_paper", "Blend method (or 'random' for a random choice per texture)")
	generateCmd.Flags().String("quilt", "false", "Quilt the generated texture from tonally matched patches: true, false or random")
	generateCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"generate.width", "width"},
		{"generate.height", "height"},
		{"generate.count", "count"},
		{"generate.seed", "seed"},
		{"generate.color", "color"},
		{"generate.blend", "blend"},
		{"generate.blend_method", "blend-method"},
		{"generate.quilt", "quilt"},
		{"generate.workers", "workers"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, generateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	width := viper.GetInt("generate.width")
	height := viper.GetInt("generate.height")
	count := viper.GetInt("generate.count")
	seed := viper.GetInt64("generate.seed")
	workers := viper.GetInt("generate.workers")
	outputDir := viper.GetString("output-dir")
	textureDir := viper.GetString("texture-dir")

	if width <= 0 || height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	colorOpt, err := parseBoolOption(viper.GetString("generate.color"))
	if err != nil {
		return fmt.Errorf("invalid --color: %w", err)
	}
	blendOpt, err := parseBoolOption(viper.GetString("generate.blend"))
	if err != nil {
		return fmt.Errorf("invalid --blend: %w", err)
	}
	quiltOpt, err := parseBoolOption(viper.GetString("generate.quilt"))
	if err != nil {
		return fmt.Errorf("invalid --quilt: %w", err)
	}
	modeOpt, err := parseModeOption(viper.GetString("generate.blend_method"))
	if err != nil {
		return fmt.Errorf("invalid --blend-method: %w", err)
	}

	lib, err := paper.LoadLibrary(textureDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load texture library: %w", err)
	}

	gen := texture.New(texture.Config{
		Seed:     seed,
		Parallel: true,
		Workers:  workers,
		Logger:   logger,
	})
	factory, err := paper.New(paper.Config{
		Generator:   gen,
		Library:     lib,
		EnableColor: colorOpt,
		Blend:       blendOpt,
		BlendMode:   modeOpt,
		Quilt:       quiltOpt,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	logger.Info("Starting paper generation",
		"size", fmt.Sprintf("%dx%d", width, height),
		"count", count,
		"seed", seed,
		"library_textures", lib.Len(),
		"output_dir", outputDir,
	)

	for i := 0; i < count; i++ {
		tex, err := factory.Paper(width, height)
		if err != nil {
			return fmt.Errorf("failed to generate paper %d: %w", i+1, err)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("paper_%04d.png", i+1))
		if err := imaging.Save(tex, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		b := tex.Bounds()
		logger.Info("Paper generated", "path", path, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
	}
	return nil
}

func parseBoolOption(s string) (paper.BoolOption, error) {
	switch s {
	case "true", "1":
		return paper.Bool(true), nil
	case "false", "0":
		return paper.Bool(false), nil
	case "random":
		return paper.RandomBool(), nil
	}
	return paper.BoolOption{}, fmt.Errorf("expected true, false or random, got %q", s)
}

func parseModeOption(s string) (paper.ModeOption, error) {
	if s == "random" {
		return paper.RandomBlend(), nil
	}
	mode := compose.Mode(s)
	if !mode.Valid() {
		return paper.ModeOption{}, fmt.Errorf("unknown blend method %q", s)
	}
	return paper.BlendWith(mode), nil
}
