package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/papertexture/internal/texture"
)

var texturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Generate raw texture masks",
	Long:  "Generate individual texture masks of a single kind, without edge blending, colorization or brightness correction.",
	RunE:  runTextures,
}

func init() {
	rootCmd.AddCommand(texturesCmd)

	texturesCmd.Flags().String("kind", "random", "Texture kind: normal, strange, rough_stains, fine_stains, granular, curvy_edge, broken_edge, fibrous or random")
	texturesCmd.Flags().Int("width", 1000, "Texture width in pixels")
	texturesCmd.Flags().Int("height", 1000, "Texture height in pixels")
	texturesCmd.Flags().IntP("count", "n", 1, "Number of textures to generate")
	texturesCmd.Flags().Int64("seed", 1337, "Deterministic seed for texture synthesis")
	texturesCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"textures.kind", "kind"},
		{"textures.width", "width"},
		{"textures.height", "height"},
		{"textures.count", "count"},
		{"textures.seed", "seed"},
		{"textures.workers", "workers"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, texturesCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runTextures(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	kindName := viper.GetString("textures.kind")
	width := viper.GetInt("textures.width")
	height := viper.GetInt("textures.height")
	count := viper.GetInt("textures.count")
	seed := viper.GetInt64("textures.seed")
	workers := viper.GetInt("textures.workers")
	outputDir := viper.GetString("output-dir")

	if width <= 0 || height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if kindName != "random" && !knownKind(texture.Kind(kindName)) {
		return fmt.Errorf("unknown texture kind %q", kindName)
	}

	gen := texture.New(texture.Config{
		Seed:     seed,
		Parallel: true,
		Workers:  workers,
		Logger:   logger,
	})

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	for i := 0; i < count; i++ {
		kind := texture.Kind(kindName)
		if kindName == "random" {
			kind = texture.Kinds[gen.Rand().Intn(len(texture.Kinds))]
		}
		tex, err := gen.Generate(kind, width, height)
		if err != nil {
			return fmt.Errorf("failed to generate %s texture: %w", kind, err)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("texture_%s_%04d.png", kind, i+1))
		if err := imaging.Save(tex, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		logger.Info("Texture generated", "kind", string(kind), "path", path)
	}
	return nil
}

func knownKind(k texture.Kind) bool {
	for _, known := range texture.Kinds {
		if k == known {
			return true
		}
	}
	return false
}
