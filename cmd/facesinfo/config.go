package main

import (
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/Noofbiz/faces/datasets"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Config holds the facesinfo settings. It can be loaded from a JSON file with
// -config; flags given explicitly on the command line override the JSON values.
type Config struct {
	Root           string `json:"root"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Grayscale      bool   `json:"grayscale"`
	ToTensor       bool   `json:"to_tensor"`
	OffsetIndexing bool   `json:"offset_indexing"`
	Validate       bool   `json:"validate"`
	Progress       bool   `json:"progress"`
	PlotPath       string `json:"plot_path"`
}

func defaultConfig() Config {
	return Config{Progress: true}
}

// loadConfig reads a JSON config on top of the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %q", path)
	}
	return cfg, nil
}

// parseArgs registers the facesinfo flags in fs, parses args and merges the
// result with the optional JSON config.
func parseArgs(fs *flag.FlagSet, args []string) (Config, error) {
	def := defaultConfig()
	configPath := fs.String("config", "", "path to a JSON config file (optional); explicit flags override its values")
	root := fs.String("root", def.Root, "dataset root containing real/ and fake/ sub-directories")
	width := fs.Int("width", def.Width, "resize images to this width before validation (0 = keep)")
	height := fs.Int("height", def.Height, "resize images to this height before validation (0 = keep)")
	grayscale := fs.Bool("grayscale", def.Grayscale, "convert images to grayscale before validation")
	toTensor := fs.Bool("to-tensor", def.ToTensor, "convert images to float32 gomlx tensors during validation")
	offsetIndexing := fs.Bool("offset-indexing", def.OffsetIndexing, "map fake indices with index-len(real) instead of index mod len(real)")
	validate := fs.Bool("validate", def.Validate, "read and transform every example, reporting the ones that fail")
	progress := fs.Bool("progress", def.Progress, "show a progress bar during validation")
	plotPath := fs.String("plot", def.PlotPath, "if set, write a bar chart of file counts and coverage to this PNG path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := def
	if strings.TrimSpace(*configPath) != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return Config{}, err
		}
	}

	// Explicit flags win over JSON.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			cfg.Root = *root
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "grayscale":
			cfg.Grayscale = *grayscale
		case "to-tensor":
			cfg.ToTensor = *toTensor
		case "offset-indexing":
			cfg.OffsetIndexing = *offsetIndexing
		case "validate":
			cfg.Validate = *validate
		case "progress":
			cfg.Progress = *progress
		case "plot":
			cfg.PlotPath = *plotPath
		}
	})

	if cfg.Root == "" {
		return Config{}, errors.New("dataset root not given, use -root or set \"root\" in the config")
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return Config{}, errors.Errorf("invalid resize target %dx%d", cfg.Width, cfg.Height)
	}
	if (cfg.Width == 0) != (cfg.Height == 0) {
		return Config{}, errors.Errorf("both -width and -height must be set to resize, got %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// transform builds the dataset transform described by the config, or nil if
// no transformation was requested.
func (c Config) transform() datasets.Transform {
	var ts []datasets.Transform
	if c.Width > 0 && c.Height > 0 {
		ts = append(ts, datasets.ResizeWithPadding(c.Width, c.Height))
	}
	if c.Grayscale {
		ts = append(ts, datasets.Grayscale())
	}
	if c.ToTensor {
		ts = append(ts, datasets.ToTensor(dtypes.Float32))
	}
	if len(ts) == 0 {
		return nil
	}
	return datasets.Compose(ts...)
}
