package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Output struct {
		Dir      string `yaml:"dir"`
		FileName string `yaml:"file_name"`
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		DPI      int    `yaml:"dpi"`
	} `yaml:"output"`
	Archive struct {
		DB string `yaml:"db"`
	} `yaml:"archive"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Output.Dir = "."
	cfg.Output.FileName = "GeneratedMD"
	cfg.Archive.DB = "mdgen.db"
	return cfg
}

// LoadConfig reads the YAML config file, layered under .env and MDGEN_*
// environment overrides. A missing file falls back to defaults.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("MDGEN_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if name := os.Getenv("MDGEN_FILE_NAME"); name != "" {
		cfg.Output.FileName = name
	}
	if title := os.Getenv("MDGEN_TITLE"); title != "" {
		cfg.Output.Title = title
	}
	if author := os.Getenv("MDGEN_AUTHOR"); author != "" {
		cfg.Output.Author = author
	}
	if dpi := os.Getenv("MDGEN_DPI"); dpi != "" {
		if v, err := strconv.Atoi(dpi); err == nil {
			cfg.Output.DPI = v
		}
	}
	if db := os.Getenv("MDGEN_ARCHIVE_DB"); db != "" {
		cfg.Archive.DB = db
	}

	return cfg, nil
}
