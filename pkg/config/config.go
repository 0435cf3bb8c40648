package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains the tunable settings for every panel
type Config struct {
	Image     ImageConfig     `yaml:"image"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Audio     AudioConfig     `yaml:"audio"`
	Report    ReportConfig    `yaml:"report"`
	Server    ServerConfig    `yaml:"server"`
}

// ImageConfig controls bit-plane text extraction from images
type ImageConfig struct {
	BitBudget  int  `yaml:"bit_budget"`  // bits decoded per plane
	PixelLimit int  `yaml:"pixel_limit"` // pixels read before truncation
	Payloads   bool `yaml:"payloads"`    // also look for length-prefixed and jsteg payloads
}

// WatermarkConfig controls the edge highlighter
type WatermarkConfig struct {
	Contrast   float64 `yaml:"contrast"`
	GridStep   int     `yaml:"grid_step"`
	Threshold  uint8   `yaml:"threshold"`
	HalfWidth  int     `yaml:"half_width"`
	OutputName string  `yaml:"output_name"`
}

// AudioConfig controls WAV sample decoding
type AudioConfig struct {
	Printable bool `yaml:"printable"` // apply the image printable filter to audio text too
	MaxBits   int  `yaml:"max_bits"`  // 0 reads the whole data chunk
}

// ReportConfig controls generated PDF files
type ReportConfig struct {
	FontFamily  string  `yaml:"font_family"`
	FontSize    float64 `yaml:"font_size"`
	LineHeight  float64 `yaml:"line_height"`
	Margin      float64 `yaml:"margin"`
	CleanedName string  `yaml:"cleaned_name"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
	MaxUploadMB  int      `yaml:"max_upload_mb"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Image: ImageConfig{
			BitBudget:  500,
			PixelLimit: 10000,
			Payloads:   true,
		},
		Watermark: WatermarkConfig{
			Contrast:   2.0,
			GridStep:   10,
			Threshold:  200,
			HalfWidth:  5,
			OutputName: "watermarked_detected.png",
		},
		Audio: AudioConfig{
			Printable: false,
			MaxBits:   0,
		},
		Report: ReportConfig{
			FontFamily:  "Arial",
			FontSize:    12,
			LineHeight:  10,
			Margin:      15,
			CleanedName: "Cleaned_PDF.pdf",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			AllowOrigins: []string{"http://localhost:3000"},
			MaxUploadMB:  32,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Save writes the configuration as YAML
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the values can drive an analysis
func (c Config) Validate() error {
	var errs []error
	if c.Image.BitBudget < 0 {
		errs = append(errs, fmt.Errorf("image.bit_budget must not be negative, got %d", c.Image.BitBudget))
	}
	if c.Image.PixelLimit < 0 {
		errs = append(errs, fmt.Errorf("image.pixel_limit must not be negative, got %d", c.Image.PixelLimit))
	}
	if c.Watermark.GridStep <= 0 {
		errs = append(errs, fmt.Errorf("watermark.grid_step must be positive, got %d", c.Watermark.GridStep))
	}
	if c.Watermark.HalfWidth < 0 {
		errs = append(errs, fmt.Errorf("watermark.half_width must not be negative, got %d", c.Watermark.HalfWidth))
	}
	if c.Watermark.OutputName == "" {
		errs = append(errs, errors.New("watermark.output_name is required"))
	}
	if c.Audio.MaxBits < 0 {
		errs = append(errs, fmt.Errorf("audio.max_bits must not be negative, got %d", c.Audio.MaxBits))
	}
	if c.Report.FontSize <= 0 || c.Report.LineHeight <= 0 {
		errs = append(errs, errors.New("report.font_size and report.line_height must be positive"))
	}
	if c.Report.CleanedName == "" {
		errs = append(errs, errors.New("report.cleaned_name is required"))
	}
	return errors.Join(errs...)
}
