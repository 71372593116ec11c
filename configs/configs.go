package configs

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
)

// Because we don't need viper's mess for just storing configuration from
// a source.
type config struct {
	Main   configMain   `toml:"main"`
	Server configServer `toml:"server"`
	Dither configDither `toml:"dither"`
	Images configImages `toml:"images"`
	Worker configWorker `toml:"worker"`
}

type configMain struct {
	LogLevel string `toml:"log_level"`
	DevMode  bool   `toml:"dev_mode"`
}

type configServer struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	MaxUploadSize int64  `toml:"max_upload_size"`
}

type configDither struct {
	Algorithm string `toml:"algorithm"`
	Threshold int    `toml:"threshold"`
	Parallel  bool   `toml:"parallel"`
	Seed      int64  `toml:"seed"`
	Matrix    string `toml:"matrix"`
}

type configImages struct {
	Processor  string  `toml:"processor"`
	Format     string  `toml:"format"`
	Quality    int     `toml:"quality"`
	MaxWidth   int     `toml:"max_width"`
	MaxHeight  int     `toml:"max_height"`
	MaxPixels  int     `toml:"max_pixels"`
	Grayscale  bool    `toml:"grayscale"`
	Gamma      float64 `toml:"gamma"`
	Contrast   float64 `toml:"contrast"`
	Brightness float64 `toml:"brightness"`
}

type configWorker struct {
	NumWorkers int `toml:"workers"`
}

// Config holds the configuration data from configuration files
// or flags.
//
// This variable sets some default values that might be overwritten
// by a configuration file.
var Config = config{
	Main: configMain{
		LogLevel: "info",
		DevMode:  false,
	},
	Server: configServer{
		Host:          "127.0.0.1",
		Port:          5000,
		MaxUploadSize: 20 << 20,
	},
	Dither: configDither{
		Algorithm: "floyd-steinberg",
		Threshold: 128,
		Seed:      1,
		Matrix:    "bayer-4x4",
	},
	Images: configImages{
		Processor: "native",
		Quality:   90,
		MaxPixels: 30000000,
		Gamma:     1.0,
	},
	Worker: configWorker{
		NumWorkers: runtime.NumCPU(),
	},
}

// LoadConfiguration loads the configuration file.
func LoadConfiguration(configPath string) error {
	if configPath == "" {
		return nil
	}

	fd, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer fd.Close()

	dec := toml.NewDecoder(fd)
	if err := dec.Decode(&Config); err != nil {
		return err
	}

	return nil
}
