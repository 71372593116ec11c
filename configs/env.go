package configs

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "DITHERIT_"

// LoadDotEnv loads the given env files, or ".env" from the working
// directory when none is given. Missing files are not an error.
// Existing environment variables are never overwritten.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Get returns the value of the environment variable `key` if set.
// If not set, and `key + "_FILE"` is set, the file at that path is read and
// its trimmed contents are returned. If neither are set, def is returned.
func Get(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return def
}

// GetInt returns the integer value of the environment variable `key`.
// If parsing fails or the variable is unset, def is returned.
func GetInt(key string, def int) int {
	if val := Get(key, ""); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// GetInt64 is GetInt for int64 values.
func GetInt64(key string, def int64) int64 {
	if val := Get(key, ""); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return def
}

// GetFloat returns the float value of the environment variable `key`.
func GetFloat(key string, def float64) float64 {
	if val := Get(key, ""); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return def
}

// GetBool returns the boolean value of the environment variable `key`.
// Recognised true values are: 1, t, true, y, yes (case-insensitive).
// Recognised false values are: 0, f, false, n, no.
func GetBool(key string, def bool) bool {
	if val := Get(key, ""); val != "" {
		switch strings.ToLower(val) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

// LoadEnv overrides the configuration with DITHERIT_<SECTION>_<KEY>
// environment variables.
func LoadEnv() {
	e := func(k string) string { return EnvPrefix + k }

	Config.Main.LogLevel = Get(e("MAIN_LOG_LEVEL"), Config.Main.LogLevel)
	Config.Main.DevMode = GetBool(e("MAIN_DEV_MODE"), Config.Main.DevMode)

	Config.Server.Host = Get(e("SERVER_HOST"), Config.Server.Host)
	Config.Server.Port = GetInt(e("SERVER_PORT"), Config.Server.Port)
	Config.Server.MaxUploadSize = GetInt64(e("SERVER_MAX_UPLOAD_SIZE"), Config.Server.MaxUploadSize)

	Config.Dither.Algorithm = Get(e("DITHER_ALGORITHM"), Config.Dither.Algorithm)
	Config.Dither.Threshold = GetInt(e("DITHER_THRESHOLD"), Config.Dither.Threshold)
	Config.Dither.Parallel = GetBool(e("DITHER_PARALLEL"), Config.Dither.Parallel)
	Config.Dither.Seed = GetInt64(e("DITHER_SEED"), Config.Dither.Seed)
	Config.Dither.Matrix = Get(e("DITHER_MATRIX"), Config.Dither.Matrix)

	Config.Images.Processor = Get(e("IMAGES_PROCESSOR"), Config.Images.Processor)
	Config.Images.Format = Get(e("IMAGES_FORMAT"), Config.Images.Format)
	Config.Images.Quality = GetInt(e("IMAGES_QUALITY"), Config.Images.Quality)
	Config.Images.MaxWidth = GetInt(e("IMAGES_MAX_WIDTH"), Config.Images.MaxWidth)
	Config.Images.MaxHeight = GetInt(e("IMAGES_MAX_HEIGHT"), Config.Images.MaxHeight)
	Config.Images.MaxPixels = GetInt(e("IMAGES_MAX_PIXELS"), Config.Images.MaxPixels)
	Config.Images.Grayscale = GetBool(e("IMAGES_GRAYSCALE"), Config.Images.Grayscale)
	Config.Images.Gamma = GetFloat(e("IMAGES_GAMMA"), Config.Images.Gamma)
	Config.Images.Contrast = GetFloat(e("IMAGES_CONTRAST"), Config.Images.Contrast)
	Config.Images.Brightness = GetFloat(e("IMAGES_BRIGHTNESS"), Config.Images.Brightness)

	Config.Worker.NumWorkers = GetInt(e("WORKER_WORKERS"), Config.Worker.NumWorkers)
}
