package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ditherit/ditherit/configs"
)

// execute runs the root command with fresh flags and configuration.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	saved := configs.Config
	t.Cleanup(func() {
		configs.Config = saved
	})

	configPath = ""
	logLevel = ""
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T, name string, w, h int) {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) * 255 / (w + h))
			m.SetNRGBA(x, y, color.NRGBA{v, v, 255 - v, 255})
		}
	}

	fd, err := os.Create(name)
	require.NoError(t, err)
	defer fd.Close()
	require.NoError(t, png.Encode(fd, m))
}

func TestAlgorithmsCommand(t *testing.T) {
	out, _, err := execute(t, "algorithms")
	require.NoError(t, err)

	assert.Contains(t, out, "floyd-steinberg")
	assert.Contains(t, out, "Pseudo Lattice")
	assert.Contains(t, out, "clustered-dot-4x4")
	assert.Regexp(t, `(?m)^atkinson\s+Atkinson\s+diffusion$`, out)
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.toml")
	dst := filepath.Join(dir, "out.toml")
	require.NoError(t, os.WriteFile(src, []byte("[dither]\nalgorithm = \"burkes\"\n"), 0o600))

	t.Setenv("DITHERIT_DITHER_THRESHOLD", "99")
	out, _, err := execute(t, "config", "-c", src, "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, out, dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `algorithm = "burkes"`)
	assert.Contains(t, string(data), "threshold = 99")
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a, 20, 10)
	writePNG(t, b, 8, 8)

	t.Run("single output file", func(t *testing.T) {
		dst := filepath.Join(dir, "single.gif")
		out, _, err := execute(t, "apply", "-a", "Atkinson", "-f", "gif", "-o", dst, a)
		require.NoError(t, err)
		assert.Contains(t, out, dst)

		fd, err := os.Open(dst)
		require.NoError(t, err)
		defer fd.Close()
		_, format, err := image.DecodeConfig(fd)
		require.NoError(t, err)
		assert.Equal(t, "gif", format)
	})

	t.Run("output directory", func(t *testing.T) {
		outDir := filepath.Join(dir, "out")
		_, _, err := execute(t, "apply", "-a", "ordered", "-m", "bayer-8x8", "-w", "2", "-o", outDir, a, b)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(outDir, "a.dithered.png"))
		assert.FileExists(t, filepath.Join(outDir, "b.dithered.png"))
	})

	t.Run("next to input", func(t *testing.T) {
		_, _, err := execute(t, "apply", "--grayscale", "-t", "100", b)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "b.dithered.png"))
	})

	t.Run("partial failure", func(t *testing.T) {
		_, stderr, err := execute(t, "apply", "-o", t.TempDir(), a, filepath.Join(dir, "missing.png"))
		assert.EqualError(t, err, "1 of 2 images could not be dithered")
		assert.Contains(t, stderr, "missing.png")
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			args []string
			err  string
		}{
			{[]string{"apply", "-a", "nope", a}, `contract violation: unknown algorithm "nope"`},
			{[]string{"apply", "-t", "256", a}, "contract violation: threshold 256 out of range [0, 255]"},
			{[]string{"apply", "-f", "bmp", a}, `unsupported output format "bmp"`},
			{[]string{"apply"}, "requires at least 1 arg(s), only received 0"},
		}

		for _, test := range tests {
			t.Run(test.err, func(t *testing.T) {
				_, _, err := execute(t, test.args...)
				assert.EqualError(t, err, test.err)
			})
		}
	})
}

func TestApplyJobs(t *testing.T) {
	dir := t.TempDir()

	jobs, outDir := applyJobs([]string{"a.png"}, "")
	assert.Equal(t, "", outDir)
	assert.Equal(t, "", jobs[0].Output)

	jobs, outDir = applyJobs([]string{"a.png"}, "x.gif")
	assert.Equal(t, "", outDir)
	assert.Equal(t, "x.gif", jobs[0].Output)

	jobs, outDir = applyJobs([]string{"a.png"}, dir)
	assert.Equal(t, dir, outDir)
	assert.Equal(t, "", jobs[0].Output)

	jobs, outDir = applyJobs([]string{"a.png", "b.png"}, "x.gif")
	assert.Equal(t, "x.gif", outDir)
	assert.Len(t, jobs, 2)
}
