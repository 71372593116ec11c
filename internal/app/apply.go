package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ditherit/ditherit/configs"
	"github.com/ditherit/ditherit/internal/dithering"
	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"
)

type applyFlags struct {
	algorithm string
	threshold int
	matrix    string
	seed      int64
	output    string
	format    string
	parallel  bool
	grayscale bool
	workers   int
}

var applyOpts applyFlags

func init() {
	rootCmd.AddCommand(applyCmd)

	f := applyCmd.Flags()
	f.StringVarP(&applyOpts.algorithm, "algorithm", "a", "", "dithering algorithm (see \"algorithms\")")
	f.IntVarP(&applyOpts.threshold, "threshold", "t", dither.DefaultThreshold, "quantization threshold [0, 255]")
	f.StringVarP(&applyOpts.matrix, "matrix", "m", "", "threshold map of the ordered algorithm")
	f.Int64Var(&applyOpts.seed, "seed", 1, "seed of the random algorithm")
	f.StringVarP(&applyOpts.output, "output", "o", "", "output directory, or output file for a single input")
	f.StringVarP(&applyOpts.format, "format", "f", "", "output format (png, gif, jpeg)")
	f.BoolVar(&applyOpts.parallel, "parallel", false, "diffuse color channels concurrently")
	f.BoolVar(&applyOpts.grayscale, "grayscale", false, "convert to grayscale before dithering")
	f.IntVarP(&applyOpts.workers, "workers", "w", 0, "number of concurrent images")

	_ = applyCmd.RegisterFlagCompletionFunc("format", formatCompletion)
	_ = applyCmd.RegisterFlagCompletionFunc("algorithm", algorithmCompletion)
	_ = applyCmd.RegisterFlagCompletionFunc("matrix", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dither.ThresholdMaps(), cobra.ShellCompDirectiveNoFileComp
	})
}

var applyCmd = &cobra.Command{
	Use:   "apply [flags] INPUT...",
	Short: "Dither image files or URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runApply,
}

// mergeApplyFlags copies the flags set on the command line over the
// configuration.
func mergeApplyFlags(cmd *cobra.Command) {
	c := &configs.Config
	changed := cmd.Flags().Changed

	if changed("algorithm") {
		c.Dither.Algorithm = applyOpts.algorithm
	}
	if changed("threshold") {
		c.Dither.Threshold = applyOpts.threshold
	}
	if changed("matrix") {
		c.Dither.Matrix = applyOpts.matrix
	}
	if changed("seed") {
		c.Dither.Seed = applyOpts.seed
	}
	if changed("parallel") {
		c.Dither.Parallel = applyOpts.parallel
	}
	if changed("format") {
		c.Images.Format = applyOpts.format
	}
	if changed("grayscale") {
		c.Images.Grayscale = applyOpts.grayscale
	}
	if changed("workers") {
		c.Worker.NumWorkers = applyOpts.workers
	}
}

// applyJobs returns the jobs and the output directory for the given
// inputs. A single input with an output file name gets this exact name.
func applyJobs(inputs []string, output string) ([]dithering.Job, string) {
	jobs := make([]dithering.Job, len(inputs))
	for i, x := range inputs {
		jobs[i].Input = x
	}

	if output == "" {
		return jobs, ""
	}
	if len(inputs) == 1 && filepath.Ext(output) != "" {
		if st, err := os.Stat(output); err != nil || !st.IsDir() {
			jobs[0].Output = output
			return jobs, ""
		}
	}
	return jobs, output
}

func runApply(cmd *cobra.Command, args []string) error {
	mergeApplyFlags(cmd)

	switch configs.Config.Images.Format {
	case "", "png", "gif", "jpeg":
	default:
		return fmt.Errorf("unsupported output format %q", configs.Config.Images.Format)
	}

	p, err := configs.Pipeline()
	if err != nil {
		return err
	}
	if _, err = dither.New(p.Dither); err != nil {
		return err
	}

	jobs, outDir := applyJobs(args, applyOpts.output)
	runner := &dithering.Runner{
		Pipeline:  p,
		Processor: configs.Config.Images.Processor,
		Format:    configs.Config.Images.Format,
		MaxPixels: configs.Config.Images.MaxPixels,
		OutDir:    outDir,
		Workers:   configs.Config.Worker.NumWorkers,
	}

	log.WithFields(log.Fields{
		"algorithm": p.Dither.Algorithm,
		"threshold": p.Dither.Threshold,
		"images":    len(jobs),
	}).Debug("dithering")

	failed := 0
	for _, res := range runner.Run(cmd.Context(), jobs) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.Input, res.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", res.Input, res.Output, res.Elapsed.Round(time.Millisecond))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be dithered", failed, len(jobs))
	}
	return nil
}

// formatCompletion lists the supported output formats.
func formatCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	res := []string{}
	for _, f := range []string{"png", "gif", "jpeg"} {
		res = append(res, f+"\t"+img.ContentType(f))
	}
	return res, cobra.ShellCompDirectiveNoFileComp
}

func algorithmCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	res := []string{}
	for _, a := range dither.Algorithms() {
		res = append(res, a.String()+"\t"+a.Label())
	}
	return res, cobra.ShellCompDirectiveNoFileComp
}
