package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaos-io/logokit/batch"
	"github.com/chaos-io/logokit/logo"
	"github.com/chaos-io/logokit/util"
)

const defaultPattern = "*logo*.png"

// imageOptions clean / strip / recolor 共用的参数
type imageOptions struct {
	*globalOptions

	mode      string
	threshold int
	recolor   bool
	pattern   string
	output    string

	// 环境变量中的阈值无法解析
	envErr error

	// 输出文案
	action string
	done   string
}

func newCleanCmd(g *globalOptions) *cobra.Command {
	o := &imageOptions{globalOptions: g, mode: logo.ModeEdge, action: "edge-clean transparent", done: "Cleaned backgrounds for"}
	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Make the edge-connected near-white background transparent",
		Long: `Flood fill from every border pixel through near-white pixels and make them
transparent. White areas enclosed by the logo are kept.

Paths may be PNG files, directories (searched with --pattern) or http(s)
URLs (requires --output). Without paths public/ and assets/ are searched.`,
		RunE: o.run,
	}
	o.addFlags(cmd, true)
	return cmd
}

func newStripCmd(g *globalOptions) *cobra.Command {
	o := &imageOptions{globalOptions: g, mode: logo.ModeGlobal, action: "transparent", done: "Stripped white from"}
	cmd := &cobra.Command{
		Use:   "strip [paths...]",
		Short: "Make every near-white pixel transparent",
		RunE:  o.run,
	}
	o.addFlags(cmd, true)
	return cmd
}

func newRecolorCmd(g *globalOptions) *cobra.Command {
	o := &imageOptions{globalOptions: g, mode: logo.ModeNone, recolor: true, action: "green", done: "Recolored to emerald green"}
	cmd := &cobra.Command{
		Use:   "recolor [paths...]",
		Short: "Recolor logos to an emerald green gradient",
		RunE:  o.run,
	}
	o.addFlags(cmd, false)
	return cmd
}

func (o *imageOptions) addFlags(cmd *cobra.Command, removal bool) {
	flags := cmd.Flags()
	flags.StringVarP(&o.pattern, "pattern", "p", defaultPattern, "glob used to find logos inside directories")
	flags.StringVarP(&o.output, "output", "o", "", "write to this file instead of overwriting the input (single input only)")
	if removal {
		threshold, err := defaultThreshold()
		o.envErr = err
		flags.IntVarP(&o.threshold, "threshold", "t", threshold, "RGB value from which a pixel counts as white (0-255)")
		flags.BoolVar(&o.recolor, "recolor", false, "also recolor the logo to emerald green")
	}
}

func (o *imageOptions) options() logo.Options {
	return logo.Options{
		Mode:      o.mode,
		Threshold: o.threshold,
		Recolor:   o.recolor,
		MaxSize:   o.maxSize,
		Trim:      o.trim,
	}
}

func (o *imageOptions) run(cmd *cobra.Command, args []string) error {
	// 显式传了 --threshold 时不再关心环境变量
	if o.envErr != nil && !cmd.Flags().Changed("threshold") {
		return fmt.Errorf("invalid configuration: %w", o.envErr)
	}

	p, err := logo.NewProcessor(o.options())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	jobs, searched, err := o.collectJobs(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(jobs) == 0 {
		_, _ = fmt.Fprintf(out, "No matching logo PNGs found (looking for %s in %s).\n", o.pattern, strings.Join(searched, ", "))
		return nil
	}

	logger := o.logger(cmd.ErrOrStderr())
	runner := batch.NewRunner(logger, o.jobs, o.compress)
	results := runner.Run(cmd.Context(), jobs, func(ctx context.Context, img image.Image) (image.Image, error) {
		processed, err := p.Process(ctx, img)
		if err != nil {
			return nil, err
		}
		return processed, nil
	})

	report(out, results, o.action, o.done)
	return nil
}

// collectJobs 展开参数，返回任务列表和被搜索的目录
func (o *imageOptions) collectJobs(args []string) ([]batch.Job, []string, error) {
	var (
		jobs     []batch.Job
		searched []string
	)

	addDirs := func(dirs ...string) error {
		searched = append(searched, dirs...)
		paths, err := util.FindImages(dirs, o.pattern)
		if err != nil {
			return err
		}
		for _, p := range paths {
			jobs = append(jobs, batch.Job{Src: p})
		}
		return nil
	}

	if len(args) == 0 {
		if err := addDirs(defaultDirs...); err != nil {
			return nil, nil, err
		}
	}

	for _, arg := range args {
		if util.IsURL(arg) {
			jobs = append(jobs, batch.Job{Src: arg})
			continue
		}
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			if err := addDirs(arg); err != nil {
				return nil, nil, err
			}
			continue
		}
		// 不存在的文件交给 batch 报告
		jobs = append(jobs, batch.Job{Src: arg})
	}

	if o.output != "" {
		if len(jobs) != 1 {
			return nil, nil, errors.New("--output requires exactly one input image")
		}
		jobs[0].Dst = o.output
	}
	return jobs, searched, nil
}

// report 逐个输出结果，失败不影响退出码
func report(w io.Writer, results []batch.Result, action, done string) {
	processed := 0
	for _, res := range results {
		if res.Err != nil {
			_, _ = fmt.Fprintf(w, "Error processing %s: %v\n", res.Job.Src, res.Err)
			continue
		}
		processed++
		_, _ = fmt.Fprintf(w, "✓ Saved %s logo to: %s\n", action, res.Job.Output())
	}

	if processed == 0 {
		_, _ = fmt.Fprintf(w, "\nNo logos were processed (%d failed).\n", len(results))
		return
	}
	_, _ = fmt.Fprintf(w, "\n✓ Done! %s %d file(s)", done, processed)
	if failed := len(results) - processed; failed > 0 {
		_, _ = fmt.Fprintf(w, ", %d failed", failed)
	}
	_, _ = fmt.Fprintln(w, ".")
}
