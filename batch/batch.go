// Package batch 对一批图片逐个处理并原地写回，单个文件失败不影响其他文件
package batch

import (
	"context"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/chaos-io/logokit/util"
)

// ProcessFunc 处理一张图片，返回新图
type ProcessFunc func(ctx context.Context, img image.Image) (image.Image, error)

// Job 一个待处理文件，Dst 为空时原地覆盖 Src
type Job struct {
	Src string
	Dst string
}

func (j Job) Output() string {
	if j.Dst != "" {
		return j.Dst
	}
	return j.Src
}

type Result struct {
	Job Job
	Err error
}

type Runner struct {
	Logger   hclog.Logger
	Jobs     int
	Compress bool
}

func NewRunner(logger hclog.Logger, jobs int, compress bool) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{
		Logger:   logger.Named("batch"),
		Jobs:     max(1, jobs),
		Compress: compress,
	}
}

// Run 按输入顺序返回每个文件的结果
// 多个文件可以并行处理，单张图片的处理始终在一个 goroutine 内完成
func (r *Runner) Run(ctx context.Context, jobs []Job, fn ProcessFunc) []Result {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = Result{Job: job, Err: r.runOne(ctx, job, fn)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, job Job, fn ProcessFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := r.Logger.With("src", job.Src)
	defer util.Trace(logger, "process")()

	var (
		img image.Image
		err error
	)
	if util.IsURL(job.Src) {
		if job.Dst == "" {
			return fmt.Errorf("remote image %s needs an output path", job.Src)
		}
		img, err = util.DownloadImage(ctx, job.Src)
	} else {
		img, err = util.OpenImage(job.Src)
	}
	if err != nil {
		logger.Warn("load failed", "error", err)
		return err
	}

	out, err := fn(ctx, img)
	if err != nil {
		logger.Warn("process failed", "error", err)
		return fmt.Errorf("process: %w", err)
	}

	if err := util.SavePNG(job.Output(), out, r.Compress); err != nil {
		logger.Warn("save failed", "error", err)
		return err
	}

	logger.Debug("saved", "dst", job.Output())
	return nil
}
