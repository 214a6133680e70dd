// Package cli 提供 logokit 命令行
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/chaos-io/logokit/logo"
)

const (
	envThreshold = "LOGOKIT_THRESHOLD"
	envAddr      = "LOGOKIT_ADDR"
)

// 没有指定路径时扫描的目录
var defaultDirs = []string{"public", "assets"}

// globalOptions 所有子命令共用的参数
type globalOptions struct {
	verbose  bool
	quiet    bool
	jobs     int
	compress bool
	maxSize  int
	trim     bool
}

// Execute 由 main.main 调用
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "logokit",
		Short: "Clean up and recolor PNG logos",
		Long: `logokit rewrites PNG logos in place.

It removes the near-white background connected to the image edges while
keeping white details inside the logo, strips white globally, or recolors
the logo to an emerald green gradient.`,
		Version:      Version,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error log output")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "number of files processed in parallel")
	flags.BoolVar(&opts.compress, "compress", false, "encode PNG with the best compression level")
	flags.IntVar(&opts.maxSize, "max-size", 0, "downscale so the longest edge is at most this many pixels (0 = keep)")
	flags.BoolVar(&opts.trim, "trim", false, "crop to a centred square around the visible logo")

	rootCmd.AddCommand(
		newCleanCmd(opts),
		newStripCmd(opts),
		newRecolorCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// logger 按 verbose / quiet 创建日志，写到 stderr
func (o *globalOptions) logger(w io.Writer) hclog.Logger {
	level := hclog.Info
	switch {
	case o.quiet:
		level = hclog.Error
	case o.verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "logokit",
		Output: w,
		Level:  level,
	})
}

// defaultThreshold 环境变量可以覆盖默认阈值，无法解析时返回错误，不回退到默认值
func defaultThreshold() (int, error) {
	return envInt(envThreshold, logo.DefaultThreshold)
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s=%q is not an integer", key, v)
	}
	return n, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
