package util

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Trace 记录耗时，用法：defer util.Trace(logger, "name")()
func Trace(logger hclog.Logger, name string) func() {
	if logger == nil {
		logger = hclog.Default()
	}
	start := time.Now()
	logger.Trace("enter", "name", name)
	return func() {
		logger.Debug("exit", "name", name, "elapsed", time.Since(start))
	}
}
