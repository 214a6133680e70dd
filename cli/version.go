package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version 构建时注入：-ldflags "-X github.com/chaos-io/logokit/cli.Version=x.y.z"
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logokit version %s (%s, %s/%s)\n",
				Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
