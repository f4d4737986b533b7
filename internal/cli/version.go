package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Overridden via -ldflags at release time; "dev" marks a local build.
var (
	version = "dev"
	commit  = ""
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(version)
			return
		}
		fmt.Printf("cmv %s\n", VersionString())
		fmt.Printf("  go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the bare version number")
}

// VersionString is the version as reported to the dashboard health check.
func VersionString() string {
	if commit == "" {
		return version
	}
	return fmt.Sprintf("%s+%s", version, shortID(commit))
}
