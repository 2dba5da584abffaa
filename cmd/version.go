package cmd

import (
	"fmt"
	"runtime"
	rdebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/combox/pkg/settings"
)

// versionString builds a human-readable version line for the version
// command and --version.
func versionString() string {
	v := settings.VersionInformation
	version, commit := v.BuildVersion, v.Commit
	goVersion := runtime.Version()
	if info, ok := rdebug.ReadBuildInfo(); ok {
		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
		if commit == "unknown" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
					break
				}
			}
		}
	}
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		settings.CliBinaryName, version, commit, v.BuildTime, goVersion, runtime.GOOS, runtime.GOARCH)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print combox version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}
