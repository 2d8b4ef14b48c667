// Package deps reports cadenza's version, runtime, and module dependencies
// for the deps command and the --version flag.
package deps

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// version is overridden at link time for release builds.
var version = "0.1.0"

// Version returns the cadenza version string.
func Version() string {
	return version
}

// VersionLine returns the line printed by --version.
func VersionLine() string {
	return "cadenza " + version
}

// Report renders the dependency and debug information table.
func Report() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Version"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	tw.AppendRow(table.Row{"cadenza", version})
	tw.AppendRow(table.Row{"go", runtime.Version()})
	tw.AppendRow(table.Row{"platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)})

	if info, ok := debug.ReadBuildInfo(); ok {
		tw.AppendSeparator()
		for _, dep := range info.Deps {
			mod := dep
			if dep.Replace != nil {
				mod = dep.Replace
			}
			tw.AppendRow(table.Row{mod.Path, mod.Version})
		}
	}

	return tw.Render()
}
