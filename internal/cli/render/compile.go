package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// CompileRenderer renders compilation and compiler resolution results
type CompileRenderer struct {
	out io.Writer
}

// NewCompileRenderer creates a new compile renderer
func NewCompileRenderer(out io.Writer) *CompileRenderer {
	return &CompileRenderer{out: out}
}

// RenderCompile prints a line per compile job and any compiler warnings
func (r *CompileRenderer) RenderCompile(result *usecase.CompileContractsResult) error {
	for _, job := range result.Jobs {
		settings := fmt.Sprintf("optimizer runs %d", job.Settings.Optimizer.Runs)
		if !job.Settings.Optimizer.Enabled {
			settings = "optimizer off"
		}
		if job.Settings.ViaIR {
			settings += ", viaIR"
		}

		fmt.Fprintf(r.out, "%s solc %s (%s): %d sources, %d contracts\n",
			color.New(color.FgGreen).Sprint("✓"), job.Build.LongVersion, settings, len(job.Roots), len(job.Contracts))
		for _, w := range job.Warnings {
			fmt.Fprintln(r.out, FormatWarning(strings.TrimSpace(w)))
		}
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Wrote %d artifacts", result.Artifacts)))
	return nil
}

// RenderCompilers prints the resolved compiler builds
func (r *CompileRenderer) RenderCompilers(builds []*config.CompilerBuild) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"Version", "Long Version", "Kind", "Path"})

	for _, b := range builds {
		kind := "native"
		if b.IsSolcJs {
			kind = "solcjs"
		}
		t.AppendRow(table.Row{b.Version, b.LongVersion, kind, getRelativePath(b.CompilerPath)})
	}

	t.Render()
	return nil
}
