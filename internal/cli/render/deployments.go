package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// Color styles for table format
var (
	chainBg         = color.BgCyan
	chainHeader     = color.New(chainBg, color.FgBlack)
	chainHeaderBold = color.New(chainBg, color.FgBlack, color.Bold)
	contractStyle   = color.New(color.FgGreen, color.Bold)
	addressStyle    = color.New(color.FgWhite)
	methodStyle     = color.New(color.FgCyan)
	timestampStyle  = color.New(color.Faint)
	missingStyle    = color.New(color.FgRed)
	deployedStyle   = color.New(color.FgGreen)
)

type TableData [][]string

// DeploymentsRenderer renders deployment lists as formatted tables with tree-style layout
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments grouped by network
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	total := lo.SumBy(result.Networks, func(n usecase.NetworkDeployments) int {
		return len(n.Deployments)
	})
	if total == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	networks := lo.Filter(result.Networks, func(n usecase.NetworkDeployments, _ int) bool {
		return len(n.Deployments) > 0
	})

	tables := lo.Map(networks, func(n usecase.NetworkDeployments, _ int) TableData {
		return r.buildDeploymentTable(n)
	})
	widths := calculateTableColumnWidths(tables)

	for i, n := range networks {
		isLast := i == len(networks)-1
		treePrefix := "├─"
		continuationPrefix := "│ "
		if isLast {
			treePrefix = "└─"
			continuationPrefix = "  "
		}

		label := fmt.Sprintf("%-10s", n.Network)
		chain := fmt.Sprintf("%-20s", fmt.Sprintf("chain %d", n.ChainID))
		fmt.Fprintf(r.out, "%s%s%s\n", treePrefix, chainHeader.Sprintf(" ⛓ %s ", label), chainHeaderBold.Sprint(chain))
		fmt.Fprintln(r.out, continuationPrefix)
		fmt.Fprint(r.out, renderTableWithWidths(tables[i], widths, continuationPrefix))
		fmt.Fprintln(r.out)

		if !isLast {
			fmt.Fprintln(r.out, continuationPrefix)
		} else {
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", total)
	return nil
}

// buildDeploymentTable creates a TableData for the deployments of one network
func (r *DeploymentsRenderer) buildDeploymentTable(n usecase.NetworkDeployments) TableData {
	deployments := append([]*models.Deployment(nil), n.Deployments...)
	sort.Slice(deployments, func(i, j int) bool {
		return deployments[i].ContractName < deployments[j].ContractName
	})

	tableData := make(TableData, 0, len(deployments))
	for _, d := range deployments {
		status := ""
		if n.Missing != nil {
			if n.Missing[d.ContractName] {
				status = missingStyle.Sprint("✗ no code")
			} else {
				status = deployedStyle.Sprint("✓")
			}
		}

		tableData = append(tableData, []string{
			contractStyle.Sprint(d.ContractName),
			addressStyle.Sprint(d.Address),
			methodStyle.Sprint(string(d.Method)),
			status,
			timestampStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05")),
		})
	}
	return tableData
}

// renderTableWithWidths renders a table with specific column widths
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += 2 + len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = continuationPrefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// calculateTableColumnWidths calculates column widths for multiple tables
func calculateTableColumnWidths(tables []TableData) []int {
	maxCols := 0
	for _, t := range tables {
		for _, row := range t {
			maxCols = max(maxCols, len(row))
		}
	}

	widths := make([]int, maxCols)
	for _, t := range tables {
		for _, row := range t {
			for colIdx, cell := range row {
				widths[colIdx] = max(widths[colIdx], text.RuneWidthWithoutEscSequences(cell))
			}
		}
	}

	return widths
}
