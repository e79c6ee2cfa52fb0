package render

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
)

// Color styles for table format
var (
	networkBg          = color.BgCyan
	networkHeader      = color.New(networkBg, color.FgBlack)
	networkHeaderBold  = color.New(networkBg, color.FgBlack, color.Bold)
	contractStyle      = color.New(color.FgGreen, color.Bold)
	addressStyle       = color.New(color.FgWhite)
	timestampStyle     = color.New(color.Faint)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
)

type TableData [][]string

// DeploymentsRenderer renders registry entries grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render renders deployments in the tree-style format
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(result.Deployments, func(d *domain.DeploymentRecord) string {
		return d.Network
	})
	networks := lo.Keys(groups)
	sort.Strings(networks)

	// Build all tables first so columns line up across networks
	tables := lo.Map(networks, func(network string, _ int) TableData {
		return r.buildDeploymentTable(groups[network])
	})
	widths := calculateTableColumnWidths(tables)

	for i, network := range networks {
		isLast := i == len(networks)-1
		treePrefix := "├─"
		continuationPrefix := "│ "
		if isLast {
			treePrefix = "└─"
			continuationPrefix = "  "
		}

		label := fmt.Sprintf("%-12s", "network:")
		value := fmt.Sprintf("%-30s", fmt.Sprintf("%s (%d)", network, groups[network][0].ChainID))
		fmt.Fprintf(r.out, "%s%s%s\n",
			treePrefix,
			networkHeader.Sprintf(" ⛓ %s ", label),
			networkHeaderBold.Sprint(value))
		fmt.Fprintln(r.out, continuationPrefix)

		fmt.Fprintf(r.out, "%s%s\n", continuationPrefix, sectionHeaderStyle.Sprint("CONTRACTS"))
		fmt.Fprint(r.out, renderTableWithWidths(tables[i], widths, continuationPrefix))
		fmt.Fprintln(r.out)

		if !isLast {
			fmt.Fprintln(r.out, continuationPrefix)
		} else {
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", result.Summary.Total)
	return nil
}

// buildDeploymentTable creates a TableData for one network's deployments
func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*domain.DeploymentRecord) TableData {
	tableData := make(TableData, 0, len(deployments))
	for _, d := range deployments {
		tableData = append(tableData, []string{
			contractStyle.Sprint(d.ContractName),
			addressStyle.Sprint(d.Address.Hex()),
			fmt.Sprintf("block %d", d.BlockNumber),
			timestampStyle.Sprint(time.Unix(d.Timestamp, 0).Format("2006-01-02 15:04:05")),
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

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
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
			for i, cell := range row {
				widths[i] = max(widths[i], len([]rune(stripAnsiCodes(cell))))
			}
		}
	}
	return widths
}
