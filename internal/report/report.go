// Package report renders folder rotation metrics for people and machines.
//
// The table format prints one bordered table per vault side (personal and
// shared folders), color-codes progress and warning columns, and closes
// with a one-line summary over exactly the folders shown. The json and
// yaml formats write the same selection as a single document of folder
// snapshots plus summary totals.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/schubergphilis/lastpassreportingcli/internal/metrics"
)

// The progress column renders green at 100%, yellow inside the band below,
// red under the band. Values between warnBandHigh and 100 stay red, the
// rounding in PercentageDone makes them rare.
const (
	warnBandLow  float64 = 70
	warnBandHigh float64 = 99
)

const (
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiReset  = "\033[0m"
)

// Options select scope, ordering and output shape of a report.
type Options struct {
	// Scope limits the report to one side of the vault.
	Scope Scope

	// SortKey orders table rows. Ties keep the aggregator's path order.
	SortKey SortKey

	// Reverse flips the sort direction.
	Reverse bool

	// ShowWarnings appends one detail line per flagged secret after the
	// tables, or embeds the warnings in machine-readable output.
	ShowWarnings bool

	// Format picks table, json or yaml output.
	Format Format

	// Color enables ANSI colors in table output.
	Color bool
}

// Renderer writes rotation reports to one destination.
type Renderer struct {
	out  io.Writer
	opts Options
}

// NewRenderer returns a renderer writing to out.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	return &Renderer{out: out, opts: opts}
}

// Render writes the report for the given folder metrics in the configured
// format.
func (r *Renderer) Render(folders []*metrics.FolderMetrics) error {
	switch r.opts.Format {
	case FormatJSON:
		return r.renderJSON(folders)
	case FormatYAML:
		return r.renderYAML(folders)
	default:
		return r.renderTables(folders)
	}
}

// selectFolders picks and orders the folders that will actually be shown,
// one bucket per vault side, personal first.
func (r *Renderer) selectFolders(folders []*metrics.FolderMetrics) [][]*metrics.FolderMetrics {
	buckets := make([][]*metrics.FolderMetrics, 0, 2)
	for _, personal := range r.sides() {
		bucket := splitSide(folders, personal)
		r.sortRows(bucket)
		buckets = append(buckets, bucket)
	}
	return buckets
}

func (r *Renderer) renderTables(folders []*metrics.FolderMetrics) error {
	rendered := make([]*metrics.FolderMetrics, 0, len(folders))
	sides := r.sides()
	for i, bucket := range r.selectFolders(folders) {
		rendered = append(rendered, bucket...)
		if _, err := fmt.Fprintf(r.out, "\n%s\n%s\n\n", sideTitle(sides[i]), r.renderTable(bucket)); err != nil {
			return err
		}
	}

	if r.opts.ShowWarnings {
		warnings := collectWarnings(rendered)
		for _, w := range warnings {
			if _, err := fmt.Fprintln(r.out, w.String()); err != nil {
				return err
			}
		}
		if len(warnings) > 0 {
			if _, err := fmt.Fprintln(r.out); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(r.out, summaryLine(metrics.Summarize(rendered)))
	return err
}

// sides returns the vault sides to render, true meaning personal.
func (r *Renderer) sides() []bool {
	switch r.opts.Scope {
	case ScopePersonal:
		return []bool{true}
	case ScopeShared:
		return []bool{false}
	default:
		return []bool{true, false}
	}
}

func sideTitle(personal bool) string {
	side := "Shared"
	if personal {
		side = "Personal"
	}
	return "Lastpass secret rotation progress - " + side
}

func splitSide(folders []*metrics.FolderMetrics, personal bool) []*metrics.FolderMetrics {
	side := make([]*metrics.FolderMetrics, 0, len(folders))
	for _, m := range folders {
		if m.Personal() == personal {
			side = append(side, m)
		}
	}
	return side
}

// sortRows orders a bucket by the configured key. Reversal swaps the
// comparison instead of negating it so ties keep their original order.
func (r *Renderer) sortRows(rows []*metrics.FolderMetrics) {
	less := func(i, j int) bool {
		if r.opts.SortKey == SortByPercentage {
			return rows[i].PercentageDone() < rows[j].PercentageDone()
		}
		return rows[i].FullPath() < rows[j].FullPath()
	}
	if r.opts.Reverse {
		sort.SliceStable(rows, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(rows, less)
}

func (r *Renderer) renderTable(rows []*metrics.FolderMetrics) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(false).
		StyleFunc(func(int, int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Path", "Percentage Done", "(Updated/Total) Still left", "Warnings")
	for _, m := range rows {
		t.Row(r.pathCell(m), r.percentageCell(m), progressCell(m), r.warningCell(m))
	}
	return t.String()
}

// pathCell renders top-level folder paths in blue so they stand out from
// nested ones in detailed reports.
func (r *Renderer) pathCell(m *metrics.FolderMetrics) string {
	if m.Root() {
		return r.paint(ansiBlue, m.FullPath())
	}
	return m.FullPath()
}

func (r *Renderer) percentageCell(m *metrics.FolderMetrics) string {
	done := m.PercentageDone()
	color := ansiRed
	switch {
	case done == 100:
		color = ansiGreen
	case done >= warnBandLow && done <= warnBandHigh:
		color = ansiYellow
	}
	return r.paint(color, metrics.FormatPercentage(done))
}

func progressCell(m *metrics.FolderMetrics) string {
	return fmt.Sprintf("(%d/%d) %d left", m.UpdatedCount(), m.SecretCount(), m.RemainingCount())
}

func (r *Renderer) warningCell(m *metrics.FolderMetrics) string {
	color := ansiGreen
	if m.WarningCount() > 0 {
		color = ansiYellow
	}
	return r.paint(color, strconv.Itoa(m.WarningCount()))
}

func (r *Renderer) paint(color, s string) string {
	if !r.opts.Color {
		return s
	}
	return color + s + ansiReset
}

func summaryLine(t metrics.Totals) string {
	return fmt.Sprintf("There are %d artifacts in %d folders. "+
		"%d (%.2f%%) artifacts have been updated and %d (%.2f%%) still need attention",
		t.Secrets, t.Folders, t.UpdatedSecrets, t.PercentageDone, t.SecretsToUpdate, t.PercentageLeft)
}

func collectWarnings(folders []*metrics.FolderMetrics) []metrics.WarningSecret {
	var warnings []metrics.WarningSecret
	for _, m := range folders {
		warnings = append(warnings, m.Warnings()...)
	}
	return warnings
}

// document is the machine-readable report shape shared by the json and
// yaml formats. Folders appear in rendered order, personal side first.
type document struct {
	Folders  []metrics.Snapshot        `json:"folders" yaml:"folders"`
	Summary  metrics.Totals            `json:"summary" yaml:"summary"`
	Warnings []metrics.WarningSnapshot `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (r *Renderer) document(folders []*metrics.FolderMetrics) document {
	rendered := make([]*metrics.FolderMetrics, 0, len(folders))
	for _, bucket := range r.selectFolders(folders) {
		rendered = append(rendered, bucket...)
	}

	doc := document{
		Folders: make([]metrics.Snapshot, 0, len(rendered)),
		Summary: metrics.Summarize(rendered),
	}
	for _, m := range rendered {
		doc.Folders = append(doc.Folders, m.Snapshot())
	}
	if r.opts.ShowWarnings {
		for _, w := range collectWarnings(rendered) {
			doc.Warnings = append(doc.Warnings, w.Snapshot())
		}
	}
	return doc
}

func (r *Renderer) renderJSON(folders []*metrics.FolderMetrics) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.document(folders)); err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	return nil
}

func (r *Renderer) renderYAML(folders []*metrics.FolderMetrics) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(r.document(folders)); err != nil {
		return fmt.Errorf("failed to encode report as YAML: %w", err)
	}
	return enc.Close()
}
