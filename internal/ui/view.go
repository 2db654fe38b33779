package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	sizeColumnWidth   = 10
	markerColumnWidth = 2
	// Lines taken by everything around the table.
	chromeHeight = 16
)

type uiStyles struct {
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
	statusStyle lipgloss.Style
	warnStyle   lipgloss.Style
	panelBorder lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.cfg.Theme) == "light" {
		return uiStyles{
			headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func newTable() table.Model {
	t := table.New(table.WithColumns(columns(40)), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func columns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Size", Width: sizeColumnWidth},
		{Title: "", Width: markerColumnWidth},
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHint {
		return renderAccessHint(model, styles)
	}
	if model.showHelp {
		return renderHelpView(model, styles)
	}
	sections := []string{
		renderHeader(styles),
		renderStatus(model, styles),
		renderList(model, styles),
		renderTotals(model, styles),
		renderFooter(model, styles),
	}
	return strings.Join(sections, "\n")
}

func renderHeader(styles uiStyles) string {
	return strings.Join([]string{
		styles.headerStyle.Render("Disk Usage Snapshot"),
		styles.mutedStyle.Render("See which top-level items eat the most space. Each child is scanned recursively."),
	}, "\n")
}

func renderStatus(model Model, styles uiStyles) string {
	snapshot := model.snapshot
	var line string
	if snapshot.Scanning() {
		line = fmt.Sprintf("%s %s", model.spinner.View(), snapshot.StatusText())
		if snapshot.Scanned > 0 {
			line += fmt.Sprintf(" %s items", humanize.Comma(snapshot.Scanned))
		}
		line = styles.statusStyle.Render(line)
		if current := currentLabel(snapshot.Root, snapshot.Current, model.width/2); current != "" {
			line += " " + styles.mutedStyle.Render(current)
		}
	} else {
		line = styles.mutedStyle.Render(snapshot.StatusText())
		if snapshot.Status.Terminal() && snapshot.Duration > 0 {
			line += styles.mutedStyle.Render(fmt.Sprintf(" (%s)", snapshot.Duration.Round(time.Millisecond)))
		}
	}
	if model.warning != "" {
		line += "  " + styles.warnStyle.Render(model.warning)
	}
	root := ""
	if snapshot.Root != "" {
		root = styles.mutedStyle.Render("Current root: " + breadcrumbs(snapshot.Root))
	}
	if model.prompting {
		root = model.input.View()
	}
	return line + "\n" + root
}

func renderList(model Model, styles uiStyles) string {
	width := maxInt(model.width-2, 20)
	if len(model.snapshot.Entries) == 0 {
		message := "Results will appear here."
		if model.snapshot.Scanning() {
			message = "Scanning folders…"
		}
		lines := []string{message}
		for i := 1; i < maxInt(model.height-chromeHeight, 3); i++ {
			lines = append(lines, "")
		}
		return styles.panelBorder.Width(width).Render(styles.mutedStyle.Render(strings.Join(lines, "\n")))
	}
	return styles.panelBorder.Width(width).Render(model.table.View())
}

func renderTotals(model Model, styles uiStyles) string {
	snapshot := model.snapshot
	if snapshot.Volume == nil {
		return ""
	}
	volume := *snapshot.Volume
	lines := []string{
		padLine("Total of listed items:", formatSize(snapshot.SelectionTotal()), model.width),
		styles.mutedStyle.Render("Disk usage for " + snapshot.Root),
		padLine(
			fmt.Sprintf("%s used / %s total", formatSize(volume.UsedBytes), formatSize(volume.TotalBytes)),
			fmt.Sprintf("%s used", percentString(volume.UsedFraction())),
			model.width,
		),
		model.usageBar.ViewAs(volume.UsedFraction()),
	}
	if unaccounted := snapshot.Unaccounted(); unaccounted > 0 {
		lines = append(lines, styles.mutedStyle.Render("Unaccounted (system/purgeable/snapshots): "+formatSize(unaccounted)))
	}
	return strings.Join(lines, "\n")
}

func renderFooter(model Model, styles uiStyles) string {
	keys := "d disk  h home  o choose  enter open  ← back  r refresh  ? help  q quit"
	switch {
	case model.prompting:
		keys = "type a folder path  enter scan  esc cancel"
	case model.snapshot.Scanning():
		keys = "esc stop  ↑/↓ move  q quit"
	case model.snapshot.CanGoBack():
		keys = fmt.Sprintf("%s  (%d back)", keys, len(model.snapshot.History))
	}
	return styles.mutedStyle.Render(keys)
}

func renderHelpView(model Model, styles uiStyles) string {
	bindings := []key.Binding{
		model.keys.Up,
		model.keys.Down,
		model.keys.Enter,
		model.keys.Back,
		model.keys.Disk,
		model.keys.Home,
		model.keys.Open,
		model.keys.Refresh,
		model.keys.Stop,
		model.keys.Help,
		model.keys.Quit,
	}

	lines := []string{styles.headerStyle.Render("Capacity Help"), ""}
	lines = append(lines, "Sizes are allocated bytes on disk. Symbolic links are skipped.")
	lines = append(lines, "Unaccounted space is volume usage not found under the listed items.", "")
	lines = append(lines, styles.headerStyle.Render("Keys"))
	for _, binding := range bindings {
		keysLabel := strings.Join(binding.Keys(), ", ")
		lines = append(lines, fmt.Sprintf("%-18s %s", keysLabel, binding.Help().Desc))
	}
	lines = append(lines, "", "Press ? to close help")
	return styles.panelBorder.Width(maxInt(model.width-2, 10)).Render(strings.Join(lines, "\n"))
}

func renderAccessHint(model Model, styles uiStyles) string {
	lines := []string{
		styles.headerStyle.Render("Allow full disk access"),
		"",
		"Folders this process cannot read are skipped, so their space",
		"shows up as unaccounted. For complete results run with an",
		"account that can read the whole volume.",
		"",
		styles.mutedStyle.Render("Press any key to continue"),
	}
	return styles.panelBorder.Width(minInt(maxInt(model.width-2, 10), 70)).Render(strings.Join(lines, "\n"))
}

func breadcrumbs(path string) string {
	path = filepath.Clean(path)
	if path == "." {
		return "."
	}
	parts := strings.Split(path, string(filepath.Separator))
	if parts[0] == "" {
		parts[0] = string(filepath.Separator)
	}
	if len(parts) == 2 && parts[1] == "" {
		return parts[0]
	}
	return strings.Join(parts, " › ")
}

// currentLabel shows path relative to root, keeping its tail when longer
// than width.
func currentLabel(root, path string, width int) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	runes := []rune(path)
	if width > 1 && len(runes) > width {
		path = "…" + string(runes[len(runes)-width+1:])
	}
	return path
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func formatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

func percentString(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
