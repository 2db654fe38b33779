package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"capacity/internal/config"
	"capacity/internal/domain"
	"capacity/internal/state"
)

// Controller is the part of state.Session the UI drives.
type Controller interface {
	Scan(root string, mode domain.HistoryMode)
	Cancel()
	GoBack()
	Refresh()
	Snapshot() state.Snapshot
	Changed() <-chan struct{}
	Done() <-chan struct{}
}

type ConfigProvider interface {
	ConfigSnapshot() config.Config
}

type Model struct {
	session   Controller
	cfg       config.Config
	snapshot  state.Snapshot
	keys      KeyMap
	table     table.Model
	spinner   spinner.Model
	usageBar  progress.Model
	input     textinput.Model
	prompting bool
	showHelp  bool
	showHint  bool
	warning   string
	width     int
	height    int
}

func NewModel(session Controller, cfg config.Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	input := textinput.New()
	input.Placeholder = "/path/to/folder"
	input.Prompt = "Scan folder: "
	input.CharLimit = 4096

	model := Model{
		session:  session,
		cfg:      cfg,
		snapshot: session.Snapshot(),
		keys:     DefaultKeyMap(),
		table:    newTable(),
		spinner:  sp,
		usageBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:    input,
		showHint: cfg.ShowAccessHint,
		width:    100,
		height:   30,
	}
	model.layout()
	model.setRows()
	return model
}

func (model Model) WithStatus(message string) Model {
	model.warning = message
	return model
}

func (model Model) ConfigSnapshot() config.Config {
	cfg := model.cfg
	cfg.ShowAccessHint = model.showHint
	if model.snapshot.Root != "" {
		cfg.Path = model.snapshot.Root
	}
	return cfg
}

func (model Model) Init() tea.Cmd {
	if model.snapshot.Scanning() {
		return tea.Batch(waitForChange(model.session), model.spinner.Tick)
	}
	return waitForChange(model.session)
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.layout()
		return model, nil
	case sessionChangedMsg:
		tick := model.applySnapshot(typed.snapshot)
		return model, tea.Batch(waitForChange(model.session), tick)
	case sessionStoppedMsg:
		return model, nil
	case spinner.TickMsg:
		// The tick chain ends with the scan; applySnapshot restarts it.
		if !model.snapshot.Scanning() {
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(typed)
		return model, cmd
	case tea.KeyMsg:
		return model.handleKey(typed)
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.prompting {
		return model.handlePrompt(msg)
	}
	if model.showHint {
		if key.Matches(msg, model.keys.Quit) {
			return model, tea.Quit
		}
		model.showHint = false
		return model, nil
	}

	scanning := model.snapshot.Scanning()
	switch {
	case key.Matches(msg, model.keys.Quit):
		model.session.Cancel()
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.Stop):
		if scanning {
			model.session.Cancel()
		} else if model.showHelp {
			model.showHelp = false
		}
		return model, nil
	case scanning:
		// Navigation stays available, everything that starts a scan waits.
		if key.Matches(msg, model.keys.Up, model.keys.Down) {
			return model.updateTable(msg)
		}
		return model, nil
	case key.Matches(msg, model.keys.Enter):
		if entry, ok := model.selectedEntry(); ok && entry.IsDirectory {
			model.session.Scan(entry.Path, domain.HistoryAppend)
		}
		return model, nil
	case key.Matches(msg, model.keys.Back):
		model.session.GoBack()
		return model, nil
	case key.Matches(msg, model.keys.Refresh):
		model.session.Refresh()
		return model, nil
	case key.Matches(msg, model.keys.Disk):
		model.session.Scan(diskRoot(model.snapshot.Root), domain.HistoryReset)
		return model, nil
	case key.Matches(msg, model.keys.Home):
		home, err := os.UserHomeDir()
		if err != nil {
			model.warning = "Home folder unavailable: " + err.Error()
			return model, nil
		}
		model.session.Scan(home, domain.HistoryReset)
		return model, nil
	case key.Matches(msg, model.keys.Open):
		model.prompting = true
		model.input.SetValue(firstNonEmpty(model.snapshot.Root, model.cfg.Path))
		model.input.CursorEnd()
		return model, model.input.Focus()
	default:
		return model.updateTable(msg)
	}
}

func (model Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Cancel):
		model.prompting = false
		model.input.Blur()
		return model, nil
	case key.Matches(msg, model.keys.Confirm):
		model.prompting = false
		model.input.Blur()
		root, err := resolveFolder(model.input.Value())
		if err != nil {
			model.warning = err.Error()
			return model, nil
		}
		model.warning = ""
		model.session.Scan(root, domain.HistoryReset)
		return model, nil
	}
	var cmd tea.Cmd
	model.input, cmd = model.input.Update(msg)
	return model, cmd
}

func (model Model) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	model.table, cmd = model.table.Update(msg)
	return model, cmd
}

// applySnapshot returns a spinner tick when a scan has just started.
func (model *Model) applySnapshot(snapshot state.Snapshot) tea.Cmd {
	generationChanged := snapshot.Generation != model.snapshot.Generation
	wasScanning := model.snapshot.Scanning()
	model.snapshot = snapshot
	model.setRows()
	if generationChanged {
		model.table.GotoTop()
	}
	if snapshot.Scanning() && !wasScanning {
		return model.spinner.Tick
	}
	return nil
}

func (model *Model) setRows() {
	rows := make([]table.Row, 0, len(model.snapshot.Entries))
	for _, entry := range model.snapshot.Entries {
		marker := ""
		if entry.IsDirectory {
			marker = "›"
		}
		rows = append(rows, table.Row{entry.Name(), formatSize(entry.SizeBytes), marker})
	}
	model.table.SetRows(rows)
}

func (model Model) selectedEntry() (domain.ChildEntry, bool) {
	cursor := model.table.Cursor()
	if cursor < 0 || cursor >= len(model.snapshot.Entries) {
		return domain.ChildEntry{}, false
	}
	return model.snapshot.Entries[cursor], true
}

func (model *Model) layout() {
	nameWidth := maxInt(model.width-sizeColumnWidth-markerColumnWidth-8, 16)
	model.table.SetColumns(columns(nameWidth))
	model.table.SetHeight(maxInt(model.height-chromeHeight, 3))
	model.usageBar.Width = maxInt(minInt(model.width-4, 60), 10)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func waitForChange(session Controller) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-session.Changed():
			return sessionChangedMsg{snapshot: session.Snapshot()}
		case <-session.Done():
			return sessionStoppedMsg{}
		}
	}
}

// diskRoot is the root of the volume holding current, or of the working
// directory's volume before the first scan.
func diskRoot(current string) string {
	if current == "" {
		if wd, err := os.Getwd(); err == nil {
			current = wd
		}
	}
	return filepath.VolumeName(current) + string(filepath.Separator)
}

func resolveFolder(input string) (string, error) {
	path := strings.TrimSpace(input)
	if path == "" {
		return "", errEmptyPath
	}
	if path == "~" || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", notFolderError{Path: abs}
	}
	return abs, nil
}
