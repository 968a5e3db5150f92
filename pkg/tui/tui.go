// Package tui provides a terminal user interface for midi2tone
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/james-see/midi2tone/pkg/converter"
	"github.com/james-see/midi2tone/pkg/converter/targets"
)

// Piezo-inspired color scheme
var (
	toneAmber  = lipgloss.Color("#FFB000")
	toneGreen  = lipgloss.Color("#7CFC00")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(toneAmber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(toneAmber).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(toneGreen).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(toneGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(toneAmber).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// previewLength is how many notes the result screen shows
const previewLength = 8

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	TargetID    string
}

func buildMenu() []MenuItem {
	items := make([]MenuItem, 0, 3)
	for _, t := range targets.All() {
		items = append(items, MenuItem{
			Title:       fmt.Sprintf("MIDI → %s", strings.ToUpper(t.ID())),
			Description: fmt.Sprintf("Convert a MIDI track to %s (%s)", t.Name(), t.Extension()),
			TargetID:    t.ID(),
		})
	}
	return append(items, MenuItem{Title: "Exit", Description: "Exit the application"})
}

// Model represents the TUI model
type Model struct {
	state        State
	menu         []MenuItem
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	conversion   MenuItem
	result       conversionDoneMsg
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	size       int64
	res        *converter.Result
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	// Initialize file picker
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(toneAmber)

	return Model{
		state:      StateMenu,
		menu:       buildMenu(),
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.result = msg
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(m.menu)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(m.menu)-1 {
			return m, tea.Quit
		}
		m.conversion = m.menu[m.menuIndex]
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.result = conversionDoneMsg{}
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	input := m.selectedFile
	targetID := m.conversion.TargetID
	return func() tea.Msg {
		return convertFile(input, targetID)
	}
}

// convertFile converts input with default settings and writes the
// rendered output next to it
func convertFile(input, targetID string) conversionDoneMsg {
	target, err := targets.Lookup(targetID)
	if err != nil {
		return conversionDoneMsg{err: err}
	}

	conv := converter.New(target)
	res, err := conv.ConvertFile(input, converter.DefaultRequest())
	if err != nil {
		return conversionDoneMsg{err: err}
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	outputFile := base + target.Extension()
	if err := conv.WriteFile(res, outputFile); err != nil {
		return conversionDoneMsg{err: err}
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return conversionDoneMsg{err: err}
	}

	return conversionDoneMsg{outputFile: outputFile, size: info.Size(), res: res}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT OUTPUT "))
	s.WriteString("\n\n")

	for i, item := range m.menu {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(toneGreen).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  midi → %s", m.conversion.TargetID)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.result.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Failed to process MIDI file: %s", m.result.err.Error())))
	} else {
		res := m.result.res
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s (%s)\n", filepath.Base(m.result.outputFile), humanize.Bytes(uint64(m.result.size))))
		if res != nil {
			s.WriteString(fmt.Sprintf("Notes:  %d\n", res.Count()))
			s.WriteString(statusStyle.Render(preview(res)))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

// preview lists the first few notes as frequency/duration pairs
func preview(res *converter.Result) string {
	n := min(previewLength, res.Count())
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		freq := res.Melody.Frequencies[i]
		if freq == 0 {
			parts = append(parts, fmt.Sprintf("rest/%dms", res.Melody.Durations[i]))
			continue
		}
		parts = append(parts, fmt.Sprintf("%dHz/%dms", freq, res.Melody.Durations[i]))
	}
	if res.Count() > n {
		parts = append(parts, "…")
	}
	return strings.Join(parts, " ")
}

func asciiLogo() string {
	logo := `
            _     _ _ ____  _                   
  _ __ ___ (_) __| (_)___ \| |_ ___  _ __   ___ 
 | '_ ` + "`" + ` _ \| |/ _` + "`" + ` | | __) | __/ _ \| '_ \ / _ \
 | | | | | | | (_| | |/ __/| || (_) | | | |  __/
 |_| |_| |_|_|\__,_|_|_____|\__\___/|_| |_|\___|
`
	return lipgloss.NewStyle().Foreground(toneAmber).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
