// Package tui hosts the notes view-model in a terminal with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/petervdpas/presentation/command"
	"github.com/petervdpas/presentation/internal/config"
	"github.com/petervdpas/presentation/internal/notes"
	"github.com/petervdpas/presentation/viewmodel"
)

const helpText = "ctrl+o open · ctrl+s save · ctrl+e save as · ctrl+r reload · ctrl+f folder · ctrl+t about · ctrl+q quit"

type promptKind int

const (
	promptNone promptKind = iota
	promptOpen
	promptSaveAs
	promptFolder
)

func (k promptKind) label() string {
	switch k {
	case promptOpen:
		return "Open file"
	case promptSaveAs:
		return "Save as"
	case promptFolder:
		return "Folder"
	}
	return ""
}

// dispatchMsg carries work onto the Bubble Tea goroutine.
type dispatchMsg func()

type errMsg struct{ err error }

type styles struct {
	title  lipgloss.Style
	dirty  lipgloss.Style
	body   lipgloss.Style
	status lipgloss.Style
	prompt lipgloss.Style
	help   lipgloss.Style
}

func newStyles(theme string) styles {
	accent, muted := lipgloss.Color("#7aa2ff"), lipgloss.Color("#9aa3b2")
	if theme == "light" {
		accent, muted = lipgloss.Color("#2a4fd6"), lipgloss.Color("#59606e")
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		dirty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		body:   lipgloss.NewStyle().PaddingLeft(1),
		status: lipgloss.NewStyle().Foreground(muted),
		prompt: lipgloss.NewStyle().Foreground(accent),
		help:   lipgloss.NewStyle().Faint(true),
	}
}

type model struct {
	vm   *notes.ViewModel
	prov *Provider
	st   styles

	prompt promptKind
	input  string
	status string

	width, height int
}

func newModel(vm *notes.ViewModel, prov *Provider, theme string) *model {
	return &model{vm: vm, prov: prov, st: newStyles(theme), status: helpText}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case dispatchMsg:
		msg()
	case errMsg:
		m.status = "error: " + msg.err.Error()
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m, m.updatePrompt(msg)
		}
		return m, m.updateEdit(msg)
	}
	return m, nil
}

func (m *model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return tea.Quit
	case "ctrl+o":
		m.startPrompt(promptOpen, m.vm.Folder())
	case "ctrl+e":
		m.startPrompt(promptSaveAs, m.vm.Path())
	case "ctrl+f":
		m.startPrompt(promptFolder, m.vm.Folder())
	case "ctrl+s":
		m.run(m.vm.SaveCommand, nil, "nothing to save")
	case "ctrl+r":
		m.run(m.vm.ReloadCommand, nil, "no file to reload")
	case "ctrl+t":
		m.run(m.vm.AboutCommand, nil, "")
	case "f1":
		m.run(m.vm.HelpCommand, nil, "")
	case "enter":
		m.run(m.vm.InsertCommand, "\n", "")
	case "backspace":
		if r := []rune(m.vm.Text()); len(r) > 0 {
			m.vm.SetText(string(r[:len(r)-1]))
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.run(m.vm.InsertCommand, string(msg.Runes), "")
		}
	}
	return nil
}

func (m *model) startPrompt(kind promptKind, initial string) {
	m.prompt, m.input = kind, initial
}

func (m *model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.prompt, m.input = promptNone, ""
	case "enter":
		kind, input := m.prompt, strings.TrimSpace(m.input)
		m.prompt, m.input = promptNone, ""
		m.prov.Answer(input)
		switch kind {
		case promptOpen:
			m.run(m.vm.OpenCommand, nil, "")
		case promptSaveAs:
			m.run(m.vm.SaveAsCommand, nil, "")
		case promptFolder:
			m.run(m.vm.ChooseFolderCommand, nil, "")
		}
		m.prov.Answer("")
	case "backspace":
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.input += string(msg.Runes)
		}
	}
	return nil
}

// run executes cmd when it is enabled, otherwise shows disabled.
func (m *model) run(cmd command.Command, param any, disabled string) {
	if !cmd.CanExecute(param) {
		if disabled != "" {
			m.status = disabled
		}
		return
	}
	if err := cmd.Execute(param); err != nil {
		m.status = "error: " + err.Error()
	}
}

func (m *model) View() string {
	var b strings.Builder

	title := m.st.title.Render(m.vm.Title())
	if m.vm.ChangedOnDisk() {
		title += " " + m.st.dirty.Render("(changed on disk, ctrl+r to reload)")
	}
	if f := m.vm.Folder(); f != "" {
		title += "  " + m.st.status.Render(f)
	}
	b.WriteString(title + "\n\n")

	lines := strings.Split(m.vm.Text(), "\n")
	if room := m.height - 6; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	b.WriteString(m.st.body.Render(strings.Join(lines, "\n")+"▏") + "\n\n")

	if m.prompt != promptNone {
		b.WriteString(m.st.prompt.Render(fmt.Sprintf("%s: %s▏", m.prompt.label(), m.input)) + "\n")
	} else {
		b.WriteString(m.st.status.Render(m.status) + "\n")
	}
	b.WriteString(m.st.help.Render("f1 help · esc cancel prompt"))
	return b.String()
}

// newViewModel builds the notes view-model with every dialog routed to
// prov and every callback delivered to the program as a message.
func newViewModel(cfg config.Config, prov *Provider, send func(tea.Msg)) *notes.ViewModel {
	vm := notes.New(notes.Options{
		FileFilter: cfg.Dialogs.FileFilter,
		CodeStyle:  cfg.Notes.CodeStyle,
		Dispatch:   func(f func()) { send(dispatchMsg(f)) },
	}, viewmodel.WithDialogProvider(prov))
	vm.OnException(func(err error) { send(errMsg{err}) })
	return vm
}

// Run opens path (if any) and runs the terminal editor until the user
// quits or ctx is done.
func Run(ctx context.Context, path string, cfg config.Config) error {
	var prog *tea.Program
	send := func(msg tea.Msg) {
		if prog != nil {
			prog.Send(msg)
		}
	}

	var m *model
	prov := NewProvider(func(s string) {
		if m != nil {
			m.status = s
		}
	})
	vm := newViewModel(cfg, prov, send)

	if path != "" {
		if err := vm.Load(path); err != nil {
			return err
		}
	}

	m = newModel(vm, prov, cfg.UI.Theme)
	prog = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfg.Notes.WatchFile {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go vm.Watch(watchCtx)
	}

	_, err := prog.Run()
	return err
}
