package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zenroll/internal/profile"
)

// accent is zenroll's highlight colour for the logo and header.
var accent = lipgloss.Color("#5FAFD7")

type unlockStage int

const (
	stageUnlock  unlockStage = iota // saved details exist
	stageChoose                     // nothing saved yet, pick a password
	stageConfirm                    // repeat the chosen password
)

var resetKey = key.NewBinding(
	key.WithKeys("ctrl+r"),
	key.WithHelp("ctrl+r", "forget saved details"),
)

// unlockModel asks for the password protecting the remembered details. On
// first use it offers to start remembering them instead.
type unlockModel struct {
	input    textinput.Model
	stage    unlockStage
	chosen   string
	failures int
	errMsg   string
}

// unlockMsg asks the root model to open the profile store.
type unlockMsg struct {
	password string
}

// skipProfileMsg continues to the form without saved details.
type skipProfileMsg struct{}

// resetProfileMsg erases the saved details and continues to the form.
type resetProfileMsg struct{}

// unlockFailedMsg reports that the store could not be opened.
type unlockFailedMsg struct {
	err error
}

func newUnlockModel(firstRun bool) unlockModel {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128
	ti.Width = 32
	ti.Prompt = "> "
	ti.Focus()

	m := unlockModel{input: ti, stage: stageUnlock}
	if firstRun {
		m.stage = stageChoose
	}
	return m
}

func (m unlockModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m unlockModel) Update(msg tea.Msg) (unlockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit
		case key.Matches(msg, zstyle.KeyBack):
			return m, func() tea.Msg { return skipProfileMsg{} }
		case key.Matches(msg, resetKey) && m.stage == stageUnlock && m.failures > 0:
			return m, func() tea.Msg { return resetProfileMsg{} }
		case key.Matches(msg, zstyle.KeyEnter):
			return m.advance()
		}

	case unlockFailedMsg:
		m.failures++
		m.errMsg = describeUnlockErr(msg.err)
		m.input.Reset()
		if m.stage == stageConfirm {
			m.stage = stageChoose
			m.chosen = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m unlockModel) advance() (unlockModel, tea.Cmd) {
	val := m.input.Value()
	if val == "" {
		return m, nil
	}
	m.input.Reset()
	m.errMsg = ""

	switch m.stage {
	case stageChoose:
		m.chosen = val
		m.stage = stageConfirm
		return m, nil

	case stageConfirm:
		if val != m.chosen {
			m.chosen = ""
			m.stage = stageChoose
			m.errMsg = "those did not match, choose again"
			return m, nil
		}
	}

	return m, func() tea.Msg { return unlockMsg{password: val} }
}

func describeUnlockErr(err error) string {
	if errors.Is(err, profile.ErrWrongPassword) {
		return "that password does not unlock your saved details"
	}
	return err.Error()
}

func (m unlockModel) View() string {
	indent := lipgloss.NewStyle().MarginLeft(2)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(indent.Render(zstyle.StyledLogo(lipgloss.NewStyle().Foreground(accent))))
	b.WriteString("\n")
	b.WriteString(indent.Render(zstyle.MutedText.Render("zenroll")))
	b.WriteString("\n\n")

	switch m.stage {
	case stageUnlock:
		b.WriteString("  " + zstyle.Subtitle.Render("welcome back") + "\n")
		b.WriteString("  your name, email and date of birth are saved on this device.\n")
		b.WriteString("  enter your password to fill them in for you.\n\n")
	case stageChoose:
		b.WriteString("  " + zstyle.Subtitle.Render("remember me") + "\n")
		b.WriteString("  zenroll can keep your details encrypted on this device\n")
		b.WriteString("  so the next sign-up is filled in for you. choose a password.\n\n")
	case stageConfirm:
		b.WriteString("  " + zstyle.Subtitle.Render("remember me") + "\n")
		b.WriteString("  type the same password again.\n\n")
	}

	b.WriteString("  " + m.input.View() + "\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + zstyle.StatusErr.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n  " + zstyle.MutedText.Render(m.hint()) + "\n")
	return b.String()
}

func (m unlockModel) hint() string {
	switch {
	case m.stage == stageUnlock && m.failures > 0:
		return "enter unlock  ctrl+r forget saved details and continue  esc continue without them"
	case m.stage == stageUnlock:
		return "enter unlock  esc continue without saved details"
	default:
		return "enter continue  esc don't remember me"
	}
}
