package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zenroll/internal/account"
)

const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldDOB
	inputCount

	focusTerms = inputCount
	focusSubmit
	focusCount
)

var fieldLabels = [inputCount]string{
	"first name",
	"last name",
	"email",
	"date of birth",
}

// formModel edits an account.Form and hands finished records to the root model.
type formModel struct {
	form     *account.Form
	inputs   [inputCount]textinput.Model
	focus    int
	termsURL string
	openURL  func(string) error

	submitting bool
	flash      string
	flashErr   bool
}

// submitMsg requests delivery of the record the form handed to its sink.
type submitMsg struct{}

// submitResultMsg reports the outcome of a delivery.
type submitResultMsg struct {
	record account.Record
	err    error
}

// submitFailedMsg tells the form that delivery failed and it may retry.
type submitFailedMsg struct {
	err error
}

// termsOpenedMsg reports the outcome of opening the terms page.
type termsOpenedMsg struct {
	err error
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

func newFormModel(f *account.Form, termsURL string, openURL func(string) error) formModel {
	var inputs [inputCount]textinput.Model
	for i := range inputCount {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 40
		ti.Prompt = ""
		inputs[i] = ti
	}

	inputs[fieldDOB].CharLimit = len(account.DOBLayout)
	inputs[fieldDOB].Placeholder = "MM/DD/YYYY"
	inputs[fieldEmail].Placeholder = "you@example.com"

	inputs[fieldFirstName].SetValue(f.FirstName())
	inputs[fieldLastName].SetValue(f.LastName())
	inputs[fieldEmail].SetValue(f.Email())
	inputs[fieldDOB].SetValue(f.DateOfBirth())

	m := formModel{
		form:     f,
		inputs:   inputs,
		termsURL: termsURL,
		openURL:  openURL,
	}

	m.focus = m.firstIncomplete()
	if m.focus < inputCount {
		m.inputs[m.focus].Focus()
	}
	return m
}

// firstIncomplete returns the first field still needing attention.
func (m formModel) firstIncomplete() int {
	switch {
	case m.form.FirstName() == "":
		return fieldFirstName
	case m.form.LastName() == "":
		return fieldLastName
	case !m.form.EmailValid():
		return fieldEmail
	case !m.form.DOBValid():
		return fieldDOB
	}
	return focusTerms
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitFailedMsg:
		m.submitting = false
		m.flash = "submit failed: " + msg.err.Error()
		m.flashErr = true
		return m, nil

	case termsOpenedMsg:
		if msg.err != nil {
			m.flash = "open terms: " + msg.err.Error()
			m.flashErr = true
			return m, clearFlashAfter()
		}
		return m, nil

	case flashMsg:
		m.flash = ""
		m.flashErr = false
		return m, nil
	}

	return m.updateInput(msg)
}

func (m formModel) handleKey(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || key.Matches(msg, zstyle.KeyBack) {
		return m, tea.Quit
	}

	switch msg.String() {
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "ctrl+t":
		return m, m.openTerms()
	}

	if m.focus == focusTerms && msg.String() == " " {
		return m.toggleTerms(), nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		switch {
		case m.focus == focusTerms:
			return m.toggleTerms(), nil
		case m.focus == focusSubmit || m.form.SubmitEnabled():
			return m.submit()
		}
		return m.moveFocus(1)
	}

	return m.updateInput(msg)
}

func (m formModel) moveFocus(delta int) (formModel, tea.Cmd) {
	if m.focus < inputCount {
		m.inputs[m.focus].Blur()
	}
	m.focus = (m.focus + delta + focusCount) % focusCount
	if m.focus < inputCount {
		m.inputs[m.focus].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m formModel) toggleTerms() formModel {
	m.form.SetTermsAccepted(!m.form.TermsAccepted())
	return m
}

func (m formModel) updateInput(msg tea.Msg) (formModel, tea.Cmd) {
	if m.focus >= inputCount {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.sync(m.focus)
	return m, cmd
}

// sync pushes the text of input i into the form.
func (m *formModel) sync(i int) {
	v := m.inputs[i].Value()
	switch i {
	case fieldFirstName:
		m.form.SetFirstName(v)
	case fieldLastName:
		m.form.SetLastName(v)
	case fieldEmail:
		m.form.SetEmail(v)
	case fieldDOB:
		masked := maskDate(v)
		if masked != v {
			m.inputs[i].SetValue(masked)
			m.inputs[i].CursorEnd()
		}
		m.form.SetDateOfBirth(masked)
	}
}

// maskDate keeps the digits of s and lays them out as MM/DD/YYYY.
func maskDate(s string) string {
	var digits []rune
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 8 {
		digits = digits[:8]
	}

	var b strings.Builder
	for i, r := range digits {
		if i == 2 || i == 4 {
			b.WriteByte('/')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m formModel) submit() (formModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	if !m.form.SubmitEnabled() {
		m.flash = "complete every field and accept the terms"
		m.flashErr = false
		return m, clearFlashAfter()
	}

	if _, ok := m.form.Submit(); !ok {
		m.flash = "account service is not configured"
		m.flashErr = true
		return m, clearFlashAfter()
	}

	m.submitting = true
	m.flash = "creating account..."
	m.flashErr = false
	return m, func() tea.Msg { return submitMsg{} }
}

func (m formModel) openTerms() tea.Cmd {
	url, open := m.termsURL, m.openURL
	if url == "" {
		return nil
	}
	if open == nil {
		return func() tea.Msg {
			return termsOpenedMsg{err: fmt.Errorf("no browser available, visit %s", url)}
		}
	}
	return func() tea.Msg {
		return termsOpenedMsg{err: open(url)}
	}
}

func (m formModel) View() string {
	var s string

	if phone := m.form.PhoneNumber(); phone != "" {
		label := zstyle.MutedText.Render(fmt.Sprintf("  %-14s", "phone"))
		s += fmt.Sprintf("  %s %s\n", label, zstyle.MutedText.Render(phone))
	}

	if v := m.form.VerifyError(); v != "" {
		s += "\n    " + zstyle.StatusErr.Render(v) + "\n"
	}
	s += "\n"

	for i := range inputCount {
		label := zstyle.MutedText.Render(fmt.Sprintf("  %-14s", fieldLabels[i]))
		s += fmt.Sprintf("  %s%s %s%s\n", m.cursor(i), label, m.inputs[i].View(), m.mark(i))

		if i == fieldDOB && m.form.DateOfBirth() != "" && m.form.DOBError() != "" {
			s += "    " + strings.Repeat(" ", 16) + zstyle.StatusErr.Render(m.form.DOBError()) + "\n"
		}
	}

	s += "\n"

	box := "[ ]"
	if m.form.TermsAccepted() {
		box = "[x]"
	}
	terms := box + " I accept the terms of use"
	if m.focus == focusTerms {
		terms = zstyle.Highlight.Render(terms)
	}
	s += fmt.Sprintf("  %s%s\n", m.cursor(focusTerms), terms)
	if m.termsURL != "" {
		s += "      " + zstyle.MutedText.Render("ctrl+t read "+m.termsURL) + "\n"
	}

	s += "\n"

	button := "[ create account ]"
	if m.form.SubmitEnabled() {
		button = zstyle.Highlight.Render(button)
	} else {
		button = zstyle.MutedText.Render(button)
	}
	s += fmt.Sprintf("  %s%s\n", m.cursor(focusSubmit), button)

	s += "\n"
	switch {
	case m.flash == "":
		s += "\n"
	case m.flashErr:
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	default:
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	}

	return s
}

func (m formModel) cursor(i int) string {
	if i == m.focus {
		return "> "
	}
	return "  "
}

// mark shows a validity hint beside a field once it holds text.
func (m formModel) mark(i int) string {
	var ok bool
	switch i {
	case fieldFirstName:
		ok = m.form.FirstName() != ""
	case fieldLastName:
		ok = m.form.LastName() != ""
	case fieldEmail:
		if m.form.Email() == "" {
			return ""
		}
		ok = m.form.EmailValid()
	case fieldDOB:
		if m.form.DateOfBirth() == "" {
			return ""
		}
		ok = m.form.DOBValid()
	}

	if ok {
		return " " + zstyle.StatusOK.Render("ok")
	}
	if i == fieldEmail {
		return " " + zstyle.StatusWarn.Render("invalid")
	}
	return ""
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}
