// Package tui implements the root Bubble Tea model for zenroll.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zenroll/internal/account"
	"github.com/zarlcorp/zenroll/internal/api"
	"github.com/zarlcorp/zenroll/internal/profile"
)

const submitTimeout = 30 * time.Second

type viewID int

const (
	viewUnlock viewID = iota
	viewForm
	viewResult
)

// Session holds the values the embedding caller supplies for a form session.
type Session struct {
	PhoneNumber      string
	VerificationCode string
	VerifyError      string
	Prefill          account.Prefill
}

// Options configures the root model.
type Options struct {
	// Context bounds submissions; cancelling it aborts one in flight.
	Context context.Context

	Version     string
	DataDir     string
	FirstRun    bool
	UseProfiles bool
	Session     Session
	TermsURL    string

	Email account.EmailValidator
	DOB   account.DateParser

	// Submit delivers a record. nil means submission is not configured.
	Submit func(context.Context, account.Record) error

	// OpenURL opens the terms page. Errors are shown but never block the form.
	OpenURL func(string) error
}

// Model is the root TUI model.
type Model struct {
	opts     Options
	profiles *profile.Store
	saved    *account.Prefill
	outbox   *outbox

	active   viewID
	unlock   unlockModel
	form     formModel
	result   resultModel

	width int
}

// New creates the root TUI model. With profiles enabled the session starts
// at the unlock prompt, otherwise directly at the form.
func New(opts Options) Model {
	m := Model{opts: opts, outbox: &outbox{}}
	if opts.UseProfiles {
		m.active = viewUnlock
		m.unlock = newUnlockModel(opts.FirstRun)
		return m
	}

	m.active = viewForm
	m.form = m.newForm(opts.Session.VerifyError, profile.Merge(nil, opts.Session.Prefill))
	return m
}

func (m Model) Init() tea.Cmd {
	if m.active == viewUnlock {
		return m.unlock.Init()
	}
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case unlockMsg:
		return m.openProfiles(msg.password)

	case skipProfileMsg:
		return m.startForm(m.opts.Session.VerifyError)

	case resetProfileMsg:
		return m.resetProfiles()

	case submitMsg:
		r, ok := m.outbox.take()
		if !ok {
			return m, nil
		}
		return m, m.submitCmd(r)

	case submitResultMsg:
		return m.handleSubmitResult(msg)
	}

	return m.updateActive(msg)
}

func (m Model) View() string {
	if m.active == viewUnlock {
		return m.unlock.View()
	}

	var content string
	switch m.active {
	case viewForm:
		content = m.form.View()
	case viewResult:
		content = m.result.View()
	}

	header := zstyle.RenderHeader("zenroll", viewTitle(m.active), accent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewForm:
		return "Create Account"
	case viewResult:
		return "Account Created"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewForm:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next"},
			{Key: "shift+tab", Desc: "prev"},
			{Key: "space", Desc: "toggle"},
			{Key: "ctrl+t", Desc: "terms"},
			{Key: "enter", Desc: "create"},
			{Key: "esc", Desc: "quit"},
		}
	case viewResult:
		return []zstyle.HelpPair{
			{Key: "enter", Desc: "done"},
			{Key: "q", Desc: "quit"},
		}
	}
	return nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewUnlock:
		m.unlock, cmd = m.unlock.Update(msg)
	case viewForm:
		m.form, cmd = m.form.Update(msg)
	case viewResult:
		m.result, cmd = m.result.Update(msg)
	}

	return m, cmd
}

func (m Model) openProfiles(password string) (tea.Model, tea.Cmd) {
	s, err := profile.Open(m.opts.DataDir, []byte(password))
	if err != nil {
		m.unlock, _ = m.unlock.Update(unlockFailedMsg{err: err})
		return m, nil
	}

	p, err := s.Load()
	switch {
	case err == nil:
		m.saved = p.Prefill()
	case errors.Is(err, profile.ErrNotFound):
		m.saved = nil
	default:
		s.Close()
		m.unlock, _ = m.unlock.Update(unlockFailedMsg{err: err})
		return m, nil
	}

	m.profiles = s
	return m.startForm(m.opts.Session.VerifyError)
}

// resetProfiles erases a store whose password is lost and continues without
// saved details.
func (m Model) resetProfiles() (tea.Model, tea.Cmd) {
	if err := profile.Remove(m.opts.DataDir); err != nil {
		m.unlock, _ = m.unlock.Update(unlockFailedMsg{err: err})
		return m, nil
	}
	slog.Info("saved profile erased")
	m.saved = nil
	return m.startForm(m.opts.Session.VerifyError)
}

// startForm begins a form session from the saved profile overlaid with the
// caller's prefill.
func (m Model) startForm(verifyError string) (tea.Model, tea.Cmd) {
	m.form = m.newForm(verifyError, profile.Merge(m.saved, m.opts.Session.Prefill))
	m.active = viewForm
	return m, tea.Batch(tea.ClearScreen, m.form.Init())
}

func (m Model) newForm(verifyError string, prefill *account.Prefill) formModel {
	var sink func(account.Record)
	if m.opts.Submit != nil {
		sink = m.outbox.put
	}

	f := account.New(account.Options{
		PhoneNumber:      m.opts.Session.PhoneNumber,
		VerificationCode: m.opts.Session.VerificationCode,
		Prefill:          prefill,
		VerifyError:      verifyError,
		Sink:             sink,
		Email:            m.opts.Email,
		DOB:              m.opts.DOB,
	})

	return newFormModel(f, m.opts.TermsURL, m.opts.OpenURL)
}

func (m Model) submitCmd(r account.Record) tea.Cmd {
	submit := m.opts.Submit
	if submit == nil {
		return nil
	}
	parent := m.opts.Context
	if parent == nil {
		parent = context.Background()
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, submitTimeout)
		defer cancel()
		return submitResultMsg{record: r, err: submit(ctx, r)}
	}
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		saved := false
		if m.profiles != nil {
			if err := m.profiles.Save(profile.FromRecord(msg.record, time.Now())); err != nil {
				slog.Error("save profile", "err", err)
			} else {
				saved = true
			}
		}
		m.result = newResultModel(msg.record, saved)
		m.active = viewResult
		return m, tea.ClearScreen
	}

	slog.Warn("submit failed", "err", msg.err)

	// a rejection from the service restarts the session with its message;
	// what the user typed carries over, terms must be accepted again
	if text, ok := api.VerifyMessage(msg.err); ok {
		m.form = m.newForm(text, recordPrefill(msg.record))
		m.active = viewForm
		return m, m.form.Init()
	}

	m.form, _ = m.form.Update(submitFailedMsg{err: msg.err})
	return m, clearFlashAfter()
}

// outbox carries the record the form's sink receives to the delivery
// command. It is shared by every copy of the root model.
type outbox struct {
	record  account.Record
	pending bool
}

func (o *outbox) put(r account.Record) {
	slog.Info("account form submitted")
	o.record = r
	o.pending = true
}

// take returns the pending record once.
func (o *outbox) take() (account.Record, bool) {
	if !o.pending {
		return account.Record{}, false
	}
	r := o.record
	o.record = account.Record{}
	o.pending = false
	return r, true
}

// recordPrefill turns a submitted record back into prefill data.
func recordPrefill(r account.Record) *account.Prefill {
	p := &account.Prefill{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
	if dob, err := time.Parse(account.DOBLayout, r.DateOfBirth); err == nil {
		p.DateOfBirth = dob
	}
	return p
}

// Close cleans up resources. Call after the program exits.
func (m Model) Close() {
	if m.profiles != nil {
		m.profiles.Close()
	}
}
