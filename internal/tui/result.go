package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zenroll/internal/account"
)

// resultModel confirms a created account.
type resultModel struct {
	record account.Record
	saved  bool
}

func newResultModel(r account.Record, saved bool) resultModel {
	return resultModel{record: r, saved: saved}
}

func (m resultModel) Update(msg tea.Msg) (resultModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.Type == tea.KeyCtrlC || key.Matches(msg, zstyle.KeyEnter) || key.Matches(msg, zstyle.KeyQuit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m resultModel) View() string {
	name := m.record.FirstName + " " + m.record.LastName
	s := fmt.Sprintf("\n  %s\n\n", zstyle.StatusOK.Render("account created for "+name))

	rows := [][2]string{
		{"email", m.record.Email},
		{"phone", m.record.PhoneNumber},
		{"date of birth", m.record.DateOfBirth},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		label := zstyle.MutedText.Render(fmt.Sprintf("%-14s", r[0]))
		s += fmt.Sprintf("    %s %s\n", label, r[1])
	}

	if m.saved {
		s += "\n  " + zstyle.MutedText.Render("details saved for next time") + "\n"
	}
	return s
}
