package tui

import (
	"github.com/atotto/clipboard"
	"github.com/evanschultz/quadro/internal/app"
)

// CardFieldConfig selects which task details the board cards show.
type CardFieldConfig struct {
	ShowDescription bool
	ShowAssignee    bool
	ShowDueDate     bool
	ShowSubtasks    bool
}

type Option func(*Model)

func DefaultCardFieldConfig() CardFieldConfig {
	return CardFieldConfig{
		ShowDescription: false,
		ShowAssignee:    true,
		ShowDueDate:     true,
		ShowSubtasks:    true,
	}
}

func WithCardFieldConfig(cfg CardFieldConfig) Option {
	return func(m *Model) {
		m.cardFields = cfg
	}
}

// WithConfirmQuit asks before quitting.
func WithConfirmQuit(enabled bool) Option {
	return func(m *Model) {
		m.confirmQuit = enabled
	}
}

// WithNotices streams service notices into the status line.
func WithNotices(notices <-chan app.Notice) Option {
	return func(m *Model) {
		m.notices = notices
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

func defaultClipboard(text string) error {
	return clipboard.WriteAll(text)
}
