package app

import (
	"fmt"
	"time"

	"github.com/evanschultz/quadro/internal/domain"
)

// NoticeVariant styles a transient notice.
type NoticeVariant string

const (
	NoticeDefault     NoticeVariant = "default"
	NoticeDestructive NoticeVariant = "destructive"
)

// Notice is a transient user-facing message emitted by board operations.
type Notice struct {
	ID          string
	Title       string
	Description string
	Variant     NoticeVariant
	At          time.Time
}

// Notifier receives notices. It is called synchronously while the board lock is held
// and must not call back into the service.
type Notifier func(Notice)

type noticeText struct {
	movedTitle   string
	movedDesc    string
	errorTitle   string
	titleMissing string
	addedTitle   string
	addedDesc    string
}

var noticeTexts = map[domain.Locale]noticeText{
	domain.LocaleEnglish: {
		movedTitle:   "Task moved",
		movedDesc:    "Task updated to %s",
		errorTitle:   "Error",
		titleMissing: "Task title is required",
		addedTitle:   "Task added",
		addedDesc:    "New task added successfully",
	},
	domain.LocalePortuguese: {
		movedTitle:   "Tarefa movida",
		movedDesc:    "Tarefa atualizada para %s",
		errorTitle:   "Erro",
		titleMissing: "O título da tarefa é obrigatório",
		addedTitle:   "Tarefa adicionada",
		addedDesc:    "Nova tarefa adicionada com sucesso",
	},
}

func textsFor(locale domain.Locale) noticeText {
	if txt, ok := noticeTexts[locale]; ok {
		return txt
	}
	return noticeTexts[domain.LocaleEnglish]
}

func (s *Service) notifyMoved(status domain.Status) {
	txt := textsFor(s.locale)
	s.emit(txt.movedTitle, fmt.Sprintf(txt.movedDesc, status.Label(s.locale)), NoticeDefault)
}

func (s *Service) notifyTitleMissing() {
	txt := textsFor(s.locale)
	s.emit(txt.errorTitle, txt.titleMissing, NoticeDestructive)
}

func (s *Service) notifyAdded() {
	txt := textsFor(s.locale)
	s.emit(txt.addedTitle, txt.addedDesc, NoticeDefault)
}

func (s *Service) emit(title, description string, variant NoticeVariant) {
	if s.notify == nil {
		return
	}
	s.notify(Notice{
		ID:          s.idGen(),
		Title:       title,
		Description: description,
		Variant:     variant,
		At:          s.clock().UTC(),
	})
}
