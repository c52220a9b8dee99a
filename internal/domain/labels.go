package domain

import (
	"slices"
	"strings"
)

// Locale selects the language of user-facing labels.
type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocalePortuguese Locale = "pt-BR"
)

var validLocales = []Locale{LocaleEnglish, LocalePortuguese}

// ParseLocale normalizes raw input, defaulting to English when empty.
func ParseLocale(raw string) (Locale, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LocaleEnglish, true
	}
	for _, l := range validLocales {
		if strings.EqualFold(string(l), raw) {
			return l, true
		}
	}
	return "", false
}

var statusLabels = map[Locale]map[Status]string{
	LocaleEnglish: {
		StatusTodo:       "To Do",
		StatusInProgress: "In Progress",
		StatusInReview:   "In Review",
		StatusDone:       "Done",
	},
	LocalePortuguese: {
		StatusTodo:       "A fazer",
		StatusInProgress: "Em progresso",
		StatusInReview:   "Em revisão",
		StatusDone:       "Concluído",
	},
}

var priorityLabels = map[Locale]map[Priority]string{
	LocaleEnglish: {
		PriorityLow:    "Low",
		PriorityMedium: "Medium",
		PriorityHigh:   "High",
	},
	LocalePortuguese: {
		PriorityLow:    "Baixa",
		PriorityMedium: "Média",
		PriorityHigh:   "Alta",
	},
}

// Label returns the display name of s in locale, falling back to the raw value.
func (s Status) Label(locale Locale) string {
	return lookupLabel(statusLabels, locale, s)
}

// Label returns the display name of p in locale, falling back to the raw value.
func (p Priority) Label(locale Locale) string {
	return lookupLabel(priorityLabels, locale, p)
}

func lookupLabel[K ~string](table map[Locale]map[K]string, locale Locale, key K) string {
	if !slices.Contains(validLocales, locale) {
		locale = LocaleEnglish
	}
	if label, ok := table[locale][key]; ok {
		return label
	}
	return string(key)
}
