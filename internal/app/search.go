package app

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/evanschultz/quadro/internal/domain"
)

// TaskMatch describes a matched result. Lower scores rank first.
type TaskMatch struct {
	Task  domain.Task
	Score int
}

const (
	scoreTitleSubstring = iota
	scoreDescriptionSubstring
	scoreFuzzyBase
)

// SearchTasks ranks tasks against query: substring hits first, then per-word edit distance.
// An empty query matches every task in insertion order.
func (s *Service) SearchTasks(ctx context.Context, query string) ([]TaskMatch, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return RankTasks(tasks, query), nil
}

// RankTasks is the pure ranking used by SearchTasks.
func RankTasks(tasks []domain.Task, query string) []TaskMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]TaskMatch, 0, len(tasks))
	for _, task := range tasks {
		score, ok := scoreTask(task, query)
		if !ok {
			continue
		}
		out = append(out, TaskMatch{Task: task, Score: score})
	}
	slices.SortStableFunc(out, func(a, b TaskMatch) int {
		return a.Score - b.Score
	})
	return out
}

func scoreTask(task domain.Task, query string) (int, bool) {
	if query == "" {
		return 0, true
	}
	title := strings.ToLower(task.Title)
	description := strings.ToLower(task.Description)
	if strings.Contains(title, query) {
		return scoreTitleSubstring, true
	}
	if strings.Contains(description, query) {
		return scoreDescriptionSubstring, true
	}

	words := strings.Fields(title + " " + description)
	if len(words) == 0 {
		return 0, false
	}
	total := 0
	for _, term := range strings.Fields(query) {
		best := -1
		for _, word := range words {
			dist := levenshtein.ComputeDistance(term, word)
			if best < 0 || dist < best {
				best = dist
			}
		}
		if best > fuzzyThreshold(term) {
			return 0, false
		}
		total += best
	}
	return scoreFuzzyBase + total, true
}

// fuzzyThreshold allows roughly one edit per three runes, minimum one.
func fuzzyThreshold(term string) int {
	return max(1, utf8.RuneCountInString(term)/3)
}
