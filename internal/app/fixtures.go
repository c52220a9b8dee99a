package app

import (
	"time"

	"github.com/evanschultz/quadro/internal/domain"
)

func fixtureDate(month time.Month, day int) *time.Time {
	ts := time.Date(2023, month, day, 0, 0, 0, 0, time.UTC)
	return &ts
}

var fixtureInputs = []domain.TaskInput{
	{
		ID:          1,
		Title:       "Configurar novo fluxo de chatbot",
		Description: "Criar um fluxo de atendimento para o departamento de vendas",
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityHigh,
		Assignee:    &domain.Assignee{Name: "Ana Silva", Initials: "AS"},
		DueDate:     fixtureDate(time.June, 15),
		Comments:    3,
		Subtasks:    domain.Subtasks{Total: 5, Completed: 0},
	},
	{
		ID:          2,
		Title:       "Integrar novo canal de WhatsApp",
		Description: "Adicionar número da equipe de suporte no sistema",
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
		Assignee:    &domain.Assignee{Name: "Carlos Oliveira", Initials: "CO"},
		DueDate:     fixtureDate(time.June, 18),
		Comments:    2,
		Subtasks:    domain.Subtasks{Total: 3, Completed: 1},
	},
	{
		ID:          3,
		Title:       "Otimizar tempo de resposta",
		Description: "Analisar e melhorar o tempo médio de resposta dos atendentes",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityMedium,
		Assignee:    &domain.Assignee{Name: "Juliana Costa", Initials: "JC"},
		DueDate:     fixtureDate(time.June, 20),
		Comments:    5,
		Subtasks:    domain.Subtasks{Total: 4, Completed: 2},
	},
	{
		ID:          4,
		Title:       "Criar relatório de atendimentos",
		Description: "Desenvolver dashboard de estatísticas de atendimento",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		Assignee:    &domain.Assignee{Name: "Rafael Santos", Initials: "RS"},
		DueDate:     fixtureDate(time.June, 22),
		Comments:    1,
		Subtasks:    domain.Subtasks{Total: 3, Completed: 1},
	},
	{
		ID:          5,
		Title:       "Treinar novo atendente",
		Description: "Realizar treinamento com novos funcionários",
		Status:      domain.StatusInReview,
		Priority:    domain.PriorityLow,
		Assignee:    &domain.Assignee{Name: "Ana Silva", Initials: "AS"},
		DueDate:     fixtureDate(time.June, 25),
		Comments:    0,
		Subtasks:    domain.Subtasks{Total: 6, Completed: 5},
	},
	{
		ID:          6,
		Title:       "Atualizar scripts de atendimento",
		Description: "Revisar e atualizar respostas automáticas",
		Status:      domain.StatusDone,
		Priority:    domain.PriorityMedium,
		Assignee:    &domain.Assignee{Name: "Carlos Oliveira", Initials: "CO"},
		DueDate:     fixtureDate(time.June, 10),
		Comments:    4,
		Subtasks:    domain.Subtasks{Total: 2, Completed: 2},
	},
}

// FixtureTasks returns the sample board in insertion order.
func FixtureTasks() ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(fixtureInputs))
	for _, in := range fixtureInputs {
		task, err := domain.NewTask(in)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, nil
}
