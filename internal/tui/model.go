package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/quadro/internal/app"
	"github.com/evanschultz/quadro/internal/domain"
)

// Service is the board surface the TUI drives.
type Service interface {
	Board(context.Context) ([]app.Column, error)
	MoveTask(context.Context, int64, domain.Status) (app.MoveResult, error)
	CommitDraft(context.Context) (domain.Task, error)
	Draft() domain.Draft
	SetDraft(domain.Draft)
	SearchTasks(context.Context, string) ([]app.TaskMatch, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
	Locale() domain.Locale
}

// inputMode represents a selectable mode.
type inputMode int

const (
	modeNone inputMode = iota
	modeAddTask
	modeTaskInfo
	modeSearch
	modeSearchResults
	modeActivityLog
	modeConfirmQuit
)

// create-dialog text fields, in tab order.
const (
	taskFieldTitle = iota
	taskFieldDescription
	taskFieldAssignee
	taskFieldDue
	taskFieldCount
)

// activityLimit bounds the activity overlay.
const activityLimit = 50

type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string
	notice *app.Notice

	help     help.Model
	keys     keyMap
	formKeys formKeyMap

	cardFields  CardFieldConfig
	confirmQuit bool
	locale      domain.Locale

	columns        []app.Column
	selectedColumn int
	selectedTask   int

	mode inputMode

	formInputs   []textinput.Model
	formFocus    int
	formStatus   domain.Status
	formPriority domain.Priority

	searchInput       textinput.Model
	searchQuery       string
	searchMatches     []app.TaskMatch
	searchResultIndex int

	activity []domain.ChangeEvent

	infoTaskID int64
	markdown   *markdownRenderer

	pendingFocusTaskID int64

	notices  <-chan app.Notice
	copyText func(string) error
}

// loadedMsg carries a fresh board snapshot.
type loadedMsg struct {
	columns []app.Column
	err     error
}

// actionMsg reports the outcome of one board mutation.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusTaskID int64
}

// draftCommittedMsg reports the outcome of committing the create dialog.
type draftCommittedMsg struct {
	task domain.Task
	err  error
}

// searchResultsMsg carries ranked search matches.
type searchResultsMsg struct {
	matches []app.TaskMatch
	err     error
}

// activityLogLoadedMsg carries the newest change events.
type activityLogLoadedMsg struct {
	events []domain.ChangeEvent
	err    error
}

// noticeMsg carries one service notice.
type noticeMsg struct {
	notice app.Notice
}

// NewModel constructs the board model over svc.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	searchInput := newModalInput("", "title or description", "", 120)
	m := Model{
		svc:          svc,
		status:       "loading...",
		help:         h,
		keys:         newKeyMap(),
		formKeys:     newFormKeyMap(),
		cardFields:   DefaultCardFieldConfig(),
		locale:       domain.LocaleEnglish,
		searchInput:  searchInput,
		formStatus:   domain.StatusTodo,
		formPriority: domain.PriorityMedium,
		copyText:     defaultClipboard,
		markdown:     &markdownRenderer{},
	}
	if svc != nil {
		m.locale = svc.Locale()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init loads the board and starts listening for notices.
func (m Model) Init() tea.Cmd {
	if m.notices == nil {
		return m.loadData
	}
	return tea.Batch(m.loadData, m.waitForNotice())
}

// Update applies one message to the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.columns = msg.columns
		m.clampSelections()
		if m.pendingFocusTaskID != 0 {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = 0
		}
		if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != 0 {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case draftCommittedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrInvalidTitle) {
				m.formFocus = taskFieldTitle
				m.status = "title is required"
				cmd := m.focusTaskFormField(taskFieldTitle)
				return m, cmd
			}
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.mode = modeNone
		m.formInputs = nil
		m.status = fmt.Sprintf("created #%d", msg.task.ID)
		m.pendingFocusTaskID = msg.task.ID
		return m, m.loadData

	case searchResultsMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.searchMatches = msg.matches
		m.searchResultIndex = 0
		m.mode = modeSearchResults
		m.status = fmt.Sprintf("%d matches", len(msg.matches))
		return m, nil

	case activityLogLoadedMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.activity = msg.events
		m.mode = modeActivityLog
		m.status = "activity"
		return m, nil

	case noticeMsg:
		notice := msg.notice
		m.notice = &notice
		m.status = notice.Title
		if notice.Description != "" {
			m.status += ": " + notice.Description
		}
		return m, m.waitForNotice()

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		if m.mode == modeAddTask || m.mode == modeSearch {
			return m.updateFocusedInput(msg)
		}
		return m, nil
	}
}

// loadData fetches the board columns.
func (m Model) loadData() tea.Msg {
	columns, err := m.svc.Board(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{columns: columns}
}

// loadSearchMatches ranks tasks against the current query.
func (m Model) loadSearchMatches() tea.Msg {
	matches, err := m.svc.SearchTasks(context.Background(), m.searchQuery)
	return searchResultsMsg{matches: matches, err: err}
}

// loadActivityLog fetches the newest change events.
func (m Model) loadActivityLog() tea.Msg {
	events, err := m.svc.ListChangeEvents(context.Background(), activityLimit)
	return activityLogLoadedMsg{events: events, err: err}
}

// waitForNotice blocks on the next notice. It returns nil when notices are not wired.
func (m Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	notices := m.notices
	return func() tea.Msg {
		notice, ok := <-notices
		if !ok {
			return nil
		}
		return noticeMsg{notice: notice}
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// handleNormalModeKey handles board navigation and actions.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		if m.confirmQuit && msg.String() != "ctrl+c" {
			m.mode = modeConfirmQuit
			m.status = "quit? (y/n)"
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.selectedTask < len(m.currentColumnTasks())-1 {
			m.selectedTask++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveTaskLeft):
		return m.moveSelectedTaskBy(-1)
	case key.Matches(msg, m.keys.moveTaskRight):
		return m.moveSelectedTaskBy(1)
	case key.Matches(msg, m.keys.moveToTodo):
		return m.moveSelectedTaskTo(domain.StatusTodo)
	case key.Matches(msg, m.keys.moveToDoing):
		return m.moveSelectedTaskTo(domain.StatusInProgress)
	case key.Matches(msg, m.keys.moveToReview):
		return m.moveSelectedTaskTo(domain.StatusInReview)
	case key.Matches(msg, m.keys.moveToDone):
		return m.moveSelectedTaskTo(domain.StatusDone)
	case key.Matches(msg, m.keys.addTask):
		cmd := m.startTaskForm()
		return m, cmd
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.infoTaskID = task.ID
		m.mode = modeTaskInfo
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.copyTask):
		return m.copySelectedTask()
	case key.Matches(msg, m.keys.search):
		cmd := m.startSearchMode()
		return m, cmd
	case key.Matches(msg, m.keys.activity):
		m.status = "loading activity..."
		return m, m.loadActivityLog
	default:
		return m, nil
	}
}

// handleInputModeKey routes keys for overlays and dialogs.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddTask:
		return m.handleTaskFormKey(msg)
	case modeSearch:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.searchInput.Blur()
			m.status = "search cancelled"
			return m, nil
		case "enter":
			m.searchQuery = strings.TrimSpace(m.searchInput.Value())
			m.searchInput.Blur()
			m.status = "searching..."
			return m, m.loadSearchMatches
		}
		return m.updateFocusedInput(msg)
	case modeSearchResults:
		switch {
		case msg.String() == "esc":
			m.mode = modeNone
			m.status = "ready"
		case key.Matches(msg, m.keys.moveDown):
			if m.searchResultIndex < len(m.searchMatches)-1 {
				m.searchResultIndex++
			}
		case key.Matches(msg, m.keys.moveUp):
			if m.searchResultIndex > 0 {
				m.searchResultIndex--
			}
		case msg.String() == "enter":
			if len(m.searchMatches) == 0 {
				m.mode = modeNone
				m.status = "no matches"
				return m, nil
			}
			match := m.searchMatches[clamp(m.searchResultIndex, 0, len(m.searchMatches)-1)]
			m.focusTaskByID(match.Task.ID)
			m.mode = modeNone
			m.status = "jumped to #" + fmt.Sprint(match.Task.ID)
		}
		return m, nil
	case modeTaskInfo:
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.taskInfo), key.Matches(msg, m.keys.quit):
			m.mode = modeNone
			m.status = "ready"
			return m, nil
		case key.Matches(msg, m.keys.copyTask):
			return m.copySelectedTask()
		}
		return m, nil
	case modeActivityLog:
		if msg.String() == "esc" || key.Matches(msg, m.keys.activity) || key.Matches(msg, m.keys.quit) {
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil
	case modeConfirmQuit:
		switch msg.String() {
		case "y", "Y", "enter":
			return m, tea.Quit
		default:
			m.mode = modeNone
			m.status = "ready"
			return m, nil
		}
	default:
		m.mode = modeNone
		return m, nil
	}
}

// handleTaskFormKey handles the create dialog.
func (m Model) handleTaskFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.cancel):
		if len(m.formInputs) == taskFieldCount {
			draft, _ := m.draftFromForm()
			m.svc.SetDraft(draft)
		}
		m.mode = modeNone
		m.formInputs = nil
		m.status = "draft kept"
		return m, nil
	case key.Matches(msg, m.formKeys.nextField):
		cmd := m.focusTaskFormField(wrapIndex(m.formFocus, 1, taskFieldCount))
		return m, cmd
	case key.Matches(msg, m.formKeys.prevField):
		cmd := m.focusTaskFormField(wrapIndex(m.formFocus, -1, taskFieldCount))
		return m, cmd
	case key.Matches(msg, m.formKeys.cyclePriority):
		m.formPriority = m.formPriority.Next()
		m.status = "priority: " + m.formPriority.Label(m.locale)
		return m, nil
	case key.Matches(msg, m.formKeys.cycleStatus):
		m.formStatus = cycleStatus(m.formStatus)
		m.status = "status: " + m.formStatus.Label(m.locale)
		return m, nil
	case key.Matches(msg, m.formKeys.submit):
		if err := m.stashDraft(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		svc := m.svc
		return m, func() tea.Msg {
			task, err := svc.CommitDraft(context.Background())
			return draftCommittedMsg{task: task, err: err}
		}
	}
	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards msg to the focused text input.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeAddTask:
		if m.formFocus < 0 || m.formFocus >= len(m.formInputs) {
			return m, nil
		}
		m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// startTaskForm opens the create dialog prefilled from the held draft.
func (m *Model) startTaskForm() tea.Cmd {
	draft := m.svc.Draft()
	assignee := ""
	if draft.Assignee != nil {
		assignee = draft.Assignee.Name
	}
	due := ""
	if draft.DueDate != nil {
		due = draft.DueDate.Format(domain.DueDateLayout)
	}
	m.formInputs = []textinput.Model{
		newModalInput("title: ", "required", draft.Title, 120),
		newModalInput("description: ", "markdown", draft.Description, 500),
		newModalInput("assignee: ", "full name", assignee, 80),
		newModalInput("due: ", domain.DueDateLayout, due, 10),
	}
	m.formStatus = draft.Status
	if !m.formStatus.Valid() {
		m.formStatus = domain.StatusTodo
		if col, ok := m.currentColumn(); ok {
			m.formStatus = col.Status
		}
	}
	m.formPriority = draft.Priority
	if !m.formPriority.Valid() {
		m.formPriority = domain.PriorityMedium
	}
	m.mode = modeAddTask
	m.status = "new task"
	return m.focusTaskFormField(taskFieldTitle)
}

// focusTaskFormField moves focus to idx.
func (m *Model) focusTaskFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	idx = clamp(idx, 0, len(m.formInputs)-1)
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formFocus = idx
	return m.formInputs[idx].Focus()
}

// stashDraft parses the dialog into the service draft. The title is not checked here.
func (m Model) stashDraft() error {
	draft, err := m.draftFromForm()
	if err != nil {
		return err
	}
	m.svc.SetDraft(draft)
	return nil
}

// draftFromForm parses the dialog fields. On error the returned draft still holds every
// field that parsed.
func (m Model) draftFromForm() (domain.Draft, error) {
	if len(m.formInputs) < taskFieldCount {
		return domain.Draft{}, fmt.Errorf("task form is not open")
	}
	draft := domain.Draft{
		Title:       m.formInputs[taskFieldTitle].Value(),
		Description: m.formInputs[taskFieldDescription].Value(),
		Status:      m.formStatus,
		Priority:    m.formPriority,
	}
	assignee, err := domain.NewAssignee(m.formInputs[taskFieldAssignee].Value(), "")
	if err != nil {
		return draft, fmt.Errorf("invalid assignee")
	}
	draft.Assignee = assignee
	due, err := domain.ParseDueDate(m.formInputs[taskFieldDue].Value())
	if err != nil {
		return draft, fmt.Errorf("invalid due date (use %s)", domain.DueDateLayout)
	}
	draft.DueDate = due
	return draft, nil
}

// startSearchMode opens the search prompt.
func (m *Model) startSearchMode() tea.Cmd {
	m.mode = modeSearch
	m.searchInput.SetValue(m.searchQuery)
	m.searchInput.CursorEnd()
	m.status = "search"
	return m.searchInput.Focus()
}

// moveSelectedTaskBy moves the focused task one column left or right.
func (m Model) moveSelectedTaskBy(delta int) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	target := task.Status.Next()
	if delta < 0 {
		target = task.Status.Prev()
	}
	if target == task.Status {
		m.status = "already in " + task.Status.Label(m.locale)
		return m, nil
	}
	return m.moveTask(task, target)
}

// moveSelectedTaskTo moves the focused task straight to status.
func (m Model) moveSelectedTaskTo(status domain.Status) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	return m.moveTask(task, status)
}

// moveTask issues one status change and refocuses the task afterwards.
func (m Model) moveTask(task domain.Task, status domain.Status) (tea.Model, tea.Cmd) {
	svc := m.svc
	label := status.Label(m.locale)
	return m, func() tea.Msg {
		res, err := svc.MoveTask(context.Background(), task.ID, status)
		if err != nil {
			return actionMsg{err: err}
		}
		if !res.Matched {
			return actionMsg{status: fmt.Sprintf("task #%d no longer exists", task.ID), reload: true}
		}
		return actionMsg{status: "moved to " + label, reload: true, focusTaskID: task.ID}
	}
}

// copySelectedTask writes a one-line task summary to the clipboard.
func (m Model) copySelectedTask() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if m.mode == modeTaskInfo {
		task, ok = m.taskByID(m.infoTaskID)
	}
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	text := taskSummary(task, m.locale)
	write := m.copyText
	return m, func() tea.Msg {
		if err := write(text); err != nil {
			return actionMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return actionMsg{status: fmt.Sprintf("copied #%d", task.ID)}
	}
}

// taskSummary renders one task as a single line.
func taskSummary(task domain.Task, locale domain.Locale) string {
	parts := []string{
		fmt.Sprintf("#%d %s", task.ID, task.Title),
		"[" + task.Status.Label(locale) + "]",
		task.Priority.Label(locale),
	}
	if task.Assignee != nil {
		parts = append(parts, "@"+task.Assignee.Name)
	}
	if task.DueDate != nil {
		parts = append(parts, "due "+task.DueDate.Format(domain.DueDateLayout))
	}
	return strings.Join(parts, " ")
}

// cycleStatus returns the next status, wrapping from done back to to-do.
func cycleStatus(s domain.Status) domain.Status {
	statuses := domain.Statuses()
	return statuses[wrapIndex(s.Index(), 1, len(statuses))]
}

// wrapIndex steps current by delta within [0,total).
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := (current + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// clampSelections keeps the column and task cursors in range.
func (m *Model) clampSelections() {
	if len(m.columns) == 0 {
		m.selectedColumn = 0
		m.selectedTask = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.columns)-1)
	m.selectedTask = clamp(m.selectedTask, 0, max(0, len(m.currentColumnTasks())-1))
}

// focusTaskByID moves the cursors onto id when it is on the board.
func (m *Model) focusTaskByID(id int64) bool {
	for colIdx, col := range m.columns {
		if taskIdx := slices.IndexFunc(col.Tasks, func(t domain.Task) bool { return t.ID == id }); taskIdx >= 0 {
			m.selectedColumn = colIdx
			m.selectedTask = taskIdx
			return true
		}
	}
	return false
}

func (m Model) currentColumn() (app.Column, bool) {
	if len(m.columns) == 0 {
		return app.Column{}, false
	}
	return m.columns[clamp(m.selectedColumn, 0, len(m.columns)-1)], true
}

func (m Model) currentColumnTasks() []domain.Task {
	col, ok := m.currentColumn()
	if !ok {
		return nil
	}
	return col.Tasks
}

func (m Model) selectedTaskInCurrentColumn() (domain.Task, bool) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

func (m Model) taskByID(id int64) (domain.Task, bool) {
	for _, col := range m.columns {
		for _, task := range col.Tasks {
			if task.ID == id {
				return task, true
			}
		}
	}
	return domain.Task{}, false
}

func (m Model) totalTasks() int {
	total := 0
	for _, col := range m.columns {
		total += len(col.Tasks)
	}
	return total
}

// modeLabel names the active mode for the header.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddTask:
		return "new task"
	case modeTaskInfo:
		return "info"
	case modeSearch:
		return "search"
	case modeSearchResults:
		return "results"
	case modeActivityLog:
		return "activity"
	case modeConfirmQuit:
		return "confirm"
	default:
		return "board"
	}
}

// dueLabel formats a due date relative to now.
func dueLabel(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	label := due.Format("Jan 2")
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		label += " overdue"
	}
	return label
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
