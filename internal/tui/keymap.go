package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the board-mode key bindings.
type keyMap struct {
	quit          key.Binding
	reload        key.Binding
	toggleHelp    key.Binding
	moveLeft      key.Binding
	moveRight     key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	moveTaskLeft  key.Binding
	moveTaskRight key.Binding
	moveToTodo    key.Binding
	moveToDoing   key.Binding
	moveToReview  key.Binding
	moveToDone    key.Binding
	addTask       key.Binding
	taskInfo      key.Binding
	copyTask      key.Binding
	search        key.Binding
	activity      key.Binding
}

// formKeyMap holds the create-dialog key bindings.
type formKeyMap struct {
	nextField     key.Binding
	prevField     key.Binding
	cyclePriority key.Binding
	cycleStatus   key.Binding
	submit        key.Binding
	cancel        key.Binding
}

// newKeyMap constructs the board-mode bindings.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		moveTaskLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move task left")),
		moveTaskRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move task right")),
		moveToTodo:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "to do")),
		moveToDoing:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "in progress")),
		moveToReview:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "in review")),
		moveToDone:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "done")),
		addTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		taskInfo:      key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		copyTask:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		activity:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activity")),
	}
}

// newFormKeyMap constructs the create-dialog bindings.
func newFormKeyMap() formKeyMap {
	return formKeyMap{
		nextField:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prevField:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		cyclePriority: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "cycle priority")),
		cycleStatus:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "cycle status")),
		submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
		cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close, keep draft")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.taskInfo, k.moveTaskLeft, k.moveTaskRight, k.search, k.activity, k.toggleHelp, k.quit,
	}
}

// FullHelp returns every binding grouped by purpose.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.taskInfo, k.copyTask, k.search, k.activity, k.toggleHelp, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.moveTaskLeft, k.moveTaskRight, k.moveToTodo, k.moveToDoing, k.moveToReview, k.moveToDone},
	}
}

// ShortHelp returns the create-dialog bindings.
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextField, k.cyclePriority, k.cycleStatus, k.submit, k.cancel}
}

// FullHelp returns the create-dialog bindings in one group.
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.nextField, k.prevField, k.cyclePriority, k.cycleStatus, k.submit, k.cancel}}
}
