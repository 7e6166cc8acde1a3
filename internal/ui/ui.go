package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/config"
	"taskpad/internal/persist"
	"taskpad/internal/reorder"
	"taskpad/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// Screen layout. Rows are two lines tall so a pointer can land in either
// half of a row with whole-cell mouse coordinates.
const (
	headerLines = 2
	rowHeight   = 2
	handleCol   = 2
	handleWidth = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	dragStyle   = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// PreferenceStore persists the two user preferences.
type PreferenceStore interface {
	LoadPreferences() persist.Preferences
	SavePreferences(persist.Preferences) error
}

type statusMsg string

type Model struct {
	store      *task.Store
	prefStore  PreferenceStore
	prefs      persist.Preferences
	engine     *reorder.Engine
	cfg        config.Config
	logger     *slog.Logger
	copyText   func(string) error
	filter     task.Filter
	view       []task.Task
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
}

func New(store *task.Store, prefStore PreferenceStore, cfg config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ti := textinput.New()
	ti.Placeholder = "Task"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:     store,
		prefStore: prefStore,
		prefs:     prefStore.LoadPreferences(),
		engine:    reorder.New(store),
		cfg:       cfg,
		logger:    logger,
		copyText:  clipboard.WriteAll,
		filter:    cfg.Filter(),
		input:     ti,
		mode:      modeList,
		status:    "Press 'a' to add, space to toggle, 'd' to delete, drag rows to reorder.",
	}
	m.refresh()
	return m
}

func Run(store *task.Store, prefStore PreferenceStore, cfg config.Config, logger *slog.Logger) error {
	program := tea.NewProgram(New(store, prefStore, cfg, logger), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case statusMsg:
		m.status = string(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode == modeAdd {
		return m.updateAddMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		created, err := m.store.Add(m.input.Value(), m.prefs.InsertAtFront)
		if errors.Is(err, task.ErrInvalidInput) {
			m.status = "Task cannot be empty"
			return m, nil
		}
		if err != nil {
			m.logger.Error("add task", "err", err)
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.refresh()
		if i := m.indexOf(created.ID); i >= 0 {
			m.cursor = i
		}
		m.status = "Added task"
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.view))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.view))
	case m.cfg.Keys.Add:
		m.cancelDrag()
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Add mode: type a task and press Enter"
	case m.cfg.Keys.Cancel:
		if m.engine.State() == reorder.Dragging {
			m.engine.Cancel()
			m.status = "Move cancelled"
		}
	case m.cfg.Keys.Toggle:
		m.cancelDrag()
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Toggle(t.ID); err != nil {
			m.logger.Error("toggle task", "id", t.ID, "err", err)
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Toggled task"
	case m.cfg.Keys.Delete:
		m.cancelDrag()
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.prefs.ConfirmDeletion {
			m.confirmDel = true
			m.pendingDel = &t
			m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
			return m, nil
		}
		return m.deleteTask(t.ID)
	case m.cfg.Keys.Copy:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, copyCmd(m.copyText, t.Text)
	case m.cfg.Keys.MoveUp:
		return m.moveSelected(-1)
	case m.cfg.Keys.MoveDown:
		return m.moveSelected(1)
	case m.cfg.Keys.FilterAll:
		m.setFilter(task.FilterAll)
	case m.cfg.Keys.FilterActive:
		m.setFilter(task.FilterActive)
	case m.cfg.Keys.FilterCompleted:
		m.setFilter(task.FilterCompleted)
	case m.cfg.Keys.CycleFilter:
		m.setFilter(m.filter.Next())
	case m.cfg.Keys.ToggleConfirm:
		next := m.prefs
		next.ConfirmDeletion = !next.ConfirmDeletion
		return m.savePrefs(next)
	case m.cfg.Keys.TogglePosition:
		next := m.prefs
		next.InsertAtFront = !next.InsertAtFront
		return m.savePrefs(next)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		id := m.pendingDel.ID
		m.confirmDel = false
		m.pendingDel = nil
		return m.deleteTask(id)
	default:
		return m, nil
	}
}

func (m Model) deleteTask(id int64) (tea.Model, tea.Cmd) {
	if err := m.store.Remove(id); err != nil {
		m.logger.Error("remove task", "id", id, "err", err)
		m.status = fmt.Sprintf("delete failed: %v", err)
		return m, nil
	}
	m.refresh()
	m.status = "Deleted task"
	return m, nil
}

func (m Model) savePrefs(next persist.Preferences) (tea.Model, tea.Cmd) {
	if err := m.prefStore.SavePreferences(next); err != nil {
		m.logger.Error("save preferences", "err", err)
		m.status = fmt.Sprintf("saving settings failed: %v", err)
		return m, nil
	}
	m.prefs = next
	m.status = fmt.Sprintf("Confirm deletion: %s • New tasks go to the %s", onOff(m.prefs.ConfirmDeletion), position(m.prefs.InsertAtFront))
	return m, nil
}

// cancelDrag drops a drag in progress. Anything that changes the collection
// or the projection calls it first, since the tentative order would go stale.
func (m *Model) cancelDrag() {
	if m.engine.State() == reorder.Dragging {
		m.engine.Cancel()
	}
}

func (m *Model) setFilter(f task.Filter) {
	m.cancelDrag()
	m.filter = f
	m.refresh()
	m.cursor = 0
	m.status = "Showing " + f.String()
}

// moveSelected drives the reorder engine with the pointer placed in the
// upper half of the previous row or the lower half of the next one.
func (m Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	ids := m.visibleIDs()
	target := m.cursor + delta
	if m.cursor < 0 || m.cursor >= len(ids) || target < 0 || target >= len(ids) {
		return m, nil
	}
	if err := m.engine.Start(ids[m.cursor], ids); err != nil {
		return m.reorderFailed(err)
	}
	row := m.rowFor(target)
	y := row.Top
	if delta > 0 {
		y = row.Top + row.Height - 1
	}
	m.engine.Move(reorder.Pointer{Row: &row, Y: y})
	return m.endDrag()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeList || m.confirmDel {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row := m.rowAt(msg.Y)
		if row == nil || row.Placeholder {
			return m, nil
		}
		m.cursor = m.indexOf(row.ID)
		if m.cfg.DragHandleOnly && !onHandle(msg.X) {
			return m, nil
		}
		if err := m.engine.Start(row.ID, m.visibleIDs()); err != nil {
			return m.reorderFailed(err)
		}
		m.status = "Moving task"
	case tea.MouseActionMotion:
		if m.engine.State() != reorder.Dragging {
			return m, nil
		}
		m.engine.Move(reorder.Pointer{Row: m.rowAt(msg.Y), Y: float64(msg.Y)})
	case tea.MouseActionRelease:
		if m.engine.State() != reorder.Dragging {
			return m, nil
		}
		return m.endDrag()
	}
	return m, nil
}

func (m Model) endDrag() (tea.Model, tea.Cmd) {
	id, _, _ := m.engine.Dragged()
	if err := m.engine.End(); err != nil {
		return m.reorderFailed(err)
	}
	m.refresh()
	if i := m.indexOf(id); i >= 0 {
		m.cursor = i
	}
	m.status = "Moved task"
	return m, nil
}

func (m Model) reorderFailed(err error) (tea.Model, tea.Cmd) {
	m.logger.Error("reorder tasks", "err", err)
	m.engine.Cancel()
	m.refresh()
	m.status = fmt.Sprintf("move failed: %v", err)
	return m, nil
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return statusMsg("Copy failed: " + err.Error())
		}
		return statusMsg("Copied: " + text)
	}
}

func (m *Model) refresh() {
	m.view = task.Project(m.store.All(), m.filter)
	m.cursor = clampCursor(m.cursor, len(m.view))
}

func (m Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return task.Task{}, false
	}
	return m.view[m.cursor], true
}

// visibleIDs is the order rows are drawn in: the tentative drag order while
// dragging, the projection otherwise.
func (m Model) visibleIDs() []int64 {
	if order := m.engine.Order(); order != nil {
		return order
	}
	return task.IDs(m.view)
}

func (m Model) indexOf(id int64) int {
	return slices.Index(m.visibleIDs(), id)
}

func (m Model) rowFor(i int) reorder.Row {
	return reorder.Row{
		ID:     m.visibleIDs()[i],
		Top:    float64(headerLines + i*rowHeight),
		Height: rowHeight,
	}
}

// rowAt maps a screen line to the row drawn there. The empty-list message
// comes back as a placeholder row.
func (m Model) rowAt(y int) *reorder.Row {
	if y < headerLines {
		return nil
	}
	i := (y - headerLines) / rowHeight
	ids := m.visibleIDs()
	if len(ids) == 0 && i == 0 {
		return &reorder.Row{Top: headerLines, Height: rowHeight, Placeholder: true}
	}
	if i >= len(ids) {
		return nil
	}
	row := m.rowFor(i)
	return &row
}

func onHandle(x int) bool {
	return x >= handleCol && x < handleCol+handleWidth
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Tasks [%s]", m.filter)))
	b.WriteString("\n\n")

	b.WriteString(m.renderTaskList())

	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString("Add Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTaskList() string {
	ids := m.visibleIDs()
	if len(ids) == 0 {
		return "  No tasks.\n\n"
	}
	byID := make(map[int64]task.Task, len(m.view))
	for _, t := range m.view {
		byID[t.ID] = t
	}
	dragged, _, dragging := m.engine.Dragged()

	var b strings.Builder
	for i, id := range ids {
		t := byID[id]
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}
		line := fmt.Sprintf("%s ⠿ %s %s", cursor, checkbox, text)
		if dragging && id == dragged {
			line = dragStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s copy • %s/%s reorder • %s/%s/%s/%s filter • %s confirm • %s position • %s quit",
		k.Up, k.Down, k.Add, keyName(k.Toggle), k.Delete, k.Copy, k.MoveUp, k.MoveDown,
		k.FilterAll, k.FilterActive, k.FilterCompleted, k.CycleFilter, k.ToggleConfirm, k.TogglePosition, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func position(front bool) string {
	if front {
		return "top"
	}
	return "bottom"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
