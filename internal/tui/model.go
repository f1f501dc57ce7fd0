// Package tui is the interactive todo table.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todotable/internal/logging"
	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/store"
	"github.com/idilsaglam/todotable/internal/ui"
	"github.com/idilsaglam/todotable/internal/validate"
)

// Store is what the table needs from the state container.
type Store interface {
	Fetch(ctx context.Context) error
	Create(ctx context.Context, t model.Todo) (model.Todo, error)
	Update(ctx context.Context, t model.Todo) (model.Todo, error)
	Delete(ctx context.Context, id int) (int, error)
	Snapshot() store.State
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirm
)

// stateMsg delivers a new store state.
type stateMsg store.State

// opDoneMsg reports a finished store call.
type opDoneMsg struct {
	op  string // fetch, create, update, delete
	id  int
	err error
}

// Model is the Bubble Tea model for the table. It only reads store state;
// every change goes through the Store.
type Model struct {
	ctx     context.Context
	store   Store
	changes Changes
	log     *slog.Logger

	state   store.State
	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	mode      mode
	form      *huh.Form
	formTheme *huh.Theme
	values    *formValues
	editingID int // 0 while creating

	// fieldErrs is the validation result of the last rejected submit.
	// Cleared whenever the modal closes.
	fieldErrs validate.Errors

	pendingDelete model.Todo

	notice string
	failed bool // notice is an error

	width, height int
}

// Option configures the Model.
type Option func(*Model)

// WithContext sets the context passed to store calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithChanges subscribes the table to store changes.
func WithChanges(c Changes) Option {
	return func(m *Model) { m.changes = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = logging.Component(l, "tui") }
}

// New creates the table model on top of st.
func New(st Store, opts ...Option) Model {
	t := ui.Current()

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(t.BorderColor).BorderBottom(true).Bold(true)
	ts.Selected = t.Selected
	tbl.SetStyles(ts)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = t.Accent

	formTheme := huh.ThemeCharm()
	if t.Name == "mono" {
		formTheme = huh.ThemeBase()
	}

	m := Model{
		ctx:       context.Background(),
		store:     st,
		log:       logging.Nop(),
		table:     tbl,
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeys(),
		formTheme: formTheme,
		width:     80,
		height:    24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.state = st.Snapshot()
	m.syncRows()
	return m
}

func columns(width int) []table.Column {
	const idW, doneW = 6, 15
	todoW := width - idW - doneW - 10
	if todoW < 10 {
		todoW = 10
	}
	return []table.Column{
		{Title: "Id", Width: idW},
		{Title: "Todo", Width: todoW},
		{Title: "Completed", Width: doneW},
	}
}

// Init starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), m.waitForChange())
}

func (m Model) fetch() tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: "fetch", err: st.Fetch(ctx)}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func (m Model) create(t model.Todo) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		created, err := st.Create(ctx, t)
		return opDoneMsg{op: "create", id: created.ID, err: err}
	}
}

func (m Model) update(t model.Todo) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := st.Update(ctx, t)
		return opDoneMsg{op: "update", id: t.ID, err: err}
	}
}

func (m Model) remove(id int) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := st.Delete(ctx, id)
		return opDoneMsg{op: "delete", id: id, err: err}
	}
}

func (m Model) loading() bool {
	return m.state.Status == store.Idle || m.state.Status == store.Loading
}

// Update handles store messages first, then input for the current mode.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = store.State(msg)
		m.syncRows()
		return m, m.waitForChange()

	case opDoneMsg:
		return m.finished(msg), nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columns(msg.Width))
		h := msg.Height - 10
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		m.help.Width = msg.Width
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m, nil
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirm:
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.updateConfirm(k)
		}
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		return m.updateBrowse(k)
	}
	return m, nil
}

func (m Model) finished(msg opDoneMsg) Model {
	if m.changes == nil {
		m.state = m.store.Snapshot()
		m.syncRows()
	}
	if msg.err != nil {
		m.log.Warn("operation failed", "op", msg.op, "id", msg.id, "error", msg.err)
		if msg.op != "fetch" {
			// fetch failures show through the status instead
			m.notice, m.failed = fmt.Sprintf("%s failed: %v", msg.op, msg.err), true
		}
		return m
	}
	switch msg.op {
	case "create":
		m.notice, m.failed = fmt.Sprintf("created #%d", msg.id), false
	case "update":
		m.notice, m.failed = fmt.Sprintf("updated #%d", msg.id), false
	case "delete":
		m.notice, m.failed = fmt.Sprintf("deleted #%d", msg.id), false
	}
	return m
}

func (m Model) updateBrowse(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Refresh):
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	}

	if m.state.Status != store.Succeeded {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Create):
		return m.openForm(nil)
	case key.Matches(k, m.keys.Edit):
		if t, ok := m.selected(); ok {
			return m.openForm(&t)
		}
		return m, nil
	case key.Matches(k, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.pendingDelete = t
			m.mode = modeConfirm
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(k)
	return m, cmd
}

func (m Model) updateConfirm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, confirmYes):
		id := m.pendingDelete.ID
		m.mode, m.pendingDelete = modeBrowse, model.Todo{}
		m.notice = ""
		return m, m.remove(id)
	case key.Matches(k, confirmNo):
		m.mode, m.pendingDelete = modeBrowse, model.Todo{}
		return m, nil
	case key.Matches(k, forceQuit):
		return m, tea.Quit
	}
	return m, nil
}

// openForm shows the modal for t, or for a new todo when t is nil.
func (m Model) openForm(t *model.Todo) (tea.Model, tea.Cmd) {
	if t == nil {
		m.values = &formValues{}
		m.editingID = 0
	} else {
		m.values = valuesOf(*t)
		m.editingID = t.ID
	}
	m.fieldErrs = nil
	m.notice = ""
	m.mode = modeForm
	m.form = newForm(m.values, m.editingID == 0, m.formTheme)
	return m, m.form.Init()
}

func (m Model) closeForm() Model {
	m.mode = modeBrowse
	m.form = nil
	m.values = nil
	m.editingID = 0
	m.fieldErrs = nil
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, closeForm):
			return m.closeForm(), nil
		case key.Matches(k, forceQuit):
			return m, tea.Quit
		}
	}
	if m.form == nil {
		return m.closeForm(), nil
	}

	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		return m.closeForm(), nil
	}
	return m, cmd
}

// submit runs the validator over the whole draft before anything is sent.
// A rejected draft keeps the modal open with the entered values.
func (m Model) submit() (tea.Model, tea.Cmd) {
	d := m.values.draft()
	if errs := validate.Todo(d); errs.Any() {
		m.fieldErrs = errs
		m.form = newForm(m.values, m.editingID == 0, m.formTheme)
		return m, m.form.Init()
	}

	id := m.editingID
	m = m.closeForm()
	if id == 0 {
		return m, m.create(d.Todo(0))
	}
	return m, m.update(d.Todo(id))
}

func (m Model) selected() (model.Todo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.state.Todos) {
		return model.Todo{}, false
	}
	return m.state.Todos[i], true
}

func (m *Model) syncRows() {
	rows := make([]table.Row, 0, len(m.state.Todos))
	for _, t := range m.state.Todos {
		rows = append(rows, table.Row{strconv.Itoa(t.ID), t.Title, model.Label(t.Completed)})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}
