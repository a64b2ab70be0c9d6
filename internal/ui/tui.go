// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/flowtask/internal/quote"
	"github.com/nibzard/flowtask/internal/tasklist"
	"github.com/nibzard/flowtask/internal/todo"
)

// How long notifications and achievement banners stay on screen.
const (
	noticeDuration = 3 * time.Second
	bannerDuration = 3 * time.Second
)

// quoteRefreshChance is the probability of a new quote after completing a task.
const quoteRefreshChance = 0.33

// QuoteFetcher supplies quotes. *quote.Fetcher satisfies it.
type QuoteFetcher interface {
	Fetch(ctx context.Context) quote.Quote
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	theme    string
	priority todo.Priority
	random   func() float64
}

// WithTheme selects the day or night palette.
func WithTheme(theme string) TUIOption {
	return func(c *tuiConfig) {
		c.theme = theme
	}
}

// WithPriority sets the priority preselected for new tasks.
func WithPriority(p todo.Priority) TUIOption {
	return func(c *tuiConfig) {
		if p.Valid() {
			c.priority = p
		}
	}
}

// WithRandom sets the source of the chance-based quote refresh.
func WithRandom(random func() float64) TUIOption {
	return func(c *tuiConfig) {
		if random != nil {
			c.random = random
		}
	}
}

// RunTUI runs the task list UI until the user quits or ctx is canceled.
func RunTUI(ctx context.Context, list *tasklist.List, quotes QuoteFetcher, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, list, quotes, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeWarning
)

type tuiModel struct {
	ctx    context.Context
	list   *tasklist.List
	quotes QuoteFetcher
	styles styles
	random func() float64

	rows     []todo.Task
	cursor   int
	priority todo.Priority
	mode     inputMode
	editID   int
	input    textinput.Model

	quote        quote.Quote
	quoteLoading bool

	notice     string
	noticeKind noticeKind
	noticeSeq  int
	banner     string
	bannerSeq  int

	width int
}

type quoteMsg struct {
	quote quote.Quote
}

type clearNoticeMsg struct{ seq int }

type clearBannerMsg struct{ seq int }

func newTUIModel(ctx context.Context, list *tasklist.List, quotes QuoteFetcher, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		theme:    "day",
		priority: todo.PriorityHigh,
		random:   rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}

	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200
	input.Prompt = "> "

	m := &tuiModel{
		ctx:      ctx,
		list:     list,
		quotes:   quotes,
		styles:   newStyles(c.theme),
		random:   c.random,
		priority: c.priority,
		input:    input,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return m.fetchQuote()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case quoteMsg:
		m.quote = msg.quote
		m.quoteLoading = false
		return m, nil
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	case clearBannerMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a", "i":
		m.mode = modeAdd
		m.input.SetValue("")
		return m, m.input.Focus()
	case "e":
		task, ok := m.current()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = task.ID
		m.input.SetValue(task.Text)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "enter", " ", "space", "x":
		return m, m.toggle()
	case "d", "delete":
		return m, m.delete()
	case "1":
		m.priority = todo.PriorityHigh
	case "2":
		m.priority = todo.PriorityMedium
	case "3":
		m.priority = todo.PriorityLow
	case "r":
		return m, m.fetchQuote()
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.leaveInput()
		return m, nil
	case "enter":
		if m.mode == modeAdd {
			return m, m.add()
		}
		return m, m.edit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) leaveInput() {
	m.mode = modeBrowse
	m.editID = 0
	m.input.SetValue("")
	m.input.Blur()
}

func (m *tuiModel) add() tea.Cmd {
	before := m.list.Stats()
	res, err := m.list.Add(m.ctx, m.input.Value(), m.priority)
	if err != nil {
		var ve *todo.ValidationError
		if errors.As(err, &ve) && errors.Is(err, todo.ErrEmptyText) {
			return m.notify("Please enter a task description!", noticeWarning)
		}
		return m.notify(err.Error(), noticeWarning)
	}
	m.input.SetValue("")
	m.refresh()
	m.focus(res.Task.ID)
	return tea.Batch(
		m.notify("Task added successfully!", noticeSuccess),
		m.celebrate(before, res, tasklist.OpAdd),
	)
}

func (m *tuiModel) edit() tea.Cmd {
	id := m.editID
	before := m.list.Stats()
	res := m.list.Edit(m.ctx, id, m.input.Value())
	m.leaveInput()
	if !res.Changed {
		return nil
	}
	m.refresh()
	m.focus(id)
	return tea.Batch(
		m.notify("Task updated!", noticeSuccess),
		m.celebrate(before, res, tasklist.OpEdit),
	)
}

func (m *tuiModel) toggle() tea.Cmd {
	task, ok := m.current()
	if !ok {
		return nil
	}
	before := m.list.Stats()
	res := m.list.Toggle(m.ctx, task.ID)
	if !res.Changed {
		return nil
	}
	m.refresh()
	m.focus(task.ID)

	cmds := []tea.Cmd{m.celebrate(before, res, tasklist.OpToggle)}
	if res.Task.Completed {
		cmds = append(cmds, m.notify("Task completed!", noticeSuccess))
		if m.random() < quoteRefreshChance {
			cmds = append(cmds, m.fetchQuote())
		}
	} else {
		cmds = append(cmds, m.notify("Task marked as pending!", noticeSuccess))
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) delete() tea.Cmd {
	task, ok := m.current()
	if !ok {
		return nil
	}
	before := m.list.Stats()
	res := m.list.Delete(m.ctx, task.ID)
	if !res.Changed {
		return nil
	}
	m.refresh()
	return tea.Batch(
		m.notify("Task deleted!", noticeWarning),
		m.celebrate(before, res, tasklist.OpDelete),
	)
}

// celebrate shows earned milestones and refreshes the quote when one asks for it.
func (m *tuiModel) celebrate(before todo.Stats, res tasklist.Result, op tasklist.Op) tea.Cmd {
	milestones := Milestones(before, res.Stats, op)
	if len(milestones) == 0 {
		return nil
	}
	titles := make([]string, 0, len(milestones))
	refresh := false
	for _, ms := range milestones {
		titles = append(titles, ms.Title)
		refresh = refresh || ms.RefreshQuote
	}
	m.banner = strings.Join(titles, "  ")
	m.bannerSeq++
	seq := m.bannerSeq

	cmds := []tea.Cmd{tea.Tick(bannerDuration, func(time.Time) tea.Msg {
		return clearBannerMsg{seq: seq}
	})}
	if refresh {
		cmds = append(cmds, m.fetchQuote())
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) notify(text string, kind noticeKind) tea.Cmd {
	m.notice = text
	m.noticeKind = kind
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m *tuiModel) fetchQuote() tea.Cmd {
	if m.quotes == nil {
		return nil
	}
	m.quoteLoading = true
	ctx, quotes := m.ctx, m.quotes
	return func() tea.Msg {
		return quoteMsg{quote: quotes.Fetch(ctx)}
	}
}

// refresh recomputes the display rows and clamps the cursor.
func (m *tuiModel) refresh() {
	m.rows = m.list.Sorted()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// focus moves the cursor to the row holding id, if any.
func (m *tuiModel) focus(id int) {
	for i, t := range m.rows {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *tuiModel) current() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return todo.Task{}, false
	}
	return m.rows[m.cursor], true
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)
	m.writeQuote(&b)
	m.writeStats(&b)
	m.writeInput(&b)
	m.writeTasks(&b)
	m.writeStatus(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	b.WriteString(m.styles.title.Render("FlowTask"))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeQuote(b *strings.Builder) {
	switch {
	case m.quote.Text != "":
		text := fmt.Sprintf("%q", m.quote.Text)
		if m.quote.Author != "" {
			text += "\n" + m.styles.author.Render("- "+m.quote.Author)
		}
		b.WriteString(m.styles.quote.Render(text))
	case m.quoteLoading:
		b.WriteString(m.styles.muted.Render("Loading inspiration..."))
	default:
		return
	}
	b.WriteString("\n\n")
}

func (m *tuiModel) writeStats(b *strings.Builder) {
	s := m.list.Stats()
	b.WriteString(m.styles.stats.Render(fmt.Sprintf("Total: %d  Completed: %d  Pending: %d", s.Total, s.Completed, s.Pending)))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	priority := m.styles.priorityStyle(m.priority).Render(m.priority.Label())
	switch m.mode {
	case modeAdd:
		b.WriteString("New task (" + priority + ")\n")
		b.WriteString(m.input.View())
	case modeEdit:
		b.WriteString(fmt.Sprintf("Edit task #%d\n", m.editID))
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.styles.muted.Render("New tasks: ") + priority)
	}
	b.WriteString("\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.rows) == 0 {
		b.WriteString(m.styles.muted.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n\n")
		return
	}
	for i, t := range m.rows {
		cursor := "  "
		if i == m.cursor && m.mode == modeBrowse {
			cursor = m.styles.cursor.Render("> ")
		}
		b.WriteString(cursor + m.formatTask(t) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) formatTask(t todo.Task) string {
	checkbox := "[ ]"
	text := m.styles.text.Render(t.Text)
	if t.Completed {
		checkbox = "[x]"
		text = m.styles.done.Render(t.Text)
	}
	meta := m.styles.priorityStyle(t.Priority).Render(t.Priority.Label()) +
		m.styles.muted.Render(" • "+t.CreatedAt.Local().Format("Mon, Jan 2"))
	return fmt.Sprintf("%s %s  %s", checkbox, text, meta)
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if m.banner != "" {
		b.WriteString(m.styles.banner.Render("🎉 " + m.banner))
		b.WriteString("\n")
	}
	if m.notice != "" {
		style := m.styles.success
		if m.noticeKind == noticeWarning {
			style = m.styles.warning
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}
	if m.banner != "" || m.notice != "" {
		b.WriteString("\n")
	}
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	if m.mode != modeBrowse {
		b.WriteString(m.styles.muted.Render("enter save | esc cancel"))
		b.WriteString("\n")
		return
	}
	b.WriteString(m.styles.muted.Render("a add | enter/x toggle | e edit | d delete | 1/2/3 priority | r quote | q quit"))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
