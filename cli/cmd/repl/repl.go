package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avon-lang/avon/lang"
	"github.com/avon-lang/avon/log"
)

// Messages produced by the external editor command.
type (
	// editSourceMsg carries a parseable expression back from $EDITOR.
	editSourceMsg struct{ source string }
	// editCancelledMsg reports that the user emptied the editor buffer.
	editCancelledMsg struct{}
	// editDeclinedMsg reports that the user refused to fix a parse error.
	editDeclinedMsg struct{}
	// editErrorMsg carries any other editor failure.
	editErrorMsg struct{ err error }
)

const (
	evalPrompt = "λ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Show this help
  list     List session bindings
  edit     Edit an expression in external $EDITOR
  clear    Clear screen
  quit     Exit the session

Usage:
  Type an expression to evaluate it.
  'let name = expr' binds name for the rest of the session.
  Completions appear as you type; Tab / Shift-Tab cycles candidates.
  Esc toggles between expression and command modes.
  Up/Down walk history across modes, Shift+Up/Down within this mode.
  Ctrl+C on an empty line or Ctrl+D exits.
`
}

// inputMode distinguishes expression input from the colon command line.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Terminal palette indices.
const (
	colorError      = lipgloss.Color("1")
	colorResult     = lipgloss.Color("2")
	colorAccent     = lipgloss.Color("4")
	colorCtrl       = lipgloss.Color("5")
	colorPrompt     = lipgloss.Color("6")
	colorDim        = lipgloss.Color("8")
	colorForeground = lipgloss.Color("15")
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(colorPrompt).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(colorCtrl).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(colorForeground)
	resultStyle     = lipgloss.NewStyle().Foreground(colorResult)
	errorStyle      = lipgloss.NewStyle().Foreground(colorError)
	hintStyle       = lipgloss.NewStyle().Foreground(colorDim)
	suggestionStyle = lipgloss.NewStyle().Foreground(colorAccent)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(colorAccent)
)

// echoEval renders a submitted expression the way it looked at the prompt.
func echoEval(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// echoCtrl renders a submitted colon command the way it looked at the prompt.
func echoCtrl(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the session.
type model struct {
	ctxFunc func() context.Context
	input   textinput.Model

	// Session state. env grows by one frame per bare let; bindings
	// remembers the names in the order they were introduced.
	env       *lang.Env
	bindings  []string
	lastInput string // last eval submission, seeds the editor

	history    *History
	historyIdx int

	// Completion state.
	matches      fuzzy.Matches
	candidates   []string
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string // input before tab-cycling began
	preTabCursor int

	width    int
	quitting bool

	// Each mode keeps its own pending input so toggling is lossless.
	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts an interactive session. Bindings made with bare 'let'
// persist for the life of the session on top of the builtin
// environment.
func Run(ctx context.Context, cacheDir string) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	log.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	log.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, history)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		env:        lang.NewRootEnv(),
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editSourceMsg:
		log.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("source_length", len(msg.source)),
		)

		return m.evalInput(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("edit error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// View draws the prompt line plus one status line beneath it. The status
// line shows, in priority order, the history position, an idle hint, the
// signature of the function under the cursor, or the completion bar.
func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	browsing := m.historyIdx < m.history.Len()
	call := detectApplication(input, m.input.Position())

	switch {
	case browsing:
		pos := lipgloss.NewStyle().Bold(true).
			Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(
			fmt.Sprintf("%s/%d", pos, m.history.Len()),
		))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: help, list, edit, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case call.inCall && m.mode == modeEval:
		signature, params := getSignature(m.env, call.name)

		switch {
		case signature != "":
			b.WriteString(renderSignatureHint(signature, params, call.argIndex))
		case len(m.matches) > 0:
			b.WriteString(m.renderCandidateBar())
		}

		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(m.renderCandidateBar())
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		// First Ctrl+C clears the line; on an empty line it quits.
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		recomplete(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Accept the highlighted candidate without executing.
			m.tabActive = false
			recomplete(&m, true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyStep(-1)

	case tea.KeyDown:
		return m.historyStep(+1)

	case tea.KeyShiftUp:
		return m.historyStepInMode(-1)

	case tea.KeyShiftDown:
		return m.historyStepInMode(+1)

	case tea.KeyEsc:
		// Esc cancels tab-cycling before it toggles modes.
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			recomplete(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Space accepts the current tab candidate and keeps typing.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		recomplete(&m, true)

		return m, cmd
	}

	// Backspace, delete, arrows: recompute matches but never
	// auto-confirm, so deletions stay deletions.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	recomplete(&m, false)

	return m, cmd
}

// handleTab cycles the completion candidates forward (dir > 0) or
// backward (dir < 0).
func (m model) handleTab(dir int) (model, tea.Cmd) {
	switch len(m.matches) {
	case 0:
		return m, nil

	case 1:
		// A single candidate completes immediately.
		spliceWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	spliceWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// spliceWord swaps the word under the cursor for replacement and leaves
// the cursor at its end.
func spliceWord(m *model, replacement string) {
	input := m.input.Value()
	end := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(end)

	m.wordEnd = end
}

// recomplete recomputes fuzzy matches for the current input. With confirm
// set, a sole candidate that the typed word already spells out is locked
// in; deletions and cursor motion pass false so editing never completes
// behind the user's back.
func recomplete(m *model, confirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !confirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str

	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		spliceWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// A submission consumes the pending text of both modes.
	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")

	_ = m.history.Append(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		log.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	log.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	return m.evalInput(input)
}

// evalInput parses and evaluates one expression in the session
// environment. A bare 'let name = expr' extends the environment for
// subsequent inputs instead of producing a value.
func (m model) evalInput(input string) (model, tea.Cmd) {
	m.lastInput = input

	echoCmd := tea.Println(echoEval(input))

	expr, err := parseInput(input)
	if err != nil {
		return m, tea.Sequence(echoCmd, errorPrintln(err, input))
	}

	if let, ok := expr.(*lang.LetExpr); ok && let.Body == nil {
		if m.env.Bound(let.Name) {
			return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render(
				"error: '"+let.Name+"' is already bound and cannot be shadowed",
			)))
		}

		val, err := lang.Eval(let.Bound, m.env)
		if err != nil {
			return m, tea.Sequence(echoCmd, errorPrintln(err, input))
		}

		m.env = m.env.Extend(let.Name, val)
		m.bindings = append(m.bindings, let.Name)

		return m, tea.Sequence(echoCmd, tea.Println(
			resultStyle.Render(let.Name+" = "+val.Display()),
		))
	}

	result, err := lang.Eval(expr, m.env)
	if err != nil {
		return m, tea.Sequence(echoCmd, errorPrintln(err, input))
	}

	return m, tea.Sequence(echoCmd, tea.Println(
		resultStyle.Render(result.Display()),
	))
}

func parseInput(input string) (lang.Expr, error) {
	toks, err := lang.Tokenize(input)
	if err != nil {
		return nil, err
	}

	return lang.ParseInteractive(toks)
}

// errorPrintln renders an evaluation error, with source context when the
// error carries a line number.
func errorPrintln(err error, source string) tea.Cmd {
	var lerr *lang.Error
	if errors.As(err, &lerr) {
		return tea.Println(errorStyle.Render(lerr.Pretty(source, "<repl>")))
	}

	return tea.Println(errorStyle.Render("error: " + err.Error()))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(echoCtrl(input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		var editCmd tea.Cmd

		m, editCmd = m.handleEdit()

		return m, tea.Sequence(echoCmd, editCmd)

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() (model, tea.Cmd) {
	cmd := &editExprCommand{seed: m.lastInput}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.source == "" {
			return editCancelledMsg{}
		}

		return editSourceMsg{source: cmd.source}
	})
}

// historyStep walks history by dir, following each entry into the mode it
// was recorded under. Stepping below the newest entry clears the input.
func (m model) historyStep(dir int) (model, tea.Cmd) {
	next := m.historyIdx + dir

	if next < 0 || next > m.history.Len() {
		return m, nil
	}

	if next == m.history.Len() {
		m.historyIdx = next
		m.input.SetValue("")
		recomplete(&m, false)

		return m, nil
	}

	entry, ok := m.history.At(next)
	if !ok {
		return m, nil
	}

	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = next
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	recomplete(&m, false)

	return m, nil
}

// historyStepInMode walks history in the given direction, skipping
// entries recorded under the other mode.
func (m model) historyStepInMode(dir int) (model, tea.Cmd) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, ok := m.history.At(i)
		if !ok {
			continue
		}

		if entry.Mode != m.mode {
			continue
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		recomplete(&m, false)

		return m, nil
	}

	// Walked past the newest in-mode entry: clear input.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		recomplete(&m, false)
	}

	return m, nil
}

func (m model) listBindings() string {
	if len(m.bindings) == 0 {
		return hintStyle.Render("  (no session bindings, try 'let x = 1')")
	}

	var b strings.Builder

	for _, name := range m.bindings {
		val, ok := m.env.Lookup(name)
		if !ok {
			continue
		}

		b.WriteString(fmt.Sprintf("  %s %s\n",
			name, hintStyle.Render(previewValue(val))))
	}

	return b.String()
}

// previewValue renders a short single-line preview of a bound value.
func previewValue(v lang.Value) string {
	s := v.Display()

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}

	if len(s) > 40 {
		return s[:37] + "..."
	}

	return s
}

func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode parks the current mode's input and restores the target
// mode's, so half-typed text survives a round trip through the other
// prompt.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	recomplete(&m, false)

	return m, nil
}
