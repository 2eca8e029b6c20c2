package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// progressEvery controls how often the non-TTY sink reports ticks
const progressEvery = 50

// Progress receives transport progress. It satisfies sync.Sink.
type Progress interface {
	Start(title string)
	Tick(n int)
	Done(err error)
}

// NewProgress creates the appropriate progress sink based on TTY availability
func NewProgress(splog *Splog) Progress {
	if IsTTY() {
		return NewTTYProgress(splog)
	}
	return NewSimpleProgress(splog)
}

// SimpleProgress prints progress line by line (non-TTY)
type SimpleProgress struct {
	splog *Splog
	title string
}

// NewSimpleProgress creates a new line-based progress sink
func NewSimpleProgress(splog *Splog) *SimpleProgress {
	return &SimpleProgress{splog: OrDiscard(splog)}
}

func (p *SimpleProgress) Start(title string) {
	p.title = title
	p.splog.Info("  ⋯ %s...", title)
}

func (p *SimpleProgress) Tick(n int) {
	if n > 0 && n%progressEvery == 0 {
		p.splog.Debug("  [%d] %s still in progress", n, p.title)
	}
}

func (p *SimpleProgress) Done(err error) {
	if err != nil {
		p.splog.Info("  ✗ %s failed: %v", p.title, err)
		return
	}
	p.splog.Info("  ✓ %s", p.title)
}

// TTYProgress uses bubbletea for an animated spinner (TTY)
type TTYProgress struct {
	splog   *Splog
	program *tea.Program
	exited  chan struct{}
}

// NewTTYProgress creates a new spinner progress sink
func NewTTYProgress(splog *Splog) *TTYProgress {
	return &TTYProgress{splog: OrDiscard(splog)}
}

func (p *TTYProgress) Start(title string) {
	p.program = tea.NewProgram(newProgressModel(title), tea.WithInput(nil), tea.WithOutput(os.Stderr))
	p.exited = make(chan struct{})

	// Run program in background
	go func() {
		defer close(p.exited)
		_, _ = p.program.Run()
	}()
}

func (p *TTYProgress) Tick(n int) {
	if p.program == nil {
		return
	}
	p.program.Send(progressTickMsg(n))
}

func (p *TTYProgress) Done(err error) {
	if p.program == nil {
		return
	}
	p.program.Send(progressDoneMsg{err: err})
	<-p.exited
	p.program = nil
}

type progressTickMsg int

type progressDoneMsg struct {
	err error
}

type progressModel struct {
	title   string
	ticks   int
	spinner spinner.Model
	done    bool
	err     error
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return progressModel{title: title, spinner: s}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressTickMsg:
		m.ticks = int(msg) + 1
		return m, nil
	case progressDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	switch {
	case m.done && m.err != nil:
		return fmt.Sprintf("  %s %s: %v\n", errorStyle.Render("✗"), m.title, m.err)
	case m.done:
		return fmt.Sprintf("  %s %s\n", doneStyle.Render("✓"), m.title)
	case m.ticks > 0:
		return fmt.Sprintf("  %s %s %s\n", m.spinner.View(), m.title, dimStyle.Render(fmt.Sprintf("[%d]", m.ticks)))
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), m.title)
}
