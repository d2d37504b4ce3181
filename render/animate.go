package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexandro/mdtick/checklist"
)

// DefaultStepDelay is the time between two animation steps.
const DefaultStepDelay = 50 * time.Millisecond

// stepMsg advances every unfinished bar by one completed item.
type stepMsg struct{}

// animationModel fills each bar one completed item per step until all bars show
// their final counts.
type animationModel struct {
	title    string
	layout   barLayout
	outcomes []checklist.Outcome
	shown    []int
	delay    time.Duration
	done     bool
}

func newAnimationModel(outcomes []checklist.Outcome, opts Options) animationModel {
	delay := opts.StepDelay
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	return animationModel{
		title:    opts.Title,
		layout:   newBarLayout(outcomes, opts.BarWidth),
		outcomes: outcomes,
		shown:    make([]int, len(outcomes)),
		delay:    delay,
	}
}

func (m animationModel) Init() tea.Cmd {
	return m.step()
}

func (m animationModel) step() tea.Cmd {
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return stepMsg{} })
}

func (m animationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		if m.advance() {
			return m, m.step()
		}
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.finish()
			return m, tea.Quit
		}
	}
	return m, nil
}

// advance moves every unfinished bar forward by one item. It reports whether any bar moved.
func (m *animationModel) advance() bool {
	if m.shown == nil {
		return false
	}
	shown := make([]int, len(m.shown))
	copy(shown, m.shown)

	moved := false
	for i, o := range m.outcomes {
		if o.OK() && shown[i] < o.Result.Completed {
			shown[i]++
			moved = true
		}
	}
	m.shown = shown
	return moved
}

// finish jumps every bar to its final count.
func (m *animationModel) finish() {
	m.shown = nil
	m.done = true
}

func (m animationModel) View() string {
	view := barsView(m.layout, m.outcomes, m.shown)
	if m.title != "" {
		view = titleStyle.Render(m.title) + "\n" + view
	}
	return view
}

// Animate runs the bars view as a terminal animation. It returns when every bar has
// reached its final value, the user quits, or ctx is cancelled.
func Animate(ctx context.Context, w io.Writer, outcomes []checklist.Outcome, opts Options) error {
	program := tea.NewProgram(
		newAnimationModel(outcomes, opts),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("running animation: %w", err)
	}
	return nil
}
