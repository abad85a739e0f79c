// Package tui is the interactive action browser/runner. Grounded on
// pkg/tui/app.go's bubbletea program shape (model/Init/Update/View, alt
// screen, lipgloss-styled header+container+help layout) and styles.go's
// palette, with the chat-agent domain replaced by an action list + run
// view over pkg/store and pkg/engine. charmbracelet/huh backs the
// re-run confirmation for destructive verbs (new: the original has no
// TUI-level confirmation, pkg/core/tools/shared/confirmation.go's
// channel-based confirm manager is this feature's nearest teacher
// analogue for file writes); charmbracelet/glamour renders the response
// body as a fenced code block.
package tui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackcoderx/talon/pkg/engine"
	"github.com/blackcoderx/talon/pkg/store"
)

var destructiveVerbs = map[string]bool{"POST": true, "PUT": true, "DELETE": true, "PATCH": true}

type actionItem struct {
	action store.Action
}

func (i actionItem) Title() string { return i.action.Name }
func (i actionItem) Description() string {
	if len(i.action.Chain) == 0 {
		return "(empty chain)"
	}
	return fmt.Sprintf("%s %s · %d step(s)", i.action.Chain[0].Verb, i.action.Chain[0].URL, len(i.action.Chain))
}
func (i actionItem) FilterValue() string { return i.action.Name }

type screen int

const (
	screenList screen = iota
	screenResult
)

// Model is the bubbletea model for the action browser.
type Model struct {
	store   store.Store
	engine  *engine.Engine
	project string
	list    list.Model
	screen  screen

	resultTitle string
	resultBody  string
	err         error

	width, height int
}

// New constructs the action-browser Model, loading project's actions from s.
func New(s store.Store, e *engine.Engine, project string) (Model, error) {
	actions, err := s.GetActions(project)
	if err != nil {
		return Model{}, err
	}

	items := make([]list.Item, 0, len(actions))
	for _, a := range actions {
		items = append(items, actionItem{action: a})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Actions — " + project
	l.Styles.Title = titleStyle

	return Model{store: s, engine: e, project: project, list: l, screen: screenList}, nil
}

// Run starts the action-browser program.
func Run(s store.Store, e *engine.Engine, project string) error {
	m, err := New(s, e, project)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

type runResultMsg struct {
	title string
	body  string
	err   error
}

type confirmDeclinedMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.screen == screenResult {
				m.screen = screenList
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if m.screen == screenList {
				if item, ok := m.list.SelectedItem().(actionItem); ok {
					return m, m.startRun(item.action)
				}
			}
			return m, nil
		case "esc":
			m.screen = screenList
			return m, nil
		}

	case runResultMsg:
		m.screen = screenResult
		m.resultTitle = msg.title
		m.resultBody = msg.body
		m.err = msg.err
		return m, nil

	case confirmDeclinedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// startRun confirms destructive verbs via huh before dispatching, then runs
// the action's chain through the engine.
func (m Model) startRun(action store.Action) tea.Cmd {
	return func() tea.Msg {
		if needsConfirmation(action) {
			confirmed := false
			form := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Run %q? This action dispatches a %s request.", action.Name, action.Chain[0].Verb)).
					Value(&confirmed),
			))
			if err := form.Run(); err != nil {
				return runResultMsg{title: action.Name, err: err}
			}
			if !confirmed {
				return confirmDeclinedMsg{}
			}
		}

		ctx, err := m.store.GetConf()
		if err != nil {
			ctx = map[string]string{}
		}
		results, runErr := m.engine.RunChain(context.Background(), action.Chain, ctx, &action, true)
		return runResultMsg{title: action.Name, body: formatResults(results), err: runErr}
	}
}

func needsConfirmation(action store.Action) bool {
	for _, step := range action.Chain {
		if destructiveVerbs[step.Verb] {
			return true
		}
	}
	return false
}

func formatResults(results []engine.StepResult) string {
	var out string
	for i, step := range results {
		out += fmt.Sprintf("### Step %d\n\n", i+1)
		for _, record := range step.Records {
			if record.Err != nil {
				out += fmt.Sprintf("- `%s` → error: %s\n", record.URL, record.Err)
				continue
			}
			pretty := record.Result.Response
			var asJSON any
			if json.Unmarshal([]byte(record.Result.Response), &asJSON) == nil {
				if b, err := json.MarshalIndent(asJSON, "", "  "); err == nil {
					pretty = string(b)
				}
			}
			out += fmt.Sprintf("- `%s` → %d\n\n```json\n%s\n```\n\n", record.URL, record.Result.Status, pretty)
		}
		for _, check := range step.Checks {
			status := "pass"
			if !check.Success {
				status = "FAIL"
			}
			out += fmt.Sprintf("expectations: %s\n", status)
		}
	}
	if out == "" {
		out = "(no output)"
	}
	return out
}

func (m Model) View() string {
	switch m.screen {
	case screenResult:
		return m.renderResult()
	default:
		return containerStyle.Render(m.list.View()) + "\n" + helpStyle.Render("enter run · q/esc back · ctrl+c quit")
	}
}

func (m Model) renderResult() string {
	header := titleStyle.Render(m.resultTitle)
	body := m.resultBody
	if renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(40, m.width-4))); err == nil {
		if rendered, rErr := renderer.Render(body); rErr == nil {
			body = rendered
		}
	}
	if m.err != nil {
		body += "\n" + errorStyle.Render("error: "+m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, helpStyle.Render("esc/q back to list"))
}
