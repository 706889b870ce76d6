package repl

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/tmpl"
)

func testModel(t *testing.T) model {
	t.Helper()

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	partials := tmpl.PartialsFromStrings(t.Context(), map[string]string{
		"greet": "hi {{name}}",
	})

	return newModel(t.Context(), testData(t), []tmpl.Option{tmpl.WithPartials(partials)},
		history, log.Make(nil))
}

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(m model, k tea.KeyType) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: k})

	return m
}

func TestModel_Render(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		line string
		want string
	}{
		{"{{name}} is {{age}}", "Ann is 30"},
		{"{{#user}}{{first}} in {{address.city}}{{/user}}", "Ann in Oslo"},
		{"{{#items}}{{sku}}={{price}}{{/items}}", "a1=2.5"},
		{"{{> greet}}!", "hi Ann!"},
		{"{{^missing}}none{{/missing}}", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := m.render(tt.line)
			if err != nil {
				t.Fatalf("render(%q) error = %v", tt.line, err)
			}

			if got != tt.want {
				t.Errorf("render(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}

	if _, err := m.render(tests[0].line); err != nil || m.cache.Len() != len(tests) {
		t.Errorf("cache holds %d sources, want %d", m.cache.Len(), len(tests))
	}

	_, err := m.render("{{user}}")
	if err == nil {
		t.Error("render of a map value succeeded")
	}
}

func TestModel_CompleteAndExecute(t *testing.T) {
	m := typeText(testModel(t), "{{na")

	if len(m.matches) != 1 || m.matches[0].Str != "name" {
		t.Fatalf("matches = %v, want [name]", m.matches)
	}

	m = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "{{name" {
		t.Fatalf("after Tab input = %q, want %q", got, "{{name")
	}

	m = typeText(m, "}} and {{user.")

	if len(m.matches) != 2 {
		t.Errorf("child matches = %v, want address and first", m.matches)
	}

	m = press(m, tea.KeyTab)
	m = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "{{name}} and {{user.first" {
		t.Errorf("after cycling input = %q", got)
	}

	m = press(m, tea.KeyEsc)

	if got := m.input.Value(); got != "{{name}} and {{user." {
		t.Errorf("after Esc input = %q", got)
	}

	m = typeText(m, "first}}")
	m = press(m, tea.KeyEnter)

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	e, err := m.history.Entry(0)
	if err != nil || e.Line != "{{name}} and {{user.first}}" || e.Mode != modeRender {
		t.Errorf("history entry = %v, %v", e, err)
	}
}

func TestModel_NoCompletionOutsideTag(t *testing.T) {
	m := typeText(testModel(t), "na")

	if len(m.matches) != 0 {
		t.Errorf("matches outside tag = %v", m.matches)
	}

	m = typeText(m, " {{name}} na")

	if len(m.matches) != 0 {
		t.Errorf("matches after closed tag = %v", m.matches)
	}
}

func TestModel_ControlMode(t *testing.T) {
	m := typeText(testModel(t), "{{draft")
	m = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode = %v, input = %q", m.mode, m.input.Value())
	}

	m = typeText(m, "ke")
	m = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "keys" {
		t.Errorf("command completion = %q, want keys", got)
	}

	keys := m.listKeys()
	for _, k := range []string{"age", "items", "name", "user"} {
		if !strings.Contains(keys, k) {
			t.Errorf("listKeys() missing %q:\n%s", k, keys)
		}
	}

	m = press(m, tea.KeyEsc)

	if m.mode != modeRender || m.input.Value() != "{{draft" {
		t.Errorf("restored mode = %v, input = %q", m.mode, m.input.Value())
	}
}

func TestModel_History(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{"{{a}}", modeRender},
		{"keys", modeCtrl},
		{"{{b}}", modeRender},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m = press(m, tea.KeyUp)
	if m.input.Value() != "{{b}}" || m.mode != modeRender {
		t.Fatalf("Up: input = %q, mode = %v", m.input.Value(), m.mode)
	}

	m = press(m, tea.KeyUp)
	if m.input.Value() != "keys" || m.mode != modeCtrl {
		t.Fatalf("Up: input = %q, mode = %v", m.input.Value(), m.mode)
	}

	m = press(m, tea.KeyShiftUp)
	if m.input.Value() != "keys" || m.historyIdx != 1 {
		t.Errorf("Shift+Up left command history: input = %q, idx = %d",
			m.input.Value(), m.historyIdx)
	}

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Down past newest: input = %q, idx = %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_EditMessages(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(editDataMsg{data: map[string]tmpl.Value{"name": tmpl.String("Bo")}})
	m = next.(model)

	got, err := m.render("{{name}}{{age}}")
	if err != nil || got != "Bo" {
		t.Errorf("render after edit = %q, %v", got, err)
	}

	next, cmd := m.Update(editDeclinedMsg{})
	if !next.(model).quitting || cmd == nil {
		t.Error("declined edit did not quit")
	}
}

func TestModel_CtrlC(t *testing.T) {
	m := typeText(testModel(t), "{{x")

	m = press(m, tea.KeyCtrlC)
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("first Ctrl+C: quitting = %v, input = %q", m.quitting, m.input.Value())
	}

	m = press(m, tea.KeyCtrlC)
	if !m.quitting {
		t.Error("Ctrl+C on empty line did not quit")
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q", m.View())
	}
}
