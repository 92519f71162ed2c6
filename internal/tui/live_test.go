package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/sim"
)

func TestRenderTranscriptBadgesAndTyping(t *testing.T) {
	entries := []api.DialogueEntry{
		{Role: "caller", Message: "My father collapsed", Timestamp: "2026-03-14T10:00:00Z"},
		{Role: "operator", Message: "Is he breathing?", Timestamp: "2026-03-14T10:00:05Z"},
		{Role: "user", Message: "Stay calm"}, // legacy operator alias
	}

	out := renderTranscript(entries, true, 2, 80)
	assert.Contains(t, out, "My father collapsed")
	assert.Contains(t, out, "Is he breathing?")
	assert.Contains(t, out, "caller is typing ···")

	// The legacy "user" role renders with the operator badge.
	assert.Equal(t, 2, strings.Count(out, "operator"))
	// One real caller entry plus the typing line.
	assert.Equal(t, 1, strings.Count(out, "caller   "))
}

func TestRenderTranscriptEmptyWithoutTyping(t *testing.T) {
	out := renderTranscript(nil, false, 0, 80)
	assert.NotContains(t, out, "typing")
}

func TestScoreBarBounds(t *testing.T) {
	full := scoreBar(100, 10)
	assert.Equal(t, 10, strings.Count(full, "█"))
	assert.Equal(t, 0, strings.Count(full, "░"))

	empty := scoreBar(0, 10)
	assert.Equal(t, 0, strings.Count(empty, "█"))
	assert.Equal(t, 10, strings.Count(empty, "░"))

	// Out-of-range scores clamp instead of panicking.
	assert.Equal(t, 10, strings.Count(scoreBar(250, 10), "█"))
	assert.Equal(t, 10, strings.Count(scoreBar(-5, 10), "░"))
}

func TestOptionLabelFallback(t *testing.T) {
	assert.Equal(t, "Critical", optionLabel(sim.Priorities, "K"))
	assert.Equal(t, "Z9", optionLabel(sim.Priorities, "Z9"))
	assert.Equal(t, "", optionLabel(sim.Priorities, ""))
}

func TestStreamCloseDuringDialMarksDisconnected(t *testing.T) {
	m := NewLive(LiveOptions{
		Client: api.NewClient("http://localhost:8000", ""),
		Format: "json",
	})
	m.ctrl.SetConnection(sim.Connecting)

	updated, _ := m.Update(streamClosedMsg{})
	m = updated.(*LiveModel)
	assert.Equal(t, sim.Disconnected, m.ctrl.Connection(),
		"a socket closing before call_status connected must still drop the status")
}

func TestStreamCloseWhileConnectedMarksDisconnected(t *testing.T) {
	m := NewLive(LiveOptions{
		Client: api.NewClient("http://localhost:8000", ""),
		Format: "json",
	})
	m.ctrl.SetConnection(sim.Connected)

	updated, _ := m.Update(streamClosedMsg{})
	m = updated.(*LiveModel)
	assert.Equal(t, sim.Disconnected, m.ctrl.Connection())
}

func TestBuildReportCarriesSessionState(t *testing.T) {
	opts := LiveOptions{
		Client:        api.NewClient("http://localhost:8000", ""),
		Params:        api.StartParams{TaskID: "task-3", OperatorID: 7, UserEmail: "op@example.com", Training: "Chest pain"},
		ScenarioTitle: "Chest pain",
		Operator:      "op@example.com",
		Format:        "json",
	}
	m := NewLive(opts)
	m.ctrl.Transcript().Append(sim.RoleCaller, "Help")
	m.saver.Restore(api.ReportForm{CallerName: "Jana", Priority: "K"})
	m.result = &api.EndResult{Score: 71, Status: "completed", Evaluation: map[string]float64{"operator_empathy": 80}}

	r := m.buildReport()
	assert.Equal(t, "task-3", r.Session.TaskID)
	assert.Equal(t, "Chest pain", r.Session.ScenarioTitle)
	assert.Equal(t, "chat", r.Session.Mode)
	assert.True(t, r.Session.Training)
	assert.Len(t, r.Transcript, 1)
	assert.Equal(t, "Jana", r.Form.CallerName)
	assert.NotNil(t, r.Outcome)
	assert.Equal(t, 71.0, r.Outcome.Score)
}
