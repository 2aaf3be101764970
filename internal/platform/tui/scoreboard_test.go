package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/multegula/internal/games/multegula"
	"github.com/vovakirdan/multegula/internal/storage"
)

func openScoreStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestScoreboardStats(t *testing.T) {
	store := openScoreStore(t)
	for _, score := range []int{100, 300} {
		if _, err := store.SaveScore(multegula.ModeClassic, "ana", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30, "ana")
	if m.games[0].ID != multegula.ModeClassic {
		t.Fatalf("first tab = %q, want classic", m.games[0].ID)
	}
	if len(m.scores) != 2 {
		t.Fatalf("loaded %d scores, want 2", len(m.scores))
	}

	line := m.statsLine()
	if !strings.Contains(line, "2 games") || !strings.Contains(line, "best 300") || !strings.Contains(line, "avg 200") {
		t.Errorf("statsLine = %q", line)
	}
	if !strings.Contains(m.View(), "(2)") {
		t.Error("sidebar should count played games")
	}
}

func TestScoreboardMyMatches(t *testing.T) {
	store := openScoreStore(t)
	for _, r := range []storage.OnlineMatchResult{
		{MatchID: "m1", GameID: multegula.ModeOnline, Players: [4]string{"ana", "bo", "", ""}, WinnerSeat: 1},
		{MatchID: "m2", GameID: multegula.ModeOnline, Players: [4]string{"cy", "", "", ""}},
	} {
		if _, err := store.SaveOnlineMatch(r); err != nil {
			t.Fatalf("SaveOnlineMatch() failed: %v", err)
		}
	}

	var model tea.Model = NewScoreboardModel(store, 100, 30, "ana")
	// The online tab comes last.
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m := model.(ScoreboardModel)
	if !m.showingMatches() {
		t.Fatal("shift+tab from the first tab should wrap to the online tab")
	}
	if len(m.matches) != 2 {
		t.Fatalf("loaded %d matches, want 2", len(m.matches))
	}
	if m.statsLine() != "" {
		t.Error("online tab has no score stats")
	}

	model, _ = model.Update(runeKey("m"))
	m = model.(ScoreboardModel)
	if len(m.matches) != 1 || m.matches[0].MatchID != "m1" {
		t.Fatalf("my matches = %+v, want only m1", m.matches)
	}
	if !strings.Contains(m.View(), "(ana)") {
		t.Error("title should name the filtered player")
	}
}

func TestScoreboardBack(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20, "")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if !model.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
	if cmd != nil {
		t.Error("an embedded scoreboard should not quit the program")
	}

	m.standalone = true
	if _, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEscape}); cmd == nil {
		t.Error("a standalone scoreboard should quit on back")
	}
}
