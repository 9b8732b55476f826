package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-board-host/internal/app"
	"trivia-board-host/internal/domain"
	"trivia-board-host/internal/infra/memory"
)

func TestHostPlaySessionPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()
	host := newTestHost(t, store)

	snap, err := host.Open("AnimalQuiz")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if snap.View.Mode != app.ViewQuestion || snap.View.Active.Question.Points != 100 {
		t.Fatalf("expected the 100-point question, got %+v", snap.View)
	}
	if snap.Penalty != 50 || len(snap.Segments) != 1 {
		t.Fatalf("unexpected question details: penalty=%d segments=%+v", snap.Penalty, snap.Segments)
	}

	if _, err := host.Award(1); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := host.Penalize(2); err != nil {
		t.Fatalf("penalize: %v", err)
	}
	_, _ = host.Space()
	snap, _ = host.Space()
	if snap.View.Mode != app.ViewBoard || snap.Board[0].Remaining != 4 {
		t.Fatalf("expected board with 4 remaining, got %+v", snap.Board)
	}

	if err := host.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, ok := app.NewPersistence(store, "", quietLogger()).Load(ctx)
	if !ok {
		t.Fatalf("expected a saved snapshot")
	}
	if a, _ := domain.TeamOf(reloaded, 1); a.Points != 100 {
		t.Fatalf("team 1 = %d, want 100", a.Points)
	}
	if b, _ := domain.TeamOf(reloaded, 2); b.Points != -50 {
		t.Fatalf("team 2 = %d, want -50", b.Points)
	}
	if !reloaded.Categories[0].Questions[0].Used {
		t.Fatalf("expected first question used in saved state")
	}
}

func TestHostOpenExhaustedCategoryKeepsBoard(t *testing.T) {
	host := newTestHost(t, memory.NewSnapshotStore())
	for i := 0; i < 5; i++ {
		_, _ = host.Open("AnimalQuiz")
		_, _ = host.Back()
	}
	snap, _ := host.Open("AnimalQuiz")
	if snap.View.Mode != app.ViewBoard || snap.Board[0].Remaining != 0 {
		t.Fatalf("expected board with nothing left, got %+v", snap.View)
	}

	snap, _ = host.Reset()
	if snap.Board[0].Remaining != 5 || snap.View.Mode != app.ViewBoard {
		t.Fatalf("expected reset board, got %+v", snap.Board)
	}
}

func TestHostEditSession(t *testing.T) {
	host := newTestHost(t, memory.NewSnapshotStore())

	if _, err := host.Edit(func(_ *app.Editor, doc domain.Document) domain.Document { return doc }); !errors.Is(err, domain.ErrNotEditing) {
		t.Fatalf("expected not editing, got %v", err)
	}

	snap := host.BeginEdit()
	if !snap.Editing || snap.Draft == nil {
		t.Fatalf("expected a draft")
	}
	if _, err := host.Open("AnimalQuiz"); !errors.Is(err, domain.ErrEditing) {
		t.Fatalf("play commands are blocked while editing, got %v", err)
	}

	snap, _ = host.Edit(func(e *app.Editor, doc domain.Document) domain.Document {
		return e.AddTeam(doc)
	})
	if len(snap.Draft.Teams) != 3 || len(snap.Document.Teams) != 2 {
		t.Fatalf("edits must land on the draft only")
	}

	if _, err := host.DeleteAllCategories(false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if _, err := host.DeleteAllCategories(true); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	if _, err := host.CancelEdit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if doc := host.Document(); len(doc.Categories) != 1 || len(doc.Teams) != 2 {
		t.Fatalf("cancel must discard the draft")
	}

	host.BeginEdit()
	_, _ = host.Edit(func(_ *app.Editor, doc domain.Document) domain.Document {
		return app.DeleteTeam(doc, 2)
	})
	snap, err := host.CommitEdit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if snap.Editing || len(snap.Document.Teams) != 1 {
		t.Fatalf("commit must replace the live document, got %+v", snap.Document.Teams)
	}
}

func TestHostImportLeavesDocumentOnError(t *testing.T) {
	host := newTestHost(t, memory.NewSnapshotStore())

	if _, err := host.ImportTeams([]byte(`{"players": []}`)); !errors.Is(err, domain.ErrInvalidImport) {
		t.Fatalf("expected invalid import, got %v", err)
	}
	if len(host.Document().Teams) != 2 {
		t.Fatalf("document must be unchanged")
	}

	data, err := host.ExportCategories()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	snap, err := host.ImportCategories(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(snap.Document.Categories) != 2 {
		t.Fatalf("expected merged categories")
	}
	if err := snap.Document.Validate(); err != nil {
		t.Fatalf("re-import produced duplicate ids: %v", err)
	}

	snap, err = host.ImportTeams([]byte(`{"teams": [{"id": 7, "name": "Solo", "points": 5, "color": "#fff"}]}`))
	if err != nil {
		t.Fatalf("import teams: %v", err)
	}
	if len(snap.Document.Teams) != 1 || snap.Document.Teams[0].ID != 7 {
		t.Fatalf("expected replaced teams, got %+v", snap.Document.Teams)
	}
}

func TestHostSubscribeReceivesUpdates(t *testing.T) {
	host := newTestHost(t, memory.NewSnapshotStore())
	ch, cancel := host.Subscribe()
	defer cancel()

	<-ch // initial snapshot

	if _, err := host.SetScore(1, "42"); err != nil {
		t.Fatalf("set score: %v", err)
	}
	select {
	case snap := <-ch:
		if snap.Document.Teams[0].Points != 42 {
			t.Fatalf("expected 42, got %d", snap.Document.Teams[0].Points)
		}
	case <-time.After(time.Second):
		t.Fatalf("no update received")
	}
}

func TestHostImportedDocumentSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()
	host := newTestHost(t, store)

	if _, err := host.ImportTeams([]byte(`{"teams": [{"name": "A"}, {"name": "B"}]}`)); err != nil {
		t.Fatalf("import teams: %v", err)
	}
	payload := `{"categories": [{"id": "neg", "name": "Negative", "questions": [{"id": "n1", "points": -5}]}]}`
	if _, err := host.ImportCategories([]byte(payload)); err != nil {
		t.Fatalf("import categories: %v", err)
	}
	want := host.Document()
	if err := host.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := newTestHost(t, store).Document()
	if len(got.Teams) != 2 || got.Teams[0].Name != "A" || got.Teams[1].Name != "B" {
		t.Fatalf("imported teams lost on reload, got %+v", got.Teams)
	}
	if len(got.Categories) != len(want.Categories) || got.Categories[1].Name != "Negative" {
		t.Fatalf("imported category lost on reload, got %d categories", len(got.Categories))
	}
	if got.Categories[1].Questions[0].Points != 0 {
		t.Fatalf("expected clamped points, got %d", got.Categories[1].Questions[0].Points)
	}
}

func TestHostCommitKeepsOpenQuestion(t *testing.T) {
	host := newTestHost(t, memory.NewSnapshotStore())
	snap, _ := host.Open("AnimalQuiz")
	qID := snap.View.Active.Question.ID

	host.BeginEdit()
	_, _ = host.Edit(func(_ *app.Editor, doc domain.Document) domain.Document {
		title := "Edited"
		return app.UpdateQuestion(doc, "AnimalQuiz", qID, app.QuestionPatch{Title: &title})
	})
	snap, err := host.CommitEdit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if snap.View.Mode != app.ViewQuestion || snap.View.Active.Question.Title != "Edited" {
		t.Fatalf("expected the edited question to stay open, got %+v", snap.View)
	}

	host.BeginEdit()
	_, _ = host.Edit(func(_ *app.Editor, doc domain.Document) domain.Document {
		return app.DeleteQuestion(doc, "AnimalQuiz", qID)
	})
	snap, _ = host.CommitEdit()
	if snap.View.Mode != app.ViewBoard || snap.Board[0].Remaining != 4 {
		t.Fatalf("deleted question must close the view, got %+v", snap.View)
	}
}

func newTestHost(t *testing.T, store app.SnapshotStore) *app.Host {
	t.Helper()
	persist := app.NewPersistence(store, "", quietLogger())
	host := app.NewHost(context.Background(), persist, app.NewEditor(), quietLogger(), app.HostOptions{})
	t.Cleanup(func() { _ = host.Close(context.Background()) })
	return host
}
