package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trivia-board-host/internal/domain"
)

// BoardTile is a category as shown on the board.
type BoardTile struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Remaining  int    `json:"remaining"`
}

// Snapshot is what presenter screens render after each command.
type Snapshot struct {
	Document domain.Document  `json:"document"`
	View     ViewState        `json:"view"`
	Board    []BoardTile      `json:"board"`
	Segments []domain.Segment `json:"segments,omitempty"`
	Penalty  int              `json:"penalty"`
	Editing  bool             `json:"editing"`
	Draft    *domain.Document `json:"draft,omitempty"`
}

// HostOptions tunes the background saver.
type HostOptions struct {
	SaveTimeout time.Duration
}

// Host owns the single live document. Every command swaps in a new document
// version, schedules a save and notifies subscribers.
type Host struct {
	persist     *Persistence
	editor      *Editor
	logger      *slog.Logger
	saveTimeout time.Duration

	mu          sync.Mutex
	doc         domain.Document
	view        ViewState
	draft       *domain.Document
	closed      bool
	subscribers map[chan Snapshot]struct{}

	saves     chan domain.Document
	saverDone chan struct{}
}

// NewHost seeds the live document from persistence (or the bundled default) and starts the saver.
func NewHost(ctx context.Context, persist *Persistence, editor *Editor, logger *slog.Logger, opts HostOptions) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}
	h := &Host{
		persist:     persist,
		editor:      editor,
		logger:      logger,
		saveTimeout: opts.SaveTimeout,
		doc:         persist.LoadOrDefault(ctx),
		view:        BoardView(),
		subscribers: make(map[chan Snapshot]struct{}),
		saves:       make(chan domain.Document, 1),
		saverDone:   make(chan struct{}),
	}
	go h.runSaver()
	return h
}

// Snapshot returns the current state without changing it.
func (h *Host) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Document returns the live document.
func (h *Host) Document() domain.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc.Clone()
}

// Open shows the next question of a category. Nothing changes if the category is exhausted.
func (h *Host) Open(categoryID string) (Snapshot, error) {
	return h.play(func(doc domain.Document, view ViewState) (domain.Document, ViewState) {
		if view.Mode != ViewBoard {
			return doc, view
		}
		next, _ := Open(doc, view, categoryID)
		return doc, next
	})
}

func (h *Host) Reveal() (Snapshot, error) {
	return h.play(func(doc domain.Document, view ViewState) (domain.Document, ViewState) {
		return doc, Reveal(view)
	})
}

// Back returns to the board, marking the active question used.
func (h *Host) Back() (Snapshot, error) {
	return h.play(ReturnToBoard)
}

// Space is the keyboard binding; it is inert while editing.
func (h *Host) Space() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, view := Space(h.doc, h.view, h.draft != nil)
	return h.applyLocked(doc, view), nil
}

// Award credits a team with the active question's points.
func (h *Host) Award(teamID int) (Snapshot, error) {
	return h.play(func(doc domain.Document, view ViewState) (domain.Document, ViewState) {
		return AdjustScore(doc, teamID, ActivePoints(view), false), view
	})
}

// Penalize deducts the configured share of the active question's points from a team.
func (h *Host) Penalize(teamID int) (Snapshot, error) {
	return h.play(func(doc domain.Document, view ViewState) (domain.Document, ViewState) {
		return AdjustScore(doc, teamID, ActivePoints(view), true), view
	})
}

// SetScore overwrites a team's total; non-numeric input is ignored.
func (h *Host) SetScore(teamID int, raw string) (Snapshot, error) {
	return h.play(func(doc domain.Document, view ViewState) (domain.Document, ViewState) {
		next, ok := SetScore(doc, teamID, raw)
		if !ok {
			h.logger.Debug("ignoring score input", "team", teamID, "input", raw)
		}
		return next, view
	})
}

// Reset clears scores and used flags and returns to the board.
func (h *Host) Reset() (Snapshot, error) {
	return h.play(func(doc domain.Document, _ ViewState) (domain.Document, ViewState) {
		return ResetProgress(doc), BoardView()
	})
}

func (h *Host) play(fn func(domain.Document, ViewState) (domain.Document, ViewState)) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft != nil {
		return h.snapshotLocked(), domain.ErrEditing
	}
	doc, view := fn(h.doc, h.view)
	return h.applyLocked(doc, view), nil
}

// BeginEdit opens an edit session on a private copy of the live document.
func (h *Host) BeginEdit() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft == nil {
		draft := h.doc.Clone()
		h.draft = &draft
	}
	return h.broadcastLocked()
}

// Edit applies an authoring operation to the draft.
func (h *Host) Edit(fn func(e *Editor, doc domain.Document) domain.Document) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft == nil {
		return h.snapshotLocked(), domain.ErrNotEditing
	}
	next := fn(h.editor, *h.draft)
	h.draft = &next
	return h.broadcastLocked(), nil
}

// CommitEdit makes the draft the live document. An open question stays on
// screen with its edited content; if the edit removed it, the board is shown.
func (h *Host) CommitEdit() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft == nil {
		return h.snapshotLocked(), domain.ErrNotEditing
	}
	doc := *h.draft
	h.draft = nil
	return h.applyLocked(doc, RefreshView(doc, h.view)), nil
}

// CancelEdit drops the draft.
func (h *Host) CancelEdit() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft == nil {
		return h.snapshotLocked(), domain.ErrNotEditing
	}
	h.draft = nil
	return h.broadcastLocked(), nil
}

// DeleteAllTeams clears the draft's teams once the caller has confirmed.
func (h *Host) DeleteAllTeams(confirm bool) (Snapshot, error) {
	if !confirm {
		return h.Snapshot(), domain.ErrConfirmationRequired
	}
	return h.Edit(func(_ *Editor, doc domain.Document) domain.Document {
		return DeleteAllTeams(doc)
	})
}

// DeleteAllCategories clears the draft's categories once the caller has confirmed.
func (h *Host) DeleteAllCategories(confirm bool) (Snapshot, error) {
	if !confirm {
		return h.Snapshot(), domain.ErrConfirmationRequired
	}
	return h.Edit(func(_ *Editor, doc domain.Document) domain.Document {
		return DeleteAllCategories(doc)
	})
}

// ImportCategories merges a categories export into the working document:
// the draft while editing, otherwise the live document.
func (h *Host) ImportCategories(data []byte) (Snapshot, error) {
	categories, err := ParseCategoriesPayload(data)
	if err != nil {
		return h.Snapshot(), err
	}
	return h.mutateWorking(func(e *Editor, doc domain.Document) domain.Document {
		return e.MergeImportedCategories(doc, categories)
	}), nil
}

// ImportTeams replaces the working document's teams.
func (h *Host) ImportTeams(data []byte) (Snapshot, error) {
	teams, err := ParseTeamsPayload(data)
	if err != nil {
		return h.Snapshot(), err
	}
	return h.mutateWorking(func(_ *Editor, doc domain.Document) domain.Document {
		return ReplaceTeams(doc, teams)
	}), nil
}

// ExportCategories serializes the working document's categories and config.
func (h *Host) ExportCategories() ([]byte, error) {
	return ExportCategories(h.working())
}

// ExportTeams serializes the working document's teams.
func (h *Host) ExportTeams() ([]byte, error) {
	return ExportTeams(h.working())
}

func (h *Host) working() domain.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft != nil {
		return h.draft.Clone()
	}
	return h.doc.Clone()
}

func (h *Host) mutateWorking(fn func(*Editor, domain.Document) domain.Document) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft != nil {
		next := fn(h.editor, *h.draft)
		h.draft = &next
		return h.broadcastLocked()
	}
	return h.applyLocked(fn(h.editor, h.doc), h.view)
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke cancel to release it.
func (h *Host) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	h.mu.Lock()
	ch <- h.snapshotLocked()
	if h.closed {
		close(ch)
		h.mu.Unlock()
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Close flushes the last pending save and closes subscriber channels.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.saves)
		for ch := range h.subscribers {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	h.mu.Unlock()

	select {
	case <-h.saverDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) applyLocked(doc domain.Document, view ViewState) Snapshot {
	h.doc = doc
	h.view = view
	h.scheduleSaveLocked(doc)
	return h.broadcastLocked()
}

// scheduleSaveLocked keeps at most one pending snapshot; a newer one replaces it.
func (h *Host) scheduleSaveLocked(doc domain.Document) {
	if h.closed {
		return
	}
	select {
	case h.saves <- doc:
	default:
		select {
		case <-h.saves:
		default:
		}
		h.saves <- doc
	}
}

func (h *Host) runSaver() {
	defer close(h.saverDone)
	for doc := range h.saves {
		ctx, cancel := context.WithTimeout(context.Background(), h.saveTimeout)
		_ = h.persist.Save(ctx, doc)
		cancel()
	}
}

func (h *Host) broadcastLocked() Snapshot {
	snap := h.snapshotLocked()
	for ch := range h.subscribers {
		select {
		case ch <- snap:
		default:
			// slow screen: drop its oldest snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (h *Host) snapshotLocked() Snapshot {
	doc := h.doc.Clone()
	snap := Snapshot{
		Document: doc,
		View:     h.view,
		Board:    boardTiles(doc),
		Editing:  h.draft != nil,
	}
	if h.view.Active != nil {
		q := h.view.Active.Question
		snap.Segments = domain.DescriptionSegments(q.Description, q.ImageDescription)
		snap.Penalty = PenaltyFor(q.Points, doc.Config.DefaultPointsDeduction)
	}
	if h.draft != nil {
		draft := h.draft.Clone()
		snap.Draft = &draft
	}
	return snap
}

func boardTiles(doc domain.Document) []BoardTile {
	tiles := make([]BoardTile, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		tiles = append(tiles, BoardTile{
			CategoryID: c.ID,
			Name:       c.Name,
			Icon:       c.Icon,
			Color:      c.Color,
			Remaining:  domain.RemainingQuestions(c),
		})
	}
	return tiles
}
