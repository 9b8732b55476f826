package app

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"trivia-board-host/internal/domain"
)

// ViewMode is the presenter screen currently shown.
type ViewMode string

const (
	ViewBoard    ViewMode = "board"
	ViewQuestion ViewMode = "question"
)

// ActiveQuestion is the question on screen together with the category it came from.
type ActiveQuestion struct {
	CategoryID string          `json:"categoryId"`
	Question   domain.Question `json:"question"`
}

// ViewState is the play-session state machine:
// Board -> Question(hidden) -> Question(revealed) -> Board.
type ViewState struct {
	Mode       ViewMode        `json:"mode"`
	Active     *ActiveQuestion `json:"active,omitempty"`
	ShowAnswer bool            `json:"showAnswer"`
}

// BoardView is the initial state.
func BoardView() ViewState {
	return ViewState{Mode: ViewBoard}
}

// SelectCategory picks the unused question with the fewest points.
// Ties go to the earliest inserted question.
func SelectCategory(doc domain.Document, categoryID string) (domain.Question, bool) {
	var unused []domain.Question
	for _, q := range domain.QuestionsOf(doc, categoryID) {
		if !q.Used {
			unused = append(unused, q)
		}
	}
	if len(unused) == 0 {
		return domain.Question{}, false
	}
	sort.SliceStable(unused, func(i, j int) bool {
		return unused[i].Points < unused[j].Points
	})
	return unused[0].Clone(), true
}

// Open moves the board to the next question of a category.
// The view is returned unchanged when the category has nothing left.
func Open(doc domain.Document, view ViewState, categoryID string) (ViewState, bool) {
	q, ok := SelectCategory(doc, categoryID)
	if !ok {
		return view, false
	}
	return ViewState{
		Mode:       ViewQuestion,
		Active:     &ActiveQuestion{CategoryID: categoryID, Question: q},
		ShowAnswer: false,
	}, true
}

// Reveal shows the answer of the active question.
func Reveal(view ViewState) ViewState {
	if view.Mode != ViewQuestion {
		return view
	}
	view.ShowAnswer = true
	return view
}

// ReturnToBoard marks the active question used and goes back to the board.
// It is the only transition that sets Question.Used.
func ReturnToBoard(doc domain.Document, view ViewState) (domain.Document, ViewState) {
	if view.Active == nil {
		return doc, BoardView()
	}
	catID, qID := view.Active.CategoryID, view.Active.Question.ID
	next := doc.Clone()
	for ci := range next.Categories {
		if next.Categories[ci].ID != catID {
			continue
		}
		for qi := range next.Categories[ci].Questions {
			if next.Categories[ci].Questions[qi].ID == qID {
				next.Categories[ci].Questions[qi].Used = true
			}
		}
	}
	return next, BoardView()
}

// RefreshView re-reads the active question from doc after an edit.
// A question that no longer exists, or was marked used, drops the view back to the board.
func RefreshView(doc domain.Document, view ViewState) ViewState {
	if view.Active == nil {
		return BoardView()
	}
	for _, q := range domain.QuestionsOf(doc, view.Active.CategoryID) {
		if q.ID == view.Active.Question.ID && !q.Used {
			view.Active = &ActiveQuestion{CategoryID: view.Active.CategoryID, Question: q.Clone()}
			return view
		}
	}
	return BoardView()
}

// ActivePoints is the base value for score adjustments; zero without an active question.
func ActivePoints(view ViewState) int {
	if view.Active == nil {
		return 0
	}
	return view.Active.Question.Points
}

// PenaltyFor is the amount removed for a wrong answer worth basePoints.
func PenaltyFor(basePoints int, deduction float64) int {
	return int(math.Floor(float64(basePoints) * deduction))
}

// AdjustScore adds basePoints to a team, or removes the deduction share of it when isPenalty.
// Totals are not clamped; negative scores are valid.
func AdjustScore(doc domain.Document, teamID, basePoints int, isPenalty bool) domain.Document {
	delta := basePoints
	if isPenalty {
		delta = -PenaltyFor(basePoints, doc.Config.DefaultPointsDeduction)
	}
	return mapTeam(doc, teamID, func(t domain.Team) domain.Team {
		t.Points += delta
		return t
	})
}

// SetScore overwrites one team's total. Input that is not an integer leaves the document untouched.
func SetScore(doc domain.Document, teamID int, raw string) (domain.Document, bool) {
	points, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return doc, false
	}
	if _, ok := domain.TeamOf(doc, teamID); !ok {
		return doc, false
	}
	return mapTeam(doc, teamID, func(t domain.Team) domain.Team {
		t.Points = points
		return t
	}), true
}

// ResetProgress zeroes every score and marks every question unused.
func ResetProgress(doc domain.Document) domain.Document {
	next := doc.Clone()
	for i := range next.Teams {
		next.Teams[i].Points = 0
	}
	for ci := range next.Categories {
		for qi := range next.Categories[ci].Questions {
			next.Categories[ci].Questions[qi].Used = false
		}
	}
	return next
}

// Space handles the single key binding: reveal if hidden, else back to the board.
// It does nothing on the board or while editing.
func Space(doc domain.Document, view ViewState, editing bool) (domain.Document, ViewState) {
	if editing || view.Mode != ViewQuestion {
		return doc, view
	}
	if !view.ShowAnswer {
		return doc, Reveal(view)
	}
	return ReturnToBoard(doc, view)
}

func mapTeam(doc domain.Document, teamID int, fn func(domain.Team) domain.Team) domain.Document {
	next := doc.Clone()
	for i := range next.Teams {
		if next.Teams[i].ID == teamID {
			next.Teams[i] = fn(next.Teams[i])
		}
	}
	return next
}
