package app

import (
	"math/rand"

	"trivia-board-host/internal/domain"
)

// Palette is the fixed set of display colors handed to new teams and categories.
var Palette = []string{
	"#FF6B6B", // red
	"#4ECDC4", // teal
	"#45B7D1", // blue
	"#96CEB4", // sage
	"#FFEEAD", // yellow
	"#D4A5A5", // pink
	"#9B6B9B", // purple
	"#77DD77", // green
	"#FFB347", // orange
	"#B19CD9", // lavender
}

const (
	defaultQuestionPoints = 100
	newTeamName           = "New Team"
	newCategoryName       = "New Category"
	newCategoryIcon       = "📁"
	newQuestionTitle      = "New Question"
)

// TeamPatch is a partial team update; nil fields are left untouched.
type TeamPatch struct {
	Name   *string `json:"name,omitempty"`
	Points *int    `json:"points,omitempty"`
	Color  *string `json:"color,omitempty"`
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

// QuestionPatch is a partial question update.
type QuestionPatch struct {
	Title            *string        `json:"title,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Points           *int           `json:"points,omitempty"`
	Options          *[]string      `json:"options,omitempty"`
	CorrectAnswer    *domain.Answer `json:"correctAnswer,omitempty"`
	Used             *bool          `json:"used,omitempty"`
	ImageDescription *string        `json:"imageDescription,omitempty"`
}

// ConfigPatch is a partial config update.
type ConfigPatch struct {
	Title                  *string  `json:"title,omitempty"`
	DefaultPointsDeduction *float64 `json:"defaultPointsDeduction,omitempty"`
	AspectRatio            *string  `json:"aspectRatio,omitempty"`
}

// Editor holds the non-deterministic inputs of authoring: id generation and color choice.
type Editor struct {
	ids  domain.IDGenerator
	pick func(n int) int
}

// NewEditor uses UUID ids and a random palette pick.
func NewEditor() *Editor {
	return NewEditorWith(domain.NewUUIDGenerator(), rand.Intn)
}

// NewEditorWith is used by tests for deterministic ids and colors.
func NewEditorWith(ids domain.IDGenerator, pick func(n int) int) *Editor {
	return &Editor{ids: ids, pick: pick}
}

func (e *Editor) color() string {
	return Palette[e.pick(len(Palette))]
}

// AddTeam appends a team with the next free integer id.
func (e *Editor) AddTeam(doc domain.Document) domain.Document {
	next := doc.Clone()
	id := 1
	for _, t := range next.Teams {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	next.Teams = append(next.Teams, domain.Team{
		ID:     id,
		Name:   newTeamName,
		Points: 0,
		Color:  e.color(),
	})
	return next
}

// UpdateTeam merges a patch onto a team.
func UpdateTeam(doc domain.Document, teamID int, patch TeamPatch) domain.Document {
	return mapTeam(doc, teamID, func(t domain.Team) domain.Team {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Points != nil {
			t.Points = *patch.Points
		}
		if patch.Color != nil {
			t.Color = *patch.Color
		}
		return t
	})
}

func DeleteTeam(doc domain.Document, teamID int) domain.Document {
	next := doc.Clone()
	teams := next.Teams[:0]
	for _, t := range next.Teams {
		if t.ID != teamID {
			teams = append(teams, t)
		}
	}
	next.Teams = teams
	return next
}

// DeleteAllTeams clears the team list unconditionally.
func DeleteAllTeams(doc domain.Document) domain.Document {
	next := doc.Clone()
	next.Teams = []domain.Team{}
	return next
}

// ReplaceTeams swaps the whole team list, typically from an import.
// Teams without a positive id, or repeating one, get the next free id as AddTeam would.
func ReplaceTeams(doc domain.Document, teams []domain.Team) domain.Document {
	next := doc.Clone()
	maxID := 0
	for _, t := range teams {
		maxID = max(maxID, t.ID)
	}
	seen := make(map[int]struct{}, len(teams))
	next.Teams = make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		if _, dup := seen[t.ID]; dup || t.ID <= 0 {
			maxID++
			t.ID = maxID
		}
		seen[t.ID] = struct{}{}
		next.Teams = append(next.Teams, t)
	}
	return next
}

// AddCategory appends an empty category with a fresh id.
func (e *Editor) AddCategory(doc domain.Document) (domain.Document, string) {
	next := doc.Clone()
	id := e.ids.Generate(domain.DocumentIDs(next.Categories))
	next.Categories = append(next.Categories, domain.Category{
		ID:        id,
		Name:      newCategoryName,
		Icon:      newCategoryIcon,
		Color:     e.color(),
		Questions: []domain.Question{},
	})
	return next, id
}

func UpdateCategory(doc domain.Document, categoryID string, patch CategoryPatch) domain.Document {
	return mapCategory(doc, categoryID, func(c domain.Category) domain.Category {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Icon != nil {
			c.Icon = *patch.Icon
		}
		if patch.Color != nil {
			c.Color = *patch.Color
		}
		return c
	})
}

// DeleteCategory removes a category and with it every question it held.
func DeleteCategory(doc domain.Document, categoryID string) domain.Document {
	next := doc.Clone()
	cats := next.Categories[:0]
	for _, c := range next.Categories {
		if c.ID != categoryID {
			cats = append(cats, c)
		}
	}
	next.Categories = cats
	return next
}

func DeleteAllCategories(doc domain.Document) domain.Document {
	next := doc.Clone()
	next.Categories = []domain.Category{}
	return next
}

// MergeImportedCategories appends imported categories after giving every
// category and question a new id unused by both the live document and the import.
// Answers are repaired and negative points clamped so the result always validates.
func (e *Editor) MergeImportedCategories(doc domain.Document, imported []domain.Category) domain.Document {
	next := doc.Clone()
	seen := domain.DocumentIDs(next.Categories, imported)
	for _, c := range imported {
		c = c.Clone()
		c.ID = e.ids.Generate(seen)
		if c.Questions == nil {
			c.Questions = []domain.Question{}
		}
		for qi := range c.Questions {
			q := domain.RepairAnswer(c.Questions[qi])
			q.ID = e.ids.Generate(seen)
			q.Points = max(q.Points, 0)
			if q.Options == nil {
				q.Options = []string{}
			}
			c.Questions[qi] = q
		}
		next.Categories = append(next.Categories, c)
	}
	return next
}

// AddQuestion appends a blank open-answer question worth 100 points.
// The document is returned unchanged when the category does not exist.
func (e *Editor) AddQuestion(doc domain.Document, categoryID string) (domain.Document, string) {
	if _, ok := domain.CategoryOf(doc, categoryID); !ok {
		return doc, ""
	}
	id := e.ids.Generate(domain.DocumentIDs(doc.Categories))
	next := mapCategory(doc, categoryID, func(c domain.Category) domain.Category {
		c.Questions = append(c.Questions, domain.Question{
			ID:            id,
			Title:         newQuestionTitle,
			Points:        defaultQuestionPoints,
			Options:       []string{},
			CorrectAnswer: domain.ByText(""),
		})
		return c
	})
	return next, id
}

// UpdateQuestion merges a patch onto a question. An answer index the new
// options cannot satisfy degrades to an empty text answer.
func UpdateQuestion(doc domain.Document, categoryID, questionID string, patch QuestionPatch) domain.Document {
	return mapQuestion(doc, categoryID, questionID, func(q domain.Question) domain.Question {
		if patch.Title != nil {
			q.Title = *patch.Title
		}
		if patch.Description != nil {
			q.Description = *patch.Description
		}
		if patch.Points != nil {
			q.Points = max(*patch.Points, 0)
		}
		if patch.Options != nil {
			q.Options = append([]string{}, (*patch.Options)...)
		}
		if patch.CorrectAnswer != nil {
			q.CorrectAnswer = *patch.CorrectAnswer
		}
		if patch.Used != nil {
			q.Used = *patch.Used
		}
		if patch.ImageDescription != nil {
			q.ImageDescription = *patch.ImageDescription
		}
		if !q.CorrectAnswer.ValidFor(q.Options) {
			q.CorrectAnswer = domain.ByText("")
		}
		return q
	})
}

func DeleteQuestion(doc domain.Document, categoryID, questionID string) domain.Document {
	return mapCategory(doc, categoryID, func(c domain.Category) domain.Category {
		qs := c.Questions[:0]
		for _, q := range c.Questions {
			if q.ID != questionID {
				qs = append(qs, q)
			}
		}
		c.Questions = qs
		return c
	})
}

// AddOption appends an empty option, turning an open question into a multiple-choice one.
func AddOption(doc domain.Document, categoryID, questionID string) domain.Document {
	return mapQuestion(doc, categoryID, questionID, func(q domain.Question) domain.Question {
		q.Options = append(q.Options, "")
		return q
	})
}

func UpdateOption(doc domain.Document, categoryID, questionID string, index int, text string) domain.Document {
	return mapQuestion(doc, categoryID, questionID, func(q domain.Question) domain.Question {
		if index >= 0 && index < len(q.Options) {
			q.Options[index] = text
		}
		return q
	})
}

// RemoveOption drops one option and keeps an index answer pointing at the same option.
func RemoveOption(doc domain.Document, categoryID, questionID string, index int) domain.Document {
	return mapQuestion(doc, categoryID, questionID, func(q domain.Question) domain.Question {
		if index < 0 || index >= len(q.Options) {
			return q
		}
		q.Options = append(q.Options[:index], q.Options[index+1:]...)
		if i, ok := q.CorrectAnswer.Index(); ok {
			switch {
			case i == index:
				q.CorrectAnswer = domain.ByText("")
			case i > index:
				q.CorrectAnswer = domain.ByIndex(i - 1)
			}
		}
		return q
	})
}

// UpdateConfig merges a config patch; the deduction is clamped to [0,1].
func UpdateConfig(doc domain.Document, patch ConfigPatch) domain.Document {
	next := doc.Clone()
	if patch.Title != nil {
		next.Config.Title = *patch.Title
	}
	if patch.DefaultPointsDeduction != nil {
		next.Config.DefaultPointsDeduction = min(max(*patch.DefaultPointsDeduction, 0), 1)
	}
	if patch.AspectRatio != nil {
		next.Config.AspectRatio = *patch.AspectRatio
	}
	return next
}

func mapCategory(doc domain.Document, categoryID string, fn func(domain.Category) domain.Category) domain.Document {
	next := doc.Clone()
	for i := range next.Categories {
		if next.Categories[i].ID == categoryID {
			next.Categories[i] = fn(next.Categories[i])
		}
	}
	return next
}

func mapQuestion(doc domain.Document, categoryID, questionID string, fn func(domain.Question) domain.Question) domain.Document {
	return mapCategory(doc, categoryID, func(c domain.Category) domain.Category {
		for i := range c.Questions {
			if c.Questions[i].ID == questionID {
				c.Questions[i] = fn(c.Questions[i])
			}
		}
		return c
	})
}
