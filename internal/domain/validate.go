package domain

import (
	"encoding/json"
	"fmt"
)

// rawDocument mirrors Document with pointers so missing keys can be told apart from zero values.
type rawDocument struct {
	Config     *QuizConfig    `json:"config"`
	Teams      *[]Team        `json:"teams"`
	Categories *[]rawCategory `json:"categories"`
}

type rawCategory struct {
	ID        *string        `json:"id"`
	Name      string         `json:"name"`
	Icon      string         `json:"icon"`
	Color     string         `json:"color"`
	Questions *[]rawQuestion `json:"questions"`
}

type rawQuestion struct {
	ID               *string  `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Points           int      `json:"points"`
	Options          []string `json:"options"`
	CorrectAnswer    Answer   `json:"correctAnswer"`
	Used             bool     `json:"used"`
	ImageDescription string   `json:"imageDescription"`
}

// Decode builds a validated Document from untrusted JSON.
// Every failure wraps ErrMalformedDocument.
func Decode(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	switch {
	case raw.Config == nil:
		return Document{}, fmt.Errorf("%w: missing config", ErrMalformedDocument)
	case raw.Teams == nil:
		return Document{}, fmt.Errorf("%w: missing teams", ErrMalformedDocument)
	case raw.Categories == nil:
		return Document{}, fmt.Errorf("%w: missing categories", ErrMalformedDocument)
	}

	doc := Document{
		Config:     *raw.Config,
		Teams:      *raw.Teams,
		Categories: make([]Category, 0, len(*raw.Categories)),
	}
	for ci, rc := range *raw.Categories {
		if rc.ID == nil {
			return Document{}, fmt.Errorf("%w: category %d has no id", ErrMalformedDocument, ci)
		}
		if rc.Questions == nil {
			return Document{}, fmt.Errorf("%w: category %q has no questions", ErrMalformedDocument, *rc.ID)
		}
		cat := Category{
			ID:        *rc.ID,
			Name:      rc.Name,
			Icon:      rc.Icon,
			Color:     rc.Color,
			Questions: make([]Question, 0, len(*rc.Questions)),
		}
		for qi, rq := range *rc.Questions {
			if rq.ID == nil {
				return Document{}, fmt.Errorf("%w: question %d in category %q has no id", ErrMalformedDocument, qi, cat.ID)
			}
			q := Question{
				ID:               *rq.ID,
				Title:            rq.Title,
				Description:      rq.Description,
				Points:           rq.Points,
				Options:          rq.Options,
				CorrectAnswer:    rq.CorrectAnswer,
				Used:             rq.Used,
				ImageDescription: rq.ImageDescription,
			}
			if q.Options == nil {
				q.Options = []string{}
			}
			q.CorrectAnswer = normalizeAnswer(q)
			cat.Questions = append(cat.Questions, q)
		}
		doc.Categories = append(doc.Categories, cat)
	}
	if doc.Teams == nil {
		doc.Teams = []Team{}
	}

	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks id uniqueness, answer indexes and numeric ranges.
func (d Document) Validate() error {
	if d.Config.DefaultPointsDeduction < 0 || d.Config.DefaultPointsDeduction > 1 {
		return fmt.Errorf("%w: defaultPointsDeduction %v outside [0,1]", ErrMalformedDocument, d.Config.DefaultPointsDeduction)
	}

	teamIDs := make(map[int]struct{}, len(d.Teams))
	for _, t := range d.Teams {
		if _, dup := teamIDs[t.ID]; dup {
			return fmt.Errorf("%w: duplicate team id %d", ErrMalformedDocument, t.ID)
		}
		teamIDs[t.ID] = struct{}{}
	}

	categoryIDs := make(map[string]struct{}, len(d.Categories))
	questionIDs := make(map[string]struct{})
	for _, c := range d.Categories {
		if _, dup := categoryIDs[c.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %q", ErrMalformedDocument, c.ID)
		}
		categoryIDs[c.ID] = struct{}{}
		for _, q := range c.Questions {
			if _, dup := questionIDs[q.ID]; dup {
				return fmt.Errorf("%w: duplicate question id %q", ErrMalformedDocument, q.ID)
			}
			questionIDs[q.ID] = struct{}{}
			if q.Points < 0 {
				return fmt.Errorf("%w: question %q has negative points", ErrMalformedDocument, q.ID)
			}
			if !q.CorrectAnswer.ValidFor(q.Options) {
				return fmt.Errorf("%w: question %q answer index out of range", ErrMalformedDocument, q.ID)
			}
		}
	}
	return nil
}
