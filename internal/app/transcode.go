package app

import (
	"encoding/json"
	"fmt"
	"io"

	"trivia-board-host/internal/domain"
)

const (
	// CategoriesFileName is the suggested name of a categories export.
	CategoriesFileName = "quiz-categories.json"
	// TeamsFileName is the suggested name of a teams export.
	TeamsFileName = "quiz-teams.json"
)

type categoriesPayload struct {
	Categories []domain.Category `json:"categories"`
	Config     domain.QuizConfig `json:"config"`
}

type teamsPayload struct {
	Teams []domain.Team `json:"teams"`
}

// ExportCategories serializes {categories, config}.
func ExportCategories(doc domain.Document) ([]byte, error) {
	return json.MarshalIndent(categoriesPayload{Categories: nonNil(doc.Categories), Config: doc.Config}, "", "  ")
}

// ExportTeams serializes {teams}.
func ExportTeams(doc domain.Document) ([]byte, error) {
	return json.MarshalIndent(teamsPayload{Teams: nonNil(doc.Teams)}, "", "  ")
}

// ParseCategoriesPayload checks that the payload is JSON with a categories key.
// Nested content is decoded but not validated.
func ParseCategoriesPayload(data []byte) ([]domain.Category, error) {
	var probe struct {
		Categories *[]domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if probe.Categories == nil {
		return nil, fmt.Errorf("%w: no categories found", domain.ErrInvalidImport)
	}
	return *probe.Categories, nil
}

// ParseTeamsPayload checks that the payload is JSON with a teams key.
func ParseTeamsPayload(data []byte) ([]domain.Team, error) {
	var probe struct {
		Teams *[]domain.Team `json:"teams"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if probe.Teams == nil {
		return nil, fmt.Errorf("%w: no team data found", domain.ErrInvalidImport)
	}
	return *probe.Teams, nil
}

// WriteCategories writes a categories export to w.
func WriteCategories(w io.Writer, doc domain.Document) error {
	data, err := ExportCategories(doc)
	if err != nil {
		return fmt.Errorf("export categories: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteTeams writes a teams export to w.
func WriteTeams(w io.Writer, doc domain.Document) error {
	data, err := ExportTeams(doc)
	if err != nil {
		return fmt.Errorf("export teams: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadCategories reads and parses a categories payload from r.
func ReadCategories(r io.Reader) ([]domain.Category, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", domain.ErrInvalidImport, err)
	}
	return ParseCategoriesPayload(data)
}

// ReadTeams reads and parses a teams payload from r.
func ReadTeams(r io.Reader) ([]domain.Team, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", domain.ErrInvalidImport, err)
	}
	return ParseTeamsPayload(data)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
