package app_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"trivia-board-host/internal/app"
	"trivia-board-host/internal/domain"
)

func TestExportCategoriesShape(t *testing.T) {
	data, err := app.ExportCategories(animalsDoc())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := generic["categories"]; !ok {
		t.Fatalf("missing categories key in %s", data)
	}
	if _, ok := generic["config"]; !ok {
		t.Fatalf("missing config key in %s", data)
	}
	if _, ok := generic["teams"]; ok {
		t.Fatalf("categories export must not carry teams")
	}
	if !strings.Contains(string(data), "\n  \"categories\"") {
		t.Fatalf("expected two-space indentation, got %s", data)
	}
}

func TestTeamsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := app.WriteTeams(&buf, animalsDoc()); err != nil {
		t.Fatalf("write: %v", err)
	}
	teams, err := app.ReadTeams(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(teams) != 2 || teams[1].Name != "B" {
		t.Fatalf("unexpected teams %+v", teams)
	}
}

func TestParsePayloadErrors(t *testing.T) {
	cases := []struct {
		name  string
		parse func([]byte) error
		input string
	}{
		{"categories not json", parseCategories, "not json"},
		{"categories missing key", parseCategories, `{"teams": []}`},
		{"categories null", parseCategories, `{"categories": null}`},
		{"teams not json", parseTeams, "{"},
		{"teams missing key", parseTeams, `{"categories": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.parse([]byte(tc.input)); !errors.Is(err, domain.ErrInvalidImport) {
				t.Fatalf("expected invalid import, got %v", err)
			}
		})
	}
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	cats, err := app.ParseCategoriesPayload([]byte(`{"categories": [{"id": "c", "extra": true, "questions": []}], "version": 3}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != "c" {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

func parseCategories(data []byte) error {
	_, err := app.ParseCategoriesPayload(data)
	return err
}

func parseTeams(data []byte) error {
	_, err := app.ParseTeamsPayload(data)
	return err
}
