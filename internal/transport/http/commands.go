package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"trivia-board-host/internal/app"
	"trivia-board-host/internal/domain"
)

var errUnsupportedCommand = errors.New("unsupported message type")

// commandPayload carries the arguments of every command; each command reads only the fields it needs.
type commandPayload struct {
	CategoryID string          `json:"categoryId"`
	QuestionID string          `json:"questionId"`
	TeamID     int             `json:"teamId"`
	Value      string          `json:"value"`
	Index      int             `json:"index"`
	Text       string          `json:"text"`
	Confirm    bool            `json:"confirm"`
	Patch      json.RawMessage `json:"patch"`
}

func (h *WSHandler) dispatch(msg inboundMessage) error {
	var p commandPayload
	if len(msg.Payload) > 0 && string(msg.Payload) != "null" {
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid %s payload", msg.Type)
		}
	}

	var err error
	switch msg.Type {
	// play
	case "open":
		_, err = h.host.Open(p.CategoryID)
	case "reveal":
		_, err = h.host.Reveal()
	case "back":
		_, err = h.host.Back()
	case "space":
		_, err = h.host.Space()
	case "award":
		_, err = h.host.Award(p.TeamID)
	case "penalize":
		_, err = h.host.Penalize(p.TeamID)
	case "setScore":
		_, err = h.host.SetScore(p.TeamID, p.Value)
	case "reset":
		_, err = h.host.Reset()

	// edit session
	case "beginEdit":
		h.host.BeginEdit()
	case "commitEdit":
		_, err = h.host.CommitEdit()
	case "cancelEdit":
		_, err = h.host.CancelEdit()
	case "deleteAllTeams":
		_, err = h.host.DeleteAllTeams(p.Confirm)
	case "deleteAllCategories":
		_, err = h.host.DeleteAllCategories(p.Confirm)

	default:
		edit, perr := editCommand(msg.Type, p)
		if perr != nil {
			return perr
		}
		_, err = h.host.Edit(edit)
	}
	return err
}

// editCommand maps an authoring command onto an Edit Engine operation.
func editCommand(name string, p commandPayload) (func(*app.Editor, domain.Document) domain.Document, error) {
	switch name {
	case "addTeam":
		return func(e *app.Editor, doc domain.Document) domain.Document { return e.AddTeam(doc) }, nil
	case "updateTeam":
		var patch app.TeamPatch
		if err := decodePatch(name, p.Patch, &patch); err != nil {
			return nil, err
		}
		return func(_ *app.Editor, doc domain.Document) domain.Document { return app.UpdateTeam(doc, p.TeamID, patch) }, nil
	case "deleteTeam":
		return func(_ *app.Editor, doc domain.Document) domain.Document { return app.DeleteTeam(doc, p.TeamID) }, nil

	case "addCategory":
		return func(e *app.Editor, doc domain.Document) domain.Document {
			next, _ := e.AddCategory(doc)
			return next
		}, nil
	case "updateCategory":
		var patch app.CategoryPatch
		if err := decodePatch(name, p.Patch, &patch); err != nil {
			return nil, err
		}
		return func(_ *app.Editor, doc domain.Document) domain.Document {
			return app.UpdateCategory(doc, p.CategoryID, patch)
		}, nil
	case "deleteCategory":
		return func(_ *app.Editor, doc domain.Document) domain.Document { return app.DeleteCategory(doc, p.CategoryID) }, nil

	case "addQuestion":
		return func(e *app.Editor, doc domain.Document) domain.Document {
			next, _ := e.AddQuestion(doc, p.CategoryID)
			return next
		}, nil
	case "updateQuestion":
		var patch app.QuestionPatch
		if err := decodePatch(name, p.Patch, &patch); err != nil {
			return nil, err
		}
		return func(_ *app.Editor, doc domain.Document) domain.Document {
			return app.UpdateQuestion(doc, p.CategoryID, p.QuestionID, patch)
		}, nil
	case "deleteQuestion":
		return func(_ *app.Editor, doc domain.Document) domain.Document {
			return app.DeleteQuestion(doc, p.CategoryID, p.QuestionID)
		}, nil

	case "addOption":
		return func(_ *app.Editor, doc domain.Document) domain.Document {
			return app.AddOption(doc, p.CategoryID, p.QuestionID)
		}, nil
	case "updateOption":
		return func(_ *app.Editor, doc domain.Document) domain.Document {
			return app.UpdateOption(doc, p.CategoryID, p.QuestionID, p.Index, p.Text)
		}, nil
	case "removeOption":
		return func(_ *app.Editor, doc domain.Document) domain.Document {
			return app.RemoveOption(doc, p.CategoryID, p.QuestionID, p.Index)
		}, nil

	case "updateConfig":
		var patch app.ConfigPatch
		if err := decodePatch(name, p.Patch, &patch); err != nil {
			return nil, err
		}
		return func(_ *app.Editor, doc domain.Document) domain.Document { return app.UpdateConfig(doc, patch) }, nil
	}
	return nil, errUnsupportedCommand
}

func decodePatch(name string, raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%s requires a patch", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid %s patch: %v", name, err)
	}
	return nil
}
