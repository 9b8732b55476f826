package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// AnswerKind tells which arm of Answer is set.
type AnswerKind int

const (
	// AnswerText is a free-text answer shown verbatim on reveal.
	AnswerText AnswerKind = iota
	// AnswerIndex points into the question's options.
	AnswerIndex
)

// Answer is the correct answer of a question: either an option index or free text.
// On the wire it is a JSON number (index) or a JSON string (text).
type Answer struct {
	kind  AnswerKind
	index int
	text  string
}

// ByIndex builds an answer that selects options[i].
func ByIndex(i int) Answer { return Answer{kind: AnswerIndex, index: i} }

// ByText builds a free-text answer.
func ByText(s string) Answer { return Answer{kind: AnswerText, text: s} }

// Kind reports which arm of the union is set.
func (a Answer) Kind() AnswerKind { return a.kind }

// Index returns the option index and whether the answer is index based.
func (a Answer) Index() (int, bool) {
	return a.index, a.kind == AnswerIndex
}

// Text returns the free text and whether the answer is text based.
func (a Answer) Text() (string, bool) {
	return a.text, a.kind == AnswerText
}

// ValidFor reports whether the answer is consistent with the given options.
func (a Answer) ValidFor(options []string) bool {
	if a.kind != AnswerIndex {
		return true
	}
	return a.index >= 0 && a.index < len(options)
}

// Display renders the answer as text, resolving indexes through options.
func (a Answer) Display(options []string) string {
	if a.kind == AnswerIndex {
		if a.ValidFor(options) {
			return options[a.index]
		}
		return ""
	}
	return a.text
}

// String formats index answers as "#i" and text answers verbatim.
func (a Answer) String() string {
	if a.kind == AnswerIndex {
		return fmt.Sprintf("#%d", a.index)
	}
	return a.text
}

// MarshalJSON writes an index as a JSON number and text as a JSON string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.kind == AnswerIndex {
		return json.Marshal(a.index)
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts a whole number, a string or null (empty text).
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ByText("")
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ByText(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("correctAnswer must be a number or a string: %w", err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("correctAnswer index %v is not an integer", f)
	}
	*a = ByIndex(int(f))
	return nil
}

// normalizeAnswer turns a text answer that names one of the options into an index.
func normalizeAnswer(q Question) Answer {
	text, ok := q.CorrectAnswer.Text()
	if !ok || len(q.Options) == 0 {
		return q.CorrectAnswer
	}
	for i, opt := range q.Options {
		if opt == text {
			return ByIndex(i)
		}
	}
	return q.CorrectAnswer
}

// RepairAnswer returns the question with an answer consistent with its options:
// text naming an option becomes that index, an out-of-range index becomes empty text.
func RepairAnswer(q Question) Question {
	q.CorrectAnswer = normalizeAnswer(q)
	if !q.CorrectAnswer.ValidFor(q.Options) {
		q.CorrectAnswer = ByText("")
	}
	return q
}
