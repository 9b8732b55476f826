package domain

// Team is a scoring participant on the board footer.
type Team struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Color  string `json:"color"`
}

// Question is a single board tile. Options empty means an open-answer question.
type Question struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Points           int      `json:"points"`
	Options          []string `json:"options"`
	CorrectAnswer    Answer   `json:"correctAnswer"`
	Used             bool     `json:"used"`
	ImageDescription string   `json:"imageDescription,omitempty"`
}

// Category groups questions in insertion order. Display order is derived by points.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Color     string     `json:"color"`
	Questions []Question `json:"questions"`
}

// QuizConfig holds board-wide settings.
type QuizConfig struct {
	Title                  string  `json:"title"`
	DefaultPointsDeduction float64 `json:"defaultPointsDeduction"`
	AspectRatio            string  `json:"aspectRatio"`
}

// Document is the whole quiz state: config, teams and categories.
type Document struct {
	Config     QuizConfig `json:"config"`
	Teams      []Team     `json:"teams"`
	Categories []Category `json:"categories"`
}

// Clone returns a deep copy so the result never aliases the receiver's slices.
func (d Document) Clone() Document {
	out := Document{Config: d.Config}
	if d.Teams != nil {
		out.Teams = append([]Team(nil), d.Teams...)
	}
	if d.Categories != nil {
		out.Categories = make([]Category, len(d.Categories))
		for i, c := range d.Categories {
			out.Categories[i] = c.Clone()
		}
	}
	return out
}

// Clone deep copies the category and its questions.
func (c Category) Clone() Category {
	out := c
	if c.Questions != nil {
		out.Questions = make([]Question, len(c.Questions))
		for i, q := range c.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// Clone copies the question including its options slice.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	return out
}
