package domain

import "fmt"

// Default returns the bundled document used when no snapshot exists.
func Default() Document {
	return Document{
		Config: QuizConfig{
			Title:                  "Quiz Title",
			DefaultPointsDeduction: 0.5,
			AspectRatio:            "16:9",
		},
		Teams: []Team{
			{ID: 1, Name: "Team 1", Points: 0, Color: "#FF9ECD"},
			{ID: 2, Name: "Team 2", Points: 0, Color: "#90EE90"},
		},
		Categories: []Category{
			{
				ID:    "AnimalQuiz",
				Name:  "Template: Animal Knowledge",
				Icon:  "🦁",
				Color: "#FF8C00",
				Questions: []Question{
					{
						ID:            "template1",
						Title:         "Farm Sound",
						Description:   "What sound does a cow make?",
						Points:        100,
						Options:       []string{},
						CorrectAnswer: ByText("moo"),
					},
					{
						ID:            "template2",
						Title:         "Pet Choice",
						Description:   "Which of these is a common house pet?",
						Points:        150,
						Options:       []string{"cat", "lion", "elephant", "shark"},
						CorrectAnswer: ByIndex(0),
					},
					{
						ID:            "template3",
						Title:         "Bird Count",
						Description:   "How many wings does a bird have?",
						Points:        200,
						Options:       []string{},
						CorrectAnswer: ByText("2"),
					},
					{
						ID:            "template4",
						Title:         "Animal Home",
						Description:   "Where does a fish live?",
						Points:        250,
						Options:       []string{"water", "sky", "trees", "desert"},
						CorrectAnswer: ByIndex(0),
					},
					{
						ID:            "template5",
						Title:         "Animal Food",
						Description:   "What food do rabbits love to eat?",
						Points:        300,
						Options:       []string{},
						CorrectAnswer: ByText("carrots"),
					},
				},
			},
		},
	}
}

// MustDefault returns Default and panics if the bundled literal is not a valid document.
func MustDefault() Document {
	doc := Default()
	if err := doc.Validate(); err != nil {
		panic(fmt.Sprintf("bundled quiz document: %v", err))
	}
	return doc
}
