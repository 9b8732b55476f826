package domain

// CategoryOf finds a category by id.
func CategoryOf(doc Document, categoryID string) (Category, bool) {
	for _, c := range doc.Categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return Category{}, false
}

// QuestionsOf returns the questions of a category in insertion order, or nil if unknown.
func QuestionsOf(doc Document, categoryID string) []Question {
	c, ok := CategoryOf(doc, categoryID)
	if !ok {
		return nil
	}
	return c.Questions
}

// TeamOf finds a team by id.
func TeamOf(doc Document, teamID int) (Team, bool) {
	for _, t := range doc.Teams {
		if t.ID == teamID {
			return t, true
		}
	}
	return Team{}, false
}

// RemainingQuestions counts the unused questions of a category.
func RemainingQuestions(c Category) int {
	n := 0
	for _, q := range c.Questions {
		if !q.Used {
			n++
		}
	}
	return n
}
