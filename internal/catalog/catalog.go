// Package catalog lists the playable categories.
package catalog

import "trivia-quiz-service/internal/domain"

var classic = []domain.Category{
	{ID: "literature", Name: "Literature", Description: "Questions from the world of literature"},
	{ID: "art", Name: "Art", Description: "Questions from the world of art"},
	{ID: "math", Name: "Mathematics", Description: "Questions from the world of mathematics"},
	{ID: "technology", Name: "Technology", Description: "Questions from the world of technology"},
	{ID: "music", Name: "Music", Description: "Questions from the world of music"},
	{ID: "history", Name: "History", Description: "Questions from the world of history"},
	{ID: "geography", Name: "Geography", Description: "Questions from the world of geography"},
	{ID: "science", Name: "Science", Description: "Questions from the world of science"},
	{ID: "sports", Name: "Sports", Description: "Questions from the world of sports"},
	{ID: "movie_quotes", Name: "Film & TV", Description: "Questions from film and television"},
}

var interesting = []domain.Category{
	{ID: "mysterious_history", Name: "Mysterious History", Description: "Questions about history's unexplained events"},
	{ID: "mythical_creatures", Name: "Mythical Creatures", Description: "Questions about legendary creatures"},
	{ID: "sci_fi_world", Name: "Sci-Fi World", Description: "Questions from science fiction"},
	{ID: "weird_human_records", Name: "Weird Human Records", Description: "Questions about odd human records"},
	{ID: "lost_civilizations", Name: "Lost Civilizations", Description: "Questions about lost civilizations"},
	{ID: "urban_legends", Name: "Urban Legends", Description: "Questions about urban legends"},
	{ID: "retro_games", Name: "Retro Games", Description: "Questions about retro video games"},
	{ID: "space_mysteries", Name: "Space Mysteries", Description: "Questions about the mysteries of space"},
	{ID: "animal_facts", Name: "Animal Behaviour", Description: "Questions about how animals behave"},
	{ID: "general_knowledge", Name: "General Knowledge", Description: "General knowledge questions"},
}

// All returns every category, classic ones first.
func All() []domain.Category {
	out := make([]domain.Category, 0, len(classic)+len(interesting))
	out = appendGroup(out, classic, domain.GroupClassic)
	out = appendGroup(out, interesting, domain.GroupInteresting)
	return out
}

// Group returns the categories of one group.
func Group(group domain.CategoryGroup) []domain.Category {
	switch group {
	case domain.GroupClassic:
		return appendGroup(nil, classic, group)
	case domain.GroupInteresting:
		return appendGroup(nil, interesting, group)
	default:
		return nil
	}
}

// Lookup finds a category by id.
func Lookup(id string) (domain.Category, bool) {
	for _, c := range All() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func appendGroup(dst, src []domain.Category, group domain.CategoryGroup) []domain.Category {
	for _, c := range src {
		c.Group = group
		dst = append(dst, c)
	}
	return dst
}
