// Package trivia defines the core domain types for the map trivia game.
// It depends on nothing outside the standard library.
package trivia

import (
	"errors"
	"fmt"
)

// HomeLocationID is the location every round starts at.
const HomeLocationID = 0

var (
	ErrEmptyCatalog = errors.New("catalog has no locations or no questions")
	ErrInvalidEntry = errors.New("invalid catalog entry")
	ErrUnknownID    = errors.New("unknown id")
)

type Location struct {
	ID   int
	Name string
	Lat  float64
	Lng  float64
}

// Question holds the prompt and its answer choices. Answers[0] is the
// correct one; the rest are distractors.
type Question struct {
	ID      int
	Text    string
	Answers []string
}

// CorrectAnswer returns the canonical answer.
func (q Question) CorrectAnswer() string {
	if len(q.Answers) == 0 {
		return ""
	}
	return q.Answers[0]
}

// Catalog is the immutable set of locations and questions a process plays
// with. IDs are positions in the delivered sequences.
type Catalog struct {
	locations []Location
	questions []Question
}

// NewCatalog builds a catalog from the wire documents, assigning IDs by
// position.
func NewCatalog(places PlacesDoc, questions QuestionsDoc) (*Catalog, error) {
	if len(places.Places) == 0 || len(questions.Questions) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		locations: make([]Location, len(places.Places)),
		questions: make([]Question, len(questions.Questions)),
	}
	for i, p := range places.Places {
		if p.Name == "" {
			return nil, fmt.Errorf("place %d: %w: name is empty", i, ErrInvalidEntry)
		}
		c.locations[i] = Location{ID: i, Name: p.Name, Lat: p.GeoLat, Lng: p.GeoLong}
	}
	for i, q := range questions.Questions {
		if q.Question == "" || len(q.Answers) == 0 {
			return nil, fmt.Errorf("question %d: %w: text and at least one answer required", i, ErrInvalidEntry)
		}
		answers := make([]string, len(q.Answers))
		copy(answers, q.Answers)
		c.questions[i] = Question{ID: i, Text: q.Question, Answers: answers}
	}
	return c, nil
}

func (c *Catalog) NumLocations() int { return len(c.locations) }
func (c *Catalog) NumQuestions() int { return len(c.questions) }

func (c *Catalog) Location(id int) (Location, error) {
	if id < 0 || id >= len(c.locations) {
		return Location{}, fmt.Errorf("location %d: %w", id, ErrUnknownID)
	}
	return c.locations[id], nil
}

// Question returns a copy so callers can't reorder the stored answers.
func (c *Catalog) Question(id int) (Question, error) {
	if id < 0 || id >= len(c.questions) {
		return Question{}, fmt.Errorf("question %d: %w", id, ErrUnknownID)
	}
	q := c.questions[id]
	q.Answers = append([]string(nil), q.Answers...)
	return q, nil
}

// Locations returns all locations in ID order.
func (c *Catalog) Locations() []Location {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// Docs converts the catalog back into its wire documents.
func (c *Catalog) Docs() (PlacesDoc, QuestionsDoc) {
	var p PlacesDoc
	p.Places = make([]Place, len(c.locations))
	for i, l := range c.locations {
		p.Places[i] = Place{Name: l.Name, GeoLat: l.Lat, GeoLong: l.Lng}
	}
	var q QuestionsDoc
	q.Questions = make([]QuestionEntry, len(c.questions))
	for i, qq := range c.questions {
		q.Questions[i] = QuestionEntry{Question: qq.Text, Answers: append([]string(nil), qq.Answers...)}
	}
	return p, q
}
