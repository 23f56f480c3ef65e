package trivia_test

import (
	"errors"
	"testing"

	"github.com/playperu/maptrivia/internal/trivia"
)

func TestNewCatalog(t *testing.T) {
	places := trivia.PlacesDoc{Places: []trivia.Place{
		{Name: "Disneyland", GeoLat: 33.8115, GeoLong: -117.9189},
		{Name: "Matterhorn Bobsleds", GeoLat: 33.8131, GeoLong: -117.9180},
	}}
	questions := trivia.QuestionsDoc{Questions: []trivia.QuestionEntry{
		{Question: "What year was Disneyland opened?", Answers: []string{"1955", "1962", "1965", "1975"}},
	}}

	c, err := trivia.NewCatalog(places, questions)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if c.NumLocations() != 2 || c.NumQuestions() != 1 {
		t.Fatalf("sizes = %d/%d, want 2/1", c.NumLocations(), c.NumQuestions())
	}

	loc, err := c.Location(1)
	if err != nil {
		t.Fatal(err)
	}
	if loc.ID != 1 || loc.Name != "Matterhorn Bobsleds" || loc.Lat != 33.8131 {
		t.Errorf("location 1 = %+v", loc)
	}

	q, err := c.Question(0)
	if err != nil {
		t.Fatal(err)
	}
	if q.CorrectAnswer() != "1955" {
		t.Errorf("correct answer = %q, want 1955", q.CorrectAnswer())
	}

	// Mutating a returned question must not leak into the catalog.
	q.Answers[0] = "tampered"
	q2, _ := c.Question(0)
	if q2.CorrectAnswer() != "1955" {
		t.Errorf("catalog mutated through returned question")
	}

	// The source documents are copied too.
	questions.Questions[0].Answers[0] = "tampered"
	q3, _ := c.Question(0)
	if q3.CorrectAnswer() != "1955" {
		t.Errorf("catalog shares answers with its source document")
	}
}

func TestNewCatalogErrors(t *testing.T) {
	okPlaces := trivia.PlacesDoc{Places: []trivia.Place{{Name: "Home"}}}
	okQuestions := trivia.QuestionsDoc{Questions: []trivia.QuestionEntry{{Question: "Q?", Answers: []string{"A"}}}}

	tests := []struct {
		name      string
		places    trivia.PlacesDoc
		questions trivia.QuestionsDoc
		want      error
	}{
		{name: "no places", questions: okQuestions, want: trivia.ErrEmptyCatalog},
		{name: "no questions", places: okPlaces, want: trivia.ErrEmptyCatalog},
		{
			name:      "unnamed place",
			places:    trivia.PlacesDoc{Places: []trivia.Place{{GeoLat: 1}}},
			questions: okQuestions,
			want:      trivia.ErrInvalidEntry,
		},
		{
			name:      "question without answers",
			places:    okPlaces,
			questions: trivia.QuestionsDoc{Questions: []trivia.QuestionEntry{{Question: "Q?"}}},
			want:      trivia.ErrInvalidEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trivia.NewCatalog(tt.places, tt.questions)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCatalogUnknownIDs(t *testing.T) {
	c, err := trivia.NewCatalog(
		trivia.PlacesDoc{Places: []trivia.Place{{Name: "Home"}}},
		trivia.QuestionsDoc{Questions: []trivia.QuestionEntry{{Question: "Q?", Answers: []string{"A"}}}},
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int{-1, 1, 42} {
		if _, err := c.Location(id); !errors.Is(err, trivia.ErrUnknownID) {
			t.Errorf("Location(%d) err = %v", id, err)
		}
		if _, err := c.Question(id); !errors.Is(err, trivia.ErrUnknownID) {
			t.Errorf("Question(%d) err = %v", id, err)
		}
	}
}

func TestCatalogDocsRoundTrip(t *testing.T) {
	places := trivia.PlacesDoc{Places: []trivia.Place{{Name: "Home", GeoLat: 1.5, GeoLong: -2.5}}}
	questions := trivia.QuestionsDoc{Questions: []trivia.QuestionEntry{{Question: "Q?", Answers: []string{"A", "B"}}}}
	c, err := trivia.NewCatalog(places, questions)
	if err != nil {
		t.Fatal(err)
	}
	p, q := c.Docs()
	if p.Places[0] != places.Places[0] {
		t.Errorf("places = %+v", p.Places)
	}
	if q.Questions[0].Question != "Q?" || len(q.Questions[0].Answers) != 2 {
		t.Errorf("questions = %+v", q.Questions)
	}
}
