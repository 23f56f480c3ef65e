package trivia

// Wire documents, as served in places.json and questions.json.

type PlacesDoc struct {
	Places []Place `json:"places"`
}

type Place struct {
	Name    string  `json:"name"`
	GeoLat  float64 `json:"geolat"`
	GeoLong float64 `json:"geolong"`
}

type QuestionsDoc struct {
	Questions []QuestionEntry `json:"questions"`
}

type QuestionEntry struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}
