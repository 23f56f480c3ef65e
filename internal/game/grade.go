package game

import (
	"html"
	"net/url"

	"github.com/playperu/maptrivia/internal/trivia"
)

// Normalize decodes the transport encodings an answer may arrive in:
// percent-escapes first, then HTML entities. Entity decoding goes beyond
// percent-decoding because catalog answers imported from the PHP question
// service are stored entity-encoded. Text that is not valid percent-encoding
// is kept as is.
func Normalize(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	return html.UnescapeString(s)
}

// Grade reports whether answer matches the question's canonical answer.
// The comparison is case-sensitive on the normalized forms.
func Grade(q trivia.Question, answer string) bool {
	if answer == "" || len(q.Answers) == 0 {
		return false
	}
	return Normalize(answer) == Normalize(q.CorrectAnswer())
}
