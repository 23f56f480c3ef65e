package game

import "fmt"

// Tier is the end-of-round rating picked from the final score.
type Tier int

const (
	TierNone Tier = iota
	TierReallySuck
	TierPrettyBad
	TierCanDoBetter
	TierMiddling
	TierGettingThere
	TierNotBad
	TierPrettyWell
	TierPerfect
)

var tierMessages = map[Tier]string{
	TierNone:         "",
	TierReallySuck:   "Jeez, you really suck.",
	TierPrettyBad:    "Not the worst but still pretty bad.",
	TierCanDoBetter:  "You can probably do better.",
	TierMiddling:     "Not the best but also not the worst.",
	TierGettingThere: "You're getting there!",
	TierNotBad:       "Not bad!",
	TierPrettyWell:   "You did pretty well!",
	TierPerfect:      "Wow, you must know the resort by heart!",
}

func (t Tier) Message() string { return tierMessages[t] }

// TierFor walks the rating ladder top to bottom; the first match wins.
// Thresholds use integer division. Scores at or above total-total/5 but
// short of a perfect round match nothing and yield TierNone.
func TierFor(score, total int) Tier {
	switch {
	case score < total/5:
		return TierReallySuck
	case score < total/4:
		return TierPrettyBad
	case score < total/3:
		return TierCanDoBetter
	case score < total/2:
		return TierMiddling
	case score < total-total/3:
		return TierGettingThere
	case score < total-total/4:
		return TierNotBad
	case score < total-total/5:
		return TierPrettyWell
	case score == total:
		return TierPerfect
	}
	return TierNone
}

// SummaryMessage returns the tier message for a final score.
func SummaryMessage(score, total int) string {
	return TierFor(score, total).Message()
}

// Scoreboard tracks the running score and elapsed seconds of a round.
type Scoreboard struct {
	total   int
	score   int
	elapsed int
}

func (s *Scoreboard) Reset(total int) {
	s.total = total
	s.score = 0
	s.elapsed = 0
}

func (s *Scoreboard) Increment()   { s.score++ }
func (s *Scoreboard) Tick()        { s.elapsed++ }
func (s *Scoreboard) Score() int   { return s.score }
func (s *Scoreboard) Total() int   { return s.total }
func (s *Scoreboard) Elapsed() int { return s.elapsed }

func (s *Scoreboard) Summary() string {
	return SummaryMessage(s.score, s.total)
}

// ScoreText renders the score display, e.g. "Score: 3/20 points".
func (s *Scoreboard) ScoreText() string {
	return fmt.Sprintf("Score: %d/%d points", s.score, s.total)
}

// TimeText renders the time display, e.g. "Time: 1:05".
func (s *Scoreboard) TimeText() string {
	return "Time: " + FormatElapsed(s.elapsed)
}

// FormatElapsed formats seconds as minutes:seconds with zero-padded seconds.
func FormatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
