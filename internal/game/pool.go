package game

import (
	"math/rand/v2"

	"github.com/playperu/maptrivia/internal/trivia"
)

// Exhausted is returned by a draw once a queue is empty.
const Exhausted = -1

// Pool holds the two without-replacement draw queues of a round. The
// location and question queues are independent; Session advances them
// together.
type Pool struct {
	rng       *rand.Rand
	locations []int
	questions []int
}

func NewPool(rng *rand.Rand) *Pool {
	return &Pool{rng: rng}
}

// Reset rebuilds both queues. The location queue is a shuffle of
// [1, totalLocations) with the home location prepended; the question queue
// is a shuffle of [0, totalQuestions). Both are cut to roundLength.
func (p *Pool) Reset(totalLocations, totalQuestions, roundLength int) {
	others := seq(1, totalLocations)
	Shuffle(p.rng, others)
	p.locations = truncate(append([]int{trivia.HomeLocationID}, others...), roundLength)

	qs := seq(0, totalQuestions)
	Shuffle(p.rng, qs)
	p.questions = truncate(qs, roundLength)
}

func (p *Pool) NextLocation() int { return pop(&p.locations) }
func (p *Pool) NextQuestion() int { return pop(&p.questions) }

// Remaining reports the undrawn location and question IDs in draw order.
func (p *Pool) Remaining() (locations, questions []int) {
	return append([]int(nil), p.locations...), append([]int(nil), p.questions...)
}

// Shuffle permutes s uniformly in place (Fisher–Yates, last index down).
func Shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func pop(q *[]int) int {
	if len(*q) == 0 {
		return Exhausted
	}
	id := (*q)[0]
	*q = (*q)[1:]
	return id
}

func seq(from, to int) []int {
	if to <= from {
		return []int{}
	}
	s := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		s = append(s, i)
	}
	return s
}

func truncate(s []int, n int) []int {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
