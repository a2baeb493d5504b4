package recommend

import (
	"github.com/abhisek/studybuddy/internal/student"
	"github.com/abhisek/studybuddy/internal/topic"
)

// Reason explains why a topic was recommended.
type Reason string

const (
	ReasonNew      Reason = "new"      // never attempted
	ReasonWeak     Reason = "weak"     // accuracy at or below the weak threshold
	ReasonPractice Reason = "practice" // least attempted overall
)

// weakThreshold is the accuracy at or below which a topic needs review.
const weakThreshold = 0.4

// Next picks what to study next: the first untouched topic in display
// order, else the weakest topic at or below the weak threshold, else the
// least-attempted topic. Ties resolve to the earlier topic in display
// order, so the recommendation is deterministic.
func Next(p *student.Profile) (topic.Topic, Reason) {
	topics := topic.AllTopics()

	for _, tp := range topics {
		if p.Attempts(tp) == 0 {
			return tp, ReasonNew
		}
	}

	weakest := topics[0]
	weakestAcc := 2.0
	for _, tp := range topics {
		if acc, ok := p.Accuracy(tp); ok && acc < weakestAcc {
			weakest, weakestAcc = tp, acc
		}
	}
	if weakestAcc <= weakThreshold {
		return weakest, ReasonWeak
	}

	least := topics[0]
	for _, tp := range topics[1:] {
		if p.Attempts(tp) < p.Attempts(least) {
			least = tp
		}
	}
	return least, ReasonPractice
}
