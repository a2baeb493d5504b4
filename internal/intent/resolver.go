package intent

import "github.com/abhisek/studybuddy/internal/topic"

// rule pairs a predicate with an intent constructor.
type rule struct {
	match func(u utterance) bool
	build func(u utterance) Intent
}

// Resolver classifies utterances with an ordered rule table: the first
// matching rule wins, so explicit commands outrank generic phrasing and
// a farewell still works while a quiz question is open.
type Resolver struct {
	rules []rule
}

// NewResolver builds the default rule table.
func NewResolver() *Resolver {
	return &Resolver{rules: []rule{
		{
			match: func(u utterance) bool {
				return u.has("bye", "goodbye", "quit", "exit", "stop") ||
					u.hasPhrase("see you", "im done", "im finished", "thats all")
			},
			build: func(u utterance) Intent { return Intent{Kind: KindFarewell} },
		},
		{
			match: func(u utterance) bool {
				return u.has("hint", "clue", "stuck") ||
					u.hasPhrase("help me", "i need help", "give me a hand")
			},
			build: func(u utterance) Intent { return Intent{Kind: KindRequestHint} },
		},
		{
			match: func(u utterance) bool {
				return u.has("progress", "score", "stats", "statistics") ||
					u.hasPhrase("how am i doing", "how did i do", "my results")
			},
			build: func(u utterance) Intent { return Intent{Kind: KindRequestProgress} },
		},
		{
			match: func(u utterance) bool {
				return u.has("quiz", "practice", "question", "questions") ||
					u.hasPhrase("test me", "ask me", "try me", "another one")
			},
			build: func(u utterance) Intent {
				it := Intent{Kind: KindStartQuiz}
				it.Topic, _ = topic.Find(u.tokens)
				return it
			},
		},
		{
			match: func(u utterance) bool {
				return u.has("explain", "describe") ||
					u.hasPhrase("what is", "what are", "whats", "tell me about",
						"how do", "how does", "teach me")
			},
			build: func(u utterance) Intent {
				it := Intent{Kind: KindRequestExplanation, Query: u.raw}
				it.Topic, _ = topic.Find(u.tokens)
				return it
			},
		},
		{
			match: func(u utterance) bool {
				return u.has("hi", "hello", "hey", "hiya", "yo") ||
					u.hasPhrase("good morning", "good afternoon", "good evening")
			},
			build: func(u utterance) Intent { return Intent{Kind: KindGreeting} },
		},
	}}
}

// Resolve classifies one utterance. It never fails: while a quiz
// question is open, unclaimed text is the learner's answer; otherwise
// it is Unknown.
func (r *Resolver) Resolve(text string, awaitingAnswer bool) Intent {
	u := parse(text)
	if u.norm == "" {
		return Intent{Kind: KindUnknown}
	}
	for _, rl := range r.rules {
		if rl.match(u) {
			return rl.build(u)
		}
	}
	if awaitingAnswer {
		return Intent{Kind: KindSubmitAnswer, Answer: u.raw}
	}
	return Intent{Kind: KindUnknown}
}
