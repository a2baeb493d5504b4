package intent

import "github.com/abhisek/studybuddy/internal/topic"

// Kind enumerates the intents the resolver can produce.
type Kind string

const (
	KindStartQuiz          Kind = "start_quiz"
	KindRequestHint        Kind = "request_hint"
	KindRequestExplanation Kind = "request_explanation"
	KindRequestProgress    Kind = "request_progress"
	KindSubmitAnswer       Kind = "submit_answer"
	KindGreeting           Kind = "greeting"
	KindFarewell           Kind = "farewell"
	KindUnknown            Kind = "unknown"
)

// Intent is the resolved meaning of a single learner utterance.
type Intent struct {
	Kind Kind

	// Topic is the topic slot, when the utterance named one.
	Topic topic.Topic

	// Query carries the text to ground an explanation on.
	Query string

	// Answer carries the raw utterance when Kind is KindSubmitAnswer.
	Answer string
}
