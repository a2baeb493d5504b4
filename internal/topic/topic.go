package topic

// Topic identifies a Python study topic.
type Topic string

const (
	TopicVariables Topic = "variables"
	TopicDataTypes Topic = "data-types"
	TopicControl   Topic = "control-structures"
	TopicFunctions Topic = "functions"
	TopicLists     Topic = "lists"
)

// AllTopics returns all topics in display order.
func AllTopics() []Topic {
	return []Topic{
		TopicVariables,
		TopicDataTypes,
		TopicControl,
		TopicFunctions,
		TopicLists,
	}
}

// DisplayName returns a human-readable name for the topic.
func (t Topic) DisplayName() string {
	switch t {
	case TopicVariables:
		return "Variables"
	case TopicDataTypes:
		return "Data Types"
	case TopicControl:
		return "Control Structures"
	case TopicFunctions:
		return "Functions"
	case TopicLists:
		return "Lists"
	default:
		return string(t)
	}
}

// synonyms maps utterance tokens to the topic they indicate. Inflected
// forms are listed explicitly so matching stays a plain lookup.
var synonyms = map[string]Topic{
	"variable":     TopicVariables,
	"variables":    TopicVariables,
	"var":          TopicVariables,
	"vars":         TopicVariables,
	"assignment":   TopicVariables,
	"assignments":  TopicVariables,
	"type":         TopicDataTypes,
	"types":        TopicDataTypes,
	"int":          TopicDataTypes,
	"integer":      TopicDataTypes,
	"integers":     TopicDataTypes,
	"float":        TopicDataTypes,
	"floats":       TopicDataTypes,
	"string":       TopicDataTypes,
	"strings":      TopicDataTypes,
	"str":          TopicDataTypes,
	"bool":         TopicDataTypes,
	"boolean":      TopicDataTypes,
	"booleans":     TopicDataTypes,
	"control":      TopicControl,
	"conditional":  TopicControl,
	"conditionals": TopicControl,
	"if":           TopicControl,
	"else":         TopicControl,
	"elif":         TopicControl,
	"loop":         TopicControl,
	"loops":        TopicControl,
	"while":        TopicControl,
	"for":          TopicControl,
	"function":     TopicFunctions,
	"functions":    TopicFunctions,
	"def":          TopicFunctions,
	"func":         TopicFunctions,
	"parameter":    TopicFunctions,
	"parameters":   TopicFunctions,
	"argument":     TopicFunctions,
	"arguments":    TopicFunctions,
	"return":       TopicFunctions,
	"list":         TopicLists,
	"lists":        TopicLists,
	"array":        TopicLists,
	"arrays":       TopicLists,
	"append":       TopicLists,
	"index":        TopicLists,
	"indexing":     TopicLists,
	"slice":        TopicLists,
	"slicing":      TopicLists,
}

// Parse resolves a single normalized token to a topic.
func Parse(token string) (Topic, bool) {
	t, ok := synonyms[token]
	return t, ok
}

// Find scans tokens in order and returns the first topic mentioned.
func Find(tokens []string) (Topic, bool) {
	for _, tok := range tokens {
		if t, ok := synonyms[tok]; ok {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is one of the known topics.
func Valid(t Topic) bool {
	switch t {
	case TopicVariables, TopicDataTypes, TopicControl, TopicFunctions, TopicLists:
		return true
	}
	return false
}
