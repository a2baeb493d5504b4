package evaluate

import "github.com/abhisek/studybuddy/internal/llm"

// JudgeSchema defines the JSON schema for yes/no grading responses.
var JudgeSchema = &llm.Schema{
	Name:        "answer-judge",
	Description: "Yes/no judgment of whether a learner's answer expresses the expected answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{
				"type":        "string",
				"enum":        []any{"yes", "no"},
				"description": "\"yes\" when the learner's answer expresses the expected answer, otherwise \"no\"",
			},
		},
		"required":             []any{"verdict"},
		"additionalProperties": false,
	},
}
