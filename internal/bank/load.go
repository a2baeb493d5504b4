package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/studybuddy/internal/topic"
)

// fileSchema validates question files before decoding. Topic and
// difficulty names are checked here so a typo fails the whole load
// instead of silently producing an unreachable question.
const fileSchema = `{
  "type": "object",
  "required": ["questions"],
  "additionalProperties": false,
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "topic", "difficulty", "prompt", "answer"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "topic": {"type": "string", "enum": ["variables", "data-types", "control-structures", "functions", "lists"]},
          "difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
          "prompt": {"type": "string", "minLength": 1},
          "answer": {"type": "string", "minLength": 1},
          "accept": {"type": "array", "items": {"type": "string"}},
          "choices": {"type": "array", "items": {"type": "string"}, "minItems": 2, "maxItems": 5},
          "hints": {"type": "array", "items": {"type": "string"}, "maxItems": 3}
        }
      }
    }
  }
}`

type bankFile struct {
	Questions []fileQuestion `json:"questions"`
}

type fileQuestion struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	Answer     string   `json:"answer"`
	Accept     []string `json:"accept,omitempty"`
	Choices    []string `json:"choices,omitempty"`
	Hints      []string `json:"hints,omitempty"`
}

// compiledFileSchema compiles fileSchema once per process.
var compiledFileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(fileSchema), &doc); err != nil {
		return nil, fmt.Errorf("parse bank file schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://question-bank.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// LoadDir builds a bank from every *.json file directly under dir.
// Each file is schema-checked before decoding, and the combined set is
// validated the same way the compiled-in set is.
func LoadDir(dir string) (*Bank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read bank dir: %w", err)
	}

	var questions []Question
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		qs, err := loadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
		questions = append(questions, qs...)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions found in %s", dir)
	}
	return New(questions)
}

func loadFile(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := compiledFileSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f bankFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	out := make([]Question, 0, len(f.Questions))
	for _, fq := range f.Questions {
		d, ok := topic.ParseDifficulty(fq.Difficulty)
		if !ok {
			return nil, fmt.Errorf("question %q: unknown difficulty %q", fq.ID, fq.Difficulty)
		}
		out = append(out, Question{
			ID:         fq.ID,
			Topic:      topic.Topic(fq.Topic),
			Difficulty: d,
			Prompt:     fq.Prompt,
			Answer:     fq.Answer,
			Accept:     fq.Accept,
			Choices:    fq.Choices,
			Hints:      fq.Hints,
		})
	}
	return out, nil
}
