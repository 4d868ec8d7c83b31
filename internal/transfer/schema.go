package transfer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchemaURL = "schema://vocabflash/export.json"

const documentSchema = `{
  "type": "object",
  "required": ["wordProgress"],
  "properties": {
    "wordProgress": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "proficiency": {"type": "integer"},
          "reviewCount": {"type": "integer"},
          "mistakes": {"type": "integer"},
          "consecutiveCorrect": {"type": "integer"},
          "lastReviewedAt": {"type": ["string", "null"]},
          "firstLearnedAt": {"type": ["string", "null"]},
          "difficulty": {"enum": ["easy", "normal", "hard"]}
        }
      }
    },
    "sessionStats": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "totalAnswers": {"type": "integer", "minimum": 0},
          "correctAnswers": {"type": "integer", "minimum": 0},
          "wordsReviewed": {"type": "integer", "minimum": 0},
          "accuracy": {"type": "integer"},
          "duration": {"type": "integer", "minimum": 0},
          "date": {"type": "string"}
        }
      }
    },
    "userSettings": {
      "type": ["object", "null"],
      "properties": {
        "learningMode": {"enum": ["primary", "secondary"]},
        "groupSize": {"type": "integer", "minimum": 1}
      }
    },
    "version": {"type": "string"}
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func documentValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(documentSchemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks raw against the export document schema.
func validateDocument(raw []byte) error {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := documentValidator()
	if err != nil {
		return err
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
