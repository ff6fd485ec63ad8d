// Package todo defines the task record and its persisted encoding.
package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tailscale/hujson"
)

// Schema is the JSON Schema every persisted task list must satisfy.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://donelist.local/tasks.schema.json",
  "title": "donelist tasks",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "isCompleted"],
    "properties": {
      "id": { "type": "string", "format": "uuid" },
      "title": { "type": "string" },
      "isCompleted": { "type": "boolean" }
    }
  }
}`

const schemaURL = "tasks.schema.json"

// ErrDuplicateID is reported when two tasks in one list share an id.
var ErrDuplicateID = errors.New("duplicate task id")

// Task is a single to-do entry.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
	Tasks  int // number of array elements seen, valid or not
}

// Err folds the result into a single error, or nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Encode serializes tasks with 2-space indentation and a trailing newline.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a persisted task list.
func Decode(data []byte) ([]Task, error) {
	std, err := standardize(data)
	if err != nil {
		return nil, err
	}

	result := validate(std)
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}

	var tasks []Task
	if err := json.Unmarshal(std, &tasks); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Validate checks a persisted payload and reports every problem found.
func Validate(data []byte) *ValidationResult {
	std, err := standardize(data)
	if err != nil {
		return &ValidationResult{Errors: []error{err}}
	}
	return validate(std)
}

func standardize(data []byte) ([]byte, error) {
	// hujson rewrites its input in place.
	buf := append([]byte(nil), data...)
	std, err := hujson.Standardize(buf)
	if err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	return std, nil
}

func validate(std []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(std, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("parse task list: %w", err))
		return result
	}
	if items, ok := doc.([]interface{}); ok {
		result.Tasks = len(items)
	}

	schema, err := compiledSchema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result
	}

	checkUniqueIDs(result, doc.([]interface{}))
	return result
}

func checkUniqueIDs(result *ValidationResult, items []interface{}) {
	seen := make(map[uuid.UUID]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		raw, _ := obj["id"].(string)
		id, err := uuid.Parse(raw)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  err,
			})
			continue
		}
		if first, dup := seen[id]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("%w: %s (first at [%d])", ErrDuplicateID, id, first),
			})
			continue
		}
		seen[id] = i
	}
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			schemaErr = fmt.Errorf("load task schema: %w", err)
			return
		}
		schemaCompiled, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return schemaCompiled, schemaErr
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/0/title" into "[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
