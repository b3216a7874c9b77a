// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var ErrSchemaMismatch = errors.New("SCHEMA_MISMATCH")

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating the parent directory when needed.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity serving taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Missing returns the task types that have no activity, in the order given.
func (r *ActivityRegistry) Missing(taskTypes ...string) []string {
	var out []string
	for _, tt := range taskTypes {
		if _, ok := r.Find(tt); !ok {
			out = append(out, tt)
		}
	}
	return out
}

// Validate checks required fields, uniqueness of ids and task types, and that every schema compiles.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		if a.ID == "" {
			return errors.New("activity missing required field: ID")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		}
		if a.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if !statuses[a.ImplementationStatus] {
			return fmt.Errorf("activity %s has unknown implementation status %q", a.ID, a.ImplementationStatus)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout: %w", a.ID, err)
			}
		}
		if _, err := compile(a.InputSchema); err != nil {
			return fmt.Errorf("activity %s input schema: %w", a.ID, err)
		}
		if _, err := compile(a.OutputSchema); err != nil {
			return fmt.Errorf("activity %s output schema: %w", a.ID, err)
		}
	}
	return nil
}

// ValidateInput checks raw job variables against the activity's input schema.
func (a *Activity) ValidateInput(raw []byte) error {
	return check(a.InputSchema, raw)
}

// ValidateOutput checks a marshalled worker result against the activity's output schema.
func (a *Activity) ValidateOutput(raw []byte) error {
	return check(a.OutputSchema, raw)
}

func compile(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	if len(schema) == 0 {
		schema = map[string]interface{}{"type": "object"}
	}
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
}

func check(schema map[string]interface{}, raw []byte) error {
	s, err := compile(schema)
	if err != nil {
		return err
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(msgs, "; "))
}
