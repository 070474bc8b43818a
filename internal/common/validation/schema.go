// Package validation checks worker job payloads against the JSON schemas
// embedded under schemas/.
package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	apperrors "match-workers/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// definitionsFile holds the shared definitions merged into every task schema.
const definitionsFile = "definitions.json"

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

// Registry holds the compiled schema of every task type.
type Registry struct {
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry compiles the embedded schemas.
func NewRegistry() (*Registry, error) {
	defs, err := readJSON(definitionsFile)
	if err != nil {
		return nil, err
	}

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}

	r := &Registry{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, e := range entries {
		if e.IsDir() || e.Name() == definitionsFile {
			continue
		}
		doc, err := readJSON(e.Name())
		if err != nil {
			return nil, err
		}
		doc["definitions"] = defs

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		r.schemas[strings.TrimSuffix(e.Name(), ".json")] = schema
	}
	return r, nil
}

func readJSON(name string) (map[string]interface{}, error) {
	raw, err := schemaFS.ReadFile(path.Join("schemas", name))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	return doc, nil
}

// TaskTypes lists the task types with a schema, sorted.
func (r *Registry) TaskTypes() []string {
	out := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValidateInput checks a JSON payload against the schema of taskType.
func (r *Registry) ValidateInput(taskType, payload string) (*ValidationResult, error) {
	schema, ok := r.schemas[taskType]
	if !ok {
		return nil, fmt.Errorf("no schema for task type %q", taskType)
	}

	res, err := schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "INVALID_JSON"}},
		}, nil
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, desc := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// Check is ValidateInput reporting violations as UNRECOVERABLE_INPUT.
func (r *Registry) Check(taskType, payload string) error {
	res, err := r.ValidateInput(taskType, payload)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !res.Valid {
		return apperrors.NewUnrecoverableInputError(strings.Join(res.GetErrorMessages(), "; ")).
			WithMetadata("taskType", taskType)
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded schemas.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = NewRegistry()
	})
	return defaultRegistry, defaultErr
}

// CheckPayload validates payload with the default registry.
func CheckPayload(taskType, payload string) error {
	r, err := Default()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return r.Check(taskType, payload)
}
