package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrCustomFieldsInvalid is wrapped by FieldsValidationError.
var ErrCustomFieldsInvalid = errors.New("posts: custom fields do not match the post type schema")

// FieldIssue is one schema violation.
type FieldIssue struct {
	Location string
	Message  string
}

// FieldsValidationError lists every custom field violation.
type FieldsValidationError struct {
	Issues []FieldIssue
}

func (e *FieldsValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	if len(parts) == 0 {
		return ErrCustomFieldsInvalid.Error()
	}
	return ErrCustomFieldsInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *FieldsValidationError) Unwrap() error {
	return ErrCustomFieldsInvalid
}

// validateCustomFields checks fields against a JSON schema. A nil schema accepts anything.
func validateCustomFields(schema map[string]any, fields map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("posts: compile field schema: %w", err)
	}

	// jsonschema expects values shaped like encoding/json output.
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("posts: encode custom fields: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("posts: decode custom fields: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := compiled.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &FieldsValidationError{Issues: collectIssues(validationErr)}
		}
		return err
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("fields.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("fields.json")
}

func collectIssues(err *jsonschema.ValidationError) []FieldIssue {
	var issues []FieldIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, FieldIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
