// Package validate enforces required-field presence on incoming records.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// falsy lists the JSON values that do not count as a present field.
var falsy = []any{nil, false, 0, ""}

// Error reports the required fields that are missing or empty.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

type rule struct {
	field  string
	schema *jsonschema.Schema
}

// Policy checks that every configured field is present and not falsy.
// A nil Policy, or one built from no fields, accepts every object.
type Policy struct {
	rules []rule
}

// NewPolicy compiles one presence schema per required field.
func NewPolicy(required []string) (*Policy, error) {
	p := &Policy{}
	for _, field := range required {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		s, err := compile(field)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		p.rules = append(p.rules, rule{field: field, schema: s})
	}
	return p, nil
}

// Fields returns the required field names in configured order.
func (p *Policy) Fields() []string {
	if p == nil {
		return nil
	}
	fields := make([]string, len(p.rules))
	for i, r := range p.rules {
		fields[i] = r.field
	}
	return fields
}

// Enabled reports whether the policy checks anything.
func (p *Policy) Enabled() bool {
	return p != nil && len(p.rules) > 0
}

// Check returns an *Error naming every required field the document lacks.
func (p *Policy) Check(doc map[string]any) error {
	if !p.Enabled() {
		return nil
	}
	var missing []string
	for _, r := range p.rules {
		if err := r.schema.Validate(doc); err != nil {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return &Error{Fields: missing}
	}
	return nil
}

func compile(field string) (*jsonschema.Schema, error) {
	doc := map[string]any{
		"type":     "object",
		"required": []string{field},
		"properties": map[string]any{
			field: map[string]any{
				"not": map[string]any{"enum": falsy},
			},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("presence.json", strings.NewReader(string(b))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile("presence.json")
}
