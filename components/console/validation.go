package console

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator gates draft commits.
type Validator interface {
	ValidateUser(u User) error
	ValidateRole(r Role) error
}

// SchemaValidator checks required fields and then validates the record against
// a JSON schema describing the closed enums (status, permissions).
type SchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
	schemas  map[string]map[string]any
}

// NewSchemaValidator builds a validator backed by jsonschema v5 and the
// default record schemas.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
		schemas: map[string]map[string]any{
			"user": userSchema(),
			"role": roleSchema(),
		},
	}
}

// ValidateUser requires name, email and role.
func (v *SchemaValidator) ValidateUser(u User) error {
	var missing []string
	if blank(u.Name) {
		missing = append(missing, "name")
	}
	if blank(u.Email) {
		missing = append(missing, "email")
	}
	if blank(u.Role) {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return &ValidationError{Entity: "user", Fields: missing}
	}
	return v.validate("user", u)
}

// ValidateRole requires name, description and at least one permission.
func (v *SchemaValidator) ValidateRole(r Role) error {
	var missing []string
	if blank(r.Name) {
		missing = append(missing, "name")
	}
	if blank(r.Description) {
		missing = append(missing, "description")
	}
	if len(r.Permissions) == 0 {
		missing = append(missing, "permissions")
	}
	if len(missing) > 0 {
		return &ValidationError{Entity: "role", Fields: missing}
	}
	return v.validate("role", r)
}

func (v *SchemaValidator) validate(entity string, record any) error {
	schema, err := v.schemaFor(entity)
	if err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("console: marshal %s: %w", entity, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("console: normalize %s: %w", entity, err)
	}
	if err := schema.Validate(payload); err != nil {
		return &ValidationError{Entity: entity, Fields: invalidFields(err), Cause: err}
	}
	return nil
}

func (v *SchemaValidator) schemaFor(entity string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[entity]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	raw, ok := v.schemas[entity]
	if !ok {
		return nil, fmt.Errorf("console: no schema registered for %s", entity)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("console: marshal schema %s: %w", entity, err)
	}
	compiler := jsonschema.NewCompiler()
	name := entity + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("console: load schema %s: %w", entity, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("console: compile schema %s: %w", entity, err)
	}
	v.mu.Lock()
	v.compiled[entity] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// invalidFields collects the top level properties named by schema failures.
func invalidFields(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	var fields []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if idx := strings.Index(field, "/"); idx >= 0 {
				field = field[:idx]
			}
			if field != "" && !slices.Contains(fields, field) {
				fields = append(fields, field)
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return fields
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func userSchema() map[string]any {
	statuses := make([]string, 0, len(Statuses()))
	for _, s := range Statuses() {
		statuses = append(statuses, string(s))
	}
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "email", "role", "status"},
		"properties": map[string]any{
			"name":   map[string]any{"type": "string", "minLength": 1},
			"email":  map[string]any{"type": "string", "minLength": 1},
			"role":   map[string]any{"type": "string", "minLength": 1},
			"status": map[string]any{"type": "string", "enum": statuses},
		},
	}
}

func roleSchema() map[string]any {
	perms := make([]string, 0, len(Permissions()))
	for _, p := range Permissions() {
		perms = append(perms, string(p))
	}
	return map[string]any{
		"type":     "object",
		"required": []string{"name", "description", "permissions"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string", "minLength": 1},
			"permissions": map[string]any{
				"type":        "array",
				"minItems":    1,
				"uniqueItems": true,
				"items":       map[string]any{"type": "string", "enum": perms},
			},
		},
	}
}

// roleReferenceValidator rejects users whose role does not name a known role.
type roleReferenceValidator struct {
	Validator
	roles *Store[Role]
}

func (v roleReferenceValidator) ValidateUser(u User) error {
	if err := v.Validator.ValidateUser(u); err != nil {
		return err
	}
	for _, role := range v.roles.All() {
		if role.Name == u.Role {
			return nil
		}
	}
	return &ValidationError{
		Entity: "user",
		Fields: []string{"role"},
		Cause:  fmt.Errorf("role %q does not exist", u.Role),
	}
}
