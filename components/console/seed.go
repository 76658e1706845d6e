package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	seedVersionV1 = "1"
	// SeedVersion exposes the current seed format version for tooling.
	SeedVersion = seedVersionV1
)

// SeedDocument models a YAML/JSON file describing the records the console
// starts with.
type SeedDocument struct {
	Version  string         `json:"version" yaml:"version"`
	Users    []User         `json:"users" yaml:"users"`
	Roles    []Role         `json:"roles" yaml:"roles"`
	Activity []ActivityItem `json:"activity,omitempty" yaml:"activity,omitempty"`
	Baseline *Baseline      `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Source   string         `json:"-" yaml:"-"`
}

// DefaultSeed returns the built-in sample data as a seed document.
func DefaultSeed() *SeedDocument {
	base := DefaultBaseline()
	return &SeedDocument{
		Version:  seedVersionV1,
		Users:    DefaultUsers(),
		Roles:    DefaultRoles(),
		Activity: DefaultActivity(),
		Baseline: &base,
	}
}

// ReadSeed loads a seed file from disk.
func ReadSeed(path string) (*SeedDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("console: open seed %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeSeed(f)
	if err != nil {
		return nil, fmt.Errorf("console: decode seed %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeSeed reads a seed document from any reader. Unknown fields are
// rejected.
func DecodeSeed(r io.Reader) (*SeedDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc SeedDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("console: seed is empty")
		}
		return nil, fmt.Errorf("console: parse seed: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(NewSchemaValidator()); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeSeed writes doc as YAML.
func EncodeSeed(w io.Writer, doc *SeedDocument) error {
	if doc == nil {
		return fmt.Errorf("console: seed document is nil")
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("console: encode seed: %w", err)
	}
	return encoder.Close()
}

// Validate checks the version, id uniqueness and every record. All record
// problems are reported together.
func (doc *SeedDocument) Validate(validator Validator) error {
	if doc.Version != seedVersionV1 {
		return fmt.Errorf("console: unsupported seed version %q", doc.Version)
	}
	if validator == nil {
		validator = NewSchemaValidator()
	}
	var errs []error
	seenUsers := make(map[int]struct{}, len(doc.Users))
	for idx, u := range doc.Users {
		if u.ID <= 0 {
			errs = append(errs, fmt.Errorf("console: seed user at index %d has no id", idx))
			continue
		}
		if _, ok := seenUsers[u.ID]; ok {
			errs = append(errs, fmt.Errorf("console: seed duplicates user id %d", u.ID))
		}
		seenUsers[u.ID] = struct{}{}
		if err := validator.ValidateUser(u); err != nil {
			errs = append(errs, fmt.Errorf("console: seed user %d: %w", u.ID, err))
		}
	}
	seenRoles := make(map[int]struct{}, len(doc.Roles))
	for idx, r := range doc.Roles {
		if r.ID <= 0 {
			errs = append(errs, fmt.Errorf("console: seed role at index %d has no id", idx))
			continue
		}
		if _, ok := seenRoles[r.ID]; ok {
			errs = append(errs, fmt.Errorf("console: seed duplicates role id %d", r.ID))
		}
		seenRoles[r.ID] = struct{}{}
		if err := validator.ValidateRole(r); err != nil {
			errs = append(errs, fmt.Errorf("console: seed role %d: %w", r.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (doc *SeedDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = seedVersionV1
	}
	for i := range doc.Users {
		if doc.Users[i].Status == "" {
			doc.Users[i].Status = StatusActive
		}
	}
}
