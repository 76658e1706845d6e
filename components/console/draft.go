package console

import "fmt"

// DraftMode is the state of a Draft.
type DraftMode int

const (
	DraftClosed DraftMode = iota
	DraftCreating
	DraftEditing
)

func (m DraftMode) String() string {
	switch m {
	case DraftCreating:
		return "creating"
	case DraftEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Commit is the outcome of a successful Draft commit.
type Commit[T any] struct {
	Records []T
	Record  T
	Created bool
}

// Draft holds one entity being created or edited and gates its commit on
// validation. A failed commit keeps the draft open and unchanged.
type Draft[T Record[T]] struct {
	store    *Store[T]
	blank    func() T
	validate func(T) error

	mode   DraftMode
	target int
	value  T
}

// NewDraft builds a closed draft bound to store.
func NewDraft[T Record[T]](store *Store[T], blank func() T, validate func(T) error) *Draft[T] {
	if blank == nil {
		blank = func() T {
			var zero T
			return zero
		}
	}
	if validate == nil {
		validate = func(T) error { return nil }
	}
	return &Draft[T]{store: store, blank: blank, validate: validate}
}

// BeginCreate opens the draft on a default valued entity.
func (d *Draft[T]) BeginCreate() {
	d.mode = DraftCreating
	d.target = 0
	d.value = d.blank().Clone()
}

// BeginEdit opens the draft on a copy of existing and remembers its id.
func (d *Draft[T]) BeginEdit(existing T) {
	d.mode = DraftEditing
	d.target = existing.RecordID()
	d.value = existing.Clone()
}

// Update replaces fields on the draft. No validation happens here.
func (d *Draft[T]) Update(fn func(*T)) error {
	if d.mode == DraftClosed {
		return ErrDraftClosed
	}
	if fn != nil {
		fn(&d.value)
	}
	return nil
}

// Commit validates the draft and writes it to the store. In create mode the
// record is appended under a new id; in edit mode the record with the
// remembered id is replaced and keeps that id.
func (d *Draft[T]) Commit() (Commit[T], error) {
	if d.mode == DraftClosed {
		return Commit[T]{}, ErrDraftClosed
	}
	if d.store == nil {
		return Commit[T]{}, errMissingStore
	}
	if err := d.validate(d.value); err != nil {
		return Commit[T]{}, err
	}

	var (
		record T
		err    error
	)
	created := d.mode == DraftCreating
	if created {
		record, err = d.store.Create(d.value)
	} else {
		record, err = d.store.Replace(d.target, d.value)
	}
	if err != nil {
		return Commit[T]{}, fmt.Errorf("console: commit %s draft: %w", d.mode, err)
	}
	d.close()
	return Commit[T]{Records: d.store.All(), Record: record, Created: created}, nil
}

// Cancel discards the draft without validation.
func (d *Draft[T]) Cancel() {
	d.close()
}

func (d *Draft[T]) close() {
	var zero T
	d.mode = DraftClosed
	d.target = 0
	d.value = zero
}

// Mode returns the current state.
func (d *Draft[T]) Mode() DraftMode { return d.mode }

// Target returns the id being edited, or 0.
func (d *Draft[T]) Target() int { return d.target }

// Value returns the in-progress entity.
func (d *Draft[T]) Value() T { return d.value }
