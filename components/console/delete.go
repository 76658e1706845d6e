package console

import (
	"context"
	"fmt"
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Confirmed returns a Confirmer with a fixed answer, used when the decision
// was already taken by the transport (a confirm flag or query parameter).
func Confirmed(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

// DeletePrompt is the question shown before removing an entity.
func DeletePrompt(entity string) string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", entity)
}

// Delete removes the record with id once confirmer approves. A declined
// confirmation leaves the store unchanged and reports deleted=false.
func Delete[T Record[T]](ctx context.Context, store *Store[T], entity string, id int, confirmer Confirmer) (T, bool, error) {
	var zero T
	if store == nil {
		return zero, false, errMissingStore
	}
	if _, ok := store.Get(id); !ok {
		return zero, false, fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	if confirmer == nil {
		return zero, false, nil
	}
	ok, err := confirmer.Confirm(ctx, DeletePrompt(entity))
	if err != nil {
		return zero, false, fmt.Errorf("console: confirm delete %s %d: %w", entity, id, err)
	}
	if !ok {
		return zero, false, nil
	}
	removed, err := store.Delete(id)
	if err != nil {
		return zero, false, err
	}
	return removed, true, nil
}
