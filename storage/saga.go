package storage

import "context"

// Saga collects the compensating actions of a multi-step operation.
// Steps register their inverse as they complete; if a later step fails,
// Rollback runs the inverses in reverse order. Commit disarms it, so a
// deferred Rollback on the success path is a no-op.
type Saga struct {
	undos []func(context.Context)
}

func NewSaga() *Saga {
	return &Saga{}
}

// Record registers the inverse of a completed step.
func (s *Saga) Record(undo func(context.Context)) {
	s.undos = append(s.undos, undo)
}

// RecordDelete registers best-effort deletion of uploaded references.
func (s *Saga) RecordDelete(store ObjectStorage, refs ...string) {
	if len(refs) == 0 {
		return
	}
	kept := append([]string(nil), refs...)
	s.Record(func(ctx context.Context) {
		store.DeleteFiles(ctx, kept)
	})
}

// Rollback undoes the recorded steps, newest first.
func (s *Saga) Rollback(ctx context.Context) {
	for i := len(s.undos) - 1; i >= 0; i-- {
		s.undos[i](ctx)
	}
	s.undos = nil
}

// Commit keeps the completed steps in place and disarms Rollback.
func (s *Saga) Commit() {
	s.undos = nil
}
