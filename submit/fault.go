package submit

import (
	"errors"
	"fmt"
)

// Tier is how far a validation fault reaches.
type Tier int

const (
	// TierDrop removes a single field, entity or report.
	TierDrop Tier = iota
	// TierFatal rejects the whole submitted batch.
	TierFatal
)

func (t Tier) String() string {
	if t == TierFatal {
		return "fatal"
	}
	return "drop"
}

// Fault describes why an entity or report was not accepted.
type Fault struct {
	Tier   Tier
	Entity string
	Field  string
	Reason string
}

func (f *Fault) Error() string {
	if f.Field == "" {
		return fmt.Sprintf("%s %s: %s", f.Tier, f.Entity, f.Reason)
	}
	return fmt.Sprintf("%s %s.%s: %s", f.Tier, f.Entity, f.Field, f.Reason)
}

// Fatal reports whether the fault rejects the batch.
func (f *Fault) Fatal() bool {
	return f != nil && f.Tier == TierFatal
}

func dropFault(entity, field, reason string) *Fault {
	return &Fault{Tier: TierDrop, Entity: entity, Field: field, Reason: reason}
}

func fatalFault(entity, field, reason string) *Fault {
	return &Fault{Tier: TierFatal, Entity: entity, Field: field, Reason: reason}
}

// mismatch turns a type mismatch on a list entity field into a fatal fault.
func mismatch(entity, field string) *Fault {
	return fatalFault(entity, field, fieldMismatch.String())
}

var (
	// ErrRejected is matched by every *Rejection.
	ErrRejected = errors.New("submission rejected")
	// ErrQueue wraps failures raised by the queue sink.
	ErrQueue = errors.New("queue sink failure")
)

// Rejection is returned when an item of the batch carries a fatal fault.
// Nothing from the batch has been enqueued.
type Rejection struct {
	Index int
	Fault *Fault
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("item %d: %s", r.Index, r.Fault.Error())
}

func (r *Rejection) Is(target error) bool {
	return target == ErrRejected
}

func (r *Rejection) Unwrap() error {
	return r.Fault
}
