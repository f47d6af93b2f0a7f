package persistence

import (
	"context"
	"fmt"

	"github.com/mohitkumar/cancelflow/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

// VariantDao persists the per identity-pair experiment assignment.
type VariantDao interface {
	// GetVariant returns the stored record, or nil when the pair has no
	// assignment yet.
	GetVariant(ctx context.Context, userId string, subscriptionId string) (*model.VariantRecord, error)

	// CreateVariant inserts the record with first-write-wins semantics: when a
	// concurrent caller already persisted an assignment for the pair, the
	// stored record is returned instead of the proposed one.
	CreateVariant(ctx context.Context, record model.VariantRecord) (model.VariantRecord, error)
}

// CancellationDao persists terminal cancellation outcomes, keyed on the
// identity pair. Duplicate reports overwrite; no idempotency key exists.
type CancellationDao interface {
	SaveCancellation(ctx context.Context, record model.CancellationRecord) error
	GetCancellation(ctx context.Context, userId string, subscriptionId string) (*model.CancellationRecord, error)
}

type SubscriptionDao interface {
	UpdateStatus(ctx context.Context, userId string, subscriptionId string, status model.SubscriptionStatus) error
	GetStatus(ctx context.Context, userId string, subscriptionId string) (model.SubscriptionStatus, error)
}

type Storage interface {
	Variants() VariantDao
	Cancellations() CancellationDao
	Subscriptions() SubscriptionDao
}
