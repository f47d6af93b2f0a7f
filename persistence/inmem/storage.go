// Package inmem is a map-backed storage used for the "memory" storage type
// and in tests. The variant map gives the same first-write-wins guarantee the
// redis HSetNX path does, under a lock instead of a server-side constraint.
package inmem

import (
	"context"
	"sync"

	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence"
)

var _ persistence.Storage = new(InMemStorage)

type InMemStorage struct {
	mu            sync.Mutex
	variants      map[string]model.VariantRecord
	cancellations map[string]model.CancellationRecord
	subscriptions map[string]model.SubscriptionStatus
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		variants:      make(map[string]model.VariantRecord),
		cancellations: make(map[string]model.CancellationRecord),
		subscriptions: make(map[string]model.SubscriptionStatus),
	}
}

func key(userId string, subscriptionId string) string {
	return userId + ":" + subscriptionId
}

func (s *InMemStorage) Variants() persistence.VariantDao {
	return (*inMemVariantDao)(s)
}

func (s *InMemStorage) Cancellations() persistence.CancellationDao {
	return (*inMemCancellationDao)(s)
}

func (s *InMemStorage) Subscriptions() persistence.SubscriptionDao {
	return (*inMemSubscriptionDao)(s)
}

type inMemVariantDao InMemStorage

func (d *inMemVariantDao) GetVariant(ctx context.Context, userId string, subscriptionId string) (*model.VariantRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	record, ok := d.variants[key(userId, subscriptionId)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (d *inMemVariantDao) CreateVariant(ctx context.Context, record model.VariantRecord) (model.VariantRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := key(record.UserId, record.SubscriptionId)
	if existing, ok := d.variants[k]; ok {
		return existing, nil
	}
	d.variants[k] = record
	return record, nil
}

type inMemCancellationDao InMemStorage

func (d *inMemCancellationDao) SaveCancellation(ctx context.Context, record model.CancellationRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancellations[key(record.UserId, record.SubscriptionId)] = record
	return nil
}

func (d *inMemCancellationDao) GetCancellation(ctx context.Context, userId string, subscriptionId string) (*model.CancellationRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	record, ok := d.cancellations[key(userId, subscriptionId)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

type inMemSubscriptionDao InMemStorage

func (d *inMemSubscriptionDao) UpdateStatus(ctx context.Context, userId string, subscriptionId string, status model.SubscriptionStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscriptions[key(userId, subscriptionId)] = status
	return nil
}

func (d *inMemSubscriptionDao) GetStatus(ctx context.Context, userId string, subscriptionId string) (model.SubscriptionStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	status, ok := d.subscriptions[key(userId, subscriptionId)]
	if !ok {
		return model.SUBSCRIPTION_ACTIVE, nil
	}
	return status, nil
}
