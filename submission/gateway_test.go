package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence"
	"github.com/mohitkumar/cancelflow/persistence/inmem"
	"github.com/stretchr/testify/require"
)

func TestGatewayPersistsOutcome(t *testing.T) {
	storage := inmem.NewInMemStorage()
	var wg sync.WaitGroup
	gateway := NewGateway(storage, 16, &wg)
	gateway.Start()
	defer gateway.Stop()

	gateway.Submit(model.SubmissionRequest{
		UserId:         "u1",
		SubscriptionId: "s1",
		Variant:        model.VARIANT_B,
		Accepted:       false,
		Reason:         "Too expensive - willing to pay: $10",
	})

	ctx := context.Background()
	require.Eventually(t, func() bool {
		record, err := storage.Cancellations().GetCancellation(ctx, "u1", "s1")
		return err == nil && record != nil
	}, 2*time.Second, 10*time.Millisecond)

	record, err := storage.Cancellations().GetCancellation(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Equal(t, model.VARIANT_B, record.DownsellVariant)
	require.False(t, record.AcceptedDownsell)
	require.Equal(t, "Too expensive - willing to pay: $10", record.Reason)
	require.False(t, record.CreatedAt.IsZero())

	// a declined downsell marks the subscription for cancellation
	require.Eventually(t, func() bool {
		status, err := storage.Subscriptions().GetStatus(ctx, "u1", "s1")
		return err == nil && status == model.SUBSCRIPTION_PENDING_CANCELLATION
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAcceptedOfferKeepsSubscriptionActive(t *testing.T) {
	storage := inmem.NewInMemStorage()
	var wg sync.WaitGroup
	gateway := NewGateway(storage, 16, &wg)
	gateway.Start()
	defer gateway.Stop()

	gateway.Submit(model.SubmissionRequest{
		UserId:         "u2",
		SubscriptionId: "s2",
		Variant:        model.VARIANT_A,
		Accepted:       true,
		Reason:         "Accepted retention offer",
	})

	ctx := context.Background()
	require.Eventually(t, func() bool {
		record, err := storage.Cancellations().GetCancellation(ctx, "u2", "s2")
		return err == nil && record != nil && record.AcceptedDownsell
	}, 2*time.Second, 10*time.Millisecond)

	status, err := storage.Subscriptions().GetStatus(ctx, "u2", "s2")
	require.NoError(t, err)
	require.Equal(t, model.SUBSCRIPTION_ACTIVE, status)
}

type failingStorage struct {
	persistence.Storage
	calls chan struct{}
}

func (f *failingStorage) Cancellations() persistence.CancellationDao {
	return failingCancellationDao{calls: f.calls}
}

type failingCancellationDao struct {
	calls chan struct{}
}

func (d failingCancellationDao) SaveCancellation(ctx context.Context, record model.CancellationRecord) error {
	d.calls <- struct{}{}
	return errors.New("backend unreachable")
}

func (d failingCancellationDao) GetCancellation(ctx context.Context, userId string, subscriptionId string) (*model.CancellationRecord, error) {
	return nil, nil
}

func TestSubmissionFailureIsSwallowed(t *testing.T) {
	storage := &failingStorage{
		Storage: inmem.NewInMemStorage(),
		calls:   make(chan struct{}, 4),
	}
	var wg sync.WaitGroup
	gateway := NewGateway(storage, 16, &wg)
	gateway.Start()
	defer gateway.Stop()

	// Submit never blocks and never reports the failure back
	gateway.Submit(model.SubmissionRequest{
		UserId:         "u3",
		SubscriptionId: "s3",
		Variant:        model.VARIANT_A,
		Accepted:       false,
		Reason:         "Completed visa support flow",
	})

	select {
	case <-storage.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("submission was never attempted")
	}

	// no retry: exactly one attempt per report
	select {
	case <-storage.calls:
		t.Fatal("failed submission must not be retried")
	case <-time.After(200 * time.Millisecond):
	}
}
