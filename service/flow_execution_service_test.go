package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	api "github.com/mohitkumar/cancelflow/api/v1"
	"github.com/mohitkumar/cancelflow/assignment"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence/inmem"
	"github.com/mohitkumar/cancelflow/submission"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*FlowExecutionService, *inmem.InMemStorage) {
	t.Helper()
	storage := inmem.NewInMemStorage()
	var wg sync.WaitGroup
	gateway := submission.NewGateway(storage, 16, &wg)
	gateway.Start()
	t.Cleanup(gateway.Stop)
	return NewFlowExecutionService(assignment.NewService(storage.Variants()), gateway, 30*time.Minute, &wg), storage
}

func TestStartFlow(t *testing.T) {
	service, _ := newTestService(t)

	execution, err := service.StartFlow(context.Background(), "u1", "s1")
	require.NoError(t, err)
	require.NotEmpty(t, execution.FlowId)
	require.Equal(t, model.STEP_JOB_QUESTION, execution.Step)
	require.Contains(t, []model.Variant{model.VARIANT_A, model.VARIANT_B}, execution.Variant)
	require.False(t, execution.Terminal)
	require.False(t, execution.CanGoBack)

	_, err = service.StartFlow(context.Background(), "", "s1")
	var invalid api.InvalidIdentityError
	require.True(t, errors.As(err, &invalid))
}

func TestApplyActionDrivesFlowAndReports(t *testing.T) {
	service, storage := newTestService(t)
	ctx := context.Background()

	execution, err := service.StartFlow(ctx, "u1", "s1")
	require.NoError(t, err)
	flowId := execution.FlowId

	execution, err = service.ApplyAction(flowId, model.AnswerAction(false))
	require.NoError(t, err)
	require.Equal(t, model.STEP_RETENTION_OFFER, execution.Step)

	// no submission yet
	time.Sleep(50 * time.Millisecond)
	record, err := storage.Cancellations().GetCancellation(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Nil(t, record)

	execution, err = service.ApplyAction(flowId, model.AcceptAction(true))
	require.NoError(t, err)
	require.Equal(t, model.STEP_RETENTION_ACCEPTED, execution.Step)
	require.True(t, execution.Terminal)

	require.Eventually(t, func() bool {
		record, err := storage.Cancellations().GetCancellation(ctx, "u1", "s1")
		return err == nil && record != nil
	}, 2*time.Second, 10*time.Millisecond)

	record, err = storage.Cancellations().GetCancellation(ctx, "u1", "s1")
	require.NoError(t, err)
	require.True(t, record.AcceptedDownsell)
	require.Equal(t, "Accepted retention offer", record.Reason)
	require.Equal(t, execution.Variant, record.DownsellVariant)
}

func TestApplyActionGuardFailureIsNoop(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	execution, err := service.StartFlow(ctx, "u1", "s1")
	require.NoError(t, err)

	after, err := service.ApplyAction(execution.FlowId, model.SubmitAction())
	require.NoError(t, err, "a disallowed action is advisory, never an error")
	require.Equal(t, execution.Step, after.Step)
	require.Equal(t, execution.CompletedSteps, after.CompletedSteps)
}

func TestUnknownFlow(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ApplyAction("missing", model.SubmitAction())
	var notFound api.FlowNotFoundError
	require.True(t, errors.As(err, &notFound))

	_, err = service.GetFlow("missing")
	require.True(t, errors.As(err, &notFound))

	// closing an unknown flow is idempotent
	service.CloseFlow("missing")
}

func TestCloseFlowDiscardsState(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	execution, err := service.StartFlow(ctx, "u1", "s1")
	require.NoError(t, err)

	service.CloseFlow(execution.FlowId)
	_, err = service.GetFlow(execution.FlowId)
	var notFound api.FlowNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestSameIdentityKeepsVariantAcrossFlows(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, err := service.StartFlow(ctx, "u1", "s1")
	require.NoError(t, err)
	service.CloseFlow(first.FlowId)

	second, err := service.StartFlow(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Equal(t, first.Variant, second.Variant)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	execution, err := service.StartFlow(ctx, "u1", "s1")
	require.NoError(t, err)

	session, err := service.getSession(execution.FlowId)
	require.NoError(t, err)
	session.mu.Lock()
	session.lastActive = time.Now().Add(-time.Hour)
	session.mu.Unlock()

	service.sweepSessions()

	_, err = service.GetFlow(execution.FlowId)
	var notFound api.FlowNotFoundError
	require.True(t, errors.As(err, &notFound))
}
