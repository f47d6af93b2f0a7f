// Package submission is the one-way reporting channel for cancellation
// outcomes. Reports are fire-and-forget: the triggering step transition is
// never blocked and never observes the result.
package submission

import (
	"context"
	"sync"
	"time"

	"github.com/mohitkumar/cancelflow/analytics"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence"
	"github.com/mohitkumar/cancelflow/util"
	"go.uber.org/zap"
)

type Gateway struct {
	worker        *util.Worker
	cancellations persistence.CancellationDao
	subscriptions persistence.SubscriptionDao
}

func NewGateway(storage persistence.Storage, capacity int, wg *sync.WaitGroup) *Gateway {
	g := &Gateway{
		cancellations: storage.Cancellations(),
		subscriptions: storage.Subscriptions(),
	}
	g.worker = util.NewWorker("submission", wg, g.handle, capacity)
	return g
}

func (g *Gateway) Start() {
	g.worker.Start()
}

func (g *Gateway) Stop() {
	g.worker.Stop()
}

// Submit enqueues an outcome report without blocking. A full queue drops the
// report; reporting completeness is traded for a non-blocking flow.
func (g *Gateway) Submit(req model.SubmissionRequest) {
	select {
	case g.worker.Sender() <- req:
	default:
		logger.Error("submission queue full, dropping report",
			zap.String("userId", req.UserId),
			zap.String("subscriptionId", req.SubscriptionId))
		analytics.RecordSubmissionFailure(req.UserId, req.SubscriptionId, req.Variant, req.Reason, "submission queue full")
	}
}

func (g *Gateway) handle(task util.Task) error {
	req := task.(model.SubmissionRequest)
	ctx := context.Background()
	record := model.CancellationRecord{
		UserId:           req.UserId,
		SubscriptionId:   req.SubscriptionId,
		DownsellVariant:  req.Variant,
		AcceptedDownsell: req.Accepted,
		Reason:           req.Reason,
		CreatedAt:        time.Now().UTC(),
	}
	if err := g.cancellations.SaveCancellation(ctx, record); err != nil {
		analytics.RecordSubmissionFailure(req.UserId, req.SubscriptionId, req.Variant, req.Reason, err.Error())
		return err
	}
	if !req.Accepted {
		if err := g.subscriptions.UpdateStatus(ctx, req.UserId, req.SubscriptionId, model.SUBSCRIPTION_PENDING_CANCELLATION); err != nil {
			analytics.RecordSubmissionFailure(req.UserId, req.SubscriptionId, req.Variant, req.Reason, err.Error())
			return err
		}
	}
	analytics.RecordSubmission(req.UserId, req.SubscriptionId, req.Variant, req.Accepted, req.Reason)
	return nil
}
