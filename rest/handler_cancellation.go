package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	api "github.com/mohitkumar/cancelflow/api/v1"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/model"
	"go.uber.org/zap"
)

// HandleCancellation serves both uses of POST /cancellation: variant fetch at
// flow initialization (get_variant=true) and the outcome report. Wrong-typed
// fields fail JSON decoding and are rejected up front.
func (s *Server) HandleCancellation(w http.ResponseWriter, r *http.Request) {
	var req model.CancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	if req.UserId == "" || req.SubscriptionId == "" {
		respondFailure(w, http.StatusBadRequest, "user_id and subscription_id are required")
		return
	}

	if req.GetVariant {
		variant, err := s.assignmentService.GetOrAssignVariant(r.Context(), req.UserId, req.SubscriptionId)
		if err != nil {
			var invalid api.InvalidIdentityError
			if errors.As(err, &invalid) {
				respondFailure(w, http.StatusBadRequest, invalid.Error())
				return
			}
			logger.Error("error assigning variant", zap.String("userId", req.UserId), zap.String("subscriptionId", req.SubscriptionId), zap.Error(err))
			respondFailure(w, http.StatusInternalServerError, "variant assignment unavailable")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "variant": variant})
		return
	}

	if req.AcceptedDownsell == nil {
		respondFailure(w, http.StatusBadRequest, "accepted_downsell is required")
		return
	}
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	// the stored record carries the pair's assigned variant
	variant, err := s.assignmentService.GetOrAssignVariant(r.Context(), req.UserId, req.SubscriptionId)
	if err != nil {
		logger.Error("error resolving variant for cancellation", zap.String("userId", req.UserId), zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, "internal error")
		return
	}
	record := model.CancellationRecord{
		UserId:           req.UserId,
		SubscriptionId:   req.SubscriptionId,
		DownsellVariant:  variant,
		AcceptedDownsell: *req.AcceptedDownsell,
		Reason:           reason,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.storage.Cancellations().SaveCancellation(r.Context(), record); err != nil {
		logger.Error("error saving cancellation", zap.String("userId", req.UserId), zap.String("subscriptionId", req.SubscriptionId), zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !*req.AcceptedDownsell {
		if err := s.storage.Subscriptions().UpdateStatus(r.Context(), req.UserId, req.SubscriptionId, model.SUBSCRIPTION_PENDING_CANCELLATION); err != nil {
			logger.Error("error updating subscription status", zap.String("userId", req.UserId), zap.String("subscriptionId", req.SubscriptionId), zap.Error(err))
			respondFailure(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}
