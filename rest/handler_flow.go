package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	api "github.com/mohitkumar/cancelflow/api/v1"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/model"
	"go.uber.org/zap"
)

func (s *Server) HandleStartFlow(w http.ResponseWriter, r *http.Request) {
	var req model.FlowStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	execution, err := s.flowService.StartFlow(r.Context(), req.UserId, req.SubscriptionId)
	if err != nil {
		var invalid api.InvalidIdentityError
		if errors.As(err, &invalid) {
			respondWithError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		logger.Error("error starting flow", zap.String("userId", req.UserId), zap.String("subscriptionId", req.SubscriptionId), zap.Error(err))
		respondWithError(w, http.StatusServiceUnavailable, "flow unavailable")
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	flowId := vars["id"]
	execution, err := s.flowService.GetFlow(flowId)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "flow not found")
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandleFlowAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	flowId := vars["id"]
	var req model.FlowActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	action, err := toAction(req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	execution, err := s.flowService.ApplyAction(flowId, action)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "flow not found")
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandleCloseFlow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.flowService.CloseFlow(vars["id"])
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

func toAction(req model.FlowActionRequest) (model.Action, error) {
	switch strings.ToLower(req.Action) {
	case "answer":
		if req.Value == nil {
			return model.Action{}, errors.New("answer action requires a value")
		}
		return model.AnswerAction(*req.Value), nil
	case "accept":
		if req.Value == nil {
			return model.Action{}, errors.New("accept action requires a value")
		}
		return model.AcceptAction(*req.Value), nil
	case "submit":
		return model.SubmitAction(), nil
	case "next":
		return model.NextAction(), nil
	case "back":
		return model.BackAction(), nil
	case "update":
		if req.Fields == nil {
			return model.Action{}, errors.New("update action requires fields")
		}
		return model.UpdateAction(*req.Fields), nil
	}
	return model.Action{}, errors.New("unknown action")
}
