package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohitkumar/cancelflow/assignment"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/persistence"
	"github.com/mohitkumar/cancelflow/service"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port              int
	assignmentService assignment.Service
	flowService       *service.FlowExecutionService
	storage           persistence.Storage
}

func NewServer(httpPort int, assignmentService assignment.Service, flowService *service.FlowExecutionService, storage persistence.Storage) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		assignmentService: assignmentService,
		flowService:       flowService,
		storage:           storage,
		Port:              httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/cancellation", s.HandleCancellation).Methods(http.MethodPost)

	router.HandleFunc("/flow", s.HandleStartFlow).Methods(http.MethodPost)
	router.HandleFunc("/flow/{id}", s.HandleGetFlow).Methods(http.MethodGet)
	router.HandleFunc("/flow/{id}/action", s.HandleFlowAction).Methods(http.MethodPost)
	router.HandleFunc("/flow/{id}/close", s.HandleCloseFlow).Methods(http.MethodPost)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondFailure writes the /cancellation contract's failure shape.
func respondFailure(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]any{"success": false, "message": message})
}
