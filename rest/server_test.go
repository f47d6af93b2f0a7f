package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mohitkumar/cancelflow/assignment"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/persistence/inmem"
	"github.com/mohitkumar/cancelflow/service"
	"github.com/mohitkumar/cancelflow/submission"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *inmem.InMemStorage) {
	t.Helper()
	storage := inmem.NewInMemStorage()
	var wg sync.WaitGroup
	gateway := submission.NewGateway(storage, 16, &wg)
	gateway.Start()
	t.Cleanup(gateway.Stop)
	assignmentService := assignment.NewService(storage.Variants())
	flowService := service.NewFlowExecutionService(assignmentService, gateway, 30*time.Minute, &wg)
	server, err := NewServer(0, assignmentService, flowService, storage)
	require.NoError(t, err)
	return server, storage
}

func doJSON(t *testing.T, server *Server, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCancellationVariantFetch(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/cancellation", `{"user_id":"u1","subscription_id":"s1","get_variant":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool          `json:"success"`
		Variant model.Variant `json:"variant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Contains(t, []model.Variant{model.VARIANT_A, model.VARIANT_B}, resp.Variant)

	// same pair, same variant
	rec = doJSON(t, server, http.MethodPost, "/cancellation", `{"user_id":"u1","subscription_id":"s1","get_variant":true}`)
	var again struct {
		Variant model.Variant `json:"variant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	require.Equal(t, resp.Variant, again.Variant)
}

func TestCancellationValidation(t *testing.T) {
	server, _ := newTestServer(t)

	for name, body := range map[string]string{
		"missing user id":           `{"subscription_id":"s1","get_variant":true}`,
		"missing subscription id":   `{"user_id":"u1","accepted_downsell":false}`,
		"non-boolean downsell flag": `{"user_id":"u1","subscription_id":"s1","accepted_downsell":"nope"}`,
		"non-string reason":         `{"user_id":"u1","subscription_id":"s1","accepted_downsell":false,"reason":42}`,
		"missing downsell flag":     `{"user_id":"u1","subscription_id":"s1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, server, http.MethodPost, "/cancellation", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.Success)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestCancellationReportMarksSubscription(t *testing.T) {
	server, storage := newTestServer(t)
	ctx := context.Background()

	rec := doJSON(t, server, http.MethodPost, "/cancellation",
		`{"user_id":"u1","subscription_id":"s1","accepted_downsell":false,"reason":"Too expensive - willing to pay: $12"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	record, err := storage.Cancellations().GetCancellation(ctx, "u1", "s1")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.False(t, record.AcceptedDownsell)
	require.Equal(t, "Too expensive - willing to pay: $12", record.Reason)

	status, err := storage.Subscriptions().GetStatus(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Equal(t, model.SUBSCRIPTION_PENDING_CANCELLATION, status)

	// accepting the downsell leaves the subscription alone
	rec = doJSON(t, server, http.MethodPost, "/cancellation",
		`{"user_id":"u2","subscription_id":"s2","accepted_downsell":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	status, err = storage.Subscriptions().GetStatus(ctx, "u2", "s2")
	require.NoError(t, err)
	require.Equal(t, model.SUBSCRIPTION_ACTIVE, status)
}

func startFlow(t *testing.T, server *Server) model.FlowExecution {
	t.Helper()
	rec := doJSON(t, server, http.MethodPost, "/flow", `{"user_id":"u1","subscription_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var execution model.FlowExecution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &execution))
	return execution
}

func applyAction(t *testing.T, server *Server, flowId string, body string) model.FlowExecution {
	t.Helper()
	rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/flow/%s/action", flowId), body)
	require.Equal(t, http.StatusOK, rec.Code)
	var execution model.FlowExecution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &execution))
	return execution
}

func TestFlowEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	execution := startFlow(t, server)
	require.Equal(t, model.STEP_JOB_QUESTION, execution.Step)

	execution = applyAction(t, server, execution.FlowId, `{"action":"answer","value":true}`)
	require.Equal(t, model.STEP_SURVEY, execution.Step)
	require.False(t, execution.StepValid, "survey starts with no fields set")

	execution = applyAction(t, server, execution.FlowId,
		`{"action":"update","fields":{"foundJobWithPlatform":true,"rolesApplied":"1-5","companiesEmailed":"0","companiesInterviewed":"6-20"}}`)
	require.Equal(t, model.STEP_SURVEY, execution.Step)
	require.True(t, execution.StepValid)

	execution = applyAction(t, server, execution.FlowId, `{"action":"submit"}`)
	require.Equal(t, model.STEP_FEEDBACK, execution.Step)

	execution = applyAction(t, server, execution.FlowId, `{"action":"back"}`)
	require.Equal(t, model.STEP_SURVEY, execution.Step)

	rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/flow/%s/action", execution.FlowId), `{"action":"launch"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodPost, fmt.Sprintf("/flow/%s/action", execution.FlowId), `{"action":"answer"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "answer without a value")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/flow/%s", execution.FlowId), nil)
	getRec := httptest.NewRecorder()
	server.Handler.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	rec = doJSON(t, server, http.MethodPost, fmt.Sprintf("/flow/%s/close", execution.FlowId), ``)
	require.Equal(t, http.StatusOK, rec.Code)

	getRec = httptest.NewRecorder()
	server.Handler.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/flow/%s", execution.FlowId), nil))
	require.Equal(t, http.StatusNotFound, getRec.Code)
}

func TestStartFlowRejectsEmptyIdentity(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/flow", `{"user_id":"","subscription_id":"s1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
