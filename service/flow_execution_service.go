package service

import (
	"context"
	"sync"
	"time"

	api "github.com/mohitkumar/cancelflow/api/v1"
	"github.com/mohitkumar/cancelflow/assignment"
	"github.com/mohitkumar/cancelflow/flow"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/model"
	"github.com/mohitkumar/cancelflow/submission"
	"github.com/mohitkumar/cancelflow/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// flowSession is one open wizard. The mutex serializes actions: one action is
// processed to completion before the next is accepted. State lives only here;
// closing the session discards everything but the outcomes already reported.
type flowSession struct {
	flowId         string
	userId         string
	subscriptionId string
	variant        model.Variant
	state          model.FlowState
	lastActive     time.Time
	mu             sync.Mutex
}

type FlowExecutionService struct {
	assignmentService assignment.Service
	gateway           *submission.Gateway
	sessions          map[string]*flowSession
	mu                sync.RWMutex
	sessionTtl        time.Duration
	sweeper           *util.TickWorker
	stop              chan struct{}
}

func NewFlowExecutionService(assignmentService assignment.Service, gateway *submission.Gateway, sessionTtl time.Duration, wg *sync.WaitGroup) *FlowExecutionService {
	s := &FlowExecutionService{
		assignmentService: assignmentService,
		gateway:           gateway,
		sessions:          make(map[string]*flowSession),
		sessionTtl:        sessionTtl,
		stop:              make(chan struct{}),
	}
	s.sweeper = util.NewTickWorker("session-sweeper", time.Minute, s.stop, s.sweepSessions, wg)
	return s
}

func (s *FlowExecutionService) Start() {
	s.sweeper.Start()
}

func (s *FlowExecutionService) Stop() {
	s.sweeper.Stop()
}

// StartFlow assigns the variant and opens a session. An assignment failure
// halts initialization; the flow never starts on a guessed variant.
func (s *FlowExecutionService) StartFlow(ctx context.Context, userId string, subscriptionId string) (*model.FlowExecution, error) {
	variant, err := s.assignmentService.GetOrAssignVariant(ctx, userId, subscriptionId)
	if err != nil {
		return nil, err
	}
	session := &flowSession{
		flowId:         uuid.New().String(),
		userId:         userId,
		subscriptionId: subscriptionId,
		variant:        variant,
		state:          model.NewFlowState(),
		lastActive:     time.Now(),
	}
	s.mu.Lock()
	s.sessions[session.flowId] = session
	s.mu.Unlock()
	logger.Info("flow started",
		zap.String("flowId", session.flowId),
		zap.String("userId", userId),
		zap.String("subscriptionId", subscriptionId),
		zap.String("variant", string(variant)))
	return s.view(session), nil
}

// ApplyAction runs one transition. A guard failure leaves the state unchanged;
// a submission emitted by the transition is handed to the gateway and the step
// change is applied without waiting on it.
func (s *FlowExecutionService) ApplyAction(flowId string, action model.Action) (*model.FlowExecution, error) {
	session, err := s.getSession(flowId)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	next, sub := flow.Transition(session.state, action)
	session.state = next
	session.lastActive = time.Now()
	if sub != nil {
		s.gateway.Submit(model.SubmissionRequest{
			UserId:         session.userId,
			SubscriptionId: session.subscriptionId,
			Variant:        session.variant,
			Accepted:       sub.Accepted,
			Reason:         sub.Reason,
		})
	}
	return s.viewLocked(session), nil
}

func (s *FlowExecutionService) GetFlow(flowId string) (*model.FlowExecution, error) {
	session, err := s.getSession(flowId)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// CloseFlow discards the session. In-progress state is never persisted, so
// closing an unknown or already-closed flow is not an error.
func (s *FlowExecutionService) CloseFlow(flowId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[flowId]; ok {
		delete(s.sessions, flowId)
		logger.Info("flow closed", zap.String("flowId", flowId))
	}
}

func (s *FlowExecutionService) getSession(flowId string) (*flowSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[flowId]
	if !ok {
		return nil, api.FlowNotFoundError{FlowId: flowId}
	}
	return session, nil
}

func (s *FlowExecutionService) view(session *flowSession) *model.FlowExecution {
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.viewLocked(session)
}

func (s *FlowExecutionService) viewLocked(session *flowSession) *model.FlowExecution {
	state := session.state
	_, canGoBack := flow.BackTarget(state.Step)
	return &model.FlowExecution{
		FlowId:         session.flowId,
		Variant:        session.variant,
		Step:           state.Step,
		CompletedSteps: state.CompletedSteps,
		StepValid:      flow.StepValid(state),
		CanGoBack:      canGoBack,
		Terminal:       flow.IsTerminal(state.Step),
		State:          state,
	}
}

func (s *FlowExecutionService) sweepSessions() {
	cutoff := time.Now().Add(-s.sessionTtl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for flowId, session := range s.sessions {
		session.mu.Lock()
		idle := session.lastActive.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, flowId)
			logger.Info("expired idle flow session", zap.String("flowId", flowId))
		}
	}
}
