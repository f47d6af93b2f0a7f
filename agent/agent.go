package agent

import (
	"sync"
	"time"

	"github.com/mohitkumar/cancelflow/analytics"
	"github.com/mohitkumar/cancelflow/assignment"
	"github.com/mohitkumar/cancelflow/config"
	"github.com/mohitkumar/cancelflow/logger"
	"github.com/mohitkumar/cancelflow/persistence"
	"github.com/mohitkumar/cancelflow/persistence/inmem"
	rds "github.com/mohitkumar/cancelflow/persistence/redis"
	"github.com/mohitkumar/cancelflow/rest"
	"github.com/mohitkumar/cancelflow/service"
	"github.com/mohitkumar/cancelflow/submission"
)

type Agent struct {
	Config            config.Config
	storage           persistence.Storage
	assignmentService assignment.Service
	submissionGateway *submission.Gateway
	flowService       *service.FlowExecutionService
	httpServer        *rest.Server
	shutdown          bool
	shutdownLock      sync.Mutex
	wg                sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config: config,
	}
	setup := []func() error{
		a.setupAnalytics,
		a.setupStorage,
		a.setupAssignmentService,
		a.setupSubmissionGateway,
		a.setupFlowService,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupAnalytics() error {
	return analytics.InitDataCollector(a.Config.AnalyticsConfig)
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_INMEM:
		a.storage = inmem.NewInMemStorage()
	default:
		a.storage = rds.NewRedisStorage(rds.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
	}
	return nil
}

func (a *Agent) setupAssignmentService() error {
	a.assignmentService = assignment.NewService(a.storage.Variants())
	return nil
}

func (a *Agent) setupSubmissionGateway() error {
	a.submissionGateway = submission.NewGateway(a.storage, a.Config.SubmissionCapacity, &a.wg)
	return nil
}

func (a *Agent) setupFlowService() error {
	sessionTtl := time.Duration(a.Config.SessionTtlMinutes) * time.Minute
	a.flowService = service.NewFlowExecutionService(a.assignmentService, a.submissionGateway, sessionTtl, &a.wg)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.assignmentService, a.flowService, a.storage)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	a.submissionGateway.Start()
	a.flowService.Start()
	go func() {
		err := a.httpServer.Start()
		if err != nil {
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	logger.Info("shutting down agent")

	shutdown := []func() error{
		a.httpServer.Stop,
		func() error {
			a.flowService.Stop()
			return nil
		},
		func() error {
			a.submissionGateway.Stop()
			return nil
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	a.wg.Wait()
	return nil
}
