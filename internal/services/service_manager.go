package services

import (
	"log/slog"
	"time"

	"github.com/mindcanvas/mindcanvas-service/internal/cache"
	"github.com/mindcanvas/mindcanvas-service/internal/events"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/validator"
)

// ServiceManager hands out the service instances to the HTTP layer
type ServiceManager interface {
	Scoring() ScoringService
	Submission() SubmissionService
	Test() TestService
	Export() ExportService
}

type serviceManager struct {
	scoring    ScoringService
	submission SubmissionService
	test       TestService
	export     ExportService
}

type Dependencies struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Validator *validator.Validator
	Logger    *slog.Logger
	CacheTTL  time.Duration
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewMockEventPublisher(deps.Logger)
	}

	return &serviceManager{
		scoring:    NewScoringService(deps.Repo, deps.Cache, deps.Publisher, deps.Logger, deps.CacheTTL),
		submission: NewSubmissionService(deps.Repo, deps.Cache, deps.Publisher, deps.Validator, deps.Logger),
		test:       NewTestService(deps.Repo, deps.Cache, deps.Validator, deps.Logger, deps.CacheTTL),
		export:     NewExportService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Scoring() ScoringService       { return m.scoring }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Test() TestService             { return m.test }
func (m *serviceManager) Export() ExportService         { return m.export }
