package app

import (
	"html/template"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tripspend/tripspend/internal/config"
	"github.com/tripspend/tripspend/internal/event_bus"
	"github.com/tripspend/tripspend/internal/utils"
	"github.com/tripspend/tripspend/pkg/dashboard"
	"github.com/tripspend/tripspend/pkg/expense"
	"github.com/tripspend/tripspend/pkg/gist"
	"github.com/tripspend/tripspend/pkg/session"
	"github.com/tripspend/tripspend/pkg/ui"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Registry *prometheus.Registry

	GistMetrics   *gist.Metrics
	Authenticator gist.Authenticator

	Sessions *session.Store

	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	DashboardService   *dashboard.ServiceImpl
	CsvSummaryRenderer *dashboard.CsvSummaryRendererImpl
	DashboardHandler   *dashboard.Handler

	UiHandler *ui.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application, templates *template.Template) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps.GistMetrics = gist.NewMetrics(deps.Registry)
	deps.Authenticator = gist.NewAuthenticator(cfg.Gist, deps.GistMetrics)

	deps.Sessions = session.NewStore(deps.Clock, cfg.Session.IdleTimeout)
	session.SubscribeFlashes(deps.EventBus)

	deps.ExpenseService = expense.NewService(deps.EventBus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.DashboardService = dashboard.NewService(deps.ExpenseService)
	deps.CsvSummaryRenderer = dashboard.NewCsvSummaryRenderer()
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.CsvSummaryRenderer)

	deps.UiHandler = ui.NewHandler(
		templates,
		deps.Authenticator,
		deps.ExpenseService,
		deps.DashboardService,
		deps.CsvSummaryRenderer,
		deps.Clock,
		cfg.Gist.Id,
	)

	return deps
}
