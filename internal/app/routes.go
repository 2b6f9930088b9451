package app

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/config"
	"github.com/tripspend/tripspend/web"
)

// RegisterRoutes registers the pages, the API and the operational endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Operations
	r.HandleFunc("/healthz", healthz).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods("GET")
	if static, err := fs.Sub(web.StaticFS, "static"); err == nil {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).Methods("GET")
	} else {
		log.Warnf("failed to mount static assets: %v", err)
	}

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(apiAuthentication(deps))
	api.HandleFunc("/expense", deps.ExpenseHandler.List).Methods("GET")
	api.HandleFunc("/expense", deps.ExpenseHandler.Add).Methods("POST")
	api.HandleFunc("/expense", deps.ExpenseHandler.Replace).Methods("PUT")
	api.HandleFunc("/expense", deps.ExpenseHandler.Delete).Methods("DELETE")
	api.HandleFunc("/dashboard", deps.DashboardHandler.GetSummary).Methods("GET")

	// Session and navigation
	r.HandleFunc("/", deps.UiHandler.Index).Methods("GET")
	r.HandleFunc("/login", deps.UiHandler.LoginForm).Methods("GET")
	r.HandleFunc("/login", deps.UiHandler.Login).Methods("POST")
	r.HandleFunc("/logout", deps.UiHandler.Logout).Methods("POST")
	r.HandleFunc("/menu/toggle", deps.UiHandler.ToggleMenu).Methods("POST")
	r.HandleFunc("/page/{page}", deps.UiHandler.SelectPage).Methods("POST")

	// Expenses
	r.HandleFunc("/expenses", deps.UiHandler.AddExpense).Methods("POST")
	r.HandleFunc("/expenses/edit", deps.UiHandler.SaveExpenses).Methods("POST")
	r.HandleFunc("/dashboard.csv", deps.UiHandler.DashboardCsv).Methods("GET")
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
