package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/utils"
	"github.com/tripspend/tripspend/pkg/dashboard"
	"github.com/tripspend/tripspend/pkg/expense"
	"github.com/tripspend/tripspend/pkg/gist"
	"github.com/tripspend/tripspend/pkg/session"
)

const newRows = 3

type navItem struct {
	Page   session.Page
	Title  string
	Active bool
}

type row struct {
	Category string
	Amount   string
	Date     string
	New      bool
}

type pageData struct {
	Title       string
	Login       string
	GistId      string
	MenuOpen    bool
	Page        session.Page
	Pages       []navItem
	Flash       *session.Flash
	Error       string
	Today       string
	Categories  []expense.Category
	Rows        []row
	Unavailable bool
	Summary     dashboard.Summary
	Chart       dashboard.Chart
}

// Handler serves the browser pages. Every action is a POST followed by a redirect to /,
// which renders the page currently selected in the session.
type Handler struct {
	templates     *template.Template
	authenticator gist.Authenticator
	expenses      expense.Service
	dashboard     dashboard.Service
	renderer      dashboard.SummaryRenderer
	clock         utils.Clock
	gistId        string
}

func NewHandler(
	templates *template.Template,
	authenticator gist.Authenticator,
	expenses expense.Service,
	dashboardService dashboard.Service,
	renderer dashboard.SummaryRenderer,
	clock utils.Clock,
	gistId string,
) *Handler {
	return &Handler{
		templates:     templates,
		authenticator: authenticator,
		expenses:      expenses,
		dashboard:     dashboardService,
		renderer:      renderer,
		clock:         clock,
		gistId:        gistId,
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	state, ok := currentState(w, r)
	if !ok {
		return
	}
	h.render(w, r, state, http.StatusOK, "")
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	state, ok := currentState(w, r)
	if !ok {
		return
	}
	if state.Client() != nil {
		redirectHome(w, r)
		return
	}
	h.render(w, r, state, http.StatusOK, "")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state, ok := currentState(w, r)
	if !ok {
		return
	}

	token := strings.TrimSpace(r.PostFormValue("token"))
	if token == "" {
		h.render(w, r, state, http.StatusBadRequest, "Please fill in the token.")
		return
	}

	client, err := h.authenticator.Authenticate(r.Context(), token)
	if err != nil {
		status := http.StatusBadGateway
		if gist.IsAuthError(err) {
			status = http.StatusUnauthorized
		}
		h.render(w, r, state, status, "Login failed: "+err.Error())
		return
	}

	state.SignIn(client)
	state.PushFlash(session.FlashInfo, "Signed in as "+client.Login()+".")
	redirectHome(w, r)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	state, ok := currentState(w, r)
	if !ok {
		return
	}
	state.SignOut()
	redirectHome(w, r)
}

func (h *Handler) ToggleMenu(w http.ResponseWriter, r *http.Request) {
	state, ok := currentState(w, r)
	if !ok {
		return
	}
	state.ToggleMenu()
	redirectHome(w, r)
}

func (h *Handler) SelectPage(w http.ResponseWriter, r *http.Request) {
	page, err := session.ParsePage(mux.Vars(r)["page"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	state, ok := currentState(w, r)
	if !ok {
		return
	}
	if state.SelectPage(page) {
		log.Debugf("session %s switched to page %s", state.Id(), page)
	}
	redirectHome(w, r)
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	state, ok := signedInState(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := parseRecord(r.PostForm, expense.DateOf(h.clock.Now()))
	if err != nil {
		state.PushFlash(session.FlashWarning, "Invalid expense: "+err.Error())
		redirectHome(w, r)
		return
	}
	if err := h.expenses.Add(r.Context(), record); err != nil {
		log.Errorf("failed to add expense: %v", err)
		state.PushFlash(session.FlashError, "Failed to add the expense, please try again.")
	}
	redirectHome(w, r)
}

func (h *Handler) SaveExpenses(w http.ResponseWriter, r *http.Request) {
	state, ok := signedInState(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := parseRows(r.PostForm)
	if err != nil {
		state.PushFlash(session.FlashWarning, "Changes not saved: "+err.Error())
		redirectHome(w, r)
		return
	}
	if !h.expenses.Save(r.Context(), records) {
		state.PushFlash(session.FlashError, "Failed to save the changes, please try again.")
	}
	redirectHome(w, r)
}

func (h *Handler) DashboardCsv(w http.ResponseWriter, r *http.Request) {
	if _, ok := signedInState(w, r); !ok {
		return
	}
	summary, err := h.dashboard.GetSummary(r.Context())
	if err != nil {
		log.Errorf("unable to build summary: %v", err)
		http.Error(w, "Unable to reach the expense store", http.StatusBadGateway)
		return
	}
	dashboard.WriteCsv(w, h.renderer, summary)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, state *session.State, status int, errorMessage string) {
	snapshot := state.Snapshot()
	data := pageData{
		GistId:     h.gistId,
		MenuOpen:   snapshot.MenuOpen,
		Page:       snapshot.CurrentPage,
		Flash:      state.PopFlash(),
		Error:      errorMessage,
		Categories: expense.Categories,
	}

	if snapshot.Client == nil {
		data.Title = "Sign in"
		data.MenuOpen = false
	} else {
		data.Title = snapshot.CurrentPage.Title()
		data.Login = snapshot.Client.Login()
		for _, p := range session.Pages {
			data.Pages = append(data.Pages, navItem{Page: p, Title: p.Title(), Active: p == snapshot.CurrentPage})
		}
		h.loadPage(r, &data)
	}

	var b bytes.Buffer
	if err := h.templates.ExecuteTemplate(&b, "layout", data); err != nil {
		log.Errorf("failed to render page %s: %v", data.Page, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b.Bytes())
}

// loadPage reads what the selected page shows. Remote failures leave the page rendered
// with an unavailable notice.
func (h *Handler) loadPage(r *http.Request, data *pageData) {
	switch data.Page {
	case session.PageCreate:
		data.Today = expense.DateOf(h.clock.Now()).String()
		records := h.expenses.Records(r.Context())
		if records == nil {
			data.Unavailable = true
			return
		}
		for _, record := range records {
			data.Rows = append(data.Rows, row{
				Category: string(record.Category),
				Amount:   record.Amount.String(),
				Date:     record.Date.String(),
			})
		}
		for range newRows {
			data.Rows = append(data.Rows, row{New: true})
		}
	case session.PageDashboard:
		summary, err := h.dashboard.GetSummary(r.Context())
		if err != nil {
			log.Errorf("unable to build summary: %v", err)
			data.Unavailable = true
			return
		}
		data.Summary = summary
		data.Chart = dashboard.Donut(summary)
	}
}

func currentState(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	state, err := session.Current(r.Context())
	if err != nil {
		log.Errorf("request without session: %v", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return state, true
}

func signedInState(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	state, ok := currentState(w, r)
	if !ok {
		return nil, false
	}
	if state.Client() == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	return state, true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
