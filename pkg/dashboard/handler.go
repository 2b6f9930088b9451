package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/rest"
	"github.com/tripspend/tripspend/pkg/expense"
)

type CategoryTotalDTO struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

type SummaryDTO struct {
	Count            int                `json:"count"`
	Total            float64            `json:"total"`
	LastDay          string             `json:"lastDay,omitempty"`
	LastDayTotal     float64            `json:"lastDayTotal"`
	PreviousDay      string             `json:"previousDay,omitempty"`
	PreviousDayTotal float64            `json:"previousDayTotal"`
	ByCategory       []CategoryTotalDTO `json:"byCategory"`
}

type Handler struct {
	service  Service
	renderer SummaryRenderer
}

func NewHandler(service Service, renderer SummaryRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetSummary godoc
// @Summary Expense summary
// @Description Totals, last day and previous day totals and per-category totals. Send Accept: text/csv for CSV.
// @Tags Dashboard
// @Produce json
// @Produce text/csv
// @Success 200 {object} SummaryDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Failure 502 {object} rest.ErrorResponse "Gist unavailable"
// @Router /api/dashboard [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		if errors.Is(err, expense.ErrNoStore) {
			rest.WriteError(w, http.StatusUnauthorized, rest.ErrorResponse{Error: "Not authenticated"})
			return
		}
		log.Errorf("unable to build summary: %v", err)
		rest.WriteError(w, http.StatusBadGateway, rest.ErrorResponse{Error: "Unable to reach the expense store"})
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		WriteCsv(w, h.renderer, summary)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteCsv renders summary as a CSV attachment.
func WriteCsv(w http.ResponseWriter, renderer SummaryRenderer, summary Summary) {
	csv, err := renderer.RenderSummary(summary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

func summaryToDTO(summary Summary) SummaryDTO {
	dto := SummaryDTO{
		Count:            summary.Count,
		Total:            summary.Total.Float(),
		LastDayTotal:     summary.LastDayTotal.Float(),
		PreviousDayTotal: summary.PreviousDayTotal.Float(),
		ByCategory:       make([]CategoryTotalDTO, 0, len(summary.ByCategory)),
	}
	if summary.HasDays {
		dto.LastDay = summary.LastDay.String()
		dto.PreviousDay = summary.PreviousDay.String()
	}
	for _, total := range summary.ByCategory {
		dto.ByCategory = append(dto.ByCategory, CategoryTotalDTO{
			Category: string(total.Category),
			Label:    total.Category.Label(),
			Amount:   total.Amount.Float(),
			Share:    total.Share,
		})
	}
	return dto
}
