package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/rest"
)

type RecordDTO struct {
	Position int     `json:"position"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List expenses
// @Tags Expense
// @Produce json
// @Success 200 {array} RecordDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Failure 502 {object} rest.ErrorResponse "Gist unavailable"
// @Router /api/expense [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]RecordDTO, 0, len(records))
	for i, record := range records {
		dtos = append(dtos, RecordToDTO(i, record))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Add godoc
// @Summary Add an expense
// @Tags Expense
// @Accept json
// @Param expense body RecordDTO true "Expense"
// @Success 201
// @Failure 400 {object} rest.ErrorResponse "Invalid expense"
// @Router /api/expense [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid request body format",
			Details: err.Error(),
		})
		return
	}
	record, err := DTOToRecord(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.service.Add(r.Context(), record); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Replace godoc
// @Summary Replace all expenses
// @Tags Expense
// @Accept json
// @Param expenses body []RecordDTO true "Expenses, in stored order"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid expense"
// @Router /api/expense [put]
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	var dtos []RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid request body format",
			Details: err.Error(),
		})
		return
	}
	records := make([]Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := DTOToRecord(dto)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		records = append(records, record)
	}
	if err := h.service.Replace(r.Context(), records); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete expenses by position
// @Tags Expense
// @Param position query int true "Position of the expense, may be repeated"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid position"
// @Router /api/expense [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()["position"]
	if len(values) == 0 {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "At least one position is required"})
		return
	}
	positions := make([]int, 0, len(values))
	for _, value := range values {
		position, err := strconv.Atoi(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
				Error:   "Invalid position",
				Details: err.Error(),
			})
			return
		}
		positions = append(positions, position)
	}
	if err := h.service.Delete(r.Context(), positions); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoStore):
		rest.WriteError(w, http.StatusUnauthorized, rest.ErrorResponse{Error: "Not authenticated"})
	case errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrInvalidPosition):
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid expense", Details: err.Error()})
	default:
		log.Errorf("expense operation failed: %v", err)
		rest.WriteError(w, http.StatusBadGateway, rest.ErrorResponse{Error: "Unable to reach the expense store"})
	}
}

func RecordToDTO(position int, record Record) RecordDTO {
	return RecordDTO{
		Position: position,
		Category: string(record.Category),
		Amount:   record.Amount.Float(),
		Date:     record.Date.String(),
	}
}

func DTOToRecord(dto RecordDTO) (Record, error) {
	category, err := ParseCategory(dto.Category)
	if err != nil {
		return Record{}, err
	}
	amount, err := MoneyFromFloat(dto.Amount)
	if err != nil {
		return Record{}, err
	}
	date, err := ParseDate(dto.Date)
	if err != nil {
		return Record{}, err
	}
	return Record{Category: category, Amount: amount, Date: date}, nil
}
