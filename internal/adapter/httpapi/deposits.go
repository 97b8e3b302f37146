package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/deposit"
)

func (s *Server) fixedDepositRoutes(r chi.Router) {
	r.Post("/", s.handleCreateFixedDeposit)
	r.Get("/", s.handleListFixedDeposits)
	r.Get("/summary", s.handleSummary(s.summary.FixedDepositSummary))
	r.Get("/{id}", s.handleGetFixedDeposit)
	r.Put("/{id}", s.handleUpdateFixedDeposit)
	r.Delete("/{id}", s.handleDeleteFixedDeposit)
	r.Post("/{id}/close", s.handleCloseFixedDeposit)
	r.Put("/{id}/closure", s.handleUpdateClosedFixedDeposit)
	r.Get("/{id}/history", s.handleFixedDepositHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectEntry(s.fixed.CorrectEntry))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.fixed.DeleteEntry))
}

func (s *Server) recurringDepositRoutes(r chi.Router) {
	r.Post("/", s.handleCreateRecurringDeposit)
	r.Get("/", s.handleListRecurringDeposits)
	r.Get("/summary", s.handleSummary(s.summary.RecurringDepositSummary))
	r.Get("/{id}", s.handleGetRecurringDeposit)
	r.Put("/{id}", s.handleUpdateRecurringDeposit)
	r.Delete("/{id}", s.handleDeleteRecurringDeposit)
	r.Post("/{id}/installments", s.handleMarkInstallmentPaid)
	r.Post("/{id}/close", s.handleCloseRecurringDeposit)
	r.Put("/{id}/closure", s.handleUpdateClosedRecurringDeposit)
	r.Get("/{id}/history", s.handleRecurringDepositHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectEntry(s.recurring.CorrectEntry))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.recurring.DeleteEntry))
}

type fixedDepositRequest struct {
	Name         string          `json:"name"`
	Principal    decimal.Decimal `json:"principal"`
	StatedRate   decimal.Decimal `json:"stated_rate"`
	StartDate    string          `json:"start_date"`
	MaturityDate string          `json:"maturity_date"`
}

func (req fixedDepositRequest) toInput(owner uuid.UUID) (deposit.FixedInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return deposit.FixedInput{}, err
	}
	maturity, err := parseDate(req.MaturityDate)
	if err != nil {
		return deposit.FixedInput{}, err
	}
	return deposit.FixedInput{
		OwnerID:      owner,
		Name:         req.Name,
		Principal:    req.Principal,
		StatedRate:   req.StatedRate,
		StartDate:    start,
		MaturityDate: maturity,
	}, nil
}

type fixedDepositResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Principal      decimal.Decimal `json:"principal"`
	StatedRate     decimal.Decimal `json:"stated_rate"`
	StartDate      string          `json:"start_date"`
	MaturityDate   string          `json:"maturity_date"`
	ExpectedPayout decimal.Decimal `json:"expected_payout"`
	RealizedPayout decimal.Decimal `json:"realized_payout"`
	RealizedRate   decimal.Decimal `json:"realized_rate"`
	ClosedAt       *string         `json:"closed_at,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"created_at"`
}

func toFixedDepositResponse(d *domain.FixedTermDeposit) fixedDepositResponse {
	return fixedDepositResponse{
		ID:             d.ID,
		Name:           d.Name,
		Principal:      d.Principal,
		StatedRate:     d.StatedRate,
		StartDate:      formatDate(d.StartDate),
		MaturityDate:   formatDate(d.MaturityDate),
		ExpectedPayout: d.ExpectedPayout,
		RealizedPayout: d.RealizedPayout,
		RealizedRate:   d.RealizedRate,
		ClosedAt:       formatOptionalDate(d.ClosedAt),
		Status:         string(d.Status),
		CreatedAt:      formatDate(d.CreatedAt),
	}
}

func (s *Server) handleCreateFixedDeposit(w http.ResponseWriter, r *http.Request) {
	var req fixedDepositRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput(ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.fixed.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toFixedDepositResponse(d))
}

func (s *Server) handleListFixedDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := s.fixed.List(r.Context(), ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]fixedDepositResponse, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, toFixedDepositResponse(d))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetFixedDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.fixed.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toFixedDepositResponse(d))
}

func (s *Server) handleUpdateFixedDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fixedDepositRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput(ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.fixed.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toFixedDepositResponse(d))
}

func (s *Server) handleDeleteFixedDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.fixed.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type closureRequest struct {
	ActualPayout decimal.Decimal `json:"actual_payout"`
	ClosedAt     string          `json:"closed_at"`
}

func (s *Server) handleCloseFixedDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req closureRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	closedAt, err := parseDate(req.ClosedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.fixed.Close(r.Context(), ownerFrom(r), id, req.ActualPayout, closedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toFixedDepositResponse(d))
}

func (s *Server) handleUpdateClosedFixedDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req closureRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	closedAt, err := parseDate(req.ClosedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.fixed.UpdateClosedRecord(r.Context(), ownerFrom(r), id, req.ActualPayout, closedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toFixedDepositResponse(d))
}

func (s *Server) handleFixedDepositHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries, err := s.fixed.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toEntryResponses(entries))
}

type recurringDepositRequest struct {
	Name              string          `json:"name"`
	Installment       decimal.Decimal `json:"installment"`
	Frequency         string          `json:"frequency"`
	CustomDays        int             `json:"custom_days"`
	AnnualRate        decimal.Decimal `json:"annual_rate"`
	StartDate         string          `json:"start_date"`
	TotalInstallments int             `json:"total_installments"`
}

func (req recurringDepositRequest) toInput(owner uuid.UUID) (deposit.RecurringInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return deposit.RecurringInput{}, err
	}
	return deposit.RecurringInput{
		OwnerID:           owner,
		Name:              req.Name,
		Installment:       req.Installment,
		Frequency:         domain.Frequency(req.Frequency),
		CustomDays:        req.CustomDays,
		AnnualRate:        req.AnnualRate,
		StartDate:         start,
		TotalInstallments: req.TotalInstallments,
	}, nil
}

type recurringDepositResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Installment           decimal.Decimal `json:"installment"`
	Frequency             string          `json:"frequency"`
	CustomDays            int             `json:"custom_days,omitempty"`
	AnnualRate            decimal.Decimal `json:"annual_rate"`
	StartDate             string          `json:"start_date"`
	TotalInstallments     int             `json:"total_installments"`
	InstallmentsPaid      int             `json:"installments_paid"`
	InstallmentsRemaining int             `json:"installments_remaining"`
	NextDueDate           *string         `json:"next_due_date,omitempty"`
	MaturityValue         decimal.Decimal `json:"maturity_value"`
	RealizedPayout        decimal.Decimal `json:"realized_payout"`
	ClosedAt              *string         `json:"closed_at,omitempty"`
	Status                string          `json:"status"`
	CreatedAt             string          `json:"created_at"`
}

func toRecurringDepositResponse(d *domain.RecurringDeposit) recurringDepositResponse {
	return recurringDepositResponse{
		ID:                    d.ID,
		Name:                  d.Name,
		Installment:           d.Installment,
		Frequency:             string(d.Frequency),
		CustomDays:            d.CustomDays,
		AnnualRate:            d.AnnualRate,
		StartDate:             formatDate(d.StartDate),
		TotalInstallments:     d.TotalInstallments,
		InstallmentsPaid:      d.InstallmentsPaid,
		InstallmentsRemaining: d.InstallmentsRemaining(),
		NextDueDate:           formatOptionalDate(d.NextDueDate),
		MaturityValue:         d.MaturityValue,
		RealizedPayout:        d.RealizedPayout,
		ClosedAt:              formatOptionalDate(d.ClosedAt),
		Status:                string(d.Status),
		CreatedAt:             formatDate(d.CreatedAt),
	}
}

func (s *Server) handleCreateRecurringDeposit(w http.ResponseWriter, r *http.Request) {
	var req recurringDepositRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput(ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.recurring.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toRecurringDepositResponse(d))
}

func (s *Server) handleListRecurringDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := s.recurring.List(r.Context(), ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]recurringDepositResponse, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, toRecurringDepositResponse(d))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRecurringDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.recurring.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecurringDepositResponse(d))
}

func (s *Server) handleUpdateRecurringDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req recurringDepositRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput(ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.recurring.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecurringDepositResponse(d))
}

func (s *Server) handleDeleteRecurringDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.recurring.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type installmentRequest struct {
	PaidOn string `json:"paid_on"`
}

func (s *Server) handleMarkInstallmentPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req installmentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	paidOn, err := parseDate(req.PaidOn)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.recurring.MarkInstallmentPaid(r.Context(), ownerFrom(r), id, paidOn)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecurringDepositResponse(d))
}

func (s *Server) handleCloseRecurringDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req closureRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	closedAt, err := parseDate(req.ClosedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.recurring.Close(r.Context(), ownerFrom(r), id, req.ActualPayout, closedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecurringDepositResponse(d))
}

func (s *Server) handleUpdateClosedRecurringDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req closureRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	closedAt, err := parseDate(req.ClosedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.recurring.UpdateClosedRecord(r.Context(), ownerFrom(r), id, req.ActualPayout, closedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecurringDepositResponse(d))
}

func (s *Server) handleRecurringDepositHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries, err := s.recurring.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toEntryResponses(entries))
}
