package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/assets"
)

func (s *Server) accountRoutes(r chi.Router) {
	r.Post("/", s.handleCreateAccount)
	r.Get("/", s.handleListAccounts)
	r.Get("/summary", s.handleSummary(s.summary.AccountSummary))
	r.Get("/{id}", s.handleGetAccount)
	r.Put("/{id}", s.handleUpdateAccount)
	r.Delete("/{id}", s.handleDeleteAccount)
	r.Get("/{id}/history", s.handleAccountHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectSnapshot(s.accounts.CorrectSnapshot))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.accounts.DeleteSnapshot))
}

type accountRequest struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type accountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at"`
}

func toAccountResponse(a *domain.LiquidAccount) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: formatDate(a.CreatedAt),
	}
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	acct, err := s.accounts.Create(r.Context(), assets.CreateAccountInput{
		OwnerID: ownerFrom(r),
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAccountResponse(acct))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context(), ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	acct, err := s.accounts.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req accountRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	acct, err := s.accounts.Update(r.Context(), assets.UpdateAccountInput{
		OwnerID: ownerFrom(r),
		ID:      id,
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.accounts.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAccountHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	snaps, err := s.accounts.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSnapshotResponses(snaps))
}
