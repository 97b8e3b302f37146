package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// snapshotResponse is one row of an upsert-by-date value history
type snapshotResponse struct {
	ID    uuid.UUID       `json:"id"`
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
	Notes string          `json:"notes,omitempty"`
}

func toSnapshotResponses(snaps []*domain.ValueSnapshot) []snapshotResponse {
	out := make([]snapshotResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, snapshotResponse{
			ID:    s.ID,
			Date:  formatDate(s.Date),
			Value: s.Value,
			Notes: s.Notes,
		})
	}
	return out
}

// entryResponse is one row of an append-only transaction history
type entryResponse struct {
	ID     uuid.UUID       `json:"id"`
	Date   string          `json:"date"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Units  decimal.Decimal `json:"units"`
	Notes  string          `json:"notes,omitempty"`
}

func toEntryResponses(entries []*domain.LedgerEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:     e.ID,
			Date:   formatDate(e.Date),
			Kind:   string(e.Kind),
			Amount: e.Amount,
			Price:  e.Price,
			Units:  e.Units,
			Notes:  e.Notes,
		})
	}
	return out
}

type snapshotCorrectionRequest struct {
	Value decimal.Decimal `json:"value"`
	Notes string          `json:"notes"`
}

// handleCorrectSnapshot adapts a per-class snapshot correction into a handler
// for PUT /{id}/history/{entryID}
func (s *Server) handleCorrectSnapshot(correct func(ctx context.Context, ownerID, id, snapshotID uuid.UUID, value decimal.Decimal, notes string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.writeError(w, err)
			return
		}
		snapshotID, err := pathID(r, "entryID")
		if err != nil {
			s.writeError(w, err)
			return
		}
		var req snapshotCorrectionRequest
		if err := decode(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		if err := correct(r.Context(), ownerFrom(r), id, snapshotID, req.Value, req.Notes); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusNoContent, nil)
	}
}

type entryCorrectionRequest struct {
	Date   string          `json:"date"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Units  decimal.Decimal `json:"units"`
	Notes  string          `json:"notes"`
}

// handleCorrectEntry adapts a per-class ledger entry correction into a
// handler for PUT /{id}/history/{entryID}
func (s *Server) handleCorrectEntry(correct func(ctx context.Context, ownerID uuid.UUID, e *domain.LedgerEntry) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.writeError(w, err)
			return
		}
		entryID, err := pathID(r, "entryID")
		if err != nil {
			s.writeError(w, err)
			return
		}
		var req entryCorrectionRequest
		if err := decode(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			s.writeError(w, err)
			return
		}

		err = correct(r.Context(), ownerFrom(r), &domain.LedgerEntry{
			ID:           entryID,
			InstrumentID: id,
			Date:         date,
			Kind:         domain.EntryKind(req.Kind),
			Amount:       req.Amount,
			Price:        req.Price,
			Units:        req.Units,
			Notes:        req.Notes,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusNoContent, nil)
	}
}

// handleDeleteHistoryRow adapts a per-class snapshot or entry removal into a
// handler for DELETE /{id}/history/{entryID}
func (s *Server) handleDeleteHistoryRow(del func(ctx context.Context, ownerID, id, entryID uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.writeError(w, err)
			return
		}
		entryID, err := pathID(r, "entryID")
		if err != nil {
			s.writeError(w, err)
			return
		}

		if err := del(r.Context(), ownerFrom(r), id, entryID); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusNoContent, nil)
	}
}
