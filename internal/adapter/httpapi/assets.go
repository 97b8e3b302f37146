package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/assets"
)

func (s *Server) assetRoutes(r chi.Router) {
	r.Post("/", s.handleCreateAsset)
	r.Get("/", s.handleListAssets)
	r.Get("/summary", s.handleSummary(s.summary.AssetSummary))
	r.Get("/{id}", s.handleGetAsset)
	r.Put("/{id}", s.handleUpdateAsset)
	r.Delete("/{id}", s.handleDeleteAsset)
	r.Get("/{id}/history", s.handleAssetHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectSnapshot(s.assets.CorrectSnapshot))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.assets.DeleteSnapshot))
}

type assetRequest struct {
	Name     string          `json:"name"`
	Value    decimal.Decimal `json:"value"`
	Category string          `json:"category"`
}

type assetResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Category  string          `json:"category,omitempty"`
	CreatedAt string          `json:"created_at"`
}

func toAssetResponse(a *domain.ValuedAsset) assetResponse {
	return assetResponse{
		ID:        a.ID,
		Name:      a.Name,
		Value:     a.Value,
		Category:  a.Category,
		CreatedAt: formatDate(a.CreatedAt),
	}
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	asset, err := s.assets.Create(r.Context(), assets.CreateAssetInput{
		OwnerID:  ownerFrom(r),
		Name:     req.Name,
		Value:    req.Value,
		Category: req.Category,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	list, err := s.assets.List(r.Context(), ownerFrom(r), category)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]assetResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAssetResponse(a))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	asset, err := s.assets.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req assetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	asset, err := s.assets.Update(r.Context(), assets.UpdateAssetInput{
		OwnerID:  ownerFrom(r),
		ID:       id,
		Name:     req.Name,
		Value:    req.Value,
		Category: req.Category,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.assets.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAssetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	snaps, err := s.assets.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSnapshotResponses(snaps))
}
