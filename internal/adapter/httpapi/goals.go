package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/goal"
)

func (s *Server) goalRoutes(r chi.Router) {
	r.Post("/", s.handleCreateGoal)
	r.Get("/", s.handleListGoals)
	r.Get("/summary", s.handleSummary(s.summary.GoalSummary))
	r.Get("/{id}", s.handleGetGoal)
	r.Put("/{id}", s.handleUpdateGoal)
	r.Delete("/{id}", s.handleDeleteGoal)
	r.Post("/{id}/contribute", s.handleContribute)
	r.Post("/{id}/contribution-done", s.handleContributionDone)
	r.Post("/{id}/achieve", s.handleAchieveGoal)
	r.Post("/{id}/reactivate", s.handleReactivateGoal)
	r.Post("/{id}/archive", s.handleArchiveGoal)
	r.Get("/{id}/history", s.handleGoalHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectSnapshot(s.goals.CorrectSnapshot))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.goals.DeleteSnapshot))
}

type goalRequest struct {
	Name                  string          `json:"name"`
	TargetAmount          decimal.Decimal `json:"target_amount"`
	SavedAmount           decimal.Decimal `json:"saved_amount"`
	Repetitive            bool            `json:"repetitive"`
	ContributionFrequency string          `json:"contribution_frequency"`
	ContributionDays      int             `json:"contribution_days"`
	NextContributionDate  string          `json:"next_contribution_date"`
}

type goalResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	TargetAmount          decimal.Decimal `json:"target_amount"`
	SavedAmount           decimal.Decimal `json:"saved_amount"`
	Repetitive            bool            `json:"repetitive"`
	ContributionFrequency string          `json:"contribution_frequency,omitempty"`
	ContributionDays      int             `json:"contribution_days,omitempty"`
	NextContributionDate  *string         `json:"next_contribution_date,omitempty"`
	Status                string          `json:"status"`
	CreatedAt             string          `json:"created_at"`
}

func toGoalResponse(g *domain.SavingsGoal) goalResponse {
	return goalResponse{
		ID:                    g.ID,
		Name:                  g.Name,
		TargetAmount:          g.TargetAmount,
		SavedAmount:           g.SavedAmount,
		Repetitive:            g.Repetitive,
		ContributionFrequency: string(g.ContributionFrequency),
		ContributionDays:      g.ContributionDays,
		NextContributionDate:  formatOptionalDate(g.NextContributionDate),
		Status:                string(g.Status),
		CreatedAt:             formatDate(g.CreatedAt),
	}
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	nextContribution, err := parseOptionalDate(req.NextContributionDate)
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, err := s.goals.Create(r.Context(), goal.CreateInput{
		OwnerID:               ownerFrom(r),
		Name:                  req.Name,
		TargetAmount:          req.TargetAmount,
		SavedAmount:           req.SavedAmount,
		Repetitive:            req.Repetitive,
		ContributionFrequency: domain.Frequency(req.ContributionFrequency),
		ContributionDays:      req.ContributionDays,
		NextContributionDate:  nextContribution,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context(), ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, err := s.goals.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req goalRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	nextContribution, err := parseOptionalDate(req.NextContributionDate)
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, err := s.goals.Update(r.Context(), goal.UpdateInput{
		OwnerID:               ownerFrom(r),
		ID:                    id,
		Name:                  req.Name,
		TargetAmount:          req.TargetAmount,
		Repetitive:            req.Repetitive,
		ContributionFrequency: domain.Frequency(req.ContributionFrequency),
		ContributionDays:      req.ContributionDays,
		NextContributionDate:  nextContribution,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.goals.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req contributionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	g, err := s.goals.Contribute(r.Context(), ownerFrom(r), id, req.Amount, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleContributionDone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req contributionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	g, err := s.goals.MarkContributionDone(r.Context(), ownerFrom(r), id, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleAchieveGoal(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, s.goals.MarkAchieved)
}

func (s *Server) handleReactivateGoal(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, s.goals.Reactivate)
}

func (s *Server) handleArchiveGoal(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, s.goals.Archive)
}

func (s *Server) goalTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, err := fn(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleGoalHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	snaps, err := s.goals.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSnapshotResponses(snaps))
}
