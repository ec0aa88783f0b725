package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akapur/autosplit/internal/domain"
	"github.com/akapur/autosplit/internal/service"
)

type assignRequest struct {
	Assignments []struct {
		ItemID   string            `json:"item_id"`
		MemberID string            `json:"member_id"`
		Share    domain.ShareValue `json:"share"`
	} `json:"assignments"`
}

type assignedResponse struct {
	ItemID   string `json:"item_id"`
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

func (s *Server) handleAssignItems(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries := make([]service.AssignmentEntry, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		entries = append(entries, service.AssignmentEntry{
			ItemID:   a.ItemID,
			MemberID: a.MemberID,
			Share:    a.Share,
		})
	}

	rows, err := s.splits.AssignItems(r.Context(), entries)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to assign items")
		s.logger.Error("assign items failed", "error", err)
		return
	}

	assigned := make([]assignedResponse, 0, len(rows))
	for _, row := range rows {
		assigned = append(assigned, assignedResponse{
			ItemID:   row.ItemID,
			MemberID: row.MemberID,
			Amount:   row.Amount.StringFixed(2),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"assigned": assigned,
	})
}
