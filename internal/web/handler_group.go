package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akapur/autosplit/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const maxGroupNameLen = 200

type createGroupRequest struct {
	Name    string `json:"name"`
	Members []struct {
		Name    string `json:"name"`
		UPIID   string `json:"upi_id"`
		VenmoID string `json:"venmo_id"`
	} `json:"members"`
}

type memberResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	UPIID   string `json:"upi_id"`
	VenmoID string `json:"venmo_id"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) > maxGroupNameLen {
		s.writeError(w, http.StatusBadRequest, "group name too long")
		return
	}

	members := make([]store.MemberInput, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, store.MemberInput{
			Name:    strings.TrimSpace(m.Name),
			UPIID:   strings.TrimSpace(m.UPIID),
			VenmoID: strings.TrimSpace(m.VenmoID),
		})
	}

	group, err := s.groups.CreateGroup(r.Context(), name, members)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create group")
		s.logger.Error("create group failed", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"id": group.ID, "name": group.Name})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	group, err := s.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to get group")
		s.logger.Error("get group failed", "group_id", groupID, "error", err)
		return
	}
	if group == nil {
		s.writeError(w, http.StatusNotFound, "group not found")
		return
	}

	members := make([]memberResponse, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, memberResponse{
			ID:      m.ID,
			Name:    m.Name,
			UPIID:   m.UPIID,
			VenmoID: m.VenmoID,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":      group.ID,
		"name":    group.Name,
		"members": members,
	})
}

type memberSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TotalOwed string `json:"total_owed"`
}

func (s *Server) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	summary, err := s.groups.Summary(r.Context(), groupID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to build summary")
		s.logger.Error("group summary failed", "group_id", groupID, "error", err)
		return
	}
	if summary == nil {
		s.writeError(w, http.StatusNotFound, "group not found")
		return
	}

	members := make([]memberSummaryResponse, 0, len(summary.Members))
	for _, m := range summary.Members {
		members = append(members, memberSummaryResponse{
			ID:        m.MemberID,
			Name:      m.Name,
			TotalOwed: m.TotalOwed.StringFixed(2),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"members":    members,
		"bill_count": summary.BillCount,
	})
}
