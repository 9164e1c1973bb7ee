package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/rosterkeeper/internal/common"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/users"
	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type updateUserRequest struct {
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type userDTO struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	EmailHash string `json:"emailHash"`
	Signature string `json:"signature"`
}

type statsDTO struct {
	Total    int64            `json:"total"`
	ByRole   map[string]int64 `json:"byRole"`
	ByStatus map[string]int64 `json:"byStatus"`
}

func toDTO(u *users.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		EmailHash: u.EmailHash,
		Signature: u.Signature,
	}
}

func idParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in createUserRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := s.users.Create(r.Context(), in.Email, in.Role, in.Status)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	out := make([]userDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		errorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDTO(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		errorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var in updateUserRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := s.users.Update(r.Context(), id, users.UpdateParams{
		Email:  in.Email,
		Role:   in.Role,
		Status: in.Status,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDTO(u))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		errorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.users.Stats(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsDTO{
		Total:    stats.Total,
		ByRole:   stats.ByRole,
		ByStatus: stats.ByStatus,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.exports.Snapshot(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", common.ExportContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	pem, err := s.keys.PublicKeyPEM()
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", common.PublicKeyContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(pem))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
