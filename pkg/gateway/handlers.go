package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hovde/livelink/pkg/session"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	tok, expiresAt, err := s.store.Create()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		s.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	s.writeJSON(w, http.StatusOK, createResponse{
		Token:      tok,
		Link:       "/track/" + tok,
		Monitor:    "/monitor/" + tok,
		ExpiresAt:  expiresAt,
		TTLSeconds: int(s.store.TTL().Seconds()),
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	tok := r.PathValue("token")

	if err := s.store.Close(tok); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, closeResponse{Status: "closed", Token: tok})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	tok := r.PathValue("token")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpdateBody))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	if err := s.validator.Validate(body); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	update := session.Update{
		Location: req.Location,
		Meta: session.Meta{
			UserAgent:       req.UserAgent,
			TZOffsetMinutes: req.TZOffsetMinutes,
		},
	}
	// A frame without an image media prefix is dropped, not an error;
	// the update is still rejected below if nothing else remains.
	if req.Frame != nil && session.ValidFrame(*req.Frame) {
		update.Frame = req.Frame
	}

	if err := s.store.Append(tok, update); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	tok := r.PathValue("token")

	st, err := s.store.Status(tok)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, statusResponse{
		Token:        st.Token,
		Created:      st.CreatedAt,
		ExpiresAt:    st.ExpiresAt,
		LastSeen:     st.LastSeen,
		HistoryCount: st.HistoryCount,
		Latest:       st.Latest,
		TTLSeconds:   int(s.store.TTL().Seconds()),
	})
}

// writeStoreError maps the store's error taxonomy onto HTTP statuses:
// unknown token vs expired link vs unusable payload are distinct
// conditions for the caller.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "unknown session token")
	case errors.Is(err, session.ErrExpired):
		s.writeError(w, http.StatusGone, "session expired")
	case errors.Is(err, session.ErrInvalidPayload):
		s.writeError(w, http.StatusBadRequest, "no frame or location data supplied")
	default:
		s.logger.Error().Err(err).Msg("Store operation failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
