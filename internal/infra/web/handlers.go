package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"video-unlock-service/internal/domain"
)

// maxSlipBytes bounds the uploaded slip image size.
const maxSlipBytes = 10 << 20 // 10 MiB

type unlockResponse struct {
	Code           string `json:"code"`
	RemainingQuota int    `json:"remaining_quota"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handlePurchase accepts a multipart form: `slip` (image file),
// `quota_tier` (int) and `content_id`.
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSlipBytes); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	file, _, err := r.FormFile("slip")
	if err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	defer file.Close()
	slip, err := io.ReadAll(io.LimitReader(file, maxSlipBytes))
	if err != nil || len(slip) == 0 {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	quotaTier, err := strconv.Atoi(r.FormValue("quota_tier"))
	if err != nil || quotaTier < 1 {
		quotaTier = 1
	}
	contentID := r.FormValue("content_id")

	result, err := s.unlockUC.Purchase(r.Context(), slip, quotaTier, contentID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.sessions.Bind(w, result.Token); err != nil {
		s.log.Error().Err(err).Msg("session bind failed")
	}
	writeJSON(w, http.StatusOK, unlockResponse{Code: result.Token, RemainingQuota: result.Remaining})
}

type redeemRequest struct {
	Code      string `json:"code"`
	ContentID string `json:"content_id"`
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	result, err := s.unlockUC.Redeem(r.Context(), req.Code, req.ContentID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.sessions.Bind(w, result.Token); err != nil {
		s.log.Error().Err(err).Msg("session bind failed")
	}
	writeJSON(w, http.StatusOK, unlockResponse{Code: result.Token, RemainingQuota: result.Remaining})
}

// handleStatus reads the token from the `code` query parameter, falling back
// to the session cookie.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("code")
	if token == "" {
		if fromSession, err := s.sessions.FromRequest(r); err == nil {
			token = fromSession
		}
	}

	result, err := s.unlockUC.Status(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unlockResponse{Code: result.Token, RemainingQuota: result.Remaining})
}

// handleRevoke clears the session binding only; quota is untouched.
func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type contentResponse struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalogUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]contentResponse, 0, len(items))
	for _, it := range items {
		out = append(out, contentResponse{ID: it.ID, Title: it.Title, Price: it.Price})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto stable kinds and HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		status int
		kind   string
	)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, kind = http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrDuplicateSlip):
		status, kind = http.StatusConflict, "duplicate_slip"
	case errors.Is(err, domain.ErrInvalidReceiver):
		status, kind = http.StatusUnprocessableEntity, "invalid_receiver"
	case errors.Is(err, domain.ErrInvalidAmount):
		status, kind = http.StatusUnprocessableEntity, "invalid_amount"
	case errors.Is(err, domain.ErrExpiredSlip):
		status, kind = http.StatusUnprocessableEntity, "expired_slip"
	case errors.Is(err, domain.ErrExternalService):
		status, kind = http.StatusBadGateway, "external_service_error"
	case errors.Is(err, domain.ErrCodeNotFound):
		status, kind = http.StatusNotFound, "code_not_found"
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrQuotaExhausted):
		status, kind = http.StatusConflict, "quota_exhausted"
	case errors.Is(err, domain.ErrAlreadyUnlocked):
		status, kind = http.StatusConflict, "already_unlocked"
	default:
		status, kind = http.StatusInternalServerError, "internal_error"
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: err.Error()})
}
