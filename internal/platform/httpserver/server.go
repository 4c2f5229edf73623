package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	splitengine "prism/contexts/finance-core/split-engine"
	splitdomainerrors "prism/contexts/finance-core/split-engine/domain/errors"
	splithttp "prism/contexts/finance-core/split-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "prism/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	engine splitengine.Module
}

func New(
	engine splitengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/splits/{asset_id}", s.handleRegisterSplit)
	s.mux.HandleFunc("PUT /v1/splits/{asset_id}", s.handleUpdateSplit)
	s.mux.HandleFunc("POST /v1/splits/{asset_id}/disable", s.handleDisableSplit)
	s.mux.HandleFunc("GET /v1/splits/{asset_id}", s.handleGetSplit)
	s.mux.HandleFunc("GET /v1/splits/{asset_id}/recipients/{index}", s.handleGetRecipientShare)

	s.mux.HandleFunc("POST /v1/splits/{asset_id}/payouts", s.handleDistribute)
	s.mux.HandleFunc("GET /v1/payouts/{payment_id}", s.handleGetPayment)
	s.mux.HandleFunc("GET /v1/payouts/{payment_id}/recipients/{index}", s.handleGetRecipientPayment)

	s.mux.HandleFunc("GET /v1/users/{user_id}/earnings", s.handleGetEarnings)
	s.mux.HandleFunc("GET /v1/users/{user_id}/pending-balance", s.handleGetPendingBalance)
	s.mux.HandleFunc("POST /v1/pending-balance/claim", s.handleClaimPending)

	s.mux.HandleFunc("GET /v1/stats", s.handleGetStats)
	s.mux.HandleFunc("POST /v1/admin/fee-rate", s.handleSetFeeRate)
	s.mux.HandleFunc("POST /v1/admin/fee-recipient", s.handleSetFeeRecipient)
}

func (s *Server) handleRegisterSplit(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	assetID, ok := parseAssetID(w, r)
	if !ok {
		return
	}

	var req splithttp.RegisterSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.engine.Handler.RegisterSplitHandler(r.Context(), userID, assetID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateSplit(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	assetID, ok := parseAssetID(w, r)
	if !ok {
		return
	}

	var req splithttp.UpdateSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.engine.Handler.UpdateSplitHandler(r.Context(), userID, assetID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDisableSplit(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	assetID, ok := parseAssetID(w, r)
	if !ok {
		return
	}

	if err := s.engine.Handler.DisableSplitHandler(r.Context(), userID, assetID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSplit(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseAssetID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.GetSplitHandler(r.Context(), assetID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRecipientShare(w http.ResponseWriter, r *http.Request) {
	assetID, ok := parseAssetID(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.GetRecipientShareHandler(r.Context(), assetID, index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	assetID, ok := parseAssetID(w, r)
	if !ok {
		return
	}

	var req splithttp.DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.engine.Handler.DistributeHandler(r.Context(), userID, assetID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parsePaymentID(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.GetPaymentHandler(r.Context(), paymentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRecipientPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parsePaymentID(w, r)
	if !ok {
		return
	}
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	resp, err := s.engine.Handler.GetRecipientPaymentHandler(r.Context(), paymentID, index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEarnings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.GetEarningsHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPendingBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.GetPendingBalanceHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaimPending(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.engine.Handler.ClaimPendingHandler(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.GetStatsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFeeRate(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req splithttp.SetFeeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.engine.Handler.SetFeeRateHandler(r.Context(), userID, req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetFeeRecipient(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req splithttp.SetFeeRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.engine.Handler.SetFeeRecipientHandler(r.Context(), userID, req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseAssetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	assetID, err := strconv.ParseInt(r.PathValue("asset_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_asset_id", "asset_id must be an integer")
		return 0, false
	}
	return assetID, true
}

func parsePaymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	paymentID, err := strconv.ParseInt(r.PathValue("payment_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payment_id", "payment_id must be an integer")
		return 0, false
	}
	return paymentID, true
}

func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return 0, false
	}
	return index, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, splitdomainerrors.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "not_authorized", err.Error())
	case errors.Is(err, splitdomainerrors.ErrSplitNotFound):
		writeError(w, http.StatusNotFound, "split_not_found", err.Error())
	case errors.Is(err, splitdomainerrors.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "payment_not_found", err.Error())
	case errors.Is(err, splitdomainerrors.ErrSplitAlreadyExists):
		writeError(w, http.StatusConflict, "split_already_exists", err.Error())
	case errors.Is(err, splitdomainerrors.ErrInvalidAssetID):
		writeError(w, http.StatusBadRequest, "invalid_asset_id", err.Error())
	case errors.Is(err, splitdomainerrors.ErrInvalidSplit):
		writeError(w, http.StatusBadRequest, "invalid_split", err.Error())
	case errors.Is(err, splitdomainerrors.ErrInvalidPercentage):
		writeError(w, http.StatusUnprocessableEntity, "invalid_percentage", err.Error())
	case errors.Is(err, splitdomainerrors.ErrTooManyRecipients):
		writeError(w, http.StatusUnprocessableEntity, "too_many_recipients", err.Error())
	case errors.Is(err, splitdomainerrors.ErrDuplicateRecipient):
		writeError(w, http.StatusUnprocessableEntity, "duplicate_recipient", err.Error())
	case errors.Is(err, splitdomainerrors.ErrZeroAmount):
		writeError(w, http.StatusBadRequest, "zero_amount", err.Error())
	case errors.Is(err, splitdomainerrors.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, splitdomainerrors.ErrTransferFailed):
		writeError(w, http.StatusConflict, "transfer_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, splithttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
