package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	splitengine "prism/contexts/finance-core/split-engine"
	splithttp "prism/contexts/finance-core/split-engine/transport/http"
)

func newTestServer() (*Server, splitengine.Module) {
	module := splitengine.NewInMemoryModule(splitengine.InMemoryOptions{
		AdminID:      "admin",
		VaultAccount: "vault",
		FeeRecipient: "platform-fees",
		FeeRateBps:   250,
	}, nil)
	return New(module, nil, ":0"), module
}

func registerTestSplit(t *testing.T, server *Server) {
	t.Helper()
	body := `{"recipients":[{"recipient":"alice","bps":6000},{"recipient":"bob","bps":4000}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/splits/42", strings.NewReader(body))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register split: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterSplitRequiresUserHeader(t *testing.T) {
	server, _ := newTestServer()
	body := `{"recipients":[{"recipient":"alice","bps":10000}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/splits/42", strings.NewReader(body))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterSplitRejectsBadShares(t *testing.T) {
	server, _ := newTestServer()
	body := `{"recipients":[{"recipient":"alice","bps":4000},{"recipient":"bob","bps":4000}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/splits/42", strings.NewReader(body))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp splithttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "invalid_percentage" {
		t.Fatalf("expected invalid_percentage, got %q", resp.Code)
	}
}

func TestRegisterSplitRejectsNonNumericAssetID(t *testing.T) {
	server, _ := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/splits/not-a-number", strings.NewReader(`{}`))
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetSplitReturnsConfigWithShares(t *testing.T) {
	server, _ := newTestServer()
	registerTestSplit(t, server)

	req := httptest.NewRequest(http.MethodGet, "/v1/splits/42", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp splithttp.SplitConfigDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode split body: %v", err)
	}
	if resp.AssetID != 42 || resp.Creator != "alice" || len(resp.Recipients) != 2 {
		t.Fatalf("unexpected split response: %+v", resp)
	}
}

func TestGetSplitUnknownAssetReturns404(t *testing.T) {
	server, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/splits/404", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDistributeEndToEnd(t *testing.T) {
	server, module := newTestServer()
	registerTestSplit(t, server)
	module.Treasury.Credit("payer", 200_000)

	req := httptest.NewRequest(http.MethodPost, "/v1/splits/42/payouts", strings.NewReader(`{"amount":200000}`))
	req.Header.Set("X-User-Id", "payer")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payment splithttp.PaymentDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &payment); err != nil {
		t.Fatalf("decode payment body: %v", err)
	}
	if payment.Fee != 5_000 || payment.Distributable != 195_000 {
		t.Fatalf("unexpected payment: %+v", payment)
	}

	earningsReq := httptest.NewRequest(http.MethodGet, "/v1/users/alice/earnings", nil)
	earningsRR := httptest.NewRecorder()
	server.mux.ServeHTTP(earningsRR, earningsReq)
	if earningsRR.Code != http.StatusOK {
		t.Fatalf("earnings: expected 200, got %d", earningsRR.Code)
	}
	var earnings splithttp.EarningsDTO
	if err := json.Unmarshal(earningsRR.Body.Bytes(), &earnings); err != nil {
		t.Fatalf("decode earnings body: %v", err)
	}
	if earnings.TotalReceived != 117_000 {
		t.Fatalf("expected alice earnings 117000, got %d", earnings.TotalReceived)
	}
}

func TestDistributeWithoutFundsReturnsConflict(t *testing.T) {
	server, _ := newTestServer()
	registerTestSplit(t, server)

	req := httptest.NewRequest(http.MethodPost, "/v1/splits/42/payouts", strings.NewReader(`{"amount":1000}`))
	req.Header.Set("X-User-Id", "payer")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestClaimPendingFlow(t *testing.T) {
	server, module := newTestServer()
	registerTestSplit(t, server)
	module.Treasury.Credit("payer", 10_000)
	module.Treasury.SetRefusing("bob", true)

	payoutReq := httptest.NewRequest(http.MethodPost, "/v1/splits/42/payouts", strings.NewReader(`{"amount":10000}`))
	payoutReq.Header.Set("X-User-Id", "payer")
	payoutRR := httptest.NewRecorder()
	server.mux.ServeHTTP(payoutRR, payoutReq)
	if payoutRR.Code != http.StatusOK {
		t.Fatalf("payout: expected 200, got %d body=%s", payoutRR.Code, payoutRR.Body.String())
	}

	module.Treasury.SetRefusing("bob", false)
	claimReq := httptest.NewRequest(http.MethodPost, "/v1/pending-balance/claim", nil)
	claimReq.Header.Set("X-User-Id", "bob")
	claimRR := httptest.NewRecorder()
	server.mux.ServeHTTP(claimRR, claimReq)
	if claimRR.Code != http.StatusOK {
		t.Fatalf("claim: expected 200, got %d body=%s", claimRR.Code, claimRR.Body.String())
	}
	var claim splithttp.ClaimResponse
	if err := json.Unmarshal(claimRR.Body.Bytes(), &claim); err != nil {
		t.Fatalf("decode claim body: %v", err)
	}
	if claim.Claimed == 0 {
		t.Fatalf("expected nonzero claim, got %+v", claim)
	}

	// A second claim finds an empty balance.
	retryRR := httptest.NewRecorder()
	retryReq := httptest.NewRequest(http.MethodPost, "/v1/pending-balance/claim", nil)
	retryReq.Header.Set("X-User-Id", "bob")
	server.mux.ServeHTTP(retryRR, retryReq)
	if retryRR.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on empty claim, got %d body=%s", retryRR.Code, retryRR.Body.String())
	}
}

func TestAdminFeeEndpointsEnforceAdmin(t *testing.T) {
	server, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/fee-rate", strings.NewReader(`{"fee_rate_bps":300}`))
	req.Header.Set("X-User-Id", "alice")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d body=%s", rr.Code, rr.Body.String())
	}

	adminReq := httptest.NewRequest(http.MethodPost, "/v1/admin/fee-rate", strings.NewReader(`{"fee_rate_bps":300}`))
	adminReq.Header.Set("X-User-Id", "admin")
	adminRR := httptest.NewRecorder()
	server.mux.ServeHTTP(adminRR, adminReq)
	if adminRR.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d body=%s", adminRR.Code, adminRR.Body.String())
	}

	statsReq := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	statsRR := httptest.NewRecorder()
	server.mux.ServeHTTP(statsRR, statsReq)
	if statsRR.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", statsRR.Code)
	}
	var stats splithttp.StatsDTO
	if err := json.Unmarshal(statsRR.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats body: %v", err)
	}
	if stats.FeeRateBps != 300 {
		t.Fatalf("expected fee rate 300, got %d", stats.FeeRateBps)
	}
}
