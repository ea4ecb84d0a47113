// README: HTTP tests for match creation, validation and organizer auth.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httptransport "carpool/internal/http"
	"carpool/internal/http/handlers"
	"carpool/internal/infra"
	"carpool/internal/modules/matchconfig"
	"carpool/internal/modules/matching"
)

// stubTokenVerifier is a test double for infra.TokenVerifier.
type stubTokenVerifier struct {
	token *infra.AuthToken
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.AuthToken, error) {
	return s.token, s.err
}

type memoryConfigStore struct {
	saved *matching.Config
}

func (m *memoryConfigStore) Load(_ context.Context) (*matching.Config, error) {
	return m.saved, nil
}

func (m *memoryConfigStore) Save(_ context.Context, cfg matching.Config) error {
	m.saved = &cfg
	return nil
}

// buildTestRouter wires the real router with in-memory services.
func buildTestRouter(verifier infra.TokenVerifier) http.Handler {
	gin.SetMode(gin.TestMode)
	matchingSvc := matching.NewService(nil, nil)
	configSvc := matchconfig.NewService(&memoryConfigStore{})
	return httptransport.NewRouter(httptransport.RouterDeps{
		Verifier: verifier,
		Match:    handlers.NewMatchHandler(matchingSvc, nil),
		Config:   handlers.NewConfigHandler(configSvc),
	})
}

func doRequest(r http.Handler, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func matchBody(direction string, startTime string) map[string]any {
	event := map[string]any{
		"lat":       37.7749,
		"lng":       -122.4194,
		"direction": direction,
	}
	if startTime != "" {
		event["start_time"] = startTime
	}
	return map[string]any{
		"passengers": []map[string]any{{
			"id": "p1", "name": "Alex", "age": 29,
			"lat": 37.78, "lng": -122.42, "needs_ride": true,
		}},
		"drivers": []map[string]any{{
			"id": "d1", "name": "Dana", "age": 34,
			"lat": 37.79, "lng": -122.43, "can_drive": true, "available_seats": 3,
		}},
		"event": event,
	}
}

func TestCreateMatch_Outbound(t *testing.T) {
	r := buildTestRouter(nil)
	w := doRequest(r, http.MethodPost, "/api/matches", matchBody("from_event", ""), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res matching.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(res.RideGroups) != 1 || len(res.RideGroups[0].Passengers) != 1 {
		t.Errorf("expected one group with one passenger, got %+v", res.RideGroups)
	}
	if res.ID == "" {
		t.Errorf("result should carry a fresh id")
	}
}

func TestCreateMatch_InboundWithoutStartTime(t *testing.T) {
	r := buildTestRouter(nil)
	w := doRequest(r, http.MethodPost, "/api/matches", matchBody("to_event", ""), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateMatch_InboundWithStartTime(t *testing.T) {
	r := buildTestRouter(nil)
	w := doRequest(r, http.MethodPost, "/api/matches", matchBody("to_event", "2026-06-13T09:00:00Z"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res matching.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(res.RideGroups) != 1 || res.RideGroups[0].Schedule == nil {
		t.Errorf("inbound group should carry a schedule")
	}
}

func TestCreateMatch_RejectsUnderageAndBadDirection(t *testing.T) {
	r := buildTestRouter(nil)

	body := matchBody("sideways", "")
	if w := doRequest(r, http.MethodPost, "/api/matches", body, ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad direction: expected 400, got %d", w.Code)
	}

	body = matchBody("from_event", "")
	body["passengers"].([]map[string]any)[0]["age"] = 15
	if w := doRequest(r, http.MethodPost, "/api/matches", body, ""); w.Code != http.StatusBadRequest {
		t.Errorf("underage passenger: expected 400, got %d", w.Code)
	}
}

func TestPutConfig_RequiresValidToken(t *testing.T) {
	r := buildTestRouter(&stubTokenVerifier{err: errors.New("no token")})
	cfg := matching.DefaultConfig()
	w := doRequest(r, http.MethodPut, "/api/config", cfg, "Bearer badtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestPutConfig_ValidatesWeights(t *testing.T) {
	verifier := &stubTokenVerifier{token: &infra.AuthToken{UID: "org1"}}
	r := buildTestRouter(verifier)

	cfg := matching.DefaultConfig()
	cfg.Weights.RouteEfficiency = 0.9 // sum far above 1
	w := doRequest(r, http.MethodPut, "/api/config", cfg, "Bearer good")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad weight sum, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPut, "/api/config", matching.DefaultConfig(), "Bearer good")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for valid config, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetConfig_DefaultsWithoutSave(t *testing.T) {
	r := buildTestRouter(nil)
	w := doRequest(r, http.MethodGet, "/api/config", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var cfg matching.Config
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if cfg.MaxDetourMiles != matching.DefaultConfig().MaxDetourMiles {
		t.Errorf("expected default config, got %+v", cfg)
	}
}
