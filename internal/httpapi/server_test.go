package httpapi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tevinokafor/chainsim/pkg/chain/config"
)

func TestHandleHealth(t *testing.T) {
	s := NewServer(100, 10, []string{"*"})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleRunScenario_StreamsEvents(t *testing.T) {
	s := NewServer(100, 10, []string{"*"})

	body := runRequest{
		Periods: 2,
		Scenario: config.Scenario{
			Name:    "single-node",
			Periods: 2,
			Nodes: []config.NodeSpec{
				{SKU: "A", OrderQuantity: 10, ReorderLevel: 5, ReviewTime: 1, InitialStock: 20, LeadTimeDays: 1, Demand: [][]int64{{3}, {3}}},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	scanner := bufio.NewScanner(rec.Body)
	lines := 0
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		lines++
	}
	if lines == 0 {
		t.Error("expected at least one streamed event line")
	}
}

func TestHandleRunScenario_RejectsMalformedBody(t *testing.T) {
	s := NewServer(100, 10, []string{"*"})
	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
