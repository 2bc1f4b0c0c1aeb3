package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/models"
)

func TestPortalHandler_Data(t *testing.T) {
	repo := &mockPortalRepository{
		apps: []*models.SubApp{
			{ID: "source-management", Name: "Source Management", SortOrder: 1},
			{ID: "server-inventory", Name: "Server Inventory", SortOrder: 2},
		},
		announcements: []*models.Announcement{
			{ID: 1, Title: "Maintenance window", Content: "Saturday 02:00"},
		},
	}
	h := NewPortalHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/portal/data", nil)
	rec := httptest.NewRecorder()
	h.Data(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp PortalDataResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if len(resp.Apps) != 2 {
		t.Errorf("expected 2 apps, got %d", len(resp.Apps))
	}
	if len(resp.Announcements) != 1 {
		t.Errorf("expected 1 announcement, got %d", len(resp.Announcements))
	}
}

func TestPortalHandler_Data_StoreUnavailable(t *testing.T) {
	repo := &mockPortalRepository{
		err: fmt.Errorf("failed to list sub apps: %w: dial refused", apperrors.ErrStoreUnavailable),
	}
	h := NewPortalHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/portal/data", nil)
	rec := httptest.NewRecorder()
	h.Data(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestServersHandler_List(t *testing.T) {
	repo := &mockServerRepository{
		servers: []*models.Server{
			{ID: "srv-1", Hostname: "db-prod-01", IP: "10.0.0.5", Status: "running"},
		},
	}
	h := NewServersHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/servers", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var result struct {
		Success bool             `json:"success"`
		Data    []*models.Server `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.Success {
		t.Error("expected success=true")
	}
	if len(result.Data) != 1 || result.Data[0].Hostname != "db-prod-01" {
		t.Errorf("unexpected servers: %+v", result.Data)
	}
}

func TestReportsHandler_Inspection(t *testing.T) {
	svc := &mockReportService{summary: "All instances nominal."}
	h := NewReportsHandler(svc, zap.NewNop())

	body := `{"entries":[{"id":"1","type":"backup","status":"ok","instanceId":"db-prod-01"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/inspection", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Inspection(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp InspectionReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary != "All instances nominal." {
		t.Errorf("unexpected summary: %q", resp.Summary)
	}
	if len(svc.entries) != 1 || svc.entries[0].InstanceID != "db-prod-01" {
		t.Errorf("entries not forwarded: %+v", svc.entries)
	}
}
