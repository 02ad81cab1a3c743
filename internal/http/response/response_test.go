package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorKeepsDataSuccessOnly(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Error(rr, req, http.StatusForbidden, "FORBIDDEN", "missing permission", map[string]string{"required": "DELETE /api/v1/tables/{id}"})

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, present := body["data"]; present {
		t.Fatalf("data present on failure envelope: %v", body["data"])
	}
	details := body["details"].(map[string]any)
	if details["required"] != "DELETE /api/v1/tables/{id}" {
		t.Fatalf("details = %v", body["details"])
	}
	if body["error"] != "FORBIDDEN" || body["message"] != "missing permission" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestJSONOmitsErrorFields(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	JSON(rr, req, http.StatusOK, map[string]string{"status": "ok"})

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, present := body["error"]; present {
		t.Fatalf("error present on success envelope: %v", body)
	}
	if _, present := body["details"]; present {
		t.Fatalf("details present on success envelope: %v", body)
	}
	if body["data"].(map[string]any)["status"] != "ok" {
		t.Fatalf("unexpected data: %v", body["data"])
	}
}
