package pipeline

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/claims"
)

func newTestRouter(t *testing.T, client stubLLM) (*gin.Engine, *claims.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p, claimRepo, _, _ := setupPipeline(t, client)
	svc := NewService(p, claimRepo, nil)

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, claimRepo
}

func postAnalyze(t *testing.T, router *gin.Engine, claimID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/"+claimID+"/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestAnalyzeReturnsFullResultShape(t *testing.T) {
	router, claimRepo := newTestRouter(t, happyLLM())
	seedClaim(t, claimRepo, "claim-1", "https://img/1.jpg", 1)

	rec := postAnalyze(t, router, "claim-1", `{"imageReference":"https://img/1.jpg","description":"cracked screen out of the box"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}
	for _, key := range []string{"claimId", "visionAnalysis", "defectCategory", "decision", "decisionReason", "emailDraft", "confidence", "isSuspiciousImage", "policyMatched"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("response missing %q: %v", key, body)
		}
	}
	if body["decision"] != claims.StatusApproved {
		t.Fatalf("decision = %v, want approved", body["decision"])
	}
	if body["defectCategory"] != "cracked_screen" {
		t.Fatalf("defectCategory = %v", body["defectCategory"])
	}
}

func TestAnalyzeDuplicateReturnsFailurePayloadWith200(t *testing.T) {
	router, claimRepo := newTestRouter(t, happyLLM())
	seedClaim(t, claimRepo, "claim-old", "https://img/same.jpg", 2)
	seedClaim(t, claimRepo, "claim-new", "https://img/same.jpg", 1)

	rec := postAnalyze(t, router, "claim-new", `{"imageReference":"https://img/same.jpg","description":"another attempt"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("success = %v, want false on duplicate", body["success"])
	}
	if body["decision"] != claims.StatusDenied {
		t.Fatalf("decision = %v, want denied", body["decision"])
	}
	if reason, _ := body["reason"].(string); !strings.Contains(reason, "already been submitted") {
		t.Fatalf("reason = %v, want duplicate explanation", body["reason"])
	}
}

func TestAnalyzeMissingDescriptionIs400(t *testing.T) {
	router, claimRepo := newTestRouter(t, happyLLM())
	seedClaim(t, claimRepo, "claim-1", "https://img/1.jpg", 1)

	rec := postAnalyze(t, router, "claim-1", `{"imageReference":"https://img/1.jpg"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid request data") {
		t.Fatalf("body = %s, want validation message", rec.Body.String())
	}
}

func TestAnalyzeMalformedBodyIs400(t *testing.T) {
	router, claimRepo := newTestRouter(t, happyLLM())
	seedClaim(t, claimRepo, "claim-1", "https://img/1.jpg", 1)

	rec := postAnalyze(t, router, "claim-1", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeFatalFailureHidesDetailBehindErrorID(t *testing.T) {
	client := happyLLM()
	client.analysisErr = errors.New("model quota exhausted")
	router, claimRepo := newTestRouter(t, client)
	seedClaim(t, claimRepo, "claim-1", "https://img/1.jpg", 1)

	rec := postAnalyze(t, router, "claim-1", `{"imageReference":"https://img/1.jpg","description":"cracked screen"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "Unable to process return request. Please try again later." {
		t.Fatalf("error = %v, want generic message", body["error"])
	}
	if id, _ := body["errorId"].(string); id == "" {
		t.Fatalf("errorId missing from failure payload")
	}
	if strings.Contains(rec.Body.String(), "quota") {
		t.Fatalf("internal error detail leaked to the client: %s", rec.Body.String())
	}
}
