package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mbarranco/clipmill/internal/domain"
	"github.com/mbarranco/clipmill/internal/ingest"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/pipeline"
	"github.com/mbarranco/clipmill/internal/store"
	"github.com/mbarranco/clipmill/internal/topics"
)

type stubTopics struct {
	res topics.Result
	err error
	in  ingest.Input
}

func (s *stubTopics) GenerateAndStore(ctx context.Context, in ingest.Input, count int) (topics.Result, error) {
	s.in = in
	return s.res, s.err
}

type stubRunner struct {
	report pipeline.RunReport
	err    error
	budget int
}

func (s *stubRunner) Run(ctx context.Context, budget int) (pipeline.RunReport, error) {
	s.budget = budget
	return s.report, s.err
}

func setupServer(t *testing.T, tg TopicGenerator, runner ProcessRunner) (*store.DB, *httptest.Server) {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	})

	r := chi.NewRouter()
	NewHandler(db, tg, runner, logger.Default()).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return db, srv
}

func TestListItems(t *testing.T) {
	db, srv := setupServer(t, &stubTopics{}, &stubRunner{})
	if _, err := db.CreateItem("Topic A", "script", "input", domain.StatusPendingScript); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/items")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Items []domain.Item `json:"items"`
		Count int           `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if body.Count != 1 || len(body.Items) != 1 || body.Items[0].Topic != "Topic A" {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestGetScript(t *testing.T) {
	db, srv := setupServer(t, &stubTopics{}, &stubRunner{})
	scriptPath := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(scriptPath, []byte("Hook:\nhi\n\nBody:\nthere"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := db.CreateItem("Topic A", "script", "input", domain.StatusPendingScript); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if _, err := db.UpdateStatus("Topic A", domain.StatusPendingAssets, store.ItemUpdate{ScriptPath: store.Str(scriptPath)}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/items/Topic%20A/script")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !strings.Contains(body["script"], "Hook:") {
		t.Errorf("Unexpected script payload: %q", body["script"])
	}
}

func TestGetScriptNotReady(t *testing.T) {
	db, srv := setupServer(t, &stubTopics{}, &stubRunner{})
	if _, err := db.CreateItem("Topic A", "script", "input", domain.StatusPendingScript); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/items/Topic%20A/script")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 before script exists, got %d", resp.StatusCode)
	}
}

func TestDeleteItem(t *testing.T) {
	db, srv := setupServer(t, &stubTopics{}, &stubRunner{})
	if _, err := db.CreateItem("Topic A", "script", "input", domain.StatusPendingScript); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/items/Topic%20A", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	item, _ := db.GetItem("Topic A")
	if item != nil {
		t.Error("Expected item removed")
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/items/Topic%20A", nil)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Second DELETE failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 on repeat delete, got %d", resp2.StatusCode)
	}
}

func TestGenerateTopics(t *testing.T) {
	tg := &stubTopics{res: topics.Result{Added: []string{"New Topic"}}}
	_, srv := setupServer(t, tg, &stubRunner{})

	payload := `{"input_type":"script","text":"a long enough script about things","count":2}`
	resp, err := http.Post(srv.URL+"/api/topics", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if tg.in.Kind != ingest.KindScript {
		t.Errorf("Expected script input kind, got %q", tg.in.Kind)
	}
	var res topics.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(res.Added) != 1 || res.Added[0] != "New Topic" {
		t.Errorf("Unexpected result: %+v", res)
	}
}

func TestGenerateTopicsBadInputType(t *testing.T) {
	_, srv := setupServer(t, &stubTopics{}, &stubRunner{})

	payload := `{"input_type":"telepathy","text":"whatever"}`
	resp, err := http.Post(srv.URL+"/api/topics", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestGenerateTopicsServiceError(t *testing.T) {
	tg := &stubTopics{err: fmt.Errorf("input too short")}
	_, srv := setupServer(t, tg, &stubRunner{})

	payload := `{"input_type":"script","text":"x"}`
	resp, err := http.Post(srv.URL+"/api/topics", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", resp.StatusCode)
	}
}

func TestRunProcessing(t *testing.T) {
	runner := &stubRunner{report: pipeline.RunReport{RunID: "run-1", Budget: 2, Processed: 2}}
	_, srv := setupServer(t, &stubTopics{}, runner)

	resp, err := http.Post(srv.URL+"/api/process", "application/json", strings.NewReader(`{"max_items":2}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if runner.budget != 2 {
		t.Errorf("Expected budget 2 passed through, got %d", runner.budget)
	}
	var body struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !strings.Contains(body.Summary, "Processing run complete") {
		t.Errorf("Unexpected summary: %q", body.Summary)
	}
}

func TestRunProcessingDefaultBudget(t *testing.T) {
	runner := &stubRunner{}
	_, srv := setupServer(t, &stubTopics{}, runner)

	resp, err := http.Post(srv.URL+"/api/process", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if runner.budget <= 0 {
		t.Errorf("Expected a positive default budget, got %d", runner.budget)
	}
}
