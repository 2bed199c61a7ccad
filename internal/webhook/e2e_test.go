package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/core/config"
	"github.com/carsonhq/carson-bot/internal/core/pipeline"
	"github.com/carsonhq/carson-bot/internal/integrations/github"
	"github.com/carsonhq/carson-bot/internal/issues"
	"github.com/carsonhq/carson-bot/internal/steps"
	"github.com/carsonhq/carson-bot/internal/webhook"
)

const e2eSecret = "e2e-secret"

// fakeGitHub serves the issue label endpoints of the REST API for acme/widgets.
type fakeGitHub struct {
	mu     sync.Mutex
	labels map[int][]string
	writes int
}

func newFakeGitHub(t *testing.T, labels map[int][]string) (*fakeGitHub, string) {
	t.Helper()

	f := &fakeGitHub{labels: labels}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/issues/{number}/labels", f.list)
	mux.HandleFunc("POST /repos/acme/widgets/issues/{number}/labels", f.add)
	mux.HandleFunc("DELETE /repos/acme/widgets/issues/{number}/labels/{name}", f.remove)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func (f *fakeGitHub) issue(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		http.Error(w, "bad issue number", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func (f *fakeGitHub) list(w http.ResponseWriter, r *http.Request) {
	n, ok := f.issue(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond(w, n)
}

func (f *fakeGitHub) add(w http.ResponseWriter, r *http.Request) {
	n, ok := f.issue(w, r)
	if !ok {
		return
	}
	var names []string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	for _, name := range names {
		if !slices.Contains(f.labels[n], name) {
			f.labels[n] = append(f.labels[n], name)
		}
	}
	f.respond(w, n)
}

func (f *fakeGitHub) remove(w http.ResponseWriter, r *http.Request) {
	n, ok := f.issue(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")

	f.mu.Lock()
	defer f.mu.Unlock()
	idx := slices.Index(f.labels[n], name)
	if idx < 0 {
		http.Error(w, `{"message":"Label does not exist"}`, http.StatusNotFound)
		return
	}
	f.writes++
	f.labels[n] = slices.Delete(f.labels[n], idx, idx+1)
	f.respond(w, n)
}

func (f *fakeGitHub) respond(w http.ResponseWriter, n int) {
	out := make([]map[string]string, 0, len(f.labels[n]))
	for _, name := range f.labels[n] {
		out = append(out, map[string]string{"name": name})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (f *fakeGitHub) labelsOf(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.labels[n])
}

func newE2ERouter(t *testing.T, apiURL string, cfg *config.Config) http.Handler {
	t.Helper()

	gh, err := github.NewClientWithBaseURL(context.Background(), "token", apiURL)
	if err != nil {
		t.Fatalf("failed to create GitHub client: %v", err)
	}

	deps := &pipeline.Dependencies{
		StatusAPI: func(org, repo string) issues.StatusAPI {
			return github.NewLabelStatusAPI(gh, org, repo)
		},
		Logger: zap.NewNop(),
	}
	runner, err := steps.NewRunner(cfg, deps)
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}

	return webhook.NewRouter(runner, e2eSecret, zap.NewNop(), 0)
}

func deliver(t *testing.T, router http.Handler, eventType, body string) map[string]any {
	t.Helper()

	mac := hmac.New(sha256.New, []byte(e2eSecret))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "e2e-delivery")
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func commentPayload(issue int, sender, body string) string {
	raw, _ := json.Marshal(map[string]any{
		"action":     "created",
		"issue":      map[string]any{"number": issue},
		"comment":    map[string]any{"body": body, "user": map[string]string{"login": sender}},
		"repository": map[string]any{"name": "widgets", "owner": map[string]string{"login": "acme"}},
		"sender":     map[string]string{"login": sender},
	})
	return string(raw)
}

func labeledPayload(issue int, label string) string {
	raw, _ := json.Marshal(map[string]any{
		"action":     "labeled",
		"issue":      map[string]any{"number": issue},
		"label":      map[string]string{"name": label},
		"repository": map[string]any{"name": "widgets", "owner": map[string]string{"login": "acme"}},
		"sender":     map[string]string{"login": "triager"},
	})
	return string(raw)
}

func TestEndToEndCommentMovesStatusLabel(t *testing.T) {
	fake, apiURL := newFakeGitHub(t, map[int][]string{
		15: {"bug", "Status: Needs Review"},
	})
	router := newE2ERouter(t, apiURL, config.Default())

	body := deliver(t, router, webhook.EventTypeIssueComment,
		commentPayload(15, "maintainer", "Looks good.\nStatus: code reviewed\n**Status: \"QA Approved\"**"))

	if body["status"] != "processed" || body["new_status"] != string(issues.StatusQAApproved) {
		t.Errorf("unexpected response %v", body)
	}
	want := []string{"bug", "Status: QA Approved"}
	if got := fake.labelsOf(15); !slices.Equal(got, want) {
		t.Errorf("expected labels %v, got %v", want, got)
	}
}

func TestEndToEndCommentWithoutDeclaration(t *testing.T) {
	fake, apiURL := newFakeGitHub(t, map[int][]string{15: {"Status: Needs Review"}})
	router := newE2ERouter(t, apiURL, config.Default())

	body := deliver(t, router, webhook.EventTypeIssueComment,
		commentPayload(15, "maintainer", "The status: code reviewed part is still pending"))

	if body["status"] != "processed" {
		t.Errorf("unexpected response %v", body)
	}
	if _, ok := body["new_status"]; ok {
		t.Errorf("expected no new status, got %v", body["new_status"])
	}
	if fake.writes != 0 {
		t.Errorf("expected no label writes, got %d", fake.writes)
	}
}

func TestEndToEndPullRequestOpened(t *testing.T) {
	fake, apiURL := newFakeGitHub(t, map[int][]string{})
	router := newE2ERouter(t, apiURL, config.Default())

	payload := `{
  "action": "opened",
  "number": 42,
  "pull_request": {"number": 42},
  "repository": {"name": "widgets", "owner": {"login": "acme"}},
  "sender": {"login": "contributor"}
}`
	body := deliver(t, router, webhook.EventTypePullRequest, payload)

	if body["new_status"] != string(issues.StatusNeedsReview) {
		t.Errorf("unexpected response %v", body)
	}
	want := []string{"Status: Needs Review"}
	if got := fake.labelsOf(42); !slices.Equal(got, want) {
		t.Errorf("expected labels %v, got %v", want, got)
	}
}

func TestEndToEndBugLabel(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		existing   []string
		wantLabels []string
		wantWrites int
	}{
		{
			name:       "bug on unset issue",
			label:      "bug",
			existing:   []string{"bug"},
			wantLabels: []string{"bug", "Status: Needs Review"},
			wantWrites: 1,
		},
		{
			name:       "bug keeps existing status",
			label:      "Bug",
			existing:   []string{"Bug", "Status: PM Approved"},
			wantLabels: []string{"Bug", "Status: PM Approved"},
		},
		{
			name:       "other label",
			label:      "feature",
			existing:   []string{"feature"},
			wantLabels: []string{"feature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, apiURL := newFakeGitHub(t, map[int][]string{7: tt.existing})
			router := newE2ERouter(t, apiURL, config.Default())

			deliver(t, router, webhook.EventTypeIssues, labeledPayload(7, tt.label))

			if got := fake.labelsOf(7); !slices.Equal(got, tt.wantLabels) {
				t.Errorf("expected labels %v, got %v", tt.wantLabels, got)
			}
			if fake.writes != tt.wantWrites {
				t.Errorf("expected %d writes, got %d", tt.wantWrites, fake.writes)
			}
		})
	}
}

func TestEndToEndSkipsBotComments(t *testing.T) {
	fake, apiURL := newFakeGitHub(t, map[int][]string{15: {}})
	router := newE2ERouter(t, apiURL, config.Default())

	body := deliver(t, router, webhook.EventTypeIssueComment,
		commentPayload(15, "dependabot[bot]", "Status: QA approved"))

	if body["status"] != "skipped" {
		t.Errorf("expected skipped, got %v", body)
	}
	if fake.writes != 0 {
		t.Errorf("expected no label writes, got %d", fake.writes)
	}
}

func TestEndToEndDisabledRepository(t *testing.T) {
	fake, apiURL := newFakeGitHub(t, map[int][]string{15: {}})
	cfg := config.Default()
	cfg.Repositories = []config.RepositoryConfig{{Org: "acme", Repo: "widgets", Enabled: false}}
	router := newE2ERouter(t, apiURL, cfg)

	body := deliver(t, router, webhook.EventTypeIssueComment,
		commentPayload(15, "maintainer", "Status: QA approved"))

	if body["status"] != "skipped" {
		t.Errorf("expected skipped, got %v", body)
	}
	if fake.writes != 0 {
		t.Errorf("expected no label writes, got %d", fake.writes)
	}
}
