package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing base URL", Config{Email: "a@b.c", APIToken: "t"}},
		{"missing email", Config{BaseURL: "https://x.atlassian.net", APIToken: "t"}},
		{"missing token", Config{BaseURL: "https://x.atlassian.net", Email: "a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			var jiraErr *Error
			if err == nil || !errors.As(err, &jiraErr) || jiraErr.Kind != KindConfig {
				t.Errorf("expected config error, got %v", err)
			}
		})
	}
}

func TestSearchIssues_PassesThroughBodyUnmodified(t *testing.T) {
	const upstream = `{"total": 2, "issues": [{"key": "PROJ-1"}, {"key": "PROJ-2"}], "extra": "untouched"}`

	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"jql":        r.URL.Query().Get("jql"),
			"maxResults": r.URL.Query().Get("maxResults"),
			"fields":     r.URL.Query().Get("fields"),
		}
		if r.URL.Path != "/rest/api/3/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != basicAuthHeader("bot@example.com", "token") {
			t.Errorf("unexpected auth header %q", auth)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(upstream))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	body, err := client.SearchIssues(context.Background(), `project = "X"`, []string{"summary", "status"}, 50)
	if err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}
	if string(body) != upstream {
		t.Errorf("expected verbatim upstream body, got %s", body)
	}
	if gotQuery["jql"] != `project = "X"` {
		t.Errorf("unexpected jql param %q", gotQuery["jql"])
	}
	if gotQuery["maxResults"] != "50" {
		t.Errorf("unexpected maxResults param %q", gotQuery["maxResults"])
	}
	if gotQuery["fields"] != "summary,status" {
		t.Errorf("expected comma-joined fields, got %q", gotQuery["fields"])
	}
}

func TestSearchIssues_DefaultsMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maxResults"); got != "25" {
			t.Errorf("expected default maxResults 25, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	if _, err := client.SearchIssues(context.Background(), "order by created DESC", nil, 0); err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}
}

// decodeBody reads and decodes a request body into a generic map.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read request body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("failed to decode request body %s: %v", raw, err)
	}
	return m
}

func TestCreateIssue_OmitsAbsentDescription(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "10001", "key": "PROJ-1", "self": "https://x/issue/10001"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	created, err := client.CreateIssue(context.Background(), CreateIssueInput{
		ProjectKey: "PROJ",
		Summary:    "Do the thing",
		IssueType:  "Task",
	})
	if err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}
	if created.Key != "PROJ-1" {
		t.Errorf("expected key PROJ-1, got %q", created.Key)
	}

	fields := payload["fields"].(map[string]any)
	if _, present := fields["description"]; present {
		t.Error("expected description to be omitted, not sent as null")
	}
	if fields["summary"] != "Do the thing" {
		t.Errorf("unexpected summary %v", fields["summary"])
	}
	if fields["issuetype"].(map[string]any)["name"] != "Task" {
		t.Errorf("unexpected issuetype %v", fields["issuetype"])
	}
}

func TestCreateEpic_PopulatesEpicNameField(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/3/field":
			_, _ = w.Write([]byte(fieldListBody))
		case "/rest/api/3/issue":
			payload = decodeBody(t, r)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": "10002", "key": "PROJ-2"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.CreateEpic(context.Background(), CreateEpicInput{
		ProjectKey: "PROJ",
		EpicName:   "Payments",
		Summary:    "Payments epic",
	})
	if err != nil {
		t.Fatalf("CreateEpic failed: %v", err)
	}

	fields := payload["fields"].(map[string]any)
	if fields["customfield_10011"] != "Payments" {
		t.Errorf("expected epic name custom field, got %v", fields)
	}
	if fields["issuetype"].(map[string]any)["name"] != "Epic" {
		t.Errorf("expected Epic issuetype, got %v", fields["issuetype"])
	}
}

func TestCreateEpic_MissingMappingFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/field" {
			_, _ = w.Write([]byte(`[{"id": "summary", "name": "Summary"}]`))
			return
		}
		t.Errorf("issue creation should not be reached, got %q", r.URL.Path)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.CreateEpic(context.Background(), CreateEpicInput{
		ProjectKey: "PROJ",
		EpicName:   "Payments",
		Summary:    "Payments epic",
	})

	var jiraErr *Error
	if !errors.As(err, &jiraErr) || jiraErr.Kind != KindConfig {
		t.Errorf("expected config error for missing mapping, got %v", err)
	}
}

func TestCreateStory_PlainStorySkipsFieldFetch(t *testing.T) {
	fieldFetches := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/field" {
			atomic.AddInt32(&fieldFetches, 1)
			_, _ = w.Write([]byte(fieldListBody))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "10003", "key": "PROJ-3"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.CreateStory(context.Background(), CreateStoryInput{
		ProjectKey: "PROJ",
		Summary:    "A story",
	})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	if got := atomic.LoadInt32(&fieldFetches); got != 0 {
		t.Errorf("expected no field-map fetch for a plain story, got %d", got)
	}
}

func TestCreateStory_ResolvesSuppliedOptions(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/field" {
			_, _ = w.Write([]byte(fieldListBody))
			return
		}
		payload = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "10004", "key": "PROJ-4"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.CreateStory(context.Background(), CreateStoryInput{
		ProjectKey:    "PROJ",
		Summary:       "A pointed story",
		StoryPoints:   f64Ptr(5),
		ParentEpicKey: strPtr("PROJ-2"),
	})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}

	fields := payload["fields"].(map[string]any)
	if fields["customfield_10016"] != float64(5) {
		t.Errorf("expected story points field, got %v", fields)
	}
	if fields["customfield_10014"] != "PROJ-2" {
		t.Errorf("expected epic link field, got %v", fields)
	}
}

func TestLinkIssueToEpic(t *testing.T) {
	var payload map[string]any
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/field" {
			_, _ = w.Write([]byte(fieldListBody))
			return
		}
		method, path = r.Method, r.URL.Path
		payload = decodeBody(t, r)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	if err := client.LinkIssueToEpic(context.Background(), "PROJ-2", "PROJ-9"); err != nil {
		t.Fatalf("LinkIssueToEpic failed: %v", err)
	}
	if method != http.MethodPut || path != "/rest/api/3/issue/PROJ-9" {
		t.Errorf("expected PUT /rest/api/3/issue/PROJ-9, got %s %s", method, path)
	}
	fields := payload["fields"].(map[string]any)
	if fields["customfield_10014"] != "PROJ-2" {
		t.Errorf("expected epic link set to PROJ-2, got %v", fields)
	}
}

func TestGetTransitions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/PROJ-1/transitions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"transitions": [{"id": "11", "name": "To Do"}, {"id": "31", "name": "Done"}]}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	transitions, err := client.GetTransitions(context.Background(), "PROJ-1")
	if err != nil {
		t.Fatalf("GetTransitions failed: %v", err)
	}
	if len(transitions) != 2 || transitions[1].ID != "31" || transitions[1].Name != "Done" {
		t.Errorf("unexpected transitions %v", transitions)
	}
}

func TestTransitionIssue(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload = decodeBody(t, r)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	if err := client.TransitionIssue(context.Background(), "PROJ-1", "31"); err != nil {
		t.Fatalf("TransitionIssue failed: %v", err)
	}
	transition := payload["transition"].(map[string]any)
	if transition["id"] != "31" {
		t.Errorf("expected transition id 31, got %v", transition)
	}
}

func TestAddComment_PassesThroughResponse(t *testing.T) {
	const upstream = `{"id": "9001", "body": "looks good", "author": {"displayName": "Bot"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodeBody(t, r)
		if payload["body"] != "looks good" {
			t.Errorf("unexpected comment payload %v", payload)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(upstream))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	body, err := client.AddComment(context.Background(), "PROJ-1", "looks good")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if !bytes.Equal(body, []byte(upstream)) {
		t.Errorf("expected verbatim upstream body, got %s", body)
	}
}

func TestEstimateStoryPoints(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/api/3/field" {
			_, _ = w.Write([]byte(fieldListBody))
			return
		}
		payload = decodeBody(t, r)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	if err := client.EstimateStoryPoints(context.Background(), "PROJ-1", 8); err != nil {
		t.Fatalf("EstimateStoryPoints failed: %v", err)
	}
	fields := payload["fields"].(map[string]any)
	if fields["customfield_10016"] != float64(8) {
		t.Errorf("expected story points 8, got %v", fields)
	}
}
