package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/existflow/controlcentre/internal/model"
)

func TestLoadNoDocumentYet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	state, err := NewClient(srv.URL, "").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state for a fresh server, got %+v", state)
	}
}

func TestLoadReassemblesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/document":
			_, _ = w.Write([]byte(`{
				"projects":[{"id":"p1","name":"Atlas","githubRepo":"existflow/atlas","createdAt":1700000000000}],
				"tasks":{"p1":[{"id":"t1","projectId":"p1","title":"Fit thrusters","status":"done","createdAt":1700000000001}]},
				"protocols":[{"id":"e1","description":"Hull breach","authorId":"m1","taggedUserIds":["m2"],"fileIds":["f1"],"createdAt":1700000000002}]
			}`))
		case "/api/v1/attachments":
			_, _ = w.Write([]byte(`[{"id":"f1","name":"hull.png","mimeType":"image/png","size":4,"content":"ZGF0YQ=="}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	state, err := NewClient(srv.URL, "").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state == nil {
		t.Fatal("nil state")
	}
	if len(state.Projects) != 1 || state.Projects[0].GithubRepo != "existflow/atlas" {
		t.Fatalf("projects = %+v", state.Projects)
	}
	if state.Tasks["p1"][0].Status != model.StatusDone {
		t.Fatalf("task status = %q", state.Tasks["p1"][0].Status)
	}
	att, ok := state.ProtocolFiles["f1"]
	if !ok {
		t.Fatal("attachment f1 not reassembled")
	}
	if string(att.Content) != "data" {
		t.Fatalf("attachment content = %q", att.Content)
	}
}

func TestLoadSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _ = NewClient(srv.URL, "secret").Load(context.Background())
	if got != "Bearer secret" {
		t.Fatalf("authorization header = %q", got)
	}
}

func TestSaveReconcilesAttachments(t *testing.T) {
	var putDoc Document
	var batch BatchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/document":
			if err := json.NewDecoder(r.Body).Decode(&putDoc); err != nil {
				t.Errorf("decode put: %v", err)
			}
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/attachments/ids":
			// f-stale exists remotely but not locally, it must be deleted
			_, _ = w.Write([]byte(`["f-keep","f-stale"]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/attachments/batch":
			if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
				t.Errorf("decode batch: %v", err)
			}
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	state := model.DefaultState()
	state.Projects = append(state.Projects, model.Project{ID: "p1", Name: "Atlas"})
	state.ProtocolFiles["f-keep"] = model.Attachment{Name: "keep.txt", Size: 1, Content: []byte("k")}
	state.ProtocolFiles["f-new"] = model.Attachment{Name: "new.txt", Size: 1, Content: []byte("n")}

	if err := NewClient(srv.URL, "").Save(context.Background(), state); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(putDoc.Projects) != 1 || putDoc.Projects[0].Name != "Atlas" {
		t.Fatalf("document not written: %+v", putDoc)
	}

	putIDs := make([]string, 0, len(batch.Put))
	for _, a := range batch.Put {
		putIDs = append(putIDs, a.ID)
	}
	sort.Strings(putIDs)
	if len(putIDs) != 2 || putIDs[0] != "f-keep" || putIDs[1] != "f-new" {
		t.Fatalf("batch put = %v", putIDs)
	}
	if len(batch.Delete) != 1 || batch.Delete[0] != "f-stale" {
		t.Fatalf("batch delete = %v", batch.Delete)
	}
}

func TestSaveSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "document store offline", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Save(context.Background(), model.DefaultState())
	if err == nil {
		t.Fatal("expected error from failing server")
	}
}
