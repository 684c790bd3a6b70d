package gather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/worker"
)

func snapshotConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Snapshot.Enabled = true
	cfg.Snapshot.Timeout = 5 * time.Second
	return cfg
}

func TestSnapshotter_HashesVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>The dam produces 22,500 megawatts.</p><script>ignored()</script></body></html>`))
	}))
	defer server.Close()

	s := NewSnapshotter(snapshotConfig(), worker.NewLimiter(100, 100))

	items := []model.EvidenceItem{
		{CanonicalURL: server.URL + "/page"},
	}
	items = s.Snapshot(context.Background(), items)

	if items[0].SnapshotHash == "" {
		t.Fatal("expected snapshot hash to be set")
	}
	if len(items[0].SnapshotHash) != 64 {
		t.Errorf("expected sha256 hex hash, got %q", items[0].SnapshotHash)
	}

	// Identical content must produce an identical hash
	again := s.Snapshot(context.Background(), []model.EvidenceItem{{CanonicalURL: server.URL + "/page"}})
	if again[0].SnapshotHash != items[0].SnapshotHash {
		t.Error("snapshot hash not stable for identical content")
	}
}

func TestSnapshotter_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		t.Error("page fetched despite robots.txt disallow")
	}))
	defer server.Close()

	s := NewSnapshotter(snapshotConfig(), worker.NewLimiter(100, 100))

	items := s.Snapshot(context.Background(), []model.EvidenceItem{{CanonicalURL: server.URL + "/page"}})
	if items[0].SnapshotHash != "" {
		t.Error("expected no hash for disallowed page")
	}
}

func TestSnapshotter_FailureIsBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSnapshotter(snapshotConfig(), worker.NewLimiter(100, 100))

	items := []model.EvidenceItem{
		{EvidenceCandidate: model.EvidenceCandidate{Title: "kept"}, CanonicalURL: server.URL + "/broken"},
	}
	items = s.Snapshot(context.Background(), items)

	if len(items) != 1 {
		t.Fatal("failed snapshot must not drop the item")
	}
	if items[0].SnapshotHash != "" {
		t.Error("expected empty hash on fetch failure")
	}
	if items[0].Title != "kept" {
		t.Error("item fields must survive snapshot failure")
	}
}

func TestVisibleText(t *testing.T) {
	html := `<html><head><script>var x = 1;</script><style>p{}</style></head>
	<body><p>First line.</p><noscript>hidden</noscript><p>Second line.</p></body></html>`

	text := visibleText(html)

	if !strings.Contains(text, "First line.") || !strings.Contains(text, "Second line.") {
		t.Errorf("visible text missing content: %q", text)
	}
	for _, hidden := range []string{"var x", "p{}", "hidden"} {
		if strings.Contains(text, hidden) {
			t.Errorf("invisible content leaked: %q", hidden)
		}
	}
}
