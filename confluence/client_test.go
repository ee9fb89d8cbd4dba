package confluence_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/reviewpipe/confluence"
)

func newClient(t *testing.T, site string) *confluence.Client {
	t.Helper()
	cl, err := confluence.New(site, "user@example.com", "token", 100, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_RequiresCredentials(t *testing.T) {
	if _, err := confluence.New("https://x", "", "", 5, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}

func TestClient_GetPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wiki/api/v2/pages/101" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("body-format") != "storage" {
			t.Errorf("missing body-format param")
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Errorf("missing basic auth")
		}
		fmt.Fprint(w, `{"id":"101","title":"Golden Duck","parentId":"55","body":{"storage":{"value":"<p>hi</p>"}}}`)
	}))
	defer ts.Close()

	page, err := newClient(t, ts.URL).GetPage(context.Background(), "101")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Title != "Golden Duck" || page.Body.Storage.Value != "<p>hi</p>" || page.ParentID != "55" {
		t.Fatalf("page = %+v", page)
	}
}

func TestClient_GetPage_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := newClient(t, ts.URL).GetPage(context.Background(), "1")
	if !errors.Is(err, confluence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_GetDescendants_Pagination(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"results":[{"id":"1","title":"A"}],"_links":{"next":"/wiki/api/v2/pages/99/descendants?limit=250&cursor=abc"}}`)
		case "abc":
			fmt.Fprint(w, `{"results":[{"id":"2","title":"B","parentId":"99"}],"_links":{}}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer ts.Close()

	refs, err := newClient(t, ts.URL).GetDescendants(context.Background(), "99")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(refs) != 2 || refs[0].ID != "1" || refs[1].ID != "2" {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"id":"1","title":"A","body":{"storage":{"value":""}}}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := newClient(t, ts.URL).GetPage(ctx, "1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) < 2 {
		t.Fatalf("expected a retry, got %d hits", hits)
	}
}

func TestClient_DownloadAttachment(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wiki/api/v2/pages/101/attachments":
			fmt.Fprint(w, `{"results":[
				{"title":"duck.jpg","mediaType":"image/jpeg","_links":{"download":"/download/attachments/101/duck.jpg"}},
				{"title":"menu.pdf","mediaType":"application/pdf","_links":{"download":"/download/attachments/101/menu.pdf"}}
			],"_links":{}}`)
		case "/wiki/download/attachments/101/duck.jpg":
			w.Write([]byte("jpegbytes"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "reviews", "101", "duck.jpg")
	err := newClient(t, ts.URL).DownloadAttachment(context.Background(), "101", "duck.jpg", dest)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Fatalf("content = %q", data)
	}
}

func TestClient_DownloadAttachment_Missing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[],"_links":{}}`)
	}))
	defer ts.Close()

	err := newClient(t, ts.URL).DownloadAttachment(context.Background(), "101", "ghost.jpg", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, confluence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
