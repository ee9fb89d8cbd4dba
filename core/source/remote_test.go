package source_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/reviewpipe/confluence"
	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/source"
)

// Hierarchy served by the fake wiki: parent 99 has main reviews 1 and 2,
// page 1 has follow-up 3, page 2 lists page 1 again (duplicate) and its
// own body fetch fails.
func newFakeWiki(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wiki/api/v2/pages/99/descendants":
			fmt.Fprint(w, `{"results":[{"id":"1","title":"Golden Duck","parentId":"99"},{"id":"2","title":"Broken Page","parentId":"99"}],"_links":{}}`)
		case "/wiki/api/v2/pages/1/descendants":
			fmt.Fprint(w, `{"results":[{"id":"3","title":"Golden Duck - Second Visit","parentId":"1"}],"_links":{}}`)
		case "/wiki/api/v2/pages/2/descendants":
			fmt.Fprint(w, `{"results":[{"id":"1","title":"Golden Duck","parentId":"99"}],"_links":{}}`)
		case "/wiki/api/v2/pages/3/descendants":
			fmt.Fprint(w, `{"results":[],"_links":{}}`)
		case "/wiki/api/v2/pages/1":
			fmt.Fprint(w, `{"id":"1","title":"Golden Duck","body":{"storage":{"value":"<p>main</p>"}}}`)
		case "/wiki/api/v2/pages/2":
			w.WriteHeader(http.StatusNotFound)
		case "/wiki/api/v2/pages/3":
			fmt.Fprint(w, `{"id":"3","title":"Golden Duck - Second Visit","body":{"storage":{"value":"<p>followup</p>"}}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRemoteSource_Fetch(t *testing.T) {
	ts := newFakeWiki(t)
	defer ts.Close()

	client, err := confluence.New(ts.URL, "user@example.com", "token", 100, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	src := source.NewRemote(client, "99", zerolog.Nop())

	pages, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// Page 2 failed to fetch and was skipped; the duplicate listing of
	// page 1 under page 2 was deduplicated.
	if len(pages) != 2 {
		t.Fatalf("pages = %d: %+v", len(pages), pages)
	}

	if pages[0].ID != "1" || pages[0].IsFollowUp {
		t.Fatalf("main review wrong: %+v", pages[0])
	}
	if pages[0].Body != "<p>main</p>" || pages[0].Format != core.FormatStorage {
		t.Fatalf("main body wrong: %+v", pages[0])
	}
	if pages[1].ID != "3" || !pages[1].IsFollowUp || pages[1].ParentID != "1" {
		t.Fatalf("follow-up wrong: %+v", pages[1])
	}

	info := src.Describe()
	if info.Source != "Confluence API - parent page 99" {
		t.Fatalf("source = %q", info.Source)
	}
	if info.TotalPages != 2 {
		t.Fatalf("total pages = %d", info.TotalPages)
	}
}

func TestRemoteSource_ListingFailureIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	client, err := confluence.New(ts.URL, "user@example.com", "token", 100, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := source.NewRemote(client, "99", zerolog.Nop()).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error when hierarchy listing fails")
	}
}
