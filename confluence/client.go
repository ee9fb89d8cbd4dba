// Package confluence is a minimal client for the wiki REST API v2: pages,
// descendants, and attachments. It is the only component that talks to the
// network; everything downstream consumes plain values.
package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

var (
	ErrNotFound     = errors.New("confluence: not found")
	ErrUnauthorized = errors.New("confluence: unauthorized")
	ErrForbidden    = errors.New("confluence: forbidden")
)

// Client calls the wiki REST API v2 with basic auth and client-side
// rate limiting.
type Client struct {
	site  string // e.g. https://example.atlassian.net
	email string
	token string
	hc    *http.Client
	rl    *rate.Limiter
	log   zerolog.Logger
}

// New creates a Client. Credentials are required; rps caps request rate.
func New(site, email, token string, rps int, log zerolog.Logger) (*Client, error) {
	if email == "" || token == "" {
		return nil, fmt.Errorf("confluence credentials are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		site:  strings.TrimRight(site, "/"),
		email: email,
		token: token,
		hc:    &http.Client{Timeout: defaultTimeout},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		log:   log,
	}, nil
}

// Page is a full page with body content in storage format.
type Page struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parentId"`
	Body     struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

// PageRef is a page listed in a descendants response; no body content.
type PageRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parentId"`
	Depth    int    `json:"depth"`
}

// Attachment is one binary attachment of a page.
type Attachment struct {
	Title     string `json:"title"`
	MediaType string `json:"mediaType"`
	Links     struct {
		Download string `json:"download"`
	} `json:"_links"`
}

type pagedResponse struct {
	Results json.RawMessage `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// GetPage fetches a single page including its storage-format body.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	url := fmt.Sprintf("%s/wiki/api/v2/pages/%s?body-format=storage", c.site, pageID)
	if err := c.get(ctx, url, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDescendants fetches all descendant pages of a parent, following
// cursor pagination until exhausted.
func (c *Client) GetDescendants(ctx context.Context, pageID string) ([]PageRef, error) {
	var all []PageRef
	cursor := ""

	for {
		url := fmt.Sprintf("%s/wiki/api/v2/pages/%s/descendants?limit=250", c.site, pageID)
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		var resp pagedResponse
		if err := c.get(ctx, url, &resp); err != nil {
			return nil, err
		}

		var batch []PageRef
		if len(resp.Results) > 0 {
			if err := json.Unmarshal(resp.Results, &batch); err != nil {
				return nil, fmt.Errorf("decoding descendants: %w", err)
			}
		}
		all = append(all, batch...)

		cursor = nextCursor(resp.Links.Next)
		if cursor == "" {
			return all, nil
		}
	}
}

// GetAttachments fetches all attachments of a page, following cursor
// pagination until exhausted.
func (c *Client) GetAttachments(ctx context.Context, pageID string) ([]Attachment, error) {
	var all []Attachment
	cursor := ""

	for {
		url := fmt.Sprintf("%s/wiki/api/v2/pages/%s/attachments?limit=250", c.site, pageID)
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		var resp pagedResponse
		if err := c.get(ctx, url, &resp); err != nil {
			return nil, err
		}

		var batch []Attachment
		if len(resp.Results) > 0 {
			if err := json.Unmarshal(resp.Results, &batch); err != nil {
				return nil, fmt.Errorf("decoding attachments: %w", err)
			}
		}
		all = append(all, batch...)

		cursor = nextCursor(resp.Links.Next)
		if cursor == "" {
			return all, nil
		}
	}
}

// DownloadAttachment streams one named attachment of a page to outputPath,
// creating parent directories as needed.
func (c *Client) DownloadAttachment(ctx context.Context, pageID, filename, outputPath string) error {
	attachments, err := c.GetAttachments(ctx, pageID)
	if err != nil {
		return err
	}

	var match *Attachment
	for i := range attachments {
		if attachments[i].Title == filename {
			match = &attachments[i]
			break
		}
	}
	if match == nil {
		return fmt.Errorf("attachment %q on page %s: %w", filename, pageID, ErrNotFound)
	}

	downloadURL := match.Links.Download
	if downloadURL == "" {
		return fmt.Errorf("attachment %q has no download link", filename)
	}
	if strings.HasPrefix(downloadURL, "/") {
		downloadURL = c.site + "/wiki" + downloadURL
	}

	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("downloading %s: %w", filename, statusErr(resp.StatusCode))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", outputPath, err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// get performs a GET with rate limiting, a short retry loop on 429 and
// transient 5xx, and JSON decode into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.email, c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryAfter(resp, attempt)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = statusErr(resp.StatusCode)
			c.log.Warn().Str("url", url).Int("status", resp.StatusCode).Msg("transient API error, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return fmt.Errorf("GET %s: %w", url, statusErr(resp.StatusCode))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decoding %s: %w", url, err)
		}
		return nil
	}
	return fmt.Errorf("GET %s: %w", url, lastErr)
}

func retryAfter(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(attempt+1) * 500 * time.Millisecond
}

func statusErr(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

// nextCursor pulls the cursor token out of a pagination "next" link.
func nextCursor(next string) string {
	if next == "" {
		return ""
	}
	idx := strings.LastIndex(next, "cursor=")
	if idx == -1 {
		return ""
	}
	cursor := next[idx+len("cursor="):]
	if amp := strings.IndexByte(cursor, '&'); amp != -1 {
		cursor = cursor[:amp]
	}
	return cursor
}
