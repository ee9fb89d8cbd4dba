// Package images maps image markers extracted from page text to real
// binary attachments and places them under the media root, one directory
// per source page.
package images

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/reviewpipe/confluence"
)

// imageExtensions is the attachment allow-list; anything else on the page
// (PDFs, spreadsheets) is ignored.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".bmp": true,
}

// AttachmentAPI is the slice of the wiki client the resolver needs.
type AttachmentAPI interface {
	GetAttachments(ctx context.Context, pageID string) ([]confluence.Attachment, error)
	DownloadAttachment(ctx context.Context, pageID, filename, outputPath string) error
}

// Resolver downloads a page's image attachments into the media root.
type Resolver struct {
	api       AttachmentAPI
	mediaRoot string
	log       zerolog.Logger
}

// New creates a Resolver writing under mediaRoot.
func New(api AttachmentAPI, mediaRoot string, log zerolog.Logger) *Resolver {
	return &Resolver{api: api, mediaRoot: mediaRoot, log: log}
}

// DownloadPageImages downloads every image-type attachment of a page and
// returns original filename -> path relative to the media root. A failure
// on one image is logged and skipped, never fatal to the rest.
func (r *Resolver) DownloadPageImages(ctx context.Context, pageID string) (map[string]string, error) {
	attachments, err := r.api.GetAttachments(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments of %s: %w", pageID, err)
	}

	downloaded := make(map[string]string)
	for _, att := range attachments {
		if att.Title == "" || !isImage(att.Title) {
			continue
		}
		relPath := filepath.ToSlash(filepath.Join("reviews", pageID, att.Title))
		outputPath := filepath.Join(r.mediaRoot, "reviews", pageID, att.Title)

		if err := r.api.DownloadAttachment(ctx, pageID, att.Title, outputPath); err != nil {
			r.log.Warn().Str("page_id", pageID).Str("file", att.Title).Err(err).Msg("image download failed, skipping")
			continue
		}
		downloaded[att.Title] = relPath
	}
	return downloaded, nil
}

// Resolve downloads only the named image files, matching markers extracted
// from page text against the page's attachments. Markers naming files the
// page does not carry are logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, pageID string, filenames []string) (map[string]string, error) {
	attachments, err := r.api.GetAttachments(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments of %s: %w", pageID, err)
	}
	available := make(map[string]bool, len(attachments))
	for _, att := range attachments {
		available[att.Title] = true
	}

	resolved := make(map[string]string)
	for _, name := range filenames {
		if _, done := resolved[name]; done {
			continue
		}
		if !isImage(name) {
			continue
		}
		if !available[name] {
			r.log.Warn().Str("page_id", pageID).Str("file", name).Msg("marker names a missing attachment, skipping")
			continue
		}
		outputPath := filepath.Join(r.mediaRoot, "reviews", pageID, name)
		if err := r.api.DownloadAttachment(ctx, pageID, name, outputPath); err != nil {
			r.log.Warn().Str("page_id", pageID).Str("file", name).Err(err).Msg("image download failed, skipping")
			continue
		}
		resolved[name] = filepath.ToSlash(filepath.Join("reviews", pageID, name))
	}
	return resolved, nil
}

func isImage(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}
