// Package pdftext produces a plain-text representation of stored PDF
// documents. The pipeline treats it as an opaque collaborator: stages only
// see the returned text or the extraction error.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Kayanalsakkaf/BasiraAajil/pkg/storage"
)

// Extractor returns the text content of the document stored at key.
type Extractor interface {
	Text(ctx context.Context, key string) (string, error)
}

type pdfExtractor struct {
	storage storage.System
	logger  *slog.Logger
}

// New creates an Extractor that reads PDF blobs from the given storage system
// and extracts page content via pdfcpu.
func New(store storage.System, logger *slog.Logger) Extractor {
	return &pdfExtractor{
		storage: store,
		logger:  logger.With("system", "pdftext"),
	}
}

func (e *pdfExtractor) Text(ctx context.Context, key string) (string, error) {
	rc, err := e.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download document %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", key, err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	rs := bytes.NewReader(data)
	count, err := api.PageCount(rs, conf)
	if err != nil {
		return "", fmt.Errorf("page count %s: %w", key, err)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek %s: %w", key, err)
	}
	pdfCtx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", key, err)
	}

	var sb strings.Builder
	for page := 1; page <= count; page++ {
		content, err := pdfcpu.ExtractPageContent(pdfCtx, page)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", page, key, err)
		}
		if content != nil {
			if _, err := io.Copy(&sb, content); err != nil {
				return "", fmt.Errorf("read page %d of %s: %w", page, key, err)
			}
		}
		sb.WriteByte('\n')
	}

	e.logger.Debug("text extracted", "key", key, "pages", count, "bytes", sb.Len())
	return sb.String(), nil
}
