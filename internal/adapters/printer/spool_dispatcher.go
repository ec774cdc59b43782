package printer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
)

const DriverSpool = "spool"

// SpoolDispatcher drops invoices into a directory watched by a local print agent.
// Files are written under a temporary name and renamed so the agent never sees
// a partial document.
type SpoolDispatcher struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

var _ portssvc.PrintDispatcher = (*SpoolDispatcher)(nil)

// NewSpoolDispatcher creates dir when missing.
func NewSpoolDispatcher(dir string, logger *slog.Logger) (*SpoolDispatcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("spool directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SpoolDispatcher{dir: dir, now: time.Now, logger: logger}, nil
}

func (d *SpoolDispatcher) Name() string {
	return DriverSpool
}

// WaitAssetsReady returns at once. Spooled documents carry their assets inline.
func (d *SpoolDispatcher) WaitAssetsReady(ctx context.Context) error {
	return ctx.Err()
}

func (d *SpoolDispatcher) Dispatch(ctx context.Context, doc invoice.Document, printerName string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPrint, err)
	}

	name := spoolFileName(doc.SerialKey, printerName, d.now())
	tmp, err := os.CreateTemp(d.dir, ".spool-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create spool file: %v", apperrors.ErrPrint, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc.HTML); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write spool file: %v", apperrors.ErrPrint, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to close spool file: %v", apperrors.ErrPrint, err)
	}

	final := filepath.Join(d.dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to publish spool file: %v", apperrors.ErrPrint, err)
	}

	d.logger.Debug("Invoice spooled", slog.String("file", final))
	return nil
}

// spoolFileName encodes time, serial and printer so the agent can route the job.
func spoolFileName(serialKey, printerName string, at time.Time) string {
	name := at.UTC().Format("20060102T150405.000000000") + "_" + sanitize(serialKey)
	if printerName != "" {
		name += "_" + sanitize(printerName)
	}
	return name + ".html"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}
