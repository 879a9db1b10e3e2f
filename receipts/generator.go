// Package receipts renders and stores one receipt document per payment.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/satheeshds/condo/models"
	"github.com/satheeshds/condo/store"
)

// ErrPaymentNotFound is returned when no payment exists for the id.
var ErrPaymentNotFound = errors.New("payment not found")

// Source provides the joined receipt data and records where the document went.
// *store.Store satisfies it.
type Source interface {
	ReceiptData(ctx context.Context, paymentID int64) (models.ReceiptData, error)
	SetReceiptPath(ctx context.Context, paymentID int64, path string) error
}

// Generator writes receipts under dir, one file per payment.
type Generator struct {
	dir      string
	source   Source
	renderer Renderer
	group    singleflight.Group
}

func NewGenerator(dir string, source Source, renderer Renderer) *Generator {
	return &Generator{dir: dir, source: source, renderer: renderer}
}

// FileName is the deterministic document name for a payment.
func FileName(paymentID int64) string {
	return "receipt_" + strconv.FormatInt(paymentID, 10) + ".pdf"
}

// Path is where the payment's document lives, whether or not it exists yet.
func (g *Generator) Path(paymentID int64) string {
	return filepath.Join(g.dir, FileName(paymentID))
}

// relPath is the reference stored on the payment row.
func (g *Generator) relPath(paymentID int64) string {
	return filepath.ToSlash(filepath.Join(filepath.Base(filepath.Clean(g.dir)), FileName(paymentID)))
}

// Ensure returns the payment's document path, generating it only when no file
// exists yet. An existing file is trusted as is; its content is not compared
// against the current ledger data.
func (g *Generator) Ensure(ctx context.Context, paymentID int64) (string, error) {
	path := g.Path(paymentID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	v, err, _ := g.group.Do(strconv.FormatInt(paymentID, 10), func() (any, error) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// Shared by every waiter, so one caller's cancellation must not fail the rest.
		return g.Generate(context.WithoutCancel(ctx), paymentID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Generate renders the document for a payment, replacing any existing file,
// and records its relative path on the payment.
func (g *Generator) Generate(ctx context.Context, paymentID int64) (string, error) {
	data, err := g.source.ReceiptData(ctx, paymentID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("payment %d: %w", paymentID, ErrPaymentNotFound)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return "", fmt.Errorf("creating receipts directory: %w", err)
	}

	tmp, err := os.CreateTemp(g.dir, ".receipt-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating receipt file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := g.renderer.Render(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("rendering receipt %d: %w", paymentID, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing receipt %d: %w", paymentID, err)
	}

	path := g.Path(paymentID)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("storing receipt %d: %w", paymentID, err)
	}

	if err := g.source.SetReceiptPath(ctx, paymentID, g.relPath(paymentID)); err != nil {
		return "", fmt.Errorf("recording receipt %d: %w", paymentID, err)
	}

	slog.Info("receipt generated", "payment_id", paymentID, "path", path)
	return path, nil
}
