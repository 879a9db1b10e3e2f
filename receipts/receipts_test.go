package receipts

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/condo/models"
	"github.com/satheeshds/condo/store"
)

type memSource struct {
	mu    sync.Mutex
	data  map[int64]models.ReceiptData
	paths map[int64]string
}

func newMemSource(rows ...models.ReceiptData) *memSource {
	s := &memSource{data: map[int64]models.ReceiptData{}, paths: map[int64]string{}}
	for _, r := range rows {
		s.data[r.PaymentID] = r
	}
	return s
}

func (s *memSource) ReceiptData(_ context.Context, id int64) (models.ReceiptData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[id]
	if !ok {
		return d, store.ErrNotFound
	}
	return d, nil
}

func (s *memSource) SetReceiptPath(_ context.Context, id int64, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[id] = path
	return nil
}

type countingRenderer struct {
	calls atomic.Int32
	next  Renderer
}

func (r *countingRenderer) Render(w io.Writer, d models.ReceiptData) error {
	r.calls.Add(1)
	return r.next.Render(w, d)
}

func sampleReceipt() models.ReceiptData {
	due := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	return models.ReceiptData{
		PaymentID:     12,
		PaidAt:        time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC),
		Method:        models.MethodSimulated,
		Amount:        4550,
		InvoiceID:     20,
		Concept:       "Expensas de mayo",
		IssuedAt:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		DueAt:         &due,
		UnitNumber:    "P1D1",
		PayerUsername: "ana",
		PayerEmail:    "ana@example.com",
		PayerName:     "Ana Quispe",
	}
}

func TestLayout_ContainsPaymentInvoiceAndPayer(t *testing.T) {
	var text []string
	for _, l := range Layout("Edificio Central", sampleReceipt()) {
		text = append(text, l.Text)
	}
	joined := strings.Join(text, "\n")

	assert.Contains(t, joined, "Edificio Central")
	assert.Contains(t, joined, "Payment ID: 12")
	assert.Contains(t, joined, "Amount: 45.50")
	assert.Contains(t, joined, "Invoice #20 - Expensas de mayo")
	assert.Contains(t, joined, "Due: 2025-05-31")
	assert.Contains(t, joined, "Unit: P1D1")
	assert.Contains(t, joined, "Ana Quispe <ana@example.com>")
}

func TestPDFRenderer_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	r := PDFRenderer{Issuer: "Edificio Central"}
	require.NoError(t, r.Render(&a, sampleReceipt()))
	require.NoError(t, r.Render(&b, sampleReceipt()))

	assert.True(t, bytes.HasPrefix(a.Bytes(), []byte("%PDF-")))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestEnsure_GeneratesOnceThenReusesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	src := newMemSource(sampleReceipt())
	renderer := &countingRenderer{next: PDFRenderer{}}
	g := NewGenerator(dir, src, renderer)

	first, err := g.Ensure(context.Background(), 12)
	require.NoError(t, err)
	second, err := g.Ensure(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, filepath.Join(dir, "receipt_12.pdf"), first)
	assert.EqualValues(t, 1, renderer.calls.Load())
	assert.Equal(t, "receipts/receipt_12.pdf", src.paths[12])

	info, err := os.Stat(first)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestEnsure_ConcurrentCallsRenderOnce(t *testing.T) {
	src := newMemSource(sampleReceipt())
	renderer := &countingRenderer{next: PDFRenderer{}}
	g := NewGenerator(t.TempDir(), src, renderer)

	var wg sync.WaitGroup
	paths := make([]string, 6)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := g.Ensure(context.Background(), 12)
			assert.NoError(t, err)
			paths[i] = p
		}(i)
	}
	wg.Wait()

	for _, p := range paths {
		assert.Equal(t, g.Path(12), p)
	}
	assert.EqualValues(t, 1, renderer.calls.Load())
}

// cancelAwareSource fails lookups made under a cancelled context.
type cancelAwareSource struct{ *memSource }

func (s cancelAwareSource) ReceiptData(ctx context.Context, id int64) (models.ReceiptData, error) {
	if err := ctx.Err(); err != nil {
		return models.ReceiptData{}, err
	}
	return s.memSource.ReceiptData(ctx, id)
}

func TestEnsure_CallerCancellationDoesNotAbortGeneration(t *testing.T) {
	g := NewGenerator(t.TempDir(), cancelAwareSource{newMemSource(sampleReceipt())}, PDFRenderer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := g.Ensure(ctx, 12)
	require.NoError(t, err)
	assert.FileExists(t, p)
}

func TestEnsure_TrustsExistingFile(t *testing.T) {
	dir := t.TempDir()
	renderer := &countingRenderer{next: PDFRenderer{}}
	g := NewGenerator(dir, newMemSource(), renderer)

	require.NoError(t, os.WriteFile(g.Path(77), []byte("stale"), 0644))

	p, err := g.Ensure(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, g.Path(77), p)
	assert.Zero(t, renderer.calls.Load())
}

func TestGenerate_PaymentNotFound(t *testing.T) {
	g := NewGenerator(t.TempDir(), newMemSource(), PDFRenderer{})

	_, err := g.Generate(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = g.Ensure(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
