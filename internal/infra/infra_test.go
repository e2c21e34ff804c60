package infra

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/production"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var errBoom = errors.New("boom")

func TestBreakerTripsAndRecovers(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{Trip: 2, Recover: 1, Cooldown: time.Minute})
	b.now = func() time.Time { return clock }

	assert.ErrorIs(t, b.Do(func() error { return errBoom }), errBoom)
	assert.Equal(t, BreakerClosed, b.State())
	assert.ErrorIs(t, b.Do(func() error { return errBoom }), errBoom)
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)

	clock = clock.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, b.State())
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{Trip: 1, Cooldown: time.Second})
	b.now = func() time.Time { return clock }

	_ = b.Do(func() error { return errBoom })
	clock = clock.Add(time.Second)
	_ = b.Do(func() error { return errBoom })
	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, "open", b.State().String())
}

func TestSplitRecipients(t *testing.T) {
	assert.Equal(t, []string{"a@x.test", "b@y.test"}, SplitRecipients(" a@x.test,,b@y.test "))
	assert.Nil(t, SplitRecipients(""))
}

func TestDialectorFor(t *testing.T) {
	assert.Equal(t, "sqlite", dialectorFor("sqlite:inventory.db").Name())
	assert.Equal(t, "sqlite", dialectorFor("file::memory:").Name())
	assert.Equal(t, "postgres", dialectorFor("postgres://u:p@localhost/db").Name())
}

func sampleReport() Report {
	return Report{
		Title:       "Production plan",
		GeneratedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Rows: []production.Result{
			{Item: production.Item{Code: "CHAIR", Name: "Chair", Price: decimal.RequireFromString("49.90")}, ProducibleQuantity: 3, TotalValue: decimal.RequireFromString("149.70")},
			{Item: production.Item{Code: "TABLE", Name: "Table", Price: decimal.NewFromInt(120)}, ProducibleQuantity: 0, TotalValue: decimal.Zero},
		},
		Summary: production.Summary{Products: 2, TotalUnits: 3, TotalValue: decimal.RequireFromString("149.70")},
	}
}

func TestWriteReportPDF(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteReportPDF(sampleReport(), dir)
	require.NoError(t, err)
	assert.Contains(t, path, "production_20260304_050607.pdf")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderReportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReportPDF(sampleReport(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPruneReports(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()
	for i := 0; i < 4; i++ {
		r.GeneratedAt = r.GeneratedAt.Add(time.Hour)
		_, err := WriteReportPDF(r, dir)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	removed, err := PruneReports(dir, "pdf", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"notes.txt", "production_20260304_080607.pdf", "production_20260304_090607.pdf"}, names)

	removed, err = PruneReports(filepath.Join(dir, "missing"), "pdf", 1)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestWriteReportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportXLSX(sampleReport(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	code, err := f.GetCellValue(reportSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "CHAIR", code)

	qty, err := f.GetCellValue(reportSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "3", qty)

	total, err := f.GetCellValue(reportSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", total)
}

func TestNoCache(t *testing.T) {
	c := NewCache(nil)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Del(ctx, "k"))
	n, err := c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, n)

	rdb, err := NewRedis(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, rdb)
}
