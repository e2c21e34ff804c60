package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stain603/industrial-inventory-manager/internal/client"
	"github.com/stain603/industrial-inventory-manager/internal/config"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBOM(t *testing.T) {
	entries, err := parseBOM("PINE:4, SCREW:16,GLUE:0.25")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "SCREW", entries[1].code)
	assert.True(t, decimal.RequireFromString("0.25").Equal(entries[2].qty))

	entries, err = parseBOM("  ")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = parseBOM("PINE")
	assert.Error(t, err)
	_, err = parseBOM("PINE:lots")
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := infra.NewDatabase("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	cfg := &config.Config{Env: "test", CORSOrigins: "*", ReportStoragePath: t.TempDir()}
	srv := httptest.NewServer(router.New(cfg, db, nil, router.NewServices(cfg, db, nil)))
	defer srv.Close()

	var out bytes.Buffer
	cmd := &command{api: client.New(srv.URL, ""), out: &out}
	ctx := context.Background()

	steps := [][]string{
		{"materials", "add", "-code", "PINE", "-name", "Pine board", "-stock", "20", "-unit", "m"},
		{"materials", "add", "-code", "SCREW", "-name", "Screw", "-stock", "15"},
		{"products", "add", "-code", "P1", "-name", "Frame", "-price", "100", "-bom", "PINE:2,SCREW:3"},
		{"materials", "stock", "-code", "pine", "-delta", "-10"},
	}
	for _, s := range steps {
		require.NoError(t, cmd.dispatch(ctx, s[0], s[1], s[2:]), s)
	}
	assert.Contains(t, out.String(), "created P1")
	assert.Contains(t, out.String(), "PINE stock now 10")

	out.Reset()
	require.NoError(t, cmd.dispatch(ctx, "production", "suggestions", nil))
	assert.Contains(t, out.String(), "P1")
	assert.Contains(t, out.String(), "500.00")

	out.Reset()
	require.NoError(t, cmd.dispatch(ctx, "production", "capacity", []string{"-code", "P1"}))
	assert.Contains(t, out.String(), "P1: 5 units, value 500.00")
	assert.Contains(t, out.String(), "limiting")

	err = cmd.dispatch(ctx, "products", "add", []string{"-code", "P2", "-name", "Ghost", "-bom", "NOPE:1"})
	assert.True(t, client.IsNotFound(err))

	require.NoError(t, cmd.dispatch(ctx, "products", "rm", []string{"-code", "P1"}))
	assert.ErrorIs(t, cmd.dispatch(ctx, "stock", "take", nil), errUsage)
}
