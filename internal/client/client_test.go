package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stain603/industrial-inventory-manager/internal/client"
	"github.com/stain603/industrial-inventory-manager/internal/config"
	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infra.NewDatabase("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	cfg := &config.Config{Env: "test", CORSOrigins: "*", ReportStoragePath: t.TempDir()}

	srv := httptest.NewServer(router.New(cfg, db, nil, router.NewServices(cfg, db, nil)))
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return client.New(srv.URL, "")
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	wood, err := c.CreateRawMaterial(ctx, dto.CreateRawMaterialRequest{
		Code: "WOOD", Name: "Pine board", StockQuantity: decimal.NewFromInt(40), Unit: "m", CostPerUnit: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	byCode, err := c.RawMaterialByCode(ctx, "wood")
	require.NoError(t, err)
	assert.Equal(t, wood.ID, byCode.ID)

	chair, err := c.CreateProduct(ctx, dto.CreateProductRequest{
		Code: "CHAIR", Name: "Chair", Price: decimal.NewFromInt(30),
		Materials: []dto.BOMLineRequest{{RawMaterialID: wood.ID, QuantityRequired: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	require.Len(t, chair.Materials, 1)

	suggestions, err := c.Suggestions(ctx)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, int64(10), suggestions[0].ProducibleQuantity)
	assert.True(t, decimal.NewFromInt(300).Equal(suggestions[0].TotalValue))

	_, err = c.AdjustStock(ctx, wood.ID, dto.AdjustStockRequest{Delta: decimal.NewFromInt(-20)})
	require.NoError(t, err)

	ledger, err := c.StockMovements(ctx, wood.ID, dto.StockMovementFilter{Kind: "usage"})
	require.NoError(t, err)
	require.Len(t, ledger.Items, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(ledger.Items[0].StockAfter))

	capacity, err := c.ProductCapacity(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), capacity.ProducibleQuantity)
	require.Len(t, capacity.Lines, 1)
	assert.True(t, capacity.Lines[0].Limiting)

	lines, err := c.ListProductMaterialsByProduct(ctx, chair.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NoError(t, c.DeleteProductMaterial(ctx, lines[0].ID))

	report, err := c.Capacity(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Summary.TotalUnits)

	require.NoError(t, c.DeleteProduct(ctx, chair.ID))
	require.NoError(t, c.DeleteRawMaterial(ctx, wood.ID))

	_, err = c.GetRawMaterial(ctx, wood.ID)
	assert.True(t, client.IsNotFound(err))
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	_, err := c.CreateRawMaterial(ctx, dto.CreateRawMaterialRequest{Code: "", Name: "x"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Fields, "CreateRawMaterialRequest.Code")
	assert.Contains(t, err.Error(), "422")

	_, err = c.ProductByCode(ctx, "NOPE")
	assert.True(t, client.IsNotFound(err))

	_, err = c.GetProduct(ctx, "not-a-uuid")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &client.APIError{Status: 409, Detail: "conflict", Fields: map[string]string{"b": "x", "a": "y"}}
	assert.Equal(t, "409: conflict (a y; b x)", err.Error())
	assert.Equal(t, "404: gone", (&client.APIError{Status: 404, Detail: "gone"}).Error())
}
