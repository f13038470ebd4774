package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/repository/memory"
)

func TestWriteCSV(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderStore()

	first := entity.Order{
		ID:             "ord-1",
		UserID:         "u1",
		UserName:       "Иван",
		ProductName:    "AirPods Pro 2",
		Quantity:       2,
		BaseTotal:      130,
		PointsUsed:     100,
		FinalPrice:     120,
		DeliveryMethod: "🏃 Самовывоз",
		Status:         entity.StatusShipped,
		TrackingCode:   "BY123",
		Comment:        "позвоните заранее",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	second := entity.Order{
		ID:          "ord-2",
		UserID:      "u2",
		ProductName: "Apple Watch 9",
		Quantity:    1,
		BaseTotal:   100,
		FinalPrice:  100,
		Status:      entity.StatusPending,
		CreatedAt:   time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	// Stored newest first to prove the export re-sorts.
	require.NoError(t, orders.Append(ctx, second))
	require.NoError(t, orders.Append(ctx, first))

	var buf bytes.Buffer
	require.NoError(t, NewExporter(orders).WriteCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{
		"ord-1", "2026-03-01 12:00:00", "u1", "Иван",
		"AirPods Pro 2", "2", "130", "100", "120",
		"🏃 Самовывоз", "shipped", "BY123", "позвоните заранее",
	}, records[1])
	assert.Equal(t, "ord-2", records[2][0])
	assert.Equal(t, "pending", records[2][10])
}

func TestWriteCSVEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(memory.NewOrderStore()).WriteCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, header, records[0])
}
