// Package export renders the order ledger as a CSV report for the back
// office.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/handystore/storefront-bot/internal/pricing"
	"github.com/handystore/storefront-bot/internal/repository"
)

var header = []string{
	"order_id", "created_at", "user_id", "user_name",
	"product", "quantity", "base_total", "points_used", "final_price",
	"delivery_method", "status", "tracking_code", "comment",
}

// Exporter writes CSV reports over the order store.
type Exporter struct {
	orders repository.OrderRepository
}

func NewExporter(orders repository.OrderRepository) *Exporter {
	return &Exporter{orders: orders}
}

// WriteCSV writes every stored order to w, oldest first.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer) error {
	orders, err := e.orders.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, o := range orders {
		record := []string{
			o.ID,
			o.CreatedAt.Format("2006-01-02 15:04:05"),
			o.UserID,
			o.UserName,
			o.ProductName,
			strconv.Itoa(o.Quantity),
			pricing.FormatAmount(o.BaseTotal),
			strconv.FormatInt(o.PointsUsed, 10),
			pricing.FormatAmount(o.FinalPrice),
			o.DeliveryMethod,
			string(o.Status),
			o.TrackingCode,
			o.Comment,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
