package grocy

import (
	"context"
	"fmt"
	"net/http"
)

// StockAddOptions carries the optional parts of a stock add booking.
type StockAddOptions struct {
	// BestBeforeDate is a YYYY-MM-DD date; empty omits the field.
	BestBeforeDate string
	// Price books the lot at a unit price when non-nil.
	Price *float64
}

// AddStock books amount units of a product into stock.
// Placeholder products must be resolved before stock mutation; callers
// enforce that via IsPlaceholder.
func (c *Client) AddStock(ctx context.Context, productID int64, amount float64, opts StockAddOptions) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be > 0 to add stock")
	}

	payload := map[string]any{"amount": amount}
	if opts.BestBeforeDate != "" {
		payload["best_before_date"] = opts.BestBeforeDate
	}
	if opts.Price != nil {
		payload["price"] = *opts.Price
	}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/stock/products/%d/add", productID), payload, nil, false)
}

// ConsumeStock books amount units of a product out of stock.
func (c *Client) ConsumeStock(ctx context.Context, productID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be > 0 to consume stock")
	}

	payload := map[string]any{"amount": amount}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/stock/products/%d/consume", productID), payload, nil, false)
}

// ListStockEntries returns the booked stock lots of a product. A missing
// product yields an empty list rather than an error.
func (c *Client) ListStockEntries(ctx context.Context, productID int64) ([]StockEntry, error) {
	entries, err := getList[StockEntry](ctx, c, fmt.Sprintf("/stock/products/%d/entries", productID))
	if IsNotFound(err) {
		return nil, nil
	}
	return entries, err
}

// SetProductPrice records a unit price for a product without changing its
// stock level: book one unit in at the price, then book one unit out.
// Partial failure leaves the extra unit in stock; the caller's re-run is
// the recovery path.
func (c *Client) SetProductPrice(ctx context.Context, productID int64, price float64) error {
	if err := c.AddStock(ctx, productID, 1, StockAddOptions{Price: &price}); err != nil {
		return fmt.Errorf("failed to book price-setting stock add: %w", err)
	}
	if err := c.ConsumeStock(ctx, productID, 1); err != nil {
		return fmt.Errorf("failed to book price-setting stock consume: %w", err)
	}
	return nil
}

// StockAmounts returns current stock levels keyed by product id, read from
// the stock overview in one call.
func (c *Client) StockAmounts(ctx context.Context) (map[int64]float64, error) {
	elements, err := getList[StockElement](ctx, c, "/stock")
	if err != nil {
		return nil, err
	}

	amounts := make(map[int64]float64, len(elements))
	for _, el := range elements {
		if id := el.ProductID.Int(); id != 0 {
			amounts[id] += el.Amount.Float()
		}
	}
	return amounts, nil
}

// GetInventory returns the simplified inventory view, normalizing the
// stock overview's shape variants into InventoryRow records.
func (c *Client) GetInventory(ctx context.Context) ([]InventoryRow, error) {
	elements, err := getList[StockElement](ctx, c, "/stock")
	if err != nil {
		return nil, err
	}

	rows := make([]InventoryRow, 0, len(elements))
	for _, el := range elements {
		name := el.Name
		if name == "" {
			name = el.ProductName
		}
		if name == "" && el.Product != nil {
			name = el.Product.Name
		}
		if name == "" {
			continue
		}
		rows = append(rows, InventoryRow{
			Name:     name,
			Quantity: el.Amount.Float(),
			Expiry:   el.BestBeforeDate,
		})
	}
	return rows, nil
}
