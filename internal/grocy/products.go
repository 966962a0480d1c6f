package grocy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetProductByBarcode looks up a product by barcode. Returns ErrNotFound
// when no product is linked to the barcode; that is an expected outcome,
// not a failure.
func (c *Client) GetProductByBarcode(ctx context.Context, barcode string) (*BarcodeProduct, error) {
	var resp barcodeLookupResponse
	err := c.do(ctx, http.MethodGet, "/stock/products/by-barcode/"+barcode, nil, &resp, true)
	if err != nil {
		return nil, err
	}
	return &BarcodeProduct{
		Product:     resp.Product,
		StockAmount: resp.StockAmount.Float(),
	}, nil
}

// GetProduct fetches a single product record by id.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var p Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/objects/products/%d", productID), nil, &p, true)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns all catalog products.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return getList[Product](ctx, c, "/objects/products")
}

// CreateProduct creates a product and returns its new id.
func (c *Client) CreateProduct(ctx context.Context, fields NewProduct) (int64, error) {
	if fields.Name == "" {
		return 0, fmt.Errorf("product name is required")
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/objects/products", fields, &raw, false); err != nil {
		return 0, err
	}

	id, ok := extractCreatedID(raw)
	if !ok {
		// Fall back to a by-name search; some grocy versions return an
		// empty creation response.
		products, err := c.ListProducts(ctx)
		if err != nil {
			return 0, fmt.Errorf("product created but id could not be determined: %w", err)
		}
		for _, p := range products {
			if p.Name == fields.Name {
				return p.ID.Int(), nil
			}
		}
		return 0, fmt.Errorf("product created but id could not be determined")
	}
	return id, nil
}

// UpdateProduct applies a partial update to an existing product.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, fields NewProduct) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/objects/products/%d", productID), fields, nil, false)
}

// RenameProduct updates just the product name.
func (c *Client) RenameProduct(ctx context.Context, productID int64, name string) error {
	payload := map[string]string{"name": name}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/objects/products/%d", productID), payload, nil, false)
}

// SetProductEnergy writes the built-in per-container energy field.
func (c *Client) SetProductEnergy(ctx context.Context, productID int64, calories int64) error {
	payload := map[string]int64{"calories": calories}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/objects/products/%d", productID), payload, nil, false)
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/objects/products/%d", productID), nil, nil, false)
}

// ListBarcodes returns all barcode-to-product links.
func (c *Client) ListBarcodes(ctx context.Context) ([]ProductBarcode, error) {
	return getList[ProductBarcode](ctx, c, "/objects/product_barcodes")
}

// AddBarcode links a barcode to a product.
func (c *Client) AddBarcode(ctx context.Context, productID int64, barcode string) error {
	payload := map[string]any{
		"product_id": productID,
		"barcode":    barcode,
	}
	return c.do(ctx, http.MethodPost, "/objects/product_barcodes", payload, nil, false)
}

// ListQuantityUnits returns all configured quantity units.
func (c *Client) ListQuantityUnits(ctx context.Context) ([]QuantityUnit, error) {
	return getList[QuantityUnit](ctx, c, "/objects/quantity_units")
}

// ListLocations returns all configured storage locations.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	return getList[Location](ctx, c, "/objects/locations")
}
