package grocy

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Num is a float64 that unmarshals from JSON numbers, numeric strings, and
// null/empty strings (both decode to zero). Grocy mixes all three shapes
// depending on version and field.
type Num float64

// UnmarshalJSON implements json.Unmarshaler for Num.
func (n *Num) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Num(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Num(f)
	return nil
}

// Int returns the value truncated to int64.
func (n Num) Int() int64 { return int64(n) }

// Float returns the value as float64.
func (n Num) Float() float64 { return float64(n) }

// Product is a catalog product record from /objects/products.
type Product struct {
	ID                                 Num    `json:"id"`
	Name                               string `json:"name"`
	LocationID                         Num    `json:"location_id"`
	QuIDPurchase                       Num    `json:"qu_id_purchase"`
	QuIDStock                          Num    `json:"qu_id_stock"`
	ParentProductID                    *Num   `json:"parent_product_id"`
	MinStockAmount                     Num    `json:"min_stock_amount"`
	Calories                           Num    `json:"calories"`
	DefaultBestBeforeDays              Num    `json:"default_best_before_days"`
	DefaultBestBeforeDaysAfterOpen     Num    `json:"default_best_before_days_after_open"`
	DefaultBestBeforeDaysAfterFreezing Num    `json:"default_best_before_days_after_freezing"`
	DefaultBestBeforeDaysAfterThawing  Num    `json:"default_best_before_days_after_thawing"`
}

// NewProduct is the payload for creating or updating a product. Pointer
// fields are omitted when nil so partial updates only touch what they name.
type NewProduct struct {
	Name                               string `json:"name"`
	LocationID                         int64  `json:"location_id,omitempty"`
	QuIDPurchase                       int64  `json:"qu_id_purchase,omitempty"`
	QuIDStock                          int64  `json:"qu_id_stock,omitempty"`
	Calories                           *int64 `json:"calories,omitempty"`
	DefaultBestBeforeDays              *int   `json:"default_best_before_days,omitempty"`
	DefaultBestBeforeDaysAfterOpen     *int   `json:"default_best_before_days_after_open,omitempty"`
	DefaultBestBeforeDaysAfterFreezing *int   `json:"default_best_before_days_after_freezing,omitempty"`
	DefaultBestBeforeDaysAfterThawing  *int   `json:"default_best_before_days_after_thawing,omitempty"`
}

// BarcodeProduct is the normalized result of a by-barcode stock lookup.
type BarcodeProduct struct {
	Product     Product
	StockAmount float64
}

// barcodeLookupResponse mirrors GET /stock/products/by-barcode/{barcode}.
type barcodeLookupResponse struct {
	Product     Product `json:"product"`
	StockAmount Num     `json:"stock_amount"`
}

// Location is a storage location from /objects/locations.
type Location struct {
	ID   Num    `json:"id"`
	Name string `json:"name"`
}

// QuantityUnit is a quantity unit from /objects/quantity_units.
type QuantityUnit struct {
	ID   Num    `json:"id"`
	Name string `json:"name"`
}

// UserfieldDefinition is a custom-field definition from /objects/userfields.
type UserfieldDefinition struct {
	ID      Num    `json:"id"`
	Entity  string `json:"entity"`
	Name    string `json:"name"`
	Caption string `json:"caption"`
	Type    string `json:"type"`
}

// StockEntry is one booked stock lot from /stock/products/{id}/entries.
type StockEntry struct {
	ID             Num    `json:"id"`
	Amount         Num    `json:"amount"`
	Price          Num    `json:"price"`
	BestBeforeDate string `json:"best_before_date"`
}

// StockElement is one row of the stock overview. Field names differ across
// grocy versions; normalization into InventoryRow happens in the gateway.
type StockElement struct {
	ProductID      Num      `json:"product_id"`
	Amount         Num      `json:"amount"`
	BestBeforeDate string   `json:"best_before_date"`
	Product        *Product `json:"product"`
	ProductName    string   `json:"product_name"`
	Name           string   `json:"name"`
}

// InventoryRow is the simplified inventory view exposed by the API.
type InventoryRow struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Expiry   string  `json:"expiry,omitempty"`
}

// ShoppingListItem is one row of /objects/shopping_list.
type ShoppingListItem struct {
	ID             Num `json:"id"`
	ProductID      Num `json:"product_id"`
	Amount         Num `json:"amount"`
	ShoppingListID Num `json:"shopping_list_id"`
}

// ProductBarcode is one row of /objects/product_barcodes.
type ProductBarcode struct {
	ID        Num    `json:"id"`
	ProductID Num    `json:"product_id"`
	Barcode   string `json:"barcode"`
}
