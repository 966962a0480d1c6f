package grocy

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ListUserfieldDefinitions returns all custom-field definitions.
func (c *Client) ListUserfieldDefinitions(ctx context.Context) ([]UserfieldDefinition, error) {
	return getList[UserfieldDefinition](ctx, c, "/objects/userfields")
}

// GetProductUserfields returns the custom-field values of a product as a
// raw map keyed by the backend-assigned field names.
func (c *Client) GetProductUserfields(ctx context.Context, productID int64) (map[string]any, error) {
	var values map[string]any
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/userfields/products/%d", productID), nil, &values, true)
	if IsNotFound(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

// SetProductUserfields writes custom-field values on a product. Only the
// keys present in values are touched.
func (c *Client) SetProductUserfields(ctx context.Context, productID int64, values map[string]any) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/userfields/products/%d", productID), values, nil, false)
}

// IsPlaceholder reports whether a product carries a truthy placeholder
// custom field. Unreadable userfields count as "not a placeholder", the
// same lenient stance the dashboard takes.
func (c *Client) IsPlaceholder(ctx context.Context, productID int64) bool {
	values, err := c.GetProductUserfields(ctx, productID)
	if err != nil {
		return false
	}
	key, err := c.fields.Resolve(ctx, FieldPlaceholder)
	if err != nil {
		return false
	}
	return truthy(values[key])
}

// ListPlaceholders returns the id and name of every placeholder product.
func (c *Client) ListPlaceholders(ctx context.Context) ([]PlaceholderRef, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	key, err := c.fields.Resolve(ctx, FieldPlaceholder)
	if err != nil {
		// No placeholder field defined means no placeholders exist.
		return nil, nil
	}

	var refs []PlaceholderRef
	for _, p := range products {
		if p.Name == "" {
			continue
		}
		values, err := c.GetProductUserfields(ctx, p.ID.Int())
		if err != nil {
			continue
		}
		if truthy(values[key]) {
			refs = append(refs, PlaceholderRef{ID: p.ID.Int(), Name: p.Name})
		}
	}
	return refs, nil
}

// PlaceholderRef identifies a placeholder product for matching.
type PlaceholderRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// truthy interprets the value shapes grocy produces for boolean userfields:
// true, 1, "1", "true".
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		s := strings.TrimSpace(strings.ToLower(val))
		if s == "true" {
			return true
		}
		n, err := strconv.ParseFloat(s, 64)
		return err == nil && n != 0
	default:
		return false
	}
}

// userfieldFloat extracts a numeric userfield value, tolerating numbers and
// numeric strings. Returns false when the value is absent or malformed.
func userfieldFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
