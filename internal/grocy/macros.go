package grocy

import (
	"context"
	"fmt"
	"log/slog"
)

// MacroValues holds the per-serving macro numbers written onto a product's
// custom fields. Nil fields are skipped: a missing source value omits that
// field rather than writing zero.
type MacroValues struct {
	CaloriesPerServing *float64
	Carbs              *float64
	Fats               *float64
	Protein            *float64
	NumServings        *float64
	ServingWeight      *float64
}

// WriteMacroFields writes the supplied macro values onto a product's custom
// fields. Each field resolves and writes independently; a label with no
// backend definition is logged and skipped, never fatal.
func (c *Client) WriteMacroFields(ctx context.Context, productID int64, values MacroValues) error {
	pairs := []struct {
		label FieldLabel
		value *float64
	}{
		{FieldCaloriesPerServing, values.CaloriesPerServing},
		{FieldCarbs, values.Carbs},
		{FieldFats, values.Fats},
		{FieldProtein, values.Protein},
		{FieldNumServings, values.NumServings},
		{FieldServingWeight, values.ServingWeight},
	}

	updates := make(map[string]any)
	for _, p := range pairs {
		if p.value == nil {
			continue
		}
		key, err := c.fields.Resolve(ctx, p.label)
		if err != nil {
			c.logger.Warn("skipping macro field with no backend definition",
				slog.String("label", string(p.label)),
				slog.Int64("product_id", productID))
			continue
		}
		updates[key] = *p.value
	}

	if len(updates) == 0 {
		return nil
	}
	if err := c.SetProductUserfields(ctx, productID, updates); err != nil {
		return fmt.Errorf("failed to write macro fields: %w", err)
	}
	return nil
}

// ClearPlaceholderFlag marks a product as a real product.
func (c *Client) ClearPlaceholderFlag(ctx context.Context, productID int64) error {
	key, err := c.fields.Resolve(ctx, FieldPlaceholder)
	if err != nil {
		return err
	}
	return c.SetProductUserfields(ctx, productID, map[string]any{key: false})
}

// ProductNumServings reads the servings-per-container custom field of a
// product. The second return is false when the field is unset or
// malformed.
func (c *Client) ProductNumServings(ctx context.Context, productID int64) (float64, bool, error) {
	values, err := c.GetProductUserfields(ctx, productID)
	if err != nil {
		return 0, false, err
	}
	key, err := c.fields.Resolve(ctx, FieldNumServings)
	if err != nil {
		return 0, false, nil
	}
	n, ok := userfieldFloat(values[key])
	if !ok || n <= 0 {
		return 0, false, nil
	}
	return n, true, nil
}

// ProductWalmartLink reads the Walmart link custom field of a product.
// Returns "" when the field is unset or no link field is defined.
func (c *Client) ProductWalmartLink(ctx context.Context, productID int64) (string, error) {
	values, err := c.GetProductUserfields(ctx, productID)
	if err != nil {
		return "", err
	}
	key, err := c.fields.Resolve(ctx, FieldWalmartLink)
	if err != nil {
		return "", nil
	}
	link, _ := values[key].(string)
	return link, nil
}

// SetProductWalmartLink writes the Walmart link custom field of a product.
func (c *Client) SetProductWalmartLink(ctx context.Context, productID int64, link string) error {
	key, err := c.fields.Resolve(ctx, FieldWalmartLink)
	if err != nil {
		return err
	}
	return c.SetProductUserfields(ctx, productID, map[string]any{key: link})
}
