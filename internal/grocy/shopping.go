package grocy

import (
	"context"
	"fmt"
	"net/http"
)

// ListShoppingListItems returns the items of one shopping list.
func (c *Client) ListShoppingListItems(ctx context.Context, shoppingListID int64) ([]ShoppingListItem, error) {
	items, err := getList[ShoppingListItem](ctx, c, "/objects/shopping_list")
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, item := range items {
		if item.ShoppingListID.Int() == shoppingListID {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// AddToShoppingList puts amount units of a product on a shopping list.
func (c *Client) AddToShoppingList(ctx context.Context, shoppingListID, productID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be > 0")
	}
	payload := map[string]any{
		"product_id":       productID,
		"amount":           amount,
		"shopping_list_id": shoppingListID,
	}
	return c.do(ctx, http.MethodPost, "/stock/shoppinglist/add-product", payload, nil, false)
}

// RemoveFromShoppingList takes amount units of a product off a shopping
// list.
func (c *Client) RemoveFromShoppingList(ctx context.Context, shoppingListID, productID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be > 0")
	}
	payload := map[string]any{
		"product_id":       productID,
		"amount":           amount,
		"shopping_list_id": shoppingListID,
	}
	return c.do(ctx, http.MethodPost, "/stock/shoppinglist/remove-product", payload, nil, false)
}
