// Package grocy implements the typed gateway to the grocy inventory
// backend's REST API: product and barcode lookup, stock mutation,
// userfields, quantity units, locations, and the shopping list.
//
// Grocy responses vary by version: lists arrive bare or wrapped in
// {"data": [...]}, numbers arrive as JSON numbers or quoted strings, and
// unknown barcodes surface as 400s rather than 404s. All of that is
// normalized here so callers only ever see typed results and the package
// sentinels (ErrNotFound in particular).
package grocy
