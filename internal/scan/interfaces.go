package scan

import (
	"context"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/grocy"
	"github.com/larderhq/larder-api/internal/platform/gemini"
)

// Catalog is the slice of the inventory backend the pipeline needs.
// *grocy.Client satisfies it.
type Catalog interface {
	GetProductByBarcode(ctx context.Context, barcode string) (*grocy.BarcodeProduct, error)
	GetProduct(ctx context.Context, productID int64) (*grocy.Product, error)
	CreateProduct(ctx context.Context, fields grocy.NewProduct) (int64, error)
	RenameProduct(ctx context.Context, productID int64, name string) error
	SetProductEnergy(ctx context.Context, productID int64, calories int64) error
	AddBarcode(ctx context.Context, productID int64, barcode string) error
	AddStock(ctx context.Context, productID int64, amount float64, opts grocy.StockAddOptions) error
	ListQuantityUnits(ctx context.Context) ([]grocy.QuantityUnit, error)
	ListPlaceholders(ctx context.Context) ([]grocy.PlaceholderRef, error)
	WriteMacroFields(ctx context.Context, productID int64, values grocy.MacroValues) error
	ClearPlaceholderFlag(ctx context.Context, productID int64) error
	ResolveLocation(ctx context.Context, label string) (int64, error)
}

// Nutrition looks up nutrition facts for a barcode. A nil result with a nil
// error means the barcode is unknown upstream.
type Nutrition interface {
	LookupUPC(ctx context.Context, barcode string) (*domain.NutritionItem, error)
}

// LLM provides the advisory completions of the pipeline. Implementations
// must degrade rather than block: an unusable answer is an error the
// pipeline logs and proceeds without.
type LLM interface {
	SuggestProduct(ctx context.Context, item *domain.NutritionItem) (*gemini.ProductSuggestion, error)
	MatchPlaceholder(ctx context.Context, itemName string, candidates []gemini.PlaceholderCandidate) (int64, bool, error)
}
