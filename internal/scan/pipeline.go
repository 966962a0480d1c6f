package scan

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/grocy"
	"github.com/larderhq/larder-api/internal/platform/gemini"
)

// preferredUnitNames are quantity-unit names used for new products when the
// backend has one, tried in order.
var preferredUnitNames = []string{"unit", "piece", "pcs"}

// Pipeline executes one scan job at a time. It is driven exclusively by the
// queue's sequential worker, so it holds no locks of its own.
type Pipeline struct {
	catalog   Catalog
	nutrition Nutrition
	llm       LLM
	logger    *slog.Logger

	// now is swapped in tests to pin best-before dates.
	now func() time.Time
}

// NewPipeline creates a scan pipeline. nutrition and llm may be nil; the
// corresponding branches then degrade as documented on each step.
func NewPipeline(catalog Catalog, nutrition Nutrition, llm LLM, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		nutrition: nutrition,
		llm:       llm,
		logger:    logger.With(slog.String("component", "scan_pipeline")),
		now:       time.Now,
	}
}

// Execute runs a single scan operation. logf receives human-readable step
// lines for the job record; it is observational output, never control flow.
func (p *Pipeline) Execute(ctx context.Context, op domain.ScanOp, barcode string, logf func(string)) (*domain.ScanOutcome, error) {
	switch op {
	case domain.ScanOpAdd:
		return p.runAdd(ctx, barcode, logf)
	case domain.ScanOpRemove:
		return p.runRemove(ctx, barcode, logf)
	default:
		return nil, domain.ErrInvalidScanOp
	}
}

func (p *Pipeline) runAdd(ctx context.Context, barcode string, logf func(string)) (*domain.ScanOutcome, error) {
	logf(fmt.Sprintf("looking up barcode %s", barcode))
	existing, err := p.catalog.GetProductByBarcode(ctx, barcode)
	if err != nil && !grocy.IsNotFound(err) {
		return nil, fmt.Errorf("barcode lookup failed: %w", err)
	}

	if existing != nil {
		return p.addExisting(ctx, barcode, &existing.Product, logf)
	}

	logf("barcode not in catalog, querying nutrition lookup")
	item, err := p.lookupNutrition(ctx, barcode)
	if err != nil {
		return nil, err
	}

	name := item.DisplayName()
	logf(fmt.Sprintf("resolved item name %q", name))

	matchedID, matched, err := p.matchPlaceholder(ctx, name, logf)
	if err != nil {
		return nil, err
	}
	if matched {
		return p.overridePlaceholder(ctx, matchedID, barcode, name, item, logf)
	}

	return p.createProduct(ctx, barcode, name, item, logf)
}

// addExisting books one unit onto a product already linked to the barcode.
func (p *Pipeline) addExisting(ctx context.Context, barcode string, product *grocy.Product, logf func(string)) (*domain.ScanOutcome, error) {
	logf(fmt.Sprintf("found existing product %q (id %d)", product.Name, product.ID.Int()))

	var opts grocy.StockAddOptions
	if days := int(product.DefaultBestBeforeDays.Int()); days > 0 {
		opts.BestBeforeDate = p.bestBeforeDate(days)
		logf(fmt.Sprintf("best before %s (%d days)", opts.BestBeforeDate, days))
	}

	if err := p.catalog.AddStock(ctx, product.ID.Int(), 1, opts); err != nil {
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}
	logf("added 1 unit to stock")

	return &domain.ScanOutcome{
		Status:      "ok",
		Message:     fmt.Sprintf("added 1 unit of %s", product.Name),
		Barcode:     barcode,
		Operation:   domain.ScanOpAdd,
		AddedAmount: 1,
		ProductID:   product.ID.Int(),
		ProductName: product.Name,
	}, nil
}

func (p *Pipeline) lookupNutrition(ctx context.Context, barcode string) (*domain.NutritionItem, error) {
	if p.nutrition == nil {
		return nil, fmt.Errorf("no product exists for barcode %s and nutrition lookup is not configured", barcode)
	}
	item, err := p.nutrition.LookupUPC(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("nutrition lookup failed: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("no nutrition data found for barcode %s", barcode)
	}
	return item, nil
}

// matchPlaceholder offers the item name to the LLM matcher against every
// placeholder product. No placeholders, no matcher, or a degraded answer
// all mean "no match", never an error.
func (p *Pipeline) matchPlaceholder(ctx context.Context, name string, logf func(string)) (int64, bool, error) {
	placeholders, err := p.catalog.ListPlaceholders(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list placeholders: %w", err)
	}
	if len(placeholders) == 0 || p.llm == nil {
		return 0, false, nil
	}

	logf(fmt.Sprintf("matching against %d placeholder products", len(placeholders)))
	candidates := make([]gemini.PlaceholderCandidate, len(placeholders))
	for i, ph := range placeholders {
		candidates[i] = gemini.PlaceholderCandidate{ID: ph.ID, Name: ph.Name}
	}

	id, matched, err := p.llm.MatchPlaceholder(ctx, name, candidates)
	if err != nil {
		p.logger.WarnContext(ctx, "placeholder matching degraded to no match",
			slog.Bool("llm_degraded", true),
			slog.Any("error", err))
		logf("placeholder matching unavailable, continuing without a match")
		return 0, false, nil
	}
	if matched {
		logf(fmt.Sprintf("matched placeholder product %d", id))
	} else {
		logf("no placeholder matched")
	}
	return id, matched, nil
}

// overridePlaceholder turns a matched placeholder into a real product:
// rename, macro fields, energy, clear the flag, link the barcode, stock it.
func (p *Pipeline) overridePlaceholder(ctx context.Context, productID int64, barcode, name string, item *domain.NutritionItem, logf func(string)) (*domain.ScanOutcome, error) {
	logf(fmt.Sprintf("resolving placeholder %d to %q", productID, name))

	if err := p.catalog.RenameProduct(ctx, productID, name); err != nil {
		return nil, fmt.Errorf("failed to rename placeholder: %w", err)
	}
	if err := p.catalog.WriteMacroFields(ctx, productID, macroValues(item)); err != nil {
		return nil, fmt.Errorf("failed to write macro fields: %w", err)
	}
	if calories, ok := energyFrom(item); ok {
		if err := p.catalog.SetProductEnergy(ctx, productID, calories); err != nil {
			return nil, fmt.Errorf("failed to set product energy: %w", err)
		}
	}
	if err := p.catalog.ClearPlaceholderFlag(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to clear placeholder flag: %w", err)
	}
	if err := p.catalog.AddBarcode(ctx, productID, barcode); err != nil {
		return nil, fmt.Errorf("failed to link barcode: %w", err)
	}

	var opts grocy.StockAddOptions
	if product, err := p.catalog.GetProduct(ctx, productID); err == nil {
		if days := int(product.DefaultBestBeforeDays.Int()); days > 0 {
			opts.BestBeforeDate = p.bestBeforeDate(days)
		}
	}
	if err := p.catalog.AddStock(ctx, productID, 1, opts); err != nil {
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}
	logf("placeholder resolved and 1 unit added to stock")

	return &domain.ScanOutcome{
		Status:             "ok",
		Message:            fmt.Sprintf("matched placeholder and added 1 unit of %s", name),
		Barcode:            barcode,
		Operation:          domain.ScanOpAdd,
		MatchedPlaceholder: true,
		AddedAmount:        1,
		ProductID:          productID,
		ProductName:        name,
	}, nil
}

// createProduct builds a brand-new catalog product from the nutrition item
// and an advisory LLM suggestion, then stocks one unit.
func (p *Pipeline) createProduct(ctx context.Context, barcode, name string, item *domain.NutritionItem, logf func(string)) (*domain.ScanOutcome, error) {
	suggestion := p.suggestProduct(ctx, item, logf)
	if suggestion != nil && suggestion.Name != "" {
		name = suggestion.Name
	}

	unitID, err := p.resolveQuantityUnit(ctx)
	if err != nil {
		return nil, err
	}

	locationLabel := ""
	if suggestion != nil {
		locationLabel = suggestion.LocationLabel
	}
	locationID, err := p.catalog.ResolveLocation(ctx, locationLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage location: %w", err)
	}

	fields := grocy.NewProduct{
		Name:         name,
		LocationID:   locationID,
		QuIDPurchase: unitID,
		QuIDStock:    unitID,
	}
	var bestBeforeDays int
	if suggestion != nil {
		fields.DefaultBestBeforeDays = nonNegativeDays(suggestion.BestBeforeDays)
		fields.DefaultBestBeforeDaysAfterOpen = nonNegativeDays(suggestion.BestBeforeDaysAfterOpen)
		fields.DefaultBestBeforeDaysAfterFreezing = nonNegativeDays(suggestion.BestBeforeDaysAfterFreezing)
		fields.DefaultBestBeforeDaysAfterThawing = nonNegativeDays(suggestion.BestBeforeDaysAfterThawing)
		if fields.DefaultBestBeforeDays != nil {
			bestBeforeDays = *fields.DefaultBestBeforeDays
		}
	}

	logf(fmt.Sprintf("creating product %q", name))
	productID, err := p.catalog.CreateProduct(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := p.catalog.AddBarcode(ctx, productID, barcode); err != nil {
		return nil, fmt.Errorf("failed to link barcode: %w", err)
	}
	if err := p.catalog.WriteMacroFields(ctx, productID, macroValues(item)); err != nil {
		return nil, fmt.Errorf("failed to write macro fields: %w", err)
	}
	if calories, ok := energyFrom(item); ok {
		if err := p.catalog.SetProductEnergy(ctx, productID, calories); err != nil {
			return nil, fmt.Errorf("failed to set product energy: %w", err)
		}
	}

	var opts grocy.StockAddOptions
	if bestBeforeDays > 0 {
		opts.BestBeforeDate = p.bestBeforeDate(bestBeforeDays)
		logf(fmt.Sprintf("best before %s (%d days)", opts.BestBeforeDate, bestBeforeDays))
	}
	if err := p.catalog.AddStock(ctx, productID, 1, opts); err != nil {
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}
	logf("created product and added 1 unit to stock")

	return &domain.ScanOutcome{
		Status:         "ok",
		Message:        fmt.Sprintf("created %s and added 1 unit", name),
		Barcode:        barcode,
		Operation:      domain.ScanOpAdd,
		CreatedProduct: true,
		AddedAmount:    1,
		ProductID:      productID,
		ProductName:    name,
	}, nil
}

// suggestProduct asks the LLM for a finalized name, location and shelf life.
// Every failure degrades to nil; the scan proceeds on raw lookup data.
func (p *Pipeline) suggestProduct(ctx context.Context, item *domain.NutritionItem, logf func(string)) *gemini.ProductSuggestion {
	if p.llm == nil {
		return nil
	}
	suggestion, err := p.llm.SuggestProduct(ctx, item)
	if err != nil {
		p.logger.WarnContext(ctx, "product suggestion degraded",
			slog.Bool("llm_degraded", true),
			slog.Any("error", err))
		logf("product suggestion unavailable, using lookup name")
		return nil
	}
	return suggestion
}

func (p *Pipeline) runRemove(ctx context.Context, barcode string, logf func(string)) (*domain.ScanOutcome, error) {
	logf(fmt.Sprintf("looking up barcode %s", barcode))
	existing, err := p.catalog.GetProductByBarcode(ctx, barcode)
	if err != nil {
		if grocy.IsNotFound(err) {
			return nil, fmt.Errorf("no product exists for this barcode (%s)", barcode)
		}
		return nil, fmt.Errorf("barcode lookup failed: %w", err)
	}

	// Verification only. The fractional, serving-aware consume happens
	// through the stock consume endpoint once the caller knows how many
	// servings were actually used.
	logf(fmt.Sprintf("verified product %q (id %d), %.2f in stock",
		existing.Product.Name, existing.Product.ID.Int(), existing.StockAmount))

	return &domain.ScanOutcome{
		Status:      "ok",
		Message:     fmt.Sprintf("%s verified in stock, consume via the stock endpoint", existing.Product.Name),
		Barcode:     barcode,
		Operation:   domain.ScanOpRemove,
		ProductID:   existing.Product.ID.Int(),
		ProductName: existing.Product.Name,
	}, nil
}

// resolveQuantityUnit prefers a unit literally named unit, piece or pcs,
// then falls back to the first available. No units at all is fatal.
func (p *Pipeline) resolveQuantityUnit(ctx context.Context) (int64, error) {
	units, err := p.catalog.ListQuantityUnits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list quantity units: %w", err)
	}
	if len(units) == 0 {
		return 0, fmt.Errorf("catalog backend has no quantity units configured")
	}
	for _, preferred := range preferredUnitNames {
		for _, unit := range units {
			if strings.EqualFold(strings.TrimSpace(unit.Name), preferred) {
				return unit.ID.Int(), nil
			}
		}
	}
	return units[0].ID.Int(), nil
}

func (p *Pipeline) bestBeforeDate(days int) string {
	return p.now().AddDate(0, 0, days).Format("2006-01-02")
}

// macroValues maps a nutrition item onto product macro custom fields.
func macroValues(item *domain.NutritionItem) grocy.MacroValues {
	return grocy.MacroValues{
		CaloriesPerServing: item.Calories,
		Carbs:              item.CarbohydrateG,
		Fats:               item.FatG,
		Protein:            item.ProteinG,
		NumServings:        item.ServingQty,
		ServingWeight:      item.ServingWeightG,
	}
}

// energyFrom computes the built-in energy field as rounded calories per
// serving times servings, defaulting servings to 1 when unknown.
func energyFrom(item *domain.NutritionItem) (int64, bool) {
	if item.Calories == nil {
		return 0, false
	}
	servings := 1.0
	if item.ServingQty != nil && *item.ServingQty > 0 {
		servings = *item.ServingQty
	}
	return int64(math.Round(*item.Calories * servings)), true
}

// nonNegativeDays drops missing or negative shelf-life values rather than
// defaulting them to zero.
func nonNegativeDays(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}
