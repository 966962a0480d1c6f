package task

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/grocy"
	"github.com/larderhq/larder-api/internal/scraper"
)

// BatchCatalog is the slice of the inventory backend the batch jobs need.
// *grocy.Client satisfies it.
type BatchCatalog interface {
	ListProducts(ctx context.Context) ([]grocy.Product, error)
	ListStockEntries(ctx context.Context, productID int64) ([]grocy.StockEntry, error)
	ProductWalmartLink(ctx context.Context, productID int64) (string, error)
	SetProductWalmartLink(ctx context.Context, productID int64, link string) error
	SetProductPrice(ctx context.Context, productID int64, price float64) error
	StockAmounts(ctx context.Context) (map[int64]float64, error)
	ListShoppingListItems(ctx context.Context, shoppingListID int64) ([]grocy.ShoppingListItem, error)
	AddToShoppingList(ctx context.Context, shoppingListID, productID int64, amount float64) error
}

// Scraper is the slice of the scrape client the batch jobs need.
type Scraper interface {
	Search(ctx context.Context, query string) ([]scraper.SearchResult, error)
	LookupProduct(ctx context.Context, productURL string) (*scraper.ProductInfo, error)
}

// batchItem is one product snapshotted into a batch run.
type batchItem struct {
	ProductID   int64
	ProductName string
	WalmartLink string
	// Amount is the shopping list quantity a restock batch books.
	Amount float64
}

// Manager owns background batch jobs and their pollable records. Records
// are retained for the process lifetime.
type Manager struct {
	catalog        BatchCatalog
	scraper        Scraper
	concurrency    int
	shoppingListID int64
	logger         *slog.Logger

	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.BatchJob
}

// NewManager creates a batch job manager. shoppingListID selects the list
// restock batches write to.
func NewManager(catalog BatchCatalog, scr Scraper, concurrency int, shoppingListID int64, logger *slog.Logger) *Manager {
	if concurrency < 1 {
		concurrency = 5
	}
	if shoppingListID < 1 {
		shoppingListID = 1
	}
	return &Manager{
		catalog:        catalog,
		scraper:        scr,
		concurrency:    concurrency,
		shoppingListID: shoppingListID,
		logger:         logger.With(slog.String("component", "batch_manager")),
		jobs:           make(map[uuid.UUID]*domain.BatchJob),
	}
}

// Get returns a snapshot of a batch job, or nil when the id is unknown.
func (m *Manager) Get(id uuid.UUID) *domain.BatchJob {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	snapshot := job.Snapshot()
	return &snapshot
}

// StartPriceUpdate snapshots every product carrying a Walmart link and
// launches a batch that re-scrapes each product page and re-books its
// price. Returns the new job's initial snapshot.
func (m *Manager) StartPriceUpdate(ctx context.Context) (*domain.BatchJob, error) {
	if m.scraper == nil {
		return nil, fmt.Errorf("scraping is not configured")
	}

	items, err := m.linkedProducts(ctx)
	if err != nil {
		return nil, err
	}
	return m.launch(domain.BatchKindPriceUpdate, items, m.updatePrice)
}

// StartSearchScrape snapshots every root product missing a Walmart link or
// a booked price and launches a batch that searches the store for each,
// writing the top result's link and price.
func (m *Manager) StartSearchScrape(ctx context.Context) (*domain.BatchJob, error) {
	if m.scraper == nil {
		return nil, fmt.Errorf("scraping is not configured")
	}

	items, err := m.unlinkedProducts(ctx)
	if err != nil {
		return nil, err
	}
	return m.launch(domain.BatchKindSearchScrape, items, m.scrapeSearch)
}

// StartRestock snapshots every product whose stock plus pending shopping
// list amount sits below its configured minimum, then launches a batch that
// adds the shortfall to the shopping list.
func (m *Manager) StartRestock(ctx context.Context) (*domain.BatchJob, error) {
	items, err := m.belowMinProducts(ctx)
	if err != nil {
		return nil, err
	}
	return m.launch(domain.BatchKindRestock, items, m.restock)
}

// launch records the job and drives the items through the worker pool in a
// background goroutine. Completed advances after every item; errors are
// appended only on failure.
func (m *Manager) launch(kind domain.BatchKind, items []batchItem, fn func(context.Context, batchItem) error) (*domain.BatchJob, error) {
	job, err := domain.NewBatchJob(kind, len(items))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	snapshot := job.Snapshot()
	if len(items) == 0 {
		m.finish(job)
		return &snapshot, nil
	}

	go func() {
		// The batch outlives the triggering request.
		ctx := context.Background()
		Run(ctx, items, m.concurrency, func(ctx context.Context, item batchItem) (struct{}, error) {
			err := fn(ctx, item)
			m.recordItem(job, item, err)
			return struct{}{}, err
		})
		m.finish(job)
	}()

	m.logger.Info("batch job started",
		slog.String("job_id", job.ID.String()),
		slog.String("kind", string(kind)),
		slog.Int("total", len(items)))
	return &snapshot, nil
}

func (m *Manager) recordItem(job *domain.BatchJob, item batchItem, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Completed++
	if err != nil {
		job.Errors = append(job.Errors, domain.BatchItemError{
			ItemID:  item.ProductID,
			Message: err.Error(),
		})
	}
}

func (m *Manager) finish(job *domain.BatchJob) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(job.Errors) > 0 && job.Completed == len(job.Errors) {
		job.Status = domain.BatchStatusError
	} else {
		job.Status = domain.BatchStatusCompleted
	}
}

// linkedProducts returns root products that carry a Walmart link.
func (m *Manager) linkedProducts(ctx context.Context) ([]batchItem, error) {
	products, err := m.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var items []batchItem
	for _, product := range products {
		if isChildProduct(&product) {
			continue
		}
		link, err := m.catalog.ProductWalmartLink(ctx, product.ID.Int())
		if err != nil || strings.TrimSpace(link) == "" {
			continue
		}
		items = append(items, batchItem{
			ProductID:   product.ID.Int(),
			ProductName: product.Name,
			WalmartLink: link,
		})
	}
	return items, nil
}

// unlinkedProducts returns root products missing a link or a booked price.
func (m *Manager) unlinkedProducts(ctx context.Context) ([]batchItem, error) {
	products, err := m.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var items []batchItem
	for _, product := range products {
		if isChildProduct(&product) || strings.TrimSpace(product.Name) == "" {
			continue
		}

		link, err := m.catalog.ProductWalmartLink(ctx, product.ID.Int())
		missingLink := err != nil || strings.TrimSpace(link) == ""
		missingPrice := true
		if entries, err := m.catalog.ListStockEntries(ctx, product.ID.Int()); err == nil {
			for _, entry := range entries {
				if entry.Price.Float() > 0 {
					missingPrice = false
					break
				}
			}
		}

		if missingLink || missingPrice {
			items = append(items, batchItem{
				ProductID:   product.ID.Int(),
				ProductName: product.Name,
			})
		}
	}
	return items, nil
}

// belowMinProducts returns products short of their minimum stock, with the
// shortfall computed against current stock plus what the shopping list
// already carries.
func (m *Manager) belowMinProducts(ctx context.Context) ([]batchItem, error) {
	products, err := m.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	stock, err := m.catalog.StockAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock levels: %w", err)
	}

	listed, err := m.catalog.ListShoppingListItems(ctx, m.shoppingListID)
	if err != nil {
		return nil, fmt.Errorf("failed to read shopping list: %w", err)
	}
	pending := make(map[int64]float64, len(listed))
	for _, item := range listed {
		pending[item.ProductID.Int()] += item.Amount.Float()
	}

	var items []batchItem
	for _, product := range products {
		min := product.MinStockAmount.Float()
		if min <= 0 {
			continue
		}
		id := product.ID.Int()
		available := stock[id] + pending[id]
		if needed := min - available; needed > 0 {
			items = append(items, batchItem{
				ProductID:   id,
				ProductName: product.Name,
				Amount:      needed,
			})
		}
	}
	return items, nil
}

// restock adds one product's shortfall to the shopping list.
func (m *Manager) restock(ctx context.Context, item batchItem) error {
	return m.catalog.AddToShoppingList(ctx, m.shoppingListID, item.ProductID, item.Amount)
}

// updatePrice re-scrapes one linked product page and re-books its price.
func (m *Manager) updatePrice(ctx context.Context, item batchItem) error {
	info, err := m.scraper.LookupProduct(ctx, item.WalmartLink)
	if err != nil {
		return err
	}
	price, ok := scraper.ParsePrice(info.Price)
	if !ok {
		return fmt.Errorf("no parseable price for %s", item.ProductName)
	}
	return m.catalog.SetProductPrice(ctx, item.ProductID, price)
}

// scrapeSearch searches the store for one product and writes the top
// result's link and price.
func (m *Manager) scrapeSearch(ctx context.Context, item batchItem) error {
	results, err := m.scraper.Search(ctx, item.ProductName)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no search results for %s", item.ProductName)
	}

	top := results[0]
	if link := strings.TrimSpace(top.ProductURL); link != "" && isHTTPURL(link) {
		if err := m.catalog.SetProductWalmartLink(ctx, item.ProductID, link); err != nil {
			return err
		}
	}
	if price, ok := scraper.ParsePrice(top.Price); ok {
		if err := m.catalog.SetProductPrice(ctx, item.ProductID, price); err != nil {
			return err
		}
	}
	return nil
}

func isChildProduct(product *grocy.Product) bool {
	return product.ParentProductID != nil && product.ParentProductID.Int() != 0
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
