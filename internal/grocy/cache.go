package grocy

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FieldLabel is a semantic custom-field label. The backend assigns field
// names dynamically, so components address fields by label and the cache
// resolves the label to the backend's key once per process.
type FieldLabel string

// The closed set of semantic field labels the pipeline uses.
const (
	FieldPlaceholder        FieldLabel = "placeholder"
	FieldCaloriesPerServing FieldLabel = "calories per serving"
	FieldCarbs              FieldLabel = "carbs"
	FieldFats               FieldLabel = "fats"
	FieldProtein            FieldLabel = "protein"
	FieldNumServings        FieldLabel = "number of servings"
	FieldServingWeight      FieldLabel = "serving weight"
	FieldWalmartLink        FieldLabel = "walmart link"
)

// ErrFieldUnmapped is returned when no backend userfield definition matches
// a semantic label.
var ErrFieldUnmapped = fmt.Errorf("no userfield definition matches label")

// FieldKeyCache resolves semantic field labels to backend-assigned
// userfield names. Populated lazily on first use and never invalidated;
// a process restart is the only refresh path. That staleness is accepted:
// field definitions change at configuration time, not during operation.
type FieldKeyCache struct {
	client *Client

	mu     sync.Mutex
	loaded bool
	keys   map[FieldLabel]string
}

func newFieldKeyCache(client *Client) *FieldKeyCache {
	return &FieldKeyCache{client: client}
}

// Resolve returns the backend field name for a semantic label.
func (f *FieldKeyCache) Resolve(ctx context.Context, label FieldLabel) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.loaded {
		defs, err := f.client.ListUserfieldDefinitions(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load userfield definitions: %w", err)
		}
		f.keys = buildFieldKeyMap(defs)
		f.loaded = true
	}

	key, ok := f.keys[label]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFieldUnmapped, label)
	}
	return key, nil
}

// buildFieldKeyMap maps each known label onto the best-matching product
// userfield definition. A definition qualifies when its name or caption
// contains the label's primary term; bonus terms break ties between
// qualifying candidates.
func buildFieldKeyMap(defs []UserfieldDefinition) map[FieldLabel]string {
	match := func(primary string, bonus ...string) string {
		best := ""
		bestScore := 0
		for _, d := range defs {
			if !strings.EqualFold(d.Entity, "products") || d.Name == "" {
				continue
			}
			score := 0
			for _, cand := range []string{d.Name, d.Caption} {
				low := strings.ToLower(cand)
				if !strings.Contains(low, primary) {
					continue
				}
				s := 1
				for _, term := range bonus {
					if strings.Contains(low, term) {
						s++
					}
				}
				if s > score {
					score = s
				}
			}
			if score > bestScore {
				bestScore = score
				best = d.Name
			}
		}
		return best
	}

	keys := make(map[FieldLabel]string)
	set := func(label FieldLabel, primary string, bonus ...string) {
		if key := match(primary, bonus...); key != "" {
			keys[label] = key
		}
	}

	set(FieldPlaceholder, "placeholder")
	set(FieldCaloriesPerServing, "calories", "serving")
	set(FieldCarbs, "carbs")
	set(FieldFats, "fats")
	set(FieldProtein, "protein")
	set(FieldNumServings, "servings", "num")
	set(FieldServingWeight, "weight", "serving")
	set(FieldWalmartLink, "walmart", "link", "url")
	return keys
}

// LocationCache resolves storage-location labels (fridge, freezer, pantry)
// to backend location ids. Same lifetime rules as FieldKeyCache.
type LocationCache struct {
	client *Client

	mu     sync.Mutex
	loaded bool
	byName map[string]int64
	first  int64
}

func newLocationCache(client *Client) *LocationCache {
	return &LocationCache{client: client}
}

// Resolve maps a location label to a backend id. An empty label defaults
// to pantry; an unmapped label falls back to the first known location.
func (l *LocationCache) Resolve(ctx context.Context, label string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		locations, err := l.client.ListLocations(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to load locations: %w", err)
		}
		if len(locations) == 0 {
			return 0, fmt.Errorf("catalog backend has no storage locations")
		}
		l.byName = make(map[string]int64, len(locations))
		for i, loc := range locations {
			if i == 0 {
				l.first = loc.ID.Int()
			}
			l.byName[strings.ToLower(strings.TrimSpace(loc.Name))] = loc.ID.Int()
		}
		l.loaded = true
	}

	name := strings.ToLower(strings.TrimSpace(label))
	if name == "" {
		name = "pantry"
	}
	if id, ok := l.byName[name]; ok {
		return id, nil
	}
	return l.first, nil
}

// Locations exposes the location cache.
func (c *Client) Locations() *LocationCache { return c.locations }

// ResolveLocation maps a location label to its backend id through the cache.
func (c *Client) ResolveLocation(ctx context.Context, label string) (int64, error) {
	return c.locations.Resolve(ctx, label)
}

// Fields exposes the custom-field key cache.
func (c *Client) Fields() *FieldKeyCache { return c.fields }
