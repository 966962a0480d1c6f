package domain

import "strings"

// NutritionItem is the best-effort nutrition lookup result for a barcode.
// Numeric fields are pointers because the upstream service omits unknown
// values; a missing value is distinct from zero.
type NutritionItem struct {
	BrandName      string   `json:"brand_name"`
	FoodName       string   `json:"food_name"`
	Calories       *float64 `json:"nf_calories"`
	CarbohydrateG  *float64 `json:"nf_total_carbohydrate"`
	FatG           *float64 `json:"nf_total_fat"`
	ProteinG       *float64 `json:"nf_protein"`
	ServingQty     *float64 `json:"serving_qty"`
	ServingWeightG *float64 `json:"serving_weight_grams"`
}

// DisplayName builds the canonical product display name: brand and food name
// joined with a single space when both are present, otherwise whichever is
// present, falling back to "Unknown".
func (n *NutritionItem) DisplayName() string {
	brand := strings.TrimSpace(n.BrandName)
	food := strings.TrimSpace(n.FoodName)

	switch {
	case brand != "" && food != "":
		return brand + " " + food
	case brand != "":
		return brand
	case food != "":
		return food
	default:
		return "Unknown"
	}
}
