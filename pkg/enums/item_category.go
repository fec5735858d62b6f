package enums

import "fmt"

// ItemCategory classifies a quote line item by trade.
type ItemCategory string

const (
	ItemCategoryCarpentry ItemCategory = "carpentry"
	ItemCategoryPlumbing  ItemCategory = "plumbing_electrical"
	ItemCategoryPainting  ItemCategory = "painting"
	ItemCategoryMasonry   ItemCategory = "masonry"
	ItemCategoryHVAC      ItemCategory = "hvac"
	ItemCategoryDesignFee ItemCategory = "design_fee"
	ItemCategoryOther     ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryCarpentry,
	ItemCategoryPlumbing,
	ItemCategoryPainting,
	ItemCategoryMasonry,
	ItemCategoryHVAC,
	ItemCategoryDesignFee,
	ItemCategoryOther,
}

// String returns the literal string for the category.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the category is known.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
