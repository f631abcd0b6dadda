package services

import (
	"strings"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
)

// IncompleteItem pairs a line item with the required options it is missing.
type IncompleteItem struct {
	Item           models.LineItem `json:"item"`
	MissingOptions []string        `json:"missingOptions"`
}

// FindIncompleteItems reports each item that has at least one required option
// with a missing or blank value. Items whose product declares no options, or
// no required ones, are always complete. Pure and deterministic; safe to
// re-run on every read.
func FindIncompleteItems(items []models.LineItem) []IncompleteItem {
	var incomplete []IncompleteItem
	for _, item := range items {
		missing := missingRequiredOptions(item)
		if len(missing) > 0 {
			incomplete = append(incomplete, IncompleteItem{Item: item, MissingOptions: missing})
		}
	}
	return incomplete
}

// CanProceedToCheckout is true iff no item is missing a required option.
func CanProceedToCheckout(items []models.LineItem) bool {
	return len(FindIncompleteItems(items)) == 0
}

func missingRequiredOptions(item models.LineItem) []string {
	var missing []string
	for _, opt := range item.Options {
		if !opt.Required {
			continue
		}
		value, ok := item.SelectedOptions[opt.Name]
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, displayName(opt))
		}
	}
	return missing
}

func displayName(opt models.ProductOption) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Name
}
