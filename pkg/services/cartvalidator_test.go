package services

import (
	"testing"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemWithOptions(options []models.ProductOption, selected map[string]string) models.LineItem {
	return models.LineItem{
		Id:              "item-1",
		Name:            "Amber Musk",
		Quantity:        1,
		Options:         options,
		SelectedOptions: selected,
	}
}

func TestFindIncompleteItemsReportsMissingRequired(t *testing.T) {
	options := []models.ProductOption{
		{Name: "size", Label: "Bottle Size", Type: models.OptionTypeSelect, Required: true},
		{Name: "engraving", Label: "Engraving", Type: models.OptionTypeText, Required: true},
		{Name: "wrap", Label: "Gift Wrap", Type: models.OptionTypeSelect, Required: false},
	}

	item := itemWithOptions(options, map[string]string{"size": "50ml"})
	incomplete := FindIncompleteItems([]models.LineItem{item})

	require.Len(t, incomplete, 1)
	assert.Equal(t, "item-1", incomplete[0].Item.Id)
	assert.Equal(t, []string{"Engraving"}, incomplete[0].MissingOptions)
	assert.False(t, CanProceedToCheckout([]models.LineItem{item}))
}

func TestBlankSelectionCountsAsMissing(t *testing.T) {
	options := []models.ProductOption{
		{Name: "size", Label: "Bottle Size", Type: models.OptionTypeSelect, Required: true},
	}

	item := itemWithOptions(options, map[string]string{"size": "   "})
	incomplete := FindIncompleteItems([]models.LineItem{item})

	require.Len(t, incomplete, 1)
	assert.Equal(t, []string{"Bottle Size"}, incomplete[0].MissingOptions)
}

func TestCompleteItemsPassValidation(t *testing.T) {
	options := []models.ProductOption{
		{Name: "size", Label: "Bottle Size", Type: models.OptionTypeSelect, Required: true},
		{Name: "wrap", Label: "Gift Wrap", Type: models.OptionTypeSelect, Required: false},
	}

	item := itemWithOptions(options, map[string]string{"size": "100ml"})
	assert.Empty(t, FindIncompleteItems([]models.LineItem{item}))
	assert.True(t, CanProceedToCheckout([]models.LineItem{item}))
}

func TestItemWithoutOptionsIsAlwaysComplete(t *testing.T) {
	item := itemWithOptions(nil, nil)
	assert.Empty(t, FindIncompleteItems([]models.LineItem{item}))
}

func TestMissingOptionFallsBackToName(t *testing.T) {
	options := []models.ProductOption{
		{Name: "concentration", Required: true},
	}

	incomplete := FindIncompleteItems([]models.LineItem{itemWithOptions(options, nil)})
	require.Len(t, incomplete, 1)
	assert.Equal(t, []string{"concentration"}, incomplete[0].MissingOptions)
}
