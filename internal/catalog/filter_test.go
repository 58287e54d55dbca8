package catalog

import (
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Title: "Organic Coffee Beans", Description: "Premium organic coffee beans from local farmers", Cooperative: "Mountain Coffee Co-op"},
		{ID: "2", Title: "Handwoven Basket", Description: "Traditional handwoven basket", Cooperative: "Artisan Crafts Coalition"},
		{ID: "3", Title: "Organic Honey", Description: "Pure, raw honey from local beekeepers", Cooperative: "Beekeepers United"},
	}
}

func coop(s string) *string { return &s }

func TestFilter_EmptyTermAndNilCoopReturnsEverything(t *testing.T) {
	products := testProducts()

	got := Filter(products, "", nil)

	require.Len(t, got, len(products))
	for i := range products {
		assert.Equal(t, products[i].ID, got[i].ID, "order must be preserved")
	}
}

func TestFilter_WhitespaceTermMatchesEverything(t *testing.T) {
	got := Filter(testProducts(), "   \t", nil)
	assert.Len(t, got, 3)
}

func TestFilter_TermMatchesTitleCaseInsensitive(t *testing.T) {
	got := Filter(testProducts(), "coffee", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Organic Coffee Beans", got[0].Title)

	got = Filter(testProducts(), "COFFEE", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilter_TermMatchesDescription(t *testing.T) {
	got := Filter(testProducts(), "beekeepers", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Organic Honey", got[0].Title)
}

func TestFilter_CooperativeExactMatch(t *testing.T) {
	got := Filter(testProducts(), "", coop("Beekeepers United"))

	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestFilter_CooperativeIsExactNotSubstring(t *testing.T) {
	got := Filter(testProducts(), "", coop("Beekeepers"))
	assert.Empty(t, got)
}

func TestFilter_PredicatesCombineWithAnd(t *testing.T) {
	// "organic" matches products 1 and 3; the coop narrows it to 1.
	got := Filter(testProducts(), "organic", coop("Mountain Coffee Co-op"))

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = Filter(testProducts(), "basket", coop("Beekeepers United"))
	assert.Empty(t, got)
}

func TestFilter_PreservesOrderAcrossMatches(t *testing.T) {
	got := Filter(testProducts(), "organic", nil)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	products := testProducts()
	_ = Filter(products, "honey", coop("Beekeepers United"))

	assert.Equal(t, testProducts(), products)
}
