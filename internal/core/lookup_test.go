package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupByKey(t *testing.T) {
	kv := LookupByKey(testValues(), "Trade.ZClass")
	require.NotNil(t, kv)
	assert.Equal(t, "20", kv.Value)

	assert.Nil(t, LookupByKey(testValues(), "trade.zclass"))
}

func TestLookupByIndex(t *testing.T) {
	values := testValues()

	kv := LookupByIndex(values, 1)
	require.NotNil(t, kv)
	assert.Equal(t, "Inv.Visible", kv.Key)

	assert.Nil(t, LookupByIndex(values, 0))
	assert.Nil(t, LookupByIndex(values, 7))
}

func TestSearch(t *testing.T) {
	assert.Equal(t, []string{"Inv.Slot1.Content"}, keys(Search(testValues(), "SWORD")))
	assert.Equal(t, []string{"Inv.ZClass", "Trade.ZClass"}, keys(Search(testValues(), "zclass")))
	assert.Len(t, Search(testValues(), ""), 6)
}

func TestQuery(t *testing.T) {
	assert.Equal(t, []string{"Trade.Visible", "Trade.ZClass"}, keys(Query(testValues(), "item=Trade")))
	assert.Equal(t, []string{"Trade.Visible", "Trade.ZClass"}, keys(Query(testValues(), "trade")))
}

func TestUniqueItems(t *testing.T) {
	assert.Equal(t, []string{"Inv", "Inv.Slot1", "System", "Trade"}, UniqueItems(testValues()))
}
