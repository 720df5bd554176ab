package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesDuplicates(t *testing.T) {
	pump, filter := uuid.New(), uuid.New()
	li := NewLineItems()

	require.NoError(t, li.Add(pump, 1))
	require.NoError(t, li.Add(filter, 1))
	require.NoError(t, li.Add(pump, 2))

	lines := li.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, Line{ItemID: pump, Quantity: 3, SortOrder: 0}, lines[0])
	assert.Equal(t, Line{ItemID: filter, Quantity: 1, SortOrder: 1}, lines[1])
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	li := NewLineItems()
	assert.ErrorIs(t, li.Add(uuid.New(), 0), ErrInvalidQuantity)
	assert.Equal(t, 0, li.Len())
}

func TestNewLineItemsMerges(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	li := NewLineItems(Line{ItemID: a, Quantity: 1}, Line{ItemID: b, Quantity: 2}, Line{ItemID: a, Quantity: 4})

	assert.Equal(t, []uuid.UUID{a, b}, li.IDs())
	assert.Equal(t, 5, li.Lines()[0].Quantity)
}

func TestSetQuantityAndRemove(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	li := NewLineItems(Line{ItemID: a, Quantity: 1}, Line{ItemID: b, Quantity: 1}, Line{ItemID: c, Quantity: 1})

	require.NoError(t, li.SetQuantity(b, 6))
	assert.ErrorIs(t, li.SetQuantity(b, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, li.SetQuantity(uuid.New(), 2), ErrLineNotFound)

	assert.True(t, li.Remove(a))
	assert.False(t, li.Remove(a))

	lines := li.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, Line{ItemID: b, Quantity: 6, SortOrder: 0}, lines[0])
	assert.Equal(t, Line{ItemID: c, Quantity: 1, SortOrder: 1}, lines[1])
}

func TestLinesReturnsCopy(t *testing.T) {
	a := uuid.New()
	li := NewLineItems(Line{ItemID: a, Quantity: 1})

	lines := li.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, li.Lines()[0].Quantity)
}
