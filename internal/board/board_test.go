package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeColumnBoard() *Board {
	return New([]Card{
		{ID: 1, Column: "To Do", Order: 0},
		{ID: 2, Column: "To Do", Order: 1},
		{ID: 3, Column: "To Do", Order: 2},
		{ID: 4, Column: "In Progress", Order: 0},
		{ID: 5, Column: "Done", Order: 0},
	})
}

func columnIDs(b *Board, column string) []uint64 {
	cards := b.Column(column)
	ids := make([]uint64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func TestApply_NoOpWhenDroppedInPlace(t *testing.T) {
	b := threeColumnBoard()

	changed, err := b.Apply(MoveEvent{
		ItemID:       2,
		SourceColumn: "To Do", SourceIndex: 1,
		DestColumn: "To Do", DestIndex: 1,
	})

	require.NoError(t, err)
	assert.Nil(t, changed)
	assert.Equal(t, []uint64{1, 2, 3}, columnIDs(b, "To Do"))
}

func TestApply_CrossColumnMoveToHead(t *testing.T) {
	b := threeColumnBoard()

	changed, err := b.Apply(MoveEvent{
		ItemID:       3,
		SourceColumn: "To Do", SourceIndex: 2,
		DestColumn: "In Progress", DestIndex: 0,
	})
	require.NoError(t, err)

	// The moved card lands at the head of In Progress, the pre-existing
	// occupant shifts down by one.
	assert.Equal(t, []uint64{3, 4}, columnIDs(b, "In Progress"))
	moved, _ := b.Card(3)
	assert.Equal(t, 0, moved.Order)
	shifted, _ := b.Card(4)
	assert.Equal(t, 1, shifted.Order)

	// Remaining To Do cards keep their relative order.
	assert.Equal(t, []uint64{1, 2}, columnIDs(b, "To Do"))

	// Moved card, shifted destination sibling; no source sibling sat after
	// index 2, so nothing else changed.
	assert.Len(t, changed, 2)
}

func TestApply_CrossColumnClosesSourceGap(t *testing.T) {
	b := threeColumnBoard()

	_, err := b.Apply(MoveEvent{
		ItemID:       1,
		SourceColumn: "To Do", SourceIndex: 0,
		DestColumn: "Done", DestIndex: 1,
	})
	require.NoError(t, err)

	// Items after the vacated slot move up.
	second, _ := b.Card(2)
	assert.Equal(t, 0, second.Order)
	third, _ := b.Card(3)
	assert.Equal(t, 1, third.Order)

	assert.Equal(t, []uint64{5, 1}, columnIDs(b, "Done"))
}

func TestApply_WithinColumnMove(t *testing.T) {
	b := threeColumnBoard()

	_, err := b.Apply(MoveEvent{
		ItemID:       3,
		SourceColumn: "To Do", SourceIndex: 2,
		DestColumn: "To Do", DestIndex: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, []uint64{3, 1, 2}, columnIDs(b, "To Do"))
}

func TestApply_UnknownCard(t *testing.T) {
	b := threeColumnBoard()

	_, err := b.Apply(MoveEvent{
		ItemID:       99,
		SourceColumn: "To Do", SourceIndex: 0,
		DestColumn: "Done", DestIndex: 0,
	})

	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestApply_SourceColumnMismatch(t *testing.T) {
	b := threeColumnBoard()

	_, err := b.Apply(MoveEvent{
		ItemID:       5,
		SourceColumn: "To Do", SourceIndex: 0,
		DestColumn: "In Progress", DestIndex: 0,
	})

	assert.ErrorIs(t, err, ErrSourceMismatch)
}

func TestSnapshotRestore_RollsBackFailedMove(t *testing.T) {
	b := threeColumnBoard()
	b.Snapshot()

	_, err := b.Apply(MoveEvent{
		ItemID:       3,
		SourceColumn: "To Do", SourceIndex: 2,
		DestColumn: "In Progress", DestIndex: 0,
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, columnIDs(b, "In Progress"))

	// Pretend the remote persistence failed: the board must return to the
	// pre-move layout.
	b.Restore()

	assert.Equal(t, []uint64{1, 2, 3}, columnIDs(b, "To Do"))
	assert.Equal(t, []uint64{4}, columnIDs(b, "In Progress"))
}

func TestColumn_StableOrderOnTies(t *testing.T) {
	b := New([]Card{
		{ID: 7, Column: "To Do", Order: 1},
		{ID: 2, Column: "To Do", Order: 1},
		{ID: 5, Column: "To Do", Order: 0},
	})

	// Ties resolve by ID so repeated renders agree.
	assert.Equal(t, []uint64{5, 2, 7}, columnIDs(b, "To Do"))
	assert.Equal(t, []uint64{5, 2, 7}, columnIDs(b, "To Do"))
}
