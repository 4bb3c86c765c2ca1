// Package board implements the sprint board ordering engine: per-column
// ordering of work items and the reindexing rules applied when an item is
// dragged within or across columns.
package board

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrCardNotFound is returned when the move references an unknown item.
	ErrCardNotFound = errors.New("card not found on board")
	// ErrSourceMismatch is returned when the move's source column does not
	// match the item's current column.
	ErrSourceMismatch = errors.New("card is not in the source column")
)

// Card is the board's view of a work item: identity plus position.
type Card struct {
	ID     uint64
	Column string
	Order  int
}

// MoveEvent is the drop event emitted by the UI.
type MoveEvent struct {
	ItemID       uint64
	SourceColumn string
	SourceIndex  int
	DestColumn   string
	DestIndex    int
}

// NoOp reports whether the event drops the card exactly where it started.
func (e MoveEvent) NoOp() bool {
	return e.SourceColumn == e.DestColumn && e.SourceIndex == e.DestIndex
}

// Board holds the cards of a single sprint, keyed by item ID. A Board is not
// safe for concurrent use; the sprint board is a single-user, single-tab
// surface.
type Board struct {
	cards    map[uint64]Card
	snapshot map[uint64]Card
}

// New builds a board from the given cards.
func New(cards []Card) *Board {
	b := &Board{cards: make(map[uint64]Card, len(cards))}
	for _, c := range cards {
		b.cards[c.ID] = c
	}
	return b
}

// Column returns the cards of one column sorted ascending by order. The sort
// is stable with ID as tie-breaker so ties never flicker between renders.
func (b *Board) Column(column string) []Card {
	var out []Card
	for _, c := range b.cards {
		if c.Column == column {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Cards returns every card on the board.
func (b *Board) Cards() []Card {
	out := make([]Card, 0, len(b.cards))
	for _, c := range b.cards {
		out = append(out, c)
	}
	return out
}

// Card looks up a single card by item ID.
func (b *Board) Card(id uint64) (Card, bool) {
	c, ok := b.cards[id]
	return c, ok
}

// Apply executes a move event and returns the cards whose position changed,
// moved card included. A no-op event returns nil. The receiver is updated in
// place; call Snapshot beforehand if the change may need to be rolled back.
func (b *Board) Apply(ev MoveEvent) ([]Card, error) {
	if ev.NoOp() {
		return nil, nil
	}

	moved, ok := b.cards[ev.ItemID]
	if !ok {
		return nil, fmt.Errorf("%w: item %d", ErrCardNotFound, ev.ItemID)
	}
	if moved.Column != ev.SourceColumn {
		return nil, fmt.Errorf("%w: item %d is in %q", ErrSourceMismatch, ev.ItemID, moved.Column)
	}

	crossColumn := ev.SourceColumn != ev.DestColumn

	var changed []Card
	for id, c := range b.cards {
		if id == ev.ItemID {
			continue
		}

		switch {
		// Siblings at or after the insertion point shift down to make room.
		case c.Column == ev.DestColumn && c.Order >= ev.DestIndex:
			c.Order++
			b.cards[id] = c
			changed = append(changed, c)

		// On a cross-column move the vacated slot closes up.
		case crossColumn && c.Column == ev.SourceColumn && c.Order > ev.SourceIndex:
			c.Order--
			b.cards[id] = c
			changed = append(changed, c)
		}
	}

	moved.Column = ev.DestColumn
	moved.Order = ev.DestIndex
	b.cards[ev.ItemID] = moved
	changed = append(changed, moved)

	return changed, nil
}

// Snapshot records the current layout so a failed remote persistence can be
// rolled back with Restore.
func (b *Board) Snapshot() {
	b.snapshot = make(map[uint64]Card, len(b.cards))
	for id, c := range b.cards {
		b.snapshot[id] = c
	}
}

// Restore reverts the board to the last snapshot. It is a no-op if Snapshot
// was never called.
func (b *Board) Restore() {
	if b.snapshot == nil {
		return
	}
	b.cards = make(map[uint64]Card, len(b.snapshot))
	for id, c := range b.snapshot {
		b.cards[id] = c
	}
}
