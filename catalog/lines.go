package catalog

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("line item not found")
)

type Line struct {
	ItemID    uuid.UUID `json:"item_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	SortOrder int       `json:"sort_order"`
}

// LineItems keeps at most one line per item. Adding an item that is already
// present bumps its quantity.
type LineItems struct {
	lines []Line
}

// NewLineItems merges duplicates in the given lines, keeping first-seen order.
func NewLineItems(lines ...Line) *LineItems {
	li := &LineItems{}
	for _, l := range lines {
		li.merge(l.ItemID, l.Quantity)
	}
	return li
}

func (li *LineItems) merge(id uuid.UUID, qty int) {
	for i := range li.lines {
		if li.lines[i].ItemID == id {
			li.lines[i].Quantity += qty
			return
		}
	}
	li.lines = append(li.lines, Line{ItemID: id, Quantity: qty, SortOrder: len(li.lines)})
}

func (li *LineItems) Add(id uuid.UUID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	li.merge(id, qty)
	return nil
}

func (li *LineItems) SetQuantity(id uuid.UUID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range li.lines {
		if li.lines[i].ItemID == id {
			li.lines[i].Quantity = qty
			return nil
		}
	}
	return ErrLineNotFound
}

func (li *LineItems) Remove(id uuid.UUID) bool {
	for i := range li.lines {
		if li.lines[i].ItemID != id {
			continue
		}
		li.lines = append(li.lines[:i], li.lines[i+1:]...)
		for j := i; j < len(li.lines); j++ {
			li.lines[j].SortOrder = j
		}
		return true
	}
	return false
}

func (li *LineItems) Len() int {
	return len(li.lines)
}

func (li *LineItems) Lines() []Line {
	out := make([]Line, len(li.lines))
	copy(out, li.lines)
	return out
}

func (li *LineItems) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(li.lines))
	for i, l := range li.lines {
		out[i] = l.ItemID
	}
	return out
}
