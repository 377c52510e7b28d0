package shoukan

// Side names one of the two player rows of the arena.
type Side int

const (
	TopSide Side = iota
	BottomSide
)

func (s Side) Other() Side {
	if s == TopSide {
		return BottomSide
	}
	return TopSide
}

func (s Side) String() string {
	if s == TopSide {
		return "TOP"
	}
	return "BOTTOM"
}

// Lanes is the number of slot columns per side.
const Lanes = 5

// SlotColumn is one lane: an optional top (combat) card and an optional
// bottom (support) card.
type SlotColumn struct {
	top    *Senshi
	bottom *Senshi
}

func (sc *SlotColumn) HasTop() bool        { return sc.top != nil }
func (sc *SlotColumn) HasBottom() bool     { return sc.bottom != nil }
func (sc *SlotColumn) Top() *Senshi        { return sc.top }
func (sc *SlotColumn) Bottom() *Senshi     { return sc.bottom }
func (sc *SlotColumn) SetTop(s *Senshi)    { sc.top = s }
func (sc *SlotColumn) SetBottom(s *Senshi) { sc.bottom = s }

// Arena is the shared board: Lanes slot columns per side.
type Arena struct {
	slots [2][Lanes]*SlotColumn
}

func NewArena() *Arena {
	a := &Arena{}
	for side := range a.slots {
		for lane := range a.slots[side] {
			a.slots[side][lane] = &SlotColumn{}
		}
	}
	return a
}

// Slots returns the ordered lane columns for a side.
func (a *Arena) Slots(side Side) []*SlotColumn {
	return a.slots[side][:]
}

// Slot returns the 1-based lane column, nil when out of range.
func (a *Arena) Slot(side Side, lane int) *SlotColumn {
	if lane < 1 || lane > Lanes {
		return nil
	}
	return a.slots[side][lane-1]
}

// IsFieldEmpty reports whether a side's top row holds no combat card. Direct
// attacks and attacks on supporting cards require the defending top row to be
// entirely empty.
func (a *Arena) IsFieldEmpty(side Side) bool {
	for _, sc := range a.slots[side] {
		if sc.HasTop() {
			return false
		}
	}
	return true
}

// RestoreAvailability rearms every board card on a side at turn begin so it
// may act again.
func (a *Arena) RestoreAvailability(side Side) {
	for _, sc := range a.slots[side] {
		if sc.HasTop() {
			sc.Top().SetAvailable(true)
		}
		if sc.HasBottom() {
			sc.Bottom().SetAvailable(true)
		}
	}
}
