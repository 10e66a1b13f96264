package merge

// Pad holds literal byte sequences inserted around files. Each position is
// gated independently; a nil field is unset.
type Pad struct {
	Before  []byte // once, ahead of the first file
	Between []byte // after every file but the last
	After   []byte // once, after the last file
}

// PadBefore pads only ahead of the first file.
func PadBefore(b []byte) Pad { return Pad{Before: b} }

// PadAfter pads only after the last file.
func PadAfter(b []byte) Pad { return Pad{After: b} }

// PadBetween pads between consecutive files.
func PadBetween(b []byte) Pad { return Pad{Between: b} }

// PadCustom combines the three positions; pass nil to leave one unset.
func PadCustom(before, between, after []byte) Pad {
	return Pad{Before: before, Between: between, After: after}
}

// IsZero reports whether no padding is configured.
func (p Pad) IsZero() bool {
	return p.Before == nil && p.Between == nil && p.After == nil
}

// BeforeFor returns the bytes to emit ahead of slot's content, or nil.
func (p Pad) BeforeFor(slot FileSlot) []byte {
	if p.Before != nil && slot.First {
		return p.Before
	}
	return nil
}

// AfterFor returns the bytes to emit after slot's content, or nil.
// The last file gets After and never Between, even when both are set, so a
// single file padded with all three reads Before+content+After.
func (p Pad) AfterFor(slot FileSlot) []byte {
	if slot.Last {
		return p.After
	}
	return p.Between
}
