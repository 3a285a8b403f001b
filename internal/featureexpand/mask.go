package featureexpand

// BoundaryMask marks entity changes between consecutive rows of a sorted table:
// At(i) is true when row i and row i+1 belong to different entities. The mask is
// built once per expansion and shared read-only by every column worker.
type BoundaryMask struct {
	bits []bool
}

// NewBoundaryMask compares the entity key tuple of each row with the next one.
func NewBoundaryMask(keys ...Column) (BoundaryMask, error) {
	if len(keys) == 0 {
		return BoundaryMask{}, invalidConfigf("at least one entity key column is required")
	}
	rows := keys[0].Len()
	for _, key := range keys[1:] {
		if key.Len() != rows {
			return BoundaryMask{}, lengthMismatchf("entity key %q has %d rows, want %d", key.Name, key.Len(), rows)
		}
	}
	if rows < 2 {
		return BoundaryMask{}, nil
	}

	bits := make([]bool, rows-1)
	for i := range bits {
		for _, key := range keys {
			if !key.equal(i, i+1) {
				bits[i] = true
				break
			}
		}
	}
	return BoundaryMask{bits: bits}, nil
}

// MaskFromBools copies bits into a mask.
func MaskFromBools(bits []bool) BoundaryMask {
	if len(bits) == 0 {
		return BoundaryMask{}
	}
	out := make([]bool, len(bits))
	copy(out, bits)
	return BoundaryMask{bits: out}
}

func (m BoundaryMask) Len() int {
	return len(m.bits)
}

func (m BoundaryMask) At(i int) bool {
	return m.bits[i]
}

// Boundaries counts entity changes, so the number of entities is Boundaries()+1
// for a non-empty table.
func (m BoundaryMask) Boundaries() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}
