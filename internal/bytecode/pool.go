package bytecode

// Pool is an append-only constant pool. Equal values share one slot and slots
// are numbered in first-occurrence order. Values are int64, float64, string,
// bool or nil; Go equality decides sharing, so 1 and 1.0 are distinct.
type Pool struct {
	index  map[any]int
	values []any
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{index: make(map[any]int)}
}

// Add interns v and returns its slot.
func (p *Pool) Add(v any) int {
	if idx, ok := p.index[v]; ok {
		return idx
	}
	idx := len(p.values)
	p.index[v] = idx
	p.values = append(p.values, v)
	return idx
}

// Len returns the number of distinct constants.
func (p *Pool) Len() int {
	return len(p.values)
}

// Get returns the constant at slot idx.
func (p *Pool) Get(idx int) (any, bool) {
	if idx < 0 || idx >= len(p.values) {
		return nil, false
	}
	return p.values[idx], true
}

// Values returns a copy of the constants in slot order.
func (p *Pool) Values() []any {
	out := make([]any, len(p.values))
	copy(out, p.values)
	return out
}
