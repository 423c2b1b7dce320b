package manseg

import "github.com/hupe1980/manseg/segment"

// numericCell is the conversion surface shared by both accessor kinds.
// Compound arithmetic is defined once over this interface instead of
// per operator and per accessor.
type numericCell interface {
	load() (float64, error)
	store(float64) error
}

// compound reads the current value, applies op in full double
// precision, writes the result back through the cell's own store (so a
// Head cell truncates the stored result) and returns the computed,
// untruncated value.
func compound(c numericCell, rhs float64, op func(a, b float64) float64) (float64, error) {
	d, err := c.load()
	if err != nil {
		return 0, err
	}
	r := op(d, rhs)
	if err := c.store(r); err != nil {
		return 0, err
	}
	return r, nil
}

// Head is an accessor bound to the head cell of one element. It reads
// and writes reduced-precision values; the element's tail cell is
// never touched.
type Head struct {
	buf *buffer
	idx int
}

func (h Head) load() (float64, error) { return h.Float64() }
func (h Head) store(v float64) error  { return h.Set(v) }

// Index returns the element index this accessor is bound to.
func (h Head) Index() int { return h.idx }

// Float64 decodes the head cell with an implicit zero tail.
func (h Head) Float64() (float64, error) {
	if err := h.buf.check(h.idx); err != nil {
		return 0, err
	}
	return segment.DecodeHead(h.buf.heads[h.idx]), nil
}

// Set encodes v and overwrites only the head cell.
func (h Head) Set(v float64) error {
	if err := h.buf.check(h.idx); err != nil {
		return err
	}
	h.buf.heads[h.idx] = segment.EncodeHead(v)
	return nil
}

// Add computes current+rhs in full precision, stores the result at
// head precision and returns the untruncated sum.
func (h Head) Add(rhs float64) (float64, error) {
	return compound(h, rhs, func(a, b float64) float64 { return a + b })
}

// Sub computes current-rhs, stores at head precision, returns the
// untruncated difference.
func (h Head) Sub(rhs float64) (float64, error) {
	return compound(h, rhs, func(a, b float64) float64 { return a - b })
}

// Mul computes current*rhs, stores at head precision, returns the
// untruncated product.
func (h Head) Mul(rhs float64) (float64, error) {
	return compound(h, rhs, func(a, b float64) float64 { return a * b })
}

// Div computes current/rhs, stores at head precision, returns the
// untruncated quotient.
func (h Head) Div(rhs float64) (float64, error) {
	return compound(h, rhs, func(a, b float64) float64 { return a / b })
}

// Pair is an accessor bound to both cells of one element. Every read
// reconstructs the full double; every write decomposes it into both
// segments.
type Pair struct {
	buf *buffer
	idx int
}

func (p Pair) load() (float64, error) { return p.Float64() }
func (p Pair) store(v float64) error  { return p.Set(v) }

// Index returns the element index this accessor is bound to.
func (p Pair) Index() int { return p.idx }

// Float64 decodes both cells into the stored double.
func (p Pair) Float64() (float64, error) {
	if err := p.buf.check(p.idx); err != nil {
		return 0, err
	}
	return segment.DecodeFull(p.buf.heads[p.idx], p.buf.tails[p.idx]), nil
}

// Set encodes v and writes both cells.
func (p Pair) Set(v float64) error {
	if err := p.buf.check(p.idx); err != nil {
		return err
	}
	head, tail := segment.EncodeFull(v)
	p.buf.heads[p.idx] = head
	p.buf.tails[p.idx] = tail
	return nil
}

// CopyFromHead escalates a single element: the source head cell is
// copied as-is and the destination tail is zeroed, so the pair decodes
// to exactly the reduced-precision value the Head held.
func (p Pair) CopyFromHead(h Head) error {
	if err := h.buf.check(h.idx); err != nil {
		return err
	}
	if err := p.buf.check(p.idx); err != nil {
		return err
	}
	p.buf.heads[p.idx] = h.buf.heads[h.idx]
	p.buf.tails[p.idx] = 0
	return nil
}

// Add computes current+rhs and stores the result at full precision.
func (p Pair) Add(rhs float64) (float64, error) {
	return compound(p, rhs, func(a, b float64) float64 { return a + b })
}

// Sub computes current-rhs and stores the result at full precision.
func (p Pair) Sub(rhs float64) (float64, error) {
	return compound(p, rhs, func(a, b float64) float64 { return a - b })
}

// Mul computes current*rhs and stores the result at full precision.
func (p Pair) Mul(rhs float64) (float64, error) {
	return compound(p, rhs, func(a, b float64) float64 { return a * b })
}

// Div computes current/rhs and stores the result at full precision.
func (p Pair) Div(rhs float64) (float64, error) {
	return compound(p, rhs, func(a, b float64) float64 { return a / b })
}
