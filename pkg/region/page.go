package region

import (
	"cmp"
	"slices"

	"github.com/tidwall/rtree"
)

// Page owns the regions of one physical page.
// A Page is not safe for concurrent mutation.
type Page struct {
	box     BoundingBox
	dpi     int
	nextID  uint64
	regions map[uint64]*Region
	index   map[Type]*rtree.RTreeG[*Region]
}

// NewPage creates an empty page covering box, scanned at dpi.
func NewPage(box BoundingBox, dpi int) *Page {
	return &Page{
		box:     box,
		dpi:     dpi,
		regions: make(map[uint64]*Region),
		index:   make(map[Type]*rtree.RTreeG[*Region]),
	}
}

// Box returns the page bounding box.
func (p *Page) Box() BoundingBox { return p.box }

// DPI returns the resolution the page was scanned at.
func (p *Page) DPI() int { return p.dpi }

// Len returns the number of regions on the page.
func (p *Page) Len() int { return len(p.regions) }

// Create adds a new region of typ at box and returns it.
func (p *Page) Create(typ Type, box BoundingBox) *Region {
	r := p.newRegion(typ, box)
	p.attach(r)
	return r
}

// Remove deletes r from the page. It reports whether r was present.
func (p *Page) Remove(r *Region) bool {
	if r == nil || r.page != p || !r.attached {
		return false
	}
	lo, hi := r.box.rect()
	p.index[r.typ].Delete(lo, hi, r)
	delete(p.regions, r.id)
	r.attached = false
	return true
}

// Contains reports whether r is currently part of the page.
func (p *Page) Contains(r *Region) bool {
	return r != nil && r.page == p && r.attached
}

// Within returns the regions of typ lying inside box, ordered top to bottom
// and then left to right.
func (p *Page) Within(typ Type, box BoundingBox) []*Region {
	tr, ok := p.index[typ]
	if !ok {
		return nil
	}
	var out []*Region
	lo, hi := box.rect()
	tr.Search(lo, hi, func(_, _ [2]float64, r *Region) bool {
		if box.Contains(r.box) {
			out = append(out, r)
		}
		return true
	})
	sortRegions(out)
	return out
}

// Enclosing returns the regions of typ whose box contains box, smallest first.
func (p *Page) Enclosing(typ Type, box BoundingBox) []*Region {
	tr, ok := p.index[typ]
	if !ok {
		return nil
	}
	var out []*Region
	lo, hi := box.rect()
	tr.Search(lo, hi, func(_, _ [2]float64, r *Region) bool {
		if r.box.Contains(box) {
			out = append(out, r)
		}
		return true
	})
	slices.SortFunc(out, func(a, b *Region) int {
		return cmp.Or(
			cmp.Compare(a.box.Width()*a.box.Height(), b.box.Width()*b.box.Height()),
			cmp.Compare(a.id, b.id),
		)
	})
	return out
}

// Owner returns the first region of typ, in reading order, whose box contains
// box. Overlapping regions thereby partition the regions they contain.
func (p *Page) Owner(typ Type, box BoundingBox) (*Region, bool) {
	candidates := p.Enclosing(typ, box)
	if len(candidates) == 0 {
		return nil, false
	}
	return slices.MinFunc(candidates, readingOrder), true
}

// Words returns the words lying inside box.
func (p *Page) Words(box BoundingBox) []*Region {
	return p.Within(TypeWord, box)
}

// All returns every region of typ on the page in reading order.
func (p *Page) All(typ Type) []*Region {
	tr, ok := p.index[typ]
	if !ok {
		return nil
	}
	out := make([]*Region, 0, tr.Len())
	tr.Scan(func(_, _ [2]float64, r *Region) bool {
		out = append(out, r)
		return true
	})
	sortRegions(out)
	return out
}

// Batch starts a set of changes that are applied together by Commit.
func (p *Page) Batch() *Batch {
	return &Batch{page: p}
}

func (p *Page) newRegion(typ Type, box BoundingBox) *Region {
	p.nextID++
	return &Region{id: p.nextID, page: p, typ: typ, box: box}
}

func (p *Page) attach(r *Region) {
	tr, ok := p.index[r.typ]
	if !ok {
		tr = &rtree.RTreeG[*Region]{}
		p.index[r.typ] = tr
	}
	lo, hi := r.box.rect()
	tr.Insert(lo, hi, r)
	p.regions[r.id] = r
	r.attached = true
}

func readingOrder(a, b *Region) int {
	return cmp.Or(
		cmp.Compare(a.box.Top, b.box.Top),
		cmp.Compare(a.box.Left, b.box.Left),
		cmp.Compare(a.id, b.id),
	)
}

func sortRegions(regions []*Region) {
	slices.SortFunc(regions, readingOrder)
}

// Batch collects removals and creations against a page so that a new
// partition can be computed from a stable snapshot and applied at once.
type Batch struct {
	page      *Page
	removals  []*Region
	creations []*Region
}

// Create prepares a region that becomes part of the page on Commit.
// Attributes may be set on it before then.
func (b *Batch) Create(typ Type, box BoundingBox) *Region {
	r := b.page.newRegion(typ, box)
	b.creations = append(b.creations, r)
	return r
}

// Remove schedules r for removal on Commit.
func (b *Batch) Remove(r *Region) {
	b.removals = append(b.removals, r)
}

// Replace schedules old for removal and prepares a region of the same type at
// box carrying a copy of old's attributes.
func (b *Batch) Replace(old *Region, box BoundingBox) *Region {
	b.Remove(old)
	r := b.Create(old.typ, box)
	r.CopyAttributes(old)
	return r
}

// Empty reports whether the batch holds no changes.
func (b *Batch) Empty() bool {
	return len(b.removals) == 0 && len(b.creations) == 0
}

// Commit applies removals first and then creations.
func (b *Batch) Commit() {
	for _, r := range b.removals {
		b.page.Remove(r)
	}
	for _, r := range b.creations {
		b.page.attach(r)
	}
	b.removals, b.creations = nil, nil
}
