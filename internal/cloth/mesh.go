package cloth

import (
	"iter"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Kind classifies a spring by the lattice offset it spans.
type Kind uint8

const (
	Structural Kind = iota
	Shear
	Bend
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Shear:
		return "shear"
	case Bend:
		return "bend"
	}
	return "unknown"
}

// Spring is a distance constraint between particles A and B, A < B.
type Spring struct {
	A, B       int
	Kind       Kind
	RestLength float64
	broken     bool
}

func (s Spring) Broken() bool { return s.broken }

// neighbours is visited in order for every particle; the full symmetric set
// is listed and halved by index comparison so no pair is added twice.
var neighbours = []struct {
	dr, dc int
	kind   Kind
}{
	{0, 1, Structural}, {0, -1, Structural}, {1, 0, Structural}, {-1, 0, Structural},
	{1, 1, Shear}, {1, -1, Shear}, {-1, 1, Shear}, {-1, -1, Shear},
	{0, 2, Bend}, {0, -2, Bend}, {2, 0, Bend}, {-2, 0, Bend},
}

// Mesh owns the spring set of one grid build. Springs are only ever marked
// broken, never removed.
type Mesh struct {
	springs []Spring
	broken  int
}

// NewMesh enumerates structural, shear and bend springs over g with rest
// lengths taken from g's current positions.
func NewMesh(g *Grid) *Mesh {
	rows, cols := g.Rows(), g.Cols()
	ps := g.Particles()
	m := &Mesh{springs: make([]Spring, 0, len(ps)*6)}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := r*cols + c
			for _, n := range neighbours {
				nr, nc := r+n.dr, c+n.dc
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				b := nr*cols + nc
				if b <= a {
					continue
				}
				rest := ps[b].Pos.Sub(ps[a].Pos).Len()
				if !(rest > 0) {
					continue
				}
				m.springs = append(m.springs, Spring{A: a, B: b, Kind: n.kind, RestLength: rest})
			}
		}
	}
	return m
}

func (m *Mesh) Len() int         { return len(m.springs) }
func (m *Mesh) BrokenCount() int { return m.broken }
func (m *Mesh) IntactCount() int { return len(m.springs) - m.broken }

func (m *Mesh) check(i int) error {
	if i < 0 || i >= len(m.springs) {
		return &dynamo.IndexError{Kind: "spring", Index: i, Len: len(m.springs)}
	}
	return nil
}

func (m *Mesh) Spring(i int) (Spring, error) {
	if err := m.check(i); err != nil {
		return Spring{}, err
	}
	return m.springs[i], nil
}

// Break marks spring i broken. Breaking a broken spring is a no-op.
func (m *Mesh) Break(i int) error {
	if err := m.check(i); err != nil {
		return err
	}
	if !m.springs[i].broken {
		m.springs[i].broken = true
		m.broken++
	}
	return nil
}

// Intact yields intact springs with their index in creation order. Springs
// broken during iteration are skipped from that point on.
func (m *Mesh) Intact() iter.Seq2[int, Spring] {
	return func(yield func(int, Spring) bool) {
		for i := range m.springs {
			if m.springs[i].broken {
				continue
			}
			if !yield(i, m.springs[i]) {
				return
			}
		}
	}
}
