package integrators

import (
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
)

func benchGrid(b *testing.B, rows, cols int) *cloth.Grid {
	b.Helper()
	g, err := cloth.NewGrid(cloth.Layout{Rows: rows, Cols: cols, Spacing: 15})
	if err != nil {
		b.Fatal(err)
	}
	return g
}

func BenchmarkVerlet_40x25(b *testing.B) {
	g := benchGrid(b, 25, 40)
	integ := NewVerlet(DefaultDamping)
	gravity := dynamo.V(0, 980)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(g, gravity, 1.0/60)
	}
}

func BenchmarkVerlet_128x128(b *testing.B) {
	g := benchGrid(b, 128, 128)
	integ := NewVerlet(DefaultDamping)
	gravity := dynamo.V(0, 980)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(g, gravity, 1.0/60)
	}
}
