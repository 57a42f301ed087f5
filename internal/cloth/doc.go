// Package cloth holds the mesh data of the simulator: the particle lattice
// ([Grid]) and the spring topology built over it ([Mesh]).
//
// The mesh is an index graph. Springs refer to particles by their row-major
// index and never hold pointers, and breaking a spring flips a flag instead
// of removing it, so particle and spring indices stay stable for the whole
// life of a build.
//
//	g, err := cloth.NewGrid(cloth.Layout{Rows: 10, Cols: 10, Spacing: 20})
//	if err != nil {
//	    return err
//	}
//	m := cloth.NewMesh(g)
//	for i, s := range m.Intact() {
//	    fmt.Println(i, s.Kind, s.RestLength)
//	}
package cloth
