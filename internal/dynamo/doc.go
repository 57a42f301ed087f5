// Package dynamo provides the primitives shared by every part of the cloth
// simulator.
//
//   - [Vec2]: 2D vector in screen coordinates (+Y points down)
//   - [ErrInvalidIndex], [ErrInvalidConfig], [ErrUnstable]: domain errors
//   - [ParallelFor]: bounded fan-out for independent work items
//
// # Example
//
//	a := dynamo.Vec2{X: 0, Y: 0}
//	b := dynamo.Vec2{X: 3, Y: 4}
//	d := b.Sub(a).Len() // 5
//
// # Thread Safety
//
// Vec2 is a value type. Nothing in this package holds mutable state.
package dynamo
