// SPDX-License-Identifier: MIT

package flow_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/shelterflow/flow"
)

////////////////////////////////////////////////////////////////////////////////
// MaxFlow Examples
////////////////////////////////////////////////////////////////////////////////

// ExampleNetwork_MaxFlow shows max flow on a two-path network.
// Graph:
//
//	s→a(3)→t(2)
//	s→b(2)→t(3)
func ExampleNetwork_MaxFlow() {
	nw := flow.NewNetwork(4) // s=0 a=1 b=2 t=3
	_, _ = nw.AddArc(0, 1, 3, 0)
	_, _ = nw.AddArc(1, 3, 2, 0)
	_, _ = nw.AddArc(0, 2, 2, 0)
	_, _ = nw.AddArc(2, 3, 3, 0)

	mf, _ := nw.MaxFlow(context.Background(), 0, 3, flow.DefaultOptions())
	fmt.Println(mf)
	// Output:
	// 4
}

////////////////////////////////////////////////////////////////////////////////
// Cycle Cancelling Examples
////////////////////////////////////////////////////////////////////////////////

// ExampleNetwork_CancelNegativeCycles rewires a maximum flow onto cheaper
// arcs while keeping its value.
// Graph (costs in brackets, all capacities 1):
//
//	s→a, s→b
//	a→y[10] a→x[1] b→x[10] b→y[1]
//	x→t, y→t
func ExampleNetwork_CancelNegativeCycles() {
	nw := flow.NewNetwork(6) // s=0 a=1 b=2 x=3 y=4 t=5
	_, _ = nw.AddArc(0, 1, 1, 0)
	_, _ = nw.AddArc(0, 2, 1, 0)
	_, _ = nw.AddArc(1, 4, 1, 10) // listed first, so augmented first
	_, _ = nw.AddArc(1, 3, 1, 1)
	_, _ = nw.AddArc(2, 3, 1, 10)
	_, _ = nw.AddArc(2, 4, 1, 1)
	_, _ = nw.AddArc(3, 5, 1, 0)
	_, _ = nw.AddArc(4, 5, 1, 0)

	mf, _ := nw.MaxFlow(context.Background(), 0, 5, flow.DefaultOptions())
	fmt.Println(mf, nw.Cost())

	_, _ = nw.CancelNegativeCycles(context.Background(), flow.DefaultOptions())
	fmt.Println(nw.Outflow(0), nw.Cost())
	// Output:
	// 2 20
	// 2 2
}
