// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citegraph

import "math"

const (
	// Damping is the random-surfer damping factor.
	Damping = 0.85

	// DefaultTolerance is the L1 convergence threshold.
	DefaultTolerance = 1e-6

	// DefaultMaxIterations bounds the fixed-point iteration. On
	// non-convergence the best available iterate is returned;
	// importance is an input signal, not a correctness-critical value.
	DefaultMaxIterations = 100
)

// Scores maps normalized titles to importance scores. Scores over all
// graph nodes sum to 1; titles outside the graph score 0.
type Scores map[string]float64

// Of returns the score for a normalized title, defaulting to 0 for
// titles absent from the graph.
func (s Scores) Of(title string) float64 {
	return s[title]
}

// PageRank computes the stationary-distribution weight of every node
// using the standard power iteration with uniform teleport. Mass from
// dangling nodes (no outgoing edges) is redistributed uniformly, so the
// scores remain stochastic at every iterate.
func PageRank(g *Graph, tolerance float64, maxIterations int) Scores {
	n := g.Len()
	if n == 0 {
		return Scores{}
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	nodes := g.Nodes()
	rank := make(Scores, n)
	uniform := 1.0 / float64(n)
	for _, node := range nodes {
		rank[node] = uniform
	}

	for iter := 0; iter < maxIterations; iter++ {
		next := make(Scores, n)
		teleport := (1 - Damping) / float64(n)

		// Mass held by dangling nodes spreads uniformly.
		var danglingMass float64
		for _, node := range nodes {
			if g.OutDegree(node) == 0 {
				danglingMass += rank[node]
			}
		}
		base := teleport + Damping*danglingMass/float64(n)

		for _, node := range nodes {
			next[node] = base
		}
		for _, node := range nodes {
			deg := g.OutDegree(node)
			if deg == 0 {
				continue
			}
			share := Damping * rank[node] / float64(deg)
			for _, target := range g.Successors(node) {
				next[target] += share
			}
		}

		var delta float64
		for _, node := range nodes {
			delta += math.Abs(next[node] - rank[node])
		}
		rank = next
		if delta < tolerance {
			break
		}
	}

	return rank
}
