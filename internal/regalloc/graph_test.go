package regalloc

import (
	"rvcc/internal/rvabi"
	"testing"
)

func completeGraph(n int) (*igraph, []int) {
	g := newIGraph()
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.addEdge(i, j)
		}
	}
	return g, keys
}

func TestColorSpillsWhenCliqueExceedsAvailableRegisters(t *testing.T) {
	k := len(rvabi.Allocatable)
	g, keys := completeGraph(k + 1)
	_, spills := color(g, k, keys)
	if len(spills) == 0 {
		t.Fatalf("a %d-clique cannot be colored with only %d registers; expected at least one spill", k+1, k)
	}
}

func TestColorPrefersMoveAffinityOverFirstFreeRegister(t *testing.T) {
	g := newIGraph()
	for _, r := range rvabi.Allocatable {
		g.precolor[regKey(r)] = r
		g.addNode(regKey(r))
	}
	// A single degree-0 vreg whose only relationship to anything else is
	// a Move into a0: color() should assign it a0 directly rather than
	// whatever sorts first in rvabi.Allocatable (t0).
	const vreg = 0
	g.addNode(vreg)
	g.affinity[vreg] = regKey(rvabi.A0)
	g.affinity[regKey(rvabi.A0)] = vreg

	colors, spills := color(g, len(rvabi.Allocatable), []int{vreg})
	if len(spills) != 0 {
		t.Fatalf("expected no spills, got %v", spills)
	}
	if colors[vreg] != rvabi.A0 {
		t.Fatalf("expected affinity to color the vreg a0, got %v", colors[vreg])
	}
}

func TestColorFallsBackWhenAffinityColorIsTaken(t *testing.T) {
	g, keys := completeGraph(2)
	// Force keys[0] and keys[1] to interfere (completeGraph already does
	// this) but also record an affinity between them; since they
	// interfere, color() must not honor the affinity and must still
	// produce distinct colors.
	g.affinity[keys[0]] = keys[1]
	g.affinity[keys[1]] = keys[0]

	colors, spills := color(g, len(rvabi.Allocatable), keys)
	if len(spills) != 0 {
		t.Fatalf("expected no spills, got %v", spills)
	}
	if colors[keys[0]] == colors[keys[1]] {
		t.Fatalf("interfering nodes must not share a color even with an affinity hint")
	}
}

func TestColorAssignsDistinctColorsWhenRegistersSuffice(t *testing.T) {
	k := len(rvabi.Allocatable)
	g, keys := completeGraph(3)
	colors, spills := color(g, k, keys)
	if len(spills) != 0 {
		t.Fatalf("expected no spills for a 3-clique against %d registers, got %v", k, spills)
	}
	seen := map[rvabi.Reg]bool{}
	for _, n := range keys {
		c, ok := colors[n]
		if !ok {
			t.Fatalf("node %d was not assigned a color", n)
		}
		if seen[c] {
			t.Fatalf("color %v reused across mutually-interfering nodes", c)
		}
		seen[c] = true
	}
}
