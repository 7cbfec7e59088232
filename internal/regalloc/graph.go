package regalloc

import (
	"rvcc/internal/lir"
	"rvcc/internal/rvabi"
)

// igraph is the interference graph: keys from regalloc.key (virtual
// vregs non-negative, precolored registers negative), undirected edges.
type igraph struct {
	adj      map[int]map[int]bool
	precolor map[int]rvabi.Reg // key -> fixed color, for precolored nodes
	affinity map[int]int       // key -> key of its Move partner, if any
}

func newIGraph() *igraph {
	return &igraph{adj: map[int]map[int]bool{}, precolor: map[int]rvabi.Reg{}, affinity: map[int]int{}}
}

func (g *igraph) addNode(k int) {
	if g.adj[k] == nil {
		g.adj[k] = map[int]bool{}
	}
}

func (g *igraph) addEdge(a, b int) {
	if a == b {
		return
	}
	g.addNode(a)
	g.addNode(b)
	g.adj[a][b] = true
	g.adj[b][a] = true
}

// buildInterference adds an edge between every pair of variables
// simultaneously live, using the live-out-of-instruction sets computed
// by analyzeLiveness, plus a call-clobber edge from every live-across
// value to every caller-saved physical register at each OpCall (§4.6).
//
// A Move's own source is exempted from the edge its destination would
// otherwise get against everything live after it (§4.7's "Mv-source
// special case"): src and dst hold the same value at that point, so
// forcing them into different colors would rule out the one coloring
// where the move is trivially coalescable. The pair is also recorded as
// an affinity so color() actually picks that coalesced color when it's
// free, instead of merely leaving it legal.
func buildInterference(f *lir.Func, lv *liveness) *igraph {
	g := newIGraph()
	for _, r := range rvabi.Allocatable {
		g.precolor[regKey(r)] = r
		g.addNode(regKey(r))
	}

	for i, in := range f.Insns {
		out := lv.outAtInsn[i]
		dk, hasDef, _ := defUse(in)
		moveSrc, isMove := -1, in.Op == lir.OpMove
		if isMove {
			moveSrc = key(in.Src1)
		}
		if hasDef {
			g.addNode(dk)
			for o := range out {
				if o == dk {
					continue
				}
				if isMove && o == moveSrc {
					continue
				}
				g.addEdge(dk, o)
			}
			if isMove {
				g.addNode(moveSrc)
				g.affinity[dk] = moveSrc
				g.affinity[moveSrc] = dk
			}
		}
		for o := range out {
			g.addNode(o)
		}
		if in.Op == lir.OpCall {
			for o := range out {
				for _, cs := range rvabi.CallerSaved {
					g.addEdge(o, regKey(cs))
				}
			}
		}
	}
	return g
}

// color runs the simplify/select phases of Chaitin-Briggs graph
// coloring: repeatedly remove a node of degree < k (optimistically
// removing a high-degree node when none exists), then assign colors in
// reverse removal order, recording any node that finds no free color
// as a spill candidate for internal/spill to handle. When a node has a
// recorded Move affinity whose partner already holds a color (fixed,
// for a precolored partner, or previously assigned) that isn't ruled
// out by an interference edge, that color is preferred over the next
// free one, so the Move coalesces away instead of just staying legal.
func color(g *igraph, k int, virtualKeys []int) (colors map[int]rvabi.Reg, spills []int) {
	remaining := map[int]bool{}
	for _, vk := range virtualKeys {
		remaining[vk] = true
	}
	degree := func(n int) int {
		d := 0
		for m := range g.adj[n] {
			if remaining[m] || isPrecoloredKey(g, m) {
				d++
			}
		}
		return d
	}

	var stack []int
	for len(remaining) > 0 {
		picked := -1
		for n := range remaining {
			if degree(n) < k {
				picked = n
				break
			}
		}
		if picked == -1 {
			// Optimistic spill: pick the highest-degree remaining node so
			// the simplify phase can keep making progress; select() below
			// may still find it a color if its neighbors don't use every
			// color in practice.
			best, bestDeg := -1, -1
			for n := range remaining {
				if d := degree(n); d > bestDeg {
					best, bestDeg = n, d
				}
			}
			picked = best
		}
		stack = append(stack, picked)
		delete(remaining, picked)
	}

	colors = map[int]rvabi.Reg{}
	for i := len(stack) - 1; i >= 0; i-- {
		n := stack[i]
		used := map[rvabi.Reg]bool{}
		for m := range g.adj[n] {
			if c, ok := g.precolor[m]; ok {
				used[c] = true
				continue
			}
			if c, ok := colors[m]; ok {
				used[c] = true
			}
		}
		assigned := false
		if partner, ok := g.affinity[n]; ok {
			var pc rvabi.Reg
			var pok bool
			if c, ok := g.precolor[partner]; ok {
				pc, pok = c, true
			} else if c, ok := colors[partner]; ok {
				pc, pok = c, true
			}
			if pok && !used[pc] {
				colors[n] = pc
				assigned = true
			}
		}
		if !assigned {
			for _, r := range rvabi.Allocatable {
				if !used[r] {
					colors[n] = r
					assigned = true
					break
				}
			}
		}
		if !assigned {
			spills = append(spills, n)
		}
	}
	return colors, spills
}

func isPrecoloredKey(g *igraph, k int) bool {
	_, ok := g.precolor[k]
	return ok
}
