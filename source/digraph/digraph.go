package digraph

// We have a digraph given in the form of a map associating each node with the set of nodes it
// points to, e.g. each macro with the macros it invokes. We want to list the nodes so that no
// node X precedes a node Y if there is a route from X to Y, or, if the graph has a cycle, to say
// so and produce the cycle.

// We can do this like this:

// while there are leaf nodes in the graph :
// add all the leaf nodes to the end of the list
// remove the leaf nodes from the graph
// if there are still nodes in the graph :
// they consist of cycles and the things that lead to them, so we extract a cycle
// otherwise :
// return the list

import (
	"github.com/tim-hardcastle/dsh/source/set"
)

type Digraph[E comparable] map[E]set.Set[E]

func (D Digraph[E]) Add(node E, neighbors []E) {
	D[node] = *set.MakeFromSlice(neighbors)
}

// Returns the ordering, and a cycle which is empty if the ordering is valid. The digraph itself
// is left alone.
func Ordering[E comparable](D Digraph[E]) ([]E, []E) {
	C := D.copy()
	result := []E{}
	for leafnodes := C.stripLeafnodes(); len(leafnodes) > 0; leafnodes = C.stripLeafnodes() {
		result = append(result, leafnodes.ToSlice()...)
	}
	return result, extractCycle(C)
}

// Only for Ordering to use. If the digraph is non-empty once the leaf nodes are exhausted then
// every node has an arrow out, so following arrows from anywhere must bring us round in a loop.
func extractCycle[E comparable](D Digraph[E]) []E {
	start, ok := D.getArbitraryNode()
	if !ok {
		return []E{}
	}
	result := []E{start}
	for next, ok := D[start].GetArbitraryElement(); ; next, ok = D[next].GetArbitraryElement() {
		if !ok {
			panic("extractCycle has found a leaf node, this is bad.")
		}
		if i := index(result, next); i != -1 {
			return result[i:]
		}
		result = append(result, next)
	}
}

// The nodes which something points to but which aren't themselves in the digraph, e.g. macros
// which are invoked but haven't been recorded. A leaf node is one with an empty set of neighbors,
// not a missing one.
func (D Digraph[E]) Missing() []E {
	result := set.Set[E]{}
	for _, neighbors := range D {
		for w := range neighbors {
			if _, ok := D[w]; !ok {
				result.Add(w)
			}
		}
	}
	return result.ToSlice()
}

// Removes the leaf nodes and the arrows to them, returning the nodes removed.
func (D Digraph[E]) stripLeafnodes() set.Set[E] {
	result := set.Set[E]{}
	for k, v := range D {
		if v.IsEmpty() {
			result.Add(k)
		}
	}
	for k := range result {
		delete(D, k)
	}
	for _, V := range D {
		for e := range V {
			if _, ok := D[e]; !ok {
				delete(V, e)
			}
		}
	}
	return result
}

// Copies the digraph, leaving out any arrows to missing nodes.
func (D Digraph[E]) copy() Digraph[E] {
	result := Digraph[E]{}
	for k, v := range D {
		neighbors := set.Set[E]{}
		for e := range v {
			if _, ok := D[e]; ok {
				neighbors.Add(e)
			}
		}
		result[k] = neighbors
	}
	return result
}

func (D Digraph[E]) getArbitraryNode() (E, bool) {
	var result E
	var ok bool
	for k := range D {
		result = k
		ok = true
		break
	}
	return result, ok
}

func index[E comparable](slice []E, element E) int {
	for k, v := range slice {
		if v == element {
			return k
		}
	}
	return -1
}

func (D Digraph[E]) PointsTo(candidate, target E) bool {
	return D[candidate].Contains(target)
}
