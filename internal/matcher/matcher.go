// Package matcher assigns grid stacks to ingredient predicates.
//
// A shapeless recipe matches when every non-empty stack can be paired with
// a distinct predicate it satisfies and no predicate is left over. That is
// a perfect bipartite matching; FindMatches computes it with augmenting
// paths (Kuhn's algorithm), which is O(V·E) and plenty for grids of up to
// 81 slots.
package matcher

// Predicate tests a single input.
type Predicate[T any] interface {
	Test(T) bool
}

// FindMatches returns an assignment pairing each input with a distinct
// predicate, or nil when no perfect matching exists.
//
// The result has one entry per input: result[i] is the index of the
// predicate matched to inputs[i]. When the slices differ in length the
// result is always nil. Two empty slices match trivially.
func FindMatches[T any, P Predicate[T]](inputs []T, predicates []P) []int {
	if len(inputs) != len(predicates) {
		return nil
	}

	// adj[i] lists the predicates inputs[i] satisfies.
	adj := make([][]int, len(inputs))
	for i, in := range inputs {
		for j, p := range predicates {
			if p.Test(in) {
				adj[i] = append(adj[i], j)
			}
		}
		// An input no predicate accepts can never be placed.
		if len(adj[i]) == 0 {
			return nil
		}
	}

	// owner[j] is the input currently holding predicate j, or -1.
	owner := make([]int, len(predicates))
	for j := range owner {
		owner[j] = -1
	}

	visited := make([]bool, len(predicates))
	var augment func(i int) bool
	augment = func(i int) bool {
		for _, j := range adj[i] {
			if visited[j] {
				continue
			}
			visited[j] = true
			if owner[j] < 0 || augment(owner[j]) {
				owner[j] = i
				return true
			}
		}
		return false
	}

	for i := range inputs {
		clear(visited)
		if !augment(i) {
			return nil
		}
	}

	assignment := make([]int, len(inputs))
	for j, i := range owner {
		assignment[i] = j
	}
	return assignment
}

// Matches reports whether a perfect matching exists.
func Matches[T any, P Predicate[T]](inputs []T, predicates []P) bool {
	return FindMatches(inputs, predicates) != nil
}
