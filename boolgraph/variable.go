package boolgraph

// Variable is a leaf node representing a basic event of the fault tree.
// Its identity is immutable once created: a Variable never changes Name
// or Index for the lifetime of the graph.
type Variable struct {
	nodeBase
	Name string
}

var _ Node = (*Variable)(nil)
