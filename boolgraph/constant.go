package boolgraph

// Constant is a leaf node carrying a fixed boolean value. Constants are
// populated only while a graph is being built from its source fault
// tree; Phase I of the preprocessor eliminates every one of them, and
// none may remain reachable once preprocessing finishes.
type Constant struct {
	nodeBase
	Value bool
}

var _ Node = (*Constant)(nil)
