package boolgraph

// Node is any member of a BooleanGraph: a Gate, a Variable, or a
// Constant. Every node has a unique positive index and a weak
// (non-owning) map of the gates that currently list it as an argument.
//
// Implementations never hold a strong reference back to their parents:
// Parents is purely an index for traversal and for locating a node's
// referrers when a rewrite needs to rewire them. A node becomes
// collectable by Go's GC once its last parent erases the corresponding
// edge, exactly as if the back-reference were a true weak pointer.
type Node interface {
	// Index returns the node's unique positive identity.
	Index() int
	// Parents returns the set of gates that currently hold this node as
	// an argument, keyed by the parent gate's own Index.
	Parents() map[int]*Gate

	// EnterTime/ExitTime are the DFS enter/exit timings used by module
	// detection. LastVisit is a generic per-traversal visited mark;
	// OptiValue is the scratch field the optimization and decomposition
	// rewriters stamp failure/constant status into. PosCount/NegCount
	// track signed-occurrence counts for common-argument merging.
	EnterTime() int
	SetEnterTime(int)
	ExitTime() int
	SetExitTime(int)
	LastVisit() int
	SetLastVisit(int)
	OptiValue() int
	SetOptiValue(int)
	PosCount() int
	SetPosCount(int)
	NegCount() int
	SetNegCount(int)

	addParent(g *Gate)
	removeParent(parentIndex int)
	base() *nodeBase
}

// nodeBase holds the fields common to every Node: identity, the weak
// parent index, and the traversal scratchpad (enter/exit DFS timings,
// last-visit marks, opti-values, occurrence counters) that rewriters
// reuse across passes. Re-entrant traversals are responsible for
// clearing the fields they read; nothing here enforces that on its own.
type nodeBase struct {
	idx     int
	parents map[int]*Gate

	enterTime int
	exitTime  int
	lastVisit int
	optiValue int
	posCount  int
	negCount  int
}

func (n *nodeBase) Index() int { return n.idx }

func (n *nodeBase) Parents() map[int]*Gate { return n.parents }

func (n *nodeBase) addParent(g *Gate) {
	if n.parents == nil {
		n.parents = make(map[int]*Gate)
	}
	n.parents[g.idx] = g
}

func (n *nodeBase) removeParent(parentIndex int) {
	delete(n.parents, parentIndex)
}

func (n *nodeBase) base() *nodeBase { return n }

func (n *nodeBase) EnterTime() int     { return n.enterTime }
func (n *nodeBase) SetEnterTime(t int) { n.enterTime = t }
func (n *nodeBase) ExitTime() int      { return n.exitTime }
func (n *nodeBase) SetExitTime(t int)  { n.exitTime = t }
func (n *nodeBase) LastVisit() int     { return n.lastVisit }
func (n *nodeBase) SetLastVisit(v int) { n.lastVisit = v }
func (n *nodeBase) OptiValue() int     { return n.optiValue }
func (n *nodeBase) SetOptiValue(v int) { n.optiValue = v }
func (n *nodeBase) PosCount() int      { return n.posCount }
func (n *nodeBase) SetPosCount(v int)  { n.posCount = v }
func (n *nodeBase) NegCount() int      { return n.negCount }
func (n *nodeBase) SetNegCount(v int)  { n.negCount = v }

// collectable reports whether a node has no remaining parents, i.e. it is
// unreachable from any surviving gate and safe to drop from worklists.
// The root gate is never collectable through this check; callers must
// special-case it, since BooleanGraph.Root is the one strong reference
// into the graph.
func (n *nodeBase) collectable() bool {
	return len(n.parents) == 0
}

// Polarity reports the sign of a signed child reference: true for a
// positive (non-negated) edge, false for a negated one.
func Polarity(signed int) bool {
	return signed > 0
}

// AbsIndex returns the magnitude of a signed child reference, i.e. the
// referenced node's Index.
func AbsIndex(signed int) int {
	if signed < 0 {
		return -signed
	}
	return signed
}

// signedOf returns the signed reference to node under the given polarity.
func signedOf(node Node, positive bool) int {
	if positive {
		return node.Index()
	}
	return -node.Index()
}

// flip returns the signed reference with the opposite polarity.
func flip(signed int) int {
	return -signed
}
