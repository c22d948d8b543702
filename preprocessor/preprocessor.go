package preprocessor

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/scram-project/scram/boolgraph"
)

// Preprocessor wraps a BooleanGraph with the traversal bookkeeping the
// rewriters share across phases, and drives the fixed phase sequence
// described in ProcessFaultTree.
type Preprocessor struct {
	graph  *boolgraph.BooleanGraph
	logger *slog.Logger

	// visitGen is bumped at the start of every fresh traversal; a node's
	// LastVisit/Mark equalling visitGen means "seen this traversal".
	// This sidesteps an O(n) clear between passes: a generation counter
	// is cheaper than a per-traversal side map keyed by index, since the
	// traversal fields already live on the node.
	visitGen int

	// terminalVariable is set when checkRootGate collapses the whole
	// graph to a single signed variable.
	terminalVariable *boolgraph.Variable
}

// Option configures a Preprocessor at construction time.
type Option func(*Preprocessor)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preprocessor) { p.logger = logger }
}

// New returns a Preprocessor ready to run ProcessFaultTree on graph.
func New(graph *boolgraph.BooleanGraph, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		graph:  graph,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TerminalVariable returns the single variable the graph collapsed to,
// if ProcessFaultTree ended that way.
func (p *Preprocessor) TerminalVariable() (*boolgraph.Variable, bool) {
	return p.terminalVariable, p.terminalVariable != nil
}

// Graph returns the underlying graph, for callers that want to read the
// result after ProcessFaultTree returns.
func (p *Preprocessor) Graph() *boolgraph.BooleanGraph { return p.graph }

func (p *Preprocessor) nextGen() int {
	p.visitGen++
	return p.visitGen
}

// assertf panics with a LogicError when cond is false: a broken
// invariant under this package's contract is a programming error, never
// a retryable condition.
func (p *Preprocessor) assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(boolgraph.LogicErrorf(format, args...))
	}
}

// ProcessFaultTree runs the fixed phase sequence to completion: Phase I
// (constant and null-gate removal, plus negation normalization of a
// non-coherent graph); Phase II (multiple-definition merging, module
// detection, common-argument merging, Boolean optimization, Shannon
// decomposition, distributivity, gate coalescing); Phase III (full
// normalization, when the graph is not Normal) and Phase IV (complement
// propagation, when it is not Coherent), each followed by Phase II
// again; and Phase V (layered gate coalescing), checking the root for
// degeneracy after every phase.
func (p *Preprocessor) ProcessFaultTree() (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case error:
				err = errors.WithStack(e)
			default:
				err = errors.Errorf("preprocessor: panic: %v", r)
			}
		}
	}()

	p.assertf(p.graph.Root != nil, "ProcessFaultTree: graph has no root")
	p.assertf(len(p.graph.Root.Parents()) == 0, "ProcessFaultTree: root must have no parents")
	p.assertf(p.graph.ConstGatesPending() == 0, "ProcessFaultTree: const-gate worklist must be empty on entry")
	p.assertf(p.graph.NullGatesPending() == 0, "ProcessFaultTree: null-gate worklist must be empty on entry")

	p.logger.Debug("preprocessor: starting", "build_id", p.graph.BuildID.String())

	if err := p.phaseI(); err != nil {
		return err
	}
	if p.checkRootGate() {
		return p.finish()
	}

	if err := p.phaseII(); err != nil {
		return err
	}
	if p.checkRootGate() {
		return p.finish()
	}

	if !p.graph.Normal {
		p.logger.Debug("preprocessor: phase III (full normalization)")
		if err := p.normalizeFull(); err != nil {
			return err
		}
		p.graph.Normal = true
		if p.checkRootGate() {
			return p.finish()
		}
		if err := p.phaseII(); err != nil {
			return err
		}
		if p.checkRootGate() {
			return p.finish()
		}
	}

	if !p.graph.Coherent {
		p.logger.Debug("preprocessor: phase IV (complement propagation)")
		if err := p.propagateComplements(); err != nil {
			return err
		}
		if p.checkRootGate() {
			return p.finish()
		}
		if err := p.phaseII(); err != nil {
			return err
		}
		if p.checkRootGate() {
			return p.finish()
		}
	}

	p.logger.Debug("preprocessor: phase V (layered coalescing)")
	if err := p.coalesceFixedPoint(true); err != nil {
		return err
	}
	if p.checkRootGate() {
		return p.finish()
	}
	if err := p.phaseII(); err != nil {
		return err
	}
	if p.checkRootGate() {
		return p.finish()
	}
	// A second layered coalescing pass rarely finds anything the first
	// one missed, but it is cheap once the graph is this settled and
	// occasionally catches a gate the merge/distribute passes just
	// created.
	if err := p.coalesceFixedPoint(true); err != nil {
		return err
	}
	p.checkRootGate()

	return p.finish()
}

func (p *Preprocessor) finish() error {
	if p.terminalVariable == nil {
		p.graph.Normal = true
		p.validateNormalForm()
	}
	p.logger.Debug("preprocessor: done",
		"build_id", p.graph.BuildID.String(),
		"terminal_variable", p.terminalVariable != nil)
	return nil
}

// validateNormalForm walks every gate reachable from the root and
// asserts the two properties a Normal graph must have: no gate left in
// one of the negated operator forms (NAND/NOR/NOT), and no Normal gate
// left below its operator's minimum arity. A violation here means an
// earlier phase has a bug, not that the input graph was malformed.
func (p *Preprocessor) validateNormalForm() {
	for _, gate := range p.collectGates(p.graph.Root, p.nextGen()) {
		p.assertf(!gate.Type.Negated(), "validateNormalForm: gate %d is still %s after normalization", gate.Index(), gate.Type)
		if gate.State == boolgraph.StateNormal {
			p.assertf(gate.ArgCount() >= gate.Type.MinArgs(), "validateNormalForm: gate %d (%s) has %d args, below its minimum of %d", gate.Index(), gate.Type, gate.ArgCount(), gate.Type.MinArgs())
		}
	}
}

// phaseI removes constants, partially normalizes negated operators when
// the source was not coherent, and drains null gates.
func (p *Preprocessor) phaseI() error {
	p.seedConstantLeaves()
	p.propagateConstantsFixedPoint()
	p.propagateNullsFixedPoint()
	if !p.graph.Coherent {
		p.notifyParentsOfNegativeGates()
		p.propagateConstantsFixedPoint()
		p.propagateNullsFixedPoint()
	}
	return nil
}

// phaseII runs the dedup/module/merge/optimize/decompose/distribute/
// coalesce sequence, interleaving a constant/null drain after each step
// since any of them can produce a new constant or NULL-typed gate.
func (p *Preprocessor) phaseII() error {
	for {
		changed, err := p.processMultipleDefinitions()
		if err != nil {
			return err
		}
		p.propagateConstantsFixedPoint()
		p.propagateNullsFixedPoint()
		if !changed {
			break
		}
	}

	p.detectModules()

	if err := p.mergeCommonArgs(); err != nil {
		return err
	}
	p.propagateConstantsFixedPoint()
	p.propagateNullsFixedPoint()

	if p.graph.Coherent {
		if err := p.optimizeBoolean(); err != nil {
			return err
		}
		p.propagateConstantsFixedPoint()
		p.propagateNullsFixedPoint()
	}

	if err := p.decomposeCommonNodes(); err != nil {
		return err
	}
	p.propagateConstantsFixedPoint()
	p.propagateNullsFixedPoint()

	if err := p.distribute(); err != nil {
		return err
	}
	p.propagateConstantsFixedPoint()
	p.propagateNullsFixedPoint()

	if err := p.coalesceFixedPoint(false); err != nil {
		return err
	}
	p.propagateConstantsFixedPoint()
	p.propagateNullsFixedPoint()

	p.detectModules()
	return nil
}

// propagateConstantsFixedPoint drains the const-gate worklist until it
// stays empty, since draining one entry's parents can push more gates
// onto the worklist.
func (p *Preprocessor) propagateConstantsFixedPoint() {
	for {
		drained := p.graph.DrainConstGates()
		if len(drained) == 0 {
			return
		}
		for _, gate := range drained {
			p.propagateConstGate(gate)
		}
	}
}

// propagateNullsFixedPoint drains the null-gate worklist to a fixed
// point, the same way propagateConstantsFixedPoint does for constants.
func (p *Preprocessor) propagateNullsFixedPoint() {
	for {
		drained := p.graph.DrainNullGates()
		if len(drained) == 0 {
			return
		}
		for _, gate := range drained {
			p.propagateNullGate(gate)
		}
	}
}

// checkRootGate absorbs a constant root's sign, replaces a
// NULL-wrapping root with its inner gate (composing signs), and
// terminates preprocessing outright when the root collapses to a
// single variable. It returns true when the driver should stop running
// further phases.
func (p *Preprocessor) checkRootGate() bool {
	for {
		root := p.graph.Root
		if root.State != boolgraph.StateNormal {
			if p.graph.RootSign < 0 {
				if root.State == boolgraph.StateNull {
					root.State = boolgraph.StateUnity
				} else {
					root.State = boolgraph.StateNull
				}
				p.graph.RootSign = 1
			}
			p.logger.Debug("checkRootGate: root is constant", "state", root.State.String())
			return true
		}
		if root.Type != boolgraph.NULL {
			return false
		}
		signed, node, ok := root.SoleArg()
		if !ok {
			return false
		}
		if !boolgraph.Polarity(signed) {
			p.graph.RootSign = -p.graph.RootSign
		}
		switch n := node.(type) {
		case *boolgraph.Gate:
			p.graph.SetRoot(n)
			p.logger.Debug("checkRootGate: root replaced by inner gate", "gate", n.Index())
			continue
		case *boolgraph.Variable:
			p.terminalVariable = n
			p.logger.Debug("checkRootGate: root collapsed to a single variable", "variable", n.Index())
			return true
		default:
			return false
		}
	}
}
