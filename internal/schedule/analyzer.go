// ABOUTME: Tool dependency analyzer: partitions a tool-call batch into serial phases of parallel groups
// ABOUTME: Deterministic first-fit bin-packing by target-file conflict within file-mutator runs

package schedule

import (
	"path/filepath"

	"github.com/pi-go/core/internal/types"
)

// Call is one tool invocation the analyzer needs to place into a plan.
// CallID is opaque to the analyzer; it is only used to echo calls back in
// the plan's original order.
type Call struct {
	CallID string
	Tool   *types.AgentTool
	Params map[string]any
}

// Plan is an ordered list of phases; each phase is a set of calls that may
// execute concurrently. The plan is total: every input call appears in
// exactly one phase, in its original relative order within that phase.
type Plan struct {
	Phases [][]Call
}

// Len returns the total number of calls across all phases.
func (p Plan) Len() int {
	n := 0
	for _, phase := range p.Phases {
		n += len(phase)
	}
	return n
}

// Analyze partitions calls into an execution plan per the five-step
// algorithm: group adjacent calls of the same class, single-phase READ and
// OTHER-parallel groups, first-fit conflict packing for file-mutator
// groups, one phase per call for OTHER-serial groups. Phases are emitted
// in group traversal order.
func Analyze(calls []Call) Plan {
	var plan Plan

	for _, group := range groupByClass(calls) {
		switch group.class {
		case types.ClassRead, types.ClassOtherParallel:
			plan.Phases = append(plan.Phases, group.calls)
		case types.ClassOtherSerial:
			for _, c := range group.calls {
				plan.Phases = append(plan.Phases, []Call{c})
			}
		default: // ClassWrite / ClassEdit — file-mutator group
			plan.Phases = append(plan.Phases, packFileMutators(group.calls)...)
		}
	}

	return plan
}

// classGroup is a maximal run of adjacent calls sharing one scheduling
// class, with WRITE and EDIT folded into a single "file-mutator" bucket.
type classGroup struct {
	class types.ConcurrencyClass
	calls []Call
}

// groupKey collapses WRITE and EDIT into one bucket boundary so that a
// WRITE immediately followed by an EDIT stays in the same group.
func groupKey(c types.ConcurrencyClass) types.ConcurrencyClass {
	if c.IsFileMutator() {
		return types.ClassWrite
	}
	return c
}

func groupByClass(calls []Call) []classGroup {
	var groups []classGroup
	for _, c := range calls {
		key := groupKey(c.Tool.Class)
		if len(groups) > 0 && groupKey(groups[len(groups)-1].class) == key {
			last := &groups[len(groups)-1]
			last.calls = append(last.calls, c)
			continue
		}
		groups = append(groups, classGroup{class: c.Tool.Class, calls: []Call{c}})
	}
	return groups
}

// packFileMutators greedily bin-packs a run of WRITE/EDIT calls into
// conflict-free phases using first-fit: each call goes into the earliest
// existing phase whose members have no target-file conflict with it,
// otherwise a new phase is opened. A null target-file conflicts with
// every other file-mutator call in the same phase.
func packFileMutators(calls []Call) [][]Call {
	var phases [][]Call
	var phaseTargets []map[string]bool // parallel to phases; "" key means "has a null-target call"

	for _, c := range calls {
		target, ok := targetKey(c)

		placed := false
		for i := range phases {
			if !conflicts(phaseTargets[i], target, ok) {
				phases[i] = append(phases[i], c)
				if ok {
					phaseTargets[i][target] = true
				} else {
					phaseTargets[i][""] = true
				}
				placed = true
				break
			}
		}

		if !placed {
			targets := make(map[string]bool)
			if ok {
				targets[target] = true
			} else {
				targets[""] = true
			}
			phases = append(phases, []Call{c})
			phaseTargets = append(phaseTargets, targets)
		}
	}

	return phases
}

// conflicts reports whether a call with the given target would collide
// with any call already packed into a phase. A null target always
// conflicts with an occupied phase; an occupied phase with any null-target
// call always conflicts with a new arrival too.
func conflicts(existing map[string]bool, target string, ok bool) bool {
	if len(existing) == 0 {
		return false
	}
	if !ok {
		return true
	}
	if existing[""] {
		return true
	}
	return existing[target]
}

// targetKey normalizes a call's target-file path for comparison: path
// separators are normalized but comparison stays case-sensitive.
func targetKey(c Call) (string, bool) {
	path, ok := c.Tool.Target(c.Params)
	if !ok || path == "" {
		return "", false
	}
	return filepath.ToSlash(filepath.Clean(path)), true
}
