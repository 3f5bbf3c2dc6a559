// ABOUTME: Tests for the tool dependency analyzer: partition totality, conflict freedom, boundaries
// ABOUTME: Table-driven over the scenarios and boundary behaviours named in the design

package schedule

import (
	"testing"

	"github.com/pi-go/core/internal/types"
)

func readTool() *types.AgentTool {
	return &types.AgentTool{Name: "read", Class: types.ClassRead}
}

func editToolNoExtractor() *types.AgentTool {
	return &types.AgentTool{Name: "edit", Class: types.ClassEdit}
}

func editTool() *types.AgentTool {
	return &types.AgentTool{
		Name:  "edit",
		Class: types.ClassEdit,
		TargetFile: func(params map[string]any) (string, bool) {
			p, ok := params["path"].(string)
			return p, ok && p != ""
		},
	}
}

func writeTool() *types.AgentTool {
	return &types.AgentTool{
		Name:  "write",
		Class: types.ClassWrite,
		TargetFile: func(params map[string]any) (string, bool) {
			p, ok := params["path"].(string)
			return p, ok && p != ""
		},
	}
}

func otherParallel(name string) *types.AgentTool {
	return &types.AgentTool{Name: name, Class: types.ClassOtherParallel}
}

func otherSerial(name string) *types.AgentTool {
	return &types.AgentTool{Name: name, Class: types.ClassOtherSerial}
}

func call(id string, t *types.AgentTool, params map[string]any) Call {
	return Call{CallID: id, Tool: t, Params: params}
}

func TestAnalyze_EmptyList(t *testing.T) {
	plan := Analyze(nil)
	if len(plan.Phases) != 0 {
		t.Fatalf("expected empty plan, got %d phases", len(plan.Phases))
	}
}

func TestAnalyze_SingleWriteNullTarget(t *testing.T) {
	plan := Analyze([]Call{call("c1", editToolNoExtractor(), nil)})
	if len(plan.Phases) != 1 || len(plan.Phases[0]) != 1 {
		t.Fatalf("expected one phase of one call, got %+v", plan.Phases)
	}
}

func TestAnalyze_TwoIdenticalPathWrites(t *testing.T) {
	w := writeTool()
	calls := []Call{
		call("c1", w, map[string]any{"path": "/ws/a.txt"}),
		call("c2", w, map[string]any{"path": "/ws/a.txt"}),
	}
	plan := Analyze(calls)
	if len(plan.Phases) != 2 {
		t.Fatalf("expected two phases, got %d: %+v", len(plan.Phases), plan.Phases)
	}
	for _, phase := range plan.Phases {
		if len(phase) != 1 {
			t.Fatalf("expected one call per phase, got %d", len(phase))
		}
	}
}

func TestAnalyze_ReadGroupSinglePhase(t *testing.T) {
	r := readTool()
	calls := []Call{call("c1", r, nil), call("c2", r, nil), call("c3", r, nil)}
	plan := Analyze(calls)
	if len(plan.Phases) != 1 || len(plan.Phases[0]) != 3 {
		t.Fatalf("expected one phase of three reads, got %+v", plan.Phases)
	}
}

func TestAnalyze_ReadThenEditDifferentFiles(t *testing.T) {
	// Scenario 2/3 from spec: read(a), edit(a), edit(b).
	r := readTool()
	e := editTool()
	calls := []Call{
		call("c1", r, map[string]any{"path": "/ws/a"}),
		call("c2", e, map[string]any{"path": "/ws/a"}),
		call("c3", e, map[string]any{"path": "/ws/b"}),
	}
	plan := Analyze(calls)
	if len(plan.Phases) != 2 {
		t.Fatalf("expected two phases ([read(a)], [edit(a), edit(b)]), got %d: %+v", len(plan.Phases), plan.Phases)
	}
	if len(plan.Phases[0]) != 1 || plan.Phases[0][0].CallID != "c1" {
		t.Fatalf("expected phase 1 = [read(a)], got %+v", plan.Phases[0])
	}
	if len(plan.Phases[1]) != 2 {
		t.Fatalf("expected phase 2 to hold both edits, got %+v", plan.Phases[1])
	}
}

func TestAnalyze_OtherParallelGroupSinglePhase(t *testing.T) {
	t1, t2 := otherParallel("websearch"), otherParallel("webfetch")
	calls := []Call{call("c1", t1, nil), call("c2", t2, nil)}
	plan := Analyze(calls)
	if len(plan.Phases) != 1 || len(plan.Phases[0]) != 2 {
		t.Fatalf("expected single phase for OTHER-parallel group, got %+v", plan.Phases)
	}
}

func TestAnalyze_OtherSerialOnePhasePerCall(t *testing.T) {
	t1 := otherSerial("bash")
	calls := []Call{call("c1", t1, nil), call("c2", t1, nil)}
	plan := Analyze(calls)
	if len(plan.Phases) != 2 {
		t.Fatalf("expected one phase per OTHER-serial call, got %d", len(plan.Phases))
	}
}

func TestAnalyze_PartitionTotality(t *testing.T) {
	r, w, s := readTool(), writeTool(), otherSerial("bash")
	calls := []Call{
		call("c1", r, nil),
		call("c2", w, map[string]any{"path": "/a"}),
		call("c3", w, map[string]any{"path": "/b"}),
		call("c4", s, nil),
		call("c5", r, nil),
	}
	plan := Analyze(calls)

	seen := make(map[string]bool)
	for _, phase := range plan.Phases {
		for _, c := range phase {
			if seen[c.CallID] {
				t.Fatalf("call %s appeared more than once", c.CallID)
			}
			seen[c.CallID] = true
		}
	}
	if len(seen) != len(calls) {
		t.Fatalf("expected all %d calls to be placed, got %d", len(calls), len(seen))
	}
}

func TestAnalyze_ConflictFreedomWithinPhase(t *testing.T) {
	w := writeTool()
	calls := []Call{
		call("c1", w, map[string]any{"path": "/a"}),
		call("c2", w, map[string]any{"path": "/b"}),
		call("c3", w, map[string]any{"path": "/a"}),
	}
	plan := Analyze(calls)
	for _, phase := range plan.Phases {
		seenTargets := make(map[string]bool)
		for _, c := range phase {
			target, ok := c.Tool.Target(c.Params)
			if !ok {
				continue
			}
			if seenTargets[target] {
				t.Fatalf("phase %+v has two calls targeting %q", phase, target)
			}
			seenTargets[target] = true
		}
	}
}

func TestAnalyze_NullTargetNeverCoOccursWithMutator(t *testing.T) {
	w := writeTool()
	noTarget := editToolNoExtractor()
	calls := []Call{
		call("c1", w, map[string]any{"path": "/a"}),
		call("c2", noTarget, nil),
	}
	plan := Analyze(calls)
	for _, phase := range plan.Phases {
		if len(phase) > 1 {
			hasNull := false
			for _, c := range phase {
				if _, ok := c.Tool.Target(c.Params); !ok {
					hasNull = true
				}
			}
			if hasNull {
				t.Fatalf("phase %+v mixes a null-target call with others", phase)
			}
		}
	}
}

func TestAnalyze_PathSeparatorNormalization(t *testing.T) {
	w := writeTool()
	calls := []Call{
		call("c1", w, map[string]any{"path": "/ws/a/../a.txt"}),
		call("c2", w, map[string]any{"path": "/ws/a.txt"}),
	}
	plan := Analyze(calls)
	if len(plan.Phases) != 2 {
		t.Fatalf("expected normalized paths to conflict into two phases, got %d: %+v", len(plan.Phases), plan.Phases)
	}
}
