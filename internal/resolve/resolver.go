// Package resolve partitions a set of modules into ordered execution
// phases by iterative topological layering, breaks dependency cycles
// deterministically, and computes the project's critical path.
package resolve

import (
	"fmt"
	"sort"

	"foreman/internal/debuglog"
	"foreman/pkg/models"
)

// Plan is the resolved execution order for a module set.
type Plan struct {
	// Phases is an ordered list of phases. Modules within a phase have no
	// dependencies among themselves and all their in-set dependencies lie
	// in earlier phases, except where a cycle was broken.
	Phases [][]string
	// CriticalPath is the longest dependency chain in the set, ordered
	// from the most dependent module down to its deepest dependency.
	CriticalPath []string
	// Blocked maps a cycle-broken module to the in-set dependencies that
	// were still unmet when it was forced into a phase.
	Blocked map[string][]string
}

// PhaseOf returns the phase index containing the named module, or -1.
func (p *Plan) PhaseOf(name string) int {
	for i, phase := range p.Phases {
		for _, m := range phase {
			if m == name {
				return i
			}
		}
	}
	return -1
}

// OnCriticalPath returns true if the named module is on the critical path.
func (p *Plan) OnCriticalPath(name string) bool {
	for _, m := range p.CriticalPath {
		if m == name {
			return true
		}
	}
	return false
}

// Resolve computes the execution plan for a module set.
//
// Layering repeats until no module remains: every module whose in-set
// dependencies are all in earlier phases joins the next phase. When no
// module is ready but some remain, a cycle exists; it is broken by
// forcing the module with the fewest unmet in-set dependencies (name
// order on ties) into a single-module phase and recording the unmet
// dependencies as blockers. Dependencies naming modules outside the set
// are external and never block.
//
// The loop is bounded at len(modules)+1 iterations. The bound cannot
// trip when the break rule is correct, so exceeding it is a fatal error
// rather than a recoverable condition.
func Resolve(modules map[string]*models.Module) (*Plan, error) {
	deps := make(map[string][]string, len(modules))
	for name, mod := range modules {
		deps[name] = mod.DependsOn
	}

	plan := &Plan{Blocked: make(map[string][]string)}

	remaining := make(map[string]bool, len(deps))
	for name := range deps {
		remaining[name] = true
	}
	completed := make(map[string]bool, len(deps))

	maxIterations := len(deps) + 1
	for iteration := 0; len(remaining) > 0; iteration++ {
		if iteration >= maxIterations {
			return nil, fmt.Errorf("resolve: no progress after %d iterations with %d modules unplaced", maxIterations, len(remaining))
		}

		var ready []string
		for _, name := range sortedKeys(remaining) {
			if len(unmetDeps(name, deps, completed)) == 0 {
				ready = append(ready, name)
			}
		}

		if len(ready) == 0 {
			breaker, blockers := breakCycle(remaining, deps, completed)
			plan.Blocked[breaker] = blockers
			ready = []string{breaker}
			debuglog.Log("resolve: cycle broken at %q, unmet deps %v", breaker, blockers)
		}

		plan.Phases = append(plan.Phases, ready)
		for _, name := range ready {
			delete(remaining, name)
			completed[name] = true
		}
	}

	plan.CriticalPath = criticalPath(deps)
	debuglog.Log("resolve: %d modules in %d phases, critical path %v", len(modules), len(plan.Phases), plan.CriticalPath)
	return plan, nil
}

// unmetDeps returns the module's in-set dependencies not yet completed.
// Unknown dependency names are external and always count as satisfied.
func unmetDeps(name string, deps map[string][]string, completed map[string]bool) []string {
	var unmet []string
	for _, dep := range deps[name] {
		if _, inSet := deps[dep]; !inSet {
			continue
		}
		if !completed[dep] {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}

// breakCycle picks the module with the fewest unmet in-set dependencies,
// breaking ties by name order. Pure selection: the caller records the
// blockers and forces the module into its own phase.
func breakCycle(remaining map[string]bool, deps map[string][]string, completed map[string]bool) (string, []string) {
	var (
		best         string
		bestBlockers []string
		bestCount    = -1
	)
	for _, name := range sortedKeys(remaining) {
		blockers := unmetDeps(name, deps, completed)
		if bestCount == -1 || len(blockers) < bestCount {
			best = name
			bestBlockers = blockers
			bestCount = len(blockers)
		}
	}
	return best, bestBlockers
}

// criticalPath finds the longest dependency chain, memoized per run.
// Ties keep the chain of the first module in name order. Cycles are cut
// at the repeated module so the search always terminates.
func criticalPath(deps map[string][]string) []string {
	memo := make(map[string][]string, len(deps))
	onStack := make(map[string]bool)

	var longest func(name string) []string
	longest = func(name string) []string {
		if chain, ok := memo[name]; ok {
			return chain
		}
		if onStack[name] {
			return nil
		}
		onStack[name] = true

		best := []string{name}
		for _, dep := range deps[name] {
			if _, inSet := deps[dep]; !inSet {
				continue
			}
			chain := longest(dep)
			if len(chain)+1 > len(best) {
				best = append([]string{name}, chain...)
			}
		}

		onStack[name] = false
		memo[name] = best
		return best
	}

	var path []string
	for _, name := range sortedKeys(deps) {
		if chain := longest(name); len(chain) > len(path) {
			path = chain
		}
	}
	return path
}

// Validate reports structural problems in a module set without resolving
// it: dependencies on modules missing from the set and dependency cycles.
// Resolve tolerates both, so validation is advisory.
func Validate(modules map[string]*models.Module) []string {
	var problems []string

	for _, name := range sortedKeys(modules) {
		for _, dep := range modules[name].DependsOn {
			if _, ok := modules[dep]; !ok {
				problems = append(problems, fmt.Sprintf("module %q depends on unknown module %q", name, dep))
			}
		}
	}

	visited := make(map[string]bool)
	var inCycle func(name string, stack map[string]bool) bool
	inCycle = func(name string, stack map[string]bool) bool {
		visited[name] = true
		stack[name] = true
		for _, dep := range modules[name].DependsOn {
			if _, ok := modules[dep]; !ok {
				continue
			}
			if stack[dep] {
				return true
			}
			if !visited[dep] && inCycle(dep, stack) {
				return true
			}
		}
		stack[name] = false
		return false
	}

	for _, name := range sortedKeys(modules) {
		if !visited[name] && inCycle(name, make(map[string]bool)) {
			problems = append(problems, fmt.Sprintf("dependency cycle detected involving module %q", name))
		}
	}

	return problems
}

// sortedKeys returns map keys in name order. Resolution iterates maps
// through this so plans are identical across runs.
func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
