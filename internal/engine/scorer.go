package engine

import (
	"sort"
	"strings"
)

// Bonuses layered on top of plain tag counts. Chosen to always outrank tag
// matches, which top out well below 5 in practice.
const (
	explicitPriorityBonus = 5
	adminEfficiencyBonus  = 6
	docGeneratorBonus     = 4
)

var adminPainKeywords = []string{
	"carpeta", "carpetas", "archivo", "archivos", "firmar", "firma",
	"organizar", "organizacion", "papeleo", "papel", "documento", "documentos",
}

// ScoredSelection is the scorer's output: disjoint recommended and optional
// module lists in rank order.
type ScoredSelection struct {
	Recommended []AutomationModule
	Optional    []AutomationModule
}

// ExpandPriorities maps the intake's selected priority keys to the concrete
// module IDs they cover. Unknown keys are ignored.
func ExpandPriorities(selected []string) map[ModuleID]bool {
	out := make(map[ModuleID]bool)
	for _, key := range selected {
		for _, id := range priorityExpansion[key] {
			out[id] = true
		}
	}
	return out
}

// ScoreModules ranks the catalog against the intake and splits the result
// into recommended (top 5) and optional (next 4). Ties resolve by catalog
// declaration order. Guarantees a non-empty recommended list.
func ScoreModules(in BusinessIntake) ScoredSelection {
	text := combinedScoringText(in)
	explicit := ExpandPriorities(in.SelectedModules)
	hasAdminPain := containsAny(text, adminPainKeywords)

	type scored struct {
		score  int
		module AutomationModule
	}
	var eligible []scored
	for _, m := range modules {
		score := 0
		for _, tag := range m.Tags {
			if strings.Contains(text, tag) {
				score++
			}
		}
		if explicit[m.ID] {
			score += explicitPriorityBonus
		}
		if hasAdminPain {
			switch m.ID {
			case ModuleAdminEfficiency:
				score += adminEfficiencyBonus
			case ModuleDocGenerator:
				score += docGeneratorBonus
			}
		}
		if score <= 0 {
			continue
		}
		if !explicit[m.ID] && !gateAllows(text, m.ID) {
			continue
		}
		eligible = append(eligible, scored{score: score, module: m})
	}

	// Input order is declaration order, so the stable sort keeps it as the
	// tie-break.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].score > eligible[j].score
	})

	ranked := make([]AutomationModule, 0, len(eligible))
	for _, s := range eligible {
		ranked = append(ranked, s.module)
	}
	sel := splitRanked(ranked)
	if len(sel.Recommended) > 0 {
		return sel
	}

	generic := make([]AutomationModule, 0, len(genericFallback))
	for _, m := range modules {
		for _, id := range genericFallback {
			if m.ID == id {
				generic = append(generic, m)
				break
			}
		}
	}
	if len(generic) > 0 {
		return ScoredSelection{
			Recommended: generic[:min(3, len(generic))],
			Optional:    sliceBetween(generic, 3, 6),
		}
	}
	return ScoredSelection{
		Recommended: modules[:min(3, len(modules))],
		Optional:    sliceBetween(modules, 3, 6),
	}
}

func gateAllows(text string, id ModuleID) bool {
	required, ok := moduleGates[id]
	if !ok {
		return true
	}
	return containsAny(text, required)
}

func splitRanked(ranked []AutomationModule) ScoredSelection {
	return ScoredSelection{
		Recommended: ranked[:min(5, len(ranked))],
		Optional:    sliceBetween(ranked, 5, 9),
	}
}

func sliceBetween(s []AutomationModule, lo, hi int) []AutomationModule {
	if lo >= len(s) {
		return nil
	}
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}
