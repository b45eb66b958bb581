package nest

import "fmt"

// Strategy is a named nesting configuration to evaluate.
type Strategy struct {
	Name    string
	Nester  Nester
	Genetic bool
}

// StrategyResult holds the nesting outcome and computed statistics for one
// strategy.
type StrategyResult struct {
	Strategy      Strategy
	Result        Result
	SheetsUsed    int
	WastePercent  float64
	UnplacedCount int
}

// CompareStrategies nests the same parts under each strategy, enabling a
// side-by-side what-if view of sheet usage before committing material.
func CompareStrategies(strategies []Strategy, parts []Part) []StrategyResult {
	results := make([]StrategyResult, 0, len(strategies))
	for _, s := range strategies {
		var result Result
		if s.Genetic {
			result = s.Nester.PackGenetic(parts)
		} else {
			result = s.Nester.Pack(parts)
		}

		var usedArea, totalArea float64
		for _, sheet := range result.Sheets {
			totalArea += sheet.Width * sheet.Height
			for _, p := range sheet.Placements {
				usedArea += p.Part.Width * p.Part.Height
			}
		}
		waste := 0.0
		if totalArea > 0 {
			waste = 100.0 * (1.0 - usedArea/totalArea)
		}

		results = append(results, StrategyResult{
			Strategy:      s,
			Result:        result,
			SheetsUsed:    len(result.Sheets),
			WastePercent:  waste,
			UnplacedCount: len(result.Unplaced),
		})
	}
	return results
}

// BuildDefaultStrategies derives what-if variants from the current nester:
// the alternate algorithm and a tighter clearance gap.
func BuildDefaultStrategies(base Nester) []Strategy {
	strategies := []Strategy{
		{Name: "Greedy", Nester: base},
		{Name: "Genetic", Nester: base, Genetic: true},
	}
	if base.Gap > 1.0 {
		tight := base
		tight.Gap = base.Gap * 0.5
		strategies = append(strategies, Strategy{
			Name:   fmt.Sprintf("Gap %.1fmm (half)", tight.Gap),
			Nester: tight,
		})
	}
	return strategies
}
