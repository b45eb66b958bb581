package nest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geneticTestNester() *Nester {
	return &Nester{SheetWidth: 1250, SheetHeight: 2500, Gap: 10}
}

func geneticTestParts() []Part {
	return []Part{
		{Name: "D-01", Width: 913, Height: 2104},
		{Name: "D-02", Width: 563, Height: 2004},
		{Name: "D-03", Width: 563, Height: 2004},
		{Name: "T-01", Width: 1413, Height: 604},
	}
}

func TestPackGeneticPlacesAllParts(t *testing.T) {
	n := geneticTestNester()
	result := n.PackGenetic(geneticTestParts())

	placed := 0
	for _, sheet := range result.Sheets {
		placed += len(sheet.Placements)
	}
	assert.Equal(t, 4, placed)
	assert.Empty(t, result.Unplaced)
}

func TestPackGeneticIsDeterministic(t *testing.T) {
	n := geneticTestNester()
	a := n.PackGenetic(geneticTestParts())
	b := n.PackGenetic(geneticTestParts())
	assert.Equal(t, a, b)
}

func TestPackGeneticEmptyInput(t *testing.T) {
	n := geneticTestNester()
	result := n.PackGenetic(nil)
	assert.Empty(t, result.Sheets)
	assert.Empty(t, result.Unplaced)
}

func TestPackGeneticOversizedPart(t *testing.T) {
	n := geneticTestNester()
	result := n.PackGenetic([]Part{{Name: "huge", Width: 3000, Height: 3000}})
	require.Len(t, result.Unplaced, 1)
	assert.Empty(t, result.Sheets)
}

func TestPackGeneticNoOverlaps(t *testing.T) {
	n := geneticTestNester()
	result := n.PackGenetic(geneticTestParts())

	for _, sheet := range result.Sheets {
		for i, a := range sheet.Placements {
			aw, ah := a.Part.Width, a.Part.Height
			if a.Rotated {
				aw, ah = ah, aw
			}
			assert.LessOrEqual(t, a.X+aw+n.Gap, sheet.Width+packEps)
			assert.LessOrEqual(t, a.Y+ah+n.Gap, sheet.Height+packEps)
			for j, b := range sheet.Placements {
				if i == j {
					continue
				}
				bw, bh := b.Part.Width, b.Part.Height
				if b.Rotated {
					bw, bh = bh, bw
				}
				separated := a.X+aw <= b.X+packEps || b.X+bw <= a.X+packEps ||
					a.Y+ah <= b.Y+packEps || b.Y+bh <= a.Y+packEps
				assert.True(t, separated, "parts %s and %s overlap", a.Part.Name, b.Part.Name)
			}
		}
	}
}

func TestPackBestNeverWorseThanGreedy(t *testing.T) {
	n := geneticTestNester()
	parts := geneticTestParts()

	greedy := n.Pack(parts)
	best := n.PackBest(parts)

	assert.LessOrEqual(t, len(best.Unplaced), len(greedy.Unplaced))
	if len(best.Unplaced) == len(greedy.Unplaced) {
		assert.LessOrEqual(t, len(best.Sheets), len(greedy.Sheets))
	}
}

func TestOrderCrossoverPreservesAllGenes(t *testing.T) {
	parts := []Part{
		{Name: "A", Width: 100, Height: 100},
		{Name: "B", Width: 200, Height: 200},
		{Name: "C", Width: 300, Height: 300},
		{Name: "D", Width: 400, Height: 400},
		{Name: "E", Width: 500, Height: 500},
	}
	ga := newGeneticNester(geneticTestNester(), DefaultGeneticConfig(), parts, 123)

	parent1 := chromosome{genes: []gene{
		{partIndex: 0}, {partIndex: 1}, {partIndex: 2}, {partIndex: 3}, {partIndex: 4},
	}}
	parent2 := chromosome{genes: []gene{
		{partIndex: 4}, {partIndex: 3}, {partIndex: 2}, {partIndex: 1}, {partIndex: 0},
	}}

	child := ga.orderCrossover(parent1, parent2)
	require.Len(t, child.genes, 5)

	seen := make(map[int]bool)
	for _, g := range child.genes {
		assert.False(t, seen[g.partIndex], "duplicate part index %d", g.partIndex)
		seen[g.partIndex] = true
	}
	for i := 0; i < 5; i++ {
		assert.True(t, seen[i], "missing part index %d", i)
	}
}

func TestCompareStrategies(t *testing.T) {
	n := geneticTestNester()
	strategies := BuildDefaultStrategies(*n)
	require.GreaterOrEqual(t, len(strategies), 2)
	assert.Equal(t, "Greedy", strategies[0].Name)
	assert.Equal(t, "Genetic", strategies[1].Name)

	results := CompareStrategies(strategies, geneticTestParts())
	require.Len(t, results, len(strategies))
	for _, r := range results {
		assert.Positive(t, r.SheetsUsed)
		assert.Zero(t, r.UnplacedCount)
		assert.GreaterOrEqual(t, r.WastePercent, 0.0)
		assert.Less(t, r.WastePercent, 100.0)
	}
}
