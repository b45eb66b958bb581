package nest

import (
	"math/rand"
	"sort"
)

// GeneticConfig holds parameters for the genetic nesting optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// gene is a single placement decision in the chromosome.
type gene struct {
	partIndex int
	rotated   bool // preferred orientation for this part
}

// chromosome is a candidate solution: an ordering of parts with rotation
// preferences.
type chromosome struct {
	genes   []gene
	fitness float64
}

// geneticNester searches part orderings that reduce sheet count and waste.
type geneticNester struct {
	nester *Nester
	config GeneticConfig
	parts  []Part
	rng    *rand.Rand
}

func newGeneticNester(n *Nester, config GeneticConfig, parts []Part, seed int64) *geneticNester {
	return &geneticNester{
		nester: n,
		config: config,
		parts:  parts,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// optimize runs the genetic algorithm and returns the best nesting found.
func (g *geneticNester) optimize() Result {
	if len(g.parts) == 0 {
		return Result{}
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sort.Slice(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.Slice(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return g.decode(population[0])
}

// initPopulation creates random orderings, seeded with the greedy
// largest-area-first order so the search starts from a known-good point.
func (g *geneticNester) initPopulation() []chromosome {
	n := len(g.parts)
	population := make([]chromosome, g.config.PopulationSize)

	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			genes[j] = gene{
				partIndex: perm[j],
				rotated:   g.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}

	if g.config.PopulationSize > 0 {
		population[0] = g.greedyChromosome()
	}
	return population
}

func (g *geneticNester) greedyChromosome() chromosome {
	n := len(g.parts)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		ai := g.parts[indices[i]].Width * g.parts[indices[i]].Height
		aj := g.parts[indices[j]].Width * g.parts[indices[j]].Height
		return ai > aj
	})

	genes := make([]gene, n)
	for i, idx := range indices {
		genes[i] = gene{partIndex: idx}
	}
	return chromosome{genes: genes}
}

// evaluate decodes a chromosome and scores its material efficiency.
// Unplaced parts and extra sheets pull the score down.
func (g *geneticNester) evaluate(c chromosome) float64 {
	result := g.decode(c)
	if len(result.Sheets) == 0 {
		return 0
	}

	var usedArea, totalArea float64
	for _, s := range result.Sheets {
		totalArea += s.Width * s.Height
		for _, p := range s.Placements {
			usedArea += p.Part.Width * p.Part.Height
		}
	}
	if totalArea == 0 {
		return 0
	}

	fitness := usedArea/totalArea -
		float64(len(result.Unplaced))*0.1 -
		float64(len(result.Sheets)-1)*0.05
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// decode packs parts sheet by sheet in chromosome order, honoring each
// gene's preferred orientation with fallback to the other one.
func (g *geneticNester) decode(c chromosome) Result {
	type pick struct {
		part    Part
		rotated bool
	}
	remaining := make([]pick, len(c.genes))
	for i, gn := range c.genes {
		remaining[i] = pick{part: g.parts[gn.partIndex], rotated: gn.rotated}
	}

	var result Result
	for len(remaining) > 0 {
		sheet := Sheet{Width: g.nester.SheetWidth, Height: g.nester.SheetHeight}
		packer := newPacker(g.nester.SheetWidth, g.nester.SheetHeight, g.nester.Gap)

		var unplaced []pick
		for _, pk := range remaining {
			w, h := pk.part.Width, pk.part.Height
			first, second := false, true
			if pk.rotated {
				first, second = true, false
			}

			placed := false
			for _, rot := range []bool{first, second} {
				pw, ph := w, h
				if rot {
					pw, ph = h, w
				}
				if ok, x, y := packer.insert(pw, ph); ok {
					sheet.Placements = append(sheet.Placements, Placement{Part: pk.part, X: x, Y: y, Rotated: rot})
					placed = true
					break
				}
				if w == h {
					break
				}
			}
			if !placed {
				unplaced = append(unplaced, pk)
			}
		}

		if len(sheet.Placements) == 0 {
			// Nothing fits an empty sheet; the rest is oversized.
			for _, pk := range unplaced {
				result.Unplaced = append(result.Unplaced, pk.part)
			}
			break
		}
		result.Sheets = append(result.Sheets, sheet)
		remaining = unplaced
	}
	return result
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticNester) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation
// chromosomes, preserving relative order from both parents.
func (g *geneticNester) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]gene, n)}
	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i].partIndex] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg.partIndex] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap, rotation-toggle and inversion mutations.
func (g *geneticNester) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		c.genes[i].rotated = !c.genes[i].rotated
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticNester) copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// PackGenetic searches part orderings with a genetic algorithm and returns
// the best nesting found. The search is seeded deterministically so repeated
// runs over the same order book give the same layout.
func (n *Nester) PackGenetic(parts []Part) Result {
	if len(parts) == 0 {
		return Result{}
	}

	config := DefaultGeneticConfig()
	if len(parts) > 20 {
		config.Generations = 150
	}
	if len(parts) > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}

	ga := newGeneticNester(n, config, parts, 42)
	return ga.optimize()
}

// PackBest runs both the greedy packer and the genetic search and keeps
// whichever result uses less material.
func (n *Nester) PackBest(parts []Part) Result {
	greedy := n.Pack(parts)
	genetic := n.PackGenetic(parts)

	if len(genetic.Unplaced) > len(greedy.Unplaced) {
		return greedy
	}
	if len(genetic.Unplaced) < len(greedy.Unplaced) {
		return genetic
	}
	if len(genetic.Sheets) < len(greedy.Sheets) {
		return genetic
	}
	return greedy
}
