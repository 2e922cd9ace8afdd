package ml

import (
	"math/rand"
	"sort"
)

// Node is one node of a flattened decision tree. Leaves carry the fraction of positive
// training samples that reached them.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Positive  float64
}

// Tree is a binary classification tree stored as a flat node slice rooted at index 0.
type Tree struct {
	Nodes []Node
}

// PositiveFraction walks x down the tree and returns the leaf's positive fraction.
func (t *Tree) PositiveFraction(x []float64) float64 {
	i := 0
	for !t.Nodes[i].Leaf {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Positive
}

type treeBuilder struct {
	X               [][]float64
	y               []int
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	rng             *rand.Rand
	nodes           []Node
}

// growTree fits a Gini tree on the rows of X selected by sample (duplicates allowed).
func growTree(X [][]float64, y []int, sample []int, p Params, maxFeatures int, rng *rand.Rand) Tree {
	b := &treeBuilder{
		X:               X,
		y:               y,
		maxDepth:        p.MaxDepth,
		minSamplesSplit: max(p.MinSamplesSplit, 2),
		minSamplesLeaf:  max(p.MinSamplesLeaf, 1),
		maxFeatures:     maxFeatures,
		rng:             rng,
	}
	b.build(sample, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(sample []int, depth int) int {
	positives := 0
	for _, i := range sample {
		positives += b.y[i]
	}

	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Leaf:     true,
		Positive: float64(positives) / float64(len(sample)),
	})

	n := len(sample)
	if positives == 0 || positives == n ||
		n < b.minSamplesSplit ||
		n < 2*b.minSamplesLeaf ||
		(b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	feature, threshold, ok := b.bestSplit(sample, positives)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range sample {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id] = Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      l,
		Right:     r,
		Positive:  b.nodes[id].Positive,
	}
	return id
}

// bestSplit draws features in random order and evaluates them until maxFeatures
// non-constant features have been seen, returning the split with the lowest weighted
// Gini impurity.
func (b *treeBuilder) bestSplit(sample []int, positives int) (int, float64, bool) {
	n := len(sample)
	sorted := make([]int, n)

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := 0.0
	visited := 0

	for _, feature := range b.rng.Perm(len(b.X[0])) {
		if visited >= b.maxFeatures {
			break
		}

		copy(sorted, sample)
		sort.SliceStable(sorted, func(a, c int) bool {
			return b.X[sorted[a]][feature] < b.X[sorted[c]][feature]
		})
		if b.X[sorted[0]][feature] == b.X[sorted[n-1]][feature] {
			continue
		}
		visited++

		leftPos := 0
		for k := 0; k < n-1; k++ {
			leftPos += b.y[sorted[k]]
			current, next := b.X[sorted[k]][feature], b.X[sorted[k+1]][feature]
			if current == next {
				continue
			}

			leftN, rightN := k+1, n-k-1
			if leftN < b.minSamplesLeaf || rightN < b.minSamplesLeaf {
				continue
			}

			impurity := (float64(leftN)*gini(leftPos, leftN) + float64(rightN)*gini(positives-leftPos, rightN)) / float64(n)
			if bestFeature < 0 || impurity < bestImpurity {
				bestFeature = feature
				bestThreshold = current + (next-current)/2
				if bestThreshold == next {
					bestThreshold = current
				}
				bestImpurity = impurity
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(positives, n int) float64 {
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}
