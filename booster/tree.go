package booster

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Node is a single node in a regression tree. Leaf nodes carry the
// Newton-step output value fitted to the gradient/Hessian statistics of
// the samples they cover.
type Node struct {
	NodeID     int
	LeftChild  int // -1 if leaf
	RightChild int // -1 if leaf

	SplitFeature int
	Threshold    float64
	Gain         float64

	LeafValue float64
	LeafCount int
}

// IsLeaf returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return n.LeftChild == -1 && n.RightChild == -1
}

// Tree is one regression tree of the ensemble, fitted to a single
// class's gradient column for one boosting round.
type Tree struct {
	TreeIndex     int // boosting round
	Class         int // class column this tree corrects
	NumLeaves     int
	ShrinkageRate float64

	Nodes []Node
}

// Predict walks the tree for a single sample and returns the shrunken
// leaf value.
func (t *Tree) Predict(features []float64) float64 {
	nodeID := 0

	for nodeID >= 0 && nodeID < len(t.Nodes) {
		node := &t.Nodes[nodeID]

		if node.IsLeaf() {
			return node.LeafValue * t.ShrinkageRate
		}

		if features[node.SplitFeature] <= node.Threshold {
			nodeID = node.LeftChild
		} else {
			nodeID = node.RightChild
		}
	}

	return 0.0
}

// treeBuilder grows a single depth-limited regression tree by exact
// greedy splitting on the per-sample gradient/Hessian pairs of one
// class column.
type treeBuilder struct {
	X         *mat.Dense
	gradients []float64
	hessians  []float64
	params    *Params
}

// build grows the tree over all samples and returns it.
func (b *treeBuilder) build(round, class int) Tree {
	rows, _ := b.X.Dims()
	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}

	tree := Tree{
		TreeIndex:     round,
		Class:         class,
		ShrinkageRate: b.params.LearningRate,
		Nodes:         []Node{},
	}
	b.buildNode(&tree, indices, 0)

	for i := range tree.Nodes {
		if tree.Nodes[i].IsLeaf() {
			tree.NumLeaves++
		}
	}
	return tree
}

// buildNode recursively grows nodes and returns the new node's index.
func (b *treeBuilder) buildNode(tree *Tree, indices []int, depth int) int {
	nodeIdx := len(tree.Nodes)

	if depth >= b.params.MaxDepth || len(indices) < 2*b.params.MinChildSamples {
		tree.Nodes = append(tree.Nodes, b.makeLeaf(nodeIdx, indices))
		return nodeIdx
	}

	best := b.findBestSplit(indices)
	if best.Feature == -1 || best.Gain <= b.params.MinGainToSplit {
		tree.Nodes = append(tree.Nodes, b.makeLeaf(nodeIdx, indices))
		return nodeIdx
	}

	tree.Nodes = append(tree.Nodes, Node{
		NodeID:       nodeIdx,
		LeftChild:    -1,
		RightChild:   -1,
		SplitFeature: best.Feature,
		Threshold:    best.Threshold,
		Gain:         best.Gain,
	})

	var leftIndices, rightIndices []int
	for _, idx := range indices {
		if b.X.At(idx, best.Feature) <= best.Threshold {
			leftIndices = append(leftIndices, idx)
		} else {
			rightIndices = append(rightIndices, idx)
		}
	}

	leftChild := b.buildNode(tree, leftIndices, depth+1)
	rightChild := b.buildNode(tree, rightIndices, depth+1)
	tree.Nodes[nodeIdx].LeftChild = leftChild
	tree.Nodes[nodeIdx].RightChild = rightChild

	return nodeIdx
}

func (b *treeBuilder) makeLeaf(nodeIdx int, indices []int) Node {
	sumGrad := 0.0
	sumHess := 0.0
	for _, idx := range indices {
		sumGrad += b.gradients[idx]
		sumHess += b.hessians[idx]
	}

	return Node{
		NodeID:     nodeIdx,
		LeftChild:  -1,
		RightChild: -1,
		LeafValue:  leafOutput(sumGrad, sumHess, b.params.Lambda),
		LeafCount:  len(indices),
	}
}

// leafOutput is the Newton-step leaf value -G / (H + lambda). The
// Hessian floor applied by the objective keeps the denominator away
// from zero even without regularization.
func leafOutput(sumGrad, sumHess, lambda float64) float64 {
	return -sumGrad / (sumHess + lambda)
}

// splitCandidate describes the best split found for a node.
type splitCandidate struct {
	Feature   int
	Threshold float64
	Gain      float64
}

// findBestSplit scans every feature with a sorted prefix-sum sweep and
// returns the split with the highest gain. Splits are only placed
// between distinct feature values.
func (b *treeBuilder) findBestSplit(indices []int) splitCandidate {
	_, cols := b.X.Dims()
	best := splitCandidate{Feature: -1, Gain: -1e10}

	totalGrad := 0.0
	totalHess := 0.0
	for _, idx := range indices {
		totalGrad += b.gradients[idx]
		totalHess += b.hessians[idx]
	}
	parentScore := totalGrad * totalGrad / (totalHess + b.params.Lambda)

	sorted := make([]int, len(indices))
	for feature := 0; feature < cols; feature++ {
		copy(sorted, indices)
		f := feature
		sort.Slice(sorted, func(a, c int) bool {
			return b.X.At(sorted[a], f) < b.X.At(sorted[c], f)
		})

		leftGrad := 0.0
		leftHess := 0.0
		for pos := 0; pos < len(sorted)-1; pos++ {
			idx := sorted[pos]
			leftGrad += b.gradients[idx]
			leftHess += b.hessians[idx]

			leftCount := pos + 1
			rightCount := len(sorted) - leftCount
			if leftCount < b.params.MinChildSamples || rightCount < b.params.MinChildSamples {
				continue
			}

			current := b.X.At(idx, feature)
			next := b.X.At(sorted[pos+1], feature)
			if current == next {
				continue
			}

			rightGrad := totalGrad - leftGrad
			rightHess := totalHess - leftHess

			gain := 0.5 * (leftGrad*leftGrad/(leftHess+b.params.Lambda) +
				rightGrad*rightGrad/(rightHess+b.params.Lambda) -
				parentScore)

			if gain > best.Gain {
				best.Gain = gain
				best.Feature = feature
				best.Threshold = (current + next) / 2
			}
		}
	}

	return best
}
