package chain

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// MerkleNode is one node of a transaction tree: Null (the empty tree),
// Leaf (a single transaction), or Child (the combination of two subtrees).
// Implemented as a closed interface rather than an exported struct
// hierarchy so the three cases stay exhaustive at every switch on them.
type MerkleNode interface {
	Hash() chainhash.Hash
	Height() int
}

// NullNode is the empty transaction tree: its hash is the zero hash and it
// never appears as anything but the transaction tree of a block with no
// transactions at all (only the genesis block, in practice).
type NullNode struct{}

func (NullNode) Hash() chainhash.Hash { return chainhash.Hash{} }
func (NullNode) Height() int          { return 0 }

// LeafNode wraps a single transaction as a tree of height 0.
type LeafNode struct {
	Payload Transaction
}

func (l LeafNode) Hash() chainhash.Hash { return l.Payload.Hash() }
func (l LeafNode) Height() int          { return 0 }

// ChildNode combines two subtrees. Its hash is computed once at
// construction time since both the forest and repeated DFS walks need it.
type ChildNode struct {
	Left, Right MerkleNode
	hash        chainhash.Hash
	height      int
}

// NewChildNode builds the parent of left and right, in that order; order
// matters both for the resulting hash and for DFS traversal, which must
// visit leaves in the original transaction order.
func NewChildNode(left, right MerkleNode) *ChildNode {
	var buf [chainhash.HashSize * 2]byte
	lh := left.Hash()
	rh := right.Hash()
	copy(buf[:chainhash.HashSize], lh[:])
	copy(buf[chainhash.HashSize:], rh[:])

	height := left.Height()
	if right.Height() > height {
		height = right.Height()
	}
	return &ChildNode{
		Left:   left,
		Right:  right,
		hash:   chainhash.HashH(buf[:]),
		height: height + 1,
	}
}

func (c *ChildNode) Hash() chainhash.Hash { return c.hash }
func (c *ChildNode) Height() int          { return c.height }

// DFS walks node pre-order (node, then left subtree, then right subtree),
// the order the ledger depends on to recover transactions in the sequence
// they were appended in.
func DFS(node MerkleNode) []MerkleNode {
	var out []MerkleNode
	var visit func(MerkleNode)
	visit = func(n MerkleNode) {
		out = append(out, n)
		if c, ok := n.(*ChildNode); ok {
			visit(c.Left)
			visit(c.Right)
		}
	}
	visit(node)
	return out
}

// Leaves returns the LeafNodes under node in transaction order.
func Leaves(node MerkleNode) []LeafNode {
	var out []LeafNode
	for _, n := range DFS(node) {
		if l, ok := n.(LeafNode); ok {
			out = append(out, l)
		}
	}
	return out
}

// Forest is the incremental binomial-forest structure used while a block
// is being assembled: a sequence of trees of strictly decreasing height,
// each addition folding equal-height trees together. It is immutable; Add
// returns a new Forest rather than mutating the receiver.
type Forest struct {
	trees []MerkleNode
}

// NewForest returns the empty forest.
func NewForest() *Forest {
	return &Forest{}
}

// Add appends tx as a new leaf and folds it against the forest's existing
// trees wherever two adjacent trees share a height, with the older tree
// (already present in the forest) becoming the left child of the fold.
func (f *Forest) Add(tx Transaction) *Forest {
	trees := make([]MerkleNode, len(f.trees))
	copy(trees, f.trees)

	var acc MerkleNode = LeafNode{Payload: tx}
	for len(trees) > 0 && trees[len(trees)-1].Height() == acc.Height() {
		older := trees[len(trees)-1]
		trees = trees[:len(trees)-1]
		acc = NewChildNode(older, acc)
	}
	trees = append(trees, acc)
	return &Forest{trees: trees}
}

// Merge collapses the forest into the single tree that building directly
// from the same transaction sequence would have produced: the last
// (shortest) tree seeds the accumulator, and each earlier (taller) tree is
// folded in as the left sibling of the running accumulator.
func (f *Forest) Merge() MerkleNode {
	if len(f.trees) == 0 {
		return NullNode{}
	}
	acc := f.trees[len(f.trees)-1]
	for i := len(f.trees) - 2; i >= 0; i-- {
		acc = NewChildNode(f.trees[i], acc)
	}
	return acc
}

// BuildTree constructs the transaction tree directly from an ordered
// transaction sequence. It is used when decoding a tree whose leaves
// arrived as a flat, ordered list off the wire: folding the same sequence
// through Forest.Add/Merge always reproduces the same root, which is the
// invariant the incremental and direct constructions share.
func BuildTree(txs []Transaction) MerkleNode {
	f := NewForest()
	for _, tx := range txs {
		f = f.Add(tx)
	}
	return f.Merge()
}
