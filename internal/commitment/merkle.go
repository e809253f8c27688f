package commitment

// Daily anchors fold one UTC day's entry digests into a Merkle root. Leaves
// are lowercase hex digest strings and interior nodes hash the concatenation
// of the two child hex strings, not their decoded bytes. Callers must sort
// the leaf list before building; insertion order is not stable across reads.

// ProofStep is one sibling on the path from a leaf to the root. Side is the
// position of the sibling hash relative to the running node: "L" means the
// sibling is hashed on the left, "R" on the right.
type ProofStep struct {
	Side string `json:"side"`
	Hash string `json:"hash"`
}

// MerkleRoot folds a sorted leaf list into its root. At each level adjacent
// nodes pair up and an odd trailing node is paired with itself, so a
// single-leaf day yields SHA256(leaf+leaf), never the bare leaf. Returns ""
// for an empty leaf set.
func MerkleRoot(leaves []string) string {
	if len(leaves) == 0 {
		return ""
	}
	layer := leaves
	for {
		layer = foldLayer(layer)
		if len(layer) == 1 {
			return layer[0]
		}
	}
}

func foldLayer(layer []string) []string {
	next := make([]string, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		left := layer[i]
		right := left // duplicate the odd trailing node
		if i+1 < len(layer) {
			right = layer[i+1]
		}
		next = append(next, sha256Hex(left+right))
	}
	return next
}

// MerkleProof returns the sibling path for target within leaves, ordered
// leaf to root, or nil if target is not a current leaf. The walk applies the
// same odd-duplication rule as MerkleRoot, so replaying the steps against
// the leaf reproduces exactly the root built from the same leaf list.
func MerkleProof(leaves []string, target string) []ProofStep {
	idx := -1
	for i, leaf := range leaves {
		if leaf == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	layer := leaves
	proof := []ProofStep{}
	for {
		next := make([]string, 0, (len(layer)+1)/2)
		for p := 0; p < len(layer); p += 2 {
			left := layer[p]
			right := left
			if p+1 < len(layer) {
				right = layer[p+1]
			}
			next = append(next, sha256Hex(left+right))

			if p == idx || p+1 == idx {
				if p == idx {
					proof = append(proof, ProofStep{Side: "R", Hash: right})
				} else {
					proof = append(proof, ProofStep{Side: "L", Hash: left})
				}
				idx = p / 2
			}
		}
		layer = next
		if len(layer) == 1 {
			return proof
		}
	}
}

// ReplayProof walks a proof root-ward from a leaf and returns the hash it
// arrives at. Verifiers compare the result against a published root.
func ReplayProof(leaf string, proof []ProofStep) string {
	node := leaf
	for _, step := range proof {
		if step.Side == "L" {
			node = sha256Hex(step.Hash + node)
		} else {
			node = sha256Hex(node + step.Hash)
		}
	}
	return node
}

// VerifyProof reports whether a proof connects leaf to root.
func VerifyProof(leaf string, proof []ProofStep, root string) bool {
	return ReplayProof(leaf, proof) == root
}
