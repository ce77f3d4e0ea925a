// Package merkle builds and verifies the kernel's Merkle commitment over
// an ordered sequence of leaf hashes.
//
// The tree shape is pairwise bottom-up combination with last-odd-node
// duplication, not the balanced power-of-two split used elsewhere in this
// codebase's ancestry: this shape is the wire contract and must not
// change.
package merkle

import (
	"golang.org/x/crypto/blake2b"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// HashSize is the width of every node in the tree: a full BLAKE2b-512
// digest.
const HashSize = 64

// emptySentinel is the digest of the literal string "resethiq:empty",
// used as the root when a tree has zero leaves.
var emptySentinel = blake2bSum([]byte("resethiq:empty"))

func blake2bSum(data []byte) []byte {
	sum := blake2b.Sum512(data)
	return sum[:]
}

// node combines a left and right child into their parent: BLAKE2b-512 of
// the 128-byte concatenation left||right. No domain-separation prefix is
// used; the spec's wire format is the raw concatenation.
func node(left, right []byte) []byte {
	buf := make([]byte, 0, HashSize*2)
	buf = append(buf, left...)
	buf = append(buf, right...)
	return blake2bSum(buf)
}

// EmptyRoot returns the sentinel root for a zero-leaf tree.
func EmptyRoot() []byte {
	out := make([]byte, HashSize)
	copy(out, emptySentinel)
	return out
}

// buildLevels returns every level of the tree, leaves at index 0 and the
// single-node root at the last index. Odd-sized levels duplicate their
// last node to form the final pair.
func buildLevels(leaves [][]byte) [][][]byte {
	if len(leaves) == 0 {
		return [][][]byte{{EmptyRoot()}}
	}

	level := make([][]byte, len(leaves))
	copy(level, leaves)
	levels := [][][]byte{level}

	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, node(level[i], level[i+1]))
			} else {
				next = append(next, node(level[i], level[i]))
			}
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}

// Root computes the Merkle root over leaves in reading order.
func Root(leaves [][]byte) []byte {
	levels := buildLevels(leaves)
	top := levels[len(levels)-1]
	return top[0]
}

// Proof builds the inclusion proof for the leaf at index, siblings
// ordered bottom-up. The verifier recovers left/right orientation from
// index parity at each level, so no orientation is stored here.
func Proof(leaves [][]byte, index int) ([][]byte, error) {
	if len(leaves) == 0 {
		return nil, &domain.ProofError{Kind: "empty_tree"}
	}
	if index < 0 || index >= len(leaves) {
		return nil, &domain.ProofError{Kind: "index_out_of_range"}
	}

	levels := buildLevels(leaves)
	siblings := make([][]byte, 0, len(levels)-1)
	idx := index
	for l := 0; l < len(levels)-1; l++ {
		level := levels[l]
		var siblingIdx int
		if idx%2 == 0 {
			if idx+1 < len(level) {
				siblingIdx = idx + 1
			} else {
				siblingIdx = idx // last node on an odd level is paired with itself
			}
		} else {
			siblingIdx = idx - 1
		}
		siblings = append(siblings, level[siblingIdx])
		idx /= 2
	}
	return siblings, nil
}

// Verify checks an inclusion proof for leafHash at index against root.
func Verify(root, leafHash []byte, index int, siblings [][]byte) bool {
	current := make([]byte, len(leafHash))
	copy(current, leafHash)
	idx := index
	for _, sibling := range siblings {
		if idx%2 == 1 {
			current = node(sibling, current)
		} else {
			current = node(current, sibling)
		}
		idx /= 2
	}
	return bytesEqual(current, root)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
