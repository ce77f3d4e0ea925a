package merkle

import (
	"encoding/hex"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// BuildInclusionProof builds and self-verifies a domain.InclusionProof for
// the leaf at index, ready to be embedded in a bundle's sampled proofs.
func BuildInclusionProof(leaves [][]byte, index int, root []byte) (domain.InclusionProof, error) {
	siblings, err := Proof(leaves, index)
	if err != nil {
		return domain.InclusionProof{}, err
	}
	hexSiblings := make([]string, len(siblings))
	for i, s := range siblings {
		hexSiblings[i] = hex.EncodeToString(s)
	}
	verifies := Verify(root, leaves[index], index, siblings)
	return domain.InclusionProof{
		Index:    index,
		LeafHash: hex.EncodeToString(leaves[index]),
		Siblings: hexSiblings,
		Verifies: verifies,
	}, nil
}

// VerifyInclusionProof re-derives a domain.InclusionProof against root,
// decoding its hex fields first.
func VerifyInclusionProof(root []byte, proof domain.InclusionProof) (bool, error) {
	leafHash, err := hex.DecodeString(proof.LeafHash)
	if err != nil {
		return false, err
	}
	siblings := make([][]byte, len(proof.Siblings))
	for i, s := range proof.Siblings {
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return false, err
		}
		siblings[i] = decoded
	}
	return Verify(root, leafHash, proof.Index, siblings), nil
}

// SamplePolicy returns the deterministic sample indices
// {0, n/4, n/2, 3n/4, n-1}, deduplicated and sorted, for a tree of n
// leaves. Returns an empty slice when n == 0.
func SamplePolicy(n int) []int {
	if n == 0 {
		return nil
	}
	raw := []int{0, n / 4, n / 2, (3 * n) / 4, n - 1}
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, idx := range raw {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	// raw is already non-decreasing for n >= 1, so out is already sorted.
	return out
}
