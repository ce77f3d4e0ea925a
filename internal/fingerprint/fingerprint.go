// Package fingerprint implements the kernel's one-pass streaming digest
// of an artifact into file-level digests, ordered leaf hashes, and a
// Merkle commitment.
package fingerprint

import (
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/Dey313/Resethiq-engine/internal/domain"
	"github.com/Dey313/Resethiq-engine/internal/merkle"
)

// readBufferSize is the transport-sized read used while draining the
// source reader; it does not bound the accumulator, only the chunk
// fetched from the OS per Read call.
const readBufferSize = 1 << 20 // 1 MiB

// DefaultChunkSize is the kernel's default leaf width: 4 MiB.
const DefaultChunkSize int64 = 4 * 1024 * 1024

// Result is the full output of one fingerprinting pass.
type Result struct {
	Bytes       int64
	Chunks      int
	Leaves      [][]byte
	FileDigests domain.FileDigests
	Commitment  domain.MerkleCommitment
}

// Fingerprint consumes r to EOF in a single pass and returns the file
// digests, ordered leaf hashes, and Merkle commitment over those leaves.
// chunkSize must be a positive integer; io errors from r are returned
// wrapped in domain.IOError.
func Fingerprint(r io.Reader, chunkSize int64) (Result, error) {
	if chunkSize <= 0 {
		return Result{}, &domain.ConfigError{Reason: "chunk size must be positive"}
	}

	blakeHasher, err := blake2b.New512(nil)
	if err != nil {
		return Result{}, &domain.CryptoError{Reason: "init blake2b hasher", Err: err}
	}
	shaHasher := sha512.New()

	var leaves [][]byte
	var accumulator []byte
	var totalBytes int64

	buf := make([]byte, readBufferSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			totalBytes += int64(n)
			writeAll(blakeHasher, chunk)
			writeAll(shaHasher, chunk)
			accumulator = append(accumulator, chunk...)

			for int64(len(accumulator)) >= chunkSize {
				leafBytes := accumulator[:chunkSize]
				leaves = append(leaves, leafHash(leafBytes))
				accumulator = accumulator[chunkSize:]
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return Result{}, &domain.IOError{Op: "read", Err: readErr}
		}
	}

	if len(accumulator) > 0 {
		leaves = append(leaves, leafHash(accumulator))
	}

	root := merkle.Root(leaves)

	return Result{
		Bytes:  totalBytes,
		Chunks: len(leaves),
		Leaves: leaves,
		FileDigests: domain.FileDigests{
			Blake2b512: hex.EncodeToString(blakeHasher.Sum(nil)),
			Sha512:     hex.EncodeToString(shaHasher.Sum(nil)),
		},
		Commitment: domain.MerkleCommitment{
			Algorithm: domain.MerkleAlgorithm,
			Root:      hex.EncodeToString(root),
			LeafCount: len(leaves),
			ChunkSize: chunkSize,
		},
	}, nil
}

func leafHash(data []byte) []byte {
	sum := blake2b.Sum512(data)
	out := make([]byte, len(sum))
	copy(out, sum[:])
	return out
}

func writeAll(h hash.Hash, p []byte) {
	// hash.Hash.Write never returns an error per its documented contract.
	_, _ = h.Write(p)
}
