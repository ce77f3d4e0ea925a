// Package evidence is the kernel's public facade: the surface that the
// CLI, and any external collaborator engine, uses to hash artifacts,
// build attestations, and verify bundles without reaching into
// internal packages directly.
package evidence

import (
	"encoding/hex"
	"io"

	"github.com/Dey313/Resethiq-engine/internal/attest"
	"github.com/Dey313/Resethiq-engine/internal/canon"
	"github.com/Dey313/Resethiq-engine/internal/domain"
	"github.com/Dey313/Resethiq-engine/internal/fingerprint"
	"github.com/Dey313/Resethiq-engine/internal/keys/soft"
	"github.com/Dey313/Resethiq-engine/internal/receipt"
	"github.com/Dey313/Resethiq-engine/internal/verify"
)

// DefaultChunkSize re-exports the kernel's default leaf width.
const DefaultChunkSize = fingerprint.DefaultChunkSize

// HashResult is the public shape of a bare `hash` call.
type HashResult struct {
	File        string                  `json:"file"`
	Bytes       int64                   `json:"bytes"`
	ChunksCount int                     `json:"chunks_count"`
	LeafHexes   []string                `json:"leaf_hexes"`
	FileDigests domain.FileDigests      `json:"file_digests"`
	Merkle      domain.MerkleCommitment `json:"merkle"`
}

// Hash runs the streaming fingerprinter over r and returns the public
// JSON-shaped result for the `hash` CLI verb.
func Hash(filename string, r io.Reader, chunkSize int64) (HashResult, error) {
	fp, err := fingerprint.Fingerprint(r, chunkSize)
	if err != nil {
		return HashResult{}, err
	}
	hexes := make([]string, len(fp.Leaves))
	for i, leaf := range fp.Leaves {
		hexes[i] = hex.EncodeToString(leaf)
	}
	return HashResult{
		File:        filename,
		Bytes:       fp.Bytes,
		ChunksCount: fp.Chunks,
		LeafHexes:   hexes,
		FileDigests: fp.FileDigests,
		Merkle:      fp.Commitment,
	}, nil
}

// AttestOptions configures a call to Attest.
type AttestOptions struct {
	Filename  string
	ChunkSize int64
	KeysDir   string
	Env       domain.EnvSnapshot
	Now       attest.Clock
}

// Attest runs the full fingerprint -> manifest -> sign pipeline over r
// and returns the finished bundle.
func Attest(r io.Reader, opts AttestOptions) (domain.Attestation, error) {
	signer := soft.NewSigner(opts.KeysDir)
	env := opts.Env
	if env == (domain.EnvSnapshot{}) {
		env = attest.DefaultEnvSnapshot()
	}
	now := opts.Now
	if now == nil {
		now = attest.DefaultClock
	}
	bundle, _, err := attest.Assemble(attest.Input{
		Artifact:  r,
		Filename:  opts.Filename,
		ChunkSize: opts.ChunkSize,
		Signer:    signer,
		Env:       env,
		Now:       now,
		NewRunID:  attest.NewUUIDv4,
	})
	return bundle, err
}

// VerifyBundle re-runs the verifier over bundle and artifact.
func VerifyBundle(bundle domain.Attestation, artifact io.Reader) (verify.Result, error) {
	return verify.Verify(bundle, artifact)
}

// CanonicalizeAny exposes the kernel's single canonicalization entry
// point to external callers that need to hash their own structures with
// the same discipline the kernel uses internally.
func CanonicalizeAny(v any) ([]byte, error) {
	return canon.CanonicalizeAny(v)
}

// VerifyTransparencyLog parses the log file at path and re-derives every
// entry_hash forward from GENESIS, returning the index of the first bad
// line (or -1 if the whole file verifies).
func VerifyTransparencyLog(path string) (int, error) {
	entries, err := receipt.ReadAll(path)
	if err != nil {
		return -1, err
	}
	return receipt.VerifyChain(entries)
}
