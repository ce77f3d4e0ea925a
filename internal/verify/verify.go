// Package verify implements the kernel's verifier: given a bundle and
// the artifact it claims to describe, it re-derives every hash and
// checks every signature independently of how the bundle was produced.
package verify

import (
	"crypto/ed25519"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"io"

	"github.com/Dey313/Resethiq-engine/internal/canon"
	"github.com/Dey313/Resethiq-engine/internal/domain"
	"github.com/Dey313/Resethiq-engine/internal/fingerprint"
	"github.com/Dey313/Resethiq-engine/internal/merkle"
)

// Result is the verifier's structured, first-class outcome: per-check
// booleans plus an overall ok flag. A negative result is never an error.
type Result struct {
	OK        bool            `json:"ok"`
	BytesRead int64           `json:"bytes_read"`
	Checks    map[string]bool `json:"checks"`
}

// Verify re-runs the fingerprinter over artifact using the bundle's own
// chunk size, then checks every claim in the bundle against what it
// recomputes.
func Verify(bundle domain.Attestation, artifact io.Reader) (Result, error) {
	checks := map[string]bool{}

	fp, err := fingerprint.Fingerprint(artifact, bundle.Claims.Merkle.ChunkSize)
	if err != nil {
		return Result{}, err
	}

	checks["file_blake2b_match"] = fp.FileDigests.Blake2b512 == bundle.Claims.FileDigests.Blake2b512
	checks["file_sha512_match"] = fp.FileDigests.Sha512 == bundle.Claims.FileDigests.Sha512

	root, err := hex.DecodeString(fp.Commitment.Root)
	if err != nil {
		return Result{}, &domain.CryptoError{Reason: "decode recomputed merkle root", Err: err}
	}
	checks["merkle_root_match"] = fp.Commitment.Root == bundle.Claims.Merkle.Root
	checks["leaf_count_match"] = fp.Commitment.LeafCount == bundle.Claims.Merkle.LeafCount

	claimsCanon, err := canon.CanonicalizeAny(bundle.Claims)
	if err != nil {
		return Result{}, err
	}
	recomputedSignedMessage := sha512Hex(claimsCanon)
	checks["signed_message_hash_match"] = recomputedSignedMessage == bundle.Signature.SignedMessageSha512

	sigValid := verifySignature(bundle.Signature, claimsCanon)
	checks["signature_valid"] = sigValid

	for _, sampled := range bundle.Proofs.Sampled {
		ok, verr := merkle.VerifyInclusionProof(root, sampled)
		key := "sampled_proof_" + sampled.LeafHash[:minInt(8, len(sampled.LeafHash))]
		checks[key] = verr == nil && ok
	}

	ok := true
	for _, v := range checks {
		if !v {
			ok = false
			break
		}
	}

	return Result{OK: ok, BytesRead: fp.Bytes, Checks: checks}, nil
}

func verifySignature(sig domain.Signature, signedBytes []byte) bool {
	block, _ := pem.Decode([]byte(sig.PublicKeyPEM))
	if block == nil {
		return false
	}
	pubAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return false
	}
	pub, ok := pubAny.(ed25519.PublicKey)
	if !ok {
		return false
	}
	sigBytes, err := base64.StdEncoding.DecodeString(sig.SignatureB64)
	if err != nil {
		return false
	}
	if len(pub) != ed25519.PublicKeySize || len(sigBytes) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, signedBytes, sigBytes)
}

func sha512Hex(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
