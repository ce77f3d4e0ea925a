// Package attest assembles a signed Attestation bundle over an artifact:
// it runs the fingerprinter, builds the manifest, signs the claims, and
// self-verifies a deterministic sample of inclusion proofs.
package attest

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/Dey313/Resethiq-engine/internal/canon"
	"github.com/Dey313/Resethiq-engine/internal/domain"
	"github.com/Dey313/Resethiq-engine/internal/fingerprint"
	"github.com/Dey313/Resethiq-engine/internal/keys/soft"
	"github.com/Dey313/Resethiq-engine/internal/merkle"
)

// EngineName and EngineVersion identify this build in every manifest it
// produces.
const (
	EngineName    = "resethiq-kernel"
	EngineVersion = "1.0.0"
)

// Clock supplies the current time as an RFC-3339 UTC string; tests
// inject a fixed clock so two runs over the same artifact can be
// compared modulo run_id/created_at.
type Clock func() string

// Input bundles everything Assemble needs beyond the artifact bytes.
type Input struct {
	Artifact  io.Reader
	Filename  string
	ChunkSize int64
	Signer    *soft.Signer
	Env       domain.EnvSnapshot
	Now       Clock
	NewRunID  func() string
}

// Assemble runs the full C2-C4 pipeline over in.Artifact and returns the
// finished, signed Attestation plus the raw leaves (callers that also
// want to emit a Receipt need the fingerprint.Result fields, so Assemble
// returns it alongside).
func Assemble(in Input) (domain.Attestation, fingerprint.Result, error) {
	fp, err := fingerprint.Fingerprint(in.Artifact, in.ChunkSize)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, err
	}

	runID := in.NewRunID()
	createdAt := in.Now()

	manifest := domain.Manifest{
		Engine:      domain.EngineIdentity{Name: EngineName, Version: EngineVersion},
		Run:         domain.RunInfo{RunID: runID, CreatedAt: createdAt},
		Subject:     domain.Subject{Filename: in.Filename, ByteCount: fp.Bytes},
		Environment: in.Env,
	}

	manifestCanon, err := canon.CanonicalizeAny(manifest)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, err
	}
	manifestSHA512 := sha512Hex(manifestCanon)

	claims := domain.SignedPayload{
		Schema:         domain.SignedPayloadSchema,
		ManifestSha512: manifestSHA512,
		FileDigests:    fp.FileDigests,
		Merkle:         fp.Commitment,
	}

	claimsCanon, err := canon.CanonicalizeAny(claims)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, err
	}
	signedMessageSHA512 := sha512Hex(claimsCanon)

	ref := domain.KeyRef{Purpose: domain.KeyPurposeSigning}
	sig, err := in.Signer.Sign(ref, claimsCanon)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, err
	}
	pub, err := in.Signer.PublicKey(ref)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, err
	}
	pubPEM, err := soft.PublicKeyPEM(pub)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, err
	}

	root, err := hex.DecodeString(fp.Commitment.Root)
	if err != nil {
		return domain.Attestation{}, fingerprint.Result{}, &domain.CryptoError{Reason: "decode merkle root", Err: err}
	}

	var sampled []domain.InclusionProof
	for _, idx := range merkle.SamplePolicy(fp.Chunks) {
		proof, err := merkle.BuildInclusionProof(fp.Leaves, idx, root)
		if err != nil {
			return domain.Attestation{}, fingerprint.Result{}, err
		}
		sampled = append(sampled, proof)
	}

	bundle := domain.Attestation{
		Schema:   domain.AttestationSchema,
		Manifest: manifest,
		Canonicalization: domain.Canonicalization{
			SpecID:      domain.CanonicalizationSpecID,
			Description: "unit-separator-joined records and sorted-key, whitespace-free JSON",
		},
		Claims: claims,
		Proofs: domain.Proofs{
			Type:       domain.ProofType,
			MerkleRoot: fp.Commitment.Root,
			Algorithm:  domain.MerkleAlgorithm,
			Sampled:    sampled,
		},
		Signature: domain.Signature{
			Algorithm:           "ed25519",
			PublicKeyPEM:        pubPEM,
			SignedMessageSha512: signedMessageSHA512,
			SignatureB64:        base64.StdEncoding.EncodeToString(sig),
		},
	}
	return bundle, fp, nil
}

func sha512Hex(data []byte) string {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:])
}

// DefaultEnvSnapshot captures the running process's Go version, OS, and
// architecture. Callers that need byte-identical output across machines
// should build an EnvSnapshot explicitly instead.
func DefaultEnvSnapshot() domain.EnvSnapshot {
	return domain.EnvSnapshot{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// NewUUIDv4 generates a fresh run id.
func NewUUIDv4() string {
	return uuid.New().String()
}

// DefaultClock returns the current time as RFC-3339 UTC, the manifest's
// timestamp format.
func DefaultClock() string {
	return time.Now().UTC().Format(time.RFC3339)
}
