package domain

// SignedPayload is the structure whose canonical JSON bytes are signed.
// manifest_sha512 binds the signature to a specific manifest without
// embedding the manifest itself in the signed bytes twice.
type SignedPayload struct {
	Schema         string           `json:"schema"`
	ManifestSha512 string           `json:"manifest_sha512"`
	FileDigests    FileDigests      `json:"file_digests"`
	Merkle         MerkleCommitment `json:"merkle"`
}

// Canonicalization documents which canonicalization discipline produced
// the leaves feeding the Merkle tree.
type Canonicalization struct {
	SpecID      string `json:"spec_id"`
	Description string `json:"description"`
}

// Proofs carries the sampled inclusion proofs shipped in a bundle.
type Proofs struct {
	Type      string           `json:"type"`
	MerkleRoot string          `json:"merkle_root"`
	Algorithm string           `json:"algorithm"`
	Sampled   []InclusionProof `json:"sampled"`
}

// Signature is the Ed25519 signature block over a SignedPayload's
// canonical JSON bytes.
type Signature struct {
	Algorithm            string `json:"algorithm"`
	PublicKeyPEM         string `json:"public_key_pem"`
	SignedMessageSha512  string `json:"signed_message_sha512"`
	SignatureB64         string `json:"signature_b64"`
}

// Attestation is the full bundle document emitted by the assembler and
// consumed by the verifier.
type Attestation struct {
	Schema           string           `json:"schema"`
	Manifest         Manifest         `json:"manifest"`
	Canonicalization Canonicalization `json:"canonicalization"`
	Claims           SignedPayload    `json:"claims"`
	Proofs           Proofs           `json:"proofs"`
	Signature        Signature        `json:"signature"`
}

// AttestationSchema is the bundle's top-level schema identifier.
const AttestationSchema = "resethiq.attestation.v1"

// SignedPayloadSchema is the claims object's schema identifier.
const SignedPayloadSchema = "resethiq.signed_payload.v1"

// MerkleAlgorithm names the hash algorithm used throughout the Merkle
// engine and file digests.
const MerkleAlgorithm = "blake2b512"

// ProofType names the inclusion-proof flavor carried in a bundle.
const ProofType = "merkle_inclusion_v1"

// CanonicalizationSpecID names the record canonicalization discipline.
const CanonicalizationSpecID = "cdr-stream-v1"
