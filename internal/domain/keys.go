package domain

// KeyPurpose distinguishes the kernel's two independent Ed25519 keypairs:
// a compromised signing key must not be able to forge transparency-log
// checkpoints, and vice versa.
type KeyPurpose string

const (
	KeyPurposeSigning KeyPurpose = "signing"
	KeyPurposeLog     KeyPurpose = "log"
)

// KeyRef names which keypair a caller wants from the key store.
type KeyRef struct {
	Purpose KeyPurpose
}
