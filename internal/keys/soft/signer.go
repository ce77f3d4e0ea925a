package soft

import (
	"crypto/ed25519"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// Signer wraps a directory of load-or-create PEM keypairs and signs
// payloads with whichever purpose's keypair the caller asks for.
type Signer struct {
	dir string
}

// NewSigner returns a Signer rooted at dir. Keypairs are created lazily
// on first Sign/PublicKey call for a given purpose, not at construction
// time.
func NewSigner(dir string) *Signer {
	return &Signer{dir: dir}
}

// Sign loads (or creates) the keypair for ref.Purpose and signs payload.
func (s *Signer) Sign(ref domain.KeyRef, payload []byte) ([]byte, error) {
	kp, err := LoadOrCreate(s.dir, ref.Purpose)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(kp.Private, payload), nil
}

// PublicKey loads (or creates) the keypair for ref.Purpose and returns
// its public half.
func (s *Signer) PublicKey(ref domain.KeyRef) (ed25519.PublicKey, error) {
	kp, err := LoadOrCreate(s.dir, ref.Purpose)
	if err != nil {
		return nil, err
	}
	return kp.Public, nil
}

// Verify checks sig over payload against pubKey.
func Verify(pubKey ed25519.PublicKey, payload, sig []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pubKey, payload, sig)
}
