package soft

import (
	"os"
	"testing"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

func TestLoadOrCreate_GeneratesThenPersists(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrCreate(dir, domain.KeyPurposeSigning)
	if err != nil {
		t.Fatalf("load or create: %v", err)
	}

	pubPath := dir + "/ed25519_public.pem"
	privPath := dir + "/ed25519_private.pem"
	if _, err := os.Stat(pubPath); err != nil {
		t.Fatalf("expected public key file: %v", err)
	}
	info, err := os.Stat(privPath)
	if err != nil {
		t.Fatalf("expected private key file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected private key permissions 0600, got %o", info.Mode().Perm())
	}

	second, err := LoadOrCreate(dir, domain.KeyPurposeSigning)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if string(first.Public) != string(second.Public) {
		t.Fatal("second load should return the same keypair, not generate a new one")
	}
}

func TestLoadOrCreate_SigningAndLogKeysAreIndependent(t *testing.T) {
	dir := t.TempDir()

	signingKP, err := LoadOrCreate(dir, domain.KeyPurposeSigning)
	if err != nil {
		t.Fatalf("load signing: %v", err)
	}
	logKP, err := LoadOrCreate(dir, domain.KeyPurposeLog)
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if string(signingKP.Public) == string(logKP.Public) {
		t.Fatal("signing and log keypairs must be independent")
	}
}

func TestSigner_SignAndVerifyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	signer := NewSigner(dir)
	ref := domain.KeyRef{Purpose: domain.KeyPurposeSigning}

	payload := []byte("evidence bytes")
	sig, err := signer.Sign(ref, payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	pub, err := signer.PublicKey(ref)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	if !Verify(pub, payload, sig) {
		t.Fatal("expected signature to verify")
	}
	if Verify(pub, []byte("different bytes"), sig) {
		t.Fatal("expected signature over different bytes to fail")
	}
}
