// Package soft implements the kernel's key store: Ed25519 keypairs
// persisted as PEM files on disk, created on first use and never
// rewritten afterward.
package soft

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// KeyPair is a loaded or freshly generated Ed25519 keypair.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// filenames returns the public/private PEM filenames for a purpose.
func filenames(purpose domain.KeyPurpose) (pub, priv string) {
	switch purpose {
	case domain.KeyPurposeLog:
		return "ed25519_log_public.pem", "ed25519_log_private.pem"
	default:
		return "ed25519_public.pem", "ed25519_private.pem"
	}
}

// LoadOrCreate ensures dir exists, then loads the PEM keypair for purpose
// if both files are present; otherwise it generates a fresh keypair,
// writes SPKI/PKCS8 PEM files, and returns it. Cold-start generation is
// guarded by an exclusive file lock so two concurrent callers targeting
// the same directory cannot generate and clobber two different
// keypairs.
func LoadOrCreate(dir string, purpose domain.KeyPurpose) (KeyPair, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return KeyPair{}, &domain.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	pubName, privName := filenames(purpose)
	pubPath := filepath.Join(dir, pubName)
	privPath := filepath.Join(dir, privName)

	if kp, ok, err := tryLoad(pubPath, privPath); err != nil {
		return KeyPair{}, err
	} else if ok {
		return kp, nil
	}

	unlock, err := lockDir(dir)
	if err != nil {
		return KeyPair{}, err
	}
	defer unlock()

	// Re-check after acquiring the lock: another process may have
	// finished a cold start while we were waiting for it.
	if kp, ok, err := tryLoad(pubPath, privPath); err != nil {
		return KeyPair{}, err
	} else if ok {
		return kp, nil
	}

	return generateAndPersist(pubPath, privPath)
}

func tryLoad(pubPath, privPath string) (KeyPair, bool, error) {
	pubExists := fileExists(pubPath)
	privExists := fileExists(privPath)
	if !pubExists || !privExists {
		return KeyPair{}, false, nil
	}
	kp, err := loadPair(pubPath, privPath)
	if err != nil {
		return KeyPair{}, false, err
	}
	return kp, true, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func loadPair(pubPath, privPath string) (KeyPair, error) {
	pubPEM, err := os.ReadFile(pubPath)
	if err != nil {
		return KeyPair{}, &domain.IOError{Op: "read", Path: pubPath, Err: err}
	}
	privPEM, err := os.ReadFile(privPath)
	if err != nil {
		return KeyPair{}, &domain.IOError{Op: "read", Path: privPath, Err: err}
	}

	pubBlock, _ := pem.Decode(pubPEM)
	if pubBlock == nil {
		return KeyPair{}, &domain.CryptoError{Reason: fmt.Sprintf("no PEM block in %s", pubPath)}
	}
	privBlock, _ := pem.Decode(privPEM)
	if privBlock == nil {
		return KeyPair{}, &domain.CryptoError{Reason: fmt.Sprintf("no PEM block in %s", privPath)}
	}

	pubAny, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	if err != nil {
		return KeyPair{}, &domain.CryptoError{Reason: "parse SPKI public key", Err: err}
	}
	pub, ok := pubAny.(ed25519.PublicKey)
	if !ok {
		return KeyPair{}, &domain.CryptoError{Reason: "public key is not ed25519"}
	}

	privAny, err := x509.ParsePKCS8PrivateKey(privBlock.Bytes)
	if err != nil {
		return KeyPair{}, &domain.CryptoError{Reason: "parse PKCS8 private key", Err: err}
	}
	priv, ok := privAny.(ed25519.PrivateKey)
	if !ok {
		return KeyPair{}, &domain.CryptoError{Reason: "private key is not ed25519"}
	}

	return KeyPair{Public: pub, Private: priv}, nil
}

func generateAndPersist(pubPath, privPath string) (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, &domain.CryptoError{Reason: "generate ed25519 keypair", Err: err}
	}

	pubBytes, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return KeyPair{}, &domain.CryptoError{Reason: "marshal SPKI public key", Err: err}
	}
	privBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return KeyPair{}, &domain.CryptoError{Reason: "marshal PKCS8 private key", Err: err}
	}

	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})

	if err := writeFileAtomic(pubPath, pubPEM, 0o644); err != nil {
		return KeyPair{}, err
	}
	if err := writeFileAtomic(privPath, privPEM, 0o600); err != nil {
		return KeyPair{}, err
	}

	return KeyPair{Public: pub, Private: priv}, nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return &domain.IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// lockDir takes an exclusive, advisory lock on a ".keys.lock" file inside
// dir. Go's module ecosystem has no flock library in this codebase's
// dependency surface, so this uses the syscall package directly, as the
// transparency log's Append does for its own lock.
func lockDir(dir string) (func(), error) {
	lockPath := filepath.Join(dir, ".keys.lock")
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, &domain.IOError{Op: "open", Path: lockPath, Err: err}
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, &domain.IOError{Op: "flock", Path: lockPath, Err: err}
	}
	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}

// PublicKeyPEM re-encodes pub as an SPKI PEM block, matching what
// LoadOrCreate writes to disk.
func PublicKeyPEM(pub ed25519.PublicKey) (string, error) {
	pubBytes, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", &domain.CryptoError{Reason: "marshal SPKI public key", Err: err}
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})), nil
}
