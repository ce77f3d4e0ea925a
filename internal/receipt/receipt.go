// Package receipt implements per-engine-step receipts and the
// append-only, hash-chained transparency log they feed into.
package receipt

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Dey313/Resethiq-engine/internal/canon"
	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// New builds a Receipt for one engine step and computes its receipt_hash
// over the canonical JSON of every other field. If prevReceiptHash is
// non-empty, the new receipt links to it.
func New(engine, runID, createdAt string, inputs, params, outputs map[string]any, env domain.EnvSnapshot, prevReceiptHash string) (domain.Receipt, error) {
	r := domain.Receipt{
		Version:         1,
		Engine:          engine,
		RunID:           runID,
		CreatedAt:       createdAt,
		Inputs:          inputs,
		Params:          params,
		Outputs:         outputs,
		Environment:     env,
		PrevReceiptHash: prevReceiptHash,
	}
	hash, err := hashReceiptFields(r)
	if err != nil {
		return domain.Receipt{}, err
	}
	r.ReceiptHash = hash
	return r, nil
}

// hashReceiptFields canonicalizes every field of r except ReceiptHash
// itself and returns its SHA-256 hex digest.
func hashReceiptFields(r domain.Receipt) (string, error) {
	withoutHash := struct {
		Version         int                `json:"version"`
		Engine          string             `json:"engine"`
		RunID           string             `json:"run_id"`
		CreatedAt       string             `json:"created_at"`
		Inputs          map[string]any     `json:"inputs"`
		Params          map[string]any     `json:"params"`
		Outputs         map[string]any     `json:"outputs"`
		Environment     domain.EnvSnapshot `json:"environment"`
		PrevReceiptHash string             `json:"prev_receipt_hash,omitempty"`
	}{
		Version:         r.Version,
		Engine:          r.Engine,
		RunID:           r.RunID,
		CreatedAt:       r.CreatedAt,
		Inputs:          r.Inputs,
		Params:          r.Params,
		Outputs:         r.Outputs,
		Environment:     r.Environment,
		PrevReceiptHash: r.PrevReceiptHash,
	}
	canonical, err := canon.CanonicalizeAny(withoutHash)
	if err != nil {
		return "", err
	}
	return sha256Hex(canonical), nil
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
