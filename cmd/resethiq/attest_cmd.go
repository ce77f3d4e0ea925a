package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dey313/Resethiq-engine/internal/attest"
	"github.com/Dey313/Resethiq-engine/internal/config"
	"github.com/Dey313/Resethiq-engine/internal/domain"
	"github.com/Dey313/Resethiq-engine/internal/receipt"
	"github.com/Dey313/Resethiq-engine/pkg/evidence"
)

func runAttest(args []string) int {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	cfg := config.FromEnv()
	var chunk int64
	var outDir string
	var keysDir string
	fs.Int64Var(&chunk, "chunk", cfg.ChunkSize, "leaf chunk size in bytes")
	fs.StringVar(&outDir, "out", cfg.OutDir, "output directory for attestation.json")
	fs.StringVar(&keysDir, "keys", cfg.KeysDir, "key store directory")

	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "attest requires exactly one file argument")
		return exitUsageError
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open artifact: %v\n", err)
		return exitError
	}
	defer f.Close()

	env := attest.DefaultEnvSnapshot()
	bundle, err := evidence.Attest(f, evidence.AttestOptions{
		Filename:  path,
		ChunkSize: chunk,
		KeysDir:   keysDir,
		Env:       env,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "attest: %v\n", err)
		return exitError
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		return exitError
	}

	bundleJSON, err := evidence.CanonicalizeAny(bundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode bundle: %v\n", err)
		return exitError
	}

	finalPath := filepath.Join(outDir, "attestation.json")
	if err := writeBundleAtomic(finalPath, bundleJSON); err != nil {
		fmt.Fprintf(os.Stderr, "write bundle: %v\n", err)
		return exitError
	}

	if err := emitReceipts(outDir, cfg.LogPath, bundle, env); err != nil {
		fmt.Fprintf(os.Stderr, "emit receipts: %v\n", err)
		return exitError
	}

	summary := struct {
		Bundle    string `json:"bundle"`
		RunID     string `json:"run_id"`
		LeafCount int    `json:"leaf_count"`
		Root      string `json:"merkle_root"`
	}{
		Bundle:    finalPath,
		RunID:     bundle.Manifest.Run.RunID,
		LeafCount: bundle.Claims.Merkle.LeafCount,
		Root:      bundle.Claims.Merkle.Root,
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode summary: %v\n", err)
		return exitError
	}
	if err := writeOutput("", summaryJSON); err != nil {
		fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
		return exitError
	}
	return exitOK
}

// writeBundleAtomic writes to a temp path and renames into place so a
// cancelled or failed attest run never leaves a partial bundle visible.
func writeBundleAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// emitReceipts writes one receipt file per engine step of this attest
// run and appends the final step's receipt_hash to the transparency
// log.
func emitReceipts(outDir, logPath string, bundle domain.Attestation, env domain.EnvSnapshot) error {
	runID := bundle.Manifest.Run.RunID
	createdAt := bundle.Manifest.Run.CreatedAt

	fingerprintReceipt, err := receipt.New(
		"fingerprint", runID, createdAt,
		map[string]any{"file": bundle.Manifest.Subject.Filename},
		map[string]any{"chunk_size": bundle.Claims.Merkle.ChunkSize},
		map[string]any{"leaf_count": bundle.Claims.Merkle.LeafCount, "bytes": bundle.Manifest.Subject.ByteCount},
		env, "",
	)
	if err != nil {
		return err
	}
	if err := writeReceiptFile(outDir, "receipt-0-fingerprint.json", fingerprintReceipt); err != nil {
		return err
	}

	assembleReceipt, err := receipt.New(
		"attest", runID, createdAt,
		map[string]any{"manifest_sha512": bundle.Claims.ManifestSha512},
		map[string]any{"algorithm": bundle.Signature.Algorithm},
		map[string]any{"merkle_root": bundle.Claims.Merkle.Root, "signed_message_sha512": bundle.Signature.SignedMessageSha512},
		env, fingerprintReceipt.ReceiptHash,
	)
	if err != nil {
		return err
	}
	if err := writeReceiptFile(outDir, "receipt-1-attest.json", assembleReceipt); err != nil {
		return err
	}

	log := receipt.Open(logPath)
	if _, err := log.Append(assembleReceipt.ReceiptHash, createdAt); err != nil {
		return err
	}
	return nil
}

func writeReceiptFile(dir, name string, r domain.Receipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}
