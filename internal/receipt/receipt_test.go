package receipt

import (
	"testing"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

func TestNew_ReceiptHashIsDeterministic(t *testing.T) {
	env := domain.EnvSnapshot{GoVersion: "go1.22", OS: "linux", Arch: "amd64"}
	inputs := map[string]any{"file": "a.bin"}
	params := map[string]any{"chunk_size": float64(4194304)}
	outputs := map[string]any{"leaf_count": float64(3)}

	r1, err := New("fingerprint", "run-1", "2026-08-06T00:00:00Z", inputs, params, outputs, env, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r2, err := New("fingerprint", "run-1", "2026-08-06T00:00:00Z", inputs, params, outputs, env, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if r1.ReceiptHash != r2.ReceiptHash {
		t.Fatalf("expected identical receipt hash for identical inputs: %s != %s", r1.ReceiptHash, r2.ReceiptHash)
	}
}

func TestNew_DifferentPrevHashChangesReceiptHash(t *testing.T) {
	env := domain.EnvSnapshot{GoVersion: "go1.22", OS: "linux", Arch: "amd64"}
	r1, err := New("assemble", "run-1", "2026-08-06T00:00:00Z", nil, nil, nil, env, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r2, err := New("assemble", "run-1", "2026-08-06T00:00:00Z", nil, nil, nil, env, "abc123")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if r1.ReceiptHash == r2.ReceiptHash {
		t.Fatal("expected receipt hash to change when prev_receipt_hash changes")
	}
}

func TestTransparencyLog_AppendAndVerifyChain(t *testing.T) {
	dir := t.TempDir()
	log := Open(dir + "/transparency.log")

	hashes := []string{"hash-one", "hash-two", "hash-three"}
	for i, h := range hashes {
		entry, err := log.Append(h, "2026-08-06T00:00:0"+string(rune('0'+i))+"Z")
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if i == 0 && entry.PrevHash != domain.GenesisHash {
			t.Fatalf("expected first entry's prev_hash to be GENESIS, got %q", entry.PrevHash)
		}
	}

	entries, err := ReadAll(dir + "/transparency.log")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if badIdx, err := VerifyChain(entries); err != nil {
		t.Fatalf("chain should verify, failed at entry %d: %v", badIdx, err)
	}
}

func TestVerifyChain_DetectsTampering(t *testing.T) {
	dir := t.TempDir()
	log := Open(dir + "/transparency.log")
	for i, h := range []string{"hash-one", "hash-two"} {
		if _, err := log.Append(h, "2026-08-06T00:00:0"+string(rune('0'+i))+"Z"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := ReadAll(dir + "/transparency.log")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	entries[1].ReceiptHash = "tampered"

	idx, err := VerifyChain(entries)
	if err == nil {
		t.Fatal("expected chain verification to fail after tampering")
	}
	if idx != 1 {
		t.Fatalf("expected failure detected at entry 1, got %d", idx)
	}
}
