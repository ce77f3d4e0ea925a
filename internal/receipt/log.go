package receipt

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// TransparencyLog is an append-only, hash-chained ledger of receipt
// hashes backed by a single UTF-8 text file, one entry per line, fields
// tab-separated.
type TransparencyLog struct {
	path string
}

// Open returns a handle to the log file at path; the file itself is
// created lazily on first Append.
func Open(path string) *TransparencyLog {
	return &TransparencyLog{path: path}
}

// Append reads the last line of the log (if any) to recover prevHash,
// computes this entry's entry_hash, and atomically appends the new
// line. The read-last-line/append pair is serialized by an exclusive
// file lock so concurrent appenders cannot interleave.
func (l *TransparencyLog) Append(receiptHash, timestamp string) (domain.TransparencyEntry, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return domain.TransparencyEntry{}, &domain.IOError{Op: "open", Path: l.path, Err: err}
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return domain.TransparencyEntry{}, &domain.IOError{Op: "flock", Path: l.path, Err: err}
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	prevHash, err := lastEntryHash(f)
	if err != nil {
		return domain.TransparencyEntry{}, err
	}

	entryHash := computeEntryHash(prevHash, receiptHash, timestamp)
	entry := domain.TransparencyEntry{
		Timestamp:   timestamp,
		ReceiptHash: receiptHash,
		PrevHash:    prevHash,
		EntryHash:   entryHash,
	}

	line := fmt.Sprintf("%s\t%s\t%s\t%s\n", entry.Timestamp, entry.ReceiptHash, entry.PrevHash, entry.EntryHash)
	if _, err := f.Seek(0, 2); err != nil {
		return domain.TransparencyEntry{}, &domain.IOError{Op: "seek", Path: l.path, Err: err}
	}
	if _, err := f.WriteString(line); err != nil {
		return domain.TransparencyEntry{}, &domain.IOError{Op: "write", Path: l.path, Err: err}
	}
	return entry, nil
}

// lastEntryHash scans f (already positioned at 0 via a fresh open) for
// the last line's entry_hash field, returning domain.GenesisHash if the
// file has no lines yet.
func lastEntryHash(f *os.File) (string, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return "", &domain.IOError{Op: "seek", Path: f.Name(), Err: err}
	}
	scanner := bufio.NewScanner(f)
	last := ""
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		last = line
	}
	if err := scanner.Err(); err != nil {
		return "", &domain.IOError{Op: "read", Path: f.Name(), Err: err}
	}
	if last == "" {
		return domain.GenesisHash, nil
	}
	fields := strings.Split(last, "\t")
	if len(fields) != 4 {
		return "", &domain.IOError{Op: "parse", Path: f.Name(), Err: fmt.Errorf("malformed log line: %q", last)}
	}
	return fields[3], nil
}

func computeEntryHash(prevHash, receiptHash, timestamp string) string {
	data := prevHash + "\n" + receiptHash + "\n" + timestamp
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// ReadAll parses every line of the log file into TransparencyEntry
// values, in file order.
func ReadAll(path string) ([]domain.TransparencyEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var entries []domain.TransparencyEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, &domain.IOError{Op: "parse", Path: path, Err: fmt.Errorf("malformed log line: %q", line)}
		}
		entries = append(entries, domain.TransparencyEntry{
			Timestamp:   fields[0],
			ReceiptHash: fields[1],
			PrevHash:    fields[2],
			EntryHash:   fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}
	return entries, nil
}

// VerifyChain walks entries forward from GENESIS and re-derives every
// entry_hash, failing loudly on the first line that does not reproduce
// its stored hash or does not chain from the previous line. It returns
// the index of the first bad line, or -1 if the whole chain verifies.
func VerifyChain(entries []domain.TransparencyEntry) (int, error) {
	prevHash := domain.GenesisHash
	for i, entry := range entries {
		if entry.PrevHash != prevHash {
			return i, fmt.Errorf("entry %d: prev_hash %q does not match preceding entry_hash %q", i, entry.PrevHash, prevHash)
		}
		want := computeEntryHash(entry.PrevHash, entry.ReceiptHash, entry.Timestamp)
		if want != entry.EntryHash {
			return i, fmt.Errorf("entry %d: entry_hash %q does not reproduce from its fields (want %q)", i, entry.EntryHash, want)
		}
		prevHash = entry.EntryHash
	}
	return -1, nil
}
