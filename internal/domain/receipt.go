package domain

// Receipt is a self-hashing descriptor of one engine step, optionally
// linked to the receipt of the step before it.
type Receipt struct {
	Version         int            `json:"version"`
	Engine          string         `json:"engine"`
	RunID           string         `json:"run_id"`
	CreatedAt       string         `json:"created_at"`
	Inputs          map[string]any `json:"inputs"`
	Params          map[string]any `json:"params"`
	Outputs         map[string]any `json:"outputs"`
	Environment     EnvSnapshot    `json:"environment"`
	PrevReceiptHash string         `json:"prev_receipt_hash,omitempty"`
	ReceiptHash     string         `json:"receipt_hash"`
}

// GenesisHash is the sentinel prev_hash for the first line of a
// transparency log.
const GenesisHash = "GENESIS"

// TransparencyEntry is one hash-chained line of the append-only log.
type TransparencyEntry struct {
	Timestamp   string
	ReceiptHash string
	PrevHash    string
	EntryHash   string
}
