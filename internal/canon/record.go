package canon

import (
	"sort"
	"strings"

	"github.com/Dey313/Resethiq-engine/internal/domain"
)

// unitSeparator is the ASCII 0x1F byte used to join record fields.
const unitSeparator = "\x1f"

// CanonicalizeRecord maps a structured record to its canonical byte
// sequence: a Positional record stringifies each value (empty string for
// an absent one) and joins with the unit separator; a Keyed record sorts
// its pairs by key, emits each as "key=value", and joins the same way.
func CanonicalizeRecord(r domain.Record) ([]byte, error) {
	switch r.Kind {
	case domain.RecordPositional:
		return []byte(strings.Join(r.Values, unitSeparator)), nil
	case domain.RecordKeyed:
		pairs := make([]domain.KV, len(r.Pairs))
		copy(pairs, r.Pairs)
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
		fields := make([]string, len(pairs))
		for i, kv := range pairs {
			fields[i] = kv.Key + "=" + kv.Value
		}
		return []byte(strings.Join(fields, unitSeparator)), nil
	default:
		return nil, &domain.CanonicalizationError{Kind: "unknown_record_kind"}
	}
}
