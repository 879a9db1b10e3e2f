package billing

import (
	"strconv"
	"strings"
)

// encodeInvoiceIDs joins ids the way they are stored in session metadata.
func encodeInvoiceIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// parseInvoiceIDs reads the metadata id list. Entries that are not positive
// integers are dropped, duplicates collapse, order is kept.
func parseInvoiceIDs(meta map[string]string) []int64 {
	raw := meta[MetaInvoiceIDs]
	ids := []int64{}
	seen := map[int64]bool{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// uniquePositive drops non-positive ids and duplicates, keeping order.
func uniquePositive(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
