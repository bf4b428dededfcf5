package verify

import (
	"fmt"
	"sort"
)

func (d Discrepancy) Message() string {
	switch d.Kind {
	case Missing:
		return fmt.Sprintf("Missing file: %s", d.RelPath)
	case DigestMismatch:
		return fmt.Sprintf("Checksum mismatch for: %s\n  Expected: %s\n  Actual:   %s", d.RelPath, d.Expected, d.Actual)
	case Unreadable:
		return fmt.Sprintf("Unreadable file: %s: %v", d.RelPath, d.Err)
	case MissingDirectory:
		return fmt.Sprintf("Missing directory: %s", d.RelPath)
	default:
		return fmt.Sprintf("%s: %s", d.Kind, d.RelPath)
	}
}

// Messages returns one line per discrepancy, sorted by path so repeated runs
// print the same text.
func (r *Report) Messages() []string {
	ds := make([]Discrepancy, len(r.Discrepancies))
	copy(ds, r.Discrepancies)
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].RelPath != ds[j].RelPath {
			return ds[i].RelPath < ds[j].RelPath
		}
		return ds[i].Kind < ds[j].Kind
	})

	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Message())
	}
	return out
}

// Count returns how many discrepancies are of kind k.
func (r *Report) Count(k OutcomeKind) int {
	n := 0
	for _, d := range r.Discrepancies {
		if d.Kind == k {
			n++
		}
	}
	return n
}
