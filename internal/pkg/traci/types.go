package traci

import (
	"fmt"
	"strings"
)

// FieldPolicy decides what happens to a row whose timestamp parsed but one of
// the populated numeric cells did not.
type FieldPolicy string

func (p FieldPolicy) String() string {
	return string(p)
}

const (
	SkipRow   FieldPolicy = "skip_row"   // drop the whole row.
	DropField FieldPolicy = "drop_field" // keep the row, mark the field absent.
	Abort     FieldPolicy = "abort"      // fail the whole extraction.
)

func ParseFieldPolicy(s string) (FieldPolicy, error) {
	p := FieldPolicy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case SkipRow, DropField, Abort:
		return p, nil
	case "":
		return SkipRow, nil
	}
	return "", fmt.Errorf("unknown field policy %q, expected one of %s, %s, %s", s, SkipRow, DropField, Abort)
}
