package utils

import (
	"strconv"
	"strings"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ParseID parses a positive row id.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseIDs keeps the valid ids of a multi-value form field, in order, without duplicates.
func ParseIDs(values []string) []uint {
	seen := make(map[uint]bool, len(values))
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			id, ok := ParseID(part)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
