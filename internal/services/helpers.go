package services

import (
	"strconv"
	"strings"
)

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// trimOptional drops blank optional strings so omitempty validation skips them
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
