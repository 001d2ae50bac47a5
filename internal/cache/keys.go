package cache

import (
	"fmt"

	"github.com/google/uuid"
)

const keyPrefix = "mindcanvas:"

func ResultKey(submissionID uuid.UUID) string {
	return fmt.Sprintf("%sresult:%s", keyPrefix, submissionID)
}

func TestStatsKey(testID uint) string {
	return fmt.Sprintf("%stest:%d:stats", keyPrefix, testID)
}
