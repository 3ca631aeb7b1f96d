package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber returns a human-facing order reference,
// ORD-YYYYMMDD-HHMMSS-mmm-XXXXXXXX in UTC. The suffix is 32 random bits.
func GenerateOrderNumber() string {
	return orderNumberAt(time.Now().UTC(), uuid.New())
}

func orderNumberAt(now time.Time, id uuid.UUID) string {
	millis := now.Nanosecond() / int(time.Millisecond)
	suffix := strings.ToUpper(id.String()[:8])
	return fmt.Sprintf("ORD-%s-%03d-%s", now.Format("20060102-150405"), millis, suffix)
}
