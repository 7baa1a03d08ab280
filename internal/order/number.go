package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// newReceiptNumber returns a human-readable receipt reference,
// e.g. RCPT-20240101-120000-123-0042.
func newReceiptNumber(now time.Time) string {
	now = now.UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("RCPT-%s-%03d-%04d", datePart, millis, n.Int64())
}
