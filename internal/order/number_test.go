package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReceiptNumber(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 6*int(time.Millisecond), time.FixedZone("UTC+8", 8*3600))

	num := newReceiptNumber(at)

	assert.Regexp(t, regexp.MustCompile(`^RCPT-20240101-190405-006-\d{4}$`), num)
}

func TestNewReceiptNumber_Unique(t *testing.T) {
	seen := map[string]bool{}
	now := time.Now()
	for i := 0; i < 20; i++ {
		seen[newReceiptNumber(now)] = true
	}
	assert.Greater(t, len(seen), 1)
}
