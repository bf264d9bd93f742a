package service

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNumber produces an ORD-<yyyyMMddHHmmss>-<NNN> identifier.
// Timestamp plus a random 3-digit suffix is only best-effort unique; the
// unique index on orders.order_number is the backstop, and callers retry
// with a fresh number on a duplicate-key error.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%03d", time.Now().Format("20060102150405"), rand.IntN(1000))
}
