package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const numberSuffixLen = 6

// GenerateOrderNumber builds a human-shareable order number: a millisecond
// timestamp prefix plus a random base36 suffix. Uniqueness is probabilistic;
// the unique index on orders.order_number is the actual backstop and callers
// retry on collision.
func GenerateOrderNumber() string {
	millis := time.Now().UnixMilli()

	max := new(big.Int).Exp(big.NewInt(36), big.NewInt(numberSuffixLen), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(time.Now().UnixNano())
		n.Mod(n, max)
	}

	suffix := strconv.FormatInt(n.Int64(), 36)
	for len(suffix) < numberSuffixLen {
		suffix = "0" + suffix
	}

	return fmt.Sprintf("ORD-%d-%s", millis, suffix)
}
