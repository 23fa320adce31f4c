package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var vaPrefixes = map[string]string{
	"bca":     "1234",
	"bni":     "8810",
	"bri":     "0023",
	"mandiri": "8900",
}

func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic(err)
	}
	return v.Int64()
}

// NewOrderID returns FZ-YYYYMMDDhhmmss-XXXXXX.
func NewOrderID(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderAlphabet[randInt(int64(len(orderAlphabet)))]
	}
	return fmt.Sprintf("FZ-%s-%s", now.Format("20060102150405"), suffix)
}

// NewVANumber returns the bank prefix followed by eight random digits.
func NewVANumber(bank string) string {
	prefix, ok := vaPrefixes[bank]
	if !ok {
		prefix = "9999"
	}
	return fmt.Sprintf("%s%d", prefix, 10000000+randInt(90000000))
}

func NewTransactionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(id[:12])
}
