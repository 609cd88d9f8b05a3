package mathrand

import (
	crand "crypto/rand"
	"math/rand" // want "math/rand import is forbidden, use crypto/rand"
)

func Pick(n int) int {
	return rand.Intn(n)
}

func Fill(b []byte) {
	_, _ = crand.Read(b)
}
