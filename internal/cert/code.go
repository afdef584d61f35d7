package cert

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodePrefix is shared by issuance-flow codes (8 random chars) and quick-link
// codes (6 random chars). The validator never assumes a length: codes are
// opaque tokens once minted.
const CodePrefix = "ATIV-"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	IssueCodeLen = 8
	QuickCodeLen = 6
)

// NewCode mints CodePrefix followed by n random uppercase base-36 characters.
func NewCode(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("mint code: %w", err)
		}
		buf[i] = codeAlphabet[v.Int64()]
	}
	return CodePrefix + string(buf), nil
}
