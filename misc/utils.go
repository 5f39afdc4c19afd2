package misc

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const StandardTimestamp = `20060102`

// 9 bytes of unixnano and 7 random bytes
func PseudoUUID() string {
	now := time.Now().UnixNano()
	randPart := make([]byte, 7)
	if _, err := rand.Read(randPart); err != nil {
		for i := range randPart {
			randPart[i] = byte(now >> (uint(i) * 8))
		}
	}
	return strconv.FormatInt(now, 10)[1:] + hex.EncodeToString(randPart)
}

func TrimEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
