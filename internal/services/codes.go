package services

import (
	"crypto/rand"
	"math/big"
)

const inviteCodeLength = 12

// URL-safe alphabet so codes can be embedded in links and QR payloads unescaped.
var inviteCodeAlphabet = []rune("useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict")

var blobSuffixAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func generateInviteCode() (string, error) {
	return randomString(inviteCodeLength, inviteCodeAlphabet)
}

func randomString(length int, alphabet []rune) (string, error) {
	b := make([]rune, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}
