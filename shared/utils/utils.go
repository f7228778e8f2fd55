package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	AccountIDPrefix = "acc"

	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength  = 10
)

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

// NewAccountID returns "acc-" followed by ten random alphanumerics.
func NewAccountID() string {
	var b strings.Builder
	b.Grow(len(AccountIDPrefix) + 1 + idLength)
	b.WriteString(AccountIDPrefix)
	b.WriteByte('-')

	max := big.NewInt(int64(len(idCharset)))
	for i := 0; i < idLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		b.WriteByte(idCharset[n.Int64()])
	}
	return b.String()
}

// ValidateAccountID reports whether id has the shape NewAccountID produces.
func ValidateAccountID(id string) bool {
	rest, ok := strings.CutPrefix(id, AccountIDPrefix+"-")
	if !ok || len(rest) != idLength {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if !strings.ContainsRune(idCharset, rune(rest[i])) {
			return false
		}
	}
	return true
}

// NormalizeEmail trims surrounding whitespace. Case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return string(hash), err
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
