package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PendingCode código emitido y aún no verificado. Solo se guarda el hash bcrypt.
type PendingCode struct {
	Hash      []byte    `json:"hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewPendingCode hashea el código con bcrypt.
func NewPendingCode(code string, expiresAt time.Time) (PendingCode, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return PendingCode{}, fmt.Errorf("hash code: %w", err)
	}
	return PendingCode{Hash: hash, ExpiresAt: expiresAt}, nil
}

// Expired indica si el código venció en now.
func (p PendingCode) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Matches compara el código recibido contra el hash.
func (p PendingCode) Matches(code string) bool {
	return bcrypt.CompareHashAndPassword(p.Hash, []byte(code)) == nil
}

var codeSpan = big.NewInt(900000)

// RandomCodeGenerator genera códigos en [100000, 999999] con crypto/rand.
type RandomCodeGenerator struct{}

func (RandomCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
