package service

import "crypto/subtle"

// AdminGate compares request credentials with the single configured admin secret.
type AdminGate struct {
	secret []byte
}

func NewAdminGate(secret string) *AdminGate {
	return &AdminGate{secret: []byte(secret)}
}

// Check reports whether credential exactly matches the secret. It fails
// closed: an empty secret or credential never matches.
func (g *AdminGate) Check(credential string) bool {
	if len(g.secret) == 0 || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(credential)) == 1
}
