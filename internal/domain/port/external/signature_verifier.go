package external

// SignatureVerifier validates wallet addresses and verifies wallet signatures
// under the platform's signature scheme (ed25519 over the canonical challenge
// message, 64-byte signatures accepted as hex or base64).
type SignatureVerifier interface {
	// ValidateAddress returns ErrInvalidAddress when the address is not a
	// well-formed wallet public key
	ValidateAddress(address string) error

	// Verify checks the signature over message against the address's public
	// key; returns ErrInvalidSignature on mismatch or malformed input
	Verify(address, message, signature string) error
}
