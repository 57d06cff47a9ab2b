package stellar

import (
	"crypto/ed25519"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	errs "github.com/stellovault/backend/internal/domain/error"
)

const (
	// strkey version byte for ed25519 public keys, renders as a leading 'G'
	versionByteAccountID byte = 6 << 3

	addressLength = 56
	payloadLength = 35 // version byte + 32-byte key + 2-byte checksum
)

var base32Encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// SignatureVerifier validates Stellar account addresses and verifies ed25519
// signatures against them. Addresses use the strkey encoding: a version byte,
// the raw public key and a CRC16-XModem checksum, base32-encoded.
type SignatureVerifier struct{}

// NewSignatureVerifier creates a new SignatureVerifier
func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{}
}

// ValidateAddress checks that the address is a well-formed account strkey
func (v *SignatureVerifier) ValidateAddress(address string) error {
	_, err := decodeAddress(address)
	return err
}

// Verify checks an ed25519 signature over message. The signature is accepted
// as hex or base64, whichever decodes to 64 bytes.
func (v *SignatureVerifier) Verify(address, message, signature string) error {
	publicKey, err := decodeAddress(address)
	if err != nil {
		return err
	}

	sigBytes, err := decodeSignature(signature)
	if err != nil {
		return err
	}

	if !ed25519.Verify(publicKey, []byte(message), sigBytes) {
		return errs.ErrInvalidSignature
	}
	return nil
}

// decodeAddress decodes a strkey account address into its raw public key
func decodeAddress(address string) (ed25519.PublicKey, error) {
	if len(address) != addressLength {
		return nil, fmt.Errorf("%w: address must be %d characters", errs.ErrInvalidAddress, addressLength)
	}
	if address[0] != 'G' {
		return nil, fmt.Errorf("%w: account addresses start with G", errs.ErrInvalidAddress)
	}

	payload, err := base32Encoding.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidAddress, err.Error())
	}
	if len(payload) != payloadLength {
		return nil, fmt.Errorf("%w: unexpected payload length %d", errs.ErrInvalidAddress, len(payload))
	}
	if payload[0] != versionByteAccountID {
		return nil, fmt.Errorf("%w: unexpected version byte", errs.ErrInvalidAddress)
	}

	body := payload[:payloadLength-2]
	checksum := uint16(payload[payloadLength-2]) | uint16(payload[payloadLength-1])<<8
	if crc16Checksum(body) != checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", errs.ErrInvalidAddress)
	}

	return ed25519.PublicKey(payload[1 : payloadLength-2]), nil
}

// decodeSignature accepts a 64-byte ed25519 signature as hex or base64
func decodeSignature(signature string) ([]byte, error) {
	if sig, err := hex.DecodeString(signature); err == nil && len(sig) == ed25519.SignatureSize {
		return sig, nil
	}
	if sig, err := base64.StdEncoding.DecodeString(signature); err == nil && len(sig) == ed25519.SignatureSize {
		return sig, nil
	}
	return nil, fmt.Errorf("%w: signature must be a 64-byte hex or base64 string", errs.ErrInvalidSignature)
}

// crc16Checksum computes the CRC16-XModem checksum used by strkey
func crc16Checksum(data []byte) uint16 {
	const polynomial = 0x1021

	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ polynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
