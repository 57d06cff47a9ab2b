package stellar

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/stellovault/backend/internal/domain/error"
)

// encodeAddress builds the strkey account address for a raw public key,
// mirroring what wallets do on the client side
func encodeAddress(t *testing.T, publicKey ed25519.PublicKey) string {
	t.Helper()
	require.Len(t, publicKey, ed25519.PublicKeySize)

	body := make([]byte, 0, payloadLength)
	body = append(body, versionByteAccountID)
	body = append(body, publicKey...)

	checksum := crc16Checksum(body)
	payload := append(body, byte(checksum&0xff), byte(checksum>>8))

	return base32Encoding.EncodeToString(payload)
}

func generateKeypair(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return encodeAddress(t, publicKey), privateKey
}

func TestValidateAddress(t *testing.T) {
	verifier := NewSignatureVerifier()

	t.Run("accepts well-formed address", func(t *testing.T) {
		address, _ := generateKeypair(t)
		assert.Len(t, address, 56)
		assert.Equal(t, byte('G'), address[0])
		assert.NoError(t, verifier.ValidateAddress(address))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		err := verifier.ValidateAddress("GSHORT")
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})

	t.Run("rejects wrong prefix", func(t *testing.T) {
		address, _ := generateKeypair(t)
		err := verifier.ValidateAddress("S" + address[1:])
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})

	t.Run("rejects corrupted checksum", func(t *testing.T) {
		address, _ := generateKeypair(t)

		// flip the last character to another base32 symbol
		last := address[len(address)-1]
		replacement := byte('A')
		if last == 'A' {
			replacement = 'B'
		}
		corrupted := address[:len(address)-1] + string(replacement)

		err := verifier.ValidateAddress(corrupted)
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})

	t.Run("rejects non-base32 characters", func(t *testing.T) {
		address, _ := generateKeypair(t)
		corrupted := address[:10] + "!" + address[11:]
		err := verifier.ValidateAddress(corrupted)
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})

	t.Run("rejects lowercase", func(t *testing.T) {
		address, _ := generateKeypair(t)
		err := verifier.ValidateAddress(strings.ToLower(address))
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})
}

func TestVerify(t *testing.T) {
	verifier := NewSignatureVerifier()
	message := "Sign this message to authenticate with StelloVault:\n\nPurpose: LOGIN\nNonce: abc123"

	t.Run("accepts valid hex signature", func(t *testing.T) {
		address, privateKey := generateKeypair(t)
		signature := ed25519.Sign(privateKey, []byte(message))

		err := verifier.Verify(address, message, hex.EncodeToString(signature))
		assert.NoError(t, err)
	})

	t.Run("accepts valid base64 signature", func(t *testing.T) {
		address, privateKey := generateKeypair(t)
		signature := ed25519.Sign(privateKey, []byte(message))

		err := verifier.Verify(address, message, base64.StdEncoding.EncodeToString(signature))
		assert.NoError(t, err)
	})

	t.Run("rejects signature from another key", func(t *testing.T) {
		address, _ := generateKeypair(t)
		_, otherKey := generateKeypair(t)
		signature := ed25519.Sign(otherKey, []byte(message))

		err := verifier.Verify(address, message, hex.EncodeToString(signature))
		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("rejects signature over a different message", func(t *testing.T) {
		address, privateKey := generateKeypair(t)
		signature := ed25519.Sign(privateKey, []byte("something else"))

		err := verifier.Verify(address, message, hex.EncodeToString(signature))
		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("rejects malformed signature encoding", func(t *testing.T) {
		address, _ := generateKeypair(t)

		err := verifier.Verify(address, message, "not-a-signature")
		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("rejects truncated signature", func(t *testing.T) {
		address, privateKey := generateKeypair(t)
		signature := ed25519.Sign(privateKey, []byte(message))

		err := verifier.Verify(address, message, hex.EncodeToString(signature[:32]))
		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("rejects invalid address before touching the signature", func(t *testing.T) {
		err := verifier.Verify("GNOTANADDRESS", message, "00")
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})
}
