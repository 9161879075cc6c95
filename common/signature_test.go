package common

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningMessage(t *testing.T) {
	message := SigningMessage("contribute", 1700000000, "fundraiser", "1000")
	assert.Equal(t, "fundraiser-escrow:contribute:fundraiser:1000:1700000000", string(message))

	message = SigningMessage("withdraw", 5)
	assert.Equal(t, "fundraiser-escrow:withdraw:5", string(message))
}

func TestVerifySignature(t *testing.T) {
	pk, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	message := SigningMessage("refund", 1, "address")

	sig, err := pk.Sign(message)
	require.NoError(t, err)

	parsed, err := ParseSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	assert.NoError(t, VerifySignature(pk.PublicKey(), message, sig))
	assert.ErrorIs(t, VerifySignature(pk.PublicKey(), []byte("other"), sig), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(newTestKey(t), message, sig), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(solana.PublicKey{}, message, sig), ErrInvalidSignature)

	_, err = ParseSignature("bad signature")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
