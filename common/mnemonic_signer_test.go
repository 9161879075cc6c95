package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestNewMnemonicSigner(t *testing.T) {
	signer, err := NewMnemonicSigner(testMnemonic)
	assert.NoError(t, err)
	assert.NotNil(t, signer)

	assert.False(t, signer.PublicKey().IsZero())
	assert.Equal(t, signer.privateKey.PublicKey(), signer.PublicKey())

	again, err := NewMnemonicSigner(testMnemonic)
	assert.NoError(t, err)
	assert.Equal(t, signer.PublicKey(), again.PublicKey())

	signer.Destroy()
}

func TestNewMnemonicSignerInvalid(t *testing.T) {
	_, err := NewMnemonicSigner("test test test")
	assert.Error(t, err)
}

func TestMnemonicSigner_Sign(t *testing.T) {
	signer, err := NewMnemonicSigner(testMnemonic)
	require.NoError(t, err)

	data := []byte("test data")
	sig, err := signer.Sign(data)
	assert.NoError(t, err)

	assert.True(t, sig.Verify(signer.PublicKey(), data))
	assert.False(t, sig.Verify(signer.PublicKey(), []byte("other data")))
}

func TestNewMnemonic(t *testing.T) {
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 24)

	signer, err := NewMnemonicSigner(mnemonic)
	require.NoError(t, err)

	other, err := NewMnemonicSigner(testMnemonic)
	require.NoError(t, err)
	assert.NotEqual(t, other.PublicKey(), signer.PublicKey())
}
