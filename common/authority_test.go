package common

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignedAuthority(t *testing.T) {
	pk, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	message := SigningMessage("initialize", 1)
	sig, err := pk.Sign(message)
	require.NoError(t, err)

	authority, err := NewSignedAuthority(pk.PublicKey(), message, sig)
	require.NoError(t, err)
	assert.True(t, authority.Valid())
	assert.False(t, authority.IsProgram())
	assert.Equal(t, pk.PublicKey(), authority.Key())
	assert.Equal(t, pk.PublicKey().String(), authority.String())

	_, err = NewSignedAuthority(newTestKey(t), message, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewSignerAuthority(t *testing.T) {
	signer, err := NewMnemonicSigner(testMnemonic)
	require.NoError(t, err)

	authority, err := NewSignerAuthority(signer, []byte("message"))
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKey(), authority.Key())
}

func TestNewProgramAuthority(t *testing.T) {
	programID := solana.MustPublicKeyFromBase58(testProgramID)
	maker := newTestKey(t)

	address, bump, err := FundraiserAddress(programID, maker)
	require.NoError(t, err)

	authority, err := NewProgramAuthority(programID, FundraiserSeeds(maker), bump)
	require.NoError(t, err)
	assert.True(t, authority.Valid())
	assert.True(t, authority.IsProgram())
	assert.Equal(t, address, authority.Key())

	// another maker's seeds cannot produce this address
	other, err := NewProgramAuthority(programID, FundraiserSeeds(newTestKey(t)), bump)
	if err == nil {
		assert.NotEqual(t, address, other.Key())
	} else {
		assert.ErrorIs(t, err, ErrInvalidAuthority)
	}
}

func TestZeroAuthority(t *testing.T) {
	var authority Authority
	assert.False(t, authority.Valid())
	assert.True(t, authority.Key().IsZero())
}
