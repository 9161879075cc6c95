package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomString(t *testing.T) {
	const alphanum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	a := randomString(32)
	b := randomString(32)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	for _, c := range a {
		assert.Contains(t, alphanum, string(c))
	}
}

func TestIndexes(t *testing.T) {
	unique := map[string]bool{}
	for _, idx := range indexes {
		if idx.options.Unique != nil && *idx.options.Unique {
			unique[idx.collection+"."+idx.keys[0].Key] = true
		}
	}

	assert.True(t, unique["fundraisers.address"])
	assert.True(t, unique["fundraisers.maker"])
	assert.True(t, unique["contributors.address"])
	assert.True(t, unique["token_accounts.address"])
	assert.True(t, unique["signatures.signature"])
}
