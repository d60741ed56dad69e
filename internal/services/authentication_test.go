package services

import (
	"fmt"
	"strings"
	"testing"

	"neftit/internal/models"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, message string) (address string, signature string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := crypto.Keccak256Hash([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)))
	sig, err := crypto.Sign(hash.Bytes(), key)
	require.NoError(t, err)

	// wallets emit v as 27/28
	sig[64] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestVerifySignature(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	require.NoError(t, err)

	message := "Sign in to NEFTIT\nnonce: 42"
	address, signature := signPersonal(t, message)

	assert.NoError(t, authentication.VerifySignature(address, message, signature))
	assert.NoError(t, authentication.VerifySignature(strings.ToLower(address), message, signature))

	assert.Error(t, authentication.VerifySignature(address, "different message", signature))
	assert.Error(t, authentication.VerifySignature("0x0000000000000000000000000000000000000001", message, signature))
	assert.Error(t, authentication.VerifySignature("not-an-address", message, signature))
	assert.Error(t, authentication.VerifySignature(address, message, "0xdeadbeef"))
}

func TestTokenRoundTrip(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	require.NoError(t, err)

	token, err := authentication.CreateToken(&models.WalletFromAuth{Address: "0xAbC0000000000000000000000000000000000123"})
	require.NoError(t, err)

	wallet, err := authentication.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "0xabc0000000000000000000000000000000000123", wallet.Address)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	a, err := NewAuthentication("secret-a")
	require.NoError(t, err)
	b, err := NewAuthentication("secret-b")
	require.NoError(t, err)

	token, err := a.CreateToken(&models.WalletFromAuth{Address: "0xabc0000000000000000000000000000000000123"})
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.Error(t, err)
}
