package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"neftit/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	return &Authentication{secret}, nil
}

func (authentication *Authentication) CreateToken(wallet *models.WalletFromAuth) (string, error) {
	claims := CustomClaims{
		Address: strings.ToLower(wallet.Address),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (*models.WalletFromAuth, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return &models.WalletFromAuth{
		Address: claims.Address,
	}, nil
}

// VerifySignature recovers the signer of a personal_sign message and
// checks it matches the claimed address.
func (authentication *Authentication) VerifySignature(address string, message string, signature string) error {
	if !common.IsHexAddress(address) {
		return errors.New("invalid wallet address")
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return err
	}
	if len(sig) != 65 {
		return errors.New("invalid signature length")
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	hash := crypto.Keccak256Hash([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)))
	pubKey, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return err
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	if recovered != common.HexToAddress(address) {
		return errors.New("signature does not match address")
	}

	return nil
}
