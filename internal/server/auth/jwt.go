// Package auth issues and verifies the device tokens that guard the sync
// API. Devices self-register by id; a token proves the request comes from
// a registered device, nothing more.
package auth

import (
	"time"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered claims with the device identifier.
type Claims struct {
	jwt.RegisteredClaims
	DeviceID string
}

// GenerateToken signs an HS256 token for the given device.
func GenerateToken(deviceID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		DeviceID: deviceID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// DeviceIDFromToken verifies a token and returns the device id it carries.
func DeviceIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.DeviceID, nil
}
