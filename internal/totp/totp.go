// Package totp wraps one-time-password verification for MFA enrollment and
// login. Codes are the 6-digit, 30-second kind authenticator apps produce.
package totp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Validate reports whether code is currently valid for the base32 secret.
// One step of clock skew is tolerated in both directions.
func Validate(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// GenerateSecret mints a fresh enrollment secret and its otpauth URI for the
// given account, suitable for rendering as a QR code.
func GenerateSecret(issuer, account string) (secret, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}
