package accounts

import (
	"golang.org/x/crypto/bcrypt"
	"katb.in/katbin/internal/credential"
)

func credentialVerifier() credential.Verifier {
	return credential.Verifier{Cost: bcrypt.MinCost}
}
