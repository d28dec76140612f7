// Package helper provides signature verification and validation utilities.
package helper

import (
	"crypto/ecdsa"
	"crypto/subtle"
	"encoding/base64"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/crypto"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// VerifyGovernanceRulesSignatures verifies that the raw rules-container bytes are
// covered by at least minValidSignatures distinct SuperAdmin user ids, each
// verifying against some key in superAdminKeys. minValidSignatures == 0 disables
// verification entirely (test mode) regardless of the other inputs.
func VerifyGovernanceRulesSignatures(
	rulesContainerData []byte,
	signatures []*model.RuleUserSignature,
	superAdminKeys []*ecdsa.PublicKey,
	minValidSignatures int,
) error {
	if minValidSignatures == 0 {
		return nil
	}

	if len(superAdminKeys) == 0 {
		return &model.IntegrityError{Kind: model.KindNoTrustedKeys, Message: "no SuperAdmin keys configured for verification"}
	}
	if len(rulesContainerData) == 0 {
		return &model.IntegrityError{Kind: model.KindEmptyContainer, Message: "rules container data is empty"}
	}
	if len(signatures) == 0 {
		return &model.IntegrityError{Kind: model.KindNoSignatures, Message: "no signatures provided"}
	}

	distinctUsers := make(map[string]bool)
	for _, sig := range signatures {
		if sig == nil || sig.UserID == "" || sig.Signature == "" {
			continue
		}
		if IsValidSignature(rulesContainerData, sig.Signature, superAdminKeys) {
			distinctUsers[sig.UserID] = true
		}
	}

	if len(distinctUsers) < minValidSignatures {
		return &model.IntegrityError{
			Kind:     model.KindInsufficientSignatures,
			Message:  "insufficient distinct SuperAdmin signatures",
			Found:    len(distinctUsers),
			Required: minValidSignatures,
		}
	}

	return nil
}

// IsValidSignature checks if a signature is valid against any of the provided public keys.
// Only the first verifying key is needed; this stops at the first match.
func IsValidSignature(data []byte, base64Signature string, publicKeys []*ecdsa.PublicKey) bool {
	for _, key := range publicKeys {
		if key == nil {
			continue
		}
		valid, err := crypto.VerifySignature(key, data, base64Signature)
		if err == nil && valid {
			return true
		}
	}
	return false
}

// VerifySignatureWithKey verifies a signature against a specific public key.
func VerifySignatureWithKey(data []byte, base64Signature string, publicKey *ecdsa.PublicKey) bool {
	if publicKey == nil {
		return false
	}
	valid, err := crypto.VerifySignature(publicKey, data, base64Signature)
	return err == nil && valid
}

// ConstantTimeCompare compares two strings in constant time to prevent timing attacks.
func ConstantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// VerifyHashCoverage checks if a hash is covered by at least one of the signatures.
// It iterates through every signature and hash to avoid a timing side-channel on
// which entry matched.
func VerifyHashCoverage(hash string, signatures []model.WhitelistSignature) bool {
	found := false
	for _, sig := range signatures {
		for _, h := range sig.Hashes {
			if ConstantTimeCompare(h, hash) {
				found = true
			}
		}
	}
	return found
}

// DecodeBase64 decodes a base64-encoded string.
func DecodeBase64(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// EncodeBase64 encodes bytes to base64 string.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// containsHash checks if a hash is in the list, constant-time per comparison.
func containsHash(hashes []string, hash string) bool {
	for _, h := range hashes {
		if ConstantTimeCompare(h, hash) {
			return true
		}
	}
	return false
}
