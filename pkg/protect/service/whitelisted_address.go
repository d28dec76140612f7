package service

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/helper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/mapper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// WhitelistedAddressVerifier drives the six-step verification pipeline (§4.4)
// against whitelisted addresses the caller has already fetched and unmarshaled
// into model types. It never performs transport I/O (§1).
type WhitelistedAddressVerifier struct {
	verifier *helper.WhitelistedAddressVerifier
}

// WhitelistedAddressVerifierConfig holds the trust root for signature verification.
type WhitelistedAddressVerifierConfig struct {
	// SuperAdminKeys are the public keys used to verify governance rules signatures.
	SuperAdminKeys []*ecdsa.PublicKey
	// MinValidSignatures is the minimum number of valid SuperAdmin signatures required.
	MinValidSignatures int
}

// NewWhitelistedAddressVerifier creates a WhitelistedAddressVerifier with the given trust root.
func NewWhitelistedAddressVerifier(config *WhitelistedAddressVerifierConfig) *WhitelistedAddressVerifier {
	v := &WhitelistedAddressVerifier{}
	if config != nil {
		v.verifier = helper.NewWhitelistedAddressVerifier(config.SuperAdminKeys, config.MinValidSignatures)
	}
	return v
}

// VerifyAddress runs the complete six-step verification on a whitelisted address
// and returns the address parsed from the verified payload. If cached is
// supplied, steps 2-3 (governance signature verification and decoding) are
// skipped in favor of the already-verified container, typically sourced from
// a cache.RulesContainerCache.
func (v *WhitelistedAddressVerifier) VerifyAddress(
	addr *model.WhitelistedAddress,
	cached ...*model.DecodedRulesContainer,
) (*helper.VerificationResult, error) {
	if v.verifier == nil {
		return nil, &model.IntegrityError{Message: "verification is required but no verifier is configured"}
	}
	if addr == nil {
		return nil, &model.ValidationError{Message: "whitelisted address cannot be nil"}
	}

	if len(cached) == 0 || cached[0] == nil {
		if addr.Metadata == nil || addr.RulesContainer == "" || addr.SignedAddress == nil {
			return nil, &model.IntegrityError{Message: "verification enabled but required data missing"}
		}
	} else if addr.Metadata == nil || addr.SignedAddress == nil {
		return nil, &model.IntegrityError{Message: "verification enabled but required data missing"}
	}

	return v.verifier.VerifyWhitelistedAddress(
		addr,
		mapper.RulesContainerFromBase64,
		mapper.UserSignaturesFromBase64,
		cached...,
	)
}

// VerifyEnvelope runs the six-step verification on a whitelisted address
// envelope and populates its verified fields via SetVerified. The envelope is
// the caller's unmarshaled wire response; this method never fetches anything.
func (v *WhitelistedAddressVerifier) VerifyEnvelope(
	envelope *model.WhitelistedAddressEnvelope,
	cached ...*model.DecodedRulesContainer,
) error {
	if v.verifier == nil {
		return &model.IntegrityError{Message: "verification is required but no verifier is configured"}
	}
	if envelope == nil {
		return fmt.Errorf("envelope cannot be nil")
	}
	if envelope.Metadata == nil {
		return &model.IntegrityError{Message: "metadata is required for verification"}
	}
	if envelope.SignedAddress == nil {
		return &model.IntegrityError{Message: "signed address is required for verification"}
	}
	if (len(cached) == 0 || cached[0] == nil) && envelope.RulesContainer == "" {
		return &model.IntegrityError{Message: "rules container is required for verification"}
	}

	tempAddr := &model.WhitelistedAddress{
		ID:                      envelope.ID,
		Blockchain:              envelope.Blockchain,
		Network:                 envelope.Network,
		Metadata:                envelope.Metadata,
		SignedAddress:           envelope.SignedAddress,
		RulesContainer:          envelope.RulesContainer,
		RulesSignatures:         envelope.RulesSignatures,
		LinkedInternalAddresses: envelope.LinkedInternalAddresses,
		LinkedWallets:           envelope.LinkedWallets,
	}

	result, err := v.verifier.VerifyWhitelistedAddress(
		tempAddr,
		mapper.RulesContainerFromBase64,
		mapper.UserSignaturesFromBase64,
		cached...,
	)
	if err != nil {
		return err
	}

	envelope.SetVerified(result.VerifiedAddress, result.RulesContainer)
	return nil
}
