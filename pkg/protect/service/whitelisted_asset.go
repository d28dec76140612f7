package service

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/helper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/mapper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// WhitelistedAssetVerifier drives the six-step verification pipeline against
// whitelisted contract addresses (assets) the caller has already fetched and
// unmarshaled into model types. It never performs transport I/O (§1).
type WhitelistedAssetVerifier struct {
	verifier *helper.WhitelistedAssetVerifier
}

// WhitelistedAssetVerifierConfig holds the trust root for signature verification.
type WhitelistedAssetVerifierConfig struct {
	// SuperAdminKeys are the public keys used to verify governance rules signatures.
	SuperAdminKeys []*ecdsa.PublicKey
	// MinValidSignatures is the minimum number of valid SuperAdmin signatures required.
	MinValidSignatures int
}

// NewWhitelistedAssetVerifier creates a WhitelistedAssetVerifier with the given trust root.
func NewWhitelistedAssetVerifier(config *WhitelistedAssetVerifierConfig) *WhitelistedAssetVerifier {
	v := &WhitelistedAssetVerifier{}
	if config != nil {
		v.verifier = helper.NewWhitelistedAssetVerifier(config.SuperAdminKeys, config.MinValidSignatures)
	}
	return v
}

// VerifyAsset runs the complete six-step verification on a whitelisted asset
// and returns the asset parsed from the verified payload. If cached is
// supplied, steps 2-3 are skipped in favor of the already-verified container.
func (v *WhitelistedAssetVerifier) VerifyAsset(
	asset *model.WhitelistedAsset,
	cached ...*model.DecodedRulesContainer,
) (*helper.AssetVerificationResult, error) {
	if v.verifier == nil {
		return nil, &model.IntegrityError{Message: "verification is required but no verifier is configured"}
	}
	if asset == nil {
		return nil, &model.ValidationError{Message: "whitelisted asset cannot be nil"}
	}

	if len(cached) == 0 || cached[0] == nil {
		if asset.Metadata == nil || asset.RulesContainer == "" || asset.SignedContractAddress == nil {
			return nil, &model.IntegrityError{Message: "verification enabled but required data missing"}
		}
	} else if asset.Metadata == nil || asset.SignedContractAddress == nil {
		return nil, &model.IntegrityError{Message: "verification enabled but required data missing"}
	}

	return v.verifier.VerifyWhitelistedAsset(
		asset,
		mapper.RulesContainerFromBase64,
		mapper.UserSignaturesFromBase64,
		cached...,
	)
}

// VerifyEnvelope runs the six-step verification on a whitelisted asset
// envelope and populates its verified fields via SetVerified.
func (v *WhitelistedAssetVerifier) VerifyEnvelope(
	envelope *model.WhitelistedAssetEnvelope,
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
	if envelope.SignedContractAddress == nil {
		return &model.IntegrityError{Message: "signed contract address is required for verification"}
	}
	if (len(cached) == 0 || cached[0] == nil) && envelope.RulesContainer == "" {
		return &model.IntegrityError{Message: "rules container is required for verification"}
	}

	tempAsset := &model.WhitelistedAsset{
		ID:                    envelope.ID,
		Blockchain:            envelope.Blockchain,
		Network:               envelope.Network,
		Metadata:              envelope.Metadata,
		SignedContractAddress: envelope.SignedContractAddress,
		RulesContainer:        envelope.RulesContainer,
		RulesSignatures:       envelope.RulesSignatures,
	}

	result, err := v.verifier.VerifyWhitelistedAsset(
		tempAsset,
		mapper.RulesContainerFromBase64,
		mapper.UserSignaturesFromBase64,
		cached...,
	)
	if err != nil {
		return err
	}

	envelope.SetVerified(result.VerifiedAsset, result.RulesContainer)
	return nil
}
