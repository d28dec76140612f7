package helper

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/crypto"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// WhitelistedAssetVerifier drives the six-step verification pipeline for
// signed whitelisted contract addresses (assets). Contract whitelisting
// uses parallelThresholds directly: there is no rule-line matching by
// wallet path, since contract addresses are not linked to internal wallets.
type WhitelistedAssetVerifier struct {
	superAdminKeys     []*ecdsa.PublicKey
	minValidSignatures int
}

// NewWhitelistedAssetVerifier creates a new verifier with the given configuration.
func NewWhitelistedAssetVerifier(superAdminKeys []*ecdsa.PublicKey, minValidSignatures int) *WhitelistedAssetVerifier {
	return &WhitelistedAssetVerifier{
		superAdminKeys:     superAdminKeys,
		minValidSignatures: minValidSignatures,
	}
}

// AssetVerificationResult contains the result of verification and the decoded rules container.
type AssetVerificationResult struct {
	// RulesContainer is the decoded and verified rules container.
	RulesContainer *model.DecodedRulesContainer
	// VerifiedAsset is the asset parsed from the verified payload.
	VerifiedAsset *model.WhitelistedAsset
	// VerifiedHash is the hash that was matched during verification.
	VerifiedHash string
}

// VerifyWhitelistedAsset performs the complete six-step verification of a
// whitelisted contract address envelope.
func (v *WhitelistedAssetVerifier) VerifyWhitelistedAsset(
	asset *model.WhitelistedAsset,
	rulesContainerDecoder func(base64Data string) (*model.DecodedRulesContainer, error),
	userSignaturesDecoder func(base64Data string) ([]*model.RuleUserSignature, error),
	cachedRulesContainer ...*model.DecodedRulesContainer,
) (*AssetVerificationResult, error) {
	if asset == nil {
		return nil, &model.ValidationError{Message: "whitelisted asset cannot be nil"}
	}
	if asset.Metadata == nil {
		return nil, &model.ValidationError{Message: "metadata cannot be nil"}
	}

	// Step 1: recompute and compare the enforced-rules hash.
	if err := v.verifyAssetMetadataHash(asset); err != nil {
		return nil, err
	}

	var rulesContainer *model.DecodedRulesContainer
	if len(cachedRulesContainer) > 0 && cachedRulesContainer[0] != nil {
		rulesContainer = cachedRulesContainer[0]
	} else {
		// Step 2: governance rules signatures.
		if err := v.verifyAssetRulesContainerSignatures(asset, userSignaturesDecoder); err != nil {
			return nil, err
		}
		// Step 3: decode the container.
		var err error
		rulesContainer, err = v.decodeAssetRulesContainer(asset, rulesContainerDecoder)
		if err != nil {
			return nil, err
		}
	}

	// Step 5 prep: select which hash is covered by at least one signature.
	verifiedHash, err := v.verifyAssetHashInSignedHashes(asset)
	if err != nil {
		return nil, err
	}

	// Step 4 + 5: resolve the applicable rule and check its threshold.
	if err := v.verifyAssetWhitelistSignatures(asset, rulesContainer, verifiedHash); err != nil {
		return nil, err
	}

	// Step 6: parse the verified payload.
	verifiedAsset, err := parseWhitelistedAssetFromJSON(asset)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to parse verified asset: %v", err)}
	}

	return &AssetVerificationResult{
		RulesContainer: rulesContainer,
		VerifiedAsset:  verifiedAsset,
		VerifiedHash:   verifiedHash,
	}, nil
}

// VerifyAndDecodeRulesContainer verifies SuperAdmin signatures on a rules container
// and decodes it.
func (v *WhitelistedAssetVerifier) VerifyAndDecodeRulesContainer(
	rulesContainerBase64 string,
	rulesSignaturesBase64 string,
	rulesContainerDecoder func(base64Data string) (*model.DecodedRulesContainer, error),
	userSignaturesDecoder func(base64Data string) ([]*model.RuleUserSignature, error),
) (*model.DecodedRulesContainer, error) {
	if rulesContainerBase64 == "" {
		return nil, &model.IntegrityError{Kind: model.KindEmptyContainer, Message: "rulesContainer is empty"}
	}
	if rulesSignaturesBase64 == "" {
		return nil, &model.IntegrityError{Kind: model.KindNoSignatures, Message: "rulesSignatures is empty"}
	}

	signatures, err := userSignaturesDecoder(rulesSignaturesBase64)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules signatures: %v", err)}
	}

	rulesData, err := DecodeBase64(rulesContainerBase64)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules container: %v", err)}
	}

	if err := VerifyGovernanceRulesSignatures(rulesData, signatures, v.superAdminKeys, v.minValidSignatures); err != nil {
		return nil, err
	}

	container, err := rulesContainerDecoder(rulesContainerBase64)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules container: %v", err)}
	}

	return container, nil
}

func (v *WhitelistedAssetVerifier) verifyAssetMetadataHash(asset *model.WhitelistedAsset) error {
	if asset.Metadata.PayloadAsString == "" {
		return &model.IntegrityError{Kind: model.KindHashMismatch, Message: "payloadAsString is empty"}
	}
	if asset.Metadata.Hash == "" {
		return &model.IntegrityError{Kind: model.KindHashMismatch, Message: "metadata hash is empty"}
	}

	computedHash := crypto.Sha256Hex(asset.Metadata.PayloadAsString)
	if !ConstantTimeCompare(computedHash, asset.Metadata.Hash) {
		return &model.IntegrityError{Kind: model.KindHashMismatch, Message: "metadata hash verification failed"}
	}

	return nil
}

func (v *WhitelistedAssetVerifier) verifyAssetRulesContainerSignatures(
	asset *model.WhitelistedAsset,
	userSignaturesDecoder func(base64Data string) ([]*model.RuleUserSignature, error),
) error {
	if asset.RulesContainer == "" {
		return &model.IntegrityError{Kind: model.KindEmptyContainer, Message: "rulesContainer is empty"}
	}
	if asset.RulesSignatures == "" {
		return &model.IntegrityError{Kind: model.KindNoSignatures, Message: "rulesSignatures is empty"}
	}

	signatures, err := userSignaturesDecoder(asset.RulesSignatures)
	if err != nil {
		return &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules signatures: %v", err)}
	}

	rulesData, err := DecodeBase64(asset.RulesContainer)
	if err != nil {
		return &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules container: %v", err)}
	}

	return VerifyGovernanceRulesSignatures(rulesData, signatures, v.superAdminKeys, v.minValidSignatures)
}

func (v *WhitelistedAssetVerifier) decodeAssetRulesContainer(
	asset *model.WhitelistedAsset,
	rulesContainerDecoder func(base64Data string) (*model.DecodedRulesContainer, error),
) (*model.DecodedRulesContainer, error) {
	if rulesContainerDecoder == nil {
		return nil, &model.ValidationError{Message: "rulesContainerDecoder is required"}
	}

	container, err := rulesContainerDecoder(asset.RulesContainer)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules container: %v", err)}
	}

	return container, nil
}

func (v *WhitelistedAssetVerifier) verifyAssetHashInSignedHashes(asset *model.WhitelistedAsset) (string, error) {
	if asset.SignedContractAddress == nil {
		return "", &model.IntegrityError{Kind: model.KindNoSignatures, Message: "signedContractAddress is nil"}
	}

	signatures := asset.SignedContractAddress.Signatures
	if len(signatures) == 0 {
		return "", &model.IntegrityError{Kind: model.KindNoSignatures, Message: "no signatures in signedContractAddress"}
	}

	providedHash := asset.Metadata.Hash
	if VerifyHashCoverage(providedHash, signatures) {
		return providedHash, nil
	}

	for _, legacyHash := range ComputeAssetLegacyHashes(asset.Metadata.PayloadAsString) {
		if VerifyHashCoverage(legacyHash, signatures) {
			return legacyHash, nil
		}
	}

	return "", &model.IntegrityError{Kind: model.KindNoSignatures, Message: "metadata hash is not covered by any signature"}
}

func (v *WhitelistedAssetVerifier) verifyAssetWhitelistSignatures(
	asset *model.WhitelistedAsset,
	rulesContainer *model.DecodedRulesContainer,
	metadataHash string,
) error {
	whitelistRules, err := rulesContainer.FindContractAddressWhitelistingRules(asset.Blockchain, asset.Network)
	if err != nil {
		return err
	}
	if whitelistRules == nil {
		return &model.IntegrityError{
			Kind:    model.KindNoApplicableRule,
			Message: fmt.Sprintf("no contract address whitelisting rules found for blockchain=%s network=%s", asset.Blockchain, asset.Network),
		}
	}

	if len(whitelistRules.ParallelThresholds) == 0 {
		return &model.IntegrityError{Kind: model.KindNoApplicableRule, Message: "no threshold rules defined"}
	}

	return evaluateParallelThresholds(whitelistRules.ParallelThresholds, rulesContainer, asset.SignedContractAddress.Signatures, metadataHash, asset.ID)
}

// parseWhitelistedAssetFromJSON reads the "blockchain" and "network" keys of
// the cryptographically verified payload string; other payload fields are
// not copied into the returned asset.
func parseWhitelistedAssetFromJSON(asset *model.WhitelistedAsset) (*model.WhitelistedAsset, error) {
	if asset.Metadata.PayloadAsString == "" {
		return nil, fmt.Errorf("payload is empty")
	}
	var payload struct {
		Blockchain string `json:"blockchain"`
		Network    string `json:"network"`
	}
	if err := json.Unmarshal([]byte(asset.Metadata.PayloadAsString), &payload); err != nil {
		return nil, fmt.Errorf("invalid payload JSON: %w", err)
	}

	return &model.WhitelistedAsset{
		ID:         asset.ID,
		Blockchain: payload.Blockchain,
		Network:    payload.Network,
		Metadata:   asset.Metadata,
	}, nil
}
