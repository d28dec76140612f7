package helper

import (
	"crypto/ecdsa"
	"fmt"
	"sort"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/crypto"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// WhitelistedAddressVerifier drives the six-step verification pipeline for
// signed whitelisted addresses.
type WhitelistedAddressVerifier struct {
	superAdminKeys     []*ecdsa.PublicKey
	minValidSignatures int
}

// NewWhitelistedAddressVerifier creates a new verifier with the given configuration.
func NewWhitelistedAddressVerifier(superAdminKeys []*ecdsa.PublicKey, minValidSignatures int) *WhitelistedAddressVerifier {
	return &WhitelistedAddressVerifier{
		superAdminKeys:     superAdminKeys,
		minValidSignatures: minValidSignatures,
	}
}

// VerificationResult contains the result of verification and the decoded rules container.
type VerificationResult struct {
	// RulesContainer is the decoded and verified rules container.
	RulesContainer *model.DecodedRulesContainer
	// VerifiedAddress is the address parsed from the verified payload.
	VerifiedAddress *model.WhitelistedAddress
	// VerifiedHash is the hash that was matched during verification; it may
	// differ from the envelope's declared hash if a legacy hash format matched.
	VerifiedHash string
}

// VerifyWhitelistedAddress performs the complete six-step verification of a
// whitelisted address envelope. If cachedRulesContainer is supplied, steps 2-3
// (governance signature verification and decoding) are skipped because the
// caller already verified and decoded that exact container.
func (v *WhitelistedAddressVerifier) VerifyWhitelistedAddress(
	addr *model.WhitelistedAddress,
	rulesContainerDecoder func(base64Data string) (*model.DecodedRulesContainer, error),
	userSignaturesDecoder func(base64Data string) ([]*model.RuleUserSignature, error),
	cachedRulesContainer ...*model.DecodedRulesContainer,
) (*VerificationResult, error) {
	if addr == nil {
		return nil, &model.ValidationError{Message: "whitelisted address cannot be nil"}
	}
	if addr.Metadata == nil {
		return nil, &model.ValidationError{Message: "metadata cannot be nil"}
	}

	// Step 1: recompute and compare the enforced-rules hash.
	if err := v.verifyMetadataHash(addr); err != nil {
		return nil, err
	}

	var rulesContainer *model.DecodedRulesContainer
	if len(cachedRulesContainer) > 0 && cachedRulesContainer[0] != nil {
		rulesContainer = cachedRulesContainer[0]
	} else {
		// Step 2: governance rules signatures.
		if err := v.verifyRulesContainerSignatures(addr, userSignaturesDecoder); err != nil {
			return nil, err
		}
		// Step 3: decode the container.
		var err error
		rulesContainer, err = v.decodeRulesContainer(addr, rulesContainerDecoder)
		if err != nil {
			return nil, err
		}
	}

	// Step 5 prep: select signatures that cover the entity's hash.
	verifiedHash, err := v.verifyHashInSignedHashes(addr)
	if err != nil {
		return nil, err
	}

	// Step 6: parse the verified payload; this is the only source of the returned
	// value and of the rule key used below.
	verifiedAddr, err := ParseWhitelistedAddressFromJSON(addr.Metadata.PayloadAsString)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to parse verified address: %v", err)}
	}

	// Step 4 + 5: resolve the rule from the verified payload and check thresholds.
	keyed := *addr
	keyed.Blockchain = verifiedAddr.Blockchain
	keyed.Network = verifiedAddr.Network
	if err := v.verifyWhitelistSignatures(&keyed, rulesContainer, verifiedHash); err != nil {
		return nil, err
	}

	return &VerificationResult{
		RulesContainer:  rulesContainer,
		VerifiedAddress: verifiedAddr,
		VerifiedHash:    verifiedHash,
	}, nil
}

// VerifyAndDecodeRulesContainer verifies SuperAdmin signatures on a rules container
// and decodes it; the result can be stored in the rules-container cache (§4.8)
// and passed back as the cached container.
func (v *WhitelistedAddressVerifier) VerifyAndDecodeRulesContainer(
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

// verifyMetadataHash is step 1.
func (v *WhitelistedAddressVerifier) verifyMetadataHash(addr *model.WhitelistedAddress) error {
	if addr.Metadata.PayloadAsString == "" {
		return &model.IntegrityError{Kind: model.KindHashMismatch, Message: "payloadAsString is empty"}
	}
	if addr.Metadata.Hash == "" {
		return &model.IntegrityError{Kind: model.KindHashMismatch, Message: "metadata hash is empty"}
	}

	computedHash := crypto.Sha256Hex(addr.Metadata.PayloadAsString)
	if !ConstantTimeCompare(computedHash, addr.Metadata.Hash) {
		return &model.IntegrityError{Kind: model.KindHashMismatch, Message: "metadata hash verification failed"}
	}

	return nil
}

// verifyRulesContainerSignatures is step 2.
func (v *WhitelistedAddressVerifier) verifyRulesContainerSignatures(
	addr *model.WhitelistedAddress,
	userSignaturesDecoder func(base64Data string) ([]*model.RuleUserSignature, error),
) error {
	if addr.RulesContainer == "" {
		return &model.IntegrityError{Kind: model.KindEmptyContainer, Message: "rulesContainer is empty"}
	}
	if addr.RulesSignatures == "" {
		return &model.IntegrityError{Kind: model.KindNoSignatures, Message: "rulesSignatures is empty"}
	}

	signatures, err := userSignaturesDecoder(addr.RulesSignatures)
	if err != nil {
		return &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules signatures: %v", err)}
	}

	rulesData, err := DecodeBase64(addr.RulesContainer)
	if err != nil {
		return &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules container: %v", err)}
	}

	return VerifyGovernanceRulesSignatures(rulesData, signatures, v.superAdminKeys, v.minValidSignatures)
}

// decodeRulesContainer is step 3.
func (v *WhitelistedAddressVerifier) decodeRulesContainer(
	addr *model.WhitelistedAddress,
	rulesContainerDecoder func(base64Data string) (*model.DecodedRulesContainer, error),
) (*model.DecodedRulesContainer, error) {
	if rulesContainerDecoder == nil {
		return nil, &model.ValidationError{Message: "rulesContainerDecoder is required"}
	}

	container, err := rulesContainerDecoder(addr.RulesContainer)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode rules container: %v", err)}
	}

	return container, nil
}

// verifyHashInSignedHashes is the signature-selection half of step 5: find
// which of the envelope's metadata hash or its legacy variants is covered by
// at least one signature, returning the hash that was found.
func (v *WhitelistedAddressVerifier) verifyHashInSignedHashes(addr *model.WhitelistedAddress) (string, error) {
	if addr.SignedAddress == nil {
		return "", &model.IntegrityError{Kind: model.KindNoSignatures, Message: "signedAddress is nil"}
	}

	signatures := addr.SignedAddress.Signatures
	if len(signatures) == 0 {
		return "", &model.IntegrityError{Kind: model.KindNoSignatures, Message: "no signatures in signedAddress"}
	}

	providedHash := addr.Metadata.Hash
	if VerifyHashCoverage(providedHash, signatures) {
		return providedHash, nil
	}

	for _, legacyHash := range ComputeLegacyHashes(addr.Metadata.PayloadAsString) {
		if VerifyHashCoverage(legacyHash, signatures) {
			return legacyHash, nil
		}
	}

	return "", &model.IntegrityError{Kind: model.KindNoSignatures, Message: "metadata hash is not covered by any signature"}
}

// verifyWhitelistSignatures resolves the applicable rule (step 4) and
// evaluates its threshold (step 5).
func (v *WhitelistedAddressVerifier) verifyWhitelistSignatures(
	addr *model.WhitelistedAddress,
	rulesContainer *model.DecodedRulesContainer,
	metadataHash string,
) error {
	whitelistRules, err := rulesContainer.FindAddressWhitelistingRules(addr.Blockchain, addr.Network)
	if err != nil {
		return err
	}
	if whitelistRules == nil {
		return &model.IntegrityError{
			Kind:    model.KindNoApplicableRule,
			Message: fmt.Sprintf("no address whitelisting rules found for blockchain=%s network=%s", addr.Blockchain, addr.Network),
		}
	}

	parallelThresholds := v.getApplicableThresholds(whitelistRules, addr)
	if len(parallelThresholds) == 0 {
		return &model.IntegrityError{Kind: model.KindNoApplicableRule, Message: "no threshold rules defined"}
	}

	return evaluateParallelThresholds(parallelThresholds, rulesContainer, addr.SignedAddress.Signatures, metadataHash, addr.ID)
}

// getApplicableThresholds determines which thresholds to use based on rule lines.
// Rule lines are only consulted when the address has no linked internal addresses
// and exactly one linked wallet.
func (v *WhitelistedAddressVerifier) getApplicableThresholds(
	rules *model.AddressWhitelistingRules,
	addr *model.WhitelistedAddress,
) []*model.SequentialThresholds {
	hasLinkedAddresses := len(addr.LinkedInternalAddresses) > 0
	walletCount := len(addr.LinkedWallets)

	shouldCheckRuleLines := !hasLinkedAddresses && walletCount == 1
	if shouldCheckRuleLines && len(rules.Lines) > 0 {
		walletPath := addr.LinkedWallets[0].Path
		for _, line := range rules.Lines {
			if matchesWalletPath(line, walletPath) {
				return line.ParallelThresholds
			}
		}
	}

	return rules.ParallelThresholds
}

// matchesWalletPath checks if a rule line matches the given wallet path.
func matchesWalletPath(line *model.AddressWhitelistingLine, walletPath string) bool {
	if len(line.Cells) == 0 {
		return false
	}
	source := line.Cells[0]
	if source.Type != model.RuleSourceTypeInternalWallet || source.InternalWallet == nil {
		return false
	}
	return walletPath != "" && walletPath == source.InternalWallet.Path
}

// evaluateParallelThresholds implements §4.5: OK iff at least one sequential
// threshold set in parallelThresholds is satisfied in full. The first
// satisfied set wins; on total failure the returned error carries the last
// path's failure reason.
func evaluateParallelThresholds(
	parallelThresholds []*model.SequentialThresholds,
	rulesContainer *model.DecodedRulesContainer,
	signatures []model.WhitelistSignature,
	metadataHash string,
	entityID string,
) error {
	var lastErr error
	for _, seqThreshold := range parallelThresholds {
		if err := verifySequentialThresholds(seqThreshold, rulesContainer, signatures, metadataHash); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = &model.IntegrityError{Kind: model.KindThresholdNotMet, Message: "no threshold paths defined"}
	}
	return &model.IntegrityError{
		Kind:      model.KindThresholdNotMet,
		Message:   fmt.Sprintf("no approval path satisfied the threshold requirements for %q: %v", entityID, lastErr),
		RequestID: entityID,
	}
}

// verifySequentialThresholds checks one sequential-threshold set: every group
// threshold must be met (AND), and the signer sets credited to each group
// threshold in the set must be pairwise disjoint. Signers are allocated
// greedily, in declared order, to the earliest threshold whose group still
// needs them; within a single threshold, ties are broken by sorting candidate
// user ids, which keeps the outcome independent of input signature order.
func verifySequentialThresholds(
	seqThreshold *model.SequentialThresholds,
	rulesContainer *model.DecodedRulesContainer,
	signatures []model.WhitelistSignature,
	metadataHash string,
) error {
	if seqThreshold == nil || len(seqThreshold.Thresholds) == 0 {
		return &model.IntegrityError{Kind: model.KindThresholdNotMet, Message: "no group thresholds defined"}
	}

	used := make(map[string]bool)
	for _, groupThreshold := range seqThreshold.Thresholds {
		if err := verifyGroupThreshold(groupThreshold, rulesContainer, signatures, metadataHash, used); err != nil {
			return err
		}
	}
	return nil
}

// verifyGroupThreshold verifies a single group threshold against the
// signatures not already credited to an earlier threshold in the same
// sequential set, crediting exactly MinimumSignatures users (sorted by id)
// to `used` on success.
func verifyGroupThreshold(
	groupThreshold *model.GroupThreshold,
	rulesContainer *model.DecodedRulesContainer,
	signatures []model.WhitelistSignature,
	metadataHash string,
	used map[string]bool,
) error {
	groupID := groupThreshold.GroupID
	minSigs := groupThreshold.MinimumSignatures

	group := rulesContainer.FindGroupByID(groupID)
	if group == nil {
		return &model.IntegrityError{Kind: model.KindThresholdNotMet, Message: fmt.Sprintf("group %q not found in rules container", groupID)}
	}

	groupUserIDSet := make(map[string]bool, len(group.UserIDs))
	for _, uid := range group.UserIDs {
		groupUserIDSet[uid] = true
	}

	if len(groupUserIDSet) == 0 {
		if minSigs > 0 {
			return &model.IntegrityError{Kind: model.KindThresholdNotMet, Message: fmt.Sprintf("group %q has no users but requires %d signature(s)", groupID, minSigs)}
		}
		return nil
	}

	verified := make(map[string]bool)
	for _, sig := range signatures {
		if sig.UserSignature == nil {
			continue
		}
		uid := sig.UserSignature.UserID
		if used[uid] || verified[uid] || !groupUserIDSet[uid] {
			continue
		}
		if !containsHash(sig.Hashes, metadataHash) {
			continue
		}
		user := rulesContainer.FindUserByID(uid)
		if user == nil || user.PublicKey == nil {
			continue
		}
		valid, err := crypto.VerifySignature(user.PublicKey, []byte(metadataHash), sig.UserSignature.Signature)
		if err == nil && valid {
			verified[uid] = true
		}
	}

	candidates := make([]string, 0, len(verified))
	for uid := range verified {
		candidates = append(candidates, uid)
	}
	sort.Strings(candidates)

	if len(candidates) < minSigs {
		return &model.IntegrityError{
			Kind:     model.KindThresholdNotMet,
			Message:  fmt.Sprintf("group %q requires %d signature(s) but only %d valid", groupID, minSigs, len(candidates)),
			Found:    len(candidates),
			Required: minSigs,
		}
	}

	for _, uid := range candidates[:minSigs] {
		used[uid] = true
	}
	return nil
}
