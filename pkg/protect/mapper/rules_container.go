package mapper

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/taurushq-io/protect-trust-go/internal/rulespb"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/crypto"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// roleNames maps the protobuf role enum integers to the textual role names
// used throughout the governance and whitelist verifiers. Unknown integers
// are preserved as "UNKNOWN_<n>" rather than dropped, so a newer server
// talking to an older client still surfaces the role it asserted.
var roleNames = map[int32]string{
	0: "UNSPECIFIED",
	1: "SUPERADMIN",
	2: "HSMSLOT",
	3: "REQUESTAPPROVER",
	4: "USER",
	5: "OPERATOR",
}

func roleName(n int32) string {
	if name, ok := roleNames[n]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%d", n)
}

// RulesContainerFromBase64 decodes a base64-encoded rules container into a
// model.DecodedRulesContainer. It tries a protobuf decode first and falls
// back to JSON, per the container's dual-format wire contract; an empty
// input decodes to an empty container.
func RulesContainerFromBase64(base64Data string) (*model.DecodedRulesContainer, error) {
	if base64Data == "" {
		return &model.DecodedRulesContainer{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode base64: %v", err)}
	}

	return RulesContainerFromBytes(data)
}

// RulesContainerFromBytes decodes raw container bytes, trying protobuf then
// JSON before giving up.
func RulesContainerFromBytes(data []byte) (*model.DecodedRulesContainer, error) {
	if len(data) == 0 {
		return &model.DecodedRulesContainer{}, nil
	}

	if pbContainer, err := rulespb.Unmarshal(data); err == nil && isStructurallyMeaningful(pbContainer) {
		return rulesContainerFromProto(pbContainer), nil
	}

	if container, err := rulesContainerFromJSON(data); err == nil {
		return container, nil
	}

	return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: "rules container is neither valid protobuf nor valid JSON"}
}

// isStructurallyMeaningful reports whether a successfully-parsed protobuf
// message actually carries content, as opposed to a zero-value result from
// feeding it JSON bytes that happened not to error during wire parsing.
func isStructurallyMeaningful(c *rulespb.RulesContainer) bool {
	return len(c.Users) > 0 || len(c.Groups) > 0 ||
		len(c.AddressWhitelistingRules) > 0 || len(c.ContractAddressWhitelistingRules) > 0
}

func rulesContainerFromProto(pb *rulespb.RulesContainer) *model.DecodedRulesContainer {
	container := &model.DecodedRulesContainer{
		MinimumDistinctUserSignatures:  int(pb.MinimumDistinctUserSignatures),
		MinimumDistinctGroupSignatures: int(pb.MinimumDistinctGroupSignatures),
		EnforcedRulesHash:              pb.EnforcedRulesHash,
		Timestamp:                      int64(pb.Timestamp),
		MinimumCommitmentSignatures:    int(pb.MinimumCommitmentSignatures),
		EngineIdentities:               pb.EngineIdentities,
		HsmSlotId:                      pb.HsmSlotID,
	}

	for _, u := range pb.Users {
		container.Users = append(container.Users, userFromProto(u))
	}
	for _, g := range pb.Groups {
		container.Groups = append(container.Groups, &model.RuleGroup{ID: g.ID, UserIDs: g.UserIDs})
	}
	for _, r := range pb.AddressWhitelistingRules {
		container.AddressWhitelistingRules = append(container.AddressWhitelistingRules, addressWhitelistingRulesFromProto(r))
	}
	for _, r := range pb.ContractAddressWhitelistingRules {
		container.ContractAddressWhitelistingRules = append(container.ContractAddressWhitelistingRules, &model.ContractAddressWhitelistingRules{
			Blockchain:         r.Blockchain,
			Network:            r.Network,
			ParallelThresholds: sequentialThresholdsSliceFromProto(r.ParallelThresholds),
		})
	}

	return container
}

func userFromProto(pb *rulespb.User) *model.RuleUser {
	user := &model.RuleUser{
		ID:           pb.ID,
		PublicKeyPEM: string(pb.PublicKey),
	}
	for _, role := range pb.Roles {
		user.Roles = append(user.Roles, roleName(role))
	}
	if user.PublicKeyPEM != "" {
		if key, err := crypto.DecodePublicKeyPEM(user.PublicKeyPEM); err == nil {
			user.PublicKey = key
		}
	}
	return user
}

func addressWhitelistingRulesFromProto(pb *rulespb.AddressWhitelistingRules) *model.AddressWhitelistingRules {
	rules := &model.AddressWhitelistingRules{
		Currency:                pb.Currency,
		Network:                 pb.Network,
		ParallelThresholds:      sequentialThresholdsSliceFromProto(pb.ParallelThresholds),
		IncludeNetworkInPayload: pb.IncludeNetworkInPayload,
	}
	for _, line := range pb.Lines {
		rules.Lines = append(rules.Lines, addressWhitelistingLineFromProto(line))
	}
	return rules
}

func addressWhitelistingLineFromProto(pb *rulespb.AddressWhitelistingLine) *model.AddressWhitelistingLine {
	line := &model.AddressWhitelistingLine{
		ParallelThresholds: sequentialThresholdsSliceFromProto(pb.ParallelThresholds),
	}
	for _, cellBytes := range pb.Cells {
		if source := ruleSourceFromBytes(cellBytes); source != nil {
			line.Cells = append(line.Cells, source)
		}
	}
	return line
}

func ruleSourceFromBytes(data []byte) *model.RuleSource {
	pbSource, err := rulespb.UnmarshalRuleSource(data)
	if err != nil {
		return nil
	}

	source := &model.RuleSource{Type: model.RuleSourceType(pbSource.Type)}
	if source.Type == model.RuleSourceTypeInternalWallet && len(pbSource.Payload) > 0 {
		if wallet, err := rulespb.UnmarshalRuleSourceInternalWallet(pbSource.Payload); err == nil {
			source.InternalWallet = &model.RuleSourceInternalWallet{Path: wallet.Path}
		}
	}
	return source
}

func sequentialThresholdsSliceFromProto(pb []*rulespb.SequentialThresholds) []*model.SequentialThresholds {
	var out []*model.SequentialThresholds
	for _, pt := range pb {
		out = append(out, sequentialThresholdsFromProto(pt))
	}
	return out
}

func sequentialThresholdsFromProto(pb *rulespb.SequentialThresholds) *model.SequentialThresholds {
	st := &model.SequentialThresholds{}
	for _, t := range pb.Thresholds {
		st.Thresholds = append(st.Thresholds, &model.GroupThreshold{
			GroupID:           t.GroupID,
			MinimumSignatures: int(t.MinimumSignatures),
		})
	}
	return st
}

// UserSignaturesFromBase64 decodes base64-encoded rules signatures, trying
// protobuf then JSON.
func UserSignaturesFromBase64(base64Data string) ([]*model.RuleUserSignature, error) {
	if base64Data == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("failed to decode base64: %v", err)}
	}

	return UserSignaturesFromBytes(data)
}

// UserSignaturesFromBytes decodes raw rules-signatures bytes, trying
// protobuf then a JSON array/object fallback.
func UserSignaturesFromBytes(data []byte) ([]*model.RuleUserSignature, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if pbSigs, err := rulespb.UnmarshalUserSignatures(data); err == nil && len(pbSigs.Signatures) > 0 {
		var signatures []*model.RuleUserSignature
		for _, sig := range pbSigs.Signatures {
			signatures = append(signatures, &model.RuleUserSignature{
				UserID:    sig.UserID,
				Signature: base64.StdEncoding.EncodeToString(sig.Signature),
			})
		}
		return signatures, nil
	}

	signatures, err := userSignaturesFromJSON(data)
	if err != nil {
		return nil, &model.IntegrityError{Kind: model.KindMalformedContainer, Message: fmt.Sprintf("rules signatures are neither valid protobuf nor valid JSON: %v", err)}
	}
	return signatures, nil
}

// --- JSON fallback decoding -------------------------------------------------
//
// The governance-rules API can also hand back the rules container and its
// signatures as plain JSON (camelCase or snake_case keys, PEM keys under
// either "publicKey" or "publicKeyPem"). normalizeJSONKeys folds every key
// to camelCase before unmarshaling so a single set of struct tags covers
// both conventions.

type jsonRulesContainer struct {
	Users                             []jsonUser                            `json:"users"`
	Groups                            []jsonGroup                           `json:"groups"`
	MinimumDistinctUserSignatures     int                                   `json:"minimumDistinctUserSignatures"`
	MinimumDistinctGroupSignatures    int                                   `json:"minimumDistinctGroupSignatures"`
	AddressWhitelistingRules          []jsonAddressWhitelistingRules        `json:"addressWhitelistingRules"`
	ContractAddressWhitelistingRules []jsonContractAddressWhitelistingRules `json:"contractAddressWhitelistingRules"`
	EnforcedRulesHash                 string                                `json:"enforcedRulesHash"`
	Timestamp                         int64                                 `json:"timestamp"`
	MinimumCommitmentSignatures       int                                   `json:"minimumCommitmentSignatures"`
	EngineIdentities                  []string                              `json:"engineIdentities"`
	HsmSlotId                         uint32                                `json:"hsmSlotId"`
}

type jsonUser struct {
	ID           string            `json:"id"`
	PublicKey    string            `json:"publicKey"`
	PublicKeyPem string            `json:"publicKeyPem"`
	Roles        []string          `json:"roles"`
	Properties   map[string]string `json:"properties"`
}

type jsonGroup struct {
	ID      string   `json:"id"`
	UserIDs []string `json:"userIds"`
}

type jsonSequentialThresholds struct {
	Thresholds []jsonGroupThreshold `json:"thresholds"`
}

type jsonGroupThreshold struct {
	GroupID           string `json:"groupId"`
	MinimumSignatures int    `json:"minimumSignatures"`
}

type jsonRuleSource struct {
	Type           string                      `json:"type"`
	InternalWallet *jsonRuleSourceInternalWallet `json:"internalWallet"`
}

type jsonRuleSourceInternalWallet struct {
	Path string `json:"path"`
}

type jsonAddressWhitelistingLine struct {
	Cells              []jsonRuleSource `json:"cells"`
	ParallelThresholds json.RawMessage  `json:"parallelThresholds"`
}

type jsonAddressWhitelistingRules struct {
	Currency                string                        `json:"currency"`
	Network                 string                        `json:"network"`
	ParallelThresholds      json.RawMessage               `json:"parallelThresholds"`
	Lines                   []jsonAddressWhitelistingLine `json:"lines"`
	IncludeNetworkInPayload bool                          `json:"includeNetworkInPayload"`
}

type jsonContractAddressWhitelistingRules struct {
	Blockchain         string          `json:"blockchain"`
	Network            string          `json:"network"`
	ParallelThresholds json.RawMessage `json:"parallelThresholds"`
}

func rulesContainerFromJSON(data []byte) (*model.DecodedRulesContainer, error) {
	normalized, err := normalizeJSONKeys(data)
	if err != nil {
		return nil, err
	}

	var jc jsonRulesContainer
	if err := json.Unmarshal(normalized, &jc); err != nil {
		return nil, err
	}

	container := &model.DecodedRulesContainer{
		MinimumDistinctUserSignatures:  jc.MinimumDistinctUserSignatures,
		MinimumDistinctGroupSignatures: jc.MinimumDistinctGroupSignatures,
		EnforcedRulesHash:              jc.EnforcedRulesHash,
		Timestamp:                      jc.Timestamp,
		MinimumCommitmentSignatures:    jc.MinimumCommitmentSignatures,
		EngineIdentities:               jc.EngineIdentities,
		HsmSlotId:                      jc.HsmSlotId,
	}

	for _, u := range jc.Users {
		pem := u.PublicKey
		if pem == "" {
			pem = u.PublicKeyPem
		}
		user := &model.RuleUser{ID: u.ID, PublicKeyPEM: pem, Roles: u.Roles}
		if pem != "" {
			if key, err := crypto.DecodePublicKeyPEM(pem); err == nil {
				user.PublicKey = key
			}
		}
		container.Users = append(container.Users, user)
	}

	for _, g := range jc.Groups {
		container.Groups = append(container.Groups, &model.RuleGroup{ID: g.ID, UserIDs: g.UserIDs})
	}

	for _, r := range jc.AddressWhitelistingRules {
		parallel, err := sequentialThresholdsSliceFromJSON(r.ParallelThresholds)
		if err != nil {
			return nil, err
		}
		rule := &model.AddressWhitelistingRules{
			Currency:                r.Currency,
			Network:                 r.Network,
			ParallelThresholds:      parallel,
			IncludeNetworkInPayload: r.IncludeNetworkInPayload,
		}
		for _, l := range r.Lines {
			lineParallel, err := sequentialThresholdsSliceFromJSON(l.ParallelThresholds)
			if err != nil {
				return nil, err
			}
			line := &model.AddressWhitelistingLine{
				ParallelThresholds: lineParallel,
			}
			for _, cell := range l.Cells {
				line.Cells = append(line.Cells, ruleSourceFromJSON(cell))
			}
			rule.Lines = append(rule.Lines, line)
		}
		container.AddressWhitelistingRules = append(container.AddressWhitelistingRules, rule)
	}

	for _, r := range jc.ContractAddressWhitelistingRules {
		parallel, err := sequentialThresholdsSliceFromJSON(r.ParallelThresholds)
		if err != nil {
			return nil, err
		}
		container.ContractAddressWhitelistingRules = append(container.ContractAddressWhitelistingRules, &model.ContractAddressWhitelistingRules{
			Blockchain:         r.Blockchain,
			Network:            r.Network,
			ParallelThresholds: parallel,
		})
	}

	return container, nil
}

func ruleSourceFromJSON(j jsonRuleSource) *model.RuleSource {
	source := &model.RuleSource{Type: model.RuleSourceTypeUnknown}
	if strings.EqualFold(j.Type, "internalWallet") || j.InternalWallet != nil {
		source.Type = model.RuleSourceTypeInternalWallet
		if j.InternalWallet != nil {
			source.InternalWallet = &model.RuleSourceInternalWallet{Path: j.InternalWallet.Path}
		}
	}
	return source
}

// sequentialThresholdsSliceFromJSON decodes a parallelThresholds array, which
// the governance-rules API encodes in one of two shapes (§4.1):
//
//   - current nested form: [{"thresholds":[{"groupId":..,"minimumSignatures":..}]}, ...]
//   - legacy flat form:     [{"groupId":..,"minimumSignatures":..}, ...]
//
// The flat form predates the sequential-thresholds wrapper and is normalized
// by wrapping its entries into a single nested SequentialThresholds, so
// callers downstream only ever see the current shape.
func sequentialThresholdsSliceFromJSON(raw json.RawMessage) ([]*model.SequentialThresholds, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("decoding parallelThresholds: %w", err)
	}
	if len(elems) == 0 {
		return nil, nil
	}

	if isFlatParallelThresholds(elems) {
		var flat []jsonGroupThreshold
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, fmt.Errorf("decoding flat-form parallelThresholds: %w", err)
		}
		st := &model.SequentialThresholds{}
		for _, t := range flat {
			st.Thresholds = append(st.Thresholds, &model.GroupThreshold{
				GroupID:           t.GroupID,
				MinimumSignatures: t.MinimumSignatures,
			})
		}
		return []*model.SequentialThresholds{st}, nil
	}

	var nested []jsonSequentialThresholds
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("decoding nested-form parallelThresholds: %w", err)
	}
	out := make([]*model.SequentialThresholds, 0, len(nested))
	for _, j := range nested {
		st := &model.SequentialThresholds{}
		for _, t := range j.Thresholds {
			st.Thresholds = append(st.Thresholds, &model.GroupThreshold{
				GroupID:           t.GroupID,
				MinimumSignatures: t.MinimumSignatures,
			})
		}
		out = append(out, st)
	}
	return out, nil
}

// isFlatParallelThresholds reports whether a parallelThresholds JSON array
// uses the legacy flat shape (elements carry groupId/minimumSignatures
// directly) rather than the current nested shape (elements carry a
// "thresholds" array). It inspects elements until it finds one that
// disambiguates; an array of empty objects is treated as nested (the
// no-op default for either shape).
func isFlatParallelThresholds(elems []json.RawMessage) bool {
	for _, e := range elems {
		var probe struct {
			Thresholds *json.RawMessage `json:"thresholds"`
			GroupID    *string          `json:"groupId"`
		}
		if err := json.Unmarshal(e, &probe); err != nil {
			continue
		}
		if probe.Thresholds != nil {
			return false
		}
		if probe.GroupID != nil {
			return true
		}
	}
	return false
}

type jsonRuleUserSignature struct {
	UserID    string `json:"userId"`
	Signature string `json:"signature"`
}

func userSignaturesFromJSON(data []byte) ([]*model.RuleUserSignature, error) {
	normalized, err := normalizeJSONKeys(data)
	if err != nil {
		return nil, err
	}

	// Accept either a bare array or an object wrapping a "signatures" array.
	var arr []jsonRuleUserSignature
	if err := json.Unmarshal(normalized, &arr); err != nil {
		var wrapper struct {
			Signatures []jsonRuleUserSignature `json:"signatures"`
		}
		if err2 := json.Unmarshal(normalized, &wrapper); err2 != nil {
			return nil, err
		}
		arr = wrapper.Signatures
	}

	var signatures []*model.RuleUserSignature
	for _, s := range arr {
		signatures = append(signatures, &model.RuleUserSignature{UserID: s.UserID, Signature: s.Signature})
	}
	return signatures, nil
}

// normalizeJSONKeys rewrites every object key in a JSON document to
// camelCase, so a single camelCase-tagged struct can decode payloads that
// use either snake_case or camelCase.
func normalizeJSONKeys(data []byte) ([]byte, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	normalized := normalizeValue(raw)
	return json.Marshal(normalized)
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v := range val {
			out[toCamelCase(k)] = normalizeValue(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return val
	}
}

// toCamelCase converts a snake_case key to camelCase; camelCase keys pass
// through unchanged.
func toCamelCase(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	parts := strings.Split(key, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
