package service

import (
	"strings"

	"github.com/protekweb/support-chatbot/internal/config"
	"github.com/protekweb/support-chatbot/internal/domain"
)

// Classifier performs all keyword matching for the conversation engine.
// Matching is case-insensitive substring containment over configured sets.
type Classifier struct {
	kw config.Keywords
}

// NewClassifier builds a classifier over the given keyword sets.
func NewClassifier(kw config.Keywords) *Classifier {
	return &Classifier{kw: kw}
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(msg, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func hasToken(msg string, words []string) bool {
	tokens := strings.Fields(msg)
	for _, w := range words {
		for _, t := range tokens {
			if strings.Trim(t, ".,!?") == w {
				return true
			}
		}
	}
	return false
}

// IsReset reports whether the message is a reset command.
func (c *Classifier) IsReset(msg string) bool {
	return containsAny(strings.ToLower(msg), c.kw.Reset)
}

// IsGreeting reports whether the message is a greeting or generic help
// phrase. Matched on whole tokens so that e.g. "this" does not match "hi".
func (c *Classifier) IsGreeting(msg string) bool {
	return hasToken(strings.ToLower(msg), c.kw.Greetings)
}

// IsEscalation reports whether the message carries an escalation keyword.
func (c *Classifier) IsEscalation(msg string) bool {
	return containsAny(strings.ToLower(msg), c.kw.Escalation)
}

// ClassifyCustomer resolves the customer class by first-match priority:
// managed-IT before enterprise before business before residential. The
// ordering is a business rule; text containing both "business" and "managed
// services" must resolve to managed-IT. Returns "" when nothing matches.
func (c *Classifier) ClassifyCustomer(msg string) domain.CustomerClass {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, c.kw.ManagedIT):
		return domain.ClassManagedIT
	case containsAny(lower, c.kw.Enterprise):
		return domain.ClassEnterprise
	case containsAny(lower, c.kw.Business):
		return domain.ClassBusiness
	case containsAny(lower, c.kw.Residential):
		return domain.ClassResidential
	default:
		return ""
	}
}

// DetectServiceType resolves the service from direct keywords.
func (c *Classifier) DetectServiceType(msg string) (domain.ServiceType, bool) {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, c.kw.Fiber):
		return domain.ServiceFiber, true
	case containsAny(lower, c.kw.FixedWireless):
		return domain.ServiceFixedWireless, true
	case containsAny(lower, c.kw.Cellular):
		return domain.ServiceCellular, true
	default:
		return "", false
	}
}

// EquipmentHint suggests a service type from equipment nouns when no direct
// keyword matched ("antenna" suggests Fixed Wireless, "jetpack" LTE, ...).
func (c *Classifier) EquipmentHint(msg string) (noun, suggestion string, ok bool) {
	lower := strings.ToLower(msg)
	for keyword, label := range c.kw.EquipmentHints {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return keyword, label, true
		}
	}
	return "", "", false
}

// ClassifyIssue buckets a free-text issue report into a diagnostic branch.
// Credential requests win over everything: "wifi password not working" is a
// credential request first.
func (c *Classifier) ClassifyIssue(msg string) domain.IssueCategory {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, c.kw.CredentialRequest):
		return domain.IssueCredentialRequest
	case containsAny(lower, c.kw.ConnectivityLoss):
		return domain.IssueConnectivityLoss
	case containsAny(lower, c.kw.DegradedSpeed):
		return domain.IssueDegradedSpeed
	case containsAny(lower, c.kw.IntermittentDrops):
		return domain.IssueIntermittentDrops
	default:
		return domain.IssueUnclassified
	}
}

// ScopeDecision is the managed-IT scope disambiguation outcome.
type ScopeDecision int

const (
	ScopeUnknown ScopeDecision = iota
	ScopeInternet
	ScopeITServices
)

// ClassifyScope decides whether a managed-IT request concerns internet
// connectivity or pure IT services. Connectivity wins on ambiguity so that
// outage reports are never parked behind an IT queue.
func (c *Classifier) ClassifyScope(msg string) ScopeDecision {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, c.kw.ScopeInternet):
		return ScopeInternet
	case containsAny(lower, c.kw.ScopeIT):
		return ScopeITServices
	default:
		return ScopeUnknown
	}
}

// TroubleshootSignal is the tri-match outcome over a troubleshooting reply,
// with the explicit escalation phrases and resolution phrases checked first.
type TroubleshootSignal int

const (
	SignalGeneric TroubleshootSignal = iota
	SignalEscalate
	SignalResolved
	SignalPositive
	SignalNegative
)

// ClassifyTroubleshooting orders the checks: escalation phrases beat
// everything, then resolution, then the positive/negative signal words.
func (c *Classifier) ClassifyTroubleshooting(msg string) TroubleshootSignal {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, c.kw.TroubleshootEscalate):
		return SignalEscalate
	case containsAny(lower, c.kw.Resolution):
		return SignalResolved
	case containsAny(lower, c.kw.TroubleshootPositive):
		return SignalPositive
	case containsAny(lower, c.kw.TroubleshootNegative):
		return SignalNegative
	default:
		return SignalGeneric
	}
}
