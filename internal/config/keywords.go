package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keywords holds every keyword set the conversation engine matches against.
// All matching is case-insensitive substring matching; the file overrides the
// built-in defaults wholesale per list.
type Keywords struct {
	Greetings  []string `yaml:"greetings"`
	Reset      []string `yaml:"reset"`
	Escalation []string `yaml:"escalation"`

	// Customer classification, checked in this order. Managed-IT wins over
	// enterprise, enterprise over business, business over residential;
	// "business internet with managed services" must classify as managed-IT.
	ManagedIT   []string `yaml:"managed_it"`
	Enterprise  []string `yaml:"enterprise"`
	Business    []string `yaml:"business"`
	Residential []string `yaml:"residential"`

	Fiber         []string `yaml:"fiber"`
	FixedWireless []string `yaml:"fixed_wireless"`
	Cellular      []string `yaml:"cellular"`

	// Equipment nouns used to suggest a service type when no direct match.
	EquipmentHints map[string]string `yaml:"equipment_hints"`

	CredentialRequest []string `yaml:"credential_request"`
	ConnectivityLoss  []string `yaml:"connectivity_loss"`
	DegradedSpeed     []string `yaml:"degraded_speed"`
	IntermittentDrops []string `yaml:"intermittent_drops"`

	ScopeInternet []string `yaml:"scope_internet"`
	ScopeIT       []string `yaml:"scope_it"`

	TroubleshootPositive []string `yaml:"troubleshoot_positive"`
	TroubleshootNegative []string `yaml:"troubleshoot_negative"`
	TroubleshootEscalate []string `yaml:"troubleshoot_escalate"`
	Resolution           []string `yaml:"resolution"`
}

// DefaultKeywords returns the compiled-in keyword sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Greetings:  []string{"hi", "hello", "hey", "help", "support", "start"},
		Reset:      []string{"restart", "reset", "start over", "new conversation"},
		Escalation: []string{"urgent", "emergency", "escalate", "supervisor", "manager", "complaint"},

		ManagedIT:   []string{"northbridge", "managed services", "it services", "it support"},
		Enterprise:  []string{"enterprise", "large business", "corporation", "corporate"},
		Business:    []string{"business", "commercial", "company", "office", "small business"},
		Residential: []string{"residential", "home", "house", "personal", "family", "consumer"},

		Fiber:         []string{"fiber", "fibre"},
		FixedWireless: []string{"fixed wireless", "wireless", "tower", "antenna", "outdoor"},
		Cellular:      []string{"lte", "cellular", "mobile", "jetpack", "hotspot"},

		EquipmentHints: map[string]string{
			"modem":    "Fiber",
			"antenna":  "Fixed Wireless",
			"outdoor":  "Fixed Wireless",
			"jetpack":  "LTE/Cellular",
			"hotspot":  "LTE/Cellular",
			"cellular": "LTE/Cellular",
		},

		CredentialRequest: []string{"wifi password", "password", "credentials", "network name"},
		ConnectivityLoss:  []string{"no internet", "not working", "down", "offline", "outage"},
		DegradedSpeed:     []string{"slow", "speed", "bandwidth", "sluggish"},
		IntermittentDrops: []string{"intermittent", "dropping", "unstable", "cutting out"},

		ScopeInternet: []string{"internet", "connectivity", "outage", "speed", "connection", "wifi", "fiber", "wireless", "lte"},
		ScopeIT:       []string{"computer", "software", "managed", "it services", "server", "email", "backup", "pure it"},

		TroubleshootPositive: []string{"green", "solid", "working", "good", "connected"},
		TroubleshootNegative: []string{"red", "flashing", "blinking", "off", "no light"},
		TroubleshootEscalate: []string{"create ticket", "escalate", "technician", "not working", "still broken", "doesn't work"},
		Resolution:           []string{"fixed", "resolved", "working now", "all good", "solved"},
	}
}

// LoadKeywords merges an optional YAML file over the defaults. An empty path
// returns the defaults untouched.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return kw, fmt.Errorf("read keywords file: %w", err)
	}

	var overrides Keywords
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return kw, fmt.Errorf("parse keywords file: %w", err)
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&kw.Greetings, overrides.Greetings)
	merge(&kw.Reset, overrides.Reset)
	merge(&kw.Escalation, overrides.Escalation)
	merge(&kw.ManagedIT, overrides.ManagedIT)
	merge(&kw.Enterprise, overrides.Enterprise)
	merge(&kw.Business, overrides.Business)
	merge(&kw.Residential, overrides.Residential)
	merge(&kw.Fiber, overrides.Fiber)
	merge(&kw.FixedWireless, overrides.FixedWireless)
	merge(&kw.Cellular, overrides.Cellular)
	merge(&kw.CredentialRequest, overrides.CredentialRequest)
	merge(&kw.ConnectivityLoss, overrides.ConnectivityLoss)
	merge(&kw.DegradedSpeed, overrides.DegradedSpeed)
	merge(&kw.IntermittentDrops, overrides.IntermittentDrops)
	merge(&kw.ScopeInternet, overrides.ScopeInternet)
	merge(&kw.ScopeIT, overrides.ScopeIT)
	merge(&kw.TroubleshootPositive, overrides.TroubleshootPositive)
	merge(&kw.TroubleshootNegative, overrides.TroubleshootNegative)
	merge(&kw.TroubleshootEscalate, overrides.TroubleshootEscalate)
	merge(&kw.Resolution, overrides.Resolution)
	if len(overrides.EquipmentHints) > 0 {
		kw.EquipmentHints = overrides.EquipmentHints
	}

	return kw, nil
}
