package gateway

import (
	"context"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// MockDiagnostics serves canned diagnostic data per service type and issue
// category, shaped like the field sets the network backends return. Results
// are intentionally partial for some branches; the engine must fall back to
// static text for anything missing.
type MockDiagnostics struct{}

// NewMockDiagnostics returns the canned diagnostics gateway.
func NewMockDiagnostics() *MockDiagnostics {
	return &MockDiagnostics{}
}

// Run returns the snapshot for one diagnostic branch entry.
func (m *MockDiagnostics) Run(ctx context.Context, accountID string, serviceType domain.ServiceType, category domain.IssueCategory) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch category {
	case domain.IssueConnectivityLoss:
		return connectivitySnapshot(serviceType), nil
	case domain.IssueDegradedSpeed:
		return speedSnapshot(serviceType), nil
	case domain.IssueIntermittentDrops:
		return map[string]string{
			"stability_score":       "no instability pattern in the last 24 hours",
			"equipment_health":      "performance logs normal",
			"environmental_factors": "no interference detected",
			"recent_outages":        "none detected",
		}, nil
	default:
		return map[string]string{
			"service_status":   "no outages reported for your area",
			"equipment_health": "connection analysis in progress",
			"account_status":   "service active",
		}, nil
	}
}

func connectivitySnapshot(serviceType domain.ServiceType) map[string]string {
	switch serviceType {
	case domain.ServiceFiber:
		return map[string]string{
			"network_status": "no area outages detected",
			"service_status": "equipment reachable",
			"signal_quality": "-12.5 dBm optical (good)",
		}
	case domain.ServiceFixedWireless:
		return map[string]string{
			"tower_status":    "operating normally",
			"signal_strength": "-65 dBm (good)",
			"signal_path":     "clear",
		}
	case domain.ServiceCellular:
		return map[string]string{
			"network_coverage": "good signal in your area",
			"signal_bars":      "4/5 bars",
			"network_type":     "4G LTE",
		}
	default:
		return map[string]string{}
	}
}

func speedSnapshot(serviceType domain.ServiceType) map[string]string {
	switch serviceType {
	case domain.ServiceFiber:
		return map[string]string{
			"service_plan":  "Fiber 100/100 Mbps",
			"network_load":  "no congestion detected",
			"current_speed": "download 98.5 Mbps",
		}
	case domain.ServiceFixedWireless:
		return map[string]string{
			"service_plan":     "Fixed Wireless 50/20 Mbps",
			"network_load":     "low congestion",
			"equipment_status": "equipment online",
			"current_speed":    "download 48.2 Mbps",
		}
	case domain.ServiceCellular:
		return map[string]string{
			"service_plan":     "LTE Unlimited",
			"network_load":     "normal network traffic",
			"equipment_status": "device connected",
			"current_speed":    "download 27.4 Mbps",
		}
	default:
		return map[string]string{}
	}
}
