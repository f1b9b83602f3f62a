package service

import (
	"fmt"
	"strings"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// field reads a diagnostic snapshot value with a fallback for missing or
// empty entries, so a degraded diagnostics gateway never breaks a reply.
func field(snap map[string]string, key, fallback string) string {
	if v, ok := snap[key]; ok && v != "" {
		return v
	}
	return fallback
}

func greetingReply() string {
	return "Welcome to ProTek Communications support. I can help with your internet service.\n\n" +
		"To get started, what type of customer are you?\n" +
		"- Residential (home internet)\n" +
		"- Business (commercial service)\n" +
		"- Enterprise (large organization)\n" +
		"- Managed IT (Northbridge IT Services)"
}

func resetReply() string {
	return "Conversation restarted.\n\n" + greetingReply()
}

func classificationRepromptReply() string {
	return "I didn't catch your customer type. Are you a residential, business, enterprise, or managed IT customer?"
}

func serviceIdentificationReply(class domain.CustomerClass) string {
	return "Thanks. Which ProTek service do you have?\n" +
		"- Fiber (wired modem connection)\n" +
		"- Fixed Wireless (rooftop antenna)\n" +
		"- LTE/Cellular (jetpack or hotspot)"
}

func serviceRepromptReply() string {
	return "I couldn't tell which service you have. Is it Fiber, Fixed Wireless, or LTE/Cellular?"
}

func equipmentHintReply(noun, suggestion string) string {
	return fmt.Sprintf("You mentioned a %s, which is usually %s service. Is that right? If so, just confirm the service type (Fiber, Fixed Wireless, or LTE/Cellular).", noun, suggestion)
}

func issueGatheringReply(service domain.ServiceType) string {
	return fmt.Sprintf("Got it, you're on our %s service. What problem are you experiencing today?", service.Label())
}

func managedITScopeReply() string {
	return "You're with Northbridge IT Services. Is your issue with your internet connection, or with IT services (computers, software, email)?"
}

func managedITForwardReply(externalID string) string {
	return fmt.Sprintf("I've forwarded your request to the Northbridge IT Services team (ticket %s). They will respond within 30 minutes.", externalID)
}

func businessEscalationReply(externalID string) string {
	return fmt.Sprintf("As a business customer your issue gets priority handling. I've created ticket %s and paged our on-call support team. Expected response time: 15 minutes.", externalID)
}

func enterpriseEscalationReply(externalID string) string {
	return fmt.Sprintf("Your enterprise account is covered by a dedicated SLA. I've created ticket %s with our enterprise support team. Expected response time: 10 minutes.", externalID)
}

func verificationPromptReply() string {
	return "Before I can share account credentials I need to verify your identity. Please provide the phone number or account ID on file."
}

func verificationRetryReply(remaining int) string {
	if remaining == 1 {
		return "That didn't match our records. You have 1 attempt remaining. Please provide the phone number or account ID on file."
	}
	return fmt.Sprintf("That didn't match our records. You have %d attempts remaining. Please provide the phone number or account ID on file.", remaining)
}

func verificationUnavailableReply() string {
	return "Our verification system is temporarily unavailable. Please try again in a moment; this attempt has not been counted."
}

func verificationFailedReply(externalID string) string {
	return fmt.Sprintf("I wasn't able to verify your identity. For your security I've opened ticket %s for our customer service team to review. They will contact you within 2 hours.", externalID)
}

func credentialsReply(creds *domain.WifiCredentials) string {
	var b strings.Builder
	b.WriteString("Identity verified. Here are your WiFi details:\n")
	fmt.Fprintf(&b, "Network: %s\n", creds.NetworkName)
	fmt.Fprintf(&b, "Password: %s\n", creds.Password)
	if creds.GuestNetwork != "" {
		fmt.Fprintf(&b, "Guest network: %s\n", creds.GuestNetwork)
		fmt.Fprintf(&b, "Guest password: %s\n", creds.GuestPassword)
	}
	b.WriteString("\nIs there anything else I can help you with? If your connection is working, reply \"resolved\".")
	return b.String()
}

func disclosureRefusedReply() string {
	return "I'm unable to share credentials for this account. If you believe this is an error, say \"escalate\" and I'll open a ticket with our support team."
}

func connectivityDiagnosticsReply(service domain.ServiceType, snap map[string]string) string {
	var b strings.Builder
	b.WriteString("I ran a quick check on your connection:\n")

	switch service {
	case domain.ServiceFixedWireless:
		fmt.Fprintf(&b, "Tower status: %s\n", field(snap, "tower_status", "unknown"))
		fmt.Fprintf(&b, "Signal strength: %s\n", field(snap, "signal_strength", "unknown"))
		b.WriteString("\nPlease check that your antenna's power supply is plugged in, then look at the indicator light. Is it solid green, or red/flashing?")
	case domain.ServiceCellular:
		fmt.Fprintf(&b, "Network coverage: %s\n", field(snap, "network_coverage", "unknown"))
		fmt.Fprintf(&b, "Signal bars: %s\n", field(snap, "signal_bars", "unknown"))
		b.WriteString("\nPlease power-cycle your jetpack or hotspot: hold the power button for 10 seconds, then turn it back on. Did the signal bars come back?")
	default:
		fmt.Fprintf(&b, "Network status: %s\n", field(snap, "network_status", "unknown"))
		fmt.Fprintf(&b, "Signal quality: %s\n", field(snap, "signal_quality", "unknown"))
		b.WriteString("\nPlease unplug your modem's power for 30 seconds, plug it back in, and wait two minutes. What color is the status light now?")
	}
	return b.String()
}

func speedDiagnosticsReply(snap map[string]string) string {
	var b strings.Builder
	b.WriteString("I checked the speeds on your line:\n")
	fmt.Fprintf(&b, "Your plan: %s\n", field(snap, "service_plan", "unknown"))
	fmt.Fprintf(&b, "Current speed: %s\n", field(snap, "current_speed", "unknown"))
	b.WriteString("\nTry connecting a device directly by cable if you can, and close any large downloads. Is the speed better now?")
	return b.String()
}

func intermittentDiagnosticsReply(snap map[string]string) string {
	var b strings.Builder
	b.WriteString("I looked at your connection's recent stability:\n")
	fmt.Fprintf(&b, "Stability: %s\n", field(snap, "stability_score", "unknown"))
	fmt.Fprintf(&b, "Recent outages: %s\n", field(snap, "recent_outages", "unknown"))
	b.WriteString("\nIntermittent drops are often caused by loose cabling. Please check that all cables are firmly seated, then restart your equipment. Is the connection stable now?")
	return b.String()
}

func generalDiagnosticsReply(snap map[string]string) string {
	var b strings.Builder
	b.WriteString("I ran a general check on your service:\n")
	fmt.Fprintf(&b, "Service status: %s\n", field(snap, "service_status", "unknown"))
	fmt.Fprintf(&b, "Equipment health: %s\n", field(snap, "equipment_health", "unknown"))
	fmt.Fprintf(&b, "Account status: %s\n", field(snap, "account_status", "unknown"))
	b.WriteString("\nNothing obvious stands out. Please restart your equipment and tell me what you see afterwards. If the problem continues, say \"escalate\" and I'll open a support ticket.")
	return b.String()
}

func troubleshootPositiveReply() string {
	return "That's a good sign. Give it a minute and test your connection. If everything works, reply \"resolved\"; if not, tell me what you're seeing."
}

func troubleshootNegativeReply() string {
	return "That indicates a problem on the line. Let's get a technician involved. Say \"escalate\" and I'll create a support ticket, or describe anything else you're seeing."
}

func troubleshootGenericReply() string {
	return "Thanks. If the connection is working now, reply \"resolved\". If not, describe what you see and I'll keep troubleshooting, or say \"escalate\" to create a ticket."
}

func technicalEscalationReply(externalID string) string {
	return fmt.Sprintf("I've created support ticket %s for our technical support team. Expected response time: 2-4 hours. A technician will review the diagnostics we collected.", externalID)
}

// ticketRef prefers the durable backend reference over the local id.
func ticketRef(t *domain.Ticket) string {
	if t.ExternalID != "" {
		return t.ExternalID
	}
	return t.ID
}

func escalatedStatusReply(t *domain.Ticket) string {
	return fmt.Sprintf("Your ticket %s is with our %s (status: %s, expected response: %s). I've added your message to the ticket. A team member will follow up shortly.", ticketRef(t), t.RoutedTo, strings.ToLower(string(t.Status)), t.ResponseTime)
}

func escalatedResolutionNotedReply(ref string) string {
	return fmt.Sprintf("Great to hear it's working again. I've noted that on ticket %s; the assigned team will confirm and close it. Say \"reset\" if you'd like to start a new conversation.", ref)
}

func escalatedNoTicketReply() string {
	return "Your issue is with our support team and a team member will follow up shortly. Say \"reset\" if you'd like to start a new conversation."
}

func resolvedReply() string {
	return "Glad to hear it's working. Your session is closed; message us any time if you need help again."
}

func resolvedFollowupReply() string {
	return "This conversation was marked resolved. Say \"hello\" to start a new support session."
}

func ticketFailureReply() string {
	return "I couldn't create a support ticket right now because our ticketing system is unavailable. Please try again in a few minutes, or call us directly at 1-800-PROTEK1."
}
