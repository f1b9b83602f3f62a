package domain

// WifiCredentials are the secured values released only after verification
// against an entitled profile.
type WifiCredentials struct {
	NetworkName   string `json:"network_name"`
	Password      string `json:"password"`
	GuestNetwork  string `json:"guest_network,omitempty"`
	GuestPassword string `json:"guest_password,omitempty"`
}

// CustomerProfile is the identity gateway's view of an account.
type CustomerProfile struct {
	AccountID                string            `json:"account_id"`
	DisplayName              string            `json:"display_name"`
	CustomerClass            CustomerClass     `json:"customer_class"`
	ServiceType              ServiceType       `json:"service_type,omitempty"`
	WifiDisclosureAuthorized bool              `json:"wifi_disclosure_authorized"`
	WifiCredentials          *WifiCredentials  `json:"wifi_credentials,omitempty"`
	HardwareInventory        map[string]string `json:"hardware_inventory,omitempty"`
}

// SubjectType differentiates principal kinds on staff API tokens.
type SubjectType string

const (
	SubjectTypeAgent SubjectType = "AGENT"
)

// AgentRole enumerates staff roles for the ticket API.
type AgentRole string

const (
	AgentRoleSupport AgentRole = "SUPPORT"
	AgentRoleAdmin   AgentRole = "ADMIN"
)

// SupportAgent models an internal operator allowed to work tickets.
type SupportAgent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         AgentRole `json:"role"`
}
