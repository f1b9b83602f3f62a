package gateway

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/protekweb/support-chatbot/internal/domain"
)

// MockIdentityDirectory is an in-memory identity gateway keyed by normalized
// caller identifier. Verification secrets are held as bcrypt hashes only.
type MockIdentityDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*directoryAccount
}

type directoryAccount struct {
	profile      domain.CustomerProfile
	secretHashes [][]byte
}

// NewMockIdentityDirectory returns an empty directory.
func NewMockIdentityDirectory() *MockIdentityDirectory {
	return &MockIdentityDirectory{accounts: make(map[string]*directoryAccount)}
}

// NewSeededIdentityDirectory returns a directory populated with demo accounts
// mirroring the sample customer data used in development environments.
func NewSeededIdentityDirectory() *MockIdentityDirectory {
	d := NewMockIdentityDirectory()
	_ = d.AddAccount("5551234567", domain.CustomerProfile{
		AccountID:                "12345",
		DisplayName:              "John Doe",
		CustomerClass:            domain.ClassResidential,
		ServiceType:              domain.ServiceFiber,
		WifiDisclosureAuthorized: true,
		WifiCredentials: &domain.WifiCredentials{
			NetworkName:   "ProTek_Fiber_5G",
			Password:      "ProTek2024Secure!",
			GuestNetwork:  "ProTek_Guest",
			GuestPassword: "Welcome123",
		},
		HardwareInventory: map[string]string{
			"modem":  "Netgear CM1000",
			"router": "ASUS AX6000",
		},
	}, "5551234567", "12345")
	_ = d.AddAccount("5559876543", domain.CustomerProfile{
		AccountID:                "67890",
		DisplayName:              "ABC Business Corp",
		CustomerClass:            domain.ClassBusiness,
		WifiDisclosureAuthorized: true,
		WifiCredentials: &domain.WifiCredentials{
			NetworkName: "ABC_Corp_WiFi",
			Password:    "BusinessWifi456",
		},
		HardwareInventory: map[string]string{
			"modem":  "Motorola MB8600",
			"router": "Ubiquiti Dream Machine",
		},
	}, "5559876543", "67890")
	return d
}

// AddAccount registers a profile under callerID with the given verification
// secrets (phone number, account number). Secrets are hashed before storage.
func (d *MockIdentityDirectory) AddAccount(callerID string, profile domain.CustomerProfile, secrets ...string) error {
	hashes := make([][]byte, 0, len(secrets))
	for _, secret := range secrets {
		hash, err := bcrypt.GenerateFromPassword([]byte(NormalizePhone(secret)), bcrypt.MinCost)
		if err != nil {
			return err
		}
		hashes = append(hashes, hash)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[NormalizePhone(callerID)] = &directoryAccount{profile: profile, secretHashes: hashes}
	return nil
}

// Lookup resolves a caller to its profile.
func (d *MockIdentityDirectory) Lookup(ctx context.Context, callerID string) (*domain.CustomerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.accounts[NormalizePhone(callerID)]
	if !ok {
		return nil, ErrNotFound
	}
	profile := account.profile
	return &profile, nil
}

// Verify compares the caller-supplied input against the account's stored
// verification secrets. Unknown callers yield ErrNotFound so the engine can
// fall back to its heuristic predicate.
func (d *MockIdentityDirectory) Verify(ctx context.Context, callerID, input string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.RLock()
	account, ok := d.accounts[NormalizePhone(callerID)]
	d.mu.RUnlock()
	if !ok {
		return false, ErrNotFound
	}

	normalized := NormalizePhone(strings.TrimSpace(input))
	for _, hash := range account.secretHashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(normalized)) == nil {
			return true, nil
		}
	}
	return false, nil
}
