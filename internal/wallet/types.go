package wallet

// Version identifies the wallet contract revision an address was
// derived for. It is persisted with each wallet so signing can pick
// the matching subwallet parameters.
type Version string

// Supported wallet contract versions.
const (
	VersionV3R1 Version = "v3R1"
	VersionV3R2 Version = "v3R2"
	VersionV4R2 Version = "v4R2"
)

// IsValid returns true if the version is a known wallet contract revision.
func (v Version) IsValid() bool {
	switch v {
	case VersionV3R1, VersionV3R2, VersionV4R2:
		return true
	default:
		return false
	}
}

// State is the durable record for a single wallet. The mnemonic is an
// age-encrypted blob; the plaintext phrase is never persisted.
type State struct {
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address"`
	PublicKey string  `json:"publicKey,omitempty"`
	Version   Version `json:"version"`

	// Mnemonic is the age-encrypted mnemonic blob.
	Mnemonic []byte `json:"mnemonic"`

	// AuthCounter is the monotonically increasing WebAuthn use counter.
	AuthCounter uint32 `json:"authCounter,omitempty"`
}

// AccountState holds the active wallet identifier and the wallet list
// for one network. Scoped by network identifier in the store.
type AccountState struct {
	ActiveWallet string  `json:"activeWallet,omitempty"`
	Wallets      []State `json:"wallets"`
}

// DefaultAccountState returns the well-defined empty-wallet state used
// when no account record exists yet for a network.
func DefaultAccountState() AccountState {
	return AccountState{Wallets: []State{}}
}

// WalletByAddress returns the wallet state with the given address, or
// nil if no such wallet exists in the account.
func (a *AccountState) WalletByAddress(address string) *State {
	for i := range a.Wallets {
		if a.Wallets[i].Address == address {
			return &a.Wallets[i]
		}
	}
	return nil
}

// Active returns the currently selected wallet, or nil if the account
// is empty.
func (a *AccountState) Active() *State {
	if a.ActiveWallet == "" {
		if len(a.Wallets) == 0 {
			return nil
		}
		return &a.Wallets[0]
	}
	return a.WalletByAddress(a.ActiveWallet)
}
