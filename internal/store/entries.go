package store

// Permission names a capability a dApp origin has been granted for a
// wallet address.
type Permission string

// Permissions grantable to a connected origin.
const (
	PermissionBase        Permission = "base"
	PermissionSend        Permission = "send"
	PermissionSwitchChain Permission = "switchChain"
)

// Connection describes one dApp origin's grant: the set of wallet
// addresses it may use and the permissions per address.
type Connection struct {
	Logo string `json:"logo,omitempty"`

	// Connect maps a permitted wallet address to its granted
	// permissions. An empty map makes the whole entry structurally
	// equivalent to no entry.
	Connect map[string][]Permission `json:"connect"`
}

// ConnectionTable maps a dApp origin to its connection descriptor.
type ConnectionTable map[string]Connection

// DefaultConnections returns the empty connection table.
func DefaultConnections() ConnectionTable {
	return ConnectionTable{}
}

// ProxyConfiguration holds the embedded TON proxy settings.
type ProxyConfiguration struct {
	Enabled bool   `json:"enabled"`
	Domains map[string]struct {
		Host string `json:"host"`
		Port string `json:"port"`
	} `json:"domains,omitempty"`
}

// DefaultProxyConfiguration returns the disabled proxy configuration.
func DefaultProxyConfiguration() ProxyConfiguration {
	return ProxyConfiguration{Enabled: false}
}

// AuthKind selects how the stored password is gated.
type AuthKind string

// Supported authentication kinds.
const (
	AuthPassword AuthKind = "password"
	AuthWebAuthn AuthKind = "webauthn"
)

// AuthConfiguration describes the password-gate for mnemonic
// decryption. For WebAuthn the counter must only ever increase; a
// regression indicates a cloned authenticator.
type AuthConfiguration struct {
	Kind AuthKind `json:"kind"`

	// CredentialID identifies the WebAuthn credential, when Kind is
	// AuthWebAuthn.
	CredentialID string `json:"credentialId,omitempty"`

	// Counter is the monotonically increasing WebAuthn use counter.
	Counter uint32 `json:"counter,omitempty"`
}

// DefaultAuthConfiguration returns the plain-password configuration.
func DefaultAuthConfiguration() AuthConfiguration {
	return AuthConfiguration{Kind: AuthPassword}
}
