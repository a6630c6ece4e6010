package store

import (
	"context"

	"github.com/tonhold/tonhold/internal/wallet"
)

// filterConnections removes every origin whose permitted-address set is
// empty. An empty entry is structurally equivalent to no entry and must
// never be persisted or returned; this runs on every read and
// immediately before every write.
func filterConnections(table ConnectionTable) ConnectionTable {
	filtered := make(ConnectionTable, len(table))
	for origin, conn := range table {
		if len(conn.Connect) > 0 {
			filtered[origin] = conn
		}
	}
	return filtered
}

// Connections returns the connection table for the network, with the
// empty-entry invariant applied.
func (s *Store) Connections(ctx context.Context, network NetworkID) (ConnectionTable, error) {
	table, err := ReadNetwork(ctx, s, KeyConnection, DefaultConnections(), network)
	if err != nil {
		return nil, err
	}
	return filterConnections(table), nil
}

// SetConnections persists the connection table for the network. Origins
// with no permitted addresses are dropped before the write.
func (s *Store) SetConnections(ctx context.Context, table ConnectionTable, network NetworkID) error {
	_, err := WriteNetwork(ctx, s, KeyConnection, filterConnections(table), network)
	return err
}

// AccountState returns the account record for the network, or the
// empty-wallet default when none exists.
func (s *Store) AccountState(ctx context.Context, network NetworkID) (wallet.AccountState, error) {
	return ReadNetwork(ctx, s, KeyAccount, wallet.DefaultAccountState(), network)
}

// SetAccountState persists the account record for the network.
func (s *Store) SetAccountState(ctx context.Context, state wallet.AccountState, network NetworkID) error {
	_, err := WriteNetwork(ctx, s, KeyAccount, state, network)
	return err
}

// ProxyConfiguration returns the proxy record, defaulting to disabled.
func (s *Store) ProxyConfiguration(ctx context.Context) (ProxyConfiguration, error) {
	return Read(ctx, s, KeyProxy, DefaultProxyConfiguration())
}

// SetProxyConfiguration persists the proxy record.
func (s *Store) SetProxyConfiguration(ctx context.Context, cfg ProxyConfiguration) error {
	_, err := Write(ctx, s, KeyProxy, cfg)
	return err
}

// AuthConfiguration returns the authentication record, defaulting to
// plain password.
func (s *Store) AuthConfiguration(ctx context.Context) (AuthConfiguration, error) {
	return Read(ctx, s, KeyAuth, DefaultAuthConfiguration())
}

// SetAuthConfiguration persists the authentication record.
func (s *Store) SetAuthConfiguration(ctx context.Context, cfg AuthConfiguration) error {
	_, err := Write(ctx, s, KeyAuth, cfg)
	return err
}

// UpdateAuthCounter persists cfg with the WebAuthn use counter bumped
// to newCounter. The counter must only ever increase; callers verify
// the assertion before bumping.
func (s *Store) UpdateAuthCounter(ctx context.Context, cfg AuthConfiguration, newCounter uint32) error {
	cfg.Counter = newCounter
	return s.SetAuthConfiguration(ctx, cfg)
}

// Script returns the stored provider-injection script, or empty when
// none has been written.
func (s *Store) Script(ctx context.Context) (string, error) {
	return Read(ctx, s, KeyScript, "")
}

// SetScript persists the provider-injection script.
func (s *Store) SetScript(ctx context.Context, script string) error {
	_, err := Write(ctx, s, KeyScript, script)
	return err
}
