package ton

import (
	"context"
	"math/big"
)

// Client is the read-only blockchain surface the signing pipeline and
// UI queries consume. The submission of signed messages lives with the
// caller, not here.
type Client interface {
	// GetBalance returns the account balance in nanotons.
	GetBalance(ctx context.Context, addr Address) (*big.Int, error)

	// GetSeqno returns the wallet contract's current sequence number.
	// An uninitialized wallet reports zero.
	GetSeqno(ctx context.Context, addr Address) (uint32, error)

	// ResolveName resolves a TON DNS name (e.g. "alice.ton") to the
	// wallet address it points at.
	ResolveName(ctx context.Context, name string) (Address, error)
}
