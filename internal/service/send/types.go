package send

import (
	"math/big"

	"github.com/tonhold/tonhold/internal/ton"
)

// Request describes one transfer to sign. Requests are ephemeral: they
// are never written to persistent storage.
type Request struct {
	// To is the destination: a raw address, a user-friendly address,
	// or a TON DNS name to resolve.
	To string

	// Amount is the decimal amount to transfer (coins, or jetton units
	// for jetton transfers).
	Amount string

	// Comment is embedded verbatim in the transfer body when set.
	Comment string

	// TransactionAmount is the decimal TON amount reserved for the
	// jetton transfer's gas. Empty selects the community default.
	TransactionAmount string

	// ID correlates a request initiated by a dApp; empty for transfers
	// started from the wallet's own UI.
	ID string

	// Origin is the requesting site for dApp-initiated transfers.
	Origin string
}

// JettonAsset describes the token being transferred: the sender's
// jetton wallet contract and its current balance in minimal units.
type JettonAsset struct {
	Symbol        string
	WalletAddress string
	Balance       *big.Int
}

// SignedMethod is the ephemeral result of the pipeline: the signed
// external message and the sequence number it consumed. The caller owns
// submission and the per-wallet ordering of concurrent requests.
type SignedMethod struct {
	Method *ton.ExternalMessage
	Seqno  uint32
}

// defaultGasReserve is the TON amount attached to a jetton transfer to
// cover the token contract's internal transaction expenses. 0.1 TON is
// the community-agreed default.
var defaultGasReserve = big.NewInt(100_000_000)
