package ton

import (
	"math/big"
)

// JettonTransferOp is the TEP-74 jetton transfer opcode.
const JettonTransferOp = 0xf8a7ea5

// JettonForwardAmount is the nanoton amount forwarded to the recipient
// with the transfer notification. One nanoton is the conventional
// minimum that still triggers the notification.
var JettonForwardAmount = big.NewInt(1)

// JettonTransferBody builds the TEP-74 transfer body carried by the
// internal message to the sender's jetton wallet. The forward payload
// (usually a comment body) rides along to the recipient when non-nil.
func JettonTransferBody(queryID uint64, amount *big.Int, to, response Address, forwardPayload *Cell) (*Cell, error) {
	b := NewBuilder()
	if err := b.WriteUint(JettonTransferOp, 32); err != nil {
		return nil, err
	}
	if err := b.WriteUint(queryID, 64); err != nil {
		return nil, err
	}
	if err := b.WriteCoins(amount); err != nil {
		return nil, err
	}
	if err := b.WriteAddress(&to); err != nil {
		return nil, err
	}
	if err := b.WriteAddress(&response); err != nil {
		return nil, err
	}
	// no custom_payload
	if err := b.WriteBit(false); err != nil {
		return nil, err
	}
	if err := b.WriteCoins(JettonForwardAmount); err != nil {
		return nil, err
	}
	if forwardPayload == nil {
		if err := b.WriteBit(false); err != nil {
			return nil, err
		}
	} else {
		if err := b.WriteBit(true); err != nil {
			return nil, err
		}
		if err := b.WriteRef(forwardPayload); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
