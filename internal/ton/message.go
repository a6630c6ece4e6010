package ton

import (
	"crypto/ed25519"
	"math/big"
	"time"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// DefaultSubwalletID is the standard subwallet identifier for v3/v4
// wallet contracts on the basechain.
const DefaultSubwalletID = 698983191

// DefaultMessageLifetime bounds how long a signed external message
// stays valid.
const DefaultMessageLifetime = 60 * time.Second

// Send mode flags for outgoing messages.
const (
	// SendModePayGasSeparately pays transfer fees from the account
	// balance instead of the message value.
	SendModePayGasSeparately uint8 = 1

	// SendModeIgnoreErrors keeps processing even if the forwarded
	// message fails during the action phase.
	SendModeIgnoreErrors uint8 = 2
)

// TransferParams describes one signed transfer through a wallet
// contract.
type TransferParams struct {
	SecretKey  ed25519.PrivateKey
	To         Address
	Amount     *big.Int
	Seqno      uint32
	Bounce     bool
	SendMode   uint8
	Payload    *Cell  // message body carried by the internal message
	ValidUntil uint32 // unix seconds; 0 means now + DefaultMessageLifetime
}

// ExternalMessage is a constructed, signed external message ready for
// submission by the RPC layer. It is ephemeral and never persisted.
type ExternalMessage struct {
	To   Address // wallet contract the message is addressed to
	Cell *Cell
	Hash [32]byte
}

// WalletContract builds signed external messages for a v3 wallet.
type WalletContract struct {
	Address     Address
	SubwalletID uint32
}

// NewWalletContract creates a wallet contract binding. A zero
// subwalletID selects the standard one.
func NewWalletContract(addr Address, subwalletID uint32) *WalletContract {
	if subwalletID == 0 {
		subwalletID = DefaultSubwalletID
	}
	return &WalletContract{Address: addr, SubwalletID: subwalletID}
}

// Transfer assembles and signs an external transfer message. The
// secret key is used only for the single signature; the caller owns
// its lifecycle.
func (w *WalletContract) Transfer(params TransferParams) (*ExternalMessage, error) {
	if len(params.SecretKey) != ed25519.PrivateKeySize {
		return nil, walleterr.ErrInvalidInput
	}
	if params.Amount == nil || params.Amount.Sign() < 0 {
		return nil, walleterr.ErrInvalidAmount
	}

	internal, err := buildInternalMessage(params.To, params.Amount, params.Bounce, params.Payload)
	if err != nil {
		return nil, err
	}

	validUntil := params.ValidUntil
	if validUntil == 0 {
		if params.Seqno == 0 {
			// First message of a fresh wallet: no expiry
			validUntil = 0xFFFFFFFF
		} else {
			validUntil = uint32(time.Now().Add(DefaultMessageLifetime).Unix())
		}
	}

	signing := NewBuilder()
	if err := signing.WriteUint(uint64(w.SubwalletID), 32); err != nil {
		return nil, err
	}
	if err := signing.WriteUint(uint64(validUntil), 32); err != nil {
		return nil, err
	}
	if err := signing.WriteUint(uint64(params.Seqno), 32); err != nil {
		return nil, err
	}
	if err := signing.WriteUint(uint64(params.SendMode), 8); err != nil {
		return nil, err
	}
	if err := signing.WriteRef(internal); err != nil {
		return nil, err
	}
	signingCell := signing.Build()

	hash := signingCell.Hash()
	signature := ed25519.Sign(params.SecretKey, hash[:])

	body := NewBuilder()
	if err := body.WriteBytes(signature); err != nil {
		return nil, err
	}
	if err := body.WriteCell(signingCell); err != nil {
		return nil, err
	}
	bodyCell := body.Build()

	external, err := buildExternalEnvelope(w.Address, bodyCell)
	if err != nil {
		return nil, err
	}

	return &ExternalMessage{
		To:   w.Address,
		Cell: external,
		Hash: external.Hash(),
	}, nil
}

// buildInternalMessage assembles the int_msg_info header plus body ref.
func buildInternalMessage(to Address, amount *big.Int, bounce bool, payload *Cell) (*Cell, error) {
	b := NewBuilder()
	// int_msg_info$0, ihr_disabled, bounce, bounced
	if err := b.WriteBit(false); err != nil {
		return nil, err
	}
	if err := b.WriteBit(true); err != nil {
		return nil, err
	}
	if err := b.WriteBit(bounce); err != nil {
		return nil, err
	}
	if err := b.WriteBit(false); err != nil {
		return nil, err
	}
	// src: addr_none (filled in by the validator)
	if err := b.WriteAddress(nil); err != nil {
		return nil, err
	}
	if err := b.WriteAddress(&to); err != nil {
		return nil, err
	}
	if err := b.WriteCoins(amount); err != nil {
		return nil, err
	}
	// no extra currencies, zero ihr_fee and fwd_fee
	if err := b.WriteBit(false); err != nil {
		return nil, err
	}
	if err := b.WriteCoins(nil); err != nil {
		return nil, err
	}
	if err := b.WriteCoins(nil); err != nil {
		return nil, err
	}
	// created_lt and created_at are set by the validator
	if err := b.WriteUint(0, 64); err != nil {
		return nil, err
	}
	if err := b.WriteUint(0, 32); err != nil {
		return nil, err
	}
	// no state_init
	if err := b.WriteBit(false); err != nil {
		return nil, err
	}
	// body
	if payload == nil {
		if err := b.WriteBit(false); err != nil {
			return nil, err
		}
	} else {
		if err := b.WriteBit(true); err != nil {
			return nil, err
		}
		if err := b.WriteRef(payload); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// buildExternalEnvelope wraps the signed body in an ext_in_msg_info
// envelope addressed to the wallet contract.
func buildExternalEnvelope(dest Address, body *Cell) (*Cell, error) {
	b := NewBuilder()
	// ext_in_msg_info$10
	if err := b.WriteUint(0b10, 2); err != nil {
		return nil, err
	}
	if err := b.WriteAddress(nil); err != nil {
		return nil, err
	}
	if err := b.WriteAddress(&dest); err != nil {
		return nil, err
	}
	// import_fee
	if err := b.WriteCoins(nil); err != nil {
		return nil, err
	}
	// no state_init, body as ref
	if err := b.WriteBit(false); err != nil {
		return nil, err
	}
	if err := b.WriteBit(true); err != nil {
		return nil, err
	}
	if err := b.WriteRef(body); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// maxCommentBytes is the comment capacity of a single body cell after
// the 32-bit text opcode.
const maxCommentBytes = (MaxCellBits - 32) / 8

// CommentBody builds the plain-text transfer body: a zero opcode
// followed by the comment verbatim. Returns nil for an empty comment,
// so a commentless native transfer carries no body at all.
func CommentBody(comment string) (*Cell, error) {
	if comment == "" {
		return nil, nil
	}
	return ForwardCommentBody(comment)
}

// ForwardCommentBody builds the forward payload attached to jetton
// transfers. Unlike CommentBody it never returns nil: an empty comment
// still yields the opcode-only cell, which is the payload jetton
// wallets receive from existing clients.
func ForwardCommentBody(comment string) (*Cell, error) {
	if len(comment) > maxCommentBytes {
		return nil, walleterr.WithDetails(walleterr.ErrDataTooLarge,
			map[string]string{"maxBytes": "123"})
	}

	b := NewBuilder()
	if err := b.WriteUint(0, 32); err != nil {
		return nil, err
	}
	if err := b.WriteBytes([]byte(comment)); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
