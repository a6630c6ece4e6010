package send

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tonhold/tonhold/internal/crypto"
	"github.com/tonhold/tonhold/internal/ton"
	"github.com/tonhold/tonhold/internal/wallet"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// Coordinator assembles and signs transfer messages. It validates
// preconditions before any secret material is touched, runs the
// latency-bound inputs concurrently, and surfaces every failure kind as
// a distinct typed error. It performs no retries and imposes no
// timeout; both belong to the caller.
//
// The coordinator does not serialize concurrent requests for the same
// wallet: the sequence number is treated purely as an input captured
// during the run, and submission ordering is the caller's concern.
type Coordinator struct {
	client  ton.Client
	secrets SecretService
	log     LogWriter
}

// NewCoordinator creates a coordinator over the given blockchain client
// and privileged-context secret service.
func NewCoordinator(client ton.Client, secrets SecretService, log LogWriter) *Coordinator {
	if log == nil {
		log = noopLog{}
	}
	return &Coordinator{client: client, secrets: secrets, log: log}
}

type noopLog struct{}

func (noopLog) Debug(string, ...interface{}) {}
func (noopLog) Error(string, ...interface{}) {}

// SignTransfer signs a native coin transfer from the wallet.
func (c *Coordinator) SignTransfer(ctx context.Context, w *wallet.State, req Request) (*SignedMethod, error) {
	amount, err := ton.ToNano(req.Amount)
	if err != nil {
		return nil, err
	}

	sender, err := ton.ParseAddress(w.Address)
	if err != nil {
		return nil, err
	}

	inputs, err := c.gatherInputs(ctx, w, sender, req.To)
	if err != nil {
		return nil, err
	}
	defer inputs.keys.Destroy()

	payload, err := ton.CommentBody(req.Comment)
	if err != nil {
		return nil, err
	}

	contract := ton.NewWalletContract(sender, 0)
	method, err := contract.Transfer(ton.TransferParams{
		SecretKey: inputs.keys.SecretKey(),
		To:        inputs.destination,
		Amount:    amount,
		Seqno:     inputs.seqno,
		Bounce:    true,
		SendMode:  ton.SendModePayGasSeparately + ton.SendModeIgnoreErrors,
		Payload:   payload,
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("signed transfer from %s with seqno %d", w.Address, inputs.seqno)
	return &SignedMethod{Method: method, Seqno: inputs.seqno}, nil
}

// SignJettonTransfer signs a jetton transfer through the sender's
// jetton wallet contract. The balance precondition is checked before
// any password challenge is issued, so an insufficient balance never
// triggers decryption.
func (c *Coordinator) SignJettonTransfer(ctx context.Context, w *wallet.State, asset JettonAsset, req Request) (*SignedMethod, error) {
	amount, err := ton.ToNano(req.Amount)
	if err != nil {
		return nil, err
	}

	if asset.Balance != nil && asset.Balance.Cmp(amount) < 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInsufficientBalance, map[string]string{
			"balance":   asset.Balance.String(),
			"requested": amount.String(),
			"symbol":    asset.Symbol,
		})
	}

	if asset.WalletAddress == "" {
		return nil, walleterr.WithSuggestion(walleterr.ErrWalletNotFound,
			"jetton wallet address is not known yet - refresh the asset")
	}
	jettonWallet, err := ton.ParseAddress(asset.WalletAddress)
	if err != nil {
		return nil, err
	}

	sender, err := ton.ParseAddress(w.Address)
	if err != nil {
		return nil, err
	}

	inputs, err := c.gatherInputs(ctx, w, sender, req.To)
	if err != nil {
		return nil, err
	}
	defer inputs.keys.Destroy()

	gasReserve := defaultGasReserve
	if req.TransactionAmount != "" {
		gasReserve, err = ton.ToNano(req.TransactionAmount)
		if err != nil {
			return nil, err
		}
	}

	// The forward payload is always attached, opcode-only when the
	// comment is empty, so the recipient's notification layout never
	// varies.
	forwardPayload, err := ton.ForwardCommentBody(req.Comment)
	if err != nil {
		return nil, err
	}

	body, err := ton.JettonTransferBody(0, amount, inputs.destination, sender, forwardPayload)
	if err != nil {
		return nil, err
	}

	contract := ton.NewWalletContract(sender, 0)
	method, err := contract.Transfer(ton.TransferParams{
		SecretKey: inputs.keys.SecretKey(),
		To:        jettonWallet,
		Amount:    gasReserve,
		Seqno:     inputs.seqno,
		Bounce:    true,
		SendMode:  ton.SendModePayGasSeparately + ton.SendModeIgnoreErrors,
		Payload:   body,
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("signed jetton transfer from %s with seqno %d", w.Address, inputs.seqno)
	return &SignedMethod{Method: method, Seqno: inputs.seqno}, nil
}

// signingInputs are the three independently-fetched inputs of a signing
// run.
type signingInputs struct {
	destination ton.Address
	keys        *wallet.KeyPair
	seqno       uint32
}

// gatherInputs fetches the destination resolution, the signing keys and
// the sequence number concurrently. Each is independent and potentially
// network-latency-bound, so the wall-clock cost is the slowest of the
// three, not their sum.
func (c *Coordinator) gatherInputs(ctx context.Context, w *wallet.State, sender ton.Address, to string) (*signingInputs, error) {
	inputs := &signingInputs{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dest, err := c.resolveDestination(gctx, to)
		if err != nil {
			return err
		}
		inputs.destination = dest
		return nil
	})

	g.Go(func() error {
		keys, err := c.deriveKeys(gctx, w)
		if err != nil {
			return err
		}
		inputs.keys = keys
		return nil
	})

	g.Go(func() error {
		seqno, err := c.client.GetSeqno(gctx, sender)
		if err != nil {
			if walleterr.Is(err, walleterr.ErrSeqnoUnavailable) {
				return err
			}
			return walleterr.Wrap(walleterr.ErrSeqnoUnavailable, "fetching seqno for %s", w.Address)
		}
		inputs.seqno = seqno
		return nil
	})

	if err := g.Wait(); err != nil {
		// A failed sibling task may have left derived keys behind
		if inputs.keys != nil {
			inputs.keys.Destroy()
		}
		return nil, err
	}

	return inputs, nil
}

// resolveDestination turns the request's destination into an address,
// resolving DNS-style names through the blockchain client.
func (c *Coordinator) resolveDestination(ctx context.Context, to string) (ton.Address, error) {
	if to == "" {
		return ton.Address{}, walleterr.WithSuggestion(walleterr.ErrDestinationUnresolved,
			"destination address is empty")
	}

	if ton.IsDNSName(to) {
		addr, err := c.client.ResolveName(ctx, to)
		if err != nil {
			if walleterr.Is(err, walleterr.ErrDestinationUnresolved) {
				return ton.Address{}, err
			}
			return ton.Address{}, walleterr.Wrap(walleterr.ErrDestinationUnresolved, "resolving %s", to)
		}
		return addr, nil
	}

	addr, err := ton.ParseAddress(to)
	if err != nil {
		return ton.Address{}, walleterr.Wrap(walleterr.ErrDestinationUnresolved, "parsing %s", to)
	}
	return addr, nil
}

// deriveKeys runs the password challenge, decrypts the mnemonic, and
// derives the signing key pair. The plaintext phrase exists only inside
// this call and is zeroed before it returns.
func (c *Coordinator) deriveKeys(ctx context.Context, w *wallet.State) (*wallet.KeyPair, error) {
	password, err := c.secrets.RequestPassword(ctx)
	if err != nil {
		if walleterr.Is(err, walleterr.ErrPasswordDenied) {
			return nil, err
		}
		return nil, walleterr.Wrap(walleterr.ErrPasswordDenied, "requesting password")
	}

	phrase, err := crypto.DecryptSecure(w.Mnemonic, password)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.ErrDecryptionFailed, "decrypting mnemonic")
	}
	defer phrase.Destroy()

	keys, err := wallet.MnemonicToKeyPair(string(phrase.Bytes()))
	if err != nil {
		return nil, err
	}
	return keys, nil
}
