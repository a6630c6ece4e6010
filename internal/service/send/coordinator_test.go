package send

import (
	"context"
	"encoding/hex"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhold/tonhold/internal/crypto"
	"github.com/tonhold/tonhold/internal/ton"
	"github.com/tonhold/tonhold/internal/wallet"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

const (
	testPassword   = "test-password"
	testSenderAddr = "0:ca6e321c7cce9ecedf0a8ca2492ec8592db29072e3c4b50c66a12699bbd41d6d"
	testDestAddr   = "0:0000000000000000000000000000000000000000000000000000000000000001"
	testJettonAddr = "0:0000000000000000000000000000000000000000000000000000000000000002"
)

// The encrypted fixture is built once: mnemonic generation and the
// password-based encryption are both deliberately slow.
var (
	fixtureOnce sync.Once
	fixtureBlob []byte
	fixtureErr  error
)

func testWallet(t *testing.T) *wallet.State {
	t.Helper()
	fixtureOnce.Do(func() {
		phrase, err := wallet.GenerateMnemonic()
		if err != nil {
			fixtureErr = err
			return
		}
		fixtureBlob, fixtureErr = crypto.Encrypt([]byte(phrase), testPassword)
	})
	require.NoError(t, fixtureErr)

	return &wallet.State{
		Name:     "main",
		Address:  testSenderAddr,
		Version:  wallet.VersionV3R2,
		Mnemonic: fixtureBlob,
	}
}

// fakeClient is an in-memory ton.Client with configurable responses.
type fakeClient struct {
	balance    *big.Int
	seqno      uint32
	seqnoErr   error
	resolved   map[string]ton.Address
	resolveErr error
}

func (f *fakeClient) GetBalance(_ context.Context, _ ton.Address) (*big.Int, error) {
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

func (f *fakeClient) GetSeqno(_ context.Context, _ ton.Address) (uint32, error) {
	if f.seqnoErr != nil {
		return 0, f.seqnoErr
	}
	return f.seqno, nil
}

func (f *fakeClient) ResolveName(_ context.Context, name string) (ton.Address, error) {
	if f.resolveErr != nil {
		return ton.Address{}, f.resolveErr
	}
	addr, ok := f.resolved[name]
	if !ok {
		return ton.Address{}, walleterr.ErrDestinationUnresolved
	}
	return addr, nil
}

// fakeSecrets counts password challenges so tests can assert that
// precondition failures never reach the password prompt.
type fakeSecrets struct {
	password string
	err      error
	calls    atomic.Int32
}

func (f *fakeSecrets) RequestPassword(_ context.Context) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.password, nil
}

func TestSignTransferSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{seqno: 5}
	secrets := &fakeSecrets{password: testPassword}
	c := NewCoordinator(client, secrets, nil)

	signed, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:      testDestAddr,
		Amount:  "1.5",
		Comment: "lunch",
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(5), signed.Seqno)
	require.NotNil(t, signed.Method)
	assert.Equal(t, testSenderAddr, signed.Method.To.String())
	assert.Equal(t, int32(1), secrets.calls.Load())
}

func TestSignTransferResolvesDNSName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dest, err := ton.ParseAddress(testDestAddr)
	require.NoError(t, err)

	client := &fakeClient{
		seqno:    1,
		resolved: map[string]ton.Address{"alice.ton": dest},
	}
	c := NewCoordinator(client, &fakeSecrets{password: testPassword}, nil)

	signed, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:     "alice.ton",
		Amount: "0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), signed.Seqno)
}

func TestSignTransferUnresolvableDestination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{resolved: map[string]ton.Address{}}
	c := NewCoordinator(client, &fakeSecrets{password: testPassword}, nil)

	_, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:     "nobody.ton",
		Amount: "1",
	})
	assert.True(t, walleterr.Is(err, walleterr.ErrDestinationUnresolved))
}

func TestSignTransferEmptyDestination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := NewCoordinator(&fakeClient{}, &fakeSecrets{password: testPassword}, nil)

	_, err := c.SignTransfer(ctx, testWallet(t), Request{Amount: "1"})
	assert.True(t, walleterr.Is(err, walleterr.ErrDestinationUnresolved))
}

func TestSignTransferInvalidAmountBeforePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secrets := &fakeSecrets{password: testPassword}
	c := NewCoordinator(&fakeClient{}, secrets, nil)

	_, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:     testDestAddr,
		Amount: "not-a-number",
	})
	assert.True(t, walleterr.Is(err, walleterr.ErrInvalidAmount))
	assert.Zero(t, secrets.calls.Load(), "amount validation must precede the password challenge")
}

func TestSignTransferPasswordDenied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secrets := &fakeSecrets{err: walleterr.ErrPasswordDenied}
	c := NewCoordinator(&fakeClient{}, secrets, nil)

	_, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:     testDestAddr,
		Amount: "1",
	})
	assert.True(t, walleterr.Is(err, walleterr.ErrPasswordDenied))
}

func TestSignTransferWrongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secrets := &fakeSecrets{password: "wrong"}
	c := NewCoordinator(&fakeClient{}, secrets, nil)

	_, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:     testDestAddr,
		Amount: "1",
	})
	assert.True(t, walleterr.Is(err, walleterr.ErrDecryptionFailed))
}

func TestSignTransferSeqnoUnavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{seqnoErr: walleterr.ErrNetworkUnavailable}
	c := NewCoordinator(client, &fakeSecrets{password: testPassword}, nil)

	_, err := c.SignTransfer(ctx, testWallet(t), Request{
		To:     testDestAddr,
		Amount: "1",
	})
	assert.True(t, walleterr.Is(err, walleterr.ErrSeqnoUnavailable))
}

func TestSignJettonTransferSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{seqno: 3}
	secrets := &fakeSecrets{password: testPassword}
	c := NewCoordinator(client, secrets, nil)

	signed, err := c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		Symbol:        "USDQ",
		WalletAddress: testJettonAddr,
		Balance:       big.NewInt(10_000_000_000),
	}, Request{
		To:     testDestAddr,
		Amount: "2",
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(3), signed.Seqno)
	// The external message targets the sender's wallet contract; the
	// jetton wallet is the internal destination.
	assert.Equal(t, testSenderAddr, signed.Method.To.String())
}

func TestSignJettonTransferEmptyCommentPayload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{seqno: 2}
	c := NewCoordinator(client, &fakeSecrets{password: testPassword}, nil)

	signed, err := c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		WalletAddress: testJettonAddr,
	}, Request{
		To:     testDestAddr,
		Amount: "1",
	})
	require.NoError(t, err)

	assert.Len(t, hex.EncodeToString(signed.Method.Hash[:]), 64)

	// external envelope -> signed body -> internal message -> jetton
	// body, which carries the opcode-only comment payload even though
	// the request had no comment.
	envelope := signed.Method.Cell.Refs()
	require.Len(t, envelope, 1)
	internal := envelope[0].Refs()
	require.Len(t, internal, 1)
	jettonBody := internal[0].Refs()
	require.Len(t, jettonBody, 1)
	forward := jettonBody[0].Refs()
	require.Len(t, forward, 1)
	assert.Equal(t, 32, forward[0].BitLen())
}

func TestSignJettonTransferInsufficientBalanceBeforePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secrets := &fakeSecrets{password: testPassword}
	c := NewCoordinator(&fakeClient{}, secrets, nil)

	_, err := c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		Symbol:        "USDQ",
		WalletAddress: testJettonAddr,
		Balance:       big.NewInt(1),
	}, Request{
		To:     testDestAddr,
		Amount: "2",
	})

	require.True(t, walleterr.Is(err, walleterr.ErrInsufficientBalance))
	assert.Zero(t, secrets.calls.Load(), "balance check must precede the password challenge")

	var we *walleterr.WalletError
	require.True(t, walleterr.As(err, &we))
	assert.Equal(t, "1", we.Details["balance"])
	assert.Equal(t, "2000000000", we.Details["requested"])
}

func TestSignJettonTransferUnknownBalanceSkipsCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{seqno: 1}
	c := NewCoordinator(client, &fakeSecrets{password: testPassword}, nil)

	// A nil balance means the caller has no fresh figure; signing
	// proceeds and the chain enforces the real balance.
	_, err := c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		WalletAddress: testJettonAddr,
	}, Request{
		To:     testDestAddr,
		Amount: "2",
	})
	require.NoError(t, err)
}

func TestSignJettonTransferMissingJettonWallet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secrets := &fakeSecrets{password: testPassword}
	c := NewCoordinator(&fakeClient{}, secrets, nil)

	_, err := c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		Balance: big.NewInt(10_000_000_000),
	}, Request{
		To:     testDestAddr,
		Amount: "1",
	})

	assert.True(t, walleterr.Is(err, walleterr.ErrWalletNotFound))
	assert.Zero(t, secrets.calls.Load())
}

func TestSignJettonTransferCustomGas(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &fakeClient{seqno: 1}
	c := NewCoordinator(client, &fakeSecrets{password: testPassword}, nil)

	_, err := c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		WalletAddress: testJettonAddr,
	}, Request{
		To:                testDestAddr,
		Amount:            "1",
		TransactionAmount: "0.25",
	})
	require.NoError(t, err)

	_, err = c.SignJettonTransfer(ctx, testWallet(t), JettonAsset{
		WalletAddress: testJettonAddr,
	}, Request{
		To:                testDestAddr,
		Amount:            "1",
		TransactionAmount: "bogus",
	})
	assert.True(t, walleterr.Is(err, walleterr.ErrInvalidAmount))
}
