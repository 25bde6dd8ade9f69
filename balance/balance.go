package balance

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"go.uber.org/zap"
)

type (
	// Token holds stats of a token issued by the ledger.
	Token struct {
		// Amount in circulation
		Supply asset.Amount
		// Upper bound of Supply
		MaxSupply asset.Amount
		// Account allowed to issue the token
		Issuer util.Uint160
	}

	// Account is a balance row of a single owner and token kind.
	Account struct {
		// Active balance
		Balance asset.Amount
	}

	// Hooks observe lifecycle of owners' balance rows.
	Hooks interface {
		// AccountOpened is called when the first balance row of the owner for
		// some token kind is created.
		AccountOpened(ctx *common.Context, owner util.Uint160) error
		// AccountsClosed is called when the owner closed the last balance row.
		AccountsClosed(ctx *common.Context, owner util.Uint160) error
		// Spent is called after every successful transfer from the owner.
		Spent(ctx *common.Context, owner util.Uint160) error
	}

	// Book is the balance ledger. Every other component changes balances
	// through Credit and Debit only.
	Book struct {
		hooks Hooks
	}
)

const (
	tokenPrefix = 's'
	accPrefix   = 'a'
)

// New returns balance ledger reporting row lifecycle to hooks. Nil hooks are
// allowed.
func New(hooks Hooks) *Book {
	if hooks == nil {
		hooks = nopHooks{}
	}
	return &Book{hooks: hooks}
}

// Create registers new token kind with the given maximum supply and issuer.
// It can be invoked only by the ledger.
func (b *Book) Create(ctx *common.Context, issuer util.Uint160, maxSupply asset.Amount) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}
	if !maxSupply.Kind.IsValid() {
		return fmt.Errorf("%w: create token: invalid symbol '%s'", common.ErrInvalidAmount, maxSupply.Kind)
	}
	if !maxSupply.IsPositive() {
		return fmt.Errorf("%w: create token: max-supply must be positive", common.ErrInvalidAmount)
	}

	_, ok, err := b.Token(ctx, maxSupply.Kind.Symbol)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: create token: token with symbol %s already exists", common.ErrInvariant, maxSupply.Kind.Symbol)
	}

	t := Token{
		Supply:    asset.Zero(maxSupply.Kind),
		MaxSupply: maxSupply,
		Issuer:    issuer,
	}
	if err := common.SetSerialized(ctx, tokenKey(maxSupply.Kind.Symbol), &t); err != nil {
		return err
	}

	ctx.Log("token created", zap.Stringer("max supply", maxSupply),
		zap.String("issuer", address.Uint160ToString(issuer)))
	ctx.Notify("Create", issuer, maxSupply)
	return nil
}

// Token returns stats of the token with the given symbol.
func (b *Book) Token(ctx *common.Context, symbol string) (Token, bool, error) {
	var t Token
	ok, err := common.GetSerialized(ctx, tokenKey(symbol), &t)
	return t, ok, err
}

// Issue increases supply of the token and credits quantity to the account.
// It can be invoked only by the token issuer.
func (b *Book) Issue(ctx *common.Context, to util.Uint160, quantity asset.Amount, memo string) error {
	t, err := b.existingToken(ctx, "issue", quantity.Kind.Symbol)
	if err != nil {
		return err
	}
	if err := common.CheckWitness(ctx, t.Issuer); err != nil {
		return err
	}
	if len(memo) > common.MaxMemoLen {
		return fmt.Errorf("%w: issue: memo has more than %d bytes", common.ErrInvalidAmount, common.MaxMemoLen)
	}
	return b.Mint(ctx, to, quantity)
}

// Mint increases supply of the token and credits quantity to the account
// without checking issuer's witness. It is used by the ledger for the tokens
// it issues itself.
func (b *Book) Mint(ctx *common.Context, to util.Uint160, quantity asset.Amount) error {
	t, err := b.existingToken(ctx, "mint", quantity.Kind.Symbol)
	if err != nil {
		return err
	}
	if err := checkQuantity("mint", t, quantity); err != nil {
		return err
	}
	if quantity.Value > t.MaxSupply.Value-t.Supply.Value {
		return fmt.Errorf("%w: mint: quantity exceeds available supply", common.ErrInvalidAmount)
	}

	t.Supply = t.Supply.Plus(quantity.Value)
	if err := common.SetSerialized(ctx, tokenKey(quantity.Kind.Symbol), &t); err != nil {
		return err
	}
	if err := b.Credit(ctx, to, quantity); err != nil {
		return err
	}

	ctx.Notify("Transfer", nil, to, quantity, "")
	return nil
}

// Retire decreases supply of the token and debits quantity from the owner.
// It can be invoked only by the ledger.
func (b *Book) Retire(ctx *common.Context, owner util.Uint160, quantity asset.Amount, memo string) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}
	if len(memo) > common.MaxMemoLen {
		return fmt.Errorf("%w: retire: memo has more than %d bytes", common.ErrInvalidAmount, common.MaxMemoLen)
	}
	return b.Burn(ctx, owner, quantity)
}

// Burn decreases supply of the token and debits quantity from the owner
// without witness checks.
func (b *Book) Burn(ctx *common.Context, owner util.Uint160, quantity asset.Amount) error {
	t, err := b.existingToken(ctx, "burn", quantity.Kind.Symbol)
	if err != nil {
		return err
	}
	if err := checkQuantity("burn", t, quantity); err != nil {
		return err
	}
	if t.Supply.Value < quantity.Value {
		return fmt.Errorf("%w: burn: negative supply after burn", common.ErrInvariant)
	}

	t.Supply = t.Supply.Minus(quantity.Value)
	if err := common.SetSerialized(ctx, tokenKey(quantity.Kind.Symbol), &t); err != nil {
		return err
	}
	if err := b.Debit(ctx, owner, quantity); err != nil {
		return err
	}

	ctx.Notify("Transfer", owner, nil, quantity, "")
	return nil
}

// Transfer moves quantity from one account to another. It can be invoked
// only by the sender. Successful transfer is reported to Hooks.Spent.
func (b *Book) Transfer(ctx *common.Context, from, to util.Uint160, quantity asset.Amount, memo string) error {
	if from == to {
		return fmt.Errorf("%w: transfer: cannot transfer to self", common.ErrInvariant)
	}
	if err := common.CheckOwnerWitness(ctx, from); err != nil {
		return err
	}

	t, err := b.existingToken(ctx, "transfer", quantity.Kind.Symbol)
	if err != nil {
		return err
	}
	if err := checkQuantity("transfer", t, quantity); err != nil {
		return err
	}
	if len(memo) > common.MaxMemoLen {
		return fmt.Errorf("%w: transfer: memo has more than %d bytes", common.ErrInvalidAmount, common.MaxMemoLen)
	}

	return b.Move(ctx, from, to, quantity, memo)
}

// Move is Transfer without witness and token checks. It is used for
// transfers made by the ledger on its own behalf.
func (b *Book) Move(ctx *common.Context, from, to util.Uint160, quantity asset.Amount, memo string) error {
	if err := b.Debit(ctx, from, quantity); err != nil {
		return err
	}
	if err := b.Credit(ctx, to, quantity); err != nil {
		return err
	}
	if err := b.hooks.Spent(ctx, from); err != nil {
		return err
	}

	ctx.Notify("Transfer", from, to, quantity, memo)
	return nil
}

// Open creates zero balance row of the given kind for the owner. It can be
// invoked only by the payer. Open does nothing if the row exists.
func (b *Book) Open(ctx *common.Context, owner util.Uint160, kind asset.Kind, payer util.Uint160) error {
	if err := common.CheckWitness(ctx, payer); err != nil {
		return err
	}

	t, err := b.existingToken(ctx, "open", kind.Symbol)
	if err != nil {
		return err
	}
	if t.Supply.Kind != kind {
		return fmt.Errorf("%w: open: symbol precision mismatch", common.ErrInvalidAmount)
	}

	_, ok, err := b.BalanceOf(ctx, owner, kind.Symbol)
	if err != nil || ok {
		return err
	}
	return b.create(ctx, owner, asset.Zero(kind))
}

// Close removes zero balance row of the owner. Closing the last row of the
// owner is reported to Hooks.AccountsClosed. It can be invoked only by the
// owner.
func (b *Book) Close(ctx *common.Context, owner util.Uint160, kind asset.Kind) error {
	if err := common.CheckOwnerWitness(ctx, owner); err != nil {
		return err
	}

	bal, ok, err := b.BalanceOf(ctx, owner, kind.Symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: close: balance row already deleted or never existed", common.ErrNotFound)
	}
	if bal.Value != 0 {
		return fmt.Errorf("%w: close: cannot close because the balance is not zero", common.ErrInvariant)
	}

	ctx.Delete(accountKey(owner, kind.Symbol))

	rows, err := b.Accounts(ctx, owner)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return b.hooks.AccountsClosed(ctx, owner)
	}
	return nil
}

// Credit adds amount to the owner's balance row creating it if necessary.
// Row creation is reported to Hooks.AccountOpened.
func (b *Book) Credit(ctx *common.Context, owner util.Uint160, amount asset.Amount) error {
	if amount.Value < 0 {
		return fmt.Errorf("%w: credit: negative amount %s", common.ErrInvalidAmount, amount)
	}

	acc, ok, err := b.account(ctx, owner, amount.Kind.Symbol)
	if err != nil {
		return err
	}
	if !ok {
		return b.create(ctx, owner, amount)
	}
	if !acc.Balance.SameKind(amount) {
		return fmt.Errorf("%w: credit: symbol precision mismatch", common.ErrInvalidAmount)
	}

	acc.Balance = acc.Balance.Plus(amount.Value)
	return common.SetSerialized(ctx, accountKey(owner, amount.Kind.Symbol), &acc)
}

// Debit subtracts amount from the owner's balance row. It never makes the
// balance negative.
func (b *Book) Debit(ctx *common.Context, owner util.Uint160, amount asset.Amount) error {
	if amount.Value < 0 {
		return fmt.Errorf("%w: debit: negative amount %s", common.ErrInvalidAmount, amount)
	}

	acc, ok, err := b.account(ctx, owner, amount.Kind.Symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: debit: no balance object found", common.ErrInsufficientBalance)
	}
	if !acc.Balance.SameKind(amount) {
		return fmt.Errorf("%w: debit: symbol precision mismatch", common.ErrInvalidAmount)
	}
	if acc.Balance.Value < amount.Value {
		return fmt.Errorf("%w: debit: overdrawn balance", common.ErrInsufficientBalance)
	}

	acc.Balance = acc.Balance.Minus(amount.Value)
	return common.SetSerialized(ctx, accountKey(owner, amount.Kind.Symbol), &acc)
}

// BalanceOf returns owner's balance of the token with the given symbol.
func (b *Book) BalanceOf(ctx *common.Context, owner util.Uint160, symbol string) (asset.Amount, bool, error) {
	acc, ok, err := b.account(ctx, owner, symbol)
	return acc.Balance, ok, err
}

// Accounts returns all balance rows of the owner ordered by symbol.
func (b *Book) Accounts(ctx *common.Context, owner util.Uint160) ([]asset.Amount, error) {
	var (
		res     []asset.Amount
		lastErr error
	)

	ctx.Find(common.Key(accPrefix, owner[:]), func(_, v []byte) bool {
		var acc Account
		r := io.NewBinReaderFromBuf(v)
		acc.DecodeBinary(r)
		if r.Err != nil {
			lastErr = fmt.Errorf("decode balance row: %w", r.Err)
			return false
		}
		res = append(res, acc.Balance)
		return true
	})
	return res, lastErr
}

func (b *Book) create(ctx *common.Context, owner util.Uint160, amount asset.Amount) error {
	acc := Account{Balance: amount}
	if err := common.SetSerialized(ctx, accountKey(owner, amount.Kind.Symbol), &acc); err != nil {
		return err
	}
	return b.hooks.AccountOpened(ctx, owner)
}

func (b *Book) account(ctx *common.Context, owner util.Uint160, symbol string) (Account, bool, error) {
	var acc Account
	ok, err := common.GetSerialized(ctx, accountKey(owner, symbol), &acc)
	return acc, ok, err
}

func (b *Book) existingToken(ctx *common.Context, op, symbol string) (Token, error) {
	t, ok, err := b.Token(ctx, symbol)
	if err != nil {
		return t, err
	}
	if !ok {
		return t, fmt.Errorf("%w: %s: token with symbol %s does not exist", common.ErrNotFound, op, symbol)
	}
	return t, nil
}

func checkQuantity(op string, t Token, quantity asset.Amount) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: %s: must %s positive quantity", common.ErrInvalidAmount, op, op)
	}
	if quantity.Kind != t.Supply.Kind {
		return fmt.Errorf("%w: %s: symbol precision mismatch", common.ErrInvalidAmount, op)
	}
	return nil
}

func tokenKey(symbol string) []byte {
	return common.Key(tokenPrefix, []byte(symbol))
}

func accountKey(owner util.Uint160, symbol string) []byte {
	return common.Key(accPrefix, owner[:], []byte(symbol))
}

// EncodeBinary implements io.Serializable.
func (t Token) EncodeBinary(w *io.BinWriter) {
	t.Supply.EncodeBinary(w)
	t.MaxSupply.EncodeBinary(w)
	w.WriteBytes(t.Issuer[:])
}

// DecodeBinary implements io.Serializable.
func (t *Token) DecodeBinary(r *io.BinReader) {
	t.Supply.DecodeBinary(r)
	t.MaxSupply.DecodeBinary(r)
	r.ReadBytes(t.Issuer[:])
}

// EncodeBinary implements io.Serializable.
func (a Account) EncodeBinary(w *io.BinWriter) {
	a.Balance.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (a *Account) DecodeBinary(r *io.BinReader) {
	a.Balance.DecodeBinary(r)
}

type nopHooks struct{}

func (nopHooks) AccountOpened(*common.Context, util.Uint160) error  { return nil }
func (nopHooks) AccountsClosed(*common.Context, util.Uint160) error { return nil }
func (nopHooks) Spent(*common.Context, util.Uint160) error          { return nil }
