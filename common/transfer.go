package common

import (
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
)

// Memos of transfers produced by the ledger itself.
const (
	MemoDepositRefund = "deposit refund"
	MemoDepositReturn = "return of the deposit"
	MemoRoyalty       = "royalty"
	MemoCollect       = "collect cash"

	// MaxMemoLen is the longest memo accepted by token actions.
	MaxMemoLen = 256
)

// Action types of Notify notifications.
const (
	NotifyInheritance = "inheritance"
	NotifyRoyalty     = "royalty"
)

// SendNotify emits Notify notification re-broadcasting the event of the
// given action type to the recipient. Zero from is reported as null.
func SendNotify(ctx *Context, actionType string, to, from util.Uint160, quantity asset.Amount, memo string) {
	var src any
	if from != (util.Uint160{}) {
		src = from
	}
	ctx.Notify("Notify", actionType, to, src, quantity, memo)
}
