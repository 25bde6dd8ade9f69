package common

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	// ErrAdminWitnessFailed appears when the method must be
	// called by the ledger itself but was not.
	ErrAdminWitnessFailed = "ledger witness check failed"
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// by certain account but was not.
	ErrWitnessFailed = "witness check failed"
)

// CheckAdminWitness checks that the ledger signed the invocation.
func CheckAdminWitness(ctx *Context) error {
	return checkWitness(ctx, ctx.Self(), ErrAdminWitnessFailed)
}

// CheckOwnerWitness checks witness of the passed owner.
func CheckOwnerWitness(ctx *Context, owner util.Uint160) error {
	return checkWitness(ctx, owner, ErrOwnerWitnessFailed)
}

// CheckWitness checks witness of the passed caller.
func CheckWitness(ctx *Context, caller util.Uint160) error {
	return checkWitness(ctx, caller, ErrWitnessFailed)
}

func checkWitness(ctx *Context, acc util.Uint160, msg string) error {
	if !ctx.CheckWitness(acc) {
		return fmt.Errorf("%w: %s: %s", ErrAuthorization, msg, address.Uint160ToString(acc))
	}
	return nil
}
