/*
Package pcash implements the PCash ledger contract.

The contract issues own tokens (cash in particular), matches paired deposits
of the stable and the collateral tokens into cash, unwinds them on request,
distributes royalties and inherits balances of inactive accounts.

Every method is an invocation: it runs on a staged copy of the storage and is
persisted only if it succeeds. A failed invocation leaves no trace, neither
in the storage nor in notifications or outbound transfers. Invocations are
serialized.

Methods and notifications are declared in the embedded manifest, see package
contracts. The manifest has no bytecode behind it, so methods carry no
offsets: the ABI only lists what the contract accepts and emits.
*/
package pcash
