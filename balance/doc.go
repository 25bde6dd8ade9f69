/*
Package balance implements the balance ledger of the tokens issued by the
ledger contract.

Every owner has at most one balance row per token symbol. Rows are created on
the first credit (or explicit Open) and removed only by an explicit Close of a
zero row. Credit and Debit are the only mutators of balances; Debit never
drives a row negative.

Balance rows lifecycle is reported to Hooks: the inheritance registry uses it
to create inheritance members on the first row, to drop them with the last
row and to extend inactivity timers on every outgoing transfer.

# Contract notifications

Transfer notification. Produced by Mint (from is null), Burn (to is null)
and transfers.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Array (value, symbol, decimals)
	  - name: memo
	    type: ByteArray

Create notification. Produced when new token kind is registered.

	Create:
	  - name: issuer
	    type: Hash160
	  - name: maxSupply
	    type: Array (value, symbol, decimals)
*/
package balance
