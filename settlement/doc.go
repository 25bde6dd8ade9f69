/*
Package settlement implements the deposit pool and the settlement engine of
the ledger.

A paired deposit of the stable and the collateral tokens is quantized into
whole lots by the external pool price, the excess is refunded and cash is
minted to the depositor. Deposits are unwound either one at a time by their
owners (SwapBack) or in bulk when own tokens are transferred back to the
ledger (Redeem). Bulk redemption drains deposits with the smallest collateral
first, older ones first among equal collateral.

# Contract notifications

Deposit notification is produced when a new deposit record is created.

	Deposit:
	  - name: id
	    type: Integer
	  - name: owner
	    type: Hash160
	  - name: collateral
	    type: Array
	  - name: stable
	    type: Array
	  - name: cash
	    type: Array

Redeem notification is produced after bulk redemption.

	Redeem:
	  - name: from
	    type: Hash160
	  - name: quantity
	    type: Array
	  - name: refund
	    type: Array
*/
package settlement
