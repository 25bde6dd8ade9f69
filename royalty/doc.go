/*
Package royalty implements royalty holders and royalty payouts of the ledger.

Royalty holders are accounts with a fixed percent share. Sum of all shares
never exceeds 100%. Collateral tokens received from the royalty source are
split among holders with a plain floor allocation, so some dust may remain on
the ledger.

# Contract notifications

Notify notification with "royalty" action type is produced once per payout:

	to: the ledger
	from: null
	quantity: negated distributed sum
	memo: Total amount of distribution: <quantity>
*/
package royalty
