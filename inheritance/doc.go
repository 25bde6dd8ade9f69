/*
Package inheritance implements inheritance of balances of inactive accounts.

Every account holding a balance row has a Member record with an inactivity
timer. The record is created with the ledger itself as the only heir and is
removed when the owner closes the last balance row. Owners may configure up to
three heirs and the inactivity period; every outgoing transfer restarts the
timer. Once the timer expires anyone may trigger distribution of the owner's
balance of some token.

States of a member: active (default heir), configured (explicit heirs) and
closed (record removed). Distribution does not change the state.

# Contract notifications

Notify notification with "inheritance" action type is produced for every
heir credited (to: heir, from: owner, quantity: amount) and once for the
owner with negated distributed balance.
*/
package inheritance
