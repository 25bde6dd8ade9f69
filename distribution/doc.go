/*
Package distribution implements proportional splitting of token quantities
shared by inheritance and royalty payouts.

Shares are fixed-point percents with one decimal place. AllocateShare rounds
down, so a plain per-recipient loop (royalty payout) may leave dust. Split
pushes all rounding to a single recipient and always distributes the whole
quantity (inheritance payout).
*/
package distribution
