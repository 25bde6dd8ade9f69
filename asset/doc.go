/*
Package asset describes token quantities handled by the ledger.

A Kind is a ticker with precision, an Extended kind additionally names the
contract issuing the token. Amounts are signed integers in the smallest units
of their kind; String and Parse convert them to and from "1.0000 USDT" form.
*/
package asset
