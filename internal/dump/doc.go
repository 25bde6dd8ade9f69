/*
Package dump provides I/O operations for collected states of the ledger
contract storage.

Storage snapshots allow to move the ledger between store backends, to inspect
it offline and to reproduce its state in tests. The package works with dumps
stored in the file system using human-readable encoding.
*/
package dump
