package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/paycash/pcash-contract/deploy"
	"github.com/paycash/pcash-contract/internal/dump"
	"github.com/paycash/pcash-contract/settlement"
	"github.com/urfave/cli"
)

const dumpContractName = "pcash"

var deployCommand = cli.Command{
	Name:   "deploy",
	Usage:  "initialize or update the ledger storage and bootstrap its state",
	Action: runDeploy,
}

var dumpCommand = cli.Command{
	Name:  "dump",
	Usage: "dump the ledger storage into the directory",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "label", Usage: "label of the dumped environment (e.g. 'testnet')"},
		cli.StringFlag{Name: "dir", Value: "testdata", Usage: "output directory"},
	},
	Action: runDump,
}

var restoreCommand = cli.Command{
	Name:  "restore",
	Usage: "restore the ledger storage from the dump",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "label", Usage: "label of the dump"},
		cli.UintFlag{Name: "time", Usage: "time of the dump, latest if omitted"},
		cli.StringFlag{Name: "dir", Value: "testdata", Usage: "directory with dumps"},
	},
	Action: runRestore,
}

var balancesCommand = cli.Command{
	Name:      "balances",
	Usage:     "print accounts of the owner",
	ArgsUsage: "<address>",
	Action:    runBalances,
}

var depositsCommand = cli.Command{
	Name:      "deposits",
	Usage:     "print pending deposits, all or of the owner",
	ArgsUsage: "[address]",
	Action:    runDeposits,
}

var expiredCommand = cli.Command{
	Name:  "expired",
	Usage: "print inheritance members which balances can be distributed",
	Flags: []cli.Flag{
		cli.DurationFlag{Name: "after", Usage: "check expiration at the given time from now"},
	},
	Action: runExpired,
}

func now() uint32 {
	return uint32(time.Now().Unix())
}

func runDeploy(c *cli.Context) error {
	l, err := openLedger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.close()

	st, err := l.cfg.State(l.params)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("deploy state: %w", err), 1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = deploy.Deploy(ctx, deploy.Prm{
		Logger: l.log,
		Ledger: l.contract,
		Clock:  now,
		State:  st,
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func runDump(c *cli.Context) error {
	label := c.String("label")
	if label == "" {
		return cli.NewExitError("missing dump label", 1)
	}

	l, err := openLedger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.close()

	v, err := l.contract.StoredVersion()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	dir := c.String("dir")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return cli.NewExitError(fmt.Errorf("create dump dir: %w", err), 1)
	}

	id := dump.ID{Label: label, Time: now()}
	d, err := dump.NewCreator(dir, id)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("init local dumper: %w", err), 1)
	}
	defer d.Close()

	w := d.AddContract(dump.Contract{
		Name:    dumpContractName,
		Address: address.Uint160ToString(l.params.Address),
		Version: v,
	})
	if err := w.WriteStore(l.store); err != nil {
		return cli.NewExitError(fmt.Errorf("dump storage: %w", err), 1)
	}

	if err := d.Flush(); err != nil {
		return cli.NewExitError(fmt.Errorf("flush dump: %w", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "ledger is successfully dumped to '%s' as %s\n", dir, id)
	return nil
}

func runRestore(c *cli.Context) error {
	label := c.String("label")
	if label == "" {
		return cli.NewExitError("missing dump label", 1)
	}

	l, err := openLedger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.close()

	var (
		dir   = c.String("dir")
		want  = uint32(c.Uint("time"))
		found bool
		id    dump.ID
	)

	err = dump.IterateDumps(dir, func(cur dump.ID, _ *dump.Reader) {
		if cur.Label != label || (want != 0 && cur.Time != want) {
			return
		}
		if !found || cur.Time > id.Time {
			found, id = true, cur
		}
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !found {
		return cli.NewExitError(fmt.Sprintf("no dump labeled '%s'", label), 1)
	}

	var rErr error
	err = dump.IterateDumps(dir, func(cur dump.ID, r *dump.Reader) {
		if cur == id {
			rErr = r.Restore(dumpContractName, l.store)
		}
	})
	if err == nil {
		err = rErr
	}
	if err != nil {
		return cli.NewExitError(fmt.Errorf("restore %s: %w", id, err), 1)
	}

	fmt.Fprintf(c.App.Writer, "ledger is successfully restored from %s\n", id)
	return nil
}

func runBalances(c *cli.Context) error {
	owner, err := address.StringToUint160(c.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("owner address: %w", err), 1)
	}

	l, err := openLedger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.close()

	accs, err := l.contract.Accounts(owner)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for i := range accs {
		fmt.Fprintln(c.App.Writer, accs[i])
	}
	return nil
}

func runDeposits(c *cli.Context) error {
	l, err := openLedger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.close()

	var ds []settlement.Deposit
	if c.NArg() > 0 {
		owner, perr := address.StringToUint160(c.Args().First())
		if perr != nil {
			return cli.NewExitError(fmt.Errorf("owner address: %w", perr), 1)
		}
		ds, err = l.contract.DepositsOf(owner)
	} else {
		ds, err = l.contract.Deposits()
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOWNER\tCOLLATERAL\tSTABLE\tCASH\tCREATED")
	for _, d := range ds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, address.Uint160ToString(d.Owner),
			d.CollateralIn, d.StableIn, d.CashOut, time.Unix(int64(d.Created), 0).UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

func runExpired(c *cli.Context) error {
	l, err := openLedger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer l.close()

	at := now() + uint32(c.Duration("after")/time.Second)
	ms, err := l.contract.ExpiredMembers(at)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OWNER\tEXPIRY\tHEIRS")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%s\t%d\n", address.Uint160ToString(m.Owner),
			time.Unix(int64(m.Expiry), 0).UTC().Format(time.RFC3339), len(m.Heirs))
	}
	return w.Flush()
}
