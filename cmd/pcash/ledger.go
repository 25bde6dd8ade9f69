package main

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/config"
	"github.com/paycash/pcash-contract/contracts/pcash"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const ledgerVersion = common.Version

// ledger groups resources opened for the command.
type ledger struct {
	cfg      *config.Config
	params   pcash.Params
	log      *zap.Logger
	store    storage.Store
	contract *pcash.Contract
}

func (l *ledger) close() {
	if err := l.store.Close(); err != nil {
		l.log.Error("can't close storage", zap.Error(err))
	}
	_ = l.log.Sync()
}

func readConfig(c *cli.Context) (*config.Config, error) {
	path := c.GlobalString("config")
	if path == "" {
		return nil, errors.New("missing configuration file, use --config flag")
	}
	return config.Load(path)
}

// openLedger reads configuration and opens the ledger over the configured
// store. Result must be closed.
func openLedger(c *cli.Context) (*ledger, error) {
	cfg, err := readConfig(c)
	if err != nil {
		return nil, err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	p, err := cfg.Params()
	if err != nil {
		return nil, fmt.Errorf("ledger parameters: %w", err)
	}

	prices, err := cfg.PriceSource()
	if err != nil {
		return nil, fmt.Errorf("price source: %w", err)
	}

	st, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	ctr, err := pcash.New(p, st, prices, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &ledger{
		cfg:      cfg,
		params:   p,
		log:      log,
		store:    st,
		contract: ctr,
	}, nil
}
