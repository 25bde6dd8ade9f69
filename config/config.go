/*
Package config provides YAML configuration of the ledger node.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/contracts/pcash"
	"github.com/paycash/pcash-contract/deploy"
	"github.com/paycash/pcash-contract/distribution"
	"github.com/paycash/pcash-contract/inheritance"
	"github.com/paycash/pcash-contract/royalty"
	"github.com/paycash/pcash-contract/settlement"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type (
	// Config is the root of the configuration file.
	Config struct {
		Ledger  Ledger                   `yaml:"ledger"`
		Storage dbconfig.DBConfiguration `yaml:"storage"`
		Logger  Logger                   `yaml:"logger"`
		Pools   []Pool                   `yaml:"pools"`
		Deploy  Deploy                   `yaml:"deploy"`
	}

	// Token is a token kind optionally bound to the issuing contract.
	Token struct {
		Symbol   string `yaml:"symbol"`
		Decimals uint8  `yaml:"decimals"`
		Contract string `yaml:"contract"`
	}

	// Ledger groups parameters of the ledger contract.
	Ledger struct {
		Address    string `yaml:"address"`
		Stable     Token  `yaml:"stable"`
		Collateral Token  `yaml:"collateral"`
		Cash       Token  `yaml:"cash"`

		Inheritance struct {
			MinPeriod     time.Duration `yaml:"min_period"`
			InitialPeriod time.Duration `yaml:"initial_period"`
			MaxPeriod     time.Duration `yaml:"max_period"`
		} `yaml:"inheritance"`

		Royalty struct {
			Period        time.Duration `yaml:"period"`
			Threshold     int64         `yaml:"threshold"`
			CollectAmount int64         `yaml:"collect_amount"`
			Source        string        `yaml:"source"`
			Account       string        `yaml:"account"`
		} `yaml:"royalty"`

		CashPackage        int64  `yaml:"cash_package"`
		ExchangeMultiplier int64  `yaml:"exchange_multiplier"`
		CashMultiplier     int64  `yaml:"cash_multiplier"`
		RedeemIntent       string `yaml:"redeem_intent"`
	}

	// Logger configures zap logger.
	Logger struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	}

	// Pool is a statically configured liquidity pool. Amounts are in
	// "<number> <symbol>" form.
	Pool struct {
		Token1         string `yaml:"token1"`
		Token1Contract string `yaml:"token1_contract"`
		Token2         string `yaml:"token2"`
		Token2Contract string `yaml:"token2_contract"`
	}

	// Deploy lists the state the ledger is bootstrapped with.
	Deploy struct {
		Tokens []struct {
			Issuer    string `yaml:"issuer"`
			MaxSupply string `yaml:"max_supply"`
		} `yaml:"tokens"`
		SwapPackage     string   `yaml:"swap_package"`
		RedemptionRates []string `yaml:"redemption_rates"`
		RoyaltyHolders  []struct {
			Account string `yaml:"account"`
			Share   string `yaml:"share"`
		} `yaml:"royalty_holders"`
	}
)

var errEmptyAddress = errors.New("empty address")

// Default returns configuration with production constants and in-memory
// storage. Addresses are left empty.
func Default() *Config {
	var c Config

	c.Ledger.Stable = Token{Symbol: "USDT", Decimals: 4}
	c.Ledger.Collateral = Token{Symbol: "MLNK", Decimals: 8}
	c.Ledger.Cash = Token{Symbol: "USDCASH", Decimals: 5}

	c.Ledger.Inheritance.MinPeriod = 24 * time.Hour
	c.Ledger.Inheritance.InitialPeriod = 365 * 24 * time.Hour
	c.Ledger.Inheritance.MaxPeriod = 10 * 365 * 24 * time.Hour

	c.Ledger.Royalty.Period = 24 * time.Hour
	c.Ledger.Royalty.Threshold = 1000
	c.Ledger.Royalty.CollectAmount = 100000

	c.Ledger.CashPackage = 10_000_000
	c.Ledger.ExchangeMultiplier = 100
	c.Ledger.CashMultiplier = 10
	c.Ledger.RedeemIntent = "withdraw"

	c.Storage.Type = dbconfig.InMemoryDB
	c.Logger = Logger{Level: "info", Encoding: "console"}
	return &c
}

// Load reads configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, nil
}

// Params converts ledger section into the contract parameters.
func (c *Config) Params() (pcash.Params, error) {
	var (
		p   pcash.Params
		err error
		l   = c.Ledger
	)

	if p.Address, err = parseAddress("ledger address", l.Address); err != nil {
		return p, err
	}
	stable, err := l.Stable.extended("stable")
	if err != nil {
		return p, err
	}
	collateral, err := l.Collateral.extended("collateral")
	if err != nil {
		return p, err
	}
	cash := l.Cash.kind()
	if !cash.IsValid() {
		return p, fmt.Errorf("invalid cash token %s", cash)
	}

	p.Inheritance = inheritance.Settings{
		MinPeriod:     seconds(l.Inheritance.MinPeriod),
		InitialPeriod: seconds(l.Inheritance.InitialPeriod),
		MaxPeriod:     seconds(l.Inheritance.MaxPeriod),
	}
	if p.Inheritance.MinPeriod > p.Inheritance.MaxPeriod {
		return p, fmt.Errorf("inheritance min period %s exceeds max period %s",
			l.Inheritance.MinPeriod, l.Inheritance.MaxPeriod)
	}

	p.Royalty = royalty.Settings{
		Period:        seconds(l.Royalty.Period),
		Threshold:     l.Royalty.Threshold,
		CollectAmount: l.Royalty.CollectAmount,
		Cash:          cash,
	}
	if p.Royalty.Source, err = parseAddress("royalty source", l.Royalty.Source); err != nil {
		return p, err
	}
	if p.Royalty.Account, err = parseAddress("royalty account", l.Royalty.Account); err != nil {
		return p, err
	}

	if l.CashPackage <= 0 || l.ExchangeMultiplier <= 0 || l.CashMultiplier <= 0 {
		return p, errors.New("cash package and multipliers must be positive")
	}
	p.Settlement = settlement.Settings{
		Stable:             stable,
		Collateral:         collateral,
		Cash:               cash,
		CashPackage:        l.CashPackage,
		ExchangeMultiplier: l.ExchangeMultiplier,
		CashMultiplier:     l.CashMultiplier,
		Intent:             l.RedeemIntent,
	}
	return p, nil
}

// State converts deploy section into the bootstrap state. Swap package is
// bound to the stable token contract of p.
func (c *Config) State(p pcash.Params) (deploy.State, error) {
	var st deploy.State

	for i, t := range c.Deploy.Tokens {
		issuer, err := parseAddress(fmt.Sprintf("token #%d issuer", i), t.Issuer)
		if err != nil {
			return st, err
		}
		supply, err := asset.Parse(t.MaxSupply)
		if err != nil {
			return st, fmt.Errorf("token #%d: %w", i, err)
		}
		st.Tokens = append(st.Tokens, deploy.TokenPrm{Issuer: issuer, MaxSupply: supply})
	}

	if c.Deploy.SwapPackage != "" {
		a, err := asset.Parse(c.Deploy.SwapPackage)
		if err != nil {
			return st, fmt.Errorf("swap package: %w", err)
		}
		st.SwapPackage = asset.ExtendedAmount{Amount: a, Contract: p.Settlement.Stable.Contract}
	}

	for i, r := range c.Deploy.RedemptionRates {
		a, err := asset.Parse(r)
		if err != nil {
			return st, fmt.Errorf("redemption rate #%d: %w", i, err)
		}
		st.RedemptionRates = append(st.RedemptionRates, a)
	}

	for i, h := range c.Deploy.RoyaltyHolders {
		acc, err := parseAddress(fmt.Sprintf("royalty holder #%d", i), h.Account)
		if err != nil {
			return st, err
		}
		share, err := distribution.ParsePercent(h.Share)
		if err != nil {
			return st, fmt.Errorf("royalty holder #%d: %w", i, err)
		}
		st.RoyaltyHolders = append(st.RoyaltyHolders, deploy.RoyaltyHolderPrm{Account: acc, Share: share})
	}
	return st, nil
}

// PriceSource returns static price source with the configured pools.
func (c *Config) PriceSource() (*settlement.MemoryPools, error) {
	pools := make([]settlement.Pool, 0, len(c.Pools))
	for i := range c.Pools {
		t1, err := parseExtendedAmount(c.Pools[i].Token1, c.Pools[i].Token1Contract)
		if err != nil {
			return nil, fmt.Errorf("pool #%d: %w", i, err)
		}
		t2, err := parseExtendedAmount(c.Pools[i].Token2, c.Pools[i].Token2Contract)
		if err != nil {
			return nil, fmt.Errorf("pool #%d: %w", i, err)
		}
		pools = append(pools, settlement.Pool{Token1: t1, Token2: t2})
	}
	return settlement.NewMemoryPools(pools...), nil
}

// NewLogger builds logger of the configured level and encoding.
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}

	cc := zap.NewProductionConfig()
	cc.Level = zap.NewAtomicLevelAt(lvl)
	cc.Encoding = c.Logger.Encoding
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Sampling = nil
	return cc.Build()
}

func (t Token) kind() asset.Kind {
	return asset.Kind{Symbol: t.Symbol, Decimals: t.Decimals}
}

func (t Token) extended(name string) (asset.Extended, error) {
	k := t.kind()
	if !k.IsValid() {
		return asset.Extended{}, fmt.Errorf("invalid %s token %s", name, k)
	}
	h, err := parseAddress(name+" contract", t.Contract)
	if err != nil {
		return asset.Extended{}, err
	}
	return asset.Extended{Kind: k, Contract: h}, nil
}

func parseAddress(name, s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, fmt.Errorf("%s: %w", name, errEmptyAddress)
	}
	h, err := address.StringToUint160(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%s: %w", name, err)
	}
	return h, nil
}

func parseExtendedAmount(amount, contract string) (asset.ExtendedAmount, error) {
	a, err := asset.Parse(amount)
	if err != nil {
		return asset.ExtendedAmount{}, err
	}
	h, err := parseAddress("contract of "+a.Kind.Symbol, contract)
	if err != nil {
		return asset.ExtendedAmount{}, err
	}
	return asset.ExtendedAmount{Amount: a, Contract: h}, nil
}

func seconds(d time.Duration) uint32 {
	return uint32(d / time.Second)
}
