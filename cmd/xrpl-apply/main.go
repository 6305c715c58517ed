// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// xrpl-apply applies JSON transactions to a ledger kept in a leveldb
// directory and queries the resulting state.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/store"
)

type cli struct {
	v       *viper.Viper
	logger  *slog.Logger
	cfgFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newCLI returns a cli whose configuration holds the defaults
func newCLI() *cli {
	v := viper.New()
	fees := common.DefaultFees()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("leveldb.path", "data")
	v.SetDefault("ledger.seq", 1)
	v.SetDefault("ledger.open", false)
	v.SetDefault("fees.base", fees.Base)
	v.SetDefault("fees.reserve", fees.Reserve)
	v.SetDefault("fees.increment", fees.Increment)
	v.SetDefault("leveldb.cache_size", store.DefaultCacheSize)
	v.SetDefault("leveldb.sync", false)
	v.SetDefault("features.disabled", []string{})
	v.SetEnvPrefix("XRPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &cli{v: v}
}

func newRootCmd() *cobra.Command {
	c := newCLI()
	rootCmd := &cobra.Command{
		Use:          "xrpl-apply",
		Short:        "Apply transactions to a local ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "YAML config file")
	flags.StringP("db", "d", "data", "leveldb directory holding the ledger")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Uint32("ledger-seq", 1, "sequence of the ledger transactions are applied to")
	flags.Bool("open", false, "apply as to an open ledger")
	_ = c.v.BindPFlag("leveldb.path", flags.Lookup("db"))
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = c.v.BindPFlag("ledger.seq", flags.Lookup("ledger-seq"))
	_ = c.v.BindPFlag("ledger.open", flags.Lookup("open"))

	rootCmd.AddCommand(
		newApplyCmd(c),
		newFundCmd(c),
		newAccountCmd(c),
		newIssuanceCmd(c),
		newHoldersCmd(c),
		newDumpCmd(c),
	)
	return rootCmd
}

func (c *cli) init() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	logger, err := newLogger(os.Stderr, c.v.GetString("log.level"), c.v.GetString("log.format"))
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func newLogger(w io.Writer, level string, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// rules returns every feature except those disabled in the configuration
func (c *cli) rules() (common.Rules, error) {
	var disabled []common.Feature
	for _, name := range c.v.GetStringSlice("features.disabled") {
		f, err := common.ParseFeature(name)
		if err != nil {
			return common.Rules{}, err
		}
		disabled = append(disabled, f)
	}
	return common.AllRules().Without(disabled...), nil
}

func (c *cli) openStore() (*store.Store, error) {
	rules, err := c.rules()
	if err != nil {
		return nil, err
	}
	path := c.v.GetString("leveldb.path")
	s, err := store.New(
		path,
		store.WithLogger(c.logger),
		store.WithRules(rules),
		store.WithFees(common.Fees{
			Base:      c.v.GetUint64("fees.base"),
			Reserve:   c.v.GetUint64("fees.reserve"),
			Increment: c.v.GetUint64("fees.increment"),
		}),
		store.WithLedgerSeq(c.v.GetUint32("ledger.seq")),
		store.WithOpenLedger(c.v.GetBool("ledger.open")),
		store.WithCacheSize(c.v.GetInt("leveldb.cache_size")),
		store.WithSyncWrites(c.v.GetBool("leveldb.sync")),
	)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	c.logger.Debug("opened ledger", "path", path, "seq", s.Seq())
	return s, nil
}
