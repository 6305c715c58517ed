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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

func newFundCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fund <account> <drops>",
		Short: "Create a funded account outside of any transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := common.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			drops, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid drops %q: %w", args[1], err)
			}
			balance := common.NativeAmount(drops)
			if balance.Signum() <= 0 || !balance.IsLegalNet() {
				return fmt.Errorf("invalid balance %s", balance)
			}
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if s.Exists(common.AccountKeylet(acct)) {
				return fmt.Errorf("account %s already exists", acct)
			}
			s.RawInsert(common.NewAccountRoot(acct, balance, 1))
			if err := s.Commit(); err != nil {
				return err
			}
			c.logger.Info("funded account", "account", acct.String(), "balance", balance.String())
			return nil
		},
	}
}
