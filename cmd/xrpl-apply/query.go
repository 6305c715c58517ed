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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/mptoken"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// ownedTypes are the entry types an owner directory can list
var ownedTypes = []common.EntryType{
	common.EntryTypeTrustLine,
	common.EntryTypeDepositPreauth,
	common.EntryTypeMPTokenIssuance,
	common.EntryTypeMPToken,
}

type entryRecord struct {
	Type  common.EntryType `json:"ledger_entry_type"`
	Index common.Hash256   `json:"index"`
	Entry common.Entry     `json:"entry,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAccountCmd(c *cli) *cobra.Command {
	var objects bool
	cmd := &cobra.Command{
		Use:   "account <account>",
		Short: "Show an account root and optionally the objects it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := common.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			root := common.ReadAccount(s, acct)
			if root == nil {
				return fmt.Errorf("account %s: %w", acct, common.ErrObjectNotFound)
			}
			if !objects {
				return writeJSON(cmd.OutOrStdout(), root)
			}
			var owned []entryRecord
			for item := range view.DirWalk(s, common.OwnerDirKeylet(acct), 0) {
				for _, t := range ownedTypes {
					if e := s.Read(common.Keylet{Type: t, Key: item.Key}); e != nil {
						owned = append(owned, entryRecord{Type: t, Index: item.Key, Entry: e})
						break
					}
				}
			}
			if err := s.Err(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Account *common.AccountRoot `json:"account_data"`
				Objects []entryRecord       `json:"account_objects"`
			}{root, owned})
		},
	}
	cmd.Flags().BoolVar(&objects, "objects", false, "list the objects in the owner directory")
	return cmd
}

func newIssuanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "issuance <mpt_issuance_id>",
		Short: "Show a token issuance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := common.ParseTokenID(args[0])
			if err != nil {
				return err
			}
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			iss := common.ReadAs[*common.MPTokenIssuance](s, common.IssuanceKeylet(id))
			if iss == nil {
				return fmt.Errorf("issuance %s: %w", id, common.ErrObjectNotFound)
			}
			return writeJSON(cmd.OutOrStdout(), iss)
		},
	}
}

func newHoldersCmd(c *cli) *cobra.Command {
	var limit int
	var marker string
	cmd := &cobra.Command{
		Use:   "holders <mpt_issuance_id>",
		Short: "List the holders of a token issuance one page at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := common.ParseTokenID(args[0])
			if err != nil {
				return err
			}
			var cursor *mptoken.Cursor
			if marker != "" {
				parsed, err := mptoken.ParseCursor(marker)
				if err != nil {
					return err
				}
				cursor = &parsed
			}
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			holders, next, err := mptoken.HolderPage(s, id, cursor, limit)
			if err != nil {
				return err
			}
			page := struct {
				IssuanceID common.TokenID         `json:"mpt_issuance_id"`
				Holders    []mptoken.HolderRecord `json:"mptokens"`
				Marker     string                 `json:"marker,omitempty"`
			}{IssuanceID: id, Holders: holders}
			if next != nil {
				page.Marker = next.String()
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", mptoken.DefaultHolderLimit, "holders per page")
	cmd.Flags().StringVar(&marker, "marker", "", "marker returned by the previous page")
	return cmd
}

func newDumpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every committed ledger entry, one JSON object per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			enc := json.NewEncoder(cmd.OutOrStdout())
			var count int
			for e, err := range s.Entries() {
				if err != nil {
					return fmt.Errorf("read entry %d: %w", count, err)
				}
				if err := enc.Encode(entryRecord{Type: e.EntryType(), Index: e.Key(), Entry: e}); err != nil {
					return err
				}
				count++
			}
			c.logger.Debug("dumped ledger", "entries", count)
			return nil
		},
	}
}
