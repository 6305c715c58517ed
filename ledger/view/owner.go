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

package view

import (
	"log/slog"
	"math"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// AdjustOwnerCount changes the number of reserve-carrying objects owned by an
// account. The count is clamped to the uint32 range and the clamp is logged,
// since it means the ledger was already inconsistent.
func AdjustOwnerCount(v common.ApplyView, account *common.AccountRoot, delta int, logger *slog.Logger) {
	if delta == 0 {
		return
	}
	next := int64(account.OwnerCount) + int64(delta)
	switch {
	case next < 0:
		loggerOrDefault(logger).Error(
			"owner count underflow",
			"account", account.Account.String(),
			"count", account.OwnerCount,
			"delta", delta,
		)
		next = 0
	case next > math.MaxUint32:
		loggerOrDefault(logger).Error(
			"owner count overflow",
			"account", account.Account.String(),
			"count", account.OwnerCount,
			"delta", delta,
		)
		next = math.MaxUint32
	}
	account.OwnerCount = uint32(next)
	v.Update(account)
}

// OwnerDirDescriber marks new owner directory pages with their owner
func OwnerDirDescriber(owner common.AccountID) func(*common.DirectoryNode) {
	return func(node *common.DirectoryNode) {
		node.Owner = &owner
	}
}

// HolderDirDescriber marks new holder directory pages with their issuance
func HolderDirDescriber(id common.TokenID) func(*common.DirectoryNode) {
	return func(node *common.DirectoryNode) {
		node.TokenID = &id
	}
}

// ReserveFree reports whether an account may take on one more owned object
// without its balance covering the reserve. The first two objects an account
// owns are allowed even below the reserve so that a new account can start
// holding assets.
func ReserveFree(ownerCount uint32) bool {
	return ownerCount < 2
}
