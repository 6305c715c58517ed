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

package common_test

import (
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryEncodeDecode(t *testing.T) {
	alice := test.Account("alice")
	bob := test.Account("bob")
	id := common.NewTokenID(4, alice)
	maxAmt := uint64(1000)
	fee := uint16(250)
	issuance := common.NewMPTokenIssuance(alice, 4)
	issuance.MaximumAmount = &maxAmt
	issuance.TransferFee = &fee
	issuance.Metadata = []byte("metadata")
	issuance.Flags = common.LsfMPTCanLock
	dir := common.NewDirectoryNode(common.OwnerDirKeylet(alice).Key, 0)
	dir.Owner = &alice
	dir.Indexes = []common.Hash256{issuance.Key()}
	line := common.NewTrustLine(alice, bob, test.Currency("USD"))
	line.Balance = common.IssuedAmount(-5, 0, line.Balance.Issue())
	testDefs := []struct {
		name  string
		entry common.Entry
	}{
		{name: "account", entry: common.NewAccountRoot(alice, common.XRP(100), 3)},
		{name: "issuance", entry: issuance},
		{name: "mptoken", entry: common.NewMPToken(id, bob)},
		{name: "directory", entry: dir},
		{name: "trust line", entry: line},
		{name: "deposit preauth", entry: common.NewDepositPreauth(alice, bob)},
	}
	for _, td := range testDefs {
		t.Run(td.name, func(t *testing.T) {
			data, err := common.EncodeEntry(td.entry)
			require.NoError(t, err)
			decoded, err := common.DecodeEntry(data)
			require.NoError(t, err)
			assert.Equal(t, td.entry.EntryType(), decoded.EntryType())
			assert.Equal(t, td.entry.Key(), decoded.Key())
			// Re-encoding is byte-for-byte stable
			again, err := common.EncodeEntry(decoded)
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}
}

func TestCloneEntry(t *testing.T) {
	alice := test.Account("alice")
	bob := test.Account("bob")
	line := common.NewTrustLine(alice, bob, test.Currency("USD"))
	line.Balance = common.IssuedAmount(42, 0, line.Balance.Issue())
	clone := common.CloneEntry(line)
	require.NotSame(t, line, clone)
	assert.True(t, line.Balance.Equal(clone.Balance))
	assert.True(t, line.LowLimit.Equal(clone.LowLimit))
	clone.Balance = clone.Balance.Zero()
	assert.Equal(t, "42", line.Balance.ValueText())

	maxAmt := uint64(10)
	issuance := common.NewMPTokenIssuance(alice, 1)
	issuance.MaximumAmount = &maxAmt
	issuance.Metadata = []byte{1, 2, 3}
	issClone := common.CloneEntry(issuance)
	*issClone.MaximumAmount = 20
	issClone.Metadata[0] = 9
	assert.Equal(t, uint64(10), *issuance.MaximumAmount)
	assert.Equal(t, byte(1), issuance.Metadata[0])

	dir := common.NewDirectoryNode(common.OwnerDirKeylet(alice).Key, 0)
	dir.Indexes = []common.Hash256{line.Key()}
	dirClone := common.CloneEntry(dir)
	dirClone.Indexes = append(dirClone.Indexes[:0], issuance.Key())
	assert.Equal(t, line.Key(), dir.Indexes[0])
}

func TestTrustLineSides(t *testing.T) {
	alice := test.Account("alice")
	bob := test.Account("bob")
	line := common.NewTrustLine(alice, bob, test.Currency("USD"))
	low, high := line.Low(), line.High()
	assert.True(t, low.Less(high))
	// Positive balance: high owes low
	line.Balance = common.IssuedAmount(10, 0, line.Balance.Issue())
	assert.Equal(t, 1, line.BalanceFor(low).Signum())
	assert.Equal(t, high, line.BalanceFor(low).Issuer())
	assert.Equal(t, -1, line.BalanceFor(high).Signum())
	assert.Equal(t, low, line.BalanceFor(high).Issuer())
	reserve, freeze := line.SideFlags(high)
	assert.Equal(t, common.LsfHighReserve, reserve)
	assert.Equal(t, common.LsfHighFreeze, freeze)
	assert.Equal(t, common.TrustLineKeylet(alice, bob, test.Currency("USD")), common.TrustLineKeylet(bob, alice, test.Currency("USD")))
}

func TestRules(t *testing.T) {
	rules := common.NewRules(common.FeatureMPTokensV1, common.FeatureClawback)
	assert.True(t, rules.Enabled(common.FeatureMPTokensV1))
	assert.False(t, rules.Enabled(common.FeatureDepositAuth))
	assert.False(t, common.Rules{}.Enabled(common.FeatureClawback))
	assert.Equal(
		t,
		[]common.Feature{common.FeatureClawback, common.FeatureMPTokensV1},
		rules.Features(),
	)
	without := common.AllRules().Without(common.FeatureClawback)
	assert.False(t, without.Enabled(common.FeatureClawback))
	assert.True(t, common.AllRules().Enabled(common.FeatureClawback))
	f, err := common.ParseFeature("DepositPreauth")
	assert.NoError(t, err)
	assert.Equal(t, common.FeatureDepositPreauth, f)
}

func TestFeesAccountReserve(t *testing.T) {
	fees := common.Fees{Base: 10, Reserve: 200, Increment: 50}
	assert.Equal(t, int64(200), fees.AccountReserve(0).Drops())
	assert.Equal(t, int64(350), fees.AccountReserve(3).Drops())
}
