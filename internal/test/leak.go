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

package test

import "go.uber.org/goleak"

// LeakOptions returns the goleak options for packages that open a ledger
// store. goleveldb's memory pool drainer outlives DB.Close by up to a second.
func LeakOptions(opts ...goleak.Option) []goleak.Option {
	return append(
		[]goleak.Option{
			goleak.IgnoreTopFunction("github.com/syndtr/goleveldb/leveldb.(*DB).mpoolDrain"),
		},
		opts...,
	)
}
