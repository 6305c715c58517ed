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

package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/goxrpl/cbor"
	"golang.org/x/crypto/blake2b"
)

const (
	Hash256Size    = 32
	Blake2b160Size = 20
)

// Hash256 identifies ledger entries and transactions
type Hash256 [Hash256Size]byte

func NewHash256(data []byte) Hash256 {
	h := Hash256{}
	copy(h[:], data)
	return h
}

// ParseHash256 decodes a hex-encoded 256-bit hash
func ParseHash256(s string) (Hash256, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Hash256{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(data) != Hash256Size {
		return Hash256{}, fmt.Errorf(
			"invalid hash length: expected %d bytes, got %d",
			Hash256Size,
			len(data),
		)
	}
	return NewHash256(data), nil
}

func (h Hash256) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash256) Bytes() []byte {
	return h[:]
}

func (h Hash256) IsZero() bool {
	return h == Hash256{}
}

func (h Hash256) Compare(other Hash256) int {
	return bytes.Compare(h[:], other[:])
}

func (h Hash256) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash256) UnmarshalText(data []byte) error {
	tmp, err := ParseHash256(string(data))
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}

func (h Hash256) MarshalCBOR() ([]byte, error) {
	// Ensure we always encode a full-sized bytestring, even if the hash is zero-valued
	hashBytes := make([]byte, Hash256Size)
	copy(hashBytes, h[:])
	return cbor.Encode(hashBytes)
}

// Blake2b256Hash generates a Blake2b-256 hash over the concatenation of the
// provided data
func Blake2b256Hash(data ...[]byte) Hash256 {
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	for _, d := range data {
		tmpHash.Write(d)
	}
	return Hash256(tmpHash.Sum(nil))
}

// Blake2b160Hash generates a Blake2b-160 hash from the provided data
func Blake2b160Hash(data []byte) [Blake2b160Size]byte {
	tmpHash, err := blake2b.New(Blake2b160Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return [Blake2b160Size]byte(tmpHash.Sum(nil))
}

// Blob is opaque binary data carried as upper-case hex in text form
type Blob []byte

func (b Blob) String() string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func (b Blob) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Blob) UnmarshalText(text []byte) error {
	data, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode blob: %w", err)
	}
	*b = data
	return nil
}
