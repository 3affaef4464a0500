// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package interpreter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/ethereum/go-ethereum/core/vm"
)

const defaultAnalysisCacheSize = 1024

// bitvec is a bit vector which maps bytes in a program.
// An unset bit means the byte is not a valid jump destination.
type bitvec []byte

func (bits bitvec) set(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

func (bits bitvec) isSet(pos uint64) bool {
	return bits[pos/8]&(1<<(pos%8)) != 0
}

// jumpdestBitmap marks every JUMPDEST that is not part of PUSH data.
func jumpdestBitmap(code []byte) bitvec {
	bits := make(bitvec, len(code)/8+1)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := vm.OpCode(code[pc])
		if op == vm.JUMPDEST {
			bits.set(pc)
		}
		if op >= vm.PUSH1 && op <= vm.PUSH32 {
			pc += uint64(op-vm.PUSH1) + 2
			continue
		}
		pc++
	}
	return bits
}

// AnalysisCache keeps jumpdest bitmaps keyed by code hash, so recursive calls
// into the same code only analyse it once.
type AnalysisCache struct {
	cache *lru.Cache[common.Hash, bitvec]
}

func NewAnalysisCache(size int) *AnalysisCache {
	return &AnalysisCache{cache: lru.NewCache[common.Hash, bitvec](size)}
}

func (c *AnalysisCache) analyse(hash common.Hash, code []byte) bitvec {
	if c == nil || hash == (common.Hash{}) {
		return jumpdestBitmap(code)
	}
	if bits, ok := c.cache.Get(hash); ok {
		return bits
	}
	bits := jumpdestBitmap(code)
	c.cache.Add(hash, bits)
	return bits
}

// Len returns the number of cached analyses.
func (c *AnalysisCache) Len() int {
	return c.cache.Len()
}
