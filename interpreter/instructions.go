// Copyright 2015 The go-ethereum Authors
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
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

func opStop(in *EVMInterpreter) InstructionResult {
	return Stop
}

func opAdd(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Add(&x, y)
	return Continue
}

func opSub(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Sub(&x, y)
	return Continue
}

func opMul(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Mul(&x, y)
	return Continue
}

func opDiv(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Div(&x, y)
	return Continue
}

func opSdiv(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.SDiv(&x, y)
	return Continue
}

func opMod(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Mod(&x, y)
	return Continue
}

func opSmod(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.SMod(&x, y)
	return Continue
}

func opExp(in *EVMInterpreter) InstructionResult {
	base, exponent := in.stack.pop(), in.stack.peek()
	if !in.useGas(uint64(exponent.ByteLen()) * params.ExpByteEIP158) {
		return OutOfGas
	}
	exponent.Exp(&base, exponent)
	return Continue
}

func opSignExtend(in *EVMInterpreter) InstructionResult {
	back, num := in.stack.pop(), in.stack.peek()
	num.ExtendSign(num, &back)
	return Continue
}

func opNot(in *EVMInterpreter) InstructionResult {
	x := in.stack.peek()
	x.Not(x)
	return Continue
}

func opLt(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return Continue
}

func opGt(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return Continue
}

func opSlt(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return Continue
}

func opSgt(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return Continue
}

func opEq(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return Continue
}

func opIszero(in *EVMInterpreter) InstructionResult {
	x := in.stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return Continue
}

func opAnd(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.And(&x, y)
	return Continue
}

func opOr(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Or(&x, y)
	return Continue
}

func opXor(in *EVMInterpreter) InstructionResult {
	x, y := in.stack.pop(), in.stack.peek()
	y.Xor(&x, y)
	return Continue
}

func opByte(in *EVMInterpreter) InstructionResult {
	th, val := in.stack.pop(), in.stack.peek()
	val.Byte(&th)
	return Continue
}

func opAddmod(in *EVMInterpreter) InstructionResult {
	x, y, z := in.stack.pop(), in.stack.pop(), in.stack.peek()
	z.AddMod(&x, &y, z)
	return Continue
}

func opMulmod(in *EVMInterpreter) InstructionResult {
	x, y, z := in.stack.pop(), in.stack.pop(), in.stack.peek()
	z.MulMod(&x, &y, z)
	return Continue
}

// opSHL implements Shift Left
// The SHL instruction (shift left) pops 2 values from the stack, first arg1 and then arg2,
// and pushes on the stack arg2 shifted to the left by arg1 number of bits.
func opSHL(in *EVMInterpreter) InstructionResult {
	// Note, second operand is left in the stack; accumulate result into it, and no need to push it afterwards
	shift, value := in.stack.pop(), in.stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return Continue
}

// opSHR implements Logical Shift Right
func opSHR(in *EVMInterpreter) InstructionResult {
	shift, value := in.stack.pop(), in.stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return Continue
}

// opSAR implements Arithmetic Shift Right
func opSAR(in *EVMInterpreter) InstructionResult {
	shift, value := in.stack.pop(), in.stack.peek()
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			// Max negative shift: all bits set
			value.SetAllOne()
		}
		return Continue
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return Continue
}

func opKeccak256(in *EVMInterpreter) InstructionResult {
	offset, size := in.stack.pop(), in.stack.peek()
	if res := in.expandMemory(&offset, size); res != Continue {
		return res
	}
	if !in.copyGas(size.Uint64(), params.Keccak256WordGas) {
		return OutOfGas
	}
	data := in.memory.GetPtr(offset.Uint64(), size.Uint64())

	if in.hasher == nil {
		in.hasher = crypto.NewKeccakState()
	} else {
		in.hasher.Reset()
	}
	in.hasher.Write(data)
	in.hasher.Read(in.hasherBuf[:])

	size.SetBytes(in.hasherBuf[:])
	return Continue
}

func opAddress(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetBytes(in.contract.Address().Bytes()))
	return Continue
}

func opOrigin(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetBytes(in.host.Env().Tx.Caller.Bytes()))
	return Continue
}

func opCaller(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetBytes(in.contract.Caller().Bytes()))
	return Continue
}

func opCallValue(in *EVMInterpreter) InstructionResult {
	in.stack.push(in.contract.Value())
	return Continue
}

func opCallDataLoad(in *EVMInterpreter) InstructionResult {
	x := in.stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(in.contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return Continue
}

func opCallDataSize(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(uint64(len(in.contract.Input))))
	return Continue
}

func opCallDataCopy(in *EVMInterpreter) InstructionResult {
	var (
		memOffset  = in.stack.pop()
		dataOffset = in.stack.pop()
		length     = in.stack.pop()
	)
	if res := in.expandMemory(&memOffset, &length); res != Continue {
		return res
	}
	if !in.copyGas(length.Uint64(), params.CopyGas) {
		return OutOfGas
	}
	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = ^uint64(0)
	}
	// These values are checked for overflow during memory expansion
	memOffset64 := memOffset.Uint64()
	length64 := length.Uint64()
	in.memory.Set(memOffset64, length64, getData(in.contract.Input, dataOffset64, length64))
	return Continue
}

func opReturnDataSize(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(uint64(len(in.returnData))))
	return Continue
}

func opReturnDataCopy(in *EVMInterpreter) InstructionResult {
	var (
		memOffset  = in.stack.pop()
		dataOffset = in.stack.pop()
		length     = in.stack.pop()
	)
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return OutOfOffset
	}
	// we can reuse dataOffset now (aliasing it for clarity)
	var end = dataOffset
	end.Add(&dataOffset, &length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(in.returnData)) < end64 {
		return OutOfOffset
	}
	if res := in.expandMemory(&memOffset, &length); res != Continue {
		return res
	}
	if !in.copyGas(length.Uint64(), params.CopyGas) {
		return OutOfGas
	}
	in.memory.Set(memOffset.Uint64(), length.Uint64(), in.returnData[offset64:end64])
	return Continue
}

func opCodeSize(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(uint64(len(in.contract.Code))))
	return Continue
}

func opCodeCopy(in *EVMInterpreter) InstructionResult {
	var (
		memOffset  = in.stack.pop()
		codeOffset = in.stack.pop()
		length     = in.stack.pop()
	)
	if res := in.expandMemory(&memOffset, &length); res != Continue {
		return res
	}
	if !in.copyGas(length.Uint64(), params.CopyGas) {
		return OutOfGas
	}
	uint64CodeOffset, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		uint64CodeOffset = ^uint64(0)
	}
	codeCopy := getData(in.contract.Code, uint64CodeOffset, length.Uint64())
	in.memory.Set(memOffset.Uint64(), length.Uint64(), codeCopy)
	return Continue
}

func opGasprice(in *EVMInterpreter) InstructionResult {
	in.stack.push(orZero(in.host.Env().Tx.GasPrice))
	return Continue
}

func opCoinbase(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetBytes(in.host.Env().Block.Coinbase.Bytes()))
	return Continue
}

func opTimestamp(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(in.host.Env().Block.Timestamp))
	return Continue
}

func opNumber(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(in.host.Env().Block.Number))
	return Continue
}

// opRandom pushes PREVRANDAO, which replaced DIFFICULTY at the merge.
func opRandom(in *EVMInterpreter) InstructionResult {
	v := in.host.Env().Block.PrevRandao
	in.stack.push(new(uint256.Int).SetBytes(v[:]))
	return Continue
}

func opGasLimit(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(in.host.Env().Block.GasLimit))
	return Continue
}

func opChainID(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(in.host.Env().Cfg.ChainID))
	return Continue
}

func opBaseFee(in *EVMInterpreter) InstructionResult {
	in.stack.push(orZero(in.host.Env().Block.BaseFee))
	return Continue
}

func opBlobBaseFee(in *EVMInterpreter) InstructionResult {
	in.stack.push(orZero(in.host.Env().Block.BlobBaseFee))
	return Continue
}

func opBlobHash(in *EVMInterpreter) InstructionResult {
	index := in.stack.peek()
	hashes := in.host.Env().Tx.BlobHashes
	if index.LtUint64(uint64(len(hashes))) {
		index.SetBytes32(hashes[index.Uint64()][:])
	} else {
		index.Clear()
	}
	return Continue
}

func opPop(in *EVMInterpreter) InstructionResult {
	in.stack.pop()
	return Continue
}

func opMload(in *EVMInterpreter) InstructionResult {
	v := in.stack.peek()
	if res := in.expandMemory(v, uint256.NewInt(32)); res != Continue {
		return res
	}
	offset := v.Uint64()
	v.SetBytes(in.memory.GetPtr(offset, 32))
	return Continue
}

func opMstore(in *EVMInterpreter) InstructionResult {
	mStart, val := in.stack.pop(), in.stack.pop()
	if res := in.expandMemory(&mStart, uint256.NewInt(32)); res != Continue {
		return res
	}
	in.memory.Set32(mStart.Uint64(), &val)
	return Continue
}

func opMstore8(in *EVMInterpreter) InstructionResult {
	off, val := in.stack.pop(), in.stack.pop()
	if res := in.expandMemory(&off, uint256.NewInt(1)); res != Continue {
		return res
	}
	in.memory.store[off.Uint64()] = byte(val.Uint64())
	return Continue
}

func opMcopy(in *EVMInterpreter) InstructionResult {
	var (
		dst    = in.stack.pop()
		src    = in.stack.pop()
		length = in.stack.pop()
	)
	if res := in.expandMemory(&dst, &length); res != Continue {
		return res
	}
	if res := in.expandMemory(&src, &length); res != Continue {
		return res
	}
	if !in.copyGas(length.Uint64(), params.CopyGas) {
		return OutOfGas
	}
	in.memory.Copy(dst.Uint64(), src.Uint64(), length.Uint64())
	return Continue
}

func opJump(in *EVMInterpreter) InstructionResult {
	pos := in.stack.pop()
	if !in.contract.validJumpdest(in.cfg.Analysis, &pos) {
		return InvalidJump
	}
	in.pc = pos.Uint64() - 1 // pc will be increased by the interpreter loop
	return Continue
}

func opJumpi(in *EVMInterpreter) InstructionResult {
	pos, cond := in.stack.pop(), in.stack.pop()
	if !cond.IsZero() {
		if !in.contract.validJumpdest(in.cfg.Analysis, &pos) {
			return InvalidJump
		}
		in.pc = pos.Uint64() - 1 // pc will be increased by the interpreter loop
	}
	return Continue
}

func opJumpdest(in *EVMInterpreter) InstructionResult {
	return Continue
}

func opPc(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(in.pc))
	return Continue
}

func opMsize(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(uint64(in.memory.Len())))
	return Continue
}

func opGas(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int).SetUint64(in.gas.Remaining()))
	return Continue
}

func opReturn(in *EVMInterpreter) InstructionResult {
	offset, size := in.stack.pop(), in.stack.pop()
	if res := in.expandMemory(&offset, &size); res != Continue {
		return res
	}
	in.output = in.memory.GetCopy(offset.Uint64(), size.Uint64())
	return Return
}

func opRevert(in *EVMInterpreter) InstructionResult {
	offset, size := in.stack.pop(), in.stack.pop()
	if res := in.expandMemory(&offset, &size); res != Continue {
		return res
	}
	in.output = in.memory.GetCopy(offset.Uint64(), size.Uint64())
	return Revert
}

func opInvalid(in *EVMInterpreter) InstructionResult {
	return InvalidFEOpcode
}

func opPush0(in *EVMInterpreter) InstructionResult {
	in.stack.push(new(uint256.Int))
	return Continue
}

// makePush creates PUSHn for n in 1..32. Immediate bytes past the end of the
// code read as zero.
func makePush(size uint64) executionFunc {
	return func(in *EVMInterpreter) InstructionResult {
		var (
			codeLen = uint64(len(in.contract.Code))
			start   = in.pc + 1
			end     = start + size
		)
		if start > codeLen {
			start = codeLen
		}
		if end > codeLen {
			end = codeLen
		}
		in.stack.push(new(uint256.Int).SetBytes(common.RightPadBytes(in.contract.Code[start:end], int(size))))
		in.pc += size
		return Continue
	}
}

func makeDup(size int) executionFunc {
	return func(in *EVMInterpreter) InstructionResult {
		in.stack.dup(size)
		return Continue
	}
}

func makeSwap(size int) executionFunc {
	return func(in *EVMInterpreter) InstructionResult {
		in.stack.swap(size)
		return Continue
	}
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
