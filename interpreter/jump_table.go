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
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

type executionFunc func(in *EVMInterpreter) InstructionResult

type operation struct {
	// execute is the operation function
	execute     executionFunc
	constantGas uint64
	// minStack tells how many stack items are required
	minStack int
	// maxStack specifies the max length the stack can have for this operation
	// to not overflow the stack.
	maxStack int
}

// JumpTable contains the EVM opcodes supported at a given fork.
type JumpTable [256]*operation

func minStack(pops, push int) int {
	return pops
}

func maxStack(pop, push int) int {
	return int(params.StackLimit) + pop - push
}

func minSwapStack(n int) int {
	return minStack(n, n)
}
func maxSwapStack(n int) int {
	return maxStack(n, n)
}

func minDupStack(n int) int {
	return minStack(n, n+1)
}
func maxDupStack(n int) int {
	return maxStack(n, n+1)
}

// newJumpTable returns the instruction set of the latest fork, minus
// transient storage and EOF.
func newJumpTable() *JumpTable {
	tbl := &JumpTable{
		vm.STOP: {
			execute:     opStop,
			constantGas: 0,
			minStack:    minStack(0, 0),
			maxStack:    maxStack(0, 0),
		},
		vm.ADD:        {execute: opAdd, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.MUL:        {execute: opMul, constantGas: vm.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SUB:        {execute: opSub, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.DIV:        {execute: opDiv, constantGas: vm.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SDIV:       {execute: opSdiv, constantGas: vm.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.MOD:        {execute: opMod, constantGas: vm.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SMOD:       {execute: opSmod, constantGas: vm.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.ADDMOD:     {execute: opAddmod, constantGas: vm.GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)},
		vm.MULMOD:     {execute: opMulmod, constantGas: vm.GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)},
		vm.EXP:        {execute: opExp, constantGas: vm.GasSlowStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SIGNEXTEND: {execute: opSignExtend, constantGas: vm.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.LT:         {execute: opLt, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.GT:         {execute: opGt, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SLT:        {execute: opSlt, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SGT:        {execute: opSgt, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.EQ:         {execute: opEq, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.ISZERO:     {execute: opIszero, constantGas: vm.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.AND:        {execute: opAnd, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.OR:         {execute: opOr, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.XOR:        {execute: opXor, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.NOT:        {execute: opNot, constantGas: vm.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.BYTE:       {execute: opByte, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SHL:        {execute: opSHL, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SHR:        {execute: opSHR, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.SAR:        {execute: opSAR, constantGas: vm.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		vm.KECCAK256:  {execute: opKeccak256, constantGas: params.Keccak256Gas, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},

		vm.ADDRESS:        {execute: opAddress, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.BALANCE:        {execute: opBalance, constantGas: 0, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.ORIGIN:         {execute: opOrigin, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.CALLER:         {execute: opCaller, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.CALLVALUE:      {execute: opCallValue, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.CALLDATALOAD:   {execute: opCallDataLoad, constantGas: vm.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.CALLDATASIZE:   {execute: opCallDataSize, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.CALLDATACOPY:   {execute: opCallDataCopy, constantGas: vm.GasFastestStep, minStack: minStack(3, 0), maxStack: maxStack(3, 0)},
		vm.CODESIZE:       {execute: opCodeSize, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.CODECOPY:       {execute: opCodeCopy, constantGas: vm.GasFastestStep, minStack: minStack(3, 0), maxStack: maxStack(3, 0)},
		vm.GASPRICE:       {execute: opGasprice, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.EXTCODESIZE:    {execute: opExtCodeSize, constantGas: 0, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.EXTCODECOPY:    {execute: opExtCodeCopy, constantGas: 0, minStack: minStack(4, 0), maxStack: maxStack(4, 0)},
		vm.RETURNDATASIZE: {execute: opReturnDataSize, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.RETURNDATACOPY: {execute: opReturnDataCopy, constantGas: vm.GasFastestStep, minStack: minStack(3, 0), maxStack: maxStack(3, 0)},
		vm.EXTCODEHASH:    {execute: opExtCodeHash, constantGas: 0, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.BLOCKHASH:      {execute: opBlockhash, constantGas: vm.GasExtStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.COINBASE:       {execute: opCoinbase, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.TIMESTAMP:      {execute: opTimestamp, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.NUMBER:         {execute: opNumber, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.DIFFICULTY:     {execute: opRandom, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.GASLIMIT:       {execute: opGasLimit, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.CHAINID:        {execute: opChainID, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.SELFBALANCE:    {execute: opSelfBalance, constantGas: vm.GasFastStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.BASEFEE:        {execute: opBaseFee, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.BLOBHASH:       {execute: opBlobHash, constantGas: vm.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.BLOBBASEFEE:    {execute: opBlobBaseFee, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},

		vm.POP:      {execute: opPop, constantGas: vm.GasQuickStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		vm.MLOAD:    {execute: opMload, constantGas: vm.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.MSTORE:   {execute: opMstore, constantGas: vm.GasFastestStep, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.MSTORE8:  {execute: opMstore8, constantGas: vm.GasFastestStep, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.SLOAD:    {execute: opSload, constantGas: 0, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		vm.SSTORE:   {execute: opSstore, constantGas: 0, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.JUMP:     {execute: opJump, constantGas: vm.GasMidStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		vm.JUMPI:    {execute: opJumpi, constantGas: vm.GasSlowStep, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.PC:       {execute: opPc, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.MSIZE:    {execute: opMsize, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.GAS:      {execute: opGas, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		vm.JUMPDEST: {execute: opJumpdest, constantGas: params.JumpdestGas, minStack: minStack(0, 0), maxStack: maxStack(0, 0)},
		vm.MCOPY:    {execute: opMcopy, constantGas: vm.GasFastestStep, minStack: minStack(3, 0), maxStack: maxStack(3, 0)},
		vm.PUSH0:    {execute: opPush0, constantGas: vm.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},

		vm.LOG0: {execute: makeLog(0), constantGas: params.LogGas, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.LOG1: {execute: makeLog(1), constantGas: params.LogGas, minStack: minStack(3, 0), maxStack: maxStack(3, 0)},
		vm.LOG2: {execute: makeLog(2), constantGas: params.LogGas, minStack: minStack(4, 0), maxStack: maxStack(4, 0)},
		vm.LOG3: {execute: makeLog(3), constantGas: params.LogGas, minStack: minStack(5, 0), maxStack: maxStack(5, 0)},
		vm.LOG4: {execute: makeLog(4), constantGas: params.LogGas, minStack: minStack(6, 0), maxStack: maxStack(6, 0)},

		vm.CREATE:       {execute: opCreate, constantGas: params.CreateGas, minStack: minStack(3, 1), maxStack: maxStack(3, 1)},
		vm.CALL:         {execute: opCall, constantGas: 0, minStack: minStack(7, 1), maxStack: maxStack(7, 1)},
		vm.CALLCODE:     {execute: opCallCode, constantGas: 0, minStack: minStack(7, 1), maxStack: maxStack(7, 1)},
		vm.RETURN:       {execute: opReturn, constantGas: 0, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.DELEGATECALL: {execute: opDelegateCall, constantGas: 0, minStack: minStack(6, 1), maxStack: maxStack(6, 1)},
		vm.CREATE2:      {execute: opCreate2, constantGas: params.Create2Gas, minStack: minStack(4, 1), maxStack: maxStack(4, 1)},
		vm.STATICCALL:   {execute: opStaticCall, constantGas: 0, minStack: minStack(6, 1), maxStack: maxStack(6, 1)},
		vm.REVERT:       {execute: opRevert, constantGas: 0, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		vm.INVALID:      {execute: opInvalid, constantGas: 0, minStack: minStack(0, 0), maxStack: maxStack(0, 0)},
		vm.SELFDESTRUCT: {execute: opSelfdestruct, constantGas: params.SelfdestructGasEIP150, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
	}

	for i := 1; i <= 32; i++ {
		tbl[vm.PUSH1+vm.OpCode(i-1)] = &operation{
			execute:     makePush(uint64(i)),
			constantGas: vm.GasFastestStep,
			minStack:    minStack(0, 1),
			maxStack:    maxStack(0, 1),
		}
	}
	for i := 1; i <= 16; i++ {
		tbl[vm.DUP1+vm.OpCode(i-1)] = &operation{
			execute:     makeDup(i),
			constantGas: vm.GasFastestStep,
			minStack:    minDupStack(i),
			maxStack:    maxDupStack(i),
		}
		tbl[vm.SWAP1+vm.OpCode(i-1)] = &operation{
			execute:     makeSwap(i),
			constantGas: vm.GasFastestStep,
			minStack:    minSwapStack(i + 1),
			maxStack:    maxSwapStack(i + 1),
		}
	}
	return tbl
}
