package interpreter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

func accessCost(cold bool) uint64 {
	if cold {
		return params.ColdAccountAccessCostEIP2929
	}
	return params.WarmStorageReadCostEIP2929
}

func opBalance(in *EVMInterpreter) InstructionResult {
	slot := in.stack.peek()
	balance, cold, err := in.host.Balance(common.Address(slot.Bytes20()))
	if err != nil {
		return FatalExternalError
	}
	if !in.useGas(accessCost(cold)) {
		return OutOfGas
	}
	slot.Set(orZero(balance))
	return Continue
}

func opSelfBalance(in *EVMInterpreter) InstructionResult {
	balance, _, err := in.host.Balance(in.contract.Address())
	if err != nil {
		return FatalExternalError
	}
	in.stack.push(orZero(balance))
	return Continue
}

func opExtCodeSize(in *EVMInterpreter) InstructionResult {
	slot := in.stack.peek()
	code, cold, err := in.host.Code(common.Address(slot.Bytes20()))
	if err != nil {
		return FatalExternalError
	}
	if !in.useGas(accessCost(cold)) {
		return OutOfGas
	}
	slot.SetUint64(uint64(len(code)))
	return Continue
}

func opExtCodeCopy(in *EVMInterpreter) InstructionResult {
	var (
		a          = in.stack.pop()
		memOffset  = in.stack.pop()
		codeOffset = in.stack.pop()
		length     = in.stack.pop()
	)
	code, cold, err := in.host.Code(common.Address(a.Bytes20()))
	if err != nil {
		return FatalExternalError
	}
	if !in.useGas(accessCost(cold)) {
		return OutOfGas
	}
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
	in.memory.Set(memOffset.Uint64(), length.Uint64(), getData(code, uint64CodeOffset, length.Uint64()))
	return Continue
}

func opExtCodeHash(in *EVMInterpreter) InstructionResult {
	slot := in.stack.peek()
	hash, cold, err := in.host.CodeHash(common.Address(slot.Bytes20()))
	if err != nil {
		return FatalExternalError
	}
	if !in.useGas(accessCost(cold)) {
		return OutOfGas
	}
	slot.SetBytes(hash.Bytes())
	return Continue
}

// opBlockhash answers for the 256 most recent blocks and zero otherwise.
func opBlockhash(in *EVMInterpreter) InstructionResult {
	num := in.stack.peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return Continue
	}
	var upper, lower uint64
	upper = in.host.Env().Block.Number
	if upper < 257 {
		lower = 0
	} else {
		lower = upper - 256
	}
	if num64 >= lower && num64 < upper {
		hash, err := in.host.BlockHash(num64)
		if err != nil {
			return FatalExternalError
		}
		num.SetBytes(hash.Bytes())
	} else {
		num.Clear()
	}
	return Continue
}

func opSload(in *EVMInterpreter) InstructionResult {
	loc := in.stack.peek()
	val, cold := in.host.SLoad(in.contract.Address(), loc.Bytes32())
	cost := params.WarmStorageReadCostEIP2929
	if cold {
		cost = params.ColdSloadCostEIP2929
	}
	if !in.useGas(cost) {
		return OutOfGas
	}
	loc.SetBytes(val.Bytes())
	return Continue
}

func opSstore(in *EVMInterpreter) InstructionResult {
	if in.isStatic {
		return StateChangeDuringStaticCall
	}
	if in.gas.Remaining() <= params.SstoreSentryGasEIP2200 {
		return OutOfGas
	}
	loc, val := in.stack.pop(), in.stack.pop()
	res := in.host.SStore(in.contract.Address(), loc.Bytes32(), val.Bytes32())

	var cost uint64
	if res.IsCold {
		cost = params.ColdSloadCostEIP2929
	}
	switch {
	case res.Previous == res.New:
		cost += params.WarmStorageReadCostEIP2929
	case res.Previous == (common.Hash{}):
		cost += params.SstoreSetGasEIP2200
	default:
		cost += params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929
	}
	if !in.useGas(cost) {
		return OutOfGas
	}
	return Continue
}

// makeLog creates LOGn for n in 0..4.
func makeLog(size int) executionFunc {
	return func(in *EVMInterpreter) InstructionResult {
		if in.isStatic {
			return StateChangeDuringStaticCall
		}
		topics := make([]common.Hash, size)
		mStart, mSize := in.stack.pop(), in.stack.pop()
		for i := 0; i < size; i++ {
			addr := in.stack.pop()
			topics[i] = addr.Bytes32()
		}
		if res := in.expandMemory(&mStart, &mSize); res != Continue {
			return res
		}
		cost := uint64(size)*params.LogTopicGas + mSize.Uint64()*params.LogDataGas
		if !in.useGas(cost) {
			return OutOfGas
		}
		d := in.memory.GetCopy(mStart.Uint64(), mSize.Uint64())
		in.host.Log(in.contract.Address(), topics, d)
		return Continue
	}
}

func opCreate(in *EVMInterpreter) InstructionResult {
	return in.create(false)
}

func opCreate2(in *EVMInterpreter) InstructionResult {
	return in.create(true)
}

func (in *EVMInterpreter) create(create2 bool) InstructionResult {
	if in.isStatic {
		return StateChangeDuringStaticCall
	}
	var (
		value  = in.stack.pop()
		offset = in.stack.pop()
		size   = in.stack.pop()
		salt   *uint256.Int
	)
	if create2 {
		s := in.stack.pop()
		salt = &s
	}
	if res := in.expandMemory(&offset, &size); res != Continue {
		return res
	}
	if create2 && !in.copyGas(size.Uint64(), params.Keccak256WordGas) {
		return OutOfGas
	}
	gas := in.gas.Remaining()
	gas -= gas / 64
	in.useGas(gas)

	outcome := in.host.Create(&CreateInputs{
		Caller:   in.contract.Address(),
		Value:    &value,
		InitCode: in.memory.GetCopy(offset.Uint64(), size.Uint64()),
		GasLimit: gas,
		Salt:     salt,
	})
	in.gas.EraseCost(outcome.Gas.Remaining())

	stackvalue := new(uint256.Int)
	if outcome.Result.IsOk() && outcome.Address != nil {
		stackvalue.SetBytes(outcome.Address.Bytes())
	}
	in.stack.push(stackvalue)
	if outcome.Result == Revert {
		in.returnData = outcome.Output
	} else {
		in.returnData = nil
	}
	return Continue
}

func opCall(in *EVMInterpreter) InstructionResult {
	var (
		gas       = in.stack.pop()
		addr      = in.stack.pop()
		value     = in.stack.pop()
		inOffset  = in.stack.pop()
		inSize    = in.stack.pop()
		retOffset = in.stack.pop()
		retSize   = in.stack.pop()
	)
	if in.isStatic && !value.IsZero() {
		return CallNotAllowedInsideStatic
	}
	return in.call(SchemeCall, common.Address(addr.Bytes20()), &gas, &value, &inOffset, &inSize, &retOffset, &retSize)
}

func opCallCode(in *EVMInterpreter) InstructionResult {
	var (
		gas       = in.stack.pop()
		addr      = in.stack.pop()
		value     = in.stack.pop()
		inOffset  = in.stack.pop()
		inSize    = in.stack.pop()
		retOffset = in.stack.pop()
		retSize   = in.stack.pop()
	)
	return in.call(SchemeCallCode, common.Address(addr.Bytes20()), &gas, &value, &inOffset, &inSize, &retOffset, &retSize)
}

func opDelegateCall(in *EVMInterpreter) InstructionResult {
	var (
		gas       = in.stack.pop()
		addr      = in.stack.pop()
		inOffset  = in.stack.pop()
		inSize    = in.stack.pop()
		retOffset = in.stack.pop()
		retSize   = in.stack.pop()
	)
	return in.call(SchemeDelegateCall, common.Address(addr.Bytes20()), &gas, new(uint256.Int), &inOffset, &inSize, &retOffset, &retSize)
}

func opStaticCall(in *EVMInterpreter) InstructionResult {
	var (
		gas       = in.stack.pop()
		addr      = in.stack.pop()
		inOffset  = in.stack.pop()
		inSize    = in.stack.pop()
		retOffset = in.stack.pop()
		retSize   = in.stack.pop()
	)
	return in.call(SchemeStaticCall, common.Address(addr.Bytes20()), &gas, new(uint256.Int), &inOffset, &inSize, &retOffset, &retSize)
}

// call builds the inputs of a sub-call, hands them to the host and pushes the
// success flag. Only a fatal host error stops the calling frame.
func (in *EVMInterpreter) call(scheme CallScheme, target common.Address, gas, value, inOffset, inSize, retOffset, retSize *uint256.Int) InstructionResult {
	if res := in.expandMemory(inOffset, inSize); res != Continue {
		return res
	}
	if res := in.expandMemory(retOffset, retSize); res != Continue {
		return res
	}
	_, cold, err := in.host.LoadAccount(target)
	if err != nil {
		return FatalExternalError
	}
	transfersValue := !value.IsZero()
	cost := accessCost(cold)
	if transfersValue {
		cost += params.CallValueTransferGas
	}
	if !in.useGas(cost) {
		return OutOfGas
	}
	// All but one 64th of the remaining gas may be forwarded.
	available := in.gas.Remaining() - in.gas.Remaining()/64
	gasLimit := available
	if gas.IsUint64() && gas.Uint64() < available {
		gasLimit = gas.Uint64()
	}
	in.useGas(gasLimit)
	if transfersValue {
		gasLimit += params.CallStipend
	}

	self := in.contract.Address()
	inputs := &CallInputs{
		Contract: target,
		Input:    in.memory.GetCopy(inOffset.Uint64(), inSize.Uint64()),
		GasLimit: gasLimit,
		IsStatic: in.isStatic,
	}
	switch scheme {
	case SchemeCall:
		inputs.Transfer = Transfer{Source: self, Target: target, Value: value}
		inputs.Context = CallContext{Address: target, Caller: self, CodeAddress: target, ApparentValue: value, Scheme: scheme}
	case SchemeCallCode:
		inputs.Transfer = Transfer{Source: self, Target: self, Value: value}
		inputs.Context = CallContext{Address: self, Caller: self, CodeAddress: target, ApparentValue: value, Scheme: scheme}
	case SchemeDelegateCall:
		inputs.Transfer = Transfer{Source: self, Target: self, Value: new(uint256.Int)}
		inputs.Context = CallContext{Address: self, Caller: in.contract.Caller(), CodeAddress: target, ApparentValue: in.contract.Value(), Scheme: scheme}
	case SchemeStaticCall:
		inputs.Transfer = Transfer{Source: self, Target: target, Value: new(uint256.Int)}
		inputs.Context = CallContext{Address: target, Caller: self, CodeAddress: target, ApparentValue: new(uint256.Int), Scheme: scheme}
		inputs.IsStatic = true
	}

	outcome, err := in.host.Call(inputs)
	if err != nil {
		in.err = err
		return FatalExternalError
	}
	in.returnData = outcome.Output

	ok := new(uint256.Int)
	switch {
	case outcome.Result.IsOk():
		ok.SetOne()
		in.memory.Set(retOffset.Uint64(), retSize.Uint64(), outcome.Output)
		in.gas.EraseCost(outcome.Gas.Remaining())
		in.gas.RecordRefund(outcome.Gas.Refunded())
	case outcome.Result.IsRevert():
		in.memory.Set(retOffset.Uint64(), retSize.Uint64(), outcome.Output)
		in.gas.EraseCost(outcome.Gas.Remaining())
	}
	in.stack.push(ok)
	return Continue
}

func opSelfdestruct(in *EVMInterpreter) InstructionResult {
	if in.isStatic {
		return StateChangeDuringStaticCall
	}
	beneficiary := in.stack.pop()
	res, err := in.host.SelfDestruct(in.contract.Address(), common.Address(beneficiary.Bytes20()))
	if err != nil {
		in.err = err
		return FatalExternalError
	}
	if res.IsCold && !in.useGas(params.ColdAccountAccessCostEIP2929) {
		return OutOfGas
	}
	return SelfDestruct
}
