package interpreter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Env is the chain, block and transaction context visible to bytecode.
type Env struct {
	Cfg   CfgEnv
	Block BlockEnv
	Tx    TxEnv
}

type CfgEnv struct {
	ChainID uint64
}

type BlockEnv struct {
	Number      uint64
	Coinbase    common.Address
	Timestamp   uint64
	GasLimit    uint64
	BaseFee     *uint256.Int
	BlobBaseFee *uint256.Int
	PrevRandao  common.Hash
}

type TxEnv struct {
	// Caller is the transaction origin (ORIGIN).
	Caller     common.Address
	GasPrice   *uint256.Int
	GasLimit   uint64
	BlobHashes []common.Hash
}

// DefaultEnv returns an all-zero environment on the given chain.
func DefaultEnv(chainID uint64) *Env {
	return &Env{
		Cfg: CfgEnv{ChainID: chainID},
		Block: BlockEnv{
			BaseFee:     new(uint256.Int),
			BlobBaseFee: new(uint256.Int),
		},
		Tx: TxEnv{
			GasPrice: new(uint256.Int),
		},
	}
}
