package facade

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"crossfund/internal/chain"
	"crossfund/internal/errs"
	"crossfund/internal/types"
)

// ApprovalStatus is checkApproval's return shape (spec §6): whether the
// spender's current ERC-20 allowance covers the trade amount.
type ApprovalStatus struct {
	NeedsApproval     bool
	CurrentAllowance  *big.Int
	RequiredAllowance *big.Int
}

// CheckApproval reports whether spender already holds enough allowance
// over owner's token balance to move amount. Native tokens never need
// approval; transferring them needs no allowance at all.
func (c *CrossFund) CheckApproval(ctx context.Context, token types.Token, owner, spender string, amount *big.Int) (*ApprovalStatus, *errs.Error) {
	if chain.IsNative(token.Address) {
		return &ApprovalStatus{NeedsApproval: false, RequiredAllowance: amount}, nil
	}

	allowance, err := c.allowanceOf(ctx, token, owner, spender)
	if err != nil {
		return nil, err
	}
	return &ApprovalStatus{
		NeedsApproval:     allowance.Cmp(amount) < 0,
		CurrentAllowance:  allowance,
		RequiredAllowance: amount,
	}, nil
}

var (
	allowanceSelector = mustSelector("allowance(address,address)")
	allowanceArgs     = abi.Arguments{
		{Type: mustAbiType("address")},
		{Type: mustAbiType("address")},
	}
)

// allowanceOf calls the ERC-20 allowance(owner, spender) view function
// through the shared provider pool, mirroring executor.balanceOf's
// CallContract idiom.
func (c *CrossFund) allowanceOf(ctx context.Context, token types.Token, owner, spender string) (*big.Int, *errs.Error) {
	client, cerr := c.Providers.Get(token.ChainID)
	if cerr != nil {
		return nil, cerr
	}

	packed, err := allowanceArgs.Pack(ethcommon.HexToAddress(owner), ethcommon.HexToAddress(spender))
	if err != nil {
		return nil, errs.UnknownError(err)
	}
	data := append(append([]byte{}, allowanceSelector...), packed...)
	tokenAddr := ethcommon.HexToAddress(token.Address)

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: data}, nil)
	if err != nil {
		return nil, errs.NetworkError(err)
	}
	return new(big.Int).SetBytes(result), nil
}

func mustSelector(signature string) []byte {
	h := crypto.Keccak256([]byte(signature))
	return h[:4]
}

func mustAbiType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("facade: invalid abi type %q: %v", t, err))
	}
	return typ
}
