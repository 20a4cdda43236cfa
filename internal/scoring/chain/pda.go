package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
)

// ProfileSeed is the domain-separation tag for user-profile PDAs
const ProfileSeed = "user_profile"

// DeriveProfileAddress derives the program-owned user-profile account for a
// wallet. Deterministic: the same wallet and program always yield the same
// address and bump.
func DeriveProfileAddress(wallet solana.PublicKey, programID solana.PublicKey) (types.ChainAccountRef, error) {
	address, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(ProfileSeed), wallet.Bytes()},
		programID,
	)
	if err != nil {
		return types.ChainAccountRef{}, fmt.Errorf("failed to derive profile address: %w", err)
	}
	return types.ChainAccountRef{Address: address, Bump: bump}, nil
}

// DeriveProfileAddressFromBase58 is the string-address convenience wrapper
func DeriveProfileAddressFromBase58(wallet string, programID solana.PublicKey) (types.ChainAccountRef, error) {
	walletKey, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return types.ChainAccountRef{}, fmt.Errorf("invalid wallet address %q: %w", wallet, err)
	}
	return DeriveProfileAddress(walletKey, programID)
}
