package chain

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
)

// Account layout of the user-profile program:
// [8-byte account discriminator]
// [tiger_score u64 LE]
// [level_up_tier u8]
// [did: u32 LE length + bytes]
// [human_verified_vc_hash: 32 bytes]
// [created_at u64 LE]
// [updated_at u64 LE]
const accountDiscriminatorLen = 8

// DecodeUserProfile decodes raw account bytes. Buffers that do not match the
// layout yield a zeroed profile with Decoded=false rather than an error; the
// account's existence and its decodability are separate facts.
func DecodeUserProfile(wallet string, data []byte) types.OnChainProfile {
	profile := types.OnChainProfile{
		WalletAddress: wallet,
		Exists:        true,
	}

	offset := accountDiscriminatorLen
	if len(data) < offset+8+1+4 {
		return profile
	}

	profile.TigerScore = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	profile.Tier = types.Tier(data[offset])
	offset++

	didLen := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if didLen < 0 || len(data) < offset+didLen+32+8+8 {
		return types.OnChainProfile{WalletAddress: wallet, Exists: true}
	}

	profile.DID = string(data[offset : offset+didLen])
	offset += didLen

	profile.HumanVerifiedVCHash = hex.EncodeToString(data[offset : offset+32])
	offset += 32

	profile.CreatedAt = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	profile.UpdatedAt = binary.LittleEndian.Uint64(data[offset : offset+8])

	profile.Decoded = true
	return profile
}
