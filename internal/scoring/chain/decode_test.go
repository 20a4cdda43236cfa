package chain

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
)

func buildProfileAccount(score uint64, tier uint8, did string, vcHash [32]byte, createdAt, updatedAt uint64) []byte {
	var buf bytes.Buffer

	buf.Write(make([]byte, 8)) // account discriminator

	scoreBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(scoreBytes, score)
	buf.Write(scoreBytes)

	buf.WriteByte(tier)

	didLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(didLen, uint32(len(did)))
	buf.Write(didLen)
	buf.WriteString(did)

	buf.Write(vcHash[:])

	tsBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(tsBytes, createdAt)
	buf.Write(tsBytes)
	binary.LittleEndian.PutUint64(tsBytes, updatedAt)
	buf.Write(tsBytes)

	return buf.Bytes()
}

func TestDecodeUserProfile(t *testing.T) {
	var vcHash [32]byte
	for i := range vcHash {
		vcHash[i] = byte(i)
	}

	data := buildProfileAccount(720, 2, "did:tiger:abc123", vcHash, 111, 222)

	profile := DecodeUserProfile("wallet1", data)

	require.True(t, profile.Exists)
	require.True(t, profile.Decoded)
	assert.Equal(t, "wallet1", profile.WalletAddress)
	assert.Equal(t, uint64(720), profile.TigerScore)
	assert.Equal(t, types.TierGold, profile.Tier)
	assert.Equal(t, "did:tiger:abc123", profile.DID)
	assert.Equal(t, hex.EncodeToString(vcHash[:]), profile.HumanVerifiedVCHash)
	assert.Equal(t, uint64(111), profile.CreatedAt)
	assert.Equal(t, uint64(222), profile.UpdatedAt)
}

func TestDecodeUserProfileEmptyDID(t *testing.T) {
	profile := DecodeUserProfile("wallet1", buildProfileAccount(300, 1, "", [32]byte{}, 0, 0))

	require.True(t, profile.Decoded)
	assert.Empty(t, profile.DID)
	assert.Equal(t, uint64(300), profile.TigerScore)
}

func TestDecodeUserProfileShortBuffer(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"discriminator only", make([]byte, 8)},
		{"truncated after tier", make([]byte, 17)},
		{"did length overruns buffer", func() []byte {
			data := make([]byte, 21)
			binary.LittleEndian.PutUint32(data[17:21], 1000)
			return data
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := DecodeUserProfile("wallet1", tt.data)
			assert.True(t, profile.Exists)
			assert.False(t, profile.Decoded)
			assert.Zero(t, profile.TigerScore)
			assert.Empty(t, profile.DID)
		})
	}
}
