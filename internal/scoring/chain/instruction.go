package chain

import (
	"crypto/sha256"
	"encoding/binary"
)

// Anchor instruction discriminators are the first 8 bytes of
// sha256("global:<method_name>").
const updateScoreMethod = "global:update_tiger_score"

var updateScoreDiscriminator [8]byte

func init() {
	sum := sha256.Sum256([]byte(updateScoreMethod))
	copy(updateScoreDiscriminator[:], sum[:8])
}

// BuildUpdateScoreData encodes the update instruction payload:
// [8-byte discriminator][score u16 LE][tier u8]
func BuildUpdateScoreData(score uint16, tier uint8) []byte {
	data := make([]byte, 11)
	copy(data[:8], updateScoreDiscriminator[:])
	binary.LittleEndian.PutUint16(data[8:10], score)
	data[10] = tier
	return data
}
