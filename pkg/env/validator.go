package env

import (
	"net/url"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// IsValidSolanaAddress checks that the value is a base58 32-byte public key
func IsValidSolanaAddress(address string) bool {
	if address == "" {
		return false
	}
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

// IsValidPrivateKey checks that the value is a base58 64-byte ed25519 keypair
func IsValidPrivateKey(key string) bool {
	if key == "" {
		return false
	}
	pk, err := solana.PrivateKeyFromBase58(key)
	if err != nil {
		return false
	}
	return len(pk) == 64
}

// IsValidRPCURL checks that the value parses as an http(s) URL
func IsValidRPCURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidPort checks that the value is a usable TCP port number
func IsValidPort(port string) bool {
	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return p > 0 && p <= 65535
}
