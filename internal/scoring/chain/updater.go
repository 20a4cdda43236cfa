package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const (
	defaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = 2 * time.Second
)

// Config holds the updater configuration
type Config struct {
	RPCURL         string
	ProgramID      string
	AuthorityKey   string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// Updater writes TigerScores into program-owned user-profile accounts.
// The authority key has a single owner: this instance. Updates are never
// retried here; retry policy belongs to the orchestrator.
type Updater struct {
	client         *rpc.Client
	programID      solana.PublicKey
	authority      solana.PrivateKey
	logger         logging.Logger
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// NewUpdater creates a new on-chain score updater
func NewUpdater(cfg Config, logger logging.Logger) (*Updater, error) {
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program ID %q: %w", cfg.ProgramID, err)
	}

	authority, err := solana.PrivateKeyFromBase58(cfg.AuthorityKey)
	if err != nil {
		return nil, fmt.Errorf("invalid authority private key: %w", err)
	}

	confirmTimeout := cfg.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	updater := &Updater{
		client:         rpc.New(cfg.RPCURL),
		programID:      programID,
		authority:      authority,
		logger:         logger,
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
	}

	logger.Info("Score updater initialized",
		"rpc_url", cfg.RPCURL,
		"program_id", programID.String(),
		"authority", authority.PublicKey().String(),
	)

	return updater, nil
}

// Authority returns the public key of the signing authority
func (u *Updater) Authority() solana.PublicKey {
	return u.authority.PublicKey()
}

// ProgramID returns the user-profile program identifier
func (u *Updater) ProgramID() solana.PublicKey {
	return u.programID
}

// UpdateScore writes (score, tier) into the wallet's profile account. Every
// failure mode surfaces in the result; this never panics or raises past the
// boundary.
func (u *Updater) UpdateScore(ctx context.Context, wallet string, score int, tier types.Tier) types.OnChainUpdateResult {
	result := types.OnChainUpdateResult{
		WalletAddress: wallet,
		Score:         score,
		Tier:          tier,
		Timestamp:     time.Now().UTC(),
	}

	walletKey, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		result.Error = fmt.Sprintf("invalid wallet address: %v", err)
		return result
	}

	ref, err := DeriveProfileAddress(walletKey, u.programID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if score < 0 {
		score = 0
	}
	if score > 1000 {
		score = 1000
	}
	data := BuildUpdateScoreData(uint16(score), tier.ChainValue())

	instruction := solana.NewInstruction(
		u.programID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(ref.Address, true, false),
			solana.NewAccountMeta(walletKey, false, false),
			solana.NewAccountMeta(u.authority.PublicKey(), false, true),
		},
		data,
	)

	// Blockhashes expire quickly; fetch one immediately before signing
	blockhashResp, err := u.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		result.Error = fmt.Sprintf("failed to fetch latest blockhash: %v", err)
		return result
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhashResp.Value.Blockhash,
		solana.TransactionPayer(u.authority.PublicKey()),
	)
	if err != nil {
		result.Error = fmt.Sprintf("failed to build transaction: %v", err)
		return result
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(u.authority.PublicKey()) {
			return &u.authority
		}
		return nil
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to sign transaction: %v", err)
		return result
	}

	signature, err := u.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to send transaction: %v", err)
		return result
	}
	result.Signature = signature.String()

	if err := u.confirmSignature(ctx, signature); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	u.logger.Info("TigerScore updated on-chain",
		"wallet", wallet,
		"score", score,
		"tier", tier.String(),
		"signature", result.Signature,
	)
	return result
}

// confirmSignature polls signature status until confirmed or the bounded
// timeout elapses. A timeout is an update failure, not a hang.
func (u *Updater) confirmSignature(ctx context.Context, signature solana.Signature) error {
	confirmCtx, cancel := context.WithTimeout(ctx, u.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(u.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-confirmCtx.Done():
			return fmt.Errorf("transaction %s not confirmed within %v", signature, u.confirmTimeout)
		case <-ticker.C:
			resp, err := u.client.GetSignatureStatuses(confirmCtx, true, signature)
			if err != nil {
				u.logger.Warnf("Failed to poll signature status for %s: %v", signature, err)
				continue
			}
			if len(resp.Value) == 0 || resp.Value[0] == nil {
				continue
			}
			status := resp.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on-chain: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}
	}
}

// FetchProfile reads and decodes the wallet's profile account. A missing
// account is reported through Exists=false, not as an error.
func (u *Updater) FetchProfile(ctx context.Context, wallet string) (types.OnChainProfile, error) {
	ref, err := DeriveProfileAddressFromBase58(wallet, u.programID)
	if err != nil {
		return types.OnChainProfile{}, err
	}

	resp, err := u.client.GetAccountInfoWithOpts(ctx, ref.Address, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return types.OnChainProfile{WalletAddress: wallet}, nil
		}
		return types.OnChainProfile{}, fmt.Errorf("failed to fetch account %s: %w", ref.Address, err)
	}
	if resp.Value == nil {
		return types.OnChainProfile{WalletAddress: wallet}, nil
	}

	data := resp.Value.Data.GetBinary()
	profile := DecodeUserProfile(wallet, data)
	if !profile.Decoded {
		u.logger.Warnf("Profile account %s has unexpected layout (%d bytes)", ref.Address, len(data))
	}
	return profile, nil
}
