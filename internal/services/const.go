package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrPoolExhausted = errors.New("reward pool exhausted")
var ErrAlreadyConsumed = errors.New("entry already consumed")
var ErrWrongChainAssigned = errors.New("entry assigned to a different chain")
var ErrInvalidBurnSelection = errors.New("burn selection does not satisfy the rule")
var ErrInsufficientBalance = errors.New("insufficient wallet balance")
var ErrTransactionFailed = errors.New("chain transaction failed")
var ErrNotStaked = errors.New("entry is not staked")
var ErrAlreadyStaked = errors.New("entry is already staked")
var ErrAchievementNotCompleted = errors.New("achievement not completed")
var ErrNothingToClaim = errors.New("nothing to claim")
var ErrBurnLock = errors.New("burn locked")
var ErrChainClaimLock = errors.New("chain claim locked")
var ErrStakeLock = errors.New("stake locked")
var ErrRewardClaimLock = errors.New("reward claim locked")

const (
	CONFIG_SERVER_MODE              = "SERVER_MODE"
	CONFIG_TOKEN_APR                = "TOKEN_APR"
	CONFIG_CRONJOB_TIME_ACCRUAL     = "CRONJOB_TIME_ACCRUAL"
	CONFIG_DISTRIBUTION_BATCH_LIMIT = "DISTRIBUTION_BATCH_LIMIT"
	CONFIG_MIN_TOKEN_STAKE          = "MIN_TOKEN_STAKE"
	CONFIG_SUPPORTED_CHAINS         = "SUPPORTED_CHAINS"
	CONFIG_MIN_CLAIM_BALANCE_GWEI   = "MIN_CLAIM_BALANCE_GWEI"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	DEFAULT_TOKEN_APR             = 20.0
	DEFAULT_MIN_TOKEN_STAKE       = 10.0
	DEFAULT_DISTRIBUTION_BATCH    = 100
	ACCRUAL_WALLET_PAGE_SIZE      = 500
	CLAIM_RATE_LIMIT_PER_MINUTE   = 10
	GENERAL_RATE_LIMIT_PER_MINUTE = 120

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
	CACHE_TTL_1_DAY      = 24 * time.Hour
)

func LockKeyBurn(wallet string) string {
	return fmt.Sprintf("lock:burn:%s", strings.ToLower(wallet))
}

func LockKeyChainClaim(distributionID int64) string {
	return fmt.Sprintf("lock:chain-claim:%d", distributionID)
}

func LockKeyStake(wallet string) string {
	return fmt.Sprintf("lock:stake:%s", strings.ToLower(wallet))
}

func LockKeyRewardClaim(wallet string) string {
	return fmt.Sprintf("lock:reward-claim:%s", strings.ToLower(wallet))
}

func LockKeyAccrual(day string) string {
	return fmt.Sprintf("lock:accrual:%s", day)
}

// db
func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyPoolAvailability(projectID string) string {
	return fmt.Sprintf("pool:availability:%s", projectID)
}

func DBKeyWalletCollection(wallet string) string {
	return fmt.Sprintf("collection:%s", strings.ToLower(wallet))
}

func DBKeyWalletRarityCounts(wallet string) string {
	return fmt.Sprintf("collection:rarity_counts:%s", strings.ToLower(wallet))
}

func DBKeyBurnRules() string {
	return "burn_rules:active"
}

func DBKeyWalletBurnHistory(wallet string, page int, limit int) string {
	return fmt.Sprintf("burn_history:%s:%d:%d", strings.ToLower(wallet), page, limit)
}

func DBKeyWalletStakingSummary(wallet string) string {
	return fmt.Sprintf("staking:summary:%s", strings.ToLower(wallet))
}

func DBKeyWalletRewardSummary(wallet string) string {
	return fmt.Sprintf("rewards:summary:%s", strings.ToLower(wallet))
}

func DBKeyWalletAchievements(wallet string) string {
	return fmt.Sprintf("achievements:%s", strings.ToLower(wallet))
}

func DBKeyWalletChainClaims(wallet string) string {
	return fmt.Sprintf("chain_claims:%s", strings.ToLower(wallet))
}

func LimitKeyClaim(wallet string) string {
	return fmt.Sprintf("limit:claim:%s", strings.ToLower(wallet))
}

func LimitKeyWallet(wallet string) string {
	return fmt.Sprintf("limit:wallet:%s", strings.ToLower(wallet))
}
