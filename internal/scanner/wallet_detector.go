package scanner

import (
	"context"
	"strings"
)

const walletConfidence = 0.9

// WalletScanner finds Bitcoin, Ethereum and Ripple style address literals.
// Addresses are not checksum-validated.
type WalletScanner struct {
	source *pageSource
	sigs   *Signatures
	limit  int
}

// Detect returns one record per match, pattern order within each page
func (s *WalletScanner) Detect(ctx context.Context, urls []string) []WalletKey {
	return scanCorpus(ctx, s.source, "wallet", urls, s.limit, func(pageURL string, body []byte) []WalletKey {
		return s.scanBody(pageURL, body)
	})
}

func (s *WalletScanner) scanBody(pageURL string, body []byte) []WalletKey {
	var wallets []WalletKey
	for _, pattern := range s.sigs.WalletPatterns {
		for _, match := range pattern.findAll(body) {
			key := string(match)
			wallets = append(wallets, WalletKey{
				Key:        key,
				Type:       GuessWalletType(key),
				Location:   pageURL,
				Currency:   GuessWalletCurrency(key),
				Confidence: walletConfidence,
			})
		}
	}
	return wallets
}

// GuessWalletType names the chain from the address prefix
func GuessWalletType(key string) string {
	switch {
	case strings.HasPrefix(key, "1"), strings.HasPrefix(key, "3"):
		return "Bitcoin"
	case strings.HasPrefix(key, "0x"):
		return "Ethereum"
	case strings.HasPrefix(key, "X"):
		return "Ripple"
	default:
		return "Unknown"
	}
}

// GuessWalletCurrency returns the currency code for the address prefix
func GuessWalletCurrency(key string) string {
	switch GuessWalletType(key) {
	case "Bitcoin":
		return "BTC"
	case "Ethereum":
		return "ETH"
	case "Ripple":
		return "XRP"
	default:
		return "Unknown"
	}
}
