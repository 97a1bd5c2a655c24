package scanner

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	apiKeyConfidence = 0.8
	contextRadius    = 50
)

// SecretScanner finds quoted api_key / api_secret / access_token assignments
type SecretScanner struct {
	source *pageSource
	sigs   *Signatures
	limit  int
}

// Detect returns one record per pattern occurrence. Overlapping matches
// from different patterns are all kept.
func (s *SecretScanner) Detect(ctx context.Context, urls []string) []APIKey {
	return scanCorpus(ctx, s.source, "api_keys", urls, s.limit, func(pageURL string, body []byte) []APIKey {
		return s.scanBody(pageURL, body)
	})
}

func (s *SecretScanner) scanBody(pageURL string, body []byte) []APIKey {
	run := s.sigs.apiKeyFilter.candidates(body)
	content := string(body)

	var keys []APIKey
	for i, pattern := range s.sigs.APIKeyPatterns {
		if !run[i] {
			continue
		}
		for _, m := range pattern.findAllSubmatchIndex(content) {
			key := content[m[2]:m[3]]
			keys = append(keys, APIKey{
				Key:          key,
				Type:         GuessAPIKeyType(key),
				Location:     pageURL,
				ExampleUsage: APIKeyUsageExample(key),
				Confidence:   apiKeyConfidence,
				Context:      surrounding(content, m[0], m[1], contextRadius),
			})
		}
	}
	return keys
}

// GuessAPIKeyType classifies a key value by its shape
func GuessAPIKeyType(key string) string {
	switch {
	case strings.HasPrefix(key, "sk_"):
		return "Stripe"
	case strings.HasPrefix(key, "AKIA"):
		return "AWS"
	case utf8.RuneCountInString(key) == 32:
		return "Generic-32"
	default:
		return "Unknown"
	}
}

// APIKeyUsageExample shows how the key would be presented to an API
func APIKeyUsageExample(key string) string {
	return "Authorization: Bearer " + key
}

// surrounding returns content[start-radius:end+radius], clamped to the
// string and widened to rune boundaries
func surrounding(content string, start, end, radius int) string {
	from := start
	for i := 0; i < radius && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(content[:from])
		from -= size
	}

	to := end
	for i := 0; i < radius && to < len(content); i++ {
		_, size := utf8.DecodeRuneInString(content[to:])
		to += size
	}

	return content[from:to]
}
