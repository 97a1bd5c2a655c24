package scanner

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/coregx/coregex"
	"gopkg.in/yaml.v3"
)

//go:embed signatures/signatures.yaml
var embeddedSignatures embed.FS

const signaturesPath = "signatures/signatures.yaml"

// signatureFile mirrors signatures.yaml
type signatureFile struct {
	Version         string            `yaml:"version"`
	AdminPaths      []string          `yaml:"admin_paths"`
	APIKeyPatterns  []patternTemplate `yaml:"api_key_patterns"`
	WalletPatterns  []patternTemplate `yaml:"wallet_patterns"`
	PaymentGateways []gatewayTemplate `yaml:"payment_gateways"`
}

type patternTemplate struct {
	ID       string   `yaml:"id"`
	Regex    string   `yaml:"regex"`
	Keywords []string `yaml:"keywords"`
}

type gatewayTemplate struct {
	Name     string   `yaml:"name"`
	Regex    string   `yaml:"regex"`
	Keywords []string `yaml:"keywords"`
}

// Signatures holds the compiled detector tables
type Signatures struct {
	AdminPaths []string

	APIKeyPatterns []*secretPattern
	apiKeyFilter   *keywordFilter

	WalletPatterns []*walletPattern

	Gateways      []*gatewaySignature
	gatewayFilter *keywordFilter
}

type secretPattern struct {
	ID    string
	Regex *coregex.Regexp
	mu    sync.Mutex
}

// findAllSubmatchIndex returns the match and capture offsets of every match
func (p *secretPattern) findAllSubmatchIndex(content string) [][]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Regex.FindAllStringSubmatchIndex(content, -1)
}

type walletPattern struct {
	ID    string
	Regex *coregex.Regexp
	// coregex's lazy DFA is not safe for concurrent use
	mu sync.Mutex
}

// findAll returns every match of the pattern in content
func (p *walletPattern) findAll(content []byte) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Regex.FindAll(content, -1)
}

type gatewaySignature struct {
	Name  string
	Regex *coregex.Regexp
	mu    sync.Mutex
}

func (g *gatewaySignature) match(content []byte) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Regex.Match(content)
}

var (
	signaturesOnce   sync.Once
	loadedSignatures *Signatures
	signaturesErr    error
)

// LoadSignatures parses and compiles the embedded tables once per process
func LoadSignatures() (*Signatures, error) {
	signaturesOnce.Do(func() {
		data, err := embeddedSignatures.ReadFile(signaturesPath)
		if err != nil {
			signaturesErr = fmt.Errorf("read signatures: %w", err)
			return
		}
		loadedSignatures, signaturesErr = ParseSignatures(data)
	})
	return loadedSignatures, signaturesErr
}

// ParseSignatures compiles a signatures document
func ParseSignatures(data []byte) (*Signatures, error) {
	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse signatures: %w", err)
	}

	sigs := &Signatures{AdminPaths: file.AdminPaths}

	apiKeywords := make([][]string, 0, len(file.APIKeyPatterns))
	for _, pt := range file.APIKeyPatterns {
		re, err := coregex.Compile(pt.Regex)
		if err != nil {
			return nil, fmt.Errorf("api key pattern %s: %w", pt.ID, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("api key pattern %s: no capture group", pt.ID)
		}
		sigs.APIKeyPatterns = append(sigs.APIKeyPatterns, &secretPattern{ID: pt.ID, Regex: re})
		apiKeywords = append(apiKeywords, pt.Keywords)
	}
	sigs.apiKeyFilter = newKeywordFilter(apiKeywords)

	for _, pt := range file.WalletPatterns {
		re, err := coregex.Compile(pt.Regex)
		if err != nil {
			return nil, fmt.Errorf("wallet pattern %s: %w", pt.ID, err)
		}
		sigs.WalletPatterns = append(sigs.WalletPatterns, &walletPattern{ID: pt.ID, Regex: re})
	}

	gatewayKeywords := make([][]string, 0, len(file.PaymentGateways))
	for _, gt := range file.PaymentGateways {
		re, err := coregex.Compile(`(?i)` + gt.Regex)
		if err != nil {
			return nil, fmt.Errorf("gateway %s: %w", gt.Name, err)
		}
		sigs.Gateways = append(sigs.Gateways, &gatewaySignature{Name: gt.Name, Regex: re})
		gatewayKeywords = append(gatewayKeywords, gt.Keywords)
	}
	sigs.gatewayFilter = newKeywordFilter(gatewayKeywords)

	return sigs, nil
}

// keywordFilter is an Aho-Corasick prefilter. candidates reports which
// patterns could match a body; a pattern without keywords always runs.
type keywordFilter struct {
	matcher  *ahocorasick.Matcher
	owners   [][]int // keyword index -> pattern indices
	always   []int
	patterns int

	// Matcher.Match updates internal counters
	mu sync.Mutex
}

func newKeywordFilter(keywordsPerPattern [][]string) *keywordFilter {
	f := &keywordFilter{patterns: len(keywordsPerPattern)}

	var keywords []string
	index := make(map[string]int)
	for i, kws := range keywordsPerPattern {
		if len(kws) == 0 {
			f.always = append(f.always, i)
			continue
		}
		for _, kw := range kws {
			kw = string(bytes.ToLower([]byte(kw)))
			idx, ok := index[kw]
			if !ok {
				idx = len(keywords)
				keywords = append(keywords, kw)
				index[kw] = idx
				f.owners = append(f.owners, nil)
			}
			f.owners[idx] = append(f.owners[idx], i)
		}
	}

	if len(keywords) > 0 {
		f.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return f
}

// candidates returns a per-pattern flag for content
func (f *keywordFilter) candidates(content []byte) []bool {
	run := make([]bool, f.patterns)
	for _, i := range f.always {
		run[i] = true
	}
	if f.matcher == nil {
		return run
	}

	lower := bytes.ToLower(content)
	f.mu.Lock()
	hits := f.matcher.Match(lower)
	f.mu.Unlock()

	for _, kw := range hits {
		for _, i := range f.owners[kw] {
			run[i] = true
		}
	}
	return run
}
