package scanner

import "time"

// PageNode is one crawled page in the site topology.
// Children are in discovery order; a URL appears at most once in the tree.
type PageNode struct {
	URL      string                 `json:"url"`
	Title    *string                `json:"title"`
	Children []*PageNode            `json:"children"`
	Type     string                 `json:"type"` // always "page" for crawled pages
	Metadata map[string]interface{} `json:"metadata"`
}

func newPageNode(url string) *PageNode {
	return &PageNode{
		URL:      url,
		Children: []*PageNode{},
		Type:     NodeTypePage,
		Metadata: map[string]interface{}{},
	}
}

// NodeTypePage tags nodes created by the crawler
const NodeTypePage = "page"

// Walk visits n and every descendant depth first
func (n *PageNode) Walk(fn func(*PageNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// LoginForm is a form containing at least one password input
type LoginForm struct {
	URL        string            `json:"url"`
	FormAction string            `json:"form_action"`
	Fields     map[string]string `json:"fields"` // input name -> input type
	Method     string            `json:"method"`
	HasCSRF    bool              `json:"has_csrf"`
}

// AdminPanel is a hit from the administrative path probe
type AdminPanel struct {
	URL             string  `json:"url"`
	Type            string  `json:"type"` // "standard" or "potential"
	Confidence      float64 `json:"confidence"`
	DetectionMethod string  `json:"detection_method"`
	StatusCode      int     `json:"status_code"`
}

// APIKey is a credential-looking assignment found in a page body
type APIKey struct {
	Key          string  `json:"key"`
	Type         string  `json:"type"`
	Location     string  `json:"location"`
	ExampleUsage string  `json:"example_usage"`
	Confidence   float64 `json:"confidence"`
	Context      string  `json:"context"`
}

// WalletKey is a cryptocurrency address literal found in a page body
type WalletKey struct {
	Key        string  `json:"key"`
	Type       string  `json:"type"`
	Location   string  `json:"location"`
	Currency   string  `json:"currency"`
	Confidence float64 `json:"confidence"`
}

// PaymentInfo is either a credit card form or a payment gateway signature
type PaymentInfo struct {
	Type          string            `json:"type"` // "credit_card" or "gateway"
	Gateway       string            `json:"gateway"`
	Location      string            `json:"location"`
	Fields        map[string]string `json:"fields"`
	SecurityLevel string            `json:"security_level"`
}

// ScanMetadata summarizes a finished scan
type ScanMetadata struct {
	BaseURL          string     `json:"base_url"`
	TotalURLsScanned int        `json:"total_urls_scanned"`
	ScanOptions      []Category `json:"scan_options"`
	DetectorsRun     []Category `json:"detectors_run"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       time.Time  `json:"finished_at"`
}

// Report is the final aggregate of one scan. It is built once, after every
// detector has finished, and never modified afterwards.
type Report struct {
	SiteStructure *PageNode     `json:"site_structure"`
	VisitedURLs   []string      `json:"visited_urls"`
	HiddenURLs    []string      `json:"hidden_urls"`
	LoginForms    []LoginForm   `json:"login_forms"`
	AdminPanels   []AdminPanel  `json:"admin_panels"`
	APIKeys       []APIKey      `json:"api_keys"`
	WalletKeys    []WalletKey   `json:"wallet_keys"`
	PaymentInfo   []PaymentInfo `json:"payment_info"`
	ScanMetadata  ScanMetadata  `json:"scan_metadata"`
}
