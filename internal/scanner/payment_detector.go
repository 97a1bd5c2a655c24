package scanner

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/olegrjumin/sitescan/internal/logging"
)

const (
	PaymentTypeCreditCard = "credit_card"
	PaymentTypeGateway    = "gateway"
)

// PaymentScanner looks for credit card forms and known gateway signatures
type PaymentScanner struct {
	source *pageSource
	sigs   *Signatures
	limit  int
	logger *logging.Logger
}

// Detect runs both checks on every page. Form records come first, then
// gateway records in signature table order.
func (s *PaymentScanner) Detect(ctx context.Context, urls []string) []PaymentInfo {
	return scanCorpus(ctx, s.source, "payment", urls, s.limit, func(pageURL string, body []byte) []PaymentInfo {
		return s.scanBody(pageURL, body)
	})
}

func (s *PaymentScanner) scanBody(pageURL string, body []byte) []PaymentInfo {
	var found []PaymentInfo

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("Parse failed", "stage", "payment", "url", pageURL, "error_type", ErrorParse, "error", err)
	} else {
		found = append(found, creditCardForms(pageURL, doc)...)
	}

	run := s.sigs.gatewayFilter.candidates(body)
	for i, gw := range s.sigs.Gateways {
		if !run[i] || !gw.match(body) {
			continue
		}
		found = append(found, PaymentInfo{
			Type:          PaymentTypeGateway,
			Gateway:       gw.Name,
			Location:      pageURL,
			Fields:        map[string]string{},
			SecurityLevel: "standard",
		})
	}

	return found
}

// creditCardForms reports forms holding an input of type "credit-card"
func creditCardForms(pageURL string, doc *goquery.Document) []PaymentInfo {
	var forms []PaymentInfo
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		inputs := form.Find("input")
		isCard := false
		inputs.EachWithBreak(func(_ int, input *goquery.Selection) bool {
			isCard = inputType(input) == "credit-card"
			return !isCard
		})
		if !isCard {
			return
		}

		forms = append(forms, PaymentInfo{
			Type:          PaymentTypeCreditCard,
			Gateway:       "generic",
			Location:      pageURL,
			Fields:        fieldMap(inputs),
			SecurityLevel: "unknown",
		})
	})
	return forms
}
