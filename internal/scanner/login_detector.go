package scanner

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/olegrjumin/sitescan/internal/logging"
)

// LoginFormDetector reports forms that contain a password input
type LoginFormDetector struct {
	source *pageSource
	limit  int
	logger *logging.Logger
}

// Detect re-reads every visited page and returns one LoginForm per
// qualifying form, in visited order then document order
func (d *LoginFormDetector) Detect(ctx context.Context, urls []string) []LoginForm {
	return scanCorpus(ctx, d.source, "login", urls, d.limit, func(pageURL string, body []byte) []LoginForm {
		forms, err := extractLoginForms(pageURL, body)
		if err != nil {
			d.logger.Warn("Parse failed", "stage", "login", "url", pageURL, "error_type", ErrorParse, "error", err)
			return nil
		}
		return forms
	})
}

// extractLoginForms finds password forms in one document
func extractLoginForms(pageURL string, body []byte) ([]LoginForm, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var forms []LoginForm
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		inputs := form.Find("input")

		hasPassword := false
		hasCSRF := false
		inputs.Each(func(_ int, input *goquery.Selection) {
			if inputType(input) == "password" {
				hasPassword = true
			}
			if name, ok := input.Attr("name"); ok && isCSRFName(name) {
				hasCSRF = true
			}
		})
		if !hasPassword {
			return
		}

		forms = append(forms, LoginForm{
			URL:        pageURL,
			FormAction: resolveAction(base, form),
			Fields:     fieldMap(inputs),
			Method:     formMethod(form),
			HasCSRF:    hasCSRF,
		})
	})

	return forms, nil
}

// inputType returns the lower-cased type attribute, "text" when absent
func inputType(input *goquery.Selection) string {
	t, ok := input.Attr("type")
	if !ok || strings.TrimSpace(t) == "" {
		return "text"
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// fieldMap maps input name to input type; later inputs win on duplicate names
func fieldMap(inputs *goquery.Selection) map[string]string {
	fields := make(map[string]string, inputs.Length())
	inputs.Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		fields[name] = inputType(input)
	})
	return fields
}

// resolveAction resolves the action attribute against the page, defaulting to the page itself
func resolveAction(base *url.URL, form *goquery.Selection) string {
	action := strings.TrimSpace(form.AttrOr("action", ""))
	if action == "" {
		return base.String()
	}
	ref, err := url.Parse(action)
	if err != nil {
		return action
	}
	return base.ResolveReference(ref).String()
}

func formMethod(form *goquery.Selection) string {
	method := strings.ToLower(strings.TrimSpace(form.AttrOr("method", "")))
	if method == "" {
		return "post"
	}
	return method
}

// isCSRFName reports whether an input name looks like an anti-forgery token
func isCSRFName(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "csrf") || strings.Contains(name, "token")
}
