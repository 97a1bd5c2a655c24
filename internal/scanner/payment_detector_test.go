package scanner

import (
	"testing"

	"github.com/olegrjumin/sitescan/internal/logging"
)

func TestPaymentScanner_FormsAndGateways(t *testing.T) {
	scanner := &PaymentScanner{sigs: mustSignatures(t), logger: logging.Discard()}

	body := `<html><body>
		<form action="/pay">
			<input type="credit-card" name="card">
			<input name="expiry">
		</form>
		<div class="PayPal-Button"></div>
		<script>Stripe('pk_live_abcdefghijklmnopqrstuvwx');</script>
	</body></html>`

	records := scanner.scanBody("https://shop.example.com/checkout", []byte(body))
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %+v", records)
	}

	card := records[0]
	if card.Type != PaymentTypeCreditCard || card.Gateway != "generic" || card.SecurityLevel != "unknown" {
		t.Errorf("unexpected credit card record %+v", card)
	}
	if card.Fields["card"] != "credit-card" || card.Fields["expiry"] != "text" {
		t.Errorf("unexpected card fields %v", card.Fields)
	}

	if records[1].Gateway != "stripe" || records[2].Gateway != "paypal" {
		t.Errorf("gateways out of table order: %s, %s", records[1].Gateway, records[2].Gateway)
	}
	for _, r := range records[1:] {
		if r.Type != PaymentTypeGateway || r.SecurityLevel != "standard" {
			t.Errorf("unexpected gateway record %+v", r)
		}
		if r.Fields == nil || len(r.Fields) != 0 {
			t.Errorf("gateway record should have an empty field map, got %v", r.Fields)
		}
		if r.Location != "https://shop.example.com/checkout" {
			t.Errorf("unexpected location %q", r.Location)
		}
	}
}

func TestPaymentScanner_PlainPage(t *testing.T) {
	scanner := &PaymentScanner{sigs: mustSignatures(t), logger: logging.Discard()}

	body := `<form><input type="text" name="q"></form><p>pk_live_tooshort</p>`
	if records := scanner.scanBody("https://example.com/", []byte(body)); len(records) != 0 {
		t.Errorf("expected no records, got %+v", records)
	}
}
