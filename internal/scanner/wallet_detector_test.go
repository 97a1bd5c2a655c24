package scanner

import (
	"strings"
	"testing"
)

func TestWalletScanner_ScanBody(t *testing.T) {
	scanner := &WalletScanner{sigs: mustSignatures(t)}

	eth := "0x" + strings.Repeat("a0", 32)
	xrp := "XV5sbjUmgPpvXv4ixFWZ5ptAYZ6PD28Sq4"
	body := `<p>XRP: ` + xrp + `</p><p>Donate BTC: 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa</p><p>ETH: ` + eth + `</p>`

	wallets := scanner.scanBody("https://example.com/donate", []byte(body))
	if len(wallets) != 3 {
		t.Fatalf("expected 3 wallets, got %+v", wallets)
	}

	btc := wallets[0]
	if btc.Key != "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa" || btc.Type != "Bitcoin" || btc.Currency != "BTC" {
		t.Errorf("unexpected bitcoin record %+v", btc)
	}
	if btc.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", btc.Confidence)
	}

	ether := wallets[1]
	if ether.Key != eth || ether.Type != "Ethereum" || ether.Currency != "ETH" {
		t.Errorf("unexpected ethereum record %+v", ether)
	}
	if ether.Location != "https://example.com/donate" {
		t.Errorf("unexpected location %q", ether.Location)
	}

	// pattern order, not document order
	ripple := wallets[2]
	if ripple.Key != xrp || ripple.Type != "Ripple" || ripple.Currency != "XRP" {
		t.Errorf("unexpected ripple record %+v", ripple)
	}
}

func TestGuessWallet(t *testing.T) {
	tests := []struct {
		key      string
		typ      string
		currency string
	}{
		{"1BoatSLRHtKNngkdXEeobR76b53LETtpyT", "Bitcoin", "BTC"},
		{"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", "Bitcoin", "BTC"},
		{"0xabc", "Ethereum", "ETH"},
		{"XV5sbjUmgPpvXv4ixFWZ5ptAYZ6PD28Sq49uo34VyjnmK5H", "Ripple", "XRP"},
		{"bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", "Unknown", "Unknown"},
	}

	for _, tt := range tests {
		if got := GuessWalletType(tt.key); got != tt.typ {
			t.Errorf("GuessWalletType(%q) = %q, want %q", tt.key, got, tt.typ)
		}
		if got := GuessWalletCurrency(tt.key); got != tt.currency {
			t.Errorf("GuessWalletCurrency(%q) = %q, want %q", tt.key, got, tt.currency)
		}
	}
}
