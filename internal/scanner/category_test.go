package scanner

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"full", CategoryFull, false},
		{"FULL", CategoryFull, false},
		{" Api_Keys ", CategoryAPIKeys, false},
		{"wallet", CategoryWallet, false},
		{"ports", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCategory) {
					t.Errorf("expected ErrUnknownCategory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpandDetectors(t *testing.T) {
	tests := []struct {
		name string
		in   []Category
		want []Category
	}{
		{"full runs everything", []Category{CategoryFull}, detectorCategories},
		{"urls runs no detector", []Category{CategoryURLs}, []Category{}},
		{"fixed order", []Category{CategoryWallet, CategoryLogin}, []Category{CategoryLogin, CategoryWallet}},
		{"duplicates collapse", []Category{CategoryAdmin, CategoryAdmin}, []Category{CategoryAdmin}},
		{"upper case accepted", []Category{"PAYMENT"}, []Category{CategoryPayment}},
		{"full plus urls", []Category{CategoryURLs, CategoryFull}, detectorCategories},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandDetectors(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestExpandDetectors_Errors(t *testing.T) {
	if _, err := expandDetectors(nil); !errors.Is(err, ErrNoCategories) {
		t.Errorf("expected ErrNoCategories, got %v", err)
	}
	if _, err := expandDetectors([]Category{"bogus"}); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}
