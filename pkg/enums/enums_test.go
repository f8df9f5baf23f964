package enums

import "testing"

func TestParseRoundTrips(t *testing.T) {
	if got, err := ParsePaymentMethod("mobile"); err != nil || got != PaymentMethodMobile {
		t.Fatalf("expected mobile, got %q err=%v", got, err)
	}
	if got, err := ParseSaleStatus("refunded"); err != nil || got != SaleStatusRefunded {
		t.Fatalf("expected refunded, got %q err=%v", got, err)
	}
	if got, err := ParseUserRole("store_owner"); err != nil || got != UserRoleStoreOwner {
		t.Fatalf("expected store_owner, got %q err=%v", got, err)
	}
	if got, err := ParseSubscriptionTier("premium"); err != nil || got != SubscriptionTierPremium {
		t.Fatalf("expected premium, got %q err=%v", got, err)
	}
	if got, err := ParseSubscriptionStatus("suspended"); err != nil || got != SubscriptionStatusSuspended {
		t.Fatalf("expected suspended, got %q err=%v", got, err)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	if _, err := ParsePaymentMethod("crypto"); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
	if SaleStatus("void").IsValid() {
		t.Fatal("unexpected valid sale status")
	}
	if UserRole("").IsValid() {
		t.Fatal("empty role should be invalid")
	}
}
