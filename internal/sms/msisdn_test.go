package sms

import "testing"

func TestNormalizeMSISDN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+254712345678", "+254712345678"},
		{" +254712345678 ", "+254712345678"},
		{"254712345678", "+254712345678"},
		{"0712345678", "+254712345678"},
		{"0044123", "0044123"},
	}
	for _, tc := range cases {
		if got := NormalizeMSISDN(tc.in); got != tc.want {
			t.Fatalf("NormalizeMSISDN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidMSISDN(t *testing.T) {
	valid := []string{"+254712345678", "+254101234567"}
	for _, n := range valid {
		if !ValidMSISDN(n) {
			t.Fatalf("expected %q to be valid", n)
		}
	}
	invalid := []string{"", "0712345678", "+255712345678", "+2547123456", "+25471234567x", "+2547123456789"}
	for _, n := range invalid {
		if ValidMSISDN(n) {
			t.Fatalf("expected %q to be invalid", n)
		}
	}
}

func TestResultTerminal(t *testing.T) {
	if !(Result{StatusCode: "402", Description: "Recipient in DND list"}).Terminal() {
		t.Fatal("DND should be terminal")
	}
	if !(Result{StatusCode: "403", Description: "Number blacklisted"}).Terminal() {
		t.Fatal("blacklist should be terminal")
	}
	if (Result{StatusCode: "1005", Description: "Internal system error"}).Terminal() {
		t.Fatal("system errors are transient")
	}
	if !(Result{StatusCode: StatusDelivered, Description: "Success"}).Delivered() {
		t.Fatal("sentinel code should report delivered")
	}
}
