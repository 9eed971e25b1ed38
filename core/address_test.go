package core

import (
	"strings"
	"testing"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want bool
	}{
		{"digits", "0x1234567890123456789012345678901234567890", true},
		{"lower hex", "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", true},
		{"mixed case", "0xAbCdEf0123456789aBcDeF0123456789AbCdEf01", true},
		{"empty", "", false},
		{"prefix only", "0x", false},
		{"no prefix", "1234567890123456789012345678901234567890", false},
		{"upper prefix", "0X1234567890123456789012345678901234567890", false},
		{"39 digits", "0x123456789012345678901234567890123456789", false},
		{"41 digits", "0x12345678901234567890123456789012345678901", false},
		{"non hex", "0x123456789012345678901234567890123456789g", false},
		{"leading space", " 0x1234567890123456789012345678901234567890", false},
		{"trailing newline", "0x1234567890123456789012345678901234567890\n", false},
		{"short mock", "0x682EbA0Fb232E1775687B500F8205", false},
		{"text", "not-an-address", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAddress(tt.s); got != tt.want {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestChecksumAddress(t *testing.T) {
	got, ok := ChecksumAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	if !ok {
		t.Fatal("ChecksumAddress() rejected a valid address")
	}

	if want := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"; got != want {
		t.Errorf("ChecksumAddress() = %s, want %s", got, want)
	}

	if _, ok := ChecksumAddress("0x1234"); ok {
		t.Error("ChecksumAddress() accepted a short address")
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("0x1234567890123456789012345678901234567890"); got != "0x1234...7890" {
		t.Errorf("ShortAddress() = %s", got)
	}

	if got := ShortAddress("0x12"); got != "0x12" {
		t.Errorf("ShortAddress() = %s", got)
	}
}

func TestRoutePath(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		want  string
	}{
		{"home", Route{Target: RouteHome}, "/"},
		{"send empty", Route{Target: RouteSend}, "/send"},
		{
			name:  "address",
			route: Route{Target: RouteSend, Recipient: "0x1234567890123456789012345678901234567890"},
			want:  "/send?recipient=0x1234567890123456789012345678901234567890",
		},
		{
			name:  "payment",
			route: Route{Target: RouteSend, Recipient: "0xab", Amount: "10", Token: "XL3"},
			want:  "/send?amount=10&recipient=0xab&token=XL3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.route.Path(); got != tt.want {
				t.Errorf("Path() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}

	wrapped := &wrapErr{ErrInsufficientBalance}
	if got := Message(wrapped); got != "Insufficient balance" {
		t.Errorf("Message(wrapped) = %q", got)
	}

	if got := Message(ErrPermissionDenied); !strings.Contains(got, "enable camera permissions") {
		t.Errorf("permission message lacks remediation: %q", got)
	}

	failed := &wrapErr{&wrapErr{ErrSubmissionFailed}}
	if got := Code(failed); got != "submission_failed" {
		t.Errorf("Code() = %s", got)
	}

	if got := Code(errString("boom")); got != "unknown" {
		t.Errorf("Code() = %s", got)
	}
}

type wrapErr struct{ err error }

func (w *wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapErr) Unwrap() error { return w.err }

type errString string

func (e errString) Error() string { return string(e) }
