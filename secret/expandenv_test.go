package secret

import (
	"strings"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("STAYAUTH_TEST_KEY", "abc123")
	t.Setenv("STAYAUTH_TEST_OTHER", "xyz")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "plain value untouched", input: "no-vars-here", want: "no-vars-here"},
		{name: "braced variable", input: "${STAYAUTH_TEST_KEY}", want: "abc123"},
		{name: "embedded variable", input: "key=${STAYAUTH_TEST_KEY}!", want: "key=abc123!"},
		{name: "two variables", input: "${STAYAUTH_TEST_KEY}-${STAYAUTH_TEST_OTHER}", want: "abc123-xyz"},
		{name: "escaped dollar", input: "cost$$5", want: "cost$5"},
		{
			name:    "missing variable errors",
			input:   "${STAYAUTH_TEST_MISSING}",
			wantErr: "STAYAUTH_TEST_MISSING",
		},
		{
			name:    "missing variables reported sorted",
			input:   "${ZZZ_MISSING}${AAA_MISSING}",
			wantErr: "AAA_MISSING, ZZZ_MISSING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvStrict(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ExpandEnvStrict(%q) = %q, want error", tt.input, got)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandEnvStrict(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandEnvStrict(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
