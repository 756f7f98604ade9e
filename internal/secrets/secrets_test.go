package secrets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSensitive(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"DB_PASSWORD", true},
		{"jwt_secret", true},
		{"API_KEY", true},
		{"GITHUB_TOKEN", true},
		{"EMAIL_PASSWORD", true},
		{"KEYCLOAK_URL", true},
		{"DB_HOST", false},
		{"PORT", false},
		{"NODE_ENV", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			require.Equal(t, tc.want, IsSensitive(tc.key))
		})
	}
}

func TestDisplay_MaskIsFixedLength(t *testing.T) {
	require.Equal(t, Mask, Display("DB_PASSWORD", "x"))
	require.Equal(t, Mask, Display("DB_PASSWORD", "a-very-long-password-value-indeed"))
	require.Equal(t, "localhost", Display("DB_HOST", "localhost"))
}

func TestScrub(t *testing.T) {
	got := Scrub("auth failed for hunter2 at hunter2", "hunter2", "")
	require.Equal(t, "auth failed for ******** at ********", got)

	require.Equal(t, "untouched", Scrub("untouched"))
}
