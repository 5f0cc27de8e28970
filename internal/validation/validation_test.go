package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		email     string
		password  string
		wantEmail string
		wantErrs  int
	}{
		{"valid", "A@x.com", "Passw0rd", "a@x.com", 0},
		{"normalizes case and space", "  User@Example.COM ", "Passw0rd", "user@example.com", 0},
		{"bad email", "not-an-email", "Passw0rd", "not-an-email", 1},
		{"short password", "a@x.com", "Pw0", "a@x.com", 1},
		{"weak password", "a@x.com", "password", "a@x.com", 1},
		{"everything wrong", "nope", "pw", "nope", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, errs := Registration(tt.email, tt.password)
			assert.Equal(t, tt.wantEmail, email)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

func TestRegistration_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	_, errs := Registration("bad", "short")
	require.Len(t, errs, 3)

	fields := map[string]int{}
	for _, e := range errs {
		fields[e.Field]++
	}
	assert.Equal(t, 1, fields["email"])
	assert.Equal(t, 2, fields["password"])
}

func TestTodoTitle(t *testing.T) {
	t.Parallel()

	title, errs := TodoTitle("  Buy milk  ")
	require.Empty(t, errs)
	assert.Equal(t, "Buy milk", title)

	_, errs = TodoTitle("   ")
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)

	long := make([]byte, MaxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, errs = TodoTitle(string(long))
	assert.Len(t, errs, 1)
}

func TestProfileUpdate(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }

	t.Run("valid partial update", func(t *testing.T) {
		errs := ProfileUpdate(&ProfileUpdateInput{
			Bio:     str("hi"),
			Website: str("https://example.com"),
			Phone:   str("+1 (555) 123-4567"),
			Preferences: &PreferencesInput{
				Theme: str("dark"),
			},
		})
		assert.Empty(t, errs)
	})

	t.Run("bad website", func(t *testing.T) {
		errs := ProfileUpdate(&ProfileUpdateInput{Website: str("not a url")})
		require.Len(t, errs, 1)
		assert.Equal(t, "website", errs[0].Field)
	})

	t.Run("bad theme", func(t *testing.T) {
		errs := ProfileUpdate(&ProfileUpdateInput{
			Preferences: &PreferencesInput{Theme: str("neon")},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "preferences.theme", errs[0].Field)
	})

	t.Run("bad visibility", func(t *testing.T) {
		errs := ProfileUpdate(&ProfileUpdateInput{
			Privacy: &PrivacyInput{ProfileVisibility: str("hidden")},
		})
		require.Len(t, errs, 1)
	})

	t.Run("collects every violation", func(t *testing.T) {
		long := make([]byte, MaxBioLength+1)
		for i := range long {
			long[i] = 'a'
		}
		errs := ProfileUpdate(&ProfileUpdateInput{
			Bio:     str(string(long)),
			Website: str("ftp://example.com"),
			Phone:   str("abc"),
		})
		assert.Len(t, errs, 3)
	})
}

func TestProfileUpdate_TrimsBeforeLengthCheck(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", MaxBioLength)
	padded := "  " + long + "  "
	in := &ProfileUpdateInput{Bio: &padded}

	require.Empty(t, ProfileUpdate(in))
	// The trimmed value is what callers persist.
	assert.Equal(t, long, *in.Bio)

	over := strings.Repeat("a", MaxBioLength+1)
	in = &ProfileUpdateInput{Bio: &over}
	require.Len(t, ProfileUpdate(in), 1)
}
