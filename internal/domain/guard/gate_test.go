package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/domain/auth"
)

func session(role auth.Role) auth.Session {
	return auth.Session{Identity: &auth.Identity{ID: 7, Role: role}}
}

func TestEvaluate(t *testing.T) {
	adminRoute, ok := Lookup("/admin/customers")
	require.True(t, ok)
	accounts, ok := Lookup("/accounts")
	require.True(t, ok)
	login, ok := Lookup("/login")
	require.True(t, ok)

	tests := []struct {
		name  string
		route Route
		sess  auth.Session
		want  Decision
	}{
		{
			name:  "pending shows loading",
			route: accounts,
			sess:  auth.Session{Loading: true},
			want:  Decision{Auth: Pending, Outcome: Loading},
		},
		{
			name:  "anonymous redirected to login",
			route: accounts,
			sess:  auth.Session{},
			want:  Decision{Auth: Unauthenticated, Outcome: Redirect, Location: "/login"},
		},
		{
			name:  "anonymous on admin route goes to login not home",
			route: adminRoute,
			sess:  auth.Session{},
			want:  Decision{Auth: Unauthenticated, Outcome: Redirect, Location: "/login"},
		},
		{
			name:  "customer on admin route redirected home",
			route: adminRoute,
			sess:  session(auth.RoleCustomer),
			want:  Decision{Auth: Authenticated, Authz: Unauthorized, Outcome: Redirect, Location: "/"},
		},
		{
			name:  "admin on admin route renders",
			route: adminRoute,
			sess:  session(auth.RoleAdmin),
			want:  Decision{Auth: Authenticated, Authz: Authorized, Outcome: Render},
		},
		{
			name:  "admin on customer route renders",
			route: accounts,
			sess:  session(auth.RoleAdmin),
			want:  Decision{Auth: Authenticated, Authz: Authorized, Outcome: Render},
		},
		{
			name:  "public route renders while pending",
			route: login,
			sess:  auth.Session{Loading: true},
			want:  Decision{Auth: Pending, Outcome: Render},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.route, tt.sess))
		})
	}
}

func TestLookup(t *testing.T) {
	r, ok := Lookup("/accounts/close")
	require.True(t, ok)
	assert.Equal(t, "/accounts", r.Path)

	r, ok = Lookup("/admin/transactions/export")
	require.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, r.RequiredRole)

	r, ok = Lookup("/")
	require.True(t, ok)
	assert.True(t, r.RequiresAuth)

	_, ok = Lookup("/accountsx")
	assert.False(t, ok)
	_, ok = Lookup("/nope")
	assert.False(t, ok)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "render", Render.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "redirect", Redirect.String())
}
