package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/domain/guard"
	"github.com/target/banksim-ui/internal/mocks"
	"github.com/target/banksim-ui/internal/mocks/bank"
	"github.com/target/banksim-ui/internal/observability/statsd"
)

var (
	adminIdentity    = domainauth.Identity{ID: 7, Name: "Asha", Email: "asha@bank.test", Role: domainauth.RoleAdmin}
	customerIdentity = domainauth.Identity{ID: 11, Name: "Ravi", Email: "ravi@bank.test", Role: domainauth.RoleCustomer}
)

func newStore(t *testing.T, api *bank.Fake) *SessionStore {
	t.Helper()
	return NewSessionStore(SessionStoreOptions{API: api})
}

func TestSessionStore_StartsLoading(t *testing.T) {
	s := newStore(t, bank.NewFake())

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.Identity)
	assert.Equal(t, guard.Pending, guard.AuthStateOf(snap))
}

func TestSessionStore_InitializeProbeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockBankingAPI(ctrl)
	api.EXPECT().WhoAmI(gomock.Any()).Return(domainauth.Identity{}, errors.New("connection refused")).Times(1)

	s := NewSessionStore(SessionStoreOptions{API: api})
	updates, cancel := s.Subscribe()
	defer cancel()

	s.Initialize(context.Background())
	s.Initialize(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Identity)

	// Loading flips to false exactly once.
	select {
	case got := <-updates:
		assert.False(t, got.Loading)
	default:
		t.Fatal("expected one session update")
	}
	select {
	case got := <-updates:
		t.Fatalf("unexpected second update: %+v", got)
	default:
	}

	select {
	case <-s.Settled():
	default:
		t.Fatal("store should be settled")
	}
}

func TestSessionStore_InitializeSuccess(t *testing.T) {
	api := bank.NewFake()
	api.SignIn(adminIdentity)
	s := newStore(t, api)

	s.Initialize(context.Background())

	snap := s.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, int64(7), snap.Identity.ID)
	assert.Equal(t, domainauth.RoleAdmin, snap.Identity.Role)
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, api.CallCount("WhoAmI"))
}

func TestSessionStore_InitializeIgnoresCancellation(t *testing.T) {
	api := bank.NewFake()
	api.SignIn(customerIdentity)
	s := newStore(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Initialize(ctx)

	snap := s.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, customerIdentity.Email, snap.Identity.Email)
}

func TestSessionStore_WaitTimesOutWhilePending(t *testing.T) {
	api := bank.NewFake()
	release := make(chan struct{})
	api.Gate("WhoAmI", release)
	s := newStore(t, api)
	go s.Initialize(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.True(t, s.Wait(ctx).Loading)

	close(release)
	snap := s.Wait(context.Background())
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Identity)
}

func TestSessionStore_Login(t *testing.T) {
	api := bank.NewFake()
	api.AddUser("secret", customerIdentity)
	s := newStore(t, api)
	s.Initialize(context.Background())

	got, err := s.Login(context.Background(), customerIdentity.Email, "secret")
	require.NoError(t, err)
	assert.Equal(t, customerIdentity, got)

	snap := s.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, customerIdentity, *snap.Identity)
	assert.Equal(t, guard.Authenticated, guard.AuthStateOf(snap))
}

func TestSessionStore_LoginFailureLeavesState(t *testing.T) {
	api := bank.NewFake()
	api.SignIn(adminIdentity)
	s := newStore(t, api)
	s.Initialize(context.Background())

	_, err := s.Login(context.Background(), "nobody@bank.test", "wrong")
	require.Error(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, adminIdentity.ID, snap.Identity.ID)
}

func TestSessionStore_LoginErrorReturnedUnmodified(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockBankingAPI(ctrl)
	want := errors.New("boom")
	api.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(domainauth.Identity{}, want)

	s := NewSessionStore(SessionStoreOptions{API: api})
	_, err := s.Login(context.Background(), "a@b.c", "pw")
	assert.Same(t, want, err)
	assert.True(t, s.Snapshot().Loading, "a failed login must not settle the probe")
}

func TestSessionStore_LoginWinsOverLateProbe(t *testing.T) {
	api := bank.NewFake()
	api.AddUser("secret", customerIdentity)
	release := make(chan struct{})
	api.Gate("WhoAmI", release)
	s := newStore(t, api)

	done := make(chan struct{})
	go func() {
		s.Initialize(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return api.CallCount("WhoAmI") == 1 }, time.Second, time.Millisecond)

	_, err := s.Login(context.Background(), customerIdentity.Email, "secret")
	require.NoError(t, err)

	// The probe now answers with the fresh session, but it started before
	// the login and must not overwrite it either way.
	api.FailWith("WhoAmI", errors.New("stale"))
	close(release)
	<-done

	snap := s.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, customerIdentity.ID, snap.Identity.ID)
}

func TestSessionStore_Signup(t *testing.T) {
	api := bank.NewFake()
	s := newStore(t, api)

	got, err := s.Signup(context.Background(), banking.SignupProfile{
		Name: "Meera", Email: "meera@bank.test", Password: "pw", Status: "ACTIVE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Meera", got.Name)
	assert.Equal(t, domainauth.RoleCustomer, got.Role)

	snap := s.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, got, *snap.Identity)
	assert.False(t, snap.Loading)
}

func TestSessionStore_SignupFailurePropagates(t *testing.T) {
	api := bank.NewFake()
	api.AddUser("pw", customerIdentity)
	s := newStore(t, api)
	s.Initialize(context.Background())

	_, err := s.Signup(context.Background(), banking.SignupProfile{Email: customerIdentity.Email, Password: "pw"})
	require.Error(t, err)
	assert.Nil(t, s.Snapshot().Identity)
}

func TestSessionStore_LogoutAlwaysClears(t *testing.T) {
	tests := []struct {
		name    string
		failure error
	}{
		{name: "backend ok"},
		{name: "backend fails", failure: errors.New("network down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := bank.NewFake()
			api.SignIn(adminIdentity)
			api.FailWith("Logout", tt.failure)
			rec := &statsd.Recorder{}
			s := NewSessionStore(SessionStoreOptions{API: api, Metrics: rec, ClearCredentials: api.ClearCookies})
			s.Initialize(context.Background())
			require.NotNil(t, s.Snapshot().Identity)

			err := s.Logout(context.Background())
			if tt.failure != nil {
				assert.ErrorIs(t, err, tt.failure)
				assert.Equal(t, 1, api.CallCount("ClearCookies"))
				assert.Empty(t, api.Cookies())
			} else {
				assert.NoError(t, err)
				assert.Zero(t, api.CallCount("ClearCookies"))
			}
			assert.Nil(t, s.Snapshot().Identity)
			assert.Equal(t, guard.Unauthenticated, guard.AuthStateOf(s.Snapshot()))

			samples := rec.Named("session.transition")
			require.NotEmpty(t, samples)
			assert.Equal(t, "logout", samples[len(samples)-1].Tags["transition"])
		})
	}
}

func TestSessionStore_UpdateIdentity(t *testing.T) {
	api := bank.NewFake()
	s := newStore(t, api)
	s.Initialize(context.Background())

	_, err := s.UpdateIdentity(domainauth.IdentityPatch{})
	assert.ErrorIs(t, err, ErrNoIdentity)

	api.AddUser("pw", customerIdentity)
	_, err = s.Login(context.Background(), customerIdentity.Email, "pw")
	require.NoError(t, err)

	name := "Ravi Kumar"
	got, err := s.UpdateIdentity(domainauth.IdentityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, customerIdentity.Email, got.Email)
	assert.Equal(t, name, s.Snapshot().Identity.Name)
	// No round trip.
	assert.Equal(t, 0, api.CallCount("UpdateCustomer"))
}

func TestSessionStore_SubscribeKeepsLatest(t *testing.T) {
	api := bank.NewFake()
	api.AddUser("pw", customerIdentity)
	s := newStore(t, api)
	updates, cancel := s.Subscribe()

	s.Initialize(context.Background())
	_, err := s.Login(context.Background(), customerIdentity.Email, "pw")
	require.NoError(t, err)

	got := <-updates
	require.NotNil(t, got.Identity)
	assert.Equal(t, customerIdentity.ID, got.Identity.ID)

	cancel()
	cancel()
	require.NoError(t, s.Logout(context.Background()))
	select {
	case <-updates:
		t.Fatal("canceled subscription received an update")
	default:
	}
}

func TestSessionStore_OnAuthChange(t *testing.T) {
	api := bank.NewFake()
	api.AddUser("pw", customerIdentity)
	calls := 0
	s := NewSessionStore(SessionStoreOptions{
		API:          api,
		OnAuthChange: func(context.Context) { calls++ },
	})

	s.Initialize(context.Background())
	_, _ = s.Login(context.Background(), customerIdentity.Email, "pw")
	_ = s.Logout(context.Background())
	assert.Equal(t, 3, calls)
}
