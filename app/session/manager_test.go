package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maplewood-records/app/identity"
	"maplewood-records/app/models"
)

type fakeGateway struct {
	users       map[string]string // email:password -> uid
	refreshed   int
	refreshErr  error
	nextIDToken string
}

func (g *fakeGateway) SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error) {
	uid, ok := g.users[email+":"+password]
	if !ok {
		return nil, fmt.Errorf("EMAIL_NOT_FOUND: %w", models.ErrInvalidCredentials)
	}
	return &identity.SignInResult{UID: uid, IDToken: "id-" + uid, RefreshToken: "refresh-" + uid}, nil
}

func (g *fakeGateway) RefreshIDToken(ctx context.Context, refreshToken string) (*identity.RefreshResult, error) {
	g.refreshed++
	if g.refreshErr != nil {
		return nil, g.refreshErr
	}
	return &identity.RefreshResult{IDToken: g.nextIDToken, RefreshToken: refreshToken}, nil
}

type fakeDirectory struct {
	users map[string]*models.User
}

func (d *fakeDirectory) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, ok := d.users[uid]
	if !ok {
		return nil, fmt.Errorf("no directory entry for %s: %w", uid, models.ErrMetadataMissing)
	}
	return user, nil
}

func newTestManager() (*Manager, *fakeGateway, *fakeDirectory) {
	gateway := &fakeGateway{
		users:       map[string]string{"t@school.example:pw": "t1"},
		nextIDToken: "id-t1-fresh",
	}
	directory := &fakeDirectory{users: map[string]*models.User{
		"t1": {UID: "t1", Role: models.RoleTeacher, AssignedClass: "5", AssignedSection: "A"},
	}}
	m := NewManager(gateway, directory, []byte("test-secret"), 24*time.Hour, zap.NewNop())
	return m, gateway, directory
}

func TestSignInPopulatesSessionFromDirectory(t *testing.T) {
	m, _, _ := newTestManager()

	sess, err := m.SignIn(context.Background(), "t@school.example", "pw")
	require.NoError(t, err)
	require.Equal(t, "t1", sess.UID)
	require.Equal(t, models.RoleTeacher, sess.Role)
	require.Equal(t, "5", sess.AssignedClass)
	require.Equal(t, "A", sess.AssignedSection)
	require.Equal(t, "id-t1", sess.IDToken)
	require.Equal(t, 1, m.store.Len())
}

func TestSignInBadCredentialsStoresNothing(t *testing.T) {
	m, _, _ := newTestManager()

	_, err := m.SignIn(context.Background(), "t@school.example", "wrong")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
	require.Zero(t, m.store.Len())
}

func TestSignInUnprovisionedUserStoresNothing(t *testing.T) {
	m, gateway, _ := newTestManager()
	gateway.users["new@school.example:pw"] = "unknown-uid"

	_, err := m.SignIn(context.Background(), "new@school.example", "pw")
	require.ErrorIs(t, err, models.ErrMetadataMissing)
	require.Zero(t, m.store.Len())
}

func TestCurrentRoundTrip(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	got := m.Current(ctx, token)
	require.NotNil(t, got)
	require.Equal(t, sess.ID, got.ID)
}

func TestCurrentRejectsTamperedToken(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	require.Nil(t, m.Current(ctx, token+"x"))
	require.Nil(t, m.Current(ctx, ""))

	// A token signed with a different secret must not resolve either.
	other := NewManager(&fakeGateway{}, &fakeDirectory{}, []byte("other-secret"), time.Hour, zap.NewNop())
	otherToken, err := other.Token(sess)
	require.NoError(t, err)
	require.Nil(t, m.Current(ctx, otherToken))
}

func TestCurrentExpiredSessionRemoved(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	require.Nil(t, m.Current(ctx, token))
	require.Zero(t, m.store.Len())
}

func TestCurrentRefreshesStaleIDToken(t *testing.T) {
	m, gateway, _ := newTestManager()
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	got := m.Current(ctx, token)
	require.NotNil(t, got)
	require.Equal(t, 1, gateway.refreshed)
	require.Equal(t, "id-t1-fresh", got.IDToken)

	// A second lookup right after refresh does not refresh again.
	m.Current(ctx, token)
	require.Equal(t, 1, gateway.refreshed)
}

// barrierGateway parks every RefreshIDToken call until release is closed,
// so a test can hold several refreshes in flight at once.
type barrierGateway struct {
	arrived chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *barrierGateway) SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error) {
	return &identity.SignInResult{UID: "t1", IDToken: "id-t1", RefreshToken: "refresh-t1"}, nil
}

func (g *barrierGateway) RefreshIDToken(ctx context.Context, refreshToken string) (*identity.RefreshResult, error) {
	g.arrived <- struct{}{}
	<-g.release
	g.calls.Add(1)
	return &identity.RefreshResult{IDToken: "id-t1-fresh", RefreshToken: refreshToken}, nil
}

func TestCurrentConcurrentRefreshLeavesStoredSessionUntouched(t *testing.T) {
	gateway := &barrierGateway{
		arrived: make(chan struct{}),
		release: make(chan struct{}),
	}
	directory := &fakeDirectory{users: map[string]*models.User{
		"t1": {UID: "t1", Role: models.RoleTeacher, AssignedClass: "5", AssignedSection: "A"},
	}}
	m := NewManager(gateway, directory, []byte("test-secret"), 24*time.Hour, zap.NewNop())
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	// Both lookups see a stale ID token and enter the refresh branch.
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	var got [2]*models.Session
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = m.Current(ctx, token)
		}(i)
	}
	<-gateway.arrived
	<-gateway.arrived
	close(gateway.release)
	wg.Wait()

	for i, s := range got {
		require.NotNil(t, s, "lookup %d", i)
		require.Equal(t, "id-t1-fresh", s.IDToken)
	}
	// The session handed out at sign-in was never written to; the refresh
	// replaced it in the store instead.
	require.Equal(t, "id-t1", sess.IDToken)
	stored, ok := m.store.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, "id-t1-fresh", stored.IDToken)
	require.Equal(t, int32(2), gateway.calls.Load())
}

func TestCurrentDropsSessionWhenRefreshFails(t *testing.T) {
	m, gateway, _ := newTestManager()
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	gateway.refreshErr = errors.New("gateway unreachable")
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.Nil(t, m.Current(ctx, token))
	require.Zero(t, m.store.Len())
}

func TestSignOutIdempotent(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	sess, err := m.SignIn(ctx, "t@school.example", "pw")
	require.NoError(t, err)
	token, err := m.Token(sess)
	require.NoError(t, err)

	m.SignOut(token)
	require.Zero(t, m.store.Len())
	require.Nil(t, m.Current(ctx, token))

	// No active session is not an error.
	m.SignOut(token)
	m.SignOut("")
	m.SignOut("garbage")
}
