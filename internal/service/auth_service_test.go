package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/auth"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].LastLoginAt = &at
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]int64
}

func (r *stubTokenRepo) Create(_ context.Context, t *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = t.UserID
	return nil
}

func (r *stubTokenRepo) Rotate(_ context.Context, old string, next *model.RefreshToken) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[old]; !ok {
		return false, nil
	}
	delete(r.tokens, old)
	r.tokens[next.Token] = next.UserID
	return true, nil
}

func (r *stubTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, uid := range r.tokens {
		if uid == userID {
			delete(r.tokens, tok)
		}
	}
	return nil
}

var _ repository.RefreshTokenRepository = (*stubTokenRepo)(nil)

func newAuthFixture(t *testing.T) (service.AuthService, *stubUserRepo, *stubTokenRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &stubUserRepo{users: map[int64]*model.User{
		1: {ID: 1, Name: "Admin", Email: "admin@example.com", Password: string(hash), Role: "admin"},
	}}
	tokens := &stubTokenRepo{tokens: map[string]int64{}}
	svc := service.NewAuthService(users, tokens,
		auth.NewCodec("access", time.Hour),
		auth.NewCodec("refresh", 24*time.Hour),
	)
	return svc, users, tokens
}

func TestSignIn(t *testing.T) {
	svc, users, tokens := newAuthFixture(t)

	sess, err := svc.SignIn(context.Background(), dto.SignInRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, int64(1), sess.User.ID)
	assert.NotNil(t, users.users[1].LastLoginAt)
	assert.Contains(t, tokens.tokens, sess.RefreshToken)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, dto.SignInRequest{Email: "admin@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apierror.ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, dto.SignInRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apierror.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	ctx := context.Background()
	sess, err := svc.SignIn(ctx, dto.SignInRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, sess.RefreshToken, next.RefreshToken)
	assert.NotContains(t, tokens.tokens, sess.RefreshToken)
	assert.Contains(t, tokens.tokens, next.RefreshToken)

	// The rotated-out token is no longer on file.
	_, err = svc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, apierror.ErrForbidden)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, apierror.ErrForbidden)
}

func TestSignOutRevokesRefreshTokens(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	ctx := context.Background()
	sess, err := svc.SignIn(ctx, dto.SignInRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, 1))

	assert.Empty(t, tokens.tokens)
	_, err = svc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, apierror.ErrForbidden)
}
