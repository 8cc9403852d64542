package service

import (
	"context"
	"testing"
	"time"

	"consumables/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Unlock(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)
	svc := NewAuthService("admin1234", issuer).(*authService)
	now := time.Now().Truncate(time.Second)
	svc.now = fixedClock(now)

	res, err := svc.Unlock(context.Background(), "admin1234")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), res.ExpiresAt)

	claims, err := issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = svc.Unlock(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestAuditService_GetAuditLogs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	refs := NewReferenceService(store, nil)
	for _, v := range []string{"L1", "L2", "L3"} {
		_, err := refs.Add(ctx, "admin", "line", v)
		require.NoError(t, err)
	}

	logs, total, err := NewAuditService(store.Audit).GetAuditLogs(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, logs, 2)
	assert.Equal(t, "admin", logs[0].Actor)
	assert.JSONEq(t, `{"kind":"line","value":"L3"}`, logs[0].Details)
}
