package service_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/driveway/driveway/internal/service"
	"github.com/driveway/driveway/internal/store/storetest"
	"github.com/driveway/driveway/pkg/cryptox"
	"github.com/driveway/driveway/pkg/jwtx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "driveway-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTokenService(t *testing.T) *jwtx.Service {
	t.Helper()

	svc, err := jwtx.NewService("test-access-secret", "test-refresh-secret", "test-reset-secret")
	if err != nil {
		t.Fatalf("jwtx.NewService: %v", err)
	}
	return svc
}

func newAuthService(t *testing.T) (*service.AuthService, *storetest.Store) {
	t.Helper()

	st := storetest.New()
	return &service.AuthService{
		Store:      st,
		Tokens:     newTokenService(t),
		AccessTTL:  jwtx.DefaultAccessTTL,
		RefreshTTL: jwtx.DefaultRefreshTTL,
	}, st
}

func newResetService(t *testing.T, st *storetest.Store, mailer service.Mailer) *service.ResetService {
	t.Helper()

	return &service.ResetService{
		Store:    st,
		Tokens:   newTokenService(t),
		Mailer:   mailer,
		ResetTTL: time.Minute,
	}
}
