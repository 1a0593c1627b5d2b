package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
	"github.com/ivanquesadapalmero/planazo-backend/internal/participations"
	"github.com/ivanquesadapalmero/planazo-backend/internal/plans"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []auth.ResetNotice
}

func (n *recordingNotifier) NotifyPasswordReset(_ context.Context, notice auth.ResetNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func (n *recordingNotifier) last() (auth.ResetNotice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return auth.ResetNotice{}, false
	}
	return n.notices[len(n.notices)-1], true
}

type testServer struct {
	*testutil.TestSetup
	router   *api.Router
	notifier *recordingNotifier
}

type serverOption func(*api.RouterConfig)

func withRateLimit(requests int) serverOption {
	return func(cfg *api.RouterConfig) {
		cfg.RateLimitReqs = requests
		cfg.RateLimitWindow = time.Minute
	}
}

func withTrustedProxy() serverOption {
	return func(cfg *api.RouterConfig) {
		cfg.TrustProxy = true
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	ts := testutil.NewTestSetup(t)
	logger := testutil.DiscardLogger()
	notifier := &recordingNotifier{}

	cfg := api.RouterConfig{
		DB:          ts.DB,
		Logger:      logger,
		JWTService:  ts.JWTService,
		AuthService: auth.NewService(ts.DB, ts.JWTService, logger),
		PasswordReset: auth.NewPasswordReset(ts.DB, notifier, auth.ResetConfig{
			TTL:         time.Hour,
			FrontendURL: "http://localhost:5173/reset-password",
		}, logger),
		UserService:          users.NewService(ts.DB, logger),
		CategoryService:      categories.NewService(ts.DB, logger),
		PlanService:          plans.NewService(ts.DB, logger),
		ParticipationService: participations.NewService(ts.DB, logger),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router := api.NewRouter(cfg)
	t.Cleanup(router.Close)

	return &testServer{TestSetup: ts, router: router, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.AuthenticatedRequest(t, method, path, body, token)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodGet, path, nil, token)
}
