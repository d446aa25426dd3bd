package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/mocks"
	mockauth "github.com/ecoworth/marketplace-web/internal/mocks/auth"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
	"github.com/ecoworth/marketplace-web/internal/observability/statsd"
	"github.com/ecoworth/marketplace-web/internal/service"
)

const staticPathFromTest = "../../frontend/static"

// RequireTemplateRenderer creates a TemplateRenderer over the on-disk templates,
// skipping the test when they are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// routerFixture is the full router wired to real services over gomock gateways,
// the stub auth backend and an in-memory session store.
type routerFixture struct {
	handler  http.Handler
	sessions *mockauth.MemorySessionStore
	authGW   *mockauth.StubAuthGateway
	listings *mocks.MockListingGateway
	buyer    *mocks.MockBuyerGateway
	admin    *mocks.MockAdminGateway
	subs     *mocks.MockSubscriptionGateway
	sink     *statsd.MemorySink
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := discardLogger()

	f := &routerFixture{
		sessions: mockauth.NewMemorySessionStore(),
		authGW:   mockauth.NewStubAuthGateway(),
		listings: mocks.NewMockListingGateway(ctrl),
		buyer:    mocks.NewMockBuyerGateway(ctrl),
		admin:    mocks.NewMockAdminGateway(ctrl),
		subs:     mocks.NewMockSubscriptionGateway(ctrl),
		sink:     statsd.NewMemorySink(),
	}
	m := metrics.NewMarketplace(f.sink)

	events := service.NewSessionEvents()
	registry := service.NewReconcilerRegistry(service.ReconcilerDeps{Buyer: f.buyer, Logger: logger, Metrics: m}, events)
	t.Cleanup(registry.Close)

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Gateway:  f.authGW,
		Sessions: f.sessions,
		Events:   events,
		Config:   service.AuthServiceConfig{SessionTTL: time.Hour, Logger: logger, Metrics: m},
	})
	listingSvc := service.NewListingService(service.ListingServiceOptions{Listings: f.listings, Reconcilers: registry, Logger: logger})

	handler, err := NewRouter(RouterServices{
		Auth:          authSvc,
		Listings:      listingSvc,
		Admin:         service.NewAdminService(service.AdminServiceOptions{Admin: f.admin, Listings: f.listings, Logger: logger}),
		Subscriptions: service.NewSubscriptionService(f.subs, logger),
		Metrics:       m,
		TemplateFS:    os.DirFS(TemplatePathFromTest),
		StaticFS:      os.DirFS(staticPathFromTest),
		Logger:        logger,
	})
	require.NoError(t, err)
	f.handler = handler
	return f
}

// signIn stores sess so requests carrying its id are authenticated.
func (f *routerFixture) signIn(t *testing.T, sess domainauth.Session) string {
	t.Helper()
	require.NoError(t, f.sessions.Save(t.Context(), sess))
	return sess.ID
}

type testRequest struct {
	method  string
	target  string
	form    url.Values
	session string
	htmx    bool
	accept  string
	// skipCSRF omits the token from the request while keeping the cookie.
	skipCSRF bool
}

func (f *routerFixture) do(t *testing.T, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()
	method := tr.method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if tr.form != nil {
		if !tr.skipCSRF && method != http.MethodGet {
			tr.form.Set("csrf_token", testCSRFToken)
		}
		body = strings.NewReader(tr.form.Encode())
	}
	req := httptest.NewRequest(method, tr.target, body)
	if tr.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else if !tr.skipCSRF && method != http.MethodGet {
		req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	}
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	if tr.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tr.session})
	}
	if tr.htmx {
		req.Header.Set("Hx-Request", "true")
	}
	if tr.accept != "" {
		req.Header.Set("Accept", tr.accept)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
