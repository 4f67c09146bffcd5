package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/cache"
	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/internal/biblio/iam"
	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/internal/biblio/store"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"

	_ "github.com/aussiebroadwan/biblio/api/biblio" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	cache  cache.Cache
	guard  *iam.AccessGuard
	limits httpx.RateLimitProfiles

	AuthenticationService *service.AuthenticationService
	UsersService          *service.UsersService
	CompaniesService      *service.CompaniesService
	RolesService          *service.RolesService

	// SecureCookies marks the token cookies Secure. Only plain HTTP
	// development should turn it off.
	SecureCookies bool
}

// route is one row of the route table: a pattern, who may call it and how
// often.
type route struct {
	pattern string
	access  iam.Route
	limit   httpx.RateLimitConfig
	handler http.Handler
}

func NewRouter(
	st store.Store,
	c cache.Cache,
	guard *iam.AccessGuard,
	limits httpx.RateLimitProfiles,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		cache:        c,
		guard:        guard,
		limits:       limits,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	for _, rt := range r.routes() {
		r.handle(rt)
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Biblio API
//	@version		0.1.0
//	@description	Multi-tenant users and companies backend. Authentication uses HS256 JWTs carried in HttpOnly cookies; refresh tokens rotate and work once.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/biblio
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						accessToken
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers rt behind rate limit, authentication and authorization,
// outermost first.
func (r *Router) handle(rt route) {
	r.Mux.Handle(rt.pattern, httpx.Chain(rt.handler,
		httpx.RateLimitByClientIP(rt.limit, r.limits.TrustedProxies),
		r.guard.Middleware(rt.access),
		iam.PermissionGuard(rt.access),
	))
}

func (r *Router) routes() []route {
	auth := &AuthenticationHandler{
		Service:       r.AuthenticationService,
		AccessTTL:     r.AuthenticationService.AccessTTL,
		RefreshTTL:    r.AuthenticationService.RefreshTTL,
		SecureCookies: r.SecureCookies,
	}
	users := &UsersHandler{Service: r.UsersService}
	companies := &CompaniesHandler{Service: r.CompaniesService}
	roles := &RolesHandler{Service: r.RolesService}

	public := iam.Public()
	lim := r.limits

	return []route{
		{"POST /authentication/sign-up", public, lim.Credentials, http.HandlerFunc(auth.HandleSignUp)},
		{"POST /authentication/sign-in", public, lim.Credentials, http.HandlerFunc(auth.HandleSignIn)},
		{"POST /authentication/refresh-tokens", public, lim.Refresh, http.HandlerFunc(auth.HandleRefreshTokens)},
		{"POST /authentication/sign-out", iam.Route{}, lim.Refresh, http.HandlerFunc(auth.HandleSignOut)},

		{"GET /users/{id}", iam.Requires(domain.PermGetUser), lim.Resource, http.HandlerFunc(users.HandleGet)},
		{"GET /users", iam.Requires(domain.PermListUsers), lim.Resource, http.HandlerFunc(users.HandleList)},
		{"POST /users", iam.Requires(domain.PermCreateUser), lim.Resource, http.HandlerFunc(users.HandleCreate)},
		{"PATCH /users/{id}", iam.Requires(domain.PermUpdateUser), lim.Resource, http.HandlerFunc(users.HandleUpdate)},
		{"DELETE /users/{id}", iam.Requires(domain.PermDeleteUser), lim.Resource, http.HandlerFunc(users.HandleDelete)},

		{"GET /companies/{id}", iam.Requires(domain.PermGetCompany), lim.Resource, http.HandlerFunc(companies.HandleGet)},
		{"GET /companies", iam.Requires(domain.PermListCompanies), lim.Resource, http.HandlerFunc(companies.HandleList)},
		{"POST /companies", iam.Requires(domain.PermCreateCompany), lim.Resource, http.HandlerFunc(companies.HandleCreate)},
		{"PATCH /companies/{id}", iam.Requires(domain.PermUpdateCompany), lim.Resource, http.HandlerFunc(companies.HandleUpdate)},
		{"DELETE /companies/{id}", iam.Requires(domain.PermDeleteCompany), lim.Resource, http.HandlerFunc(companies.HandleDelete)},

		{"GET /roles", iam.Requires(domain.PermListUsers), lim.Resource, roles},

		// Monitoring systems poll these frequently.
		{"GET /livez", public, lim.System, LivezHandler(r.startTime, r.buildVersion)},
		{"GET /readyz", public, lim.System, ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache)},
		{"/swagger/", public, lim.System, httpSwagger.Handler()},
	}
}
