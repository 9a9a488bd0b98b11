package handlers

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/security"
	"github.com/patobeur/inouttracker/internal/services"
	"github.com/patobeur/inouttracker/internal/session"
	"github.com/patobeur/inouttracker/pkg/clientip"
)

// request is what an action handler sees.
type request struct {
	r      *http.Request
	sess   *session.Session
	params params
}

// result is a successful action outcome.
type result struct {
	status  int
	payload interface{}
}

func ok(payload interface{}) result { return result{status: http.StatusOK, payload: payload} }

type actionFunc func(ctx context.Context, req *request) (result, error)

type route struct {
	method string
	public bool
	admin  bool
	csrf   bool
	// limitKey names the rate-limit bucket; empty means unlimited.
	limitKey string
	limit    security.Limit
	handle   actionFunc
}

type Deps struct {
	Sessions  *session.Manager
	Limiter   *security.RateLimiter
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Admin     *services.AdminService
	Inventory *services.InventoryService
	Badges    services.BadgeService

	// Installed reports whether the schema is present (the "status" action).
	Installed func(ctx context.Context) (bool, error)

	// RateLimitKey is clientip.ModeIP or clientip.ModeIPSession.
	RateLimitKey string
	Debug        bool
}

// API is the single JSON entry point; the "action" parameter selects the handler.
type API struct {
	Deps
	routes map[string]route
}

func NewAPI(deps Deps) *API {
	if deps.Limiter == nil {
		deps.Limiter = security.NewRateLimiter()
	}
	if deps.RateLimitKey == "" {
		deps.RateLimitKey = clientip.ModeIP
	}
	a := &API{Deps: deps}
	a.routes = a.buildRoutes()
	return a
}

func (a *API) buildRoutes() map[string]route {
	get := func(h actionFunc) route { return route{method: http.MethodGet, handle: h} }
	post := func(h actionFunc) route { return route{method: http.MethodPost, handle: h} }
	public := func(rt route) route {
		rt.public = true
		return rt
	}
	admin := func(rt route) route {
		rt.admin = true
		return rt
	}
	limited := func(rt route, key string, l security.Limit) route {
		rt.limitKey, rt.limit = key, l
		return rt
	}

	routes := map[string]route{
		"status":         public(get(a.status)),
		"register":       public(limited(post(a.register), "register", security.RegisterLimit)),
		"login":          public(limited(post(a.login), "login", security.LoginLimit)),
		"get_csrf_token": public(get(a.csrfToken)),
		"request_reset":  public(limited(post(a.requestReset), "reset_request", security.ResetRequestLimit)),
		"confirm_reset":  public(post(a.confirmReset)),

		"logout":         post(a.logout),
		"me":             get(a.me),
		"profile_update": post(a.profileUpdate),
		"badges":         get(a.badges),

		"admin/dashboard":        admin(get(a.dashboard)),
		"admin/articles":         admin(get(a.listArticles)),
		"admin/articles/create":  admin(post(a.createArticle)),
		"admin/articles/update":  admin(post(a.updateArticle)),
		"admin/articles/delete":  admin(post(a.deleteArticle)),
		"admin/customers":        admin(get(a.listCustomers)),
		"admin/customers/create": admin(post(a.createCustomer)),
		"admin/customers/update": admin(post(a.updateCustomer)),
		"admin/customers/delete": admin(post(a.deleteCustomer)),
		"admin/audit":            admin(get(a.auditTrail)),
		"admin_get_users":        admin(get(a.listUsers)),
		"admin_promote_user":     admin(post(a.promoteUser)),
		"admin_demote_user":      admin(post(a.demoteUser)),
	}

	// Every authenticated mutation carries a CSRF token.
	for name, rt := range routes {
		rt.csrf = rt.method == http.MethodPost && !rt.public
		routes[name] = rt
	}
	return routes
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := a.Sessions.Load(ctx, r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if _, err := security.EnsureToken(sess); err != nil {
		a.writeError(w, r, apperr.Internal(err))
		return
	}
	ctx = session.NewContext(ctx, sess)

	res, err := a.dispatch(ctx, r, sess)

	// Saved on failures too, so rejected attempts still count against the limiter.
	if serr := a.Sessions.Save(ctx, w, r, sess); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, res.status, res.payload)
}

func (a *API) dispatch(ctx context.Context, r *http.Request, sess *session.Session) (result, error) {
	p, err := parseParams(r)
	if err != nil {
		return result{}, err
	}

	action := strings.TrimSpace(r.URL.Query().Get("action"))
	if action == "" {
		action = p.get("action")
	}
	if action == "" {
		return result{}, apperr.ErrMissingAction
	}

	rt, found := a.routes[action]
	if !found {
		if !sess.IsLoggedIn() {
			return result{}, apperr.ErrUnauthenticated
		}
		return result{}, apperr.ErrUnknownAction
	}

	if r.Method != rt.method {
		return result{}, apperr.ErrMethodNotAllowed
	}
	if rt.limitKey != "" {
		client := clientip.RateLimitKey(a.RateLimitKey, r, sess.ID)
		if err := a.Limiter.Check(sess, rt.limitKey, client, rt.limit); err != nil {
			log.WithFields(log.Fields{"action": action, "client": client}).Warn("rate limit exceeded")
			return result{}, err
		}
	}
	if !rt.public && !sess.IsLoggedIn() {
		return result{}, apperr.ErrUnauthenticated
	}
	if rt.csrf && !security.VerifyToken(sess, security.SuppliedToken(r, p)) {
		return result{}, apperr.ErrCSRF
	}
	if rt.admin && !sess.IsAdmin() {
		return result{}, apperr.ErrAdminRequired
	}

	return rt.handle(ctx, &request{r: r, sess: sess, params: p})
}
