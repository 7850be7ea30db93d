package synblog

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName   = "admin_session"
	sessionMaxAge = 60 * 60 * 12
	authKey       = "authenticated"
)

// routeClass groups request paths by the policies they share.
type routeClass int

const (
	classPage   routeClass = iota // home and post pages
	classSource                   // /blog/:slug/source/
	classAsset                    // /public/...
	classFeed                     // sitemap.xml, feed.xml
	classFile                     // robots.txt, favicon.svg
	classAdmin                    // /admin/...
)

func classify(path string) routeClass {
	switch {
	case strings.HasPrefix(path, "/public/"):
		return classAsset
	case path == "/sitemap.xml" || path == "/feed.xml":
		return classFeed
	case path == "/robots.txt" || path == "/favicon.svg":
		return classFile
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return classAdmin
	case strings.HasPrefix(path, "/blog/") && strings.HasSuffix(path, "/source/"):
		return classSource
	}
	return classPage
}

var cacheControl = map[routeClass]string{
	classPage:   "public, max-age=3600",
	classSource: "no-cache",
	classAsset:  "public, max-age=31536000, immutable",
	classFeed:   "public, max-age=86400",
	classFile:   "public, max-age=86400",
	classAdmin:  "no-store",
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	// Plain HTML forms send deletes as POST with _method=DELETE.
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))

	e.Use(requestLogger())
	e.Use(middleware.Recover())
	// Uploads are already compressed images.
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return classify(c.Request().URL.Path) == classAsset
		},
	}))
	e.Use(middleware.SecureWithConfig(secureConfig))
	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(middleware.CSRFWithConfig(a.csrfConfig()))
	// Pages and admin routes are registered with a trailing slash.
	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			switch classify(c.Request().URL.Path) {
			case classAsset, classFeed, classFile:
				return true
			}
			return false
		},
	}))
	e.Use(cacheControlMiddleware)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Status >= 500 {
				c.Logger().Warnf("%s %s -> %d (%s) from %s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
				return nil
			}
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}

// Post bodies carry author markup unescaped, so scripts are limited to the
// site itself and plugins are off.
var secureConfig = middleware.SecureConfig{
	XSSProtection:         "1; mode=block",
	ContentTypeNosniff:    "nosniff",
	XFrameOptions:         "DENY",
	ReferrerPolicy:        "strict-origin-when-cross-origin",
	ContentSecurityPolicy: "default-src 'self'; script-src 'self'; object-src 'none'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; form-action 'self'; base-uri 'self'",
	HSTSMaxAge:            31536000,
}

func (a *App) csrfConfig() middleware.CSRFConfig {
	return middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", cacheControl[classify(c.Request().URL.Path)])
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin reports whether the request carries an authenticated admin session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[authKey].(bool)
	return auth
}

// saveAdminSession marks the session as logged in, or expires it.
func saveAdminSession(c echo.Context, loggedIn bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if loggedIn {
		sess.Values[authKey] = true
	} else {
		delete(sess.Values, authKey)
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
