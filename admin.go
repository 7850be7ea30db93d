package synblog

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/synblog/syn"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetPostAny(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminForm(post, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := saveAdminSession(c, true); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	c.Logger().Warnf("failed admin login from %s", ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := saveAdminSession(c, false); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := HeaderField(c.FormValue("title"))
	slug := Slugify(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}
	posted, err := ParsePostedInput(c.FormValue("posted"), time.Now())
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+posted+time.+Use+YYYY-MM-DD+or+Unix+seconds.")
	}

	dropped := 0
	elements, err := a.decodeBody(c, c.FormValue("body"), &dropped)
	if err != nil {
		return err
	}
	doc := syn.New(title, SplitTags(c.FormValue("tags")), posted, HeaderField(c.FormValue("summary")), elements...)
	if err := a.Store.SavePost(Post{
		Slug:      slug,
		Published: c.FormValue("published") != "",
		Document:  doc,
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()

	msg := "saved"
	if dropped > 0 {
		msg = fmt.Sprintf("saved, %d malformed block(s) dropped", dropped)
	}
	return a.renderAdminDashboard(c, msg)
}

// handleAdminPreview renders a body as it would appear on the post page.
func (a *App) handleAdminPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.NoContent(http.StatusUnauthorized)
	}
	var dropped int
	elements, err := a.decodeBody(c, c.FormValue("body"), &dropped)
	if err != nil {
		return err
	}
	return Render(c, syn.Elements(elements))
}

func (a *App) decodeBody(c echo.Context, body string, dropped *int) ([]syn.Element, error) {
	dec := syn.NewDecoder(strings.NewReader(body))
	dec.OnDrop = func(block string, err error) {
		*dropped++
		c.Logger().Warnf("dropped block %q: %v", block, err)
	}
	return dec.DecodeBody()
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeletePost(c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, msg, CsrfToken(c)))
}

// ParsePostedInput reads a posted time typed into the admin form: Unix
// seconds, a YYYY-MM-DD date or a YYYY-MM-DDTHH:MM local time. An empty
// value means now.
func ParsePostedInput(s string, now time.Time) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uint64(now.Unix()), nil
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil && t.Unix() >= 0 {
			return uint64(t.Unix()), nil
		}
	}
	return 0, fmt.Errorf("invalid posted time %q", s)
}
