package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the single logical session cookie.
const CookieName = "_session"

const contextKey = "session"

// Middleware loads the session before the handler chain and saves it after.
// Handlers mutate the session value in place; the refreshed cookie is written
// on the way out. An invalid cookie is cleared and treated as absent.
func Middleware(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &Session{}
		if raw, err := c.Cookie(CookieName); err == nil {
			if decoded := codec.Decode(raw); decoded != nil {
				sess = decoded
			} else {
				setCookie(c, "", -1)
			}
		}
		c.Set(contextKey, sess)

		c.Next()

		value, err := codec.Encode(sess)
		if err != nil {
			// Losing a session write is preferable to failing the response.
			return
		}
		setCookie(c, value, int(codec.TTL().Seconds()))
	}
}

// FromContext returns the request's session. The middleware guarantees it is
// set on every route it wraps.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return &Session{}
}

// The frontend runs on a different origin, so the cookie must be cross-site.
func setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", true, true)
}
