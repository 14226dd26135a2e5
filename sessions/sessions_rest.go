package sessions

import (
	"easylog/bizerror"
	"easylog/idgen"
	"easylog/session"
	"easylog/workspace"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	PathSessions = "/v1/sessions"
	PathSession  = "/v1/session"

	identityIdWorker = idgen.NewWorker()
)

func RegisterSessionsHandler(r *gin.Engine) {
	r.POST(PathSessions, SimpleLoginHandler)
	r.DELETE(PathSessions, SimpleLogoutHandler)
	r.GET(PathSession, session.SimpleAuthFilter(), handleQuerySession)
}

// SimpleLoginHandler signs a display name in, primes the owner's workspace
// from the store, and hands out a session token cookie.
func SimpleLoginHandler(c *gin.Context) {
	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	name := strings.TrimSpace(login.Name)
	if name == "" {
		panic(&bizerror.ErrBadParam{Cause: errors.New("name must not be blank")})
	}

	if _, err := workspace.OpenWorkspaceFunc(name); err != nil {
		panic(err)
	}

	token := uuid.New().String()
	securityContext := session.Session{
		Token:       token,
		Identity:    session.Identity{ID: idgen.NextID(identityIdWorker), Name: name},
		SigningTime: time.Now(),
	}
	session.TokenCache.Set(token, &securityContext, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &securityContext)
}

func SimpleLogoutHandler(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		if value, found := session.TokenCache.Get(token); found {
			if secCtx, ok := value.(*session.Session); ok {
				workspace.CloseWorkspaceFunc(secCtx.Identity.Name)
			}
		}
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

func handleQuerySession(c *gin.Context) {
	c.JSON(http.StatusOK, session.FindSecurityContext(c))
}
