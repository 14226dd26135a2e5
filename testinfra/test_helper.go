package testinfra

import (
	"easylog/idgen"
	"easylog/session"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var identityIdWorker = idgen.NewWorker()

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, http.Header) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	bodyBytes, _ := ioutil.ReadAll(w.Body)
	return w.Code, string(bodyBytes), w.Header()
}

// BuildSession builds a signed-in session for the given display name.
func BuildSession(name string) *session.Session {
	return &session.Session{
		Token:       uuid.New().String(),
		Identity:    session.Identity{ID: idgen.NextID(identityIdWorker), Name: name},
		SigningTime: time.Now(),
	}
}

// SignIn registers a session in the token cache and returns the cookie that
// authenticates requests against it.
func SignIn(name string) (*session.Session, *http.Cookie) {
	secCtx := BuildSession(name)
	session.TokenCache.Set(secCtx.Token, secCtx, cache.DefaultExpiration)
	return secCtx, &http.Cookie{Name: session.KeySecToken, Value: secCtx.Token}
}
