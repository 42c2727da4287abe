package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"orderflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSecCtx builds a security context for tests
func BuildSecCtx(uid types.ID, perms ...string) *session.Context {
	return &session.Context{Token: "test-token", Identity: session.Identity{ID: uid, Name: "user" + uid.String()},
		Perms: perms, SigningTime: types.CurrentTimestamp().Time()}
}

// ExecuteRequest drives the request through the engine and returns status, body and the raw response
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	result := resp.Result()
	bodyBytes, _ := ioutil.ReadAll(result.Body)
	return result.StatusCode, string(bodyBytes), result
}
