package servehttp

import (
	"errors"
	"fmt"
	"net/http"

	"orderflow/common"
	"orderflow/domain/order"
	"orderflow/session"

	"github.com/gin-gonic/gin"
)

var (
	PathAttachments = "/v1/attachments"
)

func RegisterAttachmentRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathAttachments, middleWares...)
	g.GET(":name", handleDetailAttachment)
}

func handleDetailAttachment(c *gin.Context) {
	name := order.SanitizeFileName(c.Param("name"))
	if name == "attachment" && c.Param("name") != "attachment" {
		panic(&common.ErrBadParam{Cause: errors.New("invalid attachment name")})
	}

	data, err := order.DetailAttachmentFunc(name, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/octet-stream", data)
}
