package servehttp

import (
	"net/http"

	"orderflow/common"
	"orderflow/domain"
	"orderflow/domain/order"
	"orderflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathOrderStages = "/v1/order-stages"
)

func RegisterOrderStageRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathOrderStages, middleWares...)
	g.GET("", handleQueryOrderStages)
}

func handleQueryOrderStages(c *gin.Context) {
	query := domain.OrderStageQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	stages, err := order.QueryOrderStagesFunc(&query, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: stages, Total: uint64(len(*stages))})
}
