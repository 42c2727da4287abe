package servehttp

import (
	"net/http"

	"orderflow/common"
	"orderflow/indices/search"
	"orderflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathOrderSearch = "/v1/order-search"
)

func RegisterOrderSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathOrderSearch, middleWares...)
	g.GET("", handleSearchWorkOrders)
}

func handleSearchWorkOrders(c *gin.Context) {
	query := search.OrderSearchQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	docs, err := search.SearchWorkOrdersFunc(&query, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: docs, Total: uint64(len(docs))})
}
