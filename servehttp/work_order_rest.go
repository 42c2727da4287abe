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
	PathWorkOrders = "/v1/orders"
)

func RegisterWorkOrderRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWorkOrders, middleWares...)
	g.GET("", handleQueryWorkOrders)
	g.POST("", handleCreateWorkOrder)
	g.GET(":id", handleDetailWorkOrder)
	g.DELETE(":id", handleDeleteWorkOrder)
}

func handleQueryWorkOrders(c *gin.Context) {
	query := domain.WorkOrderQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	workOrders, err := order.QueryWorkOrdersFunc(&query, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: workOrders, Total: uint64(len(*workOrders))})
}

func handleCreateWorkOrder(c *gin.Context) {
	creation := domain.WorkOrderCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	detail, err := order.CreateWorkOrderFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func handleDetailWorkOrder(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(err)
	}

	detail, err := order.DetailWorkOrderFunc(id, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleDeleteWorkOrder(c *gin.Context) {
	id, err := common.BindingPathID(c)
	if err != nil {
		panic(err)
	}

	if err := order.DeleteWorkOrderFunc(id, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
