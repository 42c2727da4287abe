package servehttp

import (
	"errors"
	"net/http"

	"orderflow/common"
	"orderflow/domain"
	"orderflow/domain/order"
	"orderflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathOrderTransitions = "/v1/order-transitions"
)

func RegisterOrderTransitionRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathOrderTransitions, middleWares...)
	g.POST("", handleCreateTransition)
}

// handleCreateTransition accepts either a JSON body or a multipart form.
// The multipart shape exists so the handoff attachment can ride along
// with the transition in a single request.
func handleCreateTransition(c *gin.Context) {
	transition := domain.WorkOrderTransition{}
	var upload *order.StageAttachmentUpload

	if c.ContentType() == "multipart/form-data" {
		if err := bindTransitionForm(c, &transition); err != nil {
			panic(&common.ErrBadParam{Cause: err})
		}

		fileHeader, err := c.FormFile("attachment")
		if err != nil && err != http.ErrMissingFile {
			panic(&common.ErrBadParam{Cause: err})
		}
		if fileHeader != nil {
			file, err := fileHeader.Open()
			if err != nil {
				panic(&common.ErrBadParam{Cause: err})
			}
			defer file.Close()
			upload = &order.StageAttachmentUpload{FileName: fileHeader.Filename, Content: file}
		}
	} else {
		if err := c.ShouldBindBodyWith(&transition, binding.JSON); err != nil {
			panic(&common.ErrBadParam{Cause: err})
		}
	}

	updatedOrder, err := order.TransitionWorkOrderFunc(&transition, upload, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, updatedOrder)
}

func bindTransitionForm(c *gin.Context, transition *domain.WorkOrderTransition) error {
	orderId, err := types.ParseID(c.PostForm("orderId"))
	if err != nil {
		return errors.New("invalid orderId '" + c.PostForm("orderId") + "'")
	}
	transition.OrderID = orderId

	transition.NextStageName = c.PostForm("nextStageName")
	if transition.NextStageName == "" {
		return errors.New("nextStageName is required")
	}

	if raw := c.PostForm("nextAssigneeId"); raw != "" {
		assigneeId, err := types.ParseID(raw)
		if err != nil {
			return errors.New("invalid nextAssigneeId '" + raw + "'")
		}
		transition.NextAssigneeID = assigneeId
	}

	transition.Comment = c.PostForm("comment")
	return nil
}
