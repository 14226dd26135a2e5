package eventtype

import (
	"easylog/bizerror"
	"easylog/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathEventTypes = "/v1/event-types"

func RegisterEventTypesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathEventTypes, middleWares...)
	g.GET("", handleQueryEventTypes)
	g.POST("", handleCreateEventType)
	g.DELETE("/:id", handleDeleteEventType)
}

func handleQueryEventTypes(c *gin.Context) {
	eventTypes, err := QueryEventTypesFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, eventTypes)
}

func handleCreateEventType(c *gin.Context) {
	creation := EventTypeCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	d, err := CreateEventTypeFunc(creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, d)
}

func handleDeleteEventType(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteEventTypeFunc(id, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
