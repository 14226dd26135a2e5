package template

import (
	"easylog/bizerror"
	"easylog/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathTemplates = "/v1/templates"

func RegisterTemplatesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathTemplates, middleWares...)
	g.GET("", handleQueryTemplates)
	g.POST("", handleCreateTemplate)
	g.DELETE("/:id", handleDeleteTemplate)
}

func handleQueryTemplates(c *gin.Context) {
	templates, err := QueryTemplatesFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, templates)
}

func handleCreateTemplate(c *gin.Context) {
	creation := TemplateCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	t, err := CreateTemplateFunc(creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, t)
}

func handleDeleteTemplate(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteTemplateFunc(id, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
