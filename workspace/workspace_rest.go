package workspace

import (
	"easylog/bizerror"
	"easylog/domain/record"
	"easylog/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathWorkRecords    = "/v1/work-records"
	PathStagingRecords = "/v1/staging-records"
)

func RegisterWorkspaceRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	records := r.Group(PathWorkRecords, middleWares...)
	records.GET("", handleQueryWorkRecords)
	records.PUT("/:id", handleUpdateWorkRecord)
	records.DELETE("/:id", handleDeleteWorkRecord)

	staging := r.Group(PathStagingRecords, middleWares...)
	staging.GET("", handleQueryStagedRecords)
	staging.POST("", handleStageRecord)
	staging.DELETE("/:tempId", handleUnstageRecord)
	staging.POST("/commits", handleCommitStaged)
}

func ownerWorkspace(c *gin.Context) *Workspace {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	w := FindWorkspaceFunc(secCtx.Identity.Name)
	if w != nil {
		return w
	}
	w, err := OpenWorkspaceFunc(secCtx.Identity.Name)
	if err != nil {
		panic(err)
	}
	return w
}

func handleQueryWorkRecords(c *gin.Context) {
	w := ownerWorkspace(c)
	if c.Query("refresh") == "true" {
		if err := w.Refresh(); err != nil {
			panic(err)
		}
	}
	c.JSON(http.StatusOK, w.Records())
}

func handleUpdateWorkRecord(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	changes := record.WorkRecordCreation{}
	if err := c.ShouldBindBodyWith(&changes, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := ownerWorkspace(c).UpdateRecord(id, changes)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

// Deleting is destructive; clients are expected to have collected an
// explicit confirmation before calling.
func handleDeleteWorkRecord(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := ownerWorkspace(c).DeleteRecord(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func handleQueryStagedRecords(c *gin.Context) {
	c.JSON(http.StatusOK, ownerWorkspace(c).StagedRecords())
}

func handleStageRecord(c *gin.Context) {
	creation := record.WorkRecordCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	staged, err := ownerWorkspace(c).Stage(creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, staged)
}

func handleUnstageRecord(c *gin.Context) {
	if err := ownerWorkspace(c).Unstage(c.Param("tempId")); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleCommitStaged(c *gin.Context) {
	result, err := ownerWorkspace(c).CommitStaged()
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
