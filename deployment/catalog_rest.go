package deployment

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	PathDepartments = "/v1/departments"
	PathProducts    = "/v1/products"
)

func RegisterCatalogRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.GET(PathDepartments, append(middleWares, handleQueryDepartments)...)
	r.GET(PathProducts, append(middleWares, handleQueryProducts)...)
}

func handleQueryDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, Current.Departments)
}

func handleQueryProducts(c *gin.Context) {
	c.JSON(http.StatusOK, Current.Products)
}
