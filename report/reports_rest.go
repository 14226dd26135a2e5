package report

import (
	"bytes"
	"easylog/bizerror"
	"easylog/domain/record"
	"easylog/session"
	"easylog/workspace"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathMonthlyReport = "/v1/reports/monthly"
	PathExport        = "/v1/reports/export"
)

type MonthlyReportQuery struct {
	Month string `json:"month" form:"month" binding:"required,datetime=2006-01"`
}

type ExportQuery struct {
	Start  string `json:"start" form:"start" binding:"required,datetime=2006-01-02"`
	End    string `json:"end" form:"end" binding:"required,datetime=2006-01-02"`
	Format string `json:"format" form:"format" binding:"omitempty,oneof=csv xlsx"`
}

type MonthlyReport struct {
	Month             string              `json:"month"`
	Records           []record.WorkRecord `json:"records"`
	HoursByDepartment []DepartmentHours   `json:"hoursByDepartment"`
}

func RegisterReportsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.GET(PathMonthlyReport, append(middleWares, handleMonthlyReport)...)
	r.GET(PathExport, append(middleWares, handleExport)...)
}

func ownerRecords(c *gin.Context) []record.WorkRecord {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	w := workspace.FindWorkspaceFunc(secCtx.Identity.Name)
	if w == nil {
		var err error
		w, err = workspace.OpenWorkspaceFunc(secCtx.Identity.Name)
		if err != nil {
			panic(err)
		}
	}
	return w.Records()
}

func handleMonthlyReport(c *gin.Context) {
	query := MonthlyReportQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	monthly := RecordsForMonth(ownerRecords(c), query.Month)
	c.JSON(http.StatusOK, &MonthlyReport{
		Month:             query.Month,
		Records:           monthly,
		HoursByDepartment: HoursByDepartment(monthly),
	})
}

func handleExport(c *gin.Context) {
	query := ExportQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if query.Format == "" {
		query.Format = "csv"
	}

	rows, err := ExportRange(ownerRecords(c), query.Start, query.End)
	if err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if query.Format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = WriteXLSX(&buf, rows)
	} else {
		err = WriteCSV(&buf, rows)
	}
	if err != nil {
		panic(err)
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFileName(query.Format)+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
