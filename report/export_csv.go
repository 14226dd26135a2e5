package report

import (
	"easylog/domain/record"
	"fmt"
	"io"
	"strings"
	"time"
)

var exportColumns = []string{"日期", "部門", "事件類型", "產品別 (選填)", "內容描述", "時數", "建立時間"}

// WriteCSV writes the export artifact: UTF-8 prefixed with a byte order
// mark so spreadsheet applications pick the right encoding. The description
// column is always double-quoted with internal quotes doubled; hours carry
// two decimals; the creation time is the store timestamp in UTC.
func WriteCSV(w io.Writer, records []record.WorkRecord) error {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(exportColumns, ","))
	for _, r := range records {
		description := `"` + strings.ReplaceAll(r.Description, `"`, `""`) + `"`
		lines = append(lines, strings.Join([]string{
			r.Date,
			r.Department,
			r.EventType,
			r.Product,
			description,
			fmt.Sprintf("%.2f", r.Hours),
			r.CreateTime.Time().UTC().Format(time.RFC3339),
		}, ","))
	}
	_, err := io.WriteString(w, "\uFEFF"+strings.Join(lines, "\n"))
	return err
}

// ExportFileName names the artifact after the day the export is taken.
func ExportFileName(format string) string {
	return "work_log_export_" + time.Now().Format("2006-01-02") + "." + format
}
