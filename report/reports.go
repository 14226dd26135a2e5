package report

import (
	"easylog/bizerror"
	"easylog/domain/record"
	"sort"
	"strings"
)

// DepartmentHours is one slice of the monthly proportion chart.
type DepartmentHours struct {
	Department string  `json:"department"`
	Hours      float64 `json:"hours"`
}

// RecordsForMonth filters to records whose work date falls in the month
// (key YYYY-MM) and orders them most recent work date first. The work date,
// not the creation time, is the sort key.
func RecordsForMonth(records []record.WorkRecord, monthKey string) []record.WorkRecord {
	monthly := []record.WorkRecord{}
	for _, r := range records {
		if strings.HasPrefix(r.Date, monthKey+"-") {
			monthly = append(monthly, r)
		}
	}
	sort.SliceStable(monthly, func(i, j int) bool {
		return monthly[i].Date > monthly[j].Date
	})
	return monthly
}

// HoursByDepartment sums hours per department in order of first appearance.
// Departments without records in the input are absent, never zero-valued.
func HoursByDepartment(monthlyRecords []record.WorkRecord) []DepartmentHours {
	totals := []DepartmentHours{}
	index := map[string]int{}
	for _, r := range monthlyRecords {
		if i, found := index[r.Department]; found {
			totals[i].Hours += r.Hours
		} else {
			index[r.Department] = len(totals)
			totals = append(totals, DepartmentHours{Department: r.Department, Hours: r.Hours})
		}
	}
	return totals
}

// ExportRange filters to records dated within [startDate, endDate]
// inclusive, most recent first. An empty result is bizerror.ErrNoData and
// must not produce an artifact.
func ExportRange(records []record.WorkRecord, startDate, endDate string) ([]record.WorkRecord, error) {
	rows := []record.WorkRecord{}
	for _, r := range records {
		if r.Date >= startDate && r.Date <= endDate {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, bizerror.ErrNoData
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows, nil
}
