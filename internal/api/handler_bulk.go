package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gin-gonic/gin"
)

const bulkSheet = "Sheet1"

// Column order shared by the template and the importer.
var bulkColumns = []string{
	"Name", "Mobile No", "Email", "Apartment", "Door No",
	"Vehicle No", "Car Model", "Car Type", "Package Name",
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCustomerTemplate handles GET /customer/bulk/export-template. The
// template carries the header row plus one example row.
func (h *Handler) ExportCustomerTemplate(c *gin.Context) {
	f := excelize.NewFile()
	for i, col := range bulkColumns {
		cell := fmt.Sprintf("%s1", excelize.ToAlphaString(i))
		f.SetCellValue(bulkSheet, cell, col)
	}
	example := []string{"Ravi Kumar", "9876543210", "ravi@example.com", "Greenview", "A-101", "KA01AB1234", "Swift", "hatchback", "Classic"}
	for i, val := range example {
		cell := fmt.Sprintf("%s2", excelize.ToAlphaString(i))
		f.SetCellValue(bulkSheet, cell, val)
	}

	c.Header("Content-Disposition", `attachment; filename="customer-import-template.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type importRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportCustomers handles POST /customer/bulk/import (multipart form, field
// "file"). Rows validate with the same rules as the add-customer form; bad
// rows are reported and skipped, good rows are created.
func (h *Handler) ImportCustomers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read spreadsheet"})
		return
	}

	rows := xlsx.GetRows(bulkSheet)
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet has no data rows"})
		return
	}

	var imported int
	var rowErrors []importRowError
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		req := customerRequest{
			Name:      cell(row, 0),
			MobileNo:  cell(row, 1),
			Email:     cell(row, 2),
			Apartment: cell(row, 3),
			DoorNo:    cell(row, 4),
		}
		if vehicleNo := cell(row, 5); vehicleNo != "" {
			req.Vehicles = []vehicleRequest{{
				VehicleNo:   vehicleNo,
				CarModel:    cell(row, 6),
				CarType:     strings.ToLower(cell(row, 7)),
				PackageName: cell(row, 8),
			}}
		}

		if fieldErrors := req.validate(); fieldErrors != nil {
			rowErrors = append(rowErrors, importRowError{Row: rowNum, Message: joinFieldErrors(fieldErrors)})
			continue
		}
		customer, err := req.toModel()
		if err != nil {
			rowErrors = append(rowErrors, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if err := h.store.CreateCustomer(c.Request.Context(), customer); err != nil {
			msg := err.Error()
			if isDuplicateErr(err) {
				msg = "vehicle number already registered"
			}
			rowErrors = append(rowErrors, importRowError{Row: rowNum, Message: msg})
			continue
		}
		imported++
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": imported,
		"errors":   rowErrors,
	})
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func joinFieldErrors(fieldErrors map[string]string) string {
	parts := make([]string, 0, len(fieldErrors))
	for _, field := range []string{"name", "mobileNo"} {
		if msg, ok := fieldErrors[field]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}
