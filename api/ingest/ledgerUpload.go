// Package ingest parses uploaded ledger spreadsheets into transaction
// previews. Rows flow through the same coercion the live collections
// use, so a previewed total always matches what the dashboard would
// compute from the same data. Nothing is persisted here.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"SiteLedger/api"
	"SiteLedger/api/constants"
	"SiteLedger/internal/logger"
	"SiteLedger/internal/recon"

	"github.com/shakinm/xlsReader/xls"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const maxUploadBytes = 20 << 20

// NonQualifiedRow is a row that parsed but carries issues the caller
// should review before trusting the batch totals.
type NonQualifiedRow struct {
	RowNumber int               `json:"row_number"`
	Raw       []string          `json:"raw"`
	Issues    []string          `json:"issues"`
	Parsed    recon.Transaction `json:"parsed"`
}

type UploadResult struct {
	BatchID      uuid.UUID                `json:"batch_id"`
	FileName     string                   `json:"file_name"`
	TotalRows    int                      `json:"total_rows"`
	ParsedRows   int                      `json:"parsed_rows"`
	Transactions []recon.Transaction      `json:"transactions"`
	NonQualified []NonQualifiedRow        `json:"non_qualified"`
	Summary      recon.TransactionSummary `json:"summary"`
	Warnings     []string                 `json:"warnings,omitempty"`
}

// column aliases, matched case-insensitively after trimming
var headerAliases = map[string][]string{
	"type":     {"type", "transaction type", "txn type"},
	"amount":   {"amount", "amt", "value"},
	"date":     {"date", "transaction date", "txn date"},
	"category": {"category", "description", "narration", "details"},
	"project":  {"project", "project id", "projectid", "project name"},
}

// LedgerUploadHandler accepts a multipart "file" field holding a .csv,
// .xls or .xlsx ledger and returns the parsed preview with totals.
func LedgerUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingFile)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		rows, err := parseUploadFile(file, ext)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(rows) < 2 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrEmptyUpload)
			return
		}

		result := buildUploadResult(rows)
		result.FileName = header.Filename
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf(
				"ledger upload %s: file %s, %d rows, %d parsed, %d non-qualified",
				result.BatchID, header.Filename, result.TotalRows, result.ParsedRows, len(result.NonQualified)))
		}
		api.RespondWithPayload(w, result)
	}
}

func parseUploadFile(file multipart.File, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	case ".xls":
		return parseXLS(file)
	default:
		return nil, fmt.Errorf("%s", constants.ErrUnsupportedFile)
	}
}

// the xls reader wants a file on disk, so the upload is spooled to a
// temp file first
func parseXLS(file multipart.File) ([][]string, error) {
	tmp, err := os.CreateTemp("", "ledger-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}

	rows := [][]string{}
	for _, xlsRow := range sheet.GetRows() {
		rowData := []string{}
		for _, col := range xlsRow.GetCols() {
			rowData = append(rowData, col.GetString())
		}
		rows = append(rows, rowData)
	}
	return rows, nil
}

// mapHeaders resolves each canonical column to its index in the header
// row, -1 when absent.
func mapHeaders(header []string) map[string]int {
	cols := map[string]int{}
	for key := range headerAliases {
		cols[key] = -1
	}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for key, aliases := range headerAliases {
			if cols[key] != -1 {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					cols[key] = i
					break
				}
			}
		}
	}
	return cols
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func buildUploadResult(rows [][]string) UploadResult {
	result := UploadResult{
		BatchID:      uuid.New(),
		TotalRows:    len(rows) - 1,
		Transactions: []recon.Transaction{},
		NonQualified: []NonQualifiedRow{},
	}
	cols := mapHeaders(rows[0])
	if cols["amount"] == -1 {
		result.Warnings = append(result.Warnings, "no amount column recognized; all amounts coerce to 0")
	}
	if cols["type"] == -1 {
		result.Warnings = append(result.Warnings, "no type column recognized; rows default to Expense")
	}

	for i, row := range rows[1:] {
		raw := map[string]interface{}{
			"_id":      fmt.Sprintf("upload-%d", i+1),
			"amount":   cellAt(row, cols["amount"]),
			"date":     cellAt(row, cols["date"]),
			"category": cellAt(row, cols["category"]),
			"type":     normalizeType(cellAt(row, cols["type"])),
		}
		if project := cellAt(row, cols["project"]); project != "" {
			raw["projectId"] = project
		}
		txn := recon.ParseTransaction(raw)

		issues := []string{}
		if cellAt(row, cols["amount"]) != "" && txn.Amount.IsZero() {
			issues = append(issues, "amount failed to parse, coerced to 0")
		}
		if cellAt(row, cols["amount"]) == "" {
			issues = append(issues, "amount missing")
		}
		if !txn.DateOK {
			issues = append(issues, "date missing or unparseable; row excluded from ranged reports")
		}
		if txn.Type != recon.TxnIncome && txn.Type != recon.TxnExpense {
			issues = append(issues, "unrecognized type "+string(txn.Type))
		}

		if len(issues) > 0 {
			result.NonQualified = append(result.NonQualified, NonQualifiedRow{
				RowNumber: i + 2, // 1-based, after the header
				Raw:       row,
				Issues:    issues,
				Parsed:    txn,
			})
		}
		result.Transactions = append(result.Transactions, txn)
		result.ParsedRows++
	}

	result.Summary = recon.SummarizeTransactions(result.Transactions, recon.Range{})
	return result
}

func normalizeType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "credit", "cr":
		return string(recon.TxnIncome)
	case "expense", "debit", "dr", "":
		return string(recon.TxnExpense)
	default:
		return strings.TrimSpace(s)
	}
}
