package recon

import (
	"time"

	"github.com/shopspring/decimal"
)

// Typed records parsed out of the backend's weakly-typed JSON. Field
// names drift between endpoints (projectId / project_id / project, and
// populated vs bare foreign keys), so every record is built through
// ParseX from a raw map rather than decoded directly into a struct.

type TransactionType string

const (
	TxnIncome  TransactionType = "Income"
	TxnExpense TransactionType = "Expense"
)

type Project struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	EstimatedBudget decimal.Decimal `json:"estimated_budget"`
	Status          string          `json:"status"`
	Client          Reference       `json:"-"`
}

type Transaction struct {
	ID       string          `json:"id"`
	Project  Reference       `json:"-"`
	Type     TransactionType `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	DateOK   bool            `json:"-"`
	Category string          `json:"category"`
}

type Invoice struct {
	ID         string          `json:"id"`
	Project    Reference       `json:"-"`
	Date       time.Time       `json:"invoice_date"`
	DateOK     bool            `json:"-"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	DueDate    time.Time       `json:"due_date"`
	DueDateOK  bool            `json:"-"`
	Client     Reference       `json:"-"`
}

type ManpowerAssignment struct {
	ID          string          `json:"id"`
	Project     Reference       `json:"-"`
	Manpower    Reference       `json:"-"`
	Designation string          `json:"designation"`
	PayType     string          `json:"pay_type"` // Daily|Monthly|Hourly|Weekly, descriptive only
	PayRate     decimal.Decimal `json:"pay_rate"`
	UnitCount   decimal.Decimal `json:"unit_count"`
	From        time.Time       `json:"from_date"`
	FromOK      bool            `json:"-"`
	To          time.Time       `json:"to_date"`
	ToOK        bool            `json:"-"`
}

type MaterialRecord struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	Supplier          string          `json:"supplier"`
	Status            string          `json:"status"` // Available|LowStock|OutOfStock
}

type MaterialMapping struct {
	ID             string          `json:"id"`
	Project        Reference       `json:"-"`
	Material       Reference       `json:"-"`
	QuantityIssued decimal.Decimal `json:"quantity_issued"`
	QuantityUsed   decimal.Decimal `json:"quantity_used"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Date           time.Time       `json:"date"`
	DateOK         bool            `json:"-"`
	Vendor         string          `json:"vendor"`
}

// MaterialUsage is the separate consumption stream the stock report
// reads. It is NOT reconciled with MaterialMapping.QuantityUsed; the
// two are independent figures until the backend defines a relationship
// between them.
type MaterialUsage struct {
	ID           string          `json:"id"`
	Project      Reference       `json:"-"`
	Material     Reference       `json:"-"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	Unit         string          `json:"unit"`
	From         time.Time       `json:"from_date"`
	FromOK       bool            `json:"-"`
	To           time.Time       `json:"to_date"`
	ToOK         bool            `json:"-"`
}

func rawField(raw map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func recordID(raw map[string]interface{}) string {
	return asString(rawField(raw, "_id", "id"))
}

func ParseProject(raw map[string]interface{}) Project {
	return Project{
		ID:              recordID(raw),
		Name:            Label(rawField(raw, "projectName", "project_name", "name"), UnknownLabel("Project")),
		EstimatedBudget: Amount(rawField(raw, "estimatedBudget", "estimated_budget", "budget")),
		Status:          Label(rawField(raw, "status"), "N/A"),
		Client:          ParseReference(rawField(raw, "client", "clientId", "client_id")),
	}
}

func ParseTransaction(raw map[string]interface{}) Transaction {
	date, ok := DateOf(rawField(raw, "date", "transactionDate", "transaction_date", "createdAt"))
	txType := TransactionType(Label(rawField(raw, "type", "transactionType", "transaction_type"), ""))
	return Transaction{
		ID:       recordID(raw),
		Project:  ParseReference(rawField(raw, "project", "projectId", "project_id")),
		Type:     txType,
		Amount:   Amount(rawField(raw, "amount")),
		Date:     date,
		DateOK:   ok,
		Category: Label(rawField(raw, "category", "description"), "N/A"),
	}
}

func ParseInvoice(raw map[string]interface{}) Invoice {
	date, ok := DateOf(rawField(raw, "invoiceDate", "invoice_date", "date"))
	due, dueOK := DateOf(rawField(raw, "dueDate", "due_date"))
	return Invoice{
		ID:         recordID(raw),
		Project:    ParseReference(rawField(raw, "project", "projectId", "project_id")),
		Date:       date,
		DateOK:     ok,
		GrandTotal: Amount(rawField(raw, "grandTotal", "grand_total", "total")),
		DueDate:    due,
		DueDateOK:  dueOK,
		Client:     ParseReference(rawField(raw, "client", "clientId", "client_id")),
	}
}

func ParseManpowerAssignment(raw map[string]interface{}) ManpowerAssignment {
	from, fromOK := DateOf(rawField(raw, "fromDate", "from_date", "startDate"))
	to, toOK := DateOf(rawField(raw, "toDate", "to_date", "endDate"))
	return ManpowerAssignment{
		ID:          recordID(raw),
		Project:     ParseReference(rawField(raw, "project", "projectId", "project_id")),
		Manpower:    ParseReference(rawField(raw, "manpower", "manpowerId", "manpower_id")),
		Designation: Label(rawField(raw, "designation"), "N/A"),
		PayType:     Label(rawField(raw, "payType", "pay_type", "rateType"), "Daily"),
		PayRate:     Amount(rawField(raw, "payRate", "pay_rate", "rate")),
		UnitCount:   Amount(rawField(raw, "workingDays", "working_days", "workingHours", "unitCount", "units")),
		From:        from,
		FromOK:      fromOK,
		To:          to,
		ToOK:        toOK,
	}
}

func ParseMaterialRecord(raw map[string]interface{}) MaterialRecord {
	return MaterialRecord{
		ID:                recordID(raw),
		Name:              Label(rawField(raw, "materialName", "material_name", "name"), UnknownLabel("Material")),
		Unit:              Label(rawField(raw, "unit", "uom"), "N/A"),
		AvailableQuantity: Amount(rawField(raw, "availableQuantity", "available_quantity", "quantity")),
		ReorderLevel:      Amount(rawField(raw, "reorderLevel", "reorder_level")),
		PurchasePrice:     Amount(rawField(raw, "purchasePrice", "purchase_price", "price")),
		Supplier:          Label(rawField(raw, "supplier", "supplierName"), "N/A"),
		Status:            Label(rawField(raw, "status"), "Available"),
	}
}

func ParseMaterialMapping(raw map[string]interface{}) MaterialMapping {
	date, ok := DateOf(rawField(raw, "date", "mappingDate", "createdAt"))
	return MaterialMapping{
		ID:             recordID(raw),
		Project:        ParseReference(rawField(raw, "project", "projectId", "project_id")),
		Material:       ParseReference(rawField(raw, "material", "materialId", "material_id")),
		QuantityIssued: Amount(rawField(raw, "quantityIssued", "quantity_issued", "quantity")),
		QuantityUsed:   Amount(rawField(raw, "quantityUsed", "quantity_used")),
		UnitPrice:      Amount(rawField(raw, "unitPrice", "unit_price", "price")),
		Date:           date,
		DateOK:         ok,
		Vendor:         Label(rawField(raw, "vendor", "vendorName"), "N/A"),
	}
}

func ParseMaterialUsage(raw map[string]interface{}) MaterialUsage {
	from, fromOK := DateOf(rawField(raw, "fromDate", "from_date", "date"))
	to, toOK := DateOf(rawField(raw, "toDate", "to_date"))
	return MaterialUsage{
		ID:           recordID(raw),
		Project:      ParseReference(rawField(raw, "project", "projectId", "project_id")),
		Material:     ParseReference(rawField(raw, "material", "materialId", "material_id")),
		QuantityUsed: Amount(rawField(raw, "quantityUsed", "quantity_used", "quantity")),
		Unit:         Label(rawField(raw, "unit"), "N/A"),
		From:         from,
		FromOK:       fromOK,
		To:           to,
		ToOK:         toOK,
	}
}

func ParseProjects(raws []map[string]interface{}) []Project {
	out := make([]Project, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseProject(r))
	}
	return out
}

func ParseTransactions(raws []map[string]interface{}) []Transaction {
	out := make([]Transaction, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseTransaction(r))
	}
	return out
}

func ParseInvoices(raws []map[string]interface{}) []Invoice {
	out := make([]Invoice, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseInvoice(r))
	}
	return out
}

func ParseManpowerAssignments(raws []map[string]interface{}) []ManpowerAssignment {
	out := make([]ManpowerAssignment, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseManpowerAssignment(r))
	}
	return out
}

func ParseMaterialRecords(raws []map[string]interface{}) []MaterialRecord {
	out := make([]MaterialRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseMaterialRecord(r))
	}
	return out
}

func ParseMaterialMappings(raws []map[string]interface{}) []MaterialMapping {
	out := make([]MaterialMapping, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseMaterialMapping(r))
	}
	return out
}

func ParseMaterialUsages(raws []map[string]interface{}) []MaterialUsage {
	out := make([]MaterialUsage, 0, len(raws))
	for _, r := range raws {
		out = append(out, ParseMaterialUsage(r))
	}
	return out
}

// Per-collection id indexes, built once per aggregation run so joins
// stay O(1) per row instead of rescanning the collection per row.

type ProjectIndex map[string]Project

func NewProjectIndex(projects []Project) ProjectIndex {
	idx := make(ProjectIndex, len(projects))
	for _, p := range projects {
		if p.ID != "" {
			idx[p.ID] = p
		}
	}
	return idx
}

// NameLookup adapts the index to the Reference.DisplayName contract.
func (idx ProjectIndex) NameLookup(id string) (string, bool) {
	p, ok := idx[id]
	if !ok {
		return "", false
	}
	return p.Name, true
}

type MaterialIndex map[string]MaterialRecord

func NewMaterialIndex(materials []MaterialRecord) MaterialIndex {
	idx := make(MaterialIndex, len(materials))
	for _, m := range materials {
		if m.ID != "" {
			idx[m.ID] = m
		}
	}
	return idx
}

func (idx MaterialIndex) NameLookup(id string) (string, bool) {
	m, ok := idx[id]
	if !ok {
		return "", false
	}
	return m.Name, true
}
