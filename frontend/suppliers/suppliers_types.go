package suppliers

import (
	"cmp"
	"strconv"
	"strings"

	"leafdesk/frontend/shared/form"
	"leafdesk/frontend/shared/workflow"
	"leafdesk/models"
)

const (
	msgCreated     = "Supplier added successfully!"
	msgCreateFail  = "Failed to add Supplier. Please try again."
	msgEdited      = "Supplier edited successfully !"
	msgEditFail    = "Failed to edit Supplier. Please try again."
	msgFetchFail   = "Failed to fetch supplier details."
	msgListFail    = "Failed to load suppliers."
	msgNumbersOnly = "Please enter only numbers."
)

// supplierField binds a form field to a Supplier attribute.
type supplierField struct {
	form.Field
	get func(models.Supplier) string
	set func(*models.Supplier, string)
}

func text(label, name, typ, placeholder string, get func(models.Supplier) string, set func(*models.Supplier, string)) supplierField {
	return supplierField{Field: form.Field{Label: label, Name: name, Type: typ, Placeholder: placeholder}, get: get, set: set}
}

func numeric(label, name, message string, get func(models.Supplier) string, set func(*models.Supplier, string)) supplierField {
	return supplierField{
		Field: form.Field{Label: label, Name: name, Type: "text", Placeholder: "Type here....", Numeric: true, NumericMessage: message},
		get:   get,
		set:   set,
	}
}

var supplierFields = []supplierField{
	text("Supplier Code", "supCode", "text", "Enter supplier code...",
		func(s models.Supplier) string { return s.SupCode }, func(s *models.Supplier, v string) { s.SupCode = v }),
	text("Supplier Name", "supName", "text", "Enter supplier name...",
		func(s models.Supplier) string { return s.SupName }, func(s *models.Supplier, v string) { s.SupName = v }),
	text("Company Name", "comName", "text", "Enter company name...",
		func(s models.Supplier) string { return s.ComName }, func(s *models.Supplier, v string) { s.ComName = v }),
	text("Address", "address1", "text", "Enter address...",
		func(s models.Supplier) string { return s.Address1 }, func(s *models.Supplier, v string) { s.Address1 = v }),
	text("Contact Person", "contactPerson", "text", "Enter contact person name...",
		func(s models.Supplier) string { return s.ContactPerson }, func(s *models.Supplier, v string) { s.ContactPerson = v }),
	text("Email Address", "email", "email", "Enter email address...",
		func(s models.Supplier) string { return s.Email }, func(s *models.Supplier, v string) { s.Email = v }),
	numeric("Contact Number", "telephone", "Please enter only phone number.",
		func(s models.Supplier) string { return s.Telephone.String() }, func(s *models.Supplier, v string) { s.Telephone = models.FlexString(v) }),
	numeric("Fax", "fax", "Please enter valid fax number.",
		func(s models.Supplier) string { return s.Fax.String() }, func(s *models.Supplier, v string) { s.Fax = models.FlexString(v) }),
	numeric("Credit Limit", "creditLimit", msgNumbersOnly,
		func(s models.Supplier) string { return s.CreditLimit.String() }, func(s *models.Supplier, v string) { s.CreditLimit = models.FlexString(v) }),
	numeric("Credit Period", "creditPeriod", msgNumbersOnly,
		func(s models.Supplier) string { return s.CreditPeriod.String() }, func(s *models.Supplier, v string) { s.CreditPeriod = models.FlexString(v) }),
	text("Payment Type", "payType", "text", "Enter payment type...",
		func(s models.Supplier) string { return s.PayType }, func(s *models.Supplier, v string) { s.PayType = v }),
	text("Bank Code", "bankCode", "text", "Enter bank code...",
		func(s models.Supplier) string { return s.BankCode.String() }, func(s *models.Supplier, v string) { s.BankCode = models.FlexString(v) }),
	text("Branch Code", "branchCode", "text", "Enter branch code...",
		func(s models.Supplier) string { return s.BranchCode.String() }, func(s *models.Supplier, v string) { s.BranchCode = models.FlexString(v) }),
	text("Account Number", "accountNo", "text", "Enter account number...",
		func(s models.Supplier) string { return s.AccountNo.String() }, func(s *models.Supplier, v string) { s.AccountNo = models.FlexString(v) }),
	text("Payee Name", "payeeName", "text", "Enter payee name...",
		func(s models.Supplier) string { return s.PayeeName }, func(s *models.Supplier, v string) { s.PayeeName = v }),
	text("Main Account Code", "mainCode", "text", "Enter main account code...",
		func(s models.Supplier) string { return s.MainCode.String() }, func(s *models.Supplier, v string) { s.MainCode = models.FlexString(v) }),
	text("Sub Account Code", "subCode", "text", "Enter sub account code...",
		func(s models.Supplier) string { return s.SubCode.String() }, func(s *models.Supplier, v string) { s.SubCode = models.FlexString(v) }),
	text("Account Code", "accCode", "text", "Enter account code...",
		func(s models.Supplier) string { return s.AccCode.String() }, func(s *models.Supplier, v string) { s.AccCode = models.FlexString(v) }),
	text("Entry Date", "entDate", "date", "Select entry date...",
		func(s models.Supplier) string { return s.EntDate }, func(s *models.Supplier, v string) { s.EntDate = v }),
	text("Created By (Username)", "userName", "text", "Enter username...",
		func(s models.Supplier) string { return s.UserName }, func(s *models.Supplier, v string) { s.UserName = v }),
	{
		Field: form.Field{Label: "Status", Name: "inActive", Type: "radio", Options: []form.Option{
			{Label: "Active", Value: "false"},
			{Label: "Inactive", Value: "true"},
		}},
		get: func(s models.Supplier) string {
			if s.InActive == nil {
				return ""
			}
			return strconv.FormatBool(*s.InActive)
		},
		set: func(s *models.Supplier, v string) {
			b, err := strconv.ParseBool(v)
			if err != nil {
				s.InActive = nil
				return
			}
			s.InActive = &b
		},
	},
}

var requiredRules = []struct{ name, message string }{
	{"supCode", "Code is required."},
	{"supName", "Name is required."},
	{"comName", "Company is required."},
	{"telephone", "Contact No is required."},
	{"inActive", "Status is required."},
}

func formFields() []form.Field {
	out := make([]form.Field, len(supplierFields))
	for i, f := range supplierFields {
		out[i] = f.Field
	}
	return out
}

// newSupplier is the starting record of the create dialog.
func newSupplier(factory models.ID) models.Supplier {
	inactive := false
	return models.Supplier{
		Address2:  "-",
		Address3:  "-",
		InActive:  &inactive,
		FactoryID: factory,
	}
}

// draftFromSupplier loads s into a form draft. The entry date is cut to
// YYYY-MM-DD for the date input.
func draftFromSupplier(s models.Supplier) *form.Draft {
	values := make(map[string]string, len(supplierFields))
	for _, f := range supplierFields {
		values[f.Name] = f.get(s)
	}
	values["entDate"] = dateOnly(values["entDate"])
	return form.NewDraft(formFields(), values)
}

// applyDraft copies the draft values over base.
func applyDraft(base models.Supplier, d *form.Draft) models.Supplier {
	out := base
	for _, f := range supplierFields {
		f.set(&out, d.Value(f.Name))
	}
	return out
}

// validate runs the required rules. inActive must be explicitly chosen.
func validate(d *form.Draft) {
	for _, rule := range requiredRules {
		d.Require(rule.name, rule.message)
	}
	if v := d.Value("inActive"); v != "" && v != "true" && v != "false" {
		d.Errors["inActive"] = "Status is required."
	}
}

func dateOnly(s string) string {
	if i := strings.Index(s, "T"); i >= 0 {
		return s[:i]
	}
	return s
}

// searchFields are the values the list search matches against.
func searchFields(s models.Supplier) []string {
	return []string{s.SupCode, s.SupName, s.BranchCode.String()}
}

var sortableColumns = map[string]workflow.Column[models.Supplier]{
	"code":    func(a, b models.Supplier) int { return cmp.Compare(strings.ToLower(a.SupCode), strings.ToLower(b.SupCode)) },
	"name":    func(a, b models.Supplier) int { return cmp.Compare(strings.ToLower(a.SupName), strings.ToLower(b.SupName)) },
	"company": func(a, b models.Supplier) int { return cmp.Compare(strings.ToLower(a.ComName), strings.ToLower(b.ComName)) },
}

// DetailRow is one label/value line of the supplier detail view.
type DetailRow struct {
	Label string
	Value string
}

func detailRows(s models.Supplier) []DetailRow {
	return []DetailRow{
		{"Code", s.SupCode},
		{"Name", s.SupName},
		{"Company", s.ComName},
		{"Address 1", s.Address1},
		{"Address 2", s.Address2},
		{"Address 3", s.Address3},
		{"Contact No", s.Telephone.String()},
		{"Contact Person", s.ContactPerson},
		{"Email", s.Email},
		{"Fax", s.Fax.String()},
		{"Credit Limit", s.CreditLimit.String()},
		{"Credit Period", s.CreditPeriod.String()},
		{"Pay Type", s.PayType},
		{"Bank Code", s.BankCode.String()},
		{"Branch Code", s.BranchCode.String()},
		{"Account No", s.AccountNo.String()},
		{"Payee Name", s.PayeeName},
		{"Main Code", s.MainCode.String()},
		{"Sub Code", s.SubCode.String()},
		{"Acc Code", s.AccCode.String()},
		{"Entry Date", dateOnly(s.EntDate)},
		{"User Name", s.UserName},
	}
}

// Row is a supplier as shown in the list table.
type Row struct {
	models.Supplier
	ViewURL string
	EditURL string
}

func (r Row) Inactive() bool { return r.InActive != nil && *r.InActive }

// SortLink is a sortable column header.
type SortLink struct {
	Label  string
	URL    string
	Active bool
	Dir    workflow.Direction
}

// PageLink is a pagination control.
type PageLink struct {
	Label   string
	URL     string
	Current bool
}

// DialogData is the open dialog, if any.
type DialogData struct {
	Kind     string
	Title    string
	Action   string
	Draft    *form.Draft
	Detail   []DetailRow
	Inactive bool
	CloseURL string
}

// SuppliersPageData feeds the supplier screen.
type SuppliersPageData struct {
	Query      string
	Rows       []Row
	Total      int
	Filtered   int
	Headers    []SortLink
	Pages      []PageLink
	SizeLinks  []PageLink
	CreateURL  string
	LoadFailed bool
	Dialog     *DialogData
	// ListHidden renders only the dialog, used when a submit is re-shown
	// without re-fetching the list.
	ListHidden bool
}
