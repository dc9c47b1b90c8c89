package factory

import (
	"leafdesk/frontend/shared/form"
	"leafdesk/models"
)

const (
	msgUpdated   = "Factory details updated successfully !"
	msgEditFail  = "Failed to edit factory details. Please try again."
	msgFetchFail = "Failed to fetch factory details."
)

var fields = []form.Field{
	{Label: "Factory Code", Name: "factoryCode", Type: "text", Placeholder: "Type here...."},
	{Label: "Factory Name", Name: "name", Type: "text", Placeholder: "Type here...."},
	{Label: "Description", Name: "description", Type: "text", Placeholder: "Type here...."},
	{Label: "Address", Name: "address", Type: "text", Placeholder: "Type here...."},
	{Label: "Contact Number", Name: "phoneNumber", Type: "text", Placeholder: "Type here....", Numeric: true, NumericMessage: "Please enter valid phone number."},
}

var requiredRules = []struct{ name, message string }{
	{"name", "Name is required."},
	{"description", "Description is required."},
	{"address", "Address is required."},
	{"factoryCode", "Factory Code is required."},
	{"phoneNumber", "Contact No is required."},
}

func draftFromFactory(f models.Factory) *form.Draft {
	return form.NewDraft(fields, map[string]string{
		"factoryCode": f.FactoryCode,
		"name":        f.Name,
		"description": f.Description,
		"address":     f.Address,
		"phoneNumber": f.PhoneNumber.String(),
	})
}

func applyDraft(base models.Factory, d *form.Draft) models.Factory {
	out := base
	out.FactoryCode = d.Value("factoryCode")
	out.Name = d.Value("name")
	out.Description = d.Value("description")
	out.Address = d.Value("address")
	out.PhoneNumber = models.FlexString(d.Value("phoneNumber"))
	return out
}

func validate(d *form.Draft) {
	for _, rule := range requiredRules {
		d.Require(rule.name, rule.message)
	}
}

// FactoryPageData is the factory profile form.
type FactoryPageData struct {
	Draft *form.Draft
	// Unavailable is set when the profile could not be fetched; the form is
	// still shown so the user can retry.
	Unavailable bool
}
