package models

import "encoding/json"

// Supplier is a supplier master record owned by the remote API.
type Supplier struct {
	SupID         ID         `json:"supId,omitzero"`
	SupCode       string     `json:"supCode"`
	SupName       string     `json:"supName"`
	ComName       string     `json:"comName"`
	Address1      string     `json:"address1"`
	Address2      string     `json:"address2"`
	Address3      string     `json:"address3"`
	ContactPerson string     `json:"contactPerson"`
	Telephone     FlexString `json:"telephone"`
	Fax           FlexString `json:"fax"`
	Email         string     `json:"email"`
	CreditLimit   FlexString `json:"creditLimit"`
	CreditPeriod  FlexString `json:"creditPeriod"`
	PayType       string     `json:"payType"`
	BankCode      FlexString `json:"bankCode"`
	BranchCode    FlexString `json:"branchCode"`
	AccountNo     FlexString `json:"accountNo"`
	PayeeName     string     `json:"payeeName"`
	MainCode      FlexString `json:"mainCode"`
	SubCode       FlexString `json:"subCode"`
	AccCode       FlexString `json:"accCode"`
	EntDate       string     `json:"entDate"`
	UserName      string     `json:"userName"`
	InActive      *bool      `json:"inActive"`
	FactoryID     ID         `json:"factoryId"`

	// Raw holds every field as received so an update sends back fields
	// this type does not model.
	Raw RawRecord `json:"-"`
}

// Active reports whether the supplier is explicitly marked active.
func (s Supplier) Active() bool {
	return s.InActive != nil && !*s.InActive
}

func (s *Supplier) UnmarshalJSON(b []byte) error {
	type alias Supplier
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := a.Raw.UnmarshalJSON(b); err != nil {
		return err
	}
	*s = Supplier(a)
	return nil
}

func (s Supplier) MarshalJSON() ([]byte, error) {
	type alias Supplier
	return s.Raw.Overlay(alias(s))
}
