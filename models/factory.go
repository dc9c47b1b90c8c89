package models

import "encoding/json"

// Factory is the profile of the factory a user belongs to.
type Factory struct {
	FactoryID   ID         `json:"factoryId,omitzero"`
	FactoryCode string     `json:"factoryCode"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	PhoneNumber FlexString `json:"phoneNumber"`

	Raw RawRecord `json:"-"`
}

func (f *Factory) UnmarshalJSON(b []byte) error {
	type alias Factory
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := a.Raw.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = Factory(a)
	return nil
}

func (f Factory) MarshalJSON() ([]byte, error) {
	type alias Factory
	return f.Raw.Overlay(alias(f))
}
