package models

import (
	"encoding/json"
	"strings"
)

// GreenLeafFields lists the green-leaf transaction fields in display order.
var GreenLeafFields = []string{
	"trNo", "date", "supplier", "noofSacks", "totalKg", "sacksWeight",
	"sw", "swds", "bw", "bwds", "swent", "water", "coastLeaf", "other",
	"return", "netQty", "gltodate", "leafCat", "dwsgltrNo", "complete",
	"entTime", "entDate",
}

// GreenLeaf is a read-only green-leaf intake transaction.
//
// Only the fields the dashboard computes with are typed; the rest are read
// through Raw.
type GreenLeaf struct {
	TrNo        ID         `json:"trNo"`
	Date        string     `json:"date"`
	Supplier    FlexString `json:"supplier"`
	NoofSacks   FlexString `json:"noofSacks"`
	TotalKg     FlexString `json:"totalKg"`
	SacksWeight FlexString `json:"sacksWeight"`
	Water       FlexString `json:"water"`
	NetQty      FlexString `json:"netQty"`
	Complete    FlexString `json:"complete"`
	EntTime     string     `json:"entTime"`
	EntDate     string     `json:"entDate"`

	Raw RawRecord `json:"-"`
}

// Completed reports whether the transaction is marked complete.
func (g GreenLeaf) Completed() bool {
	switch strings.ToLower(strings.TrimSpace(string(g.Complete))) {
	case "true", "1", "y", "yes":
		return true
	}
	return false
}

func (g *GreenLeaf) UnmarshalJSON(b []byte) error {
	type alias GreenLeaf
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if err := a.Raw.UnmarshalJSON(b); err != nil {
		return err
	}
	*g = GreenLeaf(a)
	return nil
}
