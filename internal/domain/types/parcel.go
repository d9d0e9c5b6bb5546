package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParcelID identifies a parcel in the registry table.
type ParcelID uint64

// String returns the decimal form the chain ABI expects.
func (id ParcelID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseParcelID parses a decimal parcel identifier.
func ParseParcelID(s string) (ParcelID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid parcel id %q: %w", s, err)
	}
	return ParcelID(v), nil
}

// ParcelStatus is the lifecycle state the module keeps for a parcel.
type ParcelStatus uint8

const (
	StatusPending ParcelStatus = iota
	StatusApproved
	StatusRejected
	StatusDisputed
)

var statusNames = [...]string{
	StatusPending:  "pending",
	StatusApproved: "approved",
	StatusRejected: "rejected",
	StatusDisputed: "disputed",
}

func (s ParcelStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// MarshalText encodes the status by name.
func (s ParcelStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseParcelStatus accepts a numeric code, a decimal string, a status name,
// or a Move enum object of the form {"__variant__": "Approved"}.
func ParseParcelStatus(v any) (ParcelStatus, error) {
	if m, ok := v.(map[string]any); ok {
		v = m["__variant__"]
	}
	if s, ok := v.(string); ok {
		name := strings.ToLower(strings.TrimSpace(s))
		for i, n := range statusNames {
			if n == name {
				return ParcelStatus(i), nil
			}
		}
	}
	n, err := cast.ToUint8E(v)
	if err != nil {
		return 0, fmt.Errorf("invalid parcel status %v: %w", v, err)
	}
	return ParcelStatus(n), nil
}

// SubmitLandParams are the fields of a new land claim, in the order the
// submit_land entry point takes them.
type SubmitLandParams struct {
	KhasraNumber string `json:"khasra_number"`
	DocumentCID  string `json:"document_cid"`
	AreaSqm      uint64 `json:"area_sqm"`
	Notes        string `json:"notes"`
	Village      string `json:"village"`
	Tehsil       string `json:"tehsil"`
	District     string `json:"district"`
}

// LandParcel is the decoded on-chain parcel record.
type LandParcel struct {
	ID           ParcelID     `json:"id" yaml:"id"`
	KhasraNumber string       `json:"khasra_number" yaml:"khasra_number"`
	DocumentCID  string       `json:"document_cid" yaml:"document_cid"`
	AreaSqm      uint64       `json:"area_sqm" yaml:"area_sqm"`
	Notes        string       `json:"notes" yaml:"notes"`
	Village      string       `json:"village" yaml:"village"`
	Tehsil       string       `json:"tehsil" yaml:"tehsil"`
	District     string       `json:"district" yaml:"district"`
	Owner        Address      `json:"owner" yaml:"owner"`
	Status       ParcelStatus `json:"status" yaml:"status"`
}

// UnmarshalJSON decodes a parcel whose u64 fields may be JSON numbers or
// decimal strings, as node REST APIs render them.
func (p *LandParcel) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("parcel record is null")
	}

	var out LandParcel
	for _, key := range []string{"id", "parcel_id"} {
		if v, ok := m[key]; ok && v != nil {
			id, err := cast.ToUint64E(v)
			if err != nil {
				return fmt.Errorf("parcel %s: %w", key, err)
			}
			out.ID = ParcelID(id)
			break
		}
	}
	if v, ok := m["area_sqm"]; ok && v != nil {
		area, err := cast.ToUint64E(v)
		if err != nil {
			return fmt.Errorf("parcel area_sqm: %w", err)
		}
		out.AreaSqm = area
	}
	if v, ok := m["status"]; ok && v != nil {
		st, err := ParseParcelStatus(v)
		if err != nil {
			return err
		}
		out.Status = st
	}
	out.KhasraNumber = cast.ToString(m["khasra_number"])
	out.DocumentCID = cast.ToString(m["document_cid"])
	out.Notes = cast.ToString(m["notes"])
	out.Village = cast.ToString(m["village"])
	out.Tehsil = cast.ToString(m["tehsil"])
	out.District = cast.ToString(m["district"])
	out.Owner = Address(cast.ToString(m["owner"]))

	*p = out
	return nil
}

// ResolutionSource records which read strategy produced a parcel record.
type ResolutionSource string

const (
	SourceView  ResolutionSource = "view"
	SourceTable ResolutionSource = "table"
)

// ParcelRecord is a parcel as returned by the chain, kept raw so callers see
// exactly what the node sent.
type ParcelRecord struct {
	ID     ParcelID         `json:"id"`
	Source ResolutionSource `json:"source"`
	Raw    json.RawMessage  `json:"record"`
}

// Parcel decodes the raw record. View functions return their results as a
// JSON array; a single-element array is unwrapped.
func (r ParcelRecord) Parcel() (LandParcel, error) {
	raw := bytes.TrimSpace(r.Raw)
	if len(raw) > 0 && raw[0] == '[' {
		var values []json.RawMessage
		if err := json.Unmarshal(raw, &values); err != nil {
			return LandParcel{}, err
		}
		if len(values) != 1 {
			return LandParcel{}, fmt.Errorf("view returned %d values, want 1", len(values))
		}
		raw = values[0]
	}
	var p LandParcel
	if err := json.Unmarshal(raw, &p); err != nil {
		return LandParcel{}, fmt.Errorf("decode parcel %s: %w", r.ID, err)
	}
	p.ID = r.ID
	return p, nil
}
