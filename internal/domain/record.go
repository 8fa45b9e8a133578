package domain

import (
	"bytes"
	"encoding/json"
)

// FlexString decodes a JSON string or number into a string. County record
// feeds are inconsistent about quoting book and page values.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// Record is the canonical property record schema. It is both the shape of
// the JSONL assessment files and the scraper's output format. Nullable
// fields are pointers so absent values round-trip as JSON null.
type Record struct {
	InstrumentNumber *FlexString `json:"instrument_number"`
	ParcelNumber     *FlexString `json:"parcel_number"`
	County           string      `json:"county"`
	State            string      `json:"state"`
	Book             *FlexString `json:"book"`
	Page             *FlexString `json:"page"`
	DocType          *string     `json:"doc_type"`
	DocCategory      *string     `json:"doc_category"`
	OriginalDocType  *string     `json:"original_doc_type"`
	BookType         *string     `json:"book_type"`
	Grantors         []string    `json:"grantors"`
	Grantees         []string    `json:"grantees"`
	Date             *string     `json:"date"`
	Consideration    *float64    `json:"consideration"`
}

// StringValue dereferences an optional field, returning "" for null.
func StringValue[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

// Ptr returns a pointer to v, or nil when v is the zero string. Used when
// building records whose optional fields should serialize as null.
func Ptr[T ~string](v T) *T {
	if v == "" {
		return nil
	}
	return &v
}
