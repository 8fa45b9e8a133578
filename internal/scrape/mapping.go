package scrape

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"countyscan/internal/dates"
	"countyscan/internal/domain"
)

// vendorRecord is one row of the CriteriaSearch response. Alternate field
// names come from older deployments of the same vendor product.
type vendorRecord struct {
	InstNum               *domain.FlexString `json:"inst_num"`
	InstrumentNumber      *domain.FlexString `json:"instrument_number"`
	ParcelID              *domain.FlexString `json:"parcel_id"`
	RealEstateID          *domain.FlexString `json:"real_estate_id"`
	BookReel              *domain.FlexString `json:"book_reel"`
	Book                  *domain.FlexString `json:"book"`
	Page                  *domain.FlexString `json:"page"`
	InstrumentType        string             `json:"instrument_type"`
	InstrumentDescription string             `json:"instrument_description"`
	BookName              string             `json:"book_name"`
	BookDescription       string             `json:"book_description"`
	FileDate              string             `json:"file_date"`
	Direction             string             `json:"direction"`
	PartyName             string             `json:"party_name"`
	CrossPartyName        string             `json:"cross_party_name"`
}

type vendorEnvelope struct {
	Data    []vendorRecord `json:"data"`
	Results []vendorRecord `json:"results"`
	Records []vendorRecord `json:"records"`
}

// decodeVendorItems accepts either a bare JSON array or an envelope keyed
// by data/results/records.
func decodeVendorItems(body []byte) ([]vendorRecord, error) {
	var items []vendorRecord
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var env vendorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing records API response: %w", err)
	}
	switch {
	case env.Data != nil:
		return env.Data, nil
	case env.Results != nil:
		return env.Results, nil
	case env.Records != nil:
		return env.Records, nil
	}
	return nil, fmt.Errorf("records API response has no recognizable record list")
}

// convertVendorRecord maps a vendor row into the canonical schema. Rows
// lacking both an instrument number and a doc-type/date pair are noise and
// are reported as not-ok.
func convertVendorRecord(item vendorRecord) (domain.Record, bool) {
	rec := domain.Record{
		InstrumentNumber: firstFlex(item.InstNum, item.InstrumentNumber),
		ParcelNumber:     firstFlex(item.ParcelID, item.RealEstateID),
		County:           "seminole",
		State:            "FL",
		Book:             firstFlex(item.BookReel, item.Book),
		Page:             item.Page,
		OriginalDocType:  domain.Ptr(first(item.InstrumentType, item.InstrumentDescription)),
		BookType:         domain.Ptr(first(item.BookName, item.BookDescription)),
		Grantors:         []string{},
		Grantees:         []string{},
	}

	if original := domain.StringValue(rec.OriginalDocType); original != "" {
		rec.DocType = domain.Ptr(strings.ToUpper(original))
		rec.DocCategory = domain.Ptr(docCategory(original))
	}

	if item.FileDate != "" {
		if iso, err := dates.Parse(item.FileDate); err == nil {
			rec.Date = &iso
		} else {
			// Unparsable dates stay null; the record is still usable.
			log.Printf("scrape unparsable file_date=%q", item.FileDate)
		}
	}

	assignParties(&rec, item.Direction, item.PartyName, item.CrossPartyName)

	if rec.InstrumentNumber != nil || (rec.DocType != nil && rec.Date != nil) {
		return rec, true
	}
	return domain.Record{}, false
}

// assignParties applies the vendor's direction flag: the searched party on
// a "From" row is the grantor and the cross party the grantee; any other
// direction reverses the roles.
func assignParties(rec *domain.Record, direction, party, crossParty string) {
	from := strings.EqualFold(strings.TrimSpace(direction), "from")

	if name := normalizeName(party); name != "" {
		if from {
			rec.Grantors = append(rec.Grantors, name)
		} else {
			rec.Grantees = append(rec.Grantees, name)
		}
	}
	if name := normalizeName(crossParty); name != "" {
		if from {
			rec.Grantees = append(rec.Grantees, name)
		} else {
			rec.Grantors = append(rec.Grantors, name)
		}
	}
}

// docCategory buckets a vendor doc type by keyword, first match wins.
func docCategory(docType string) string {
	lower := strings.ToLower(docType)
	switch {
	case strings.Contains(lower, "deed"):
		return "deed"
	case strings.Contains(lower, "mortgage"):
		return "mortgage"
	case strings.Contains(lower, "trust"):
		return "trust"
	case strings.Contains(lower, "judgment"):
		return "judgment"
	case strings.Contains(lower, "order"):
		return "order"
	case strings.Contains(lower, "notice"):
		return "notice"
	default:
		return "misc"
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFlex(values ...*domain.FlexString) *domain.FlexString {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
