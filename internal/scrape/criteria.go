package scrape

import (
	"strings"
	"time"
)

// searchCriteria is the vendor's full criteria object. The endpoint
// requires every field to be present even when empty; only the name and the
// file-date window are populated for a name search.
type searchCriteria struct {
	Direction             string `json:"direction"`
	NameDirection         bool   `json:"name_direction"`
	FullName              string `json:"full_name"`
	FileDateStart         string `json:"file_date_start"`
	FileDateEnd           string `json:"file_date_end"`
	InstType              string `json:"inst_type"`
	InstBookTypeID        string `json:"inst_book_type_id"`
	LocationID            string `json:"location_id"`
	BookReel              string `json:"book_reel"`
	PageImage             string `json:"page_image"`
	GreaterThanPage       bool   `json:"greater_than_page"`
	InstNum               string `json:"inst_num"`
	Description           string `json:"description"`
	ConsiderationValueMin string `json:"consideration_value_min"`
	ConsiderationValueMax string `json:"consideration_value_max"`
	ParcelID              string `json:"parcel_id"`
	LegalSection          string `json:"legal_section"`
	LegalTownship         string `json:"legal_township"`
	LegalRange            string `json:"legal_range"`
	LegalSquare           string `json:"legal_square"`
	SubdivisionCode       string `json:"subdivision_code"`
	Block                 string `json:"block"`
	LotFrom               string `json:"lot_from"`
	QNWNW                 bool   `json:"q_NWNW"`
	QNWNE                 bool   `json:"q_NWNE"`
	QNWSE                 bool   `json:"q_NWSE"`
	QNWSW                 bool   `json:"q_NWSW"`
	QNENW                 bool   `json:"q_NENW"`
	QNENE                 bool   `json:"q_NENE"`
	QNESW                 bool   `json:"q_NESW"`
	QNESE                 bool   `json:"q_NESE"`
	QSWNW                 bool   `json:"q_SWNW"`
	QSWNE                 bool   `json:"q_SWNE"`
	QSWSW                 bool   `json:"q_SWSW"`
	QSWSE                 bool   `json:"q_SWSE"`
	QSENW                 bool   `json:"q_SENW"`
	QSENE                 bool   `json:"q_SENE"`
	QSESW                 bool   `json:"q_SESW"`
	QSESE                 bool   `json:"q_SESE"`
	QQSearchType          bool   `json:"q_q_search_type"`
	AddressStreet         string `json:"address_street"`
	AddressNumber         string `json:"address_number"`
	AddressParcel         string `json:"address_parcel"`
	AddressPPIN           string `json:"address_ppin"`
	PatentNumber          string `json:"patent_number"`
}

func newSearchCriteria(fullName string, now time.Time) searchCriteria {
	return searchCriteria{
		NameDirection: true,
		FullName:      fullName,
		FileDateStart: searchWindowStart,
		FileDateEnd:   now.Format("1/2/2006"),
	}
}

// normalizeName uppercases and trims a party name, matching the vendor's
// stored format.
func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
