package models

import (
	"strconv"
	"strings"
)

type Listing struct {
	File              string   `json:"file" db:"file"`
	URL               string   `json:"url" db:"url"`
	ListingID         string   `json:"listing_id" db:"listing_id"`
	ReferenceCode     string   `json:"reference_code" db:"reference_code"`
	Title             string   `json:"title" db:"title"`
	PropertyType      string   `json:"property_type" db:"property_type"`
	Tenure            string   `json:"tenure" db:"tenure"`
	Bedroom           int      `json:"bedroom" db:"bedroom"`
	Bathroom          int      `json:"bathroom" db:"bathroom"`
	BedroomRaw        string   `json:"bedroom_raw" db:"bedroom_raw"`
	BathroomRaw       string   `json:"bathroom_raw" db:"bathroom_raw"`
	CarPark           int      `json:"car_park" db:"car_park"`
	CarParkRaw        string   `json:"car_park_raw" db:"car_park_raw"`
	CarParkRawList    []string `json:"car_park_raw_list" db:"-"`
	ListerPhoneRaw    string   `json:"lister_phone_raw" db:"lister_phone_raw"`
	ListerPhoneDigits string   `json:"lister_phone_digits" db:"lister_phone_digits"`
	AgentName         string   `json:"agent_name" db:"agent_name"`
	AgentNameSource   string   `json:"agent_name_source" db:"agent_name_source"`
	AgencyName        string   `json:"agency_name" db:"agency_name"`
	AgencyID          string   `json:"agency_id" db:"agency_id"`
	AgencyIDSource    string   `json:"agency_id_source" db:"agency_id_source"`
	ListerID          string   `json:"lister_id" db:"lister_id"`
	ListerIDSource    string   `json:"lister_id_source" db:"lister_id_source"`
	Furnishing        string   `json:"furnishing" db:"furnishing"`
	FurnishingRaw     string   `json:"furnishing_raw" db:"furnishing_raw"`
	Address           string   `json:"address" db:"address"`
	AddressSource     string   `json:"address_source" db:"address_source"`
	ListerURL         string   `json:"lister_url" db:"lister_url"`
	License           string   `json:"license" db:"license"`
	Amenities         []string `json:"amenities" db:"-"`
	BumiLot           string   `json:"bumi_lot" db:"bumi_lot"`
	BumiLotRaw        string   `json:"bumi_lot_raw" db:"bumi_lot_raw"`
	LandSize          string   `json:"land_size" db:"land_size"`
	LandPSF           string   `json:"land_psf" db:"land_psf"`
	LandRaw           string   `json:"land_raw" db:"land_raw"`
	LandSource        string   `json:"land_source" db:"land_source"`
	LandPSFSource     string   `json:"land_psf_source" db:"land_psf_source"`
	BuiltUp           string   `json:"built_up" db:"built_up"`
	BuiltUpPSF        string   `json:"built_up_psf" db:"built_up_psf"`
	Price             float64  `json:"price" db:"price"`
	PriceCurrency     string   `json:"price_currency" db:"price_currency"`
	IsRent            bool     `json:"is_rent" db:"is_rent"`
	State             string   `json:"state" db:"state"`
	District          string   `json:"district" db:"district"`
	Subarea           string   `json:"subarea" db:"subarea"`
	Latitude          float64  `json:"latitude" db:"latitude"`
	Longitude         float64  `json:"longitude" db:"longitude"`
	TitleType         string   `json:"title_type" db:"title_type"`
	LandTitleType     string   `json:"land_title_type" db:"land_title_type"`
	UnitType          string   `json:"unit_type" db:"unit_type"`
	ListedDate        string   `json:"listed_date" db:"listed_date"`
	ListedTime        string   `json:"listed_time" db:"listed_time"`
}

// ListingColumns is the fixed CSV header. Order never changes between
// runs; downstream joins depend on it.
var ListingColumns = []string{
	"file", "url", "tenure",
	"bedroom", "bathroom", "bedroom_raw", "bathroom_raw",
	"car_park", "car_park_raw", "car_park_raw_list",
	"lister_phone_raw", "lister_phone_digits",
	"agent_name", "agent_name_source",
	"agency_name", "agency_id", "agency_id_source",
	"lister_id", "lister_id_source",
	"furnishing", "furnishing_raw",
	"address", "address_source",
	"lister_url", "license", "amenities",
	"bumi_lot", "bumi_lot_raw",
	"land_size", "land_psf", "land_raw", "land_source", "land_psf_source",
	"built_up", "built_up_psf",
	"listing_id", "reference_code", "title", "property_type",
	"price", "price_currency", "is_rent",
	"state", "district", "subarea",
	"latitude", "longitude",
	"title_type", "land_title_type", "unit_type",
	"listed_date", "listed_time",
}

func intCell(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func floatCell(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CSVRow renders the listing in ListingColumns order. Absent values are
// empty cells, list fields join on "; ".
func (l *Listing) CSVRow() []string {
	isRent := ""
	if l.IsRent {
		isRent = "true"
	}
	return []string{
		l.File, l.URL, l.Tenure,
		intCell(l.Bedroom), intCell(l.Bathroom), l.BedroomRaw, l.BathroomRaw,
		intCell(l.CarPark), l.CarParkRaw, strings.Join(l.CarParkRawList, "; "),
		l.ListerPhoneRaw, l.ListerPhoneDigits,
		l.AgentName, l.AgentNameSource,
		l.AgencyName, l.AgencyID, l.AgencyIDSource,
		l.ListerID, l.ListerIDSource,
		l.Furnishing, l.FurnishingRaw,
		l.Address, l.AddressSource,
		l.ListerURL, l.License, strings.Join(l.Amenities, "; "),
		l.BumiLot, l.BumiLotRaw,
		l.LandSize, l.LandPSF, l.LandRaw, l.LandSource, l.LandPSFSource,
		l.BuiltUp, l.BuiltUpPSF,
		l.ListingID, l.ReferenceCode, l.Title, l.PropertyType,
		floatCell(l.Price), l.PriceCurrency, isRent,
		l.State, l.District, l.Subarea,
		floatCell(l.Latitude), floatCell(l.Longitude),
		l.TitleType, l.LandTitleType, l.UnitType,
		l.ListedDate, l.ListedTime,
	}
}
