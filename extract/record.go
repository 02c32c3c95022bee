package extract

import (
	"fmt"
	"time"

	"iproperty_extractor/models"
)

// Extractor runs every field resolver over a page and assembles the
// listing record. Now is injectable so date plausibility checks are
// reproducible in tests; the zero value uses the wall clock.
type Extractor struct {
	Now func() time.Time
}

func New() *Extractor {
	return &Extractor{Now: time.Now}
}

// Extract resolves every field of one listing page. file is the path or
// archive member name the HTML came from, carried through to the output.
func (e *Extractor) Extract(file, html string) *models.Listing {
	p := Load(html)
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}

	l := &models.Listing{File: file}
	l.URL = resolveURL(p)
	l.ListingID = resolveListingID(p)
	l.ReferenceCode = resolveReferenceCode(p)
	l.Title = resolveTitle(p)
	l.PropertyType = resolvePropertyType(p)
	l.Tenure = resolveTenure(p)
	l.IsRent = isRentPage(p)

	if price, cur, _, ok := resolvePrice(p, l.IsRent); ok {
		l.Price = price
		l.PriceCurrency = cur
	}

	bed, bath := resolveBedBath(p)
	l.Bedroom, l.BedroomRaw = bed.Count, bed.Raw
	l.Bathroom, l.BathroomRaw = bath.Count, bath.Raw

	cp := resolveCarPark(p)
	l.CarPark, l.CarParkRaw, l.CarParkRawList = cp.Count, cp.Raw, cp.All

	l.ListerPhoneRaw, l.ListerPhoneDigits = resolveListerPhone(p)
	l.AgentName, l.AgentNameSource = resolveAgentName(p)
	l.AgencyName = resolveAgencyName(p)
	l.AgencyID, l.AgencyIDSource = resolveAgencyID(p)
	l.ListerID, l.ListerIDSource = resolveListerID(p, l.ListingID, l.AgentName)
	l.License = resolveLicense(p)
	l.ListerURL = resolveListerURL(p)

	l.Furnishing, l.FurnishingRaw = resolveFurnishing(p)
	l.Address, l.AddressSource = resolveAddress(p)
	l.Amenities = resolveAmenities(p)
	l.BumiLot, l.BumiLotRaw = resolveBumiLot(p)

	var builtUpSqFt float64
	if val, unit, ok := resolveBuiltUp(p); ok {
		builtUpSqFt = areaToSqFt(val, unit)
		l.BuiltUp = formatNumber(val) + " " + unit
	}
	if psf, ok := resolveBuiltUpPSF(p); ok {
		l.BuiltUpPSF = fmt.Sprintf("%.2f", psf)
	} else if psf, ok := deriveBuiltUpPSF(l.Price, builtUpSqFt, UnitSqFt, l.IsRent); ok {
		l.BuiltUpPSF = fmt.Sprintf("%.2f", psf)
	}

	land := resolveLand(p, l.PropertyType, builtUpSqFt, l.Price, l.IsRent)
	l.LandSize = land.Display
	l.LandRaw = land.Raw
	l.LandSource = land.Source
	l.LandPSF = land.PSFDisplay
	l.LandPSFSource = land.PSFSource

	place := resolvePlace(p)
	l.State, l.District, l.Subarea = place.State, place.District, place.Subarea
	if lat, lng, ok := resolveGeo(p); ok {
		l.Latitude, l.Longitude = lat, lng
	}
	l.TitleType = resolveTitleType(p)
	l.LandTitleType = resolveLandTitleType(p)
	l.UnitType = resolveUnitType(p)

	if posted, ok := resolvePostedDate(p, now); ok {
		l.ListedDate = posted.Date
		l.ListedTime = posted.Clock
	}
	return l
}
