package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `<html>
<head>
<title>Seri Maya Condo for sale by Tan Wei Ming</title>
<meta property="og:title" content="Seri Maya, Jalan Jelatek for sale">
<link rel="canonical" href="https://www.iproperty.com.my/property/seri-maya/sale-104233975/">
<script type="application/ld+json">{"@type":"RealEstateListing","offers":{"priceCurrency":"MYR","price":650000},"datePosted":"2024-05-20"}</script>
<script type="application/ld+json">{"@type":"BreadcrumbList","itemListElement":[
{"position":1,"item":{"name":"Home"}},
{"position":2,"item":{"name":"Kuala Lumpur"}},
{"position":3,"item":{"name":"Setiawangsa"}},
{"position":4,"item":{"name":"Seri Maya"}}]}</script>
</head>
<body>
<script type="application/json">{
	"listingData":{
		"listingId":"104233975",
		"propertyType":"Condominium",
		"languagePlace":{"level1":{"name":"Kuala Lumpur"},"level2":{"name":"Setiawangsa"},"level3":{"name":"Seri Maya"}},
		"location":{"lat":3.1619,"lng":101.7201}
	},
	"propertyOverviewData":{"propertyInfo":{"fullAddress":"Seri Maya, Jalan Jelatek, 54200, Kuala Lumpur"}},
	"contactAgentData":{"contactAgentCard":{"agentInfoProps":{"agent":{"name":"Tan Wei Ming","mobile":"+6012-345 6789","id":"7654321"}},"agency":{"name":"Maya Realty Sdn Bhd","id":"4455"}}},
	"facilitiesData":{"facilities":["Swimming pool","Gymnasium"]}
}</script>
<script>
var flight = {"attributes":{"builtUp":"1,250","sizeUnit":"sq. ft.","bedroom":"3+1","bathroom":"2","furnishing":"Partly furnished"},"metatable":{"items":[{"label":"Tenure","value":"Freehold tenure"},{"label":"Details","value":"Listed on 20 May 2024"},{"label":"Details","value":"2 car parks"}]}};
</script>
</body>
</html>`

func fixedExtractor() *Extractor {
	return &Extractor{Now: func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, kualaLumpur)
	}}
}

func TestExtractFullListing(t *testing.T) {
	l := fixedExtractor().Extract("pages/104233975.html", listingFixture)
	require.NotNil(t, l)

	assert.Equal(t, "pages/104233975.html", l.File)
	assert.Equal(t, "https://www.iproperty.com.my/property/seri-maya/sale-104233975/", l.URL)
	assert.Equal(t, "104233975", l.ListingID)
	assert.Equal(t, "Condominium", l.PropertyType)
	assert.Equal(t, "Freehold", l.Tenure)
	assert.False(t, l.IsRent)
	assert.Equal(t, 650000.0, l.Price)
	assert.Equal(t, "MYR", l.PriceCurrency)

	assert.Equal(t, 4, l.Bedroom)
	assert.Equal(t, "3+1", l.BedroomRaw)
	assert.Equal(t, 2, l.Bathroom)
	assert.Equal(t, 2, l.CarPark)

	assert.Equal(t, "Tan Wei Ming", l.AgentName)
	assert.Equal(t, "+6012-345 6789", l.ListerPhoneRaw)
	assert.Equal(t, "60123456789", l.ListerPhoneDigits)
	assert.Equal(t, "Maya Realty Sdn Bhd", l.AgencyName)
	assert.Equal(t, "7654321", l.ListerID)

	assert.Equal(t, "Partially Furnished", l.Furnishing)
	assert.Equal(t, "Seri Maya, Jalan Jelatek, 54200, Kuala Lumpur", l.Address)
	assert.Equal(t, []string{"Swimming pool", "Gymnasium"}, l.Amenities)

	assert.Equal(t, "1,250 sq. ft.", l.BuiltUp)
	// 650000 / 1250
	assert.Equal(t, "520.00", l.BuiltUpPSF)
	// Strata type with no explicit land source stays landless.
	assert.Empty(t, l.LandSize)

	assert.Equal(t, "Kuala Lumpur", l.State)
	assert.Equal(t, "Setiawangsa", l.District)
	assert.Equal(t, "Seri Maya", l.Subarea)
	assert.Equal(t, 3.1619, l.Latitude)

	assert.Equal(t, "2024-05-20", l.ListedDate)
}

func TestExtractDeterministic(t *testing.T) {
	e := fixedExtractor()
	a := e.Extract("f.html", listingFixture)
	b := e.Extract("f.html", listingFixture)
	assert.Equal(t, a, b)
}

func TestExtractEmptyPage(t *testing.T) {
	l := fixedExtractor().Extract("empty.html", "")
	require.NotNil(t, l)
	assert.Equal(t, "empty.html", l.File)
	assert.Empty(t, l.URL)
	assert.Empty(t, l.ListingID)
	assert.Zero(t, l.Bedroom)
}

func TestLoadToleratesMalformedJSON(t *testing.T) {
	html := `<html><body>
<script type="application/json">{not json at all</script>
<script type="application/json">{"listingData":{"listingId":"42424242"}}</script>
</body></html>`
	assert.Equal(t, "42424242", resolveListingID(Load(html)))
}
