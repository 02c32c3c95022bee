package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTenure(t *testing.T) {
	p := metatablePage(`{"label":"Tenure","value":"Freehold tenure"}`)
	assert.Equal(t, "Freehold", resolveTenure(p))

	p = metatablePage(`{"label":"Tenure","value":"LEASEHOLD"}`)
	assert.Equal(t, "Leasehold", resolveTenure(p))
}

func TestResolveTenureIgnoresNoise(t *testing.T) {
	// "freehold" in a PSF row must not count.
	p := metatablePage(`{"label":"PSF","value":"freehold 520 psf"}`)
	assert.Empty(t, resolveTenure(p))
}

func TestResolveTenureNotFromFreeText(t *testing.T) {
	html := `<html><body><p>Enjoy freehold living at its finest</p></body></html>`
	assert.Empty(t, resolveTenure(Load(html)))
}

func TestResolveFurnishing(t *testing.T) {
	cases := map[string]string{
		"Fully furnished":     "Fully Furnished",
		"PARTLY FURNISHED":    "Partially Furnished",
		"Partially furnished": "Partially Furnished",
		"Bare unit":           "Bare unit",
		"Unfurnished":         "Unfurnished",
	}
	for raw, want := range cases {
		p := metatablePage(`{"label":"Furnishing","value":"` + raw + `"}`)
		got, gotRaw := resolveFurnishing(p)
		assert.Equal(t, want, got, raw)
		assert.NotEmpty(t, gotRaw, raw)
	}
}

func TestResolvePropertyTypeFromState(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"listingData":{"propertyType":"Condominium"}}</script>
</body></html>`
	assert.Equal(t, "Condominium", resolvePropertyType(Load(html)))
}

func TestResolveTitleType(t *testing.T) {
	p := metatablePage(`{"label":"Title type","value":"Strata title"}`)
	assert.Equal(t, "Strata", resolveTitleType(p))

	p = metatablePage(`{"label":"Title","value":"Individual"}`)
	assert.Equal(t, "Individual", resolveTitleType(p))
}

func TestResolveLandTitleType(t *testing.T) {
	p := metatablePage(`{"label":"Land title","value":"Land title: Residential"}`)
	assert.Equal(t, "Residential", resolveLandTitleType(p))

	p = metatablePage(`{"label":"Land title","value":"Land title: Agricultural"}`)
	assert.Equal(t, "Agriculture", resolveLandTitleType(p))
}

func TestResolveUnitType(t *testing.T) {
	p := metatablePage(`{"label":"Unit type","value":"Corner lot"}`)
	assert.Equal(t, "Corner Lot", resolveUnitType(p))
}

func TestResolveTitleFallsBackToOGTitle(t *testing.T) {
	html := `<html><head>
<meta property="og:title" content="Seri Maya Condo, Jalan Jelatek">
</head><body></body></html>`
	assert.Equal(t, "Seri Maya Condo, Jalan Jelatek", resolveTitle(Load(html)))
}
