package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metatablePage(rows string) *Payload {
	html := fmt.Sprintf(`<html><head></head><body>
<script>window.__DATA__ = {"metatable":{"items":[%s]}};</script>
</body></html>`, rows)
	return Load(html)
}

func TestLandSqFtFromText(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,400 sq. ft.", 1400},
		{"130 sqm", 1399.307},
		{"2 acres", 87120},
		{"40 x 80", 3200},
		{"22' x 75'", 1650},
		{"5000", 5000},
	}
	for _, c := range cases {
		got, ok := landSqFtFromText(c.in)
		require.True(t, ok, c.in)
		assert.InDelta(t, c.want, got, 0.01, c.in)
	}
}

func TestLandPlausibilityBand(t *testing.T) {
	assert.False(t, landPlausible(199))
	assert.True(t, landPlausible(200))
	assert.True(t, landPlausible(10000000))
	assert.False(t, landPlausible(10000001))
}

func TestResolveLandFromMetatable(t *testing.T) {
	p := metatablePage(`{"label":"Land Size","value":"3,200 sq. ft."}`)
	res := resolveLand(p, "Bungalow", 0, 0, false)
	assert.Equal(t, 3200.0, res.SizeSqFt)
	assert.Equal(t, "3,200 sq. ft.", res.Display)
	assert.Equal(t, "state.metatable", res.Source)
}

func TestResolveLandIgnoresBuiltUpRows(t *testing.T) {
	p := metatablePage(`{"label":"Built-up Size","value":"1,200 sq. ft."}`)
	res := resolveLand(p, "Bungalow", 0, 0, false)
	assert.Zero(t, res.SizeSqFt)
}

func TestResolveLandStrataGuard(t *testing.T) {
	p := metatablePage(`{"label":"Land Size","value":"3,200 sq. ft."}`)

	// A condo with only implicit land evidence reports no land at all.
	res := resolveLand(p, "Condominium", 0, 0, false)
	assert.Zero(t, res.SizeSqFt)

	// The same evidence stands for a landed type.
	res = resolveLand(p, "Terrace House", 0, 0, false)
	assert.Equal(t, 3200.0, res.SizeSqFt)
}

func TestResolveLandStrataGuardExplicitWins(t *testing.T) {
	html := `<html><body><script>
{"attributes":{"landArea":"3200","sizeUnitLandArea":"sq. ft."}}
</script></body></html>`
	res := resolveLand(Load(html), "Condominium", 0, 0, false)
	assert.Equal(t, 3200.0, res.SizeSqFt)
	assert.Equal(t, "attr.landArea", res.Source)
}

func TestResolveLandBuiltUpEchoDroppedForStrata(t *testing.T) {
	html := `<html><body><script>
{"attributes":{"landArea":"1200","sizeUnitLandArea":"sq. ft."}}
</script></body></html>`
	res := resolveLand(Load(html), "Condominium", 1200, 0, false)
	assert.Zero(t, res.SizeSqFt)
}

func TestResolveLandEqualBuiltUpKeptForLanded(t *testing.T) {
	// A terrace whose land legitimately equals its built-up keeps it.
	p := metatablePage(`{"label":"Land Size","value":"1,200 sq. ft."}`)
	res := resolveLand(p, "Terrace House", 1200, 0, false)
	assert.Equal(t, 1200.0, res.SizeSqFt)
	assert.Equal(t, "1,200 sq. ft.", res.Display)
}

func TestResolveLandStrataGuardSuppressesPSF(t *testing.T) {
	p := metatablePage(`{"label":"Land Size PSF","value":"Land RM 450 psf"}`)

	// When the strata guard empties the size candidates, the stated
	// land PSF goes with them.
	res := resolveLand(p, "Condominium", 0, 0, false)
	assert.Zero(t, res.SizeSqFt)
	assert.Empty(t, res.PSFDisplay)
	assert.Empty(t, res.PSFSource)

	// The same stated PSF stands for a landed type.
	res = resolveLand(p, "Bungalow", 0, 0, false)
	assert.Equal(t, "450.00", res.PSFDisplay)
	assert.Equal(t, "state.metatable.psf", res.PSFSource)
}

func TestResolveLandEchoSuppressesPSF(t *testing.T) {
	html := `<html><body><script>
{"attributes":{"landArea":"1200","sizeUnitLandArea":"sq. ft.","pricePerSizeUnitLandArea":"45.50"}}
</script></body></html>`
	res := resolveLand(Load(html), "Condominium", 1200, 0, false)
	assert.Zero(t, res.SizeSqFt)
	assert.Empty(t, res.PSFDisplay)
}

func TestResolveLandComputedPSF(t *testing.T) {
	p := metatablePage(`{"label":"Land Size","value":"10,000 sq. ft."}`)
	res := resolveLand(p, "Bungalow", 0, 500000, false)
	assert.Equal(t, "50.00", res.PSFDisplay)
	assert.Equal(t, "computed", res.PSFSource)
}

func TestResolveLandNoComputedPSFForRent(t *testing.T) {
	p := metatablePage(`{"label":"Land Size","value":"10,000 sq. ft."}`)
	res := resolveLand(p, "Bungalow", 0, 5000, true)
	assert.Empty(t, res.PSFDisplay)
}

func TestResolveLandStatedPSFOutranksComputed(t *testing.T) {
	html := `<html><body><script>
{"attributes":{"pricePerSizeUnitLandArea":"45.50"},"metatable":{"items":[{"label":"Land Size","value":"10,000 sq. ft."}]}}
</script></body></html>`
	res := resolveLand(Load(html), "Bungalow", 0, 500000, false)
	assert.Equal(t, "45.50", res.PSFDisplay)
	assert.Equal(t, "attr.pricePerSizeUnitLandArea", res.PSFSource)
}
