package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoomToken(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"3+1", 4, true},
		{"2 + 2", 4, true},
		{"Studio", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseRoomToken(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestResolveBedBathFromAttributes(t *testing.T) {
	html := `<html><body><script>
{"attributes":{"bedroom":"3+1","bathroom":"2"}}
</script></body></html>`
	bed, bath := resolveBedBath(Load(html))
	assert.Equal(t, 4, bed.Count)
	assert.Equal(t, "3+1", bed.Raw)
	assert.Equal(t, 2, bath.Count)
}

func TestResolveBedBathFromMetaDescription(t *testing.T) {
	html := `<html><head>
<meta name="description" content="Nice condo with 3 bedrooms and 2 bathrooms in KL">
</head><body></body></html>`
	bed, bath := resolveBedBath(Load(html))
	assert.Equal(t, 3, bed.Count)
	assert.Equal(t, 2, bath.Count)
}

func TestResolveBedBathShortForm(t *testing.T) {
	html := `<html><head>
<meta name="description" content="Corner unit 4R 3B near LRT">
</head><body></body></html>`
	bed, bath := resolveBedBath(Load(html))
	assert.Equal(t, 4, bed.Count)
	assert.Equal(t, 3, bath.Count)
}

func TestResolveCarParkKeepsMaxCount(t *testing.T) {
	p := metatablePage(`{"label":"Details","value":"1 carpark"},{"label":"Details","value":"2 car parks"}`)
	res := resolveCarPark(p)
	assert.Equal(t, 2, res.Count)
	assert.Len(t, res.All, 2)
}

func TestResolveCarParkIgnoresNoiseRows(t *testing.T) {
	p := metatablePage(`{"label":"PSF","value":"3 psf 2 carpark"}`)
	res := resolveCarPark(p)
	assert.Zero(t, res.Count)
}

func TestResolveCarParkBayPhrasing(t *testing.T) {
	p := metatablePage(`{"label":"Details","value":"2 parking bays"}`)
	res := resolveCarPark(p)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "2 parking bays", res.Raw)
}
