package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAmenitiesFromState(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"facilitiesData":{"facilities":["Swimming pool","Gymnasium","24-hour security"]}}</script>
</body></html>`
	got := resolveAmenities(Load(html))
	assert.Equal(t, []string{"Swimming pool", "Gymnasium", "24-hour security"}, got)
}

func TestResolveAmenitiesLabelledSection(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"sections":[{"label":"Facilities","items":[{"name":"Playground"},{"name":"Sauna"}]}]}</script>
</body></html>`
	got := resolveAmenities(Load(html))
	assert.Equal(t, []string{"Playground", "Sauna"}, got)
}

func TestResolveAmenitiesDedupeAndDrop(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"facilitiesData":{"facilities":["Swimming pool","SWIMMING POOL","See all","Freehold tenure"]}}</script>
</body></html>`
	got := resolveAmenities(Load(html))
	assert.Equal(t, []string{"Swimming pool"}, got)
}

func TestResolveAmenitiesDOMFallback(t *testing.T) {
	html := `<html><body>
<div data-automation-id="property-facilities-section">
<ul><li>Swimming pool</li><li>Squash court</li></ul>
</div></body></html>`
	got := resolveAmenities(Load(html))
	assert.Equal(t, []string{"Swimming pool", "Squash court"}, got)
}
