package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBumiLotPositiveFlag(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"listingData":{"isBumiLot":true}}</script>
</body></html>`
	result, raw := resolveBumiLot(Load(html))
	assert.Equal(t, "Yes", result)
	assert.Equal(t, "true", raw)
}

func TestResolveBumiLotNegativeFlag(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"listingData":{"bumiLot":false}}</script>
</body></html>`
	result, _ := resolveBumiLot(Load(html))
	assert.Equal(t, "No", result)
}

func TestResolveBumiLotNegatedText(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"listingData":{"bumiLot":"Non-bumi lot"}}</script>
</body></html>`
	result, _ := resolveBumiLot(Load(html))
	assert.Equal(t, "No", result)
}

func TestResolveBumiLotFromChipText(t *testing.T) {
	yes := `<html><body><div da-id="listing-chip">Bumi Lot</div></body></html>`
	result, raw := resolveBumiLot(Load(yes))
	assert.Equal(t, "Yes", result)
	assert.Equal(t, "Bumi Lot", raw)

	no := `<html><body><div da-id="listing-chip">Not Bumi Lot</div></body></html>`
	result, _ = resolveBumiLot(Load(no))
	assert.Equal(t, "No", result)
}

func TestResolveBumiLotAbsent(t *testing.T) {
	html := `<html><body><p>Nothing relevant</p></body></html>`
	result, raw := resolveBumiLot(Load(html))
	assert.Empty(t, result)
	assert.Empty(t, raw)
}
