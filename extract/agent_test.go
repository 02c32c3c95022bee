package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAgentName(t *testing.T) {
	assert.Equal(t, "Tan Wei Ming", normalizeAgentName("tan wei ming"))
	assert.Equal(t, "Siti Aminah", normalizeAgentName("SITI AMINAH"))

	// Companies, anonymized listers and junk all come back empty.
	assert.Empty(t, normalizeAgentName("ABC Realty Sdn Bhd"))
	assert.Empty(t, normalizeAgentName("Private Advertiser"))
	assert.Empty(t, normalizeAgentName("Agent 007"))
	assert.Empty(t, normalizeAgentName("X"))
	assert.Empty(t, normalizeAgentName("One Two Three Four Five"))
}

func TestNormalizeAgentNameKeepsShortCaps(t *testing.T) {
	assert.Equal(t, "JJ Lim", normalizeAgentName("JJ Lim"))
}

func TestResolveAgentNamePrefersContactCard(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"contactAgentData":{"contactAgentCard":{"agentInfoProps":{"agent":{"name":"Tan Wei Ming"}}}}}</script>
<a href="/property-agent/leemei-7654321">Lee Mei</a>
</body></html>`
	name, source := resolveAgentName(Load(html))
	assert.Equal(t, "Tan Wei Ming", name)
	assert.Equal(t, "contactAgentData", source)
}

func TestResolveListerPhonePrefersMobile(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"contactAgentData":{"contactAgentCard":{"agentInfoProps":{"agent":{"phone":"03-2141 0000","mobile":"+6012-345 6789"}}}}}</script>
</body></html>`
	raw, digits := resolveListerPhone(Load(html))
	assert.Equal(t, "+6012-345 6789", raw)
	assert.Equal(t, "60123456789", digits)
}

func TestResolveListerIDFromProfileURL(t *testing.T) {
	html := `<html><body>
<a href="/property-agent/tanweiming-1234567">Tan Wei Ming</a>
</body></html>`
	id, source := resolveListerID(Load(html), "99887766", "Tan Wei Ming")
	assert.Equal(t, "1234567", id)
	// The anchor text matches the agent, and the raw source scan also
	// sees the href; either way the id is the same.
	assert.NotEmpty(t, source)
}

func TestResolveListerIDRejectsListingID(t *testing.T) {
	html := `<html><body>
<a href="/property-agent/tanweiming-1234567">Tan Wei Ming</a>
</body></html>`
	id, _ := resolveListerID(Load(html), "1234567", "")
	assert.Empty(t, id)
}

func TestResolveLicense(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"contactAgentData":{"contactAgentCard":{"agentInfoProps":{"agent":{"licenseNumber":"REN 12345"}}}}}</script>
</body></html>`
	assert.Equal(t, "REN 12345", resolveLicense(Load(html)))
}

func TestResolveLicenseFromVisibleText(t *testing.T) {
	html := `<html><body><div>Listed by agent REN: 54321</div></body></html>`
	assert.Equal(t, "REN 54321", resolveLicense(Load(html)))
}

func TestResolveAgencyID(t *testing.T) {
	html := `<html><body>
<script type="application/json">{"enquiryModalData":{"agency":{"id":"9876"}}}</script>
</body></html>`
	id, source := resolveAgencyID(Load(html))
	require.Equal(t, "9876", id)
	assert.Equal(t, "enquiryModal", source)
}

func TestResolveListerURLAbsolute(t *testing.T) {
	html := `<html><body><a href="/property-agent/tanweiming-1234567">Tan</a></body></html>`
	assert.Equal(t,
		"https://www.iproperty.com.my/property-agent/tanweiming-1234567",
		resolveListerURL(Load(html)))
}
