package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
	"user": {"userid": 77, "name": "asha", "mobile": "9876543210"},
	"dashboard": {
		"color": {"dynamic_color": "#1E3D95"},
		"carousel": ["https://cdn.example/a.jpg", "https://cdn.example/b.jpg"],
		"student": {"Boy": 120, "Girl": "98"},
		"amount": {"Total": 150000, "Paid": 100000, "due": 50000}
	}
}`

func TestDashboardPayload_Decode(t *testing.T) {
	var p DashboardPayload
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &p))

	assert.Equal(t, "#1E3D95", p.ThemeColor())
	assert.Len(t, p.Dashboard.Carousel, 2)
	assert.Equal(t, "77", p.User.DisplayUserID())
	assert.Equal(t, "A", p.User.Initial())
	assert.Equal(t, 218.0, p.Dashboard.Student.Total())
	assert.Equal(t, 67, p.Dashboard.Amount.PaidPercent())
}

func TestDashboardPayload_Fallbacks(t *testing.T) {
	var p DashboardPayload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	assert.Equal(t, DefaultThemeColor, p.ThemeColor())
	assert.Equal(t, "U", p.User.Initial())
	assert.Equal(t, "User", p.User.DisplayName())
	assert.Equal(t, "N/A", p.User.DisplayMobile())
	assert.Equal(t, "N/A", p.User.DisplayUserID())
	assert.Equal(t, 0, p.Dashboard.Amount.PaidPercent())
	assert.Equal(t, 0.0, p.Dashboard.Student.Total())
}
