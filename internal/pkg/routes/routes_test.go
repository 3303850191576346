package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	testCases := []struct {
		name string
		path string
		want PageContext
	}{
		{
			name: "root",
			path: "/",
			want: PageContext{Kind: KindRoot},
		},
		{
			name: "modem page",
			path: "/modems/1A2B3C",
			want: PageContext{Kind: KindModem, ModemAddress: "1A2B3C"},
		},
		{
			name: "modem page trailing slash",
			path: "/modems/1A2B3C/",
			want: PageContext{Kind: KindModem, ModemAddress: "1A2B3C"},
		},
		{
			name: "modem group page",
			path: "/modems/1A2B3C/groups/3",
			want: PageContext{Kind: KindModemGroup, ModemAddress: "1A2B3C", ModemGroup: "3"},
		},
		{
			name: "device page",
			path: "/modems/1A2B3C/devices/4D5E6F",
			want: PageContext{Kind: KindDevice, ModemAddress: "1A2B3C", DeviceAddress: "4D5E6F"},
		},
		{
			name: "device group page",
			path: "/modems/1A2B3C/devices/4D5E6F/groups/12",
			want: PageContext{
				Kind:          KindDeviceGroup,
				ModemAddress:  "1A2B3C",
				DeviceAddress: "4D5E6F",
				DeviceGroup:   "12",
			},
		},
		{
			name: "lowercase hex preserved",
			path: "/modems/aabbcc",
			want: PageContext{Kind: KindModem, ModemAddress: "aabbcc"},
		},
		{
			name: "short address does not match",
			path: "/modems/1A2B3",
			want: PageContext{Kind: KindNone},
		},
		{
			name: "non hex address does not match",
			path: "/modems/1A2B3G",
			want: PageContext{Kind: KindNone},
		},
		{
			name: "unrelated path",
			path: "/events",
			want: PageContext{Kind: KindNone},
		},
		{
			name: "group without number does not match",
			path: "/modems/1A2B3C/groups/",
			want: PageContext{Kind: KindNone},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.path))
		})
	}
}

func TestCurrentTargetAndGroup(t *testing.T) {
	pc := Match("/modems/1A2B3C/devices/4D5E6F/groups/12")
	assert.Equal(t, "4D5E6F", pc.CurrentTarget())
	assert.Equal(t, "12", pc.CurrentGroup())
	assert.Equal(t, "", pc.ModemGroup)

	n, ok := pc.CurrentGroupNumber()
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	pc = Match("/modems/1A2B3C/groups/3")
	assert.Equal(t, "1A2B3C", pc.CurrentTarget())
	assert.Equal(t, "3", pc.CurrentGroup())

	pc = Match("/modems/1A2B3C")
	assert.Equal(t, "1A2B3C", pc.CurrentTarget())
	_, ok = pc.CurrentGroupNumber()
	assert.False(t, ok)

	pc = Match("/nope")
	assert.Equal(t, "", pc.CurrentTarget())
	assert.Equal(t, "", pc.CurrentGroup())
}

func TestLinksBase(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{path: "/modems/1A2B3C", want: "/modems/1A2B3C"},
		{path: "/modems/1A2B3C/groups/3", want: "/modems/1A2B3C/groups/3"},
		{path: "/modems/1A2B3C/devices/4D5E6F", want: "/modems/1A2B3C/devices/4D5E6F"},
		{path: "/modems/1A2B3C/devices/4D5E6F/groups/12", want: "/modems/1A2B3C/devices/4D5E6F/groups/12"},
		{path: "/somewhere/else", want: ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Match(tc.path).LinksBase(), tc.path)
	}
}

func TestPageCapabilities(t *testing.T) {
	assert.True(t, Match("/modems/1A2B3C").HasSettingsForm())
	assert.True(t, Match("/modems/1A2B3C/groups/3").HasSettingsForm())
	assert.True(t, Match("/modems/1A2B3C/devices/4D5E6F/groups/12").HasSettingsForm())
	assert.False(t, Match("/modems/1A2B3C/devices/4D5E6F").HasSettingsForm())
	assert.False(t, Match("/").HasSettingsForm())

	assert.True(t, Match("/modems/1A2B3C").HasLinkTables())
	assert.True(t, Match("/modems/1A2B3C/devices/4D5E6F").HasLinkTables())
	assert.False(t, Match("/").HasLinkTables())
}
