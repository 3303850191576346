package hub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

type topologyResponse struct {
	envelope
	Modems model.Topology `json:"modems"`
}

type linksResponse struct {
	envelope
	model.LinkTables
}

// Topology fetches the full modem map.
func (c *Client) Topology(ctx context.Context) (model.Topology, error) {
	var res topologyResponse
	if err := c.do(ctx, http.MethodGet, "/modems.json", nil, &res); err != nil {
		return nil, err
	}
	return res.Modems, nil
}

// Links fetches the three link tables for a modem-scoped base path.
func (c *Client) Links(ctx context.Context, base string) (model.LinkTables, error) {
	var res linksResponse
	if err := c.do(ctx, http.MethodGet, base+"/links.json", nil, &res); err != nil {
		return model.LinkTables{}, err
	}
	return res.LinkTables, nil
}

// CreateDefinedLink creates or promotes a link under the given base.
func (c *Client) CreateDefinedLink(ctx context.Context, base string, link model.NewLink) error {
	return c.do(ctx, http.MethodPost, base+"/links/definedLinks.json", link, nil)
}

// UpdateDefinedLink submits a partial update for one defined link.
func (c *Client) UpdateDefinedLink(ctx context.Context, base, uid string, update model.LinkUpdate) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/links/definedLinks/%s.json", base, uid), update, nil)
}

// DeleteLink removes a link from whichever bucket holds it.
func (c *Client) DeleteLink(ctx context.Context, base string, bucket model.Bucket, uid string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/links/%s/%s.json", base, bucket, uid), nil, nil)
}

// AddDevice creates a device resource under a modem.
func (c *Client) AddDevice(ctx context.Context, modemAddr, deviceAddr string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/modems/%s/devices/%s.json", modemAddr, deviceAddr), nil, nil)
}

// RemoveDevice deletes a device resource under a modem.
func (c *Client) RemoveDevice(ctx context.Context, modemAddr, deviceAddr string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/modems/%s/devices/%s.json", modemAddr, deviceAddr), nil, nil)
}

// UpdateModemSettings submits the modem settings form.
func (c *Client) UpdateModemSettings(ctx context.Context, modemAddr string, settings model.ModemSettings) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/modems/%s.json", modemAddr), settings, nil)
}

// UpdateGroupSettings submits a group settings form. The base already ends
// in the group path, so the target is base + ".json".
func (c *Client) UpdateGroupSettings(ctx context.Context, base string, settings model.GroupSettings) error {
	return c.do(ctx, http.MethodPatch, base+".json", settings, nil)
}
