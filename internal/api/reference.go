package api

import (
	"context"
)

func (c *Client) list(ctx context.Context, endpoint, path string) ([]string, error) {
	var out []string
	if err := c.get(ctx, endpoint, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Makes lists every brand.
func (c *Client) Makes(ctx context.Context) ([]string, error) {
	return c.list(ctx, "makes", "/makes")
}

// Models lists the models of one brand.
func (c *Client) Models(ctx context.Context, brand string) ([]string, error) {
	return c.list(ctx, "models", "/models/"+segment(brand))
}

// Trims lists the trims of one brand and model.
func (c *Client) Trims(ctx context.Context, brand, model string) ([]string, error) {
	return c.list(ctx, "trims", "/trims/"+segment(brand)+"/"+segment(model))
}

// Years lists every model year, or only those of brand and model when both are given.
func (c *Client) Years(ctx context.Context, brand, model string) ([]int, error) {
	path, endpoint := "/years", "years"
	if brand != "" && model != "" {
		path += "/" + segment(brand) + "/" + segment(model)
		endpoint = "years_by_model"
	}

	var out []int
	if err := c.get(ctx, endpoint, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}

func (c *Client) Locations(ctx context.Context) ([]string, error) {
	return c.list(ctx, "locations", "/locations")
}

func (c *Client) FuelTypes(ctx context.Context) ([]string, error) {
	return c.list(ctx, "fuel_types", "/fuel-types")
}

func (c *Client) BodyTypes(ctx context.Context) ([]string, error) {
	return c.list(ctx, "body_types", "/body-types")
}

func (c *Client) TransmissionTypes(ctx context.Context) ([]string, error) {
	return c.list(ctx, "transmission_types", "/transmission-types")
}

func (c *Client) SellerTypes(ctx context.Context) ([]string, error) {
	return c.list(ctx, "seller_types", "/seller-types")
}

func (c *Client) Colors(ctx context.Context) ([]string, error) {
	return c.list(ctx, "colors", "/colors")
}

func (c *Client) Websites(ctx context.Context) ([]string, error) {
	return c.list(ctx, "websites", "/websites")
}
