package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"leafdesk/models"
)

// LoginRequest is the body of POST /UserMas/login.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, userName, password string) (models.User, error) {
	var user models.User
	if err := c.Post(ctx, "/UserMas/login", LoginRequest{UserName: userName, Password: password}, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Client) ListSuppliersByFactory(ctx context.Context, factoryID string) ([]models.Supplier, error) {
	var out []models.Supplier
	if err := c.Get(ctx, "/SupplierMas/byFactory/"+url.PathEscape(factoryID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSupplier(ctx context.Context, supID string) (models.Supplier, error) {
	var out models.Supplier
	if err := c.Get(ctx, "/SupplierMas/"+url.PathEscape(supID), &out); err != nil {
		return models.Supplier{}, err
	}
	return out, nil
}

// CreateSupplier posts a new supplier. The API response body, when it is a
// supplier record, is returned; otherwise the submitted record is.
func (c *Client) CreateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	var raw json.RawMessage
	if err := c.Post(ctx, "/SupplierMas", s, &raw); err != nil {
		return models.Supplier{}, err
	}
	var out models.Supplier
	if err := json.Unmarshal(raw, &out); err != nil || out.Raw.Len() == 0 {
		return s, nil
	}
	return out, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, supID string, s models.Supplier) error {
	if supID == "" {
		return fmt.Errorf("update supplier: id is required")
	}
	return c.Put(ctx, "/SupplierMas/"+url.PathEscape(supID), s, nil)
}

func (c *Client) GetFactory(ctx context.Context, factoryID string) (models.Factory, error) {
	var out models.Factory
	if err := c.Get(ctx, "/FactoryMas/"+url.PathEscape(factoryID), &out); err != nil {
		return models.Factory{}, err
	}
	return out, nil
}

func (c *Client) UpdateFactory(ctx context.Context, factoryID string, f models.Factory) error {
	if factoryID == "" {
		return fmt.Errorf("update factory: id is required")
	}
	return c.Put(ctx, "/FactoryMas/"+url.PathEscape(factoryID), f, nil)
}

func (c *Client) ListGreenLeafByFactory(ctx context.Context, factoryID string) ([]models.GreenLeaf, error) {
	var out []models.GreenLeaf
	if err := c.Get(ctx, "/GreenLeafBls/byFactory/"+url.PathEscape(factoryID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGreenLeaf(ctx context.Context, trNo string) (models.GreenLeaf, error) {
	var out models.GreenLeaf
	if err := c.Get(ctx, "/GreenLeafBls/"+url.PathEscape(trNo), &out); err != nil {
		return models.GreenLeaf{}, err
	}
	return out, nil
}
