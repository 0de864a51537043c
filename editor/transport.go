package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jaivial/backofficereact-sub001/entity"
)

// Transport คือ contract กับ remote store — HTTPTransport ใช้ของจริง, test ใช้ fake
type Transport interface {
	PatchBasics(ctx context.Context, menuID uint, p entity.MenuBasicsPayload) error
	PutSections(ctx context.Context, menuID uint, sections []entity.SectionPayload) ([]entity.SectionPayload, error)
	PutSectionDishes(ctx context.Context, menuID, sectionID uint, dishes []entity.DishPayload) ([]entity.DishPayload, error)
	PatchSectionDish(ctx context.Context, menuID, sectionID, dishID uint, d entity.DishPayload) (*entity.DishPayload, error)
	UpsertCatalogDish(ctx context.Context, p entity.CatalogDishPayload) (uint, error)
	UploadDishImage(ctx context.Context, menuID, sectionID, dishID uint, img []byte) (string, error)
	RequestDishImageEnhance(ctx context.Context, menuID, sectionID, dishID uint, img []byte) error
	Publish(ctx context.Context, menuID uint) error
}

type HTTPTransport struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPTransport(baseURL, token string) *HTTPTransport {
	return &HTTPTransport{BaseURL: baseURL, Token: token, Client: http.DefaultClient}
}

// envelope เดียวกับ pkg/resp ฝั่ง server
type apiEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	res, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response (%s %s): %w", method, path, err)
	}
	if !env.OK {
		if env.Error == "" {
			env.Error = res.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (t *HTTPTransport) PatchBasics(ctx context.Context, menuID uint, p entity.MenuBasicsPayload) error {
	return t.do(ctx, http.MethodPatch, fmt.Sprintf("/backoffice/menus/%d/basics", menuID), p, nil)
}

func (t *HTTPTransport) PutSections(ctx context.Context, menuID uint, sections []entity.SectionPayload) ([]entity.SectionPayload, error) {
	var out struct {
		Sections []entity.SectionPayload `json:"sections"`
	}
	body := map[string]any{"sections": sections}
	err := t.do(ctx, http.MethodPut, fmt.Sprintf("/backoffice/menus/%d/sections", menuID), body, &out)
	return out.Sections, err
}

func (t *HTTPTransport) PutSectionDishes(ctx context.Context, menuID, sectionID uint, dishes []entity.DishPayload) ([]entity.DishPayload, error) {
	var out struct {
		Dishes []entity.DishPayload `json:"dishes"`
	}
	body := map[string]any{"dishes": dishes}
	err := t.do(ctx, http.MethodPut,
		fmt.Sprintf("/backoffice/menus/%d/sections/%d/dishes", menuID, sectionID), body, &out)
	return out.Dishes, err
}

func (t *HTTPTransport) PatchSectionDish(ctx context.Context, menuID, sectionID, dishID uint, d entity.DishPayload) (*entity.DishPayload, error) {
	var out struct {
		Dish entity.DishPayload `json:"dish"`
	}
	err := t.do(ctx, http.MethodPatch,
		fmt.Sprintf("/backoffice/menus/%d/sections/%d/dishes/%d", menuID, sectionID, dishID), d, &out)
	if err != nil {
		return nil, err
	}
	return &out.Dish, nil
}

func (t *HTTPTransport) UpsertCatalogDish(ctx context.Context, p entity.CatalogDishPayload) (uint, error) {
	var out struct {
		ID uint `json:"id"`
	}
	err := t.do(ctx, http.MethodPost, "/backoffice/catalog/dishes", p, &out)
	return out.ID, err
}

func (t *HTTPTransport) UploadDishImage(ctx context.Context, menuID, sectionID, dishID uint, img []byte) (string, error) {
	var out struct {
		FotoURL string `json:"fotoUrl"`
	}
	body := map[string]any{"image": img} // json จะ encode []byte เป็น base64 ให้เอง
	err := t.do(ctx, http.MethodPost,
		fmt.Sprintf("/backoffice/menus/%d/sections/%d/dishes/%d/image", menuID, sectionID, dishID), body, &out)
	return out.FotoURL, err
}

func (t *HTTPTransport) RequestDishImageEnhance(ctx context.Context, menuID, sectionID, dishID uint, img []byte) error {
	body := map[string]any{"image": img}
	return t.do(ctx, http.MethodPost,
		fmt.Sprintf("/backoffice/menus/%d/sections/%d/dishes/%d/image/enhance", menuID, sectionID, dishID), body, nil)
}

func (t *HTTPTransport) Publish(ctx context.Context, menuID uint) error {
	return t.do(ctx, http.MethodPost, fmt.Sprintf("/backoffice/menus/%d/publish", menuID), nil, nil)
}
