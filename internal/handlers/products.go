package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/sajidk/furniture-store/httpx"
	"github.com/sajidk/furniture-store/internal/cache"
	"github.com/sajidk/furniture-store/internal/images"
	"github.com/sajidk/furniture-store/internal/models"
	"github.com/sajidk/furniture-store/internal/store"
	"github.com/sajidk/furniture-store/validation"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Delete endpoint messages; the admin UI branches its toast on them, so the
// two success outcomes must stay distinguishable.
const (
	msgDeleted  = "Product permanently deleted"
	msgArchived = "Product has order history; it was archived and hidden from the catalog instead of deleted"
)

type ProductHandler struct {
	Catalog *store.CatalogStore
	Cache   *redis.Client // nil disables caching
	Images  *images.Store
}

func NewProductHandler(catalog *store.CatalogStore, rdb *redis.Client, imgs *images.Store) *ProductHandler {
	return &ProductHandler{Catalog: catalog, Cache: rdb, Images: imgs}
}

// List serves the public catalog: active products only, cached.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cache.ActiveProductsKey).Result(); err == nil {
			var products []models.Product
			if json.Unmarshal([]byte(cached), &products) == nil {
				httpx.JSON(w, http.StatusOK, products)
				return
			}
		}
	}
	products, err := h.Catalog.ListActive(ctx)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	if h.Cache != nil {
		if body, err := json.Marshal(products); err == nil {
			go h.Cache.Set(context.Background(), cache.ActiveProductsKey, body, cache.ProductTTL)
		}
	}
	httpx.JSON(w, http.StatusOK, products)
}

// ListAll serves the back office listing, archived products included.
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

// Get returns a product by id, archived or not, so historical order lines
// always resolve.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Material    string          `json:"material"`
	IsActive    *bool           `json:"is_active"`
	// Base64 payload; persisted after the insert so the id exists first.
	Image string `json:"image,omitempty"`
}

func (in *productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.NonNegativeDecimal("base_price", in.BasePrice, v)
	return v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p := models.Product{
		Name:        input.Name,
		Description: input.Description,
		BasePrice:   input.BasePrice,
		Material:    input.Material,
		IsActive:    true,
	}
	if err := h.Catalog.Create(r.Context(), &p); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	if input.Image != "" {
		h.saveImage(p.ID, input.Image)
	}
	h.invalidate(p.ID)
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_product", nil)
		return
	}
	var input productInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p.Name = input.Name
	p.Description = input.Description
	p.BasePrice = input.BasePrice
	p.Material = input.Material
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	p.Variants = nil // Save must not cascade stale associations
	if err := h.Catalog.Update(r.Context(), &p); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	if input.Image != "" {
		h.saveImage(p.ID, input.Image)
	}
	h.invalidate(p.ID)
	httpx.JSON(w, http.StatusOK, p)
}

// Delete removes a product, or archives it when order history references it.
// The response message tells the two outcomes apart.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	outcome, err := h.Catalog.Remove(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	h.invalidate(id)
	switch outcome {
	case store.RemoveDeleted:
		_ = h.Images.Remove(id)
		httpx.JSON(w, http.StatusOK, map[string]string{"result": "deleted", "message": msgDeleted})
	default:
		httpx.JSON(w, http.StatusOK, map[string]string{"result": "archived", "message": msgArchived})
	}
}

// Variants lists every variant for the storefront detail pages.
func (h *ProductHandler) Variants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.Catalog.ListVariants(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_variants", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, variants)
}

type variantInput struct {
	SKU           string          `json:"sku"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   *bool           `json:"is_available"`
}

func (h *ProductHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input variantInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("sku", input.SKU, v)
	validation.MinInt("stock_quantity", input.StockQuantity, 0, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	variant := models.Variant{
		ProductID:     productID,
		SKU:           input.SKU,
		Color:         input.Color,
		Size:          input.Size,
		PriceModifier: input.PriceModifier,
		StockQuantity: input.StockQuantity,
		IsAvailable:   true,
	}
	if input.IsAvailable != nil {
		variant.IsAvailable = *input.IsAvailable
	}
	err := h.Catalog.CreateVariant(r.Context(), &variant)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
	case errors.Is(err, store.ErrDuplicateKey):
		httpx.JSONError(w, http.StatusConflict, "sku_already_exists", nil)
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, "variant_create_failed", nil)
	default:
		h.invalidate(productID)
		httpx.JSON(w, http.StatusCreated, variant)
	}
}

func (h *ProductHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	variant, err := h.Catalog.GetVariant(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_variant", nil)
		return
	}
	var input variantInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("sku", input.SKU, v)
	validation.MinInt("stock_quantity", input.StockQuantity, 0, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	variant.SKU = input.SKU
	variant.Color = input.Color
	variant.Size = input.Size
	variant.PriceModifier = input.PriceModifier
	variant.StockQuantity = input.StockQuantity
	if input.IsAvailable != nil {
		variant.IsAvailable = *input.IsAvailable
	}
	if err := h.Catalog.UpdateVariant(r.Context(), &variant); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			httpx.JSONError(w, http.StatusConflict, "sku_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	h.invalidate(variant.ProductID)
	httpx.JSON(w, http.StatusOK, variant)
}

func (h *ProductHandler) saveImage(productID uint, payload string) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return
	}
	if err := h.Images.Save(productID, data); err != nil {
		log.Printf("product %d image not saved: %v", productID, err)
	}
}

func (h *ProductHandler) invalidate(productID uint) {
	if h.Cache == nil {
		return
	}
	go h.Cache.Del(context.Background(),
		cache.ActiveProductsKey,
		cache.ProductKey(strconv.FormatUint(uint64(productID), 10)))
}

// pathID parses the {name} route variable, writing a 400 on garbage input.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}
