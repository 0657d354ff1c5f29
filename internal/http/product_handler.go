package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/http/metric"
	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/service"
	"github.com/tuanvumaihuynh/productstack/internal/storage/image"
	"github.com/tuanvumaihuynh/productstack/pkg/validator"
)

const (
	fieldMainImage       = "image"
	fieldGallery         = "gallery"
	fieldExistingGallery = "existingGallery"

	// multipartMemory is kept in memory; larger parts spill to temp files.
	multipartMemory = 32 << 20
)

type createProductRequest struct {
	Title       string  `form:"title" validate:"required,notblank,max=200"`
	Description string  `form:"description" validate:"required,notblank,max=5000"`
	Price       string  `form:"price" validate:"required,decimal"`
	Category    string  `form:"category" validate:"required,notblank,max=100"`
	Discount    *string `form:"discount"`
}

type updateProductRequest struct {
	Title       *string `form:"title" validate:"omitempty,max=200"`
	Description *string `form:"description" validate:"omitempty,max=5000"`
	Price       *string `form:"price" validate:"omitempty,decimal"`
	Category    *string `form:"category" validate:"omitempty,max=100"`
	Discount    *string `form:"discount"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type deleteProductResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type bulkDeleteResponse struct {
	Success      bool   `json:"success"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message,omitempty"`
	DeletedCount int    `json:"deletedCount"`
}

type productHandler struct {
	responder
	productSvc service.ProductService
	validator  validator.Validator
	imageCfg   config.Image
	metrics    *metric.Metrics
}

func newProductHandler(
	rs responder,
	productSvc service.ProductService,
	v validator.Validator,
	imageCfg config.Image,
	metrics *metric.Metrics,
) *productHandler {
	return &productHandler{
		responder:  rs,
		productSvc: productSvc,
		validator:  v,
		imageCfg:   imageCfg,
		metrics:    metrics,
	}
}

func (h *productHandler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Delete("/", h.BulkDeleteProducts)
	r.Get("/{id}", h.GetProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ListAllProducts(r.Context())
	if err != nil {
		h.Error(w, r, fmt.Errorf("product service list all products: %w", err))
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	h.JSON(w, r, http.StatusOK, products)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseMultipart(w, r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	req := createProductRequest{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Price:       formValue(form, "price"),
		Category:    formValue(form, "category"),
		Discount:    optionalFormValue(form, "discount"),
	}
	if err := h.validator.Validate(req); err != nil {
		h.Error(w, r, err)
		return
	}

	mainImage, gallery, err := h.readUploads(form)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Discount:    req.Discount,
		MainImage:   mainImage,
		Gallery:     gallery,
	})
	if err != nil {
		h.Error(w, r, fmt.Errorf("product service create product: %w", err))
		return
	}

	h.JSON(w, r, http.StatusCreated, product)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, r, fmt.Errorf("product service get product: %w", err))
		return
	}

	h.JSON(w, r, http.StatusOK, product)
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseMultipart(w, r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	req := updateProductRequest{
		Title:       optionalFormValue(form, "title"),
		Description: optionalFormValue(form, "description"),
		Price:       optionalFormValue(form, "price"),
		Category:    optionalFormValue(form, "category"),
		Discount:    optionalFormValue(form, "discount"),
	}
	if err := h.validator.Validate(req); err != nil {
		h.Error(w, r, err)
		return
	}

	existingGallery, err := parseExistingGallery(form)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	mainImage, gallery, err := h.readUploads(form)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), service.UpdateProductParams{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		Discount:        req.Discount,
		MainImage:       mainImage,
		Gallery:         gallery,
		ExistingGallery: existingGallery,
	})
	if err != nil {
		h.Error(w, r, fmt.Errorf("product service update product: %w", err))
		return
	}

	h.JSON(w, r, http.StatusOK, product)
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := h.productSvc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.Error(w, r, fmt.Errorf("product service delete product: %w", err))
		return
	}

	h.JSON(w, r, http.StatusOK, deleteProductResponse{
		Success: true,
		Message: "product deleted successfully",
	})
}

func (h *productHandler) BulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := readJSON(w, r, &req); err != nil {
		h.Error(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.Error(w, r, err)
		return
	}

	count, err := h.productSvc.BulkDeleteProducts(r.Context(), req.IDs)
	if errors.Is(err, apperr.ProductNotFoundErr) {
		h.JSON(w, r, http.StatusNotFound, bulkDeleteResponse{
			Code:    apperr.ProductNotFoundCode,
			Message: "no products found with the given ids",
		})
		return
	}
	if err != nil {
		h.Error(w, r, fmt.Errorf("product service bulk delete products: %w", err))
		return
	}

	h.JSON(w, r, http.StatusOK, bulkDeleteResponse{
		Success:      true,
		DeletedCount: count,
	})
}

// parseMultipart bounds the body to every allowed attachment at full size
// plus room for the text fields.
func (h *productHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	maxBody := h.imageCfg.MaxSize*int64(h.imageCfg.MaxGallery+1) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apperr.ValidationErr.WithMsg(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)).WrapParent(err)
		}
		return nil, apperr.ValidationErr.WithMsg("request must be multipart/form-data").WrapParent(err)
	}

	return r.MultipartForm, nil
}

func (h *productHandler) readUploads(form *multipart.Form) (*image.Upload, []image.Upload, error) {
	var mainImage *image.Upload
	if files := form.File[fieldMainImage]; len(files) > 0 {
		if len(files) > 1 {
			return nil, nil, apperr.ValidationErr.WithMsg("only one main image is allowed")
		}
		u, err := h.readUpload(fieldMainImage, files[0])
		if err != nil {
			return nil, nil, err
		}
		mainImage = &u
	}

	files := form.File[fieldGallery]
	if h.imageCfg.MaxGallery > 0 && len(files) > h.imageCfg.MaxGallery {
		return nil, nil, apperr.ValidationErr.WithMsg(fmt.Sprintf("at most %d gallery images are allowed", h.imageCfg.MaxGallery))
	}

	gallery := make([]image.Upload, 0, len(files))
	for _, fh := range files {
		u, err := h.readUpload(fieldGallery, fh)
		if err != nil {
			return nil, nil, err
		}
		gallery = append(gallery, u)
	}

	return mainImage, gallery, nil
}

func (h *productHandler) readUpload(field string, fh *multipart.FileHeader) (image.Upload, error) {
	if h.imageCfg.MaxSize > 0 && fh.Size > h.imageCfg.MaxSize {
		return image.Upload{}, apperr.ValidationErr.WithMsg(
			fmt.Sprintf("%s %q exceeds %d bytes", field, fh.Filename, h.imageCfg.MaxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return image.Upload{}, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return image.Upload{}, fmt.Errorf("read %s: %w", field, err)
	}

	h.metrics.UploadBytes.Add(float64(len(data)))

	return image.Upload{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseExistingGallery decodes the JSON keep-list. An absent field keeps the
// current gallery and is returned as nil.
func parseExistingGallery(form *multipart.Form) ([]string, error) {
	raw := optionalFormValue(form, fieldExistingGallery)
	if raw == nil {
		return nil, nil
	}

	refs := []string{}
	if err := json.Unmarshal([]byte(*raw), &refs); err != nil {
		return nil, apperr.ValidationErr.WithMsg("existingGallery must be a JSON array of strings").WrapParent(err)
	}
	if refs == nil {
		refs = []string{}
	}

	return refs, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	if v, ok := form.Value[key]; ok && len(v) > 0 {
		return &v[0]
	}
	return nil
}
