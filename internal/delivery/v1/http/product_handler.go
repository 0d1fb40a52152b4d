package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/DRSN-tech/store/internal/usecase"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает новый товар. Все поля обязательны
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		CreateProductRequest	true	"Товар"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Некорректное тело запроса"
//	@Failure		422		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse	"Ошибка сохранения"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body CreateProductRequest
	if err := decodeJSON(w, r, &body); err != nil {
		p.writeError(w, r, err)
		return
	}

	if missing := missingFields(&body); len(missing) > 0 {
		p.writeError(w, r, fmt.Errorf("%w: %s", e.ErrMissingFields, strings.Join(missing, ", ")))
		return
	}

	price, err := checkPrice(*body.Price)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	out, err := p.productUsecase.Create(r.Context(), usecase.NewCreateProductReq(*body.Name, *body.Quantity, price, *body.Status))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewProductResponse(out))
}

// getProduct
//
//	@Summary	Получение товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"	format(uuid)
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Failure	422	{object}	ErrorResponse	"Некорректный ID"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	out, err := p.productUsecase.Get(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductResponse(out))
}

// queryProducts
//
//	@Summary		Выборка товаров по цене
//	@Description	Возвращает товары с ценой строго внутри (price_min, price_max). По умолчанию 5000 и 8000
//	@Tags			products
//	@Produce		json
//	@Param			price_min	query		number	false	"Нижняя граница (не включительно)"
//	@Param			price_max	query		number	false	"Верхняя граница (не включительно)"
//	@Success		200			{array}		ProductResponse
//	@Failure		400			{object}	ErrorResponse	"Некорректная граница"
//	@Router			/products [get]
func (p *ProductHandler) queryProducts(w http.ResponseWriter, r *http.Request) {
	priceMin, err := parsePriceParam(r, "price_min")
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	priceMax, err := parsePriceParam(r, "price_max")
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	products, err := p.productUsecase.Query(r.Context(), usecase.NewQueryProductsReq(priceMin, priceMax))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewArrProductResponse(products))
}

// updateProduct
//
//	@Summary		Частичное обновление товара
//	@Description	Изменяет только переданные поля. null равносилен отсутствию поля
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"ID товара"	format(uuid)
//	@Param			product	body		UpdateProductRequest	true	"Изменяемые поля"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Некорректное тело запроса"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Failure		422		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	var body UpdateProductRequest
	if err := decodeJSON(w, r, &body); err != nil {
		p.writeError(w, r, err)
		return
	}

	req := &usecase.UpdateProductReq{
		Name:     body.Name,
		Quantity: body.Quantity,
		Status:   body.Status,
	}
	if body.Price != nil {
		price, err := checkPrice(*body.Price)
		if err != nil {
			p.writeError(w, r, err)
			return
		}
		req.Price = &price
	}

	out, err := p.productUsecase.Update(r.Context(), id, req)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductResponse(out))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Param		id	path	string	true	"ID товара"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Failure	422	{object}	ErrorResponse	"Некорректный ID"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	removed, err := p.productUsecase.Delete(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	if !removed {
		p.writeError(w, r, e.ErrProductNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	reqID := middleware.GetReqID(r.Context())

	if code >= http.StatusInternalServerError {
		p.logger.Errorf(err, "%d %s %s request_id=%s", code, r.Method, r.URL.Path, reqID)
	} else {
		p.logger.Warnf("%d %s %s request_id=%s: %v", code, r.Method, r.URL.Path, reqID, err)
	}

	WriteError(w, err)
}
