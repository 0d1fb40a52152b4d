package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/DRSN-tech/store/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusUnprocessableEntity, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusUnprocessableEntity, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrQuantityNegative):
		return http.StatusUnprocessableEntity, e.ErrQuantityNegative.Error()
	case errors.Is(err, e.ErrPriceNegative):
		return http.StatusUnprocessableEntity, e.ErrPriceNegative.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrInsertionFailed):
		return http.StatusInternalServerError, e.ErrInsertionFailed.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает ровно один JSON-объект не больше maxBodySize, неизвестные поля запрещены.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", e.ErrStatusBadRequest, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON object", e.ErrStatusBadRequest)
	}

	return nil
}

// checkPrice переводит цену в float64. Значение вне диапазона float64 отклоняется,
// знак проверяется в usecase.
func checkPrice(d decimal.Decimal) (float64, error) {
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, e.ErrInvalidPrice
	}

	return v, nil
}

// parsePriceParam разбирает необязательную границу цены из query. Для пустого значения возвращается nil.
func parsePriceParam(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, e.ErrInvalidPrice)
	}

	v, err := checkPrice(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &v, nil
}

// parseID разбирает id из пути; некорректный UUID считается ошибкой валидации.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", e.ErrInvalidProductID, raw)
	}

	return id, nil
}

// missingFields перечисляет отсутствующие обязательные поля запроса на создание.
func missingFields(req *CreateProductRequest) []string {
	var missing []string
	if req.Name == nil {
		missing = append(missing, "name")
	}
	if req.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if req.Price == nil {
		missing = append(missing, "price")
	}
	if req.Status == nil {
		missing = append(missing, "status")
	}

	return missing
}
