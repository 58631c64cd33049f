package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// Form field names shared by the HTML form and the multipart API.
const (
	fieldName            = "name"
	fieldUserDescription = "userDescription"
	fieldPricePerDay     = "pricePerDay"
	fieldImage           = "image"
	fieldDays            = "days"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// Request parsing errors.
var (
	ErrBadForm     = errors.New("malformed form")
	ErrBadJSON     = errors.New("invalid request body")
	ErrInvalidDays = errors.New("days must be a number or a numeric string")
)

// readAddItemForm reads the add-item multipart form. Missing fields are left
// empty so that validation decides what to report. On error the returned
// input still carries whatever could be read.
func readAddItemForm(r *http.Request) (model.AddItemInput, error) {
	in := model.AddItemInput{PricePerDay: math.NaN()}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return in, fmt.Errorf("%w: %w", ErrBadForm, err)
	}

	in.Name = r.FormValue(fieldName)
	in.UserDescription = r.FormValue(fieldUserDescription)
	in.PricePerDay = parsePrice(r.FormValue(fieldPricePerDay))

	file, header, err := r.FormFile(fieldImage)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, nil
	case err != nil:
		return in, fmt.Errorf("%w: %w", ErrBadForm, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return in, fmt.Errorf("%w: reading image: %w", ErrBadForm, err)
	}

	in.Image = &model.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return in, nil
}

// readEditForm reads the edit dialog fields.
func readEditForm(r *http.Request) (model.EditItemInput, error) {
	if err := r.ParseForm(); err != nil {
		return model.EditItemInput{}, fmt.Errorf("%w: %w", ErrBadForm, err)
	}
	return model.EditItemInput{
		Name:            r.PostFormValue(fieldName),
		UserDescription: r.PostFormValue(fieldUserDescription),
		PricePerDay:     parsePrice(r.PostFormValue(fieldPricePerDay)),
	}, nil
}

// parsePrice returns NaN for anything that is not a decimal number.
func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return price
}

// rentRequest is the JSON rent body. Days may be a number or a string.
type rentRequest struct {
	Days json.RawMessage `json:"days"`
}

// rentalDays interprets the days value of a rent request. An absent value
// means one day.
func (req rentRequest) rentalDays() (int, error) {
	raw := bytes.TrimSpace(req.Days)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return model.MinRentalDays, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.ParseRentalDays(s), nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, ErrInvalidDays
	}
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32, nil
	case f < model.MinRentalDays:
		return model.MinRentalDays, nil
	}
	return model.ClampRentalDays(int(math.Trunc(f))), nil
}

// decodeJSON decodes a JSON body, treating an empty body as an empty object.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrBadJSON, err)
	}
	return nil
}
