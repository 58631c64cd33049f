package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/rental-inventory/internal/describe"
	"github.com/vyrodovalexey/rental-inventory/internal/imaging"
	"github.com/vyrodovalexey/rental-inventory/internal/inventory"
	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/internal/notify"
	"github.com/vyrodovalexey/rental-inventory/internal/store"
)

const testDescription = "A sturdy drill that makes every weekend project a breeze."

// staticDescriber always returns testDescription.
type staticDescriber struct{}

func (staticDescriber) Describe(context.Context, string, string) describe.Result {
	return describe.Result{Text: testDescription}
}

// fixture wires a real coordinator over the demo inventory.
type fixture struct {
	service *inventory.Service
	center  *notify.Center
	router  *mux.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	center := notify.NewCenter(time.Minute)
	t.Cleanup(center.Close)

	svc := inventory.NewService(
		store.NewMemoryStore(),
		staticDescriber{},
		imaging.NewEncoder(imaging.MaxDimension),
		center,
		nil,
		zap.NewNop(),
	)
	if err := svc.Seed(context.Background(), inventory.DemoInventory()); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	templates, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error: %v", err)
	}

	router := mux.NewRouter()
	NewAPIHandler(svc, zap.NewNop()).RegisterRoutes(router)
	NewWebHandler(svc, templates, nil, zap.NewNop()).RegisterRoutes(router)

	return &fixture{service: svc, center: center, router: router}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) item(t *testing.T, id string) *model.InventoryItem {
	t.Helper()
	item, err := f.service.Item(context.Background(), id)
	if err != nil {
		t.Fatalf("Item(%s) error: %v", id, err)
	}
	return item
}

func (f *fixture) toastMessages() []string {
	toasts := f.service.Toasts()
	out := make([]string, len(toasts))
	for i, toast := range toasts {
		out[i] = toast.Message
	}
	return out
}

// pngBytes returns a small valid PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error: %v", err)
	}
	return buf.Bytes()
}

// addItemRequest builds a multipart add-item request. A nil image omits the
// file part.
func addItemRequest(t *testing.T, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField() error: %v", err)
		}
	}
	if image != nil {
		part, err := mw.CreateFormFile(fieldImage, "drill.png")
		if err != nil {
			t.Fatalf("CreateFormFile() error: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("writing image part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validAddFields() map[string]string {
	return map[string]string{
		fieldName:            "Electric Drill",
		fieldUserDescription: "Good for DIY projects, comes with 3 bits",
		fieldPricePerDay:     "15",
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope[T any](t *testing.T, rr *httptest.ResponseRecorder) model.APIResponse[T] {
	t.Helper()
	var resp model.APIResponse[T]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return resp
}
