package inventory

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/vyrodovalexey/rental-inventory/internal/describe"
	"github.com/vyrodovalexey/rental-inventory/internal/events"
	"github.com/vyrodovalexey/rental-inventory/internal/imaging"
	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/internal/notify"
	"github.com/vyrodovalexey/rental-inventory/internal/store"
)

// stubDescriber returns a fixed result.
type stubDescriber struct {
	result describe.Result
	delay  time.Duration
	calls  int
	mu     sync.Mutex
}

func (d *stubDescriber) Describe(_ context.Context, _, _ string) describe.Result {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	return d.result
}

func (d *stubDescriber) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// failingModelsAdapter always fails, like an unreachable generation service.
type failingModelsAdapter struct{}

func (failingModelsAdapter) GenerateContent(
	context.Context, string, []*genai.Content, *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return nil, errors.New("service unavailable")
}

// stubEncoder returns a fixed URI or error.
type stubEncoder struct {
	uri   string
	err   error
	delay time.Duration
}

func (e *stubEncoder) EncodeDataURI(context.Context, *model.Upload) (string, error) {
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	return e.uri, e.err
}

// recordingPublisher keeps published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	svc       *Service
	store     *store.MemoryStore
	describer *stubDescriber
	encoder   *stubEncoder
	center    *notify.Center
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     store.NewMemoryStore(),
		describer: &stubDescriber{result: describe.Result{Text: "Generated copy."}},
		encoder:   &stubEncoder{uri: "data:image/png;base64,AAAA"},
		center:    notify.NewCenter(time.Minute),
		publisher: &recordingPublisher{},
	}
	t.Cleanup(f.center.Close)
	f.svc = NewService(f.store, f.describer, f.encoder, f.center, f.publisher, zap.NewNop())
	return f
}

func validInput() model.AddItemInput {
	return model.AddItemInput{
		Name:            "Drill",
		UserDescription: "Cordless",
		PricePerDay:     15,
		Image:           &model.Upload{Filename: "drill.png", Data: []byte("png")},
	}
}

func pngUpload(t *testing.T) *model.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return &model.Upload{Filename: "drill.png", ContentType: "image/png", Data: buf.Bytes()}
}

func mustLen(t *testing.T, s *store.MemoryStore) int {
	t.Helper()
	n, err := s.Len(context.Background())
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	return n
}

func TestNewService_NilPublisher(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), &stubDescriber{}, &stubEncoder{}, notify.NewCenter(time.Minute), nil, zap.NewNop())

	if _, ok := svc.publisher.(events.NopPublisher); !ok {
		t.Errorf("publisher = %T, want events.NopPublisher", svc.publisher)
	}
}

func TestService_AddItem_Success(t *testing.T) {
	// Arrange
	f := newFixture(t)
	existing, _ := f.store.Prepend(context.Background(), &model.InventoryItem{Name: "Old"})

	// Act
	item, err := f.svc.AddItem(context.Background(), validInput())

	// Assert
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if item.ID == "" || item.ID == existing.ID {
		t.Errorf("ID = %q, want a fresh ID", item.ID)
	}
	if item.Status != model.StatusAvailable {
		t.Errorf("Status = %s, want %s", item.Status, model.StatusAvailable)
	}
	if item.AIDescription != "Generated copy." {
		t.Errorf("AIDescription = %q", item.AIDescription)
	}
	if item.ImageURL != "data:image/png;base64,AAAA" {
		t.Errorf("ImageURL = %q", item.ImageURL)
	}

	items, _ := f.svc.Items(context.Background())
	if len(items) != 2 || items[0].ID != item.ID {
		t.Fatalf("new item should be first of 2, got %+v", items)
	}

	toasts := f.center.List()
	if len(toasts) != 1 || toasts[0].Type != model.ToastSuccess || toasts[0].Message != MsgAddSucceeded {
		t.Errorf("toasts = %+v, want one success toast", toasts)
	}
	if got := f.publisher.types(); len(got) != 1 || got[0] != events.TypeItemAdded {
		t.Errorf("published = %v, want [%s]", got, events.TypeItemAdded)
	}
	if f.svc.Submitting() != 0 {
		t.Errorf("Submitting() = %d after completion, want 0", f.svc.Submitting())
	}
}

func TestService_AddItem_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.AddItemInput)
	}{
		{"missing name", func(in *model.AddItemInput) { in.Name = "" }},
		{"missing notes", func(in *model.AddItemInput) { in.UserDescription = "" }},
		{"zero price", func(in *model.AddItemInput) { in.PricePerDay = 0 }},
		{"unparseable price", func(in *model.AddItemInput) { in.PricePerDay = math.NaN() }},
		{"missing image", func(in *model.AddItemInput) { in.Image = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			in := validInput()
			tt.mutate(&in)

			// Act
			item, err := f.svc.AddItem(context.Background(), in)

			// Assert
			if !errors.Is(err, ErrValidation) {
				t.Errorf("AddItem() error = %v, want %v", err, ErrValidation)
			}
			if item != nil {
				t.Errorf("AddItem() returned item %+v", item)
			}
			if n := mustLen(t, f.store); n != 0 {
				t.Errorf("store has %d items, want 0", n)
			}
			toasts := f.center.List()
			if len(toasts) != 1 || toasts[0].Type != model.ToastError || toasts[0].Message != MsgValidationFailed {
				t.Errorf("toasts = %+v, want exactly one validation error", toasts)
			}
			if f.describer.callCount() != 0 {
				t.Error("generator should not be called for invalid input")
			}
			if len(f.publisher.types()) != 0 {
				t.Error("no event should be published for invalid input")
			}
		})
	}
}

func TestService_AddItem_GenerationFallbackStillCreates(t *testing.T) {
	// Arrange
	f := newFixture(t)
	gen := describe.NewGenerator(failingModelsAdapter{}, describe.Options{}, zap.NewNop())
	f.svc = NewService(f.store, gen, f.encoder, f.center, f.publisher, zap.NewNop())

	// Act
	item, err := f.svc.AddItem(context.Background(), validInput())

	// Assert
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if item.AIDescription != describe.FallbackDescription {
		t.Errorf("AIDescription = %q, want fallback", item.AIDescription)
	}
	toasts := f.center.List()
	if len(toasts) != 1 || toasts[0].Type != model.ToastSuccess {
		t.Errorf("toasts = %+v, want one success toast", toasts)
	}
}

func TestService_AddItem_ImageFailure(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.encoder.err = imaging.ErrUnsupportedImage

	// Act
	item, err := f.svc.AddItem(context.Background(), validInput())

	// Assert
	if !errors.Is(err, ErrImageDecode) {
		t.Errorf("AddItem() error = %v, want %v", err, ErrImageDecode)
	}
	if !errors.Is(err, imaging.ErrUnsupportedImage) {
		t.Errorf("AddItem() error = %v, should wrap the decode cause", err)
	}
	if item != nil {
		t.Error("no item should be returned on image failure")
	}
	if n := mustLen(t, f.store); n != 0 {
		t.Errorf("store has %d items, want 0", n)
	}
	toasts := f.center.List()
	if len(toasts) != 1 || toasts[0].Type != model.ToastError || toasts[0].Message != MsgAddFailed {
		t.Errorf("toasts = %+v, want one add-failed toast", toasts)
	}
	if f.svc.Submitting() != 0 {
		t.Errorf("Submitting() = %d after failure, want 0", f.svc.Submitting())
	}
}

func TestService_AddItem_WaitsForBothResults(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.describer.delay = 50 * time.Millisecond
	f.encoder.delay = 10 * time.Millisecond

	done := make(chan struct{})
	sawSubmitting := make(chan bool, 1)

	// Act
	go func() {
		defer close(done)
		_, _ = f.svc.AddItem(context.Background(), validInput())
	}()

	time.Sleep(25 * time.Millisecond)
	sawSubmitting <- f.svc.Submitting() == 1
	midway := mustLen(t, f.store)
	<-done

	// Assert
	if !<-sawSubmitting {
		t.Error("Submitting() should be 1 while the add is in flight")
	}
	if midway != 0 {
		t.Errorf("item visible before description resolved (store len %d)", midway)
	}
	if n := mustLen(t, f.store); n != 1 {
		t.Errorf("store has %d items after completion, want 1", n)
	}
	if f.svc.Submitting() != 0 {
		t.Errorf("Submitting() = %d after completion, want 0", f.svc.Submitting())
	}
}

func TestService_AddItem_IgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	item, err := f.svc.AddItem(ctx, validInput())

	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if item == nil {
		t.Fatal("AddItem() returned nil item")
	}
}

func TestService_AddItem_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	if _, err := f.svc.AddItem(context.Background(), validInput()); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if n := mustLen(t, f.store); n != 1 {
		t.Errorf("store has %d items, want 1", n)
	}
}

func TestService_AddItem_UniqueIDs(t *testing.T) {
	f := newFixture(t)
	seen := make(map[string]bool)

	for i := 0; i < 20; i++ {
		item, err := f.svc.AddItem(context.Background(), validInput())
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate ID %s", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestService_Rent(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		days      int
		wantDays  int
		wantTotal string
	}{
		{"price 25 for 3 days", 25, 3, 3, "75.00"},
		{"zero days clamps to one", 25, 0, 1, "25.00"},
		{"negative days clamps to one", 10, -2, 1, "10.00"},
		{"fractional price", 12.5, 3, 3, "37.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			item, _ := f.store.Prepend(context.Background(), &model.InventoryItem{Name: "Tent", PricePerDay: tt.price})

			// Act
			receipt, err := f.svc.Rent(context.Background(), item.ID, tt.days)

			// Assert
			if err != nil {
				t.Fatalf("Rent() error = %v", err)
			}
			if receipt.Days != tt.wantDays {
				t.Errorf("Days = %d, want %d", receipt.Days, tt.wantDays)
			}
			if receipt.FormattedTotal() != tt.wantTotal {
				t.Errorf("total = %s, want %s", receipt.FormattedTotal(), tt.wantTotal)
			}
			stored, _ := f.svc.Item(context.Background(), item.ID)
			if stored.Status != model.StatusRented {
				t.Errorf("Status = %s, want %s", stored.Status, model.StatusRented)
			}
			toasts := f.center.List()
			if len(toasts) != 1 {
				t.Fatalf("got %d toasts, want 1", len(toasts))
			}
			if !strings.Contains(toasts[0].Message, "$"+tt.wantTotal) {
				t.Errorf("toast %q does not report total %s", toasts[0].Message, tt.wantTotal)
			}
			if !strings.Contains(toasts[0].Message, "'Tent'") {
				t.Errorf("toast %q does not name the item", toasts[0].Message)
			}
		})
	}
}

func TestService_Rent_MessageFormat(t *testing.T) {
	f := newFixture(t)
	item, _ := f.store.Prepend(context.Background(), &model.InventoryItem{Name: "Drill", PricePerDay: 15})

	_, err := f.svc.Rent(context.Background(), item.ID, 2)

	if err != nil {
		t.Fatalf("Rent() error = %v", err)
	}
	want := "Rented 'Drill' for 2 days. Total: $30.00"
	if got := f.center.List()[0].Message; got != want {
		t.Errorf("toast = %q, want %q", got, want)
	}
}

func TestService_Rent_AlreadyRentedIsIdempotent(t *testing.T) {
	// Arrange
	f := newFixture(t)
	item, _ := f.store.Prepend(context.Background(), &model.InventoryItem{Name: "Laptop", PricePerDay: 75})
	if _, err := f.svc.Rent(context.Background(), item.ID, 1); err != nil {
		t.Fatalf("first Rent() error = %v", err)
	}

	// Act
	receipt, err := f.svc.Rent(context.Background(), item.ID, 3)

	// Assert
	if !errors.Is(err, ErrAlreadyRented) {
		t.Fatalf("second Rent() error = %v, want %v", err, ErrAlreadyRented)
	}
	if receipt != nil {
		t.Errorf("second Rent() receipt = %+v, want nil", receipt)
	}
	stored, _ := f.svc.Item(context.Background(), item.ID)
	if stored.Status != model.StatusRented || stored.PricePerDay != 75 || stored.Name != "Laptop" {
		t.Errorf("item corrupted: %+v", stored)
	}
	if n := len(f.center.List()); n != 1 {
		t.Errorf("got %d toasts, want 1", n)
	}
	if got := f.publisher.types(); len(got) != 1 || got[0] != events.TypeItemRented {
		t.Errorf("published = %v, want [%s]", got, events.TypeItemRented)
	}
}

func TestService_Rent_ConcurrentConfirmations(t *testing.T) {
	// Arrange
	f := newFixture(t)
	item, _ := f.store.Prepend(context.Background(), &model.InventoryItem{Name: "Tent", PricePerDay: 25})
	const callers = 8

	// Act
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Rent(context.Background(), item.ID, 2)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyRented):
				conflicts++
			default:
				t.Errorf("Rent() unexpected error = %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	// Assert
	if successes != 1 || conflicts != callers-1 {
		t.Errorf("successes = %d, conflicts = %d, want 1 and %d", successes, conflicts, callers-1)
	}
	if n := len(f.center.List()); n != 1 {
		t.Errorf("got %d toasts, want 1", n)
	}
	if n := len(f.publisher.types()); n != 1 {
		t.Errorf("published %d events, want 1", n)
	}
}

func TestService_Rent_UnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Rent(context.Background(), "missing", 2)

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Rent() error = %v, want %v", err, ErrNotFound)
	}
	if n := len(f.center.List()); n != 0 {
		t.Errorf("got %d toasts, want 0", n)
	}
}

func TestService_Edit(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	original, _ := f.store.Prepend(ctx, &model.InventoryItem{
		Name:            "Old",
		UserDescription: "old notes",
		AIDescription:   "generated",
		PricePerDay:     10,
		ImageURL:        "data:image/png;base64,AAAA",
	})
	_, _ = f.svc.Rent(ctx, original.ID, 1)
	in := model.EditItemInput{Name: "N", UserDescription: "D", PricePerDay: 12.5}

	// Act
	first, err := f.svc.Edit(ctx, original.ID, in)
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	second, err := f.svc.Edit(ctx, original.ID, in)
	if err != nil {
		t.Fatalf("second Edit() error = %v", err)
	}

	// Assert
	for _, got := range []*model.InventoryItem{first, second} {
		if got.Name != "N" || got.UserDescription != "D" || got.PricePerDay != 12.5 {
			t.Errorf("editable fields = %q %q %v", got.Name, got.UserDescription, got.PricePerDay)
		}
		if got.ID != original.ID || got.AIDescription != "generated" ||
			got.ImageURL != original.ImageURL || got.Status != model.StatusRented {
			t.Errorf("protected fields changed: %+v", got)
		}
	}
	if first.Name != second.Name || first.UserDescription != second.UserDescription ||
		first.PricePerDay != second.PricePerDay || first.Status != second.Status {
		t.Error("repeating the edit changed the result")
	}

	toasts := f.center.List()
	last := toasts[len(toasts)-1]
	if last.Message != MsgUpdateSucceeded {
		t.Errorf("last toast = %q, want %q", last.Message, MsgUpdateSucceeded)
	}
}

func TestService_Edit_InvalidPrice(t *testing.T) {
	f := newFixture(t)
	item, _ := f.store.Prepend(context.Background(), &model.InventoryItem{Name: "Old", PricePerDay: 10})

	_, err := f.svc.Edit(context.Background(), item.ID, model.EditItemInput{Name: "New", PricePerDay: math.NaN()})

	if !errors.Is(err, ErrValidation) {
		t.Errorf("Edit() error = %v, want %v", err, ErrValidation)
	}
	stored, _ := f.svc.Item(context.Background(), item.ID)
	if stored.Name != "Old" {
		t.Errorf("Name = %s, want Old", stored.Name)
	}
	toasts := f.center.List()
	if len(toasts) != 1 || toasts[0].Message != MsgInvalidPrice {
		t.Errorf("toasts = %+v, want one invalid-price toast", toasts)
	}
}

func TestService_Edit_UnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Edit(context.Background(), "missing", model.EditItemInput{Name: "x", PricePerDay: 1})

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Edit() error = %v, want %v", err, ErrNotFound)
	}
}

func TestService_Delete(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	keep, _ := f.store.Prepend(ctx, &model.InventoryItem{Name: "Keep"})
	drop, _ := f.store.Prepend(ctx, &model.InventoryItem{Name: "Drop"})

	// Act
	err := f.svc.Delete(ctx, drop.ID)

	// Assert
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	items, _ := f.svc.Items(ctx)
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Errorf("items = %+v, want only Keep", items)
	}
	toasts := f.center.List()
	if len(toasts) != 1 || toasts[0].Message != "'Drop' was deleted." {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestService_Delete_UnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.store.Prepend(ctx, &model.InventoryItem{Name: "Keep"})

	err := f.svc.Delete(ctx, "missing")

	if err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
	if n := mustLen(t, f.store); n != 1 {
		t.Errorf("store has %d items, want 1", n)
	}
	if n := len(f.center.List()); n != 0 {
		t.Errorf("got %d toasts, want 0", n)
	}
}

func TestService_Toasts(t *testing.T) {
	f := newFixture(t)
	_, _ = f.svc.AddItem(context.Background(), model.AddItemInput{})

	toasts := f.svc.Toasts()
	if len(toasts) != 1 {
		t.Fatalf("Toasts() returned %d, want 1", len(toasts))
	}
	if !f.svc.DismissToast(toasts[0].ID) {
		t.Error("DismissToast() = false, want true")
	}
	if len(f.svc.Toasts()) != 0 {
		t.Error("toast still visible after dismiss")
	}
}

func TestService_Seed(t *testing.T) {
	f := newFixture(t)
	demo := DemoInventory()

	if err := f.svc.Seed(context.Background(), demo); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	items, _ := f.svc.Items(context.Background())
	if len(items) != len(demo) {
		t.Fatalf("got %d items, want %d", len(items), len(demo))
	}
	for i := range demo {
		if items[i].ID != demo[i].ID {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, demo[i].ID)
		}
	}
	if items[1].Status != model.StatusRented {
		t.Errorf("laptop status = %s, want %s", items[1].Status, model.StatusRented)
	}
	if err := f.svc.Seed(context.Background(), demo); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second Seed() error = %v, want %v", err, store.ErrAlreadyExists)
	}
}

func TestService_EndToEnd(t *testing.T) {
	// Arrange: real encoder, generator whose service fails.
	ctx := context.Background()
	center := notify.NewCenter(time.Minute)
	defer center.Close()
	itemStore := store.NewMemoryStore()
	gen := describe.NewGenerator(failingModelsAdapter{}, describe.Options{}, zap.NewNop())
	svc := NewService(itemStore, gen, imaging.NewEncoder(0), center, nil, zap.NewNop())

	// Act: add
	item, err := svc.AddItem(ctx, model.AddItemInput{
		Name:            "Drill",
		UserDescription: "Cordless",
		PricePerDay:     15,
		Image:           pngUpload(t),
	})

	// Assert: one item with the fallback description and a success toast
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if n := mustLen(t, itemStore); n != 1 {
		t.Fatalf("store has %d items, want 1", n)
	}
	if item.AIDescription != describe.FallbackDescription {
		t.Errorf("AIDescription = %q, want fallback", item.AIDescription)
	}
	if !imaging.IsDataURI(item.ImageURL) {
		t.Errorf("ImageURL = %.30s, want data URI", item.ImageURL)
	}
	if toasts := center.List(); len(toasts) != 1 || toasts[0].Type != model.ToastSuccess {
		t.Fatalf("toasts = %+v, want one success toast", toasts)
	}

	// Act: rent for two days
	receipt, err := svc.Rent(ctx, item.ID, 2)

	// Assert
	if err != nil {
		t.Fatalf("Rent() error = %v", err)
	}
	if receipt.FormattedTotal() != "30.00" {
		t.Errorf("total = %s, want 30.00", receipt.FormattedTotal())
	}
	if receipt.Item.Status != model.StatusRented {
		t.Errorf("Status = %s, want %s", receipt.Item.Status, model.StatusRented)
	}
	toasts := center.List()
	if !strings.Contains(toasts[len(toasts)-1].Message, "Total: $30.00") {
		t.Errorf("rent toast = %q", toasts[len(toasts)-1].Message)
	}

	// Act: delete
	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Assert
	if n := mustLen(t, itemStore); n != 0 {
		t.Errorf("store has %d items, want 0", n)
	}
}

func TestService_ConcurrentAdds(t *testing.T) {
	f := newFixture(t)
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.AddItem(context.Background(), validInput()); err != nil {
				t.Errorf("AddItem() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := mustLen(t, f.store); n != workers {
		t.Errorf("store has %d items, want %d", n, workers)
	}
	if f.svc.Submitting() != 0 {
		t.Errorf("Submitting() = %d, want 0", f.svc.Submitting())
	}
}
