// Package inventory coordinates the item lifecycle: it owns the item store
// and the notification queue and is the only code that mutates them.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vyrodovalexey/rental-inventory/internal/describe"
	"github.com/vyrodovalexey/rental-inventory/internal/events"
	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/internal/store"
)

// User-facing notification texts.
const (
	MsgValidationFailed = "Please fill all fields and select an image."
	MsgAddSucceeded     = "Item added successfully with AI description!"
	MsgAddFailed        = "Failed to generate description or add item."
	MsgUpdateSucceeded  = "Item updated successfully!"
	MsgInvalidPrice     = "Please enter a valid price."
	msgRentedFormat     = "Rented '%s' for %d days. Total: $%s"
	msgDeletedFormat    = "'%s' was deleted."
)

// publishTimeout bounds how long a mutation waits on the event broker.
const publishTimeout = 2 * time.Second

// Service errors.
var (
	ErrValidation    = errors.New("invalid item input")
	ErrImageDecode   = errors.New("could not read image file")
	ErrAlreadyRented = errors.New("item is already rented")
	ErrNotFound      = store.ErrNotFound
)

// Describer produces marketing copy for an item.
type Describer interface {
	Describe(ctx context.Context, name, notes string) describe.Result
}

// ImageEncoder turns an upload into an embeddable image reference.
type ImageEncoder interface {
	EncodeDataURI(ctx context.Context, upload *model.Upload) (string, error)
}

// Notifier is the toast queue.
type Notifier interface {
	Success(message string) model.Toast
	Error(message string) model.Toast
	Dismiss(id int64) bool
	List() []model.Toast
}

// Service is the single owner of inventory state.
type Service struct {
	store     store.Store
	describer Describer
	images    ImageEncoder
	notifier  Notifier
	publisher events.Publisher
	logger    *zap.Logger

	submitting atomic.Int64
}

// NewService creates a Service. A nil publisher disables event publishing.
func NewService(
	s store.Store,
	describer Describer,
	images ImageEncoder,
	notifier Notifier,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		store:     s,
		describer: describer,
		images:    images,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// AddItem validates the input, generates a description and encodes the
// image concurrently, and prepends the new item once both are done.
//
// Exactly one notification is emitted per call. The item is only stored
// after both the description and the image are ready.
func (s *Service) AddItem(ctx context.Context, in model.AddItemInput) (*model.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		recordAddFailure(reasonValidation)
		s.notifier.Error(MsgValidationFailed)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	s.submitting.Add(1)
	submissionsInFlight.Inc()
	defer func() {
		s.submitting.Add(-1)
		submissionsInFlight.Dec()
	}()

	// A submitted add runs to completion even if the requester goes away.
	ctx = context.WithoutCancel(ctx)

	var (
		desc     describe.Result
		imageURL string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		desc = s.describer.Describe(gctx, in.Name, in.UserDescription)
		return nil
	})
	g.Go(func() error {
		uri, err := s.images.EncodeDataURI(gctx, in.Image)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrImageDecode, err)
		}
		imageURL = uri
		return nil
	})

	if err := g.Wait(); err != nil {
		recordAddFailure(reasonImage)
		s.logger.Error("error adding item",
			zap.String("item_name", in.Name),
			zap.Error(err),
		)
		s.notifier.Error(MsgAddFailed)
		return nil, err
	}

	if desc.Fallback {
		descriptionFallbacksTotal.Inc()
	}

	created, err := s.store.Prepend(ctx, &model.InventoryItem{
		Name:            in.Name,
		UserDescription: in.UserDescription,
		AIDescription:   desc.Text,
		PricePerDay:     in.PricePerDay,
		ImageURL:        imageURL,
		Status:          model.StatusAvailable,
	})
	if err != nil {
		recordAddFailure(reasonStore)
		s.logger.Error("error storing item", zap.String("item_name", in.Name), zap.Error(err))
		s.notifier.Error(MsgAddFailed)
		return nil, fmt.Errorf("add item: %w", err)
	}

	itemsAddedTotal.Inc()
	s.logger.Info("item added",
		zap.String("item_id", created.ID),
		zap.String("item_name", created.Name),
		zap.Bool("description_fallback", desc.Fallback),
	)
	s.notifier.Success(MsgAddSucceeded)
	s.publish(ctx, events.NewEvent(events.TypeItemAdded, *created))

	return created, nil
}

// Rent marks the item as rented for days (raised to at least one day) and
// reports the total. An item that is already rented is left untouched and
// ErrAlreadyRented is returned without a notification or event.
func (s *Service) Rent(ctx context.Context, id string, days int) (*model.RentalReceipt, error) {
	days = model.ClampRentalDays(days)

	var (
		total         float64
		alreadyRented bool
	)
	item, err := s.store.Update(ctx, id, func(it *model.InventoryItem) {
		if it.Status == model.StatusRented {
			alreadyRented = true
			return
		}
		it.Status = model.StatusRented
		total = model.RentalTotal(it.PricePerDay, days)
	})
	if err != nil {
		return nil, fmt.Errorf("rent item: %w", err)
	}
	if alreadyRented {
		s.logger.Debug("rent of rented item ignored", zap.String("item_id", id))
		return nil, fmt.Errorf("rent item %s: %w", id, ErrAlreadyRented)
	}

	receipt := &model.RentalReceipt{
		Item:  *item,
		Days:  days,
		Total: total,
	}

	recordRental(total)
	s.logger.Info("item rented",
		zap.String("item_id", item.ID),
		zap.Int("days", days),
		zap.Float64("total", total),
	)
	s.notifier.Success(fmt.Sprintf(msgRentedFormat, item.Name, days, receipt.FormattedTotal()))

	ev := events.NewEvent(events.TypeItemRented, *item)
	ev.Days = days
	ev.Total = total
	s.publish(ctx, ev)

	return receipt, nil
}

// Edit replaces the name, notes and price of an item. Identity, generated
// description, image and status are kept.
func (s *Service) Edit(ctx context.Context, id string, in model.EditItemInput) (*model.InventoryItem, error) {
	if math.IsNaN(in.PricePerDay) || math.IsInf(in.PricePerDay, 0) {
		s.notifier.Error(MsgInvalidPrice)
		return nil, fmt.Errorf("%w: %w", ErrValidation, model.ErrInvalidPrice)
	}

	item, err := s.store.Update(ctx, id, in.Apply)
	if err != nil {
		return nil, fmt.Errorf("edit item: %w", err)
	}

	s.logger.Info("item updated", zap.String("item_id", item.ID))
	s.notifier.Success(MsgUpdateSucceeded)
	s.publish(ctx, events.NewEvent(events.TypeItemUpdated, *item))

	return item, nil
}

// Delete removes an item. Deleting an unknown ID does nothing.
func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if removed == nil {
		s.logger.Debug("delete of unknown item ignored", zap.String("item_id", id))
		return nil
	}

	itemsDeletedTotal.Inc()
	s.logger.Info("item deleted", zap.String("item_id", removed.ID))
	s.notifier.Success(fmt.Sprintf(msgDeletedFormat, removed.Name))
	s.publish(ctx, events.NewEvent(events.TypeItemDeleted, *removed))

	return nil
}

// Items returns the inventory, newest first.
func (s *Service) Items(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Item returns one item.
func (s *Service) Item(ctx context.Context, id string) (*model.InventoryItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Toasts returns the visible notifications in creation order.
func (s *Service) Toasts() []model.Toast {
	return s.notifier.List()
}

// DismissToast removes a notification. It reports whether it was visible.
func (s *Service) DismissToast(id int64) bool {
	return s.notifier.Dismiss(id)
}

// Submitting returns the number of add-item submissions in progress.
func (s *Service) Submitting() int64 {
	return s.submitting.Load()
}

// Seed loads items so that they appear in the given order.
func (s *Service) Seed(ctx context.Context, items []model.InventoryItem) error {
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if _, err := s.store.Prepend(ctx, &item); err != nil {
			return fmt.Errorf("seed item %q: %w", item.Name, err)
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish inventory event",
			zap.String("type", ev.Type),
			zap.String("item_id", ev.ItemID),
			zap.Error(err),
		)
	}
}
