package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OutboxDispatcher polls notification_outbox and hands pending events to
// the sinks. Delivery is best effort: failures are logged and retried up
// to MaxAttempts, the booking change that staged the event is already
// committed. A retry skips the sinks that accepted the event before.
type OutboxDispatcher struct {
	DB          *gorm.DB
	StopChan    chan struct{}
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	Timeout     time.Duration

	sinks []Sink
	log   logrus.FieldLogger
	wg    sync.WaitGroup
	now   func() time.Time
}

func NewOutboxDispatcher(db *gorm.DB, log logrus.FieldLogger, sinks ...Sink) *OutboxDispatcher {
	return &OutboxDispatcher{
		DB:          db,
		StopChan:    make(chan struct{}),
		Interval:    1 * time.Second,
		BatchSize:   100,
		MaxAttempts: 3,
		Timeout:     10 * time.Second,
		sinks:       sinks,
		log:         log,
		now:         time.Now,
	}
}

func (d *OutboxDispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := d.DispatchPending(context.Background()); err != nil {
					d.log.WithError(err).Error("outbox poll failed")
				}
			case <-d.StopChan:
				return
			}
		}
	}()
}

// Stop ends the polling loop and waits for the batch in flight.
func (d *OutboxDispatcher) Stop() {
	close(d.StopChan)
	d.wg.Wait()
}

// DispatchPending delivers one batch of unprocessed events in staging
// order and returns how many reached every sink.
func (d *OutboxDispatcher) DispatchPending(ctx context.Context) (int, error) {
	var events []models.OutboxEvent
	err := d.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(d.BatchSize).
		Find(&events).Error
	if err != nil {
		return 0, storageErr("load outbox", err)
	}
	if len(events) > 0 {
		d.log.WithField("count", len(events)).Debug("dispatching outbox events")
	}

	delivered := 0
	for _, event := range events {
		if d.dispatch(ctx, event) {
			delivered++
		}
	}
	return delivered, nil
}

func (d *OutboxDispatcher) dispatch(ctx context.Context, event models.OutboxEvent) bool {
	entry := d.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"kind":       event.Kind,
		"booking_id": event.BookingID,
	})

	attempts := event.Attempts + 1
	done := deliveredSet(event.DeliveredTo)
	note, err := decodeEvent(event)
	if err != nil {
		// a payload that cannot be decoded will never deliver
		attempts = d.MaxAttempts
	} else {
		err = d.deliver(ctx, note, done)
	}

	now := d.now()
	updates := map[string]interface{}{
		"attempts":     attempts,
		"delivered_to": d.deliveredList(done),
	}
	switch {
	case err == nil:
		updates["processed"] = true
		updates["processed_at"] = now
		updates["last_error"] = ""
		entry.Info("notification delivered")
	case attempts >= d.MaxAttempts:
		updates["processed"] = true
		updates["processed_at"] = now
		updates["last_error"] = err.Error()
		entry.WithError(err).Error("giving up on notification")
	default:
		updates["last_error"] = err.Error()
		entry.WithError(err).WithField("attempts", attempts).Warn("notification delivery failed, will retry")
	}

	if err := d.DB.WithContext(ctx).Model(&models.OutboxEvent{}).Where("id = ?", event.ID).Updates(updates).Error; err != nil {
		entry.WithError(err).Error("failed to record outbox delivery")
	}
	return err == nil
}

// deliver hands note to every sink not yet in done and adds the ones
// that accept it.
func (d *OutboxDispatcher) deliver(ctx context.Context, note Notification, done map[string]bool) error {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	var errs []error
	for i, sink := range d.sinks {
		name := sinkName(i, sink)
		if done[name] {
			continue
		}
		if err := sink.Deliver(ctx, note); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		done[name] = true
	}
	return errors.Join(errs...)
}

func deliveredSet(list string) map[string]bool {
	done := make(map[string]bool)
	for _, name := range strings.Split(list, ",") {
		if name != "" {
			done[name] = true
		}
	}
	return done
}

// deliveredList keeps the sink order stable in the stored column.
func (d *OutboxDispatcher) deliveredList(done map[string]bool) string {
	names := make([]string, 0, len(done))
	for i, sink := range d.sinks {
		if name := sinkName(i, sink); done[name] {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}
