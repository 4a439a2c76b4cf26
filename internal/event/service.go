package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alisl001/EMS/internal/category"
	"github.com/Alisl001/EMS/internal/equipment"
	"github.com/Alisl001/EMS/internal/logger"
	"github.com/Alisl001/EMS/internal/metrics"
	"github.com/Alisl001/EMS/internal/user"
	"github.com/Alisl001/EMS/internal/wallet"

	"github.com/jmoiron/sqlx"
)

var (
	ErrValidation    = errors.New("invalid event data")
	ErrEventCanceled = errors.New("event is canceled")
)

// TxBeginner opens the transaction that scopes one financial operation.
// *sqlx.DB satisfies it.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type CategoryChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Notifier sends best-effort booking emails. Failures are logged, never
// surfaced to the caller.
type Notifier interface {
	SendEventConfirmation(ctx context.Context, email, name, eventName string, date time.Time, total string) error
	SendEventCancellation(ctx context.Context, email, name, eventName, refunded string) error
}

type Service interface {
	Create(ctx context.Context, userID int, req CreateEventRequest) (*EventDetail, error)
	Update(ctx context.Context, userID, eventID int, req UpdateEventRequest) (*EventDetail, error)
	Cancel(ctx context.Context, userID, eventID int) (*Event, error)
	Get(ctx context.Context, eventID int) (*EventDetail, error)
	ListMine(ctx context.Context, userID int) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}

type service struct {
	db         TxBeginner
	events     Repository
	equipment  equipment.Repository
	categories CategoryChecker
	wallets    wallet.Repository
	users      UserLookup
	mailer     Notifier
	loc        *time.Location
	now        func() time.Time
}

func NewService(db TxBeginner, events Repository, equip equipment.Repository,
	categories CategoryChecker, wallets wallet.Repository, users UserLookup,
	mailer Notifier, loc *time.Location) Service {
	return &service{
		db:         db,
		events:     events,
		equipment:  equip,
		categories: categories,
		wallets:    wallets,
		users:      users,
		mailer:     mailer,
		loc:        loc,
		now:        time.Now,
	}
}

func checkDuplicateIDs(ids []int) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate equipment id %d", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (s *service) checkSchedule(date time.Time, startTime, endTime string) error {
	start, err := combine(date, startTime, s.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := combine(date, endTime, s.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	return nil
}

func (s *service) checkCategory(ctx context.Context, id int) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID int, req CreateEventRequest) (*EventDetail, error) {
	date, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if err := s.checkSchedule(date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := checkDuplicateIDs(req.Equipment); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	cost, err := s.equipment.PriceFor(ctx, req.Equipment)
	if err != nil {
		return nil, err
	}

	ev := &Event{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Capacity:    req.Capacity,
		CategoryID:  req.CategoryID,
		TotalPrice:  cost,
	}
	ev.Status = DeriveStatus(ev, s.now(), s.loc)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created, err := s.events.CreateTx(ctx, tx, ev)
	if err != nil {
		return nil, err
	}
	if len(req.Equipment) > 0 {
		if err := s.events.AddEquipmentTx(ctx, tx, created.ID, req.Equipment); err != nil {
			return nil, err
		}
	}
	if cost.IsPositive() {
		if _, err := s.wallets.AdjustBalanceTx(ctx, tx, userID, cost.Neg()); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("Equipment rental for event: %s", created.Name)
		if _, err := s.wallets.AppendTransactionTx(ctx, tx, userID, cost, wallet.KindPurchase, desc); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordEventCreated()
	if cost.IsPositive() {
		metrics.RecordWalletTransaction(string(wallet.KindPurchase))
	}
	s.notifyConfirmation(ctx, created, cost.StringFixed(2))

	items, err := s.equipmentFor(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: *created, Equipment: items}, nil
}

func (s *service) Update(ctx context.Context, userID, eventID int, req UpdateEventRequest) (*EventDetail, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the event row first. The canceled check and the old total must
	// be read under this lock, or two racing mutations both price against
	// the same stale state.
	ev, err := s.events.GetByIDForUserTx(ctx, tx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if ev.Status == StatusCanceled {
		return nil, ErrEventCanceled
	}

	if req.Name != nil {
		ev.Name = *req.Name
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Date != nil {
		date, err := time.Parse(dateFormat, *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		ev.Date = date
	}
	if req.StartTime != nil {
		ev.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		ev.EndTime = *req.EndTime
	}
	if req.Location != nil {
		ev.Location = *req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
		}
		ev.Capacity = *req.Capacity
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		ev.CategoryID = *req.CategoryID
	}
	if err := s.checkSchedule(ev.Date, ev.StartTime, ev.EndTime); err != nil {
		return nil, err
	}

	current, err := s.events.EquipmentIDs(ctx, eventID)
	if err != nil {
		return nil, err
	}
	next := current
	if req.Equipment != nil {
		if err := checkDuplicateIDs(req.Equipment); err != nil {
			return nil, err
		}
		next = req.Equipment
	}

	newTotal, err := s.equipment.PriceFor(ctx, next)
	if err != nil {
		return nil, err
	}
	delta := newTotal.Sub(ev.TotalPrice)

	if req.Equipment != nil {
		toAdd, toRemove := diffIDs(current, next)
		if len(toRemove) > 0 {
			if err := s.events.RemoveEquipmentTx(ctx, tx, eventID, toRemove); err != nil {
				return nil, err
			}
		}
		if len(toAdd) > 0 {
			if err := s.events.AddEquipmentTx(ctx, tx, eventID, toAdd); err != nil {
				return nil, err
			}
		}
	}

	kind := wallet.KindPurchase
	if !delta.IsZero() {
		if _, err := s.wallets.AdjustBalanceTx(ctx, tx, userID, delta.Neg()); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("Additional equipment rental for event: %s", ev.Name)
		if delta.IsNegative() {
			kind = wallet.KindRefund
			desc = fmt.Sprintf("Partial refund for event: %s", ev.Name)
		}
		if _, err := s.wallets.AppendTransactionTx(ctx, tx, userID, delta.Abs(), kind, desc); err != nil {
			return nil, err
		}
	}

	ev.TotalPrice = newTotal
	ev.Status = DeriveStatus(ev, s.now(), s.loc)
	if err := s.events.UpdateTx(ctx, tx, ev); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if !delta.IsZero() {
		metrics.RecordWalletTransaction(string(kind))
	}

	items, err := s.equipmentFor(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: *ev, Equipment: items}, nil
}

func (s *service) Cancel(ctx context.Context, userID, eventID int) (*Event, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the event row before the canceled check. A second cancel racing
	// this one blocks here, then sees the committed canceled status and
	// fails instead of issuing a duplicate refund.
	ev, err := s.events.GetByIDForUserTx(ctx, tx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if ev.Status == StatusCanceled {
		return nil, ErrEventCanceled
	}

	refund := ev.TotalPrice
	if refund.IsPositive() {
		if _, err := s.wallets.AdjustBalanceTx(ctx, tx, userID, refund); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("Refund for canceled event: %s", ev.Name)
		if _, err := s.wallets.AppendTransactionTx(ctx, tx, userID, refund, wallet.KindRefund, desc); err != nil {
			return nil, err
		}
	}
	if err := s.events.ClearEquipmentTx(ctx, tx, eventID); err != nil {
		return nil, err
	}
	if err := s.events.SetStatusTx(ctx, tx, eventID, StatusCanceled); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordEventCancellation()
	if refund.IsPositive() {
		metrics.RecordWalletTransaction(string(wallet.KindRefund))
	}
	ev.Status = StatusCanceled
	s.notifyCancellation(ctx, ev, refund.StringFixed(2))

	return ev, nil
}

func (s *service) Get(ctx context.Context, eventID int) (*EventDetail, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.refreshStatus(ctx, ev)

	items, err := s.equipmentFor(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: *ev, Equipment: items}, nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Event, error) {
	evs, err := s.events.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range evs {
		s.refreshStatus(ctx, &evs[i])
	}
	return evs, nil
}

func (s *service) ListAll(ctx context.Context) ([]Event, error) {
	evs, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range evs {
		s.refreshStatus(ctx, &evs[i])
	}
	return evs, nil
}

// refreshStatus recomputes the lifecycle status on a read path and
// persists it when it moved on. Persistence failures only get logged;
// the caller still sees the derived status.
func (s *service) refreshStatus(ctx context.Context, ev *Event) {
	st := DeriveStatus(ev, s.now(), s.loc)
	if st == ev.Status {
		return
	}
	if err := s.events.SetStatus(ctx, ev.ID, st); err != nil {
		logger.Error("failed to persist derived event status", "event_id", ev.ID, "error", err)
	}
	ev.Status = st
}

func (s *service) equipmentFor(ctx context.Context, eventID int) ([]equipment.Equipment, error) {
	ids, err := s.events.EquipmentIDs(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items := make([]equipment.Equipment, 0, len(ids))
	for _, id := range ids {
		item, err := s.equipment.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *service) notifyConfirmation(ctx context.Context, ev *Event, total string) {
	if s.mailer == nil {
		return
	}
	u, err := s.users.FindByID(ctx, ev.UserID)
	if err != nil {
		logger.Error("failed to load user for event confirmation", "user_id", ev.UserID, "error", err)
		return
	}
	if err := s.mailer.SendEventConfirmation(ctx, u.Email, u.FirstName, ev.Name, ev.Date, total); err != nil {
		logger.Error("failed to queue event confirmation email", "event_id", ev.ID, "error", err)
	}
}

func (s *service) notifyCancellation(ctx context.Context, ev *Event, refunded string) {
	if s.mailer == nil {
		return
	}
	u, err := s.users.FindByID(ctx, ev.UserID)
	if err != nil {
		logger.Error("failed to load user for event cancellation", "user_id", ev.UserID, "error", err)
		return
	}
	if err := s.mailer.SendEventCancellation(ctx, u.Email, u.FirstName, ev.Name, refunded); err != nil {
		logger.Error("failed to queue event cancellation email", "event_id", ev.ID, "error", err)
	}
}

// diffIDs splits the desired set against the current one.
func diffIDs(current, next []int) (toAdd, toRemove []int) {
	have := make(map[int]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[int]struct{}, len(next))
	for _, id := range next {
		want[id] = struct{}{}
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
