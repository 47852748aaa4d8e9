// Package controller holds the application state of the showroom: the active
// role and tab, and the services behind them. Every operation gates on the
// role, mutates state, and answers with a fresh render of the current tab.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/messaging"
	"github.com/egannguyen/go-car-showroom/internal/metrics"
	"github.com/egannguyen/go-car-showroom/internal/photo"
	"github.com/egannguyen/go-car-showroom/internal/repository"
	"github.com/egannguyen/go-car-showroom/internal/service"
	"github.com/egannguyen/go-car-showroom/internal/view"
)

// Controller serialises all operations: no two mutations interleave and a
// render only sees completed mutations.
type Controller struct {
	svc       *service.ShowroomService
	prefs     repository.PreferenceStore
	publisher messaging.Publisher
	recorder  metrics.Recorder

	mu      sync.Mutex
	role    entity.Role
	roleSet bool
	tab     entity.Tab
}

func NewController(
	svc *service.ShowroomService,
	prefs repository.PreferenceStore,
	publisher messaging.Publisher,
	recorder metrics.Recorder,
) *Controller {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Controller{
		svc:       svc,
		prefs:     prefs,
		publisher: publisher,
		recorder:  recorder,
		role:      entity.DefaultRole,
		tab:       entity.TabCars,
	}
}

// Init loads the persisted preference. Until a role has been chosen at least
// once the controller stays blocked.
func (c *Controller) Init(ctx context.Context) error {
	p, err := c.prefs.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load role preference: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = p.Role
	c.roleSet = p.RoleSet
	c.tab = entity.TabCars

	slog.Info("Role preference loaded", "role", c.role, "role_set", c.roleSet)
	return nil
}

// Role returns the active role.
func (c *Controller) Role() entity.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// Blocked reports whether the first-run role choice is still pending.
func (c *Controller) Blocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.roleSet
}

// View renders the current tab without changing anything.
func (c *Controller) View(ctx context.Context) (view.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(ctx, nil)
}

// Cars returns the inventory snapshot.
func (c *Controller) Cars(ctx context.Context) ([]entity.Car, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.svc.ListCars(ctx)
}

// Purchases returns the ledger snapshot.
func (c *Controller) Purchases(ctx context.Context) ([]entity.Purchase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.svc.ListPurchases(ctx)
}

// SetRole persists r, marks the role as chosen and unblocks the controller.
func (c *Controller) SetRole(ctx context.Context, r entity.Role) (m view.Model, err error) {
	defer c.observe(ctx, "set_role", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := entity.ParseRole(string(r)); err != nil {
		return c.fail(ctx, err)
	}
	if err := c.applyRole(ctx, r); err != nil {
		return c.fail(ctx, err)
	}
	return c.render(ctx, nil)
}

// ToggleRole flips admin and client.
func (c *Controller) ToggleRole(ctx context.Context) (m view.Model, err error) {
	defer c.observe(ctx, "toggle_role", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.roleSet {
		return c.fail(ctx, entity.ErrRoleSelectionRequired)
	}
	next := c.role.Toggle()
	if err := c.applyRole(ctx, next); err != nil {
		return c.fail(ctx, err)
	}
	return c.render(ctx, &view.Notice{
		Title: "Role Changed!",
		Text:  fmt.Sprintf("You are now in %s mode", strings.ToUpper(string(next))),
		Level: view.LevelSuccess,
	})
}

// SwitchTab makes tab the active view.
func (c *Controller) SwitchTab(ctx context.Context, tab entity.Tab) (m view.Model, err error) {
	defer c.observe(ctx, "switch_tab", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.roleSet {
		return c.fail(ctx, entity.ErrRoleSelectionRequired)
	}
	if _, err := entity.ParseTab(string(tab)); err != nil {
		return c.fail(ctx, err)
	}
	c.tab = tab
	return c.render(ctx, nil)
}

// AddCar lists a new car. Admin only.
func (c *Controller) AddCar(ctx context.Context, cmd entity.AddCar, ph *photo.Future) (m view.Model, err error) {
	defer c.observe(ctx, "add_car", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.permit(view.ActionAddCar); err != nil {
		return c.fail(ctx, err)
	}
	car, err := c.svc.AddCar(ctx, cmd, ph)
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.render(ctx, &view.Notice{
		Title: "Car Added!",
		Text:  fmt.Sprintf("%s has been added to the showroom", car.Model),
		Level: view.LevelSuccess,
	})
}

// EditCar changes a car's listing. Admin only. Unknown ids are a no-op.
func (c *Controller) EditCar(ctx context.Context, cmd entity.EditCar, ph *photo.Future) (m view.Model, err error) {
	defer c.observe(ctx, "edit_car", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.permit(view.ActionEditCar); err != nil {
		return c.fail(ctx, err)
	}
	car, err := c.svc.EditCar(ctx, cmd, ph)
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.render(ctx, &view.Notice{
		Title: "Car Updated!",
		Text:  fmt.Sprintf("%s has been updated successfully", car.Model),
		Level: view.LevelSuccess,
	})
}

// DeleteCar removes a car once confirm approves. Admin only. A declined
// confirmation and an unknown id are both no-ops.
func (c *Controller) DeleteCar(ctx context.Context, id string, confirm service.Confirmer) (m view.Model, err error) {
	defer c.observe(ctx, "delete_car", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.permit(view.ActionDeleteCar); err != nil {
		return c.fail(ctx, err)
	}
	car, deleted, err := c.svc.DeleteCar(ctx, id, confirm)
	if err != nil {
		return c.fail(ctx, err)
	}
	if !deleted {
		return c.render(ctx, nil)
	}
	return c.render(ctx, &view.Notice{
		Title: "Deleted!",
		Text:  fmt.Sprintf("%s has been removed from the showroom", car.Model),
		Level: view.LevelSuccess,
	})
}

// BuyCar purchases an Available car. Client only.
func (c *Controller) BuyCar(ctx context.Context, cmd entity.BuyCar) (m view.Model, err error) {
	defer c.observe(ctx, "buy_car", time.Now(), &err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.permit(view.ActionBuyCar); err != nil {
		return c.fail(ctx, err)
	}
	purchase, err := c.svc.BuyCar(ctx, cmd)
	if err != nil {
		return c.fail(ctx, err)
	}
	return c.render(ctx, &view.Notice{
		Title: "Purchase Successful!",
		Text:  fmt.Sprintf("Congratulations! You've purchased %s", purchase.CarModel),
		Level: view.LevelSuccess,
	})
}

// permit must be called with c.mu held.
func (c *Controller) permit(action view.Action) error {
	if !c.roleSet {
		return entity.ErrRoleSelectionRequired
	}
	var allowed bool
	switch action {
	case view.ActionAddCar, view.ActionEditCar, view.ActionDeleteCar:
		allowed = c.role == entity.RoleAdmin
	case view.ActionBuyCar:
		allowed = c.role == entity.RoleClient
	}
	if !allowed {
		return fmt.Errorf("%s as %s: %w", action, c.role, entity.ErrActionNotPermitted)
	}
	return nil
}

// applyRole persists before touching memory so a failed save changes nothing.
func (c *Controller) applyRole(ctx context.Context, r entity.Role) error {
	if err := c.prefs.Save(ctx, entity.Preference{Role: r, RoleSet: true}); err != nil {
		return fmt.Errorf("failed to save role preference: %w", err)
	}
	from := c.role
	c.role = r
	c.roleSet = true

	slog.Info("🔁 Role changed", "from", from, "to", r)
	if c.publisher != nil {
		event := entity.RoleChanged{From: from, To: r, ChangedAt: time.Now()}
		if err := c.publisher.PublishEvent(ctx, messaging.TopicRoles, string(r), event); err != nil {
			slog.Error("Failed to publish event", "type", event.EventType(), "err", err)
		}
	}
	return nil
}

// render must be called with c.mu held.
func (c *Controller) render(ctx context.Context, notice *view.Notice) (view.Model, error) {
	cars, err := c.svc.ListCars(ctx)
	if err != nil {
		return view.Model{}, fmt.Errorf("failed to list cars: %w", err)
	}
	purchases, err := c.svc.ListPurchases(ctx)
	if err != nil {
		return view.Model{}, fmt.Errorf("failed to list purchases: %w", err)
	}

	m := view.Render(view.State{
		Tab:       c.tab,
		Role:      c.role,
		Blocked:   !c.roleSet,
		Cars:      cars,
		Purchases: purchases,
	})
	m.Notice = notice
	return m, nil
}

// fail renders the unchanged state alongside err. Not-found errors are
// swallowed: the record is already gone, so there is nothing to report.
func (c *Controller) fail(ctx context.Context, err error) (view.Model, error) {
	if errors.Is(err, entity.ErrNotFound) {
		slog.Debug("Operation on missing record ignored", "err", err)
		return c.render(ctx, nil)
	}

	notice := &view.Notice{Title: "Error", Text: entity.UserMessage(err), Level: view.LevelError}
	switch {
	case errors.Is(err, entity.ErrConfirmationRequired):
		notice.Title = "Are you sure?"
		notice.Level = view.LevelWarning
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrActionNotPermitted),
		errors.Is(err, entity.ErrRoleSelectionRequired):
	default:
		slog.Error("Operation failed", "err", err)
	}

	m, rErr := c.render(ctx, notice)
	if rErr != nil {
		return m, errors.Join(err, rErr)
	}
	return m, err
}

func (c *Controller) observe(ctx context.Context, op string, start time.Time, err *error) {
	c.recorder.Observe(ctx, op, *err == nil, time.Since(start))
}
