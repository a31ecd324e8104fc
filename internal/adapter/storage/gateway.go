package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

// SchemaVersion is written into every record.
const SchemaVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported schema version")

type menuRecord struct {
	SchemaVersion int           `json:"schemaVersion"`
	Dishes        []domain.Dish `json:"dishes"`
}

type cartRecord struct {
	SchemaVersion int                `json:"schemaVersion"`
	Items         map[string]float64 `json:"items"`
}

type gateway struct {
	store   interfaces.KeyValueStore
	menuKey string
	cartKey string
	logger  logger.Logger
}

func NewGateway(store interfaces.KeyValueStore, menuKey, cartKey string, logger logger.Logger) interfaces.MenuGateway {
	return &gateway{
		store:   store,
		menuKey: menuKey,
		cartKey: cartKey,
		logger:  logger,
	}
}

func (g *gateway) LoadMenu(ctx context.Context) []domain.Dish {
	data, ok := g.read(ctx, g.menuKey, "menu_load_failed")
	if !ok {
		return []domain.Dish{}
	}

	dishes, err := decodeMenu(data)
	if err != nil {
		g.logger.Error("menu_parse_failed", "Stored menu is unreadable, starting empty", "", map[string]interface{}{
			"key": g.menuKey,
		}, err)
		return []domain.Dish{}
	}

	menu, dropped := sanitizeMenu(dishes)
	if dropped > 0 {
		g.logger.Info("menu_entries_dropped", "Dropped invalid dishes from stored menu", "", map[string]interface{}{
			"dropped": dropped,
		})
	}
	return menu
}

func (g *gateway) SaveMenu(ctx context.Context, menu []domain.Dish) error {
	if menu == nil {
		menu = []domain.Dish{}
	}
	data, err := json.Marshal(menuRecord{SchemaVersion: SchemaVersion, Dishes: menu})
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	return g.store.Set(ctx, g.menuKey, data)
}

func (g *gateway) LoadCart(ctx context.Context) domain.Cart {
	data, ok := g.read(ctx, g.cartKey, "cart_load_failed")
	if !ok {
		return domain.Cart{}
	}

	cart, err := decodeCart(data)
	if err != nil {
		g.logger.Error("cart_parse_failed", "Stored cart is unreadable, starting empty", "", map[string]interface{}{
			"key": g.cartKey,
		}, err)
		return domain.Cart{}
	}
	return cart
}

func (g *gateway) SaveCart(ctx context.Context, cart domain.Cart) error {
	items := make(map[string]float64, len(cart))
	for id, qty := range cart {
		items[id] = float64(qty)
	}
	data, err := json.Marshal(cartRecord{SchemaVersion: SchemaVersion, Items: items})
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return g.store.Set(ctx, g.cartKey, data)
}

func (g *gateway) read(ctx context.Context, key, action string) ([]byte, bool) {
	data, err := g.store.Get(ctx, key)
	if errors.Is(err, interfaces.ErrNotFound) {
		g.logger.Debug("record_missing", "No stored record, starting empty", "", map[string]interface{}{"key": key})
		return nil, false
	}
	if err != nil {
		g.logger.Error(action, "Failed to read stored record, starting empty", "", map[string]interface{}{"key": key}, err)
		return nil, false
	}
	return data, true
}

// decodeMenu reads both the versioned record and the legacy bare array.
func decodeMenu(data []byte) ([]domain.Dish, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var dishes []domain.Dish
		if err := json.Unmarshal(data, &dishes); err != nil {
			return nil, err
		}
		return dishes, nil
	}

	var rec menuRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.SchemaVersion)
	}
	return rec.Dishes, nil
}

// decodeCart reads both the versioned record and the legacy bare
// id->quantity object.
func decodeCart(data []byte) (domain.Cart, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return domain.Cart{}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	items := make(map[string]float64)
	if _, versioned := probe["schemaVersion"]; versioned {
		var rec cartRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
		if rec.SchemaVersion != SchemaVersion {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.SchemaVersion)
		}
		items = rec.Items
	} else if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	cart := make(domain.Cart, len(items))
	for id, f := range items {
		qty, err := domain.Quantity(f)
		if err != nil {
			continue
		}
		cart[id] = qty
	}
	return domain.Sanitize(cart), nil
}

func sanitizeMenu(dishes []domain.Dish) ([]domain.Dish, int) {
	menu := make([]domain.Dish, 0, len(dishes))
	seen := make(map[string]bool, len(dishes))
	for _, d := range dishes {
		if d.Validate() != nil || seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		menu = append(menu, d)
	}
	return menu, len(dishes) - len(menu)
}
