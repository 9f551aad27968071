package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/alert"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/response"
)

// Key prefixes and lifetimes per read model. Alerts live a day so the
// dashboard survives API restarts, asset state churns fast, rollups
// sit in between.
const (
	alertPrefix    = "alert:"
	devicePrefix   = "device:"
	responsePrefix = "response:"
	statsPrefix    = "stats:"

	alertTTL    = 24 * time.Hour
	deviceTTL   = 5 * time.Minute
	responseTTL = time.Hour
	statsTTL    = time.Hour
)

// StoreAlert caches an alert snapshot under alert:<id>.
func (v *Valkey) StoreAlert(ctx context.Context, a *alert.Alert) error {
	return v.setJSON(ctx, alertPrefix+a.ID, a, alertTTL)
}

// Alert loads a cached alert, ErrCacheMiss when absent.
func (v *Valkey) Alert(ctx context.Context, id string) (*alert.Alert, error) {
	var a alert.Alert
	if err := v.getJSON(ctx, alertPrefix+id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DropAlert evicts a cached alert, used when one is resolved.
func (v *Valkey) DropAlert(ctx context.Context, id string) error {
	return v.Del(ctx, alertPrefix+id)
}

// StoreAction caches a response action snapshot under response:<id>.
func (v *Valkey) StoreAction(ctx context.Context, act *response.Action) error {
	return v.setJSON(ctx, responsePrefix+act.ID, act, responseTTL)
}

// Action loads a cached response action, ErrCacheMiss when absent.
func (v *Valkey) Action(ctx context.Context, id string) (*response.Action, error) {
	var act response.Action
	if err := v.getJSON(ctx, responsePrefix+id, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

// StoreAssetState caches the last known state of an asset under
// device:<id>.
func (v *Valkey) StoreAssetState(ctx context.Context, a *asset.Asset) error {
	return v.setJSON(ctx, devicePrefix+a.ID, a, deviceTTL)
}

// AssetState loads a cached asset, ErrCacheMiss when absent.
func (v *Valkey) AssetState(ctx context.Context, id string) (*asset.Asset, error) {
	var a asset.Asset
	if err := v.getJSON(ctx, devicePrefix+id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// StoreStats caches a statistics rollup under stats:<name>.
func (v *Valkey) StoreStats(ctx context.Context, name string, rollup interface{}) error {
	return v.setJSON(ctx, statsPrefix+name, rollup, statsTTL)
}

// Stats loads a cached rollup into dest, ErrCacheMiss when absent.
func (v *Valkey) Stats(ctx context.Context, name string, dest interface{}) error {
	return v.getJSON(ctx, statsPrefix+name, dest)
}

func (v *Valkey) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return v.Set(ctx, key, data, ttl)
}

func (v *Valkey) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := v.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
