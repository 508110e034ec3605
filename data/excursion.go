package data

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidDataSets is returned by GetDataSets for malformed parameter sets.
var ErrInvalidDataSets = errors.New("invalid parameter sets")

// Excursion holds the state of the parameters, and possibly of the caches, of an
// interface when it was saved.
type Excursion struct {
	di       *Interface
	params   any
	caches   map[*Cache]map[string]any
	restored bool
}

// SaveExcursion saves the current parameters and, if saveCache is set, the content
// of every module cache. Call Restore to bring them back, usually with defer:
//
//	ex, err := di.SaveExcursion(false)
//	if err != nil {
//		return err
//	}
//	defer ex.Restore()
func (di *Interface) SaveExcursion(saveCache bool) (*Excursion, error) {
	params := di.Parameters()
	if params == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrModuleMissing, RoleParameters, di)
	}

	ex := &Excursion{di: di}

	// Caches first, copying the parameters could clear them.
	if saveCache {
		ex.caches = make(map[*Cache]map[string]any)

		for _, m := range di.Modules() {
			walk(m, func(mod Module) {
				if cached, ok := mod.(Cached); ok {
					ex.caches[cached.ModuleCache()] = cached.ModuleCache().snapshot()
				}
			})
		}
	}

	ex.params = params.Snapshot()
	di.excursions = append(di.excursions, ex)

	return ex, nil
}

// Restore brings the parameters, and the caches if they were saved, back to their
// state when the excursion was saved. Excursions saved after this one and still
// open are discarded. Calling Restore again does nothing.
func (ex *Excursion) Restore() error {
	if ex.restored {
		return nil
	}

	di := ex.di
	if i := slices.Index(di.excursions, ex); i >= 0 {
		for _, inner := range di.excursions[i:] {
			inner.restored = true
		}

		di.excursions = di.excursions[:i]
	}

	ex.restored = true

	err := di.Parameters().Restore(ex.params)
	if err != nil {
		return fmt.Errorf("restoring parameters: %w", err)
	}

	for cache, saved := range ex.caches {
		cache.repopulate(saved)
	}

	return nil
}

// WithExcursion runs fn and then restores the parameters, whether fn returns
// normally, with an error or panics. Excursions may be nested.
func (di *Interface) WithExcursion(saveCache bool, fn func() error) (err error) {
	ex, err := di.SaveExcursion(saveCache)
	if err != nil {
		return err
	}

	defer func() {
		restoreErr := ex.Restore()
		if err == nil {
			err = restoreErr
		}
	}()

	return fn()
}

// GetDataSets returns data for several sets of parameters, each applied on top of
// the current parameters in its own excursion. Sets are given either as maps, or
// as rows of values whose first row holds the parameter names. The parameters are
// the same before and after the call.
func (di *Interface) GetDataSets(ctx context.Context, maps []map[string]any, sets [][]any) ([]any, error) {
	if maps != nil && sets != nil {
		return nil, fmt.Errorf("%w: cannot give both maps and sets", ErrInvalidDataSets)
	}

	if maps == nil {
		converted, err := setsToMaps(sets)
		if err != nil {
			return nil, err
		}

		maps = converted
	}

	out := make([]any, 0, len(maps))

	for i, values := range maps {
		err := di.WithExcursion(false, func() error {
			err := di.Parameters().Update(values)
			if err != nil {
				return err
			}

			d, err := di.GetData(ctx)
			if err != nil {
				return err
			}

			out = append(out, d)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("parameter set %d: %w", i, err)
		}
	}

	return out, nil
}

func setsToMaps(sets [][]any) ([]map[string]any, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no parameter sets given", ErrInvalidDataSets)
	}

	header := make([]string, 0, len(sets[0]))

	for _, h := range sets[0] {
		name, ok := h.(string)
		if !ok {
			return nil, fmt.Errorf("%w: header must hold parameter names, got %v (%T)", ErrInvalidDataSets, h, h)
		}

		header = append(header, name)
	}

	out := make([]map[string]any, 0, len(sets)-1)

	for i, row := range sets[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d parameters", ErrInvalidDataSets, i+1, len(row), len(header))
		}

		m := make(map[string]any, len(row))
		for j, v := range row {
			m[header[j]] = v
		}

		out = append(out, m)
	}

	return out, nil
}
