package ml

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloadable wraps a Model so a new artifact can be swapped in while requests
// are in flight.
type Reloadable struct {
	mu    sync.RWMutex
	model Model
}

func NewReloadable(model Model) *Reloadable {
	return &Reloadable{model: model}
}

func (r *Reloadable) PredictSuccessProbability(in Input) (float64, error) {
	r.mu.RLock()
	model := r.model
	r.mu.RUnlock()
	return model.PredictSuccessProbability(in)
}

// FeatureImportances delegates to the wrapped model when it has the
// capability; otherwise nil, which callers treat as absent.
func (r *Reloadable) FeatureImportances() []float64 {
	r.mu.RLock()
	model := r.model
	r.mu.RUnlock()
	if reporter, ok := model.(ImportanceReporter); ok {
		return reporter.FeatureImportances()
	}
	return nil
}

// Swap replaces the wrapped model.
func (r *Reloadable) Swap(model Model) {
	r.mu.Lock()
	r.model = model
	r.mu.Unlock()
}

// Watch reloads the artifact into target whenever the file at path is
// rewritten. A broken write keeps the previous model in place.
func Watch(ctx context.Context, path, modelType string, target *Reloadable) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				model, err := LoadModel(modelType, path)
				if err != nil {
					zap.L().Warn("model reload failed, keeping previous model",
						zap.String("path", path), zap.Error(err))
					continue
				}
				target.Swap(model)
				zap.L().Info("model artifact reloaded", zap.String("path", path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				zap.L().Warn("model watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
