package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	registeredPublishers = make(map[string]publisher)
	lastStatuses         sync.Map
)

type publisher interface {
	// Write fans observed status transitions out to the adapter.
	Write(ctx context.Context, updates []model.StatusUpdate) error
	RegisterLink(link model.LinkRef) error
}

func RegisterPublisher(name string, pub publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = pub
	return nil
}

// Publish forwards status updates to every registered adapter. Updates
// whose status matches the last observation are dropped, so adapters only
// see transitions.
func Publish(ctx context.Context, updates []model.StatusUpdate) error {
	changed := make([]model.StatusUpdate, 0, len(updates))
	for _, u := range updates {
		if !shouldUpdate(u) {
			continue
		}
		changed = append(changed, u)
	}
	if len(changed) == 0 {
		return nil
	}
	for name, pub := range registeredPublishers {
		if err := pub.Write(ctx, changed); err != nil {
			zap.L().Error("failed to publish updates", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("published link updates", zap.Int("count", len(changed)), zap.String("publisher", name))
	}
	return nil
}

func RegisterLink(link model.LinkRef) error {
	for name, pub := range registeredPublishers {
		if err := pub.RegisterLink(link); err != nil {
			zap.L().Error("failed to register link", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered link", zap.String("uid", link.UID), zap.String("publisher", name))
	}
	return nil
}

func shouldUpdate(u model.StatusUpdate) bool {
	key := fmt.Sprintf("%s_%s", u.Modem, u.UID)
	old, exists := lastStatuses.Load(key)
	if exists && old.(model.LinkStatus) == u.Status {
		return false
	}
	if !exists {
		zap.L().Info("tracking link", zap.String("modem", u.Modem), zap.String("uid", u.UID), zap.String("status", u.Status.String()))
	}
	lastStatuses.Store(key, u.Status)
	return true
}

// Reset clears registered adapters and observed state between test cases.
func Reset() {
	registeredPublishers = make(map[string]publisher)
	lastStatuses = sync.Map{}
}
