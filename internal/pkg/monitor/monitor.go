// Package monitor keeps the topology cache in step with the hub. Each poll
// fetches the full topology plus every modem's link tables; pages render
// from the cache while mutations trigger an immediate out-of-cycle poll.
package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
	"github.com/anicoll/insteon-panel/internal/pkg/publisher"
	"github.com/anicoll/insteon-panel/internal/pkg/topology"
)

type hubClient interface {
	Topology(ctx context.Context) (model.Topology, error)
	Links(ctx context.Context, base string) (model.LinkTables, error)
}

type service struct {
	hub        hubClient
	cache      *topology.Cache
	interval   time.Duration
	errorChan  chan<- error
	onChange   func()
	mu         sync.Mutex
	lastLinks  map[string]uint64
	registered map[string]struct{}
}

func New(client hubClient, cache *topology.Cache, interval time.Duration, errorChan chan error) *service {
	return &service{
		hub:        client,
		cache:      cache,
		interval:   interval,
		errorChan:  errorChan,
		lastLinks:  make(map[string]uint64),
		registered: make(map[string]struct{}),
	}
}

// OnChange registers the callback fired after any poll that changed hub
// state. The web layer hangs its reload broadcast off this. Must be set
// before Run starts.
func (s *service) OnChange(fn func()) {
	s.onChange = fn
}

// Run polls until the context ends. The first poll failing is fatal since
// nothing can render without a snapshot; later failures keep the previous
// snapshot serving and are reported on the error channel.
func (s *service) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := s.Refresh(ctx); err != nil {
			zap.L().Error("hub poll failed", zap.Error(err))
			s.errorChan <- err
		}
	}
}

// Refresh performs one full poll: topology, then every modem's link
// tables. Mutation handlers call it directly so a redirect lands on
// confirmed hub state, hence the lock against the ticker loop.
// Publishers only hear about links in the defined bucket; the other
// buckets carry no status worth fanning out.
func (s *service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topo, err := s.hub.Topology(ctx)
	if err != nil {
		return err
	}
	changed := s.cache.Replace(topo)

	updates := make([]model.StatusUpdate, 0)
	for _, addr := range topo.ModemAddresses() {
		tables, err := s.hub.Links(ctx, "/modems/"+addr)
		if err != nil {
			return err
		}
		if fp := topology.HashJSON(tables); fp != s.lastLinks[addr] {
			s.lastLinks[addr] = fp
			changed = true
		}
		updates = append(updates, s.collect(addr, tables.Defined)...)
	}

	if changed && s.onChange != nil {
		s.onChange()
	}
	return publisher.Publish(ctx, updates)
}

func (s *service) collect(modem string, defined map[string]model.Link) []model.StatusUpdate {
	uids := lo.Keys(defined)
	sort.Strings(uids)

	updates := make([]model.StatusUpdate, 0, len(uids))
	for _, uid := range uids {
		link := defined[uid]
		key := modem + "_" + uid
		if _, ok := s.registered[key]; !ok {
			_ = publisher.RegisterLink(model.LinkRef{
				Modem:          modem,
				UID:            uid,
				ResponderID:    link.ResponderID,
				ResponderGroup: link.ResponderGroup,
			})
			s.registered[key] = struct{}{}
		}
		updates = append(updates, model.StatusUpdate{
			Modem:          modem,
			UID:            uid,
			ResponderID:    link.ResponderID,
			ResponderGroup: link.ResponderGroup,
			Status:         link.Status,
		})
	}
	return updates
}
