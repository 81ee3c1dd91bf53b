package profile

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// Projector joins user projections onto profiles at read time. The cache is
// optional; cache failures degrade to a direct repository read.
type Projector struct {
	users  user.Repository
	cache  user.ProjectionCache
	logger logger.Logger
}

func NewProjector(users user.Repository, cache user.ProjectionCache, log logger.Logger) *Projector {
	return &Projector{users: users, cache: cache, logger: log}
}

func (pj *Projector) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Projection, error) {
	found := make(map[uuid.UUID]user.Projection, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	missing := ids
	if pj.cache != nil {
		cached, err := pj.cache.GetMany(ctx, ids)
		if err != nil {
			pj.logger.Warn("Projection cache read failed", zap.Error(err))
		} else {
			missing = missing[:0:0]
			for _, id := range ids {
				if p, ok := cached[id]; ok {
					found[id] = p
				} else {
					missing = append(missing, id)
				}
			}
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	fromDB, err := pj.users.FindProjections(ctx, missing)
	if err != nil {
		return nil, err
	}
	fresh := make([]user.Projection, 0, len(fromDB))
	for id, p := range fromDB {
		found[id] = p
		fresh = append(fresh, p)
	}

	if pj.cache != nil && len(fresh) > 0 {
		if err := pj.cache.SetMany(ctx, fresh); err != nil {
			pj.logger.Warn("Projection cache write failed", zap.Error(err))
		}
	}
	return found, nil
}

// Evict drops the cached projection of id, logging instead of failing.
func (pj *Projector) Evict(ctx context.Context, id uuid.UUID) {
	if pj.cache == nil {
		return
	}
	if err := pj.cache.Evict(ctx, id); err != nil {
		pj.logger.Warn("Projection cache evict failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}
