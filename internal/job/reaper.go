package job

import (
	"context"
	"time"

	"shop-backend/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reaper deletes carts and favorites whose expiry has passed. It is a
// best-effort cleanup; active flows never depend on it having run.
type Reaper struct {
	cartRepo     repository.CartRepository
	favoriteRepo repository.FavoriteRepository
	log          *zap.Logger
	schedule     string
	sched        *cron.Cron
}

func NewReaper(
	cartRepo repository.CartRepository,
	favoriteRepo repository.FavoriteRepository,
	log *zap.Logger,
	schedule string,
) *Reaper {
	return &Reaper{
		cartRepo:     cartRepo,
		favoriteRepo: favoriteRepo,
		log:          log,
		schedule:     schedule,
	}
}

func (r *Reaper) Start() error {
	r.sched = cron.New()
	if _, err := r.sched.AddFunc(r.schedule, func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("container sweep panicked", zap.Any("panic", rec))
			}
		}()
		r.Sweep(context.Background())
	}); err != nil {
		return err
	}

	r.sched.Start()
	return nil
}

func (r *Reaper) Stop() {
	if r.sched != nil {
		r.sched.Stop()
	}
}

// Sweep runs one pass and returns how many containers went away.
func (r *Reaper) Sweep(ctx context.Context) (carts, favorites int64) {
	now := time.Now()

	carts, err := r.cartRepo.DeleteExpired(ctx, now)
	if err != nil {
		r.log.Error("expired cart sweep failed", zap.Error(err))
	}

	favorites, err = r.favoriteRepo.DeleteExpired(ctx, now)
	if err != nil {
		r.log.Error("expired favorites sweep failed", zap.Error(err))
	}

	r.log.Info("container sweep finished",
		zap.Int64("carts_deleted", carts),
		zap.Int64("favorites_deleted", favorites))

	return carts, favorites
}
