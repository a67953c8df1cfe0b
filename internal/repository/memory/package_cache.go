package memory

import (
	"time"

	"video-saas-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PackageCache keeps subscription packages in process memory. Packages are not
// edited while subscriptions reference them, so a short TTL is enough.
type PackageCache struct {
	cache *cache.Cache
}

func NewPackageCache(ttl time.Duration) *PackageCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PackageCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *PackageCache) Save(pkg *entity.SubscriptionPackage) {
	if pkg == nil {
		return
	}
	copied := *pkg
	r.cache.Set(pkg.Id.String(), &copied, cache.DefaultExpiration)
}

func (r *PackageCache) Get(id uuid.UUID) (*entity.SubscriptionPackage, bool) {
	if x, found := r.cache.Get(id.String()); found {
		copied := *x.(*entity.SubscriptionPackage)
		return &copied, true
	}
	return nil, false
}

func (r *PackageCache) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}
