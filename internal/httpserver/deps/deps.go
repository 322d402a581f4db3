package deps

import (
	"time"

	"github.com/ndelvaux/handleforge/internal/gen"
	"github.com/ndelvaux/handleforge/internal/logger"
	"github.com/ndelvaux/handleforge/internal/oracle"
	"github.com/ndelvaux/handleforge/internal/resolve"
	redisstore "github.com/ndelvaux/handleforge/internal/store/redis"
	sqlitestore "github.com/ndelvaux/handleforge/internal/store/sqlite"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Generator *gen.Generator     // seed -> candidate expansion
	Engine    *resolve.Engine    // candidate -> availability resolution
	Adapter   *oracle.Adapter    // unified oracle capability (for mode reporting)
	Cache     *redisstore.Cache  // availability cache (readiness probe)
	Store     *sqlitestore.Store // users + generation history

	DefaultLimit    int  // results a suggest call returns when the body omits limit
	RateLimitBurst  int  // token bucket size for /api/suggest
	RateLimitPerMin int  // bucket refill per client IP per minute
	TrustProxy      bool // true if running behind a trusted reverse proxy
}
