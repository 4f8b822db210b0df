package retrieval

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/schedule"
	"github.com/hilacarreon/vecinito/pkg/logger"
)

// Strategy is one way of finding candidate entries for a query.
type Strategy interface {
	Name() string
	Search(ctx context.Context, query, zone string, topK int) ([]catalog.Annotated, error)
}

// Location is a user position for distance annotation.
type Location struct {
	Lat float64
	Lon float64
}

// Orchestrator tries strategies in order until one returns results,
// then annotates them with open-now state and, when the user shared a
// location, distance.
type Orchestrator struct {
	strategies []Strategy
	topK       int
	log        logger.Logger
	onFallback func(from string)
	now        func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithFallbackObserver registers a hook called whenever a strategy
// yields nothing and the next one is tried. Used for metrics.
func WithFallbackObserver(fn func(from string)) OrchestratorOption {
	return func(o *Orchestrator) { o.onFallback = fn }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator builds an Orchestrator over strategies, tried in the
// given order.
func NewOrchestrator(strategies []Strategy, topK int, log logger.Logger, opts ...OrchestratorOption) *Orchestrator {
	if topK <= 0 {
		topK = DefaultTopK
	}
	o := &Orchestrator{
		strategies: strategies,
		topK:       topK,
		log:        log,
		onFallback: func(string) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search runs the strategy chain. A strategy error is logged and
// treated as an empty result so a dead vector store degrades to the
// lexical filter instead of failing the request.
func (o *Orchestrator) Search(ctx context.Context, query, zone string, loc *Location) []catalog.Annotated {
	for i, strategy := range o.strategies {
		results, err := strategy.Search(ctx, query, zone, o.topK)
		if err != nil {
			o.log.Warn("retrieval strategy failed",
				logger.StringField("strategy", strategy.Name()),
				logger.ErrorField(err))
		}
		if len(results) == 0 {
			if i < len(o.strategies)-1 {
				o.onFallback(strategy.Name())
			}
			continue
		}
		return o.annotate(results, loc)
	}
	return nil
}

// annotate fills in open-now state and distance, then orders located
// entries nearest-first when the user's position is known. Entries
// without coordinates (service providers) keep their relevance order
// after the located ones.
func (o *Orchestrator) annotate(results []catalog.Annotated, loc *Location) []catalog.Annotated {
	now := o.now()
	for i := range results {
		results[i].OpenNow = schedule.Evaluate(results[i].Hours, now)
		if loc != nil && results[i].HasLocation() {
			results[i].Distance = Haversine(loc.Lat, loc.Lon, results[i].Lat, results[i].Lon)
		} else {
			results[i].Distance = -1
		}
	}

	if loc != nil {
		sort.SliceStable(results, func(i, j int) bool {
			di, dj := results[i].Distance, results[j].Distance
			if di < 0 || dj < 0 {
				return dj < 0 && di >= 0
			}
			return di < dj
		})
	}
	return results
}

// earthRadiusKM is the mean Earth radius.
const earthRadiusKM = 6371

// Haversine returns the great-circle distance in kilometers between
// two coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
