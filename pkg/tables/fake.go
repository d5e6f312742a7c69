package tables

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v6"
)

// Value pools for categorical columns. Identity-partitioned columns
// must stay low cardinality.
var (
	Countries         = []string{"US", "CA", "GB", "DE", "FR", "IT", "ES", "AU", "JP", "KR", "CN", "IN", "BR", "MX"}
	Regions           = []string{"North America", "Europe", "Asia Pacific", "South America", "Middle East", "Africa"}
	ProductCategories = []string{"Electronics", "Clothing", "Books", "Home & Garden", "Sports", "Automotive", "Beauty", "Toys"}
	OrderStatuses     = []string{"pending", "processing", "shipped", "delivered", "cancelled", "returned"}
	PaymentMethods    = []string{"credit_card", "debit_card", "paypal", "bank_transfer", "cash_on_delivery"}
	EventTypes        = []string{"page_view", "click", "purchase", "add_to_cart", "remove_from_cart", "search", "login", "logout"}
	LineStatuses      = []string{"pending", "confirmed", "shipped", "delivered"}
	DeviceTypes       = []string{"desktop", "mobile", "tablet"}
)

// chunkSource provides the randomness for one chunk. Seeding from the
// table name and chunk ID makes chunks reproducible and independent of
// worker scheduling.
type chunkSource struct {
	rng  *rand.Rand
	fake *gofakeit.Faker
}

func newChunkSource(table string, chunkID int64) *chunkSource {
	h := fnv.New64a()
	h.Write([]byte(table))
	seed := h.Sum64()
	return &chunkSource{
		rng:  rand.New(rand.NewPCG(seed, uint64(chunkID)+1)),
		fake: gofakeit.New(int64(seed) ^ chunkID),
	}
}

func (s *chunkSource) pick(values []string) string {
	return values[s.rng.IntN(len(values))]
}

// expFloat returns an exponentially distributed value with the given
// mean, matching the skew of real money and weight columns.
func (s *chunkSource) expFloat(mean float64) float64 {
	return s.rng.ExpFloat64() * mean
}

// cents returns an exponentially distributed amount in cents, for
// decimal(p,2) columns.
func (s *chunkSource) cents(mean float64) int64 {
	return int64(math.Round(s.expFloat(mean) * 100))
}

func (s *chunkSource) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// normInt returns a normally distributed integer.
func (s *chunkSource) normInt(mean, stddev float64) int32 {
	return int32(s.rng.NormFloat64()*stddev + mean)
}

func (s *chunkSource) chance(p float64) bool {
	return s.rng.Float64() < p
}

func (s *chunkSource) id(max int64) int64 {
	return 1 + s.rng.Int64N(max)
}
