package service

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reviewapi/internal/cache"
	"reviewapi/internal/model"
	repoMocks "reviewapi/internal/repository/mocks"
)

var (
	alice = model.Principal{ID: "user-alice", Email: "alice@example.com", DisplayName: "Alice"}
	bob   = model.Principal{ID: "user-bob", Email: "bob@example.com"}
	fixed = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func upload(name string) model.Upload {
	return model.Upload{Filename: name, ContentType: "image/png", Size: 4, Body: strings.NewReader("data")}
}

func uploads(names ...string) []model.Upload {
	out := make([]model.Upload, 0, len(names))
	for _, n := range names {
		out = append(out, upload(n))
	}
	return out
}

// byName matches an upload by filename.
func byName(name string) any {
	return mock.MatchedBy(func(u model.Upload) bool { return u.Filename == name })
}

// echoCreate makes Create return whatever review it was given.
func echoCreate(mRepo *repoMocks.MockReviewRepository) *model.Review {
	stored := &model.Review{}
	mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).
		Run(func(args mock.Arguments) { *stored = *args.Get(1).(*model.Review) }).
		Return(stored, nil).Once()
	return stored
}

// echoUpdate makes Update return whatever review it was given.
func echoUpdate(mRepo *repoMocks.MockReviewRepository) *model.Review {
	stored := &model.Review{}
	mRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Review")).
		Run(func(args mock.Arguments) { *stored = *args.Get(1).(*model.Review) }).
		Return(stored, nil).Once()
	return stored
}

func newRedisCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c, err := cache.NewRedis(client, prometheus.NewRegistry())
	require.NoError(t, err)
	return c, mr
}
