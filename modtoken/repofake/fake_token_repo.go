package faketokenrepo

import (
	"context"
	"sync"

	"github.com/xkjyeah/myinfo-reddit/modtoken"
)

var _ modtoken.TokenRepo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory TokenRepo. SaveCalls records every
// Save invocation so tests can assert a token was stored exactly once.
type FakeTokenRepo struct {
	tokens map[string]string
	lock   sync.RWMutex

	SaveCalls []SaveCall
}

type SaveCall struct {
	Subreddit    string
	RefreshToken string
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{tokens: make(map[string]string)}
}

func (tr *FakeTokenRepo) Save(_ context.Context, subreddit, refreshToken string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.tokens[subreddit] = refreshToken
	tr.SaveCalls = append(tr.SaveCalls, SaveCall{Subreddit: subreddit, RefreshToken: refreshToken})
	return nil
}

func (tr *FakeTokenRepo) Get(_ context.Context, subreddit string) (string, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	return tr.tokens[subreddit], nil
}

func (tr *FakeTokenRepo) Delete(_ context.Context, subreddit string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	delete(tr.tokens, subreddit)
	return nil
}
