package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xkjyeah/myinfo-reddit/session"
)

const testSecret = "test-session-secret"

func TestStore_EncodeDecode(t *testing.T) {
	store := session.NewStore(testSecret)

	t.Run("round trip preserves all fields", func(t *testing.T) {
		claims := session.Claims{
			ResidentialStatus: "C",
			RedditUsername:    "mock_test_user",
			TargetSubreddit:   "testsubreddit",
		}

		token, err := store.Encode(claims, session.DefaultTTL)
		require.NoError(t, err)

		decoded := store.Decode(token)
		require.Equal(t, claims, decoded)
	})

	t.Run("empty token yields empty claims", func(t *testing.T) {
		require.Equal(t, session.Claims{}, store.Decode(""))
	})

	t.Run("malformed token yields empty claims", func(t *testing.T) {
		require.Equal(t, session.Claims{}, store.Decode("not-a-jwt"))
	})

	t.Run("tampered token yields empty claims", func(t *testing.T) {
		token, err := store.Encode(session.Claims{RedditUsername: "someone"}, session.DefaultTTL)
		require.NoError(t, err)

		require.Equal(t, session.Claims{}, store.Decode(token+"x"))
	})

	t.Run("token signed with another secret yields empty claims", func(t *testing.T) {
		other := session.NewStore("another-secret")
		token, err := other.Encode(session.Claims{RedditUsername: "someone"}, session.DefaultTTL)
		require.NoError(t, err)

		require.Equal(t, session.Claims{}, store.Decode(token))
	})

	t.Run("expired token yields empty claims", func(t *testing.T) {
		token, err := store.Encode(session.Claims{TargetSubreddit: "sg"}, session.DefaultTTL)
		require.NoError(t, err)

		defer func() { session.NowTimeFunc = time.Now }()
		session.NowTimeFunc = func() time.Time { return time.Now().Add(session.DefaultTTL + time.Minute) }

		require.Equal(t, session.Claims{}, store.Decode(token))
	})
}

func TestMerge(t *testing.T) {
	t.Run("claims accumulate across steps", func(t *testing.T) {
		step1 := session.Merge(session.Claims{}, session.Claims{TargetSubreddit: "testsubreddit"})
		step2 := session.Merge(step1, session.Claims{ResidentialStatus: "C"})
		step3 := session.Merge(step2, session.Claims{RedditUsername: "mock_test_user"})

		require.Equal(t, session.Claims{
			ResidentialStatus: "C",
			RedditUsername:    "mock_test_user",
			TargetSubreddit:   "testsubreddit",
		}, step3)
	})

	t.Run("empty update fields never clear existing claims", func(t *testing.T) {
		base := session.Claims{ResidentialStatus: "P", TargetSubreddit: "sg"}
		merged := session.Merge(base, session.Claims{})
		require.Equal(t, base, merged)
	})

	t.Run("non-empty update fields overwrite", func(t *testing.T) {
		base := session.Claims{TargetSubreddit: "old"}
		merged := session.Merge(base, session.Claims{TargetSubreddit: "new"})
		require.Equal(t, "new", merged.TargetSubreddit)
	})

	t.Run("merge survives an encode/decode cycle", func(t *testing.T) {
		store := session.NewStore(testSecret)

		token, err := store.Encode(session.Claims{TargetSubreddit: "testsubreddit"}, session.DefaultTTL)
		require.NoError(t, err)

		merged := session.Merge(store.Decode(token), session.Claims{ResidentialStatus: "C"})
		token, err = store.Encode(merged, session.DefaultTTL)
		require.NoError(t, err)

		decoded := store.Decode(token)
		require.Equal(t, "testsubreddit", decoded.TargetSubreddit)
		require.Equal(t, "C", decoded.ResidentialStatus)
	})
}
