package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/pkg/config"
	"github.com/kkuko-utils/jokak/pkg/dictionary"
	"github.com/kkuko-utils/jokak/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

type harness struct {
	dir    string
	solver *solver.Solver
	cfg    config.ServerConfig
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	write := func(name string, words ...string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(words, "\n")), 0644))
	}
	write("len3.txt", "가나다", "라마바", "가나라")
	write("len2.txt", "가나", "다라", "마바")

	loader := dictionary.NewLoader(dir, []config.TierConfig{
		{Name: "len2", File: "len2.txt", Length: 2},
		{Name: "len3", File: "len3.txt", Length: 3},
	})
	require.NoError(t, loader.LoadAll(context.Background()))

	cfg := config.DefaultConfig()
	cfg.Server.MaxWordsLimit = 2
	return &harness{
		dir:    dir,
		solver: solver.New(loader, cfg.Engine, nil),
		cfg:    cfg.Server,
	}
}

// run feeds the requests to a fresh server and returns the raw replies
// after the ready message.
func (h *harness) run(t *testing.T, requests ...any) []msgpack.RawMessage {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	srv := NewServer(h.solver, h.cfg, &in, &out)
	require.NoError(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, StatusReady, ready.Status)

	var replies []msgpack.RawMessage
	for out.Len() > 0 {
		var raw msgpack.RawMessage
		require.NoError(t, dec.Decode(&raw))
		replies = append(replies, raw)
	}
	return replies
}

func decode[T any](t *testing.T, raw msgpack.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, msgpack.Unmarshal(raw, &v))
	return v
}

func TestServerCombine(t *testing.T) {
	h := newHarness(t)
	replies := h.run(t,
		Request{ID: "a", Action: ActionCombine, Tiles: "다 나 가 라 마 바"},
		Request{ID: "b", Action: ActionCombine, Tiles: "가나다라", Tiers: []string{"len2"}},
	)
	require.Len(t, replies, 2)

	a := decode[CombineResponse](t, replies[0])
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, StatusOK, a.Status)
	require.Len(t, a.Passes, 2)
	assert.Equal(t, "len3", a.Passes[0].Tier)
	assert.Equal(t, "len2", a.Passes[1].Tier)
	total := a.Passes[0].Count + a.Passes[1].Count
	assert.Positive(t, total)
	assert.GreaterOrEqual(t, a.TimeTaken, int64(0))

	b := decode[CombineResponse](t, replies[1])
	assert.Equal(t, StatusOK, b.Status)
	require.Len(t, b.Passes, 1)
	assert.ElementsMatch(t, []string{"가나", "다라"}, b.Passes[0].Words)
	assert.Equal(t, "", b.Leftover)
}

func TestServerCombineErrors(t *testing.T) {
	h := newHarness(t)
	replies := h.run(t,
		Request{ID: "bad", Action: ActionCombine, Tiles: "1234"},
		Request{ID: "tier", Action: ActionCombine, Tiles: "가나", Tiers: []string{"len9"}},
	)
	require.Len(t, replies, 2)

	bad := decode[CombineResponse](t, replies[0])
	assert.Equal(t, StatusError, bad.Status)
	assert.Contains(t, bad.Error, "invalid tiles")

	tier := decode[CombineResponse](t, replies[1])
	assert.Equal(t, StatusError, tier.Status)
	assert.Contains(t, tier.Error, "tier not found")
	assert.Equal(t, "가나", tier.Leftover)
}

func TestServerInventory(t *testing.T) {
	h := newHarness(t)
	page := `<div class="dress-item expl-mother"><div class="jt-image dress-item-image">x1</div><div class="dress-item-title">글자 조각 - 가</div></div>` +
		`<div class="dress-item expl-mother"><div class="jt-image dress-item-image">x1</div><div class="dress-item-title">글자 조각 - 나</div></div>` +
		`<div class="dress-item expl-mother"><div class="jt-image dress-item-image">x2</div><div class="dress-item-title">희귀 글자 조각 - 다</div></div>`

	replies := h.run(t, Request{ID: "inv", Action: ActionInventory, HTML: page})
	require.Len(t, replies, 1)

	resp := decode[InventoryResponse](t, replies[0])
	assert.Equal(t, StatusOK, resp.Status)
	require.Len(t, resp.Grades, 3)

	assert.Equal(t, "normal", resp.Grades[0].Grade)
	assert.Equal(t, "가나", resp.Grades[0].Tiles)
	require.Len(t, resp.Grades[0].Passes, 2)
	assert.Equal(t, []string{"가나"}, resp.Grades[0].Passes[1].Words)

	assert.Equal(t, "advanced", resp.Grades[1].Grade)
	assert.Equal(t, "", resp.Grades[1].Tiles)

	assert.Equal(t, "rare", resp.Grades[2].Grade)
	assert.Equal(t, "다다", resp.Grades[2].Leftover)
}

func TestServerInventoryGradeError(t *testing.T) {
	h := newHarness(t)
	engine := config.DefaultConfig().Engine
	engine.MaxTiles = 3
	h.solver = solver.New(h.solver.Loader(), engine, nil)

	page := `<div class="dress-item expl-mother"><div class="jt-image dress-item-image">x5</div><div class="dress-item-title">글자 조각 - 가</div></div>` +
		`<div class="dress-item expl-mother"><div class="jt-image dress-item-image">x1</div><div class="dress-item-title">희귀 글자 조각 - 가</div></div>` +
		`<div class="dress-item expl-mother"><div class="jt-image dress-item-image">x1</div><div class="dress-item-title">희귀 글자 조각 - 나</div></div>`

	replies := h.run(t, Request{ID: "inv", Action: ActionInventory, HTML: page})
	require.Len(t, replies, 1)

	resp := decode[InventoryResponse](t, replies[0])
	assert.Equal(t, StatusOK, resp.Status)
	require.Len(t, resp.Grades, 3)

	assert.Contains(t, resp.Grades[0].Error, "too many tiles")
	assert.Equal(t, "가가가가가", resp.Grades[0].Leftover)

	assert.Empty(t, resp.Grades[2].Error)
	require.Len(t, resp.Grades[2].Passes, 2)
	assert.Equal(t, []string{"가나"}, resp.Grades[2].Passes[1].Words)
	assert.Equal(t, "", resp.Grades[2].Leftover)
}

func TestServerInventoryTooLarge(t *testing.T) {
	h := newHarness(t)
	h.cfg.MaxHTMLBytes = 10
	replies := h.run(t, Request{ID: "big", Action: ActionInventory, HTML: strings.Repeat("<p>", 10)})
	require.Len(t, replies, 1)

	resp := decode[InventoryResponse](t, replies[0])
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "limit 10")
	assert.Empty(t, resp.Grades)
}

func TestServerDictionary(t *testing.T) {
	h := newHarness(t)
	replies := h.run(t,
		Request{ID: "info", Action: ActionDictInfo},
		Request{ID: "w", Action: ActionWords, Tier: "len3", Prefix: "가"},
		Request{ID: "w1", Action: ActionWords, Tier: "len3", Prefix: "가", Limit: 1},
		Request{ID: "none", Action: ActionWords, Tier: "len3", Prefix: "하"},
		Request{ID: "missing", Action: ActionWords, Tier: "nope"},
	)
	require.Len(t, replies, 5)

	info := decode[DictionaryResponse](t, replies[0])
	assert.Equal(t, StatusOK, info.Status)
	require.Len(t, info.Tiers, 2)
	assert.Equal(t, "len2", info.Tiers[0].Name)
	assert.Equal(t, 3, info.Tiers[1].Words)
	assert.Equal(t, 6, info.TotalWords)
	assert.NotZero(t, info.LoadedAt)

	w := decode[WordsResponse](t, replies[1])
	assert.Equal(t, []string{"가나다", "가나라"}, w.Words)
	assert.Equal(t, 2, w.Count)

	w1 := decode[WordsResponse](t, replies[2])
	assert.Equal(t, []string{"가나다"}, w1.Words)

	none := decode[WordsResponse](t, replies[3])
	assert.Equal(t, StatusOK, none.Status)
	assert.Empty(t, none.Words)

	missing := decode[WordsResponse](t, replies[4])
	assert.Equal(t, StatusError, missing.Status)
}

func TestServerReload(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "len2.txt"), []byte("가나\n사아"), 0644))

	replies := h.run(t,
		Request{ID: "one", Action: ActionReload, Tier: "len2"},
		Request{ID: "bad", Action: ActionReload, Tier: "nope"},
		Request{ID: "all", Action: ActionReload},
	)
	require.Len(t, replies, 3)

	one := decode[DictionaryResponse](t, replies[0])
	assert.Equal(t, StatusOK, one.Status)
	assert.Equal(t, 2, one.Tiers[0].Words)

	bad := decode[DictionaryResponse](t, replies[1])
	assert.Equal(t, StatusError, bad.Status)

	all := decode[DictionaryResponse](t, replies[2])
	assert.Equal(t, StatusOK, all.Status)
	assert.Equal(t, 5, all.TotalWords)
}

func TestServerHealthAndUnknown(t *testing.T) {
	h := newHarness(t)
	replies := h.run(t,
		Request{ID: "h", Action: ActionHealth},
		Request{ID: "x", Action: "dance"},
		"not a map",
		Request{ID: "h2", Action: ActionHealth},
	)
	require.Len(t, replies, 4)

	assert.Equal(t, StatusResponse{ID: "h", Status: StatusOK}, decode[StatusResponse](t, replies[0]))

	unknown := decode[StatusResponse](t, replies[1])
	assert.Equal(t, StatusError, unknown.Status)
	assert.Contains(t, unknown.Error, "dance")

	invalid := decode[StatusResponse](t, replies[2])
	assert.Equal(t, StatusError, invalid.Status)
	assert.Equal(t, "invalid request", invalid.Error)

	assert.Equal(t, "h2", decode[StatusResponse](t, replies[3]).ID)
}

func TestServerCancelled(t *testing.T) {
	h := newHarness(t)
	var in, out bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode(Request{ID: "h", Action: ActionHealth}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv := NewServer(h.solver, h.cfg, &in, &out)
	assert.ErrorIs(t, srv.Start(ctx), context.Canceled)
}
