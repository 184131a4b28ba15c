package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

func textCond(text string) types.SearchCondition {
	return types.NewTextConditionWithText(text)
}

func TestNormalize_AppendsTrailingBlank(t *testing.T) {
	out := Normalize(types.DialectGoogle, []types.SearchCondition{textCond("solar")})
	require.Len(t, out, 2)
	assert.False(t, out[0].IsBlank())
	assert.True(t, out[1].IsBlank())
	assert.Equal(t, types.ConditionText, out[1].Type)
}

func TestNormalize_CollapsesExtraBlanks(t *testing.T) {
	blank1 := types.NewTextCondition()
	blank2 := types.NewTextCondition()
	out := Normalize(types.DialectGoogle, []types.SearchCondition{blank1, textCond("anode"), blank2})
	require.Len(t, out, 2)
	assert.Equal(t, "anode", out[0].Text.Text)
	assert.True(t, out[1].IsBlank())
}

func TestNormalize_EmptyListSynthesizesBlank(t *testing.T) {
	out := Normalize(types.DialectGoogle, nil)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsBlank())
}

func TestNormalize_Idempotent(t *testing.T) {
	in := []types.SearchCondition{textCond("anode"), types.NewTextCondition(), textCond("cathode")}
	once := Normalize(types.DialectGoogle, in)
	twice := Normalize(types.DialectGoogle, once)
	assert.Equal(t, once, twice)

	usptoOnce := Normalize(types.DialectUSPTO, in)
	usptoTwice := Normalize(types.DialectUSPTO, usptoOnce)
	assert.Equal(t, usptoOnce, usptoTwice)
}

func TestNormalize_USPTOCollapsesToFirst(t *testing.T) {
	out := Normalize(types.DialectUSPTO, []types.SearchCondition{textCond("first"), textCond("second")})
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Text.Text)
}

func TestNormalize_USPTOSwitchIsLossy(t *testing.T) {
	conds := []types.SearchCondition{textCond("first"), textCond("second"), types.NewTextCondition()}
	collapsed := Normalize(types.DialectUSPTO, conds)
	require.Len(t, collapsed, 1)

	back := Normalize(types.DialectGoogle, collapsed)
	require.Len(t, back, 2)
	assert.Equal(t, "first", back[0].Text.Text)
	assert.True(t, back[1].IsBlank())
}

func TestNormalize_USPTONonTextFirstYieldsTextCondition(t *testing.T) {
	classification := types.SearchCondition{
		ID:             "clf-1",
		Type:           types.ConditionClassification,
		Classification: &types.ClassificationData{CPC: "H01L31/00"},
	}
	out := Normalize(types.DialectUSPTO, []types.SearchCondition{classification, textCond("solar")})
	require.Len(t, out, 1)
	assert.Equal(t, types.ConditionText, out[0].Type)
}

func TestRemove_DeletesAndRenormalizes(t *testing.T) {
	a := textCond("anode")
	b := textCond("cathode")
	conds := Normalize(types.DialectGoogle, []types.SearchCondition{a, b})

	out := Remove(types.DialectGoogle, conds, a.ID)
	require.Len(t, out, 2)
	assert.Equal(t, "cathode", out[0].Text.Text)
	assert.True(t, out[1].IsBlank())
}

func TestRemove_TrailingBlankClearsInPlace(t *testing.T) {
	conds := Normalize(types.DialectGoogle, nil)
	require.Len(t, conds, 1)
	blankID := conds[0].ID

	out := Remove(types.DialectGoogle, conds, blankID)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsBlank())
}

type stubAnswer struct {
	delay time.Duration
	text  string
}

// stubGenerator answers by the number of conditions in the request, so the
// behavior is deterministic regardless of goroutine scheduling.
type stubGenerator struct {
	mu      sync.Mutex
	byCount map[int]stubAnswer
	err     error
}

func (g *stubGenerator) Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	g.mu.Lock()
	answer := g.byCount[len(req.SearchConditions)]
	err := g.err
	g.mu.Unlock()

	if answer.delay > 0 {
		select {
		case <-time.After(answer.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &types.GenerateResponse{QueryStringDisplay: answer.text, URL: "https://example.test/q"}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestForm_LatestRequestWins(t *testing.T) {
	gen := &stubGenerator{
		// The first mutation's response arrives after the second's; it must
		// be discarded on arrival.
		byCount: map[int]stubAnswer{
			1: {delay: 100 * time.Millisecond, text: "stale"},
			2: {text: "fresh"},
		},
	}
	form := NewForm(gen)
	ctx := context.Background()

	form.UpdateCondition(ctx, form.Snapshot().Conditions[0])
	form.AddCondition(ctx, textCond("fresh input"))

	waitFor(t, func() bool { return form.Snapshot().DisplayString == "fresh" })

	// Give the stale response time to arrive and (correctly) be dropped.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, "fresh", form.Snapshot().DisplayString)
}

func TestForm_ErrorFailsClosed(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend unreachable")}
	form := NewForm(gen)

	form.AddCondition(context.Background(), textCond("solar"))

	waitFor(t, func() bool { return form.Snapshot().DisplayString != "" })
	snap := form.Snapshot()
	assert.Contains(t, snap.DisplayString, "Error:")
	assert.Equal(t, types.SentinelURL, snap.URL)
}

func TestForm_TimeoutFailsClosed(t *testing.T) {
	gen := &stubGenerator{byCount: map[int]stubAnswer{2: {delay: time.Second, text: "slow"}}}
	form := NewForm(gen, WithTimeout(20*time.Millisecond))

	form.AddCondition(context.Background(), textCond("solar"))

	waitFor(t, func() bool { return form.Snapshot().DisplayString != "" })
	snap := form.Snapshot()
	assert.Contains(t, snap.DisplayString, "Error:")
	assert.Equal(t, types.SentinelURL, snap.URL)
}

func TestForm_DialectSwitchCollapses(t *testing.T) {
	gen := &stubGenerator{}
	form := NewForm(gen)
	ctx := context.Background()

	form.UpdateCondition(ctx, func() types.SearchCondition {
		c := form.Snapshot().Conditions[0]
		c.Text.Text = "first"
		return c
	}())
	form.AddCondition(ctx, textCond("second"))
	require.Len(t, form.Snapshot().Conditions, 3)

	form.SetDialect(ctx, types.DialectUSPTO)
	snap := form.Snapshot()
	require.Len(t, snap.Conditions, 1)
	assert.Equal(t, "first", snap.Conditions[0].Text.Text)

	form.SetDialect(ctx, types.DialectGoogle)
	snap = form.Snapshot()
	require.Len(t, snap.Conditions, 2)
	assert.Equal(t, "first", snap.Conditions[0].Text.Text)
}

func TestForm_DialectSwitchWithNonTextFirstKeepsTextOnly(t *testing.T) {
	form := NewForm(&stubGenerator{})
	ctx := context.Background()

	form.ApplyParsed(ctx, &types.ParseResponse{
		SearchConditions: []types.SearchCondition{
			{
				ID:             "clf-1",
				Type:           types.ConditionClassification,
				Classification: &types.ClassificationData{CPC: "H01L31/00"},
			},
			textCond("solar"),
		},
		GoogleLikeFields: types.NewCommonFields(),
		USPTOSettings:    types.DefaultUSPTOSettings(),
	})

	form.SetDialect(ctx, types.DialectUSPTO)
	snap := form.Snapshot()
	require.Len(t, snap.Conditions, 1)
	assert.Equal(t, types.ConditionText, snap.Conditions[0].Type)
}

func TestForm_SetConditionTextAppendsBlank(t *testing.T) {
	form := NewForm(&stubGenerator{})
	ctx := context.Background()

	blankID := form.Snapshot().Conditions[0].ID
	form.SetConditionText(ctx, blankID, "graphene")

	snap := form.Snapshot()
	require.Len(t, snap.Conditions, 2)
	assert.Equal(t, "graphene", snap.Conditions[0].Text.Text)
	assert.Equal(t, blankID, snap.Conditions[0].ID)
	assert.True(t, snap.Conditions[1].IsBlank())
}

//Personal.AI order the ending
