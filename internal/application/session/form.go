package session

import (
	"context"
	"sync"
	"time"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// DefaultRequestTimeout bounds each regeneration round trip.
const DefaultRequestTimeout = 10 * time.Second

// Generator is the collaborator that turns form state into a query string.
type Generator interface {
	Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error)
}

// Snapshot is an immutable view of the form for rendering.
type Snapshot struct {
	Dialect       types.Dialect
	Conditions    []types.SearchCondition
	CommonFields  types.CommonFields
	USPTOSettings types.USPTOSettings
	DisplayString string
	URL           string
	Generation    uint64
	Pending       bool
}

// Form is the single-writer query-builder state.  Every mutation bumps a
// generation counter and schedules one regeneration; only the response
// matching the latest generation is applied, so stale responses can never
// regress the displayed output.
type Form struct {
	mu sync.Mutex

	dialect    types.Dialect
	conditions []types.SearchCondition
	common     types.CommonFields
	uspto      types.USPTOSettings

	display string
	url     string

	generation uint64
	applied    uint64
	pending    bool

	generator Generator
	timeout   time.Duration
	onUpdate  func(Snapshot)
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) FormOption {
	return func(f *Form) { f.timeout = d }
}

// WithUpdateHook registers a callback invoked with a fresh snapshot after
// every applied regeneration.
func WithUpdateHook(hook func(Snapshot)) FormOption {
	return func(f *Form) { f.onUpdate = hook }
}

// NewForm builds a form in its initial state: Google dialect, one blank
// condition, empty common fields, '#' link.
func NewForm(generator Generator, opts ...FormOption) *Form {
	f := &Form{
		dialect:    types.DialectGoogle,
		conditions: []types.SearchCondition{types.NewTextCondition()},
		common:     types.NewCommonFields(),
		uspto:      types.DefaultUSPTOSettings(),
		url:        types.SentinelURL,
		generator:  generator,
		timeout:    DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() Snapshot {
	conditions := make([]types.SearchCondition, 0, len(f.conditions))
	for _, c := range f.conditions {
		conditions = append(conditions, c.Clone())
	}
	return Snapshot{
		Dialect:       f.dialect,
		Conditions:    conditions,
		CommonFields:  f.common,
		USPTOSettings: f.uspto,
		DisplayString: f.display,
		URL:           f.url,
		Generation:    f.generation,
		Pending:       f.pending,
	}
}

// SetDialect switches the active dialect.  Switching into USPTO collapses the
// condition list to its first condition; switching back does not restore what
// was dropped.
func (f *Form) SetDialect(ctx context.Context, dialect types.Dialect) {
	if !dialect.Valid() {
		dialect = types.DialectGoogle
	}
	f.mutate(ctx, func() {
		f.dialect = dialect
		f.conditions = Normalize(dialect, f.conditions)
	})
}

// AddCondition appends a condition and re-normalizes the list.
func (f *Form) AddCondition(ctx context.Context, cond types.SearchCondition) {
	f.mutate(ctx, func() {
		f.conditions = Normalize(f.dialect, append(f.conditions, cond))
	})
}

// UpdateCondition replaces the condition with a matching ID.
func (f *Form) UpdateCondition(ctx context.Context, cond types.SearchCondition) {
	f.mutate(ctx, func() {
		for i := range f.conditions {
			if f.conditions[i].ID == cond.ID {
				f.conditions[i] = cond
				break
			}
		}
		f.conditions = Normalize(f.dialect, f.conditions)
	})
}

// SetConditionText replaces the text of the condition with the given ID, the
// mutation the typing path produces.
func (f *Form) SetConditionText(ctx context.Context, id, text string) {
	f.mutate(ctx, func() {
		f.conditions = UpdateText(f.dialect, f.conditions, id, text)
	})
}

// RemoveCondition removes the condition with the given ID under the list
// maintenance policy.
func (f *Form) RemoveCondition(ctx context.Context, id string) {
	f.mutate(ctx, func() {
		f.conditions = Remove(f.dialect, f.conditions, id)
	})
}

// SetCommonFields replaces the common fields.
func (f *Form) SetCommonFields(ctx context.Context, fields types.CommonFields) {
	f.mutate(ctx, func() { f.common = fields })
}

// SetUSPTOSettings replaces the USPTO session settings.
func (f *Form) SetUSPTOSettings(ctx context.Context, settings types.USPTOSettings) {
	f.mutate(ctx, func() { f.uspto = settings })
}

// ApplyParsed installs a parsed builder state wholesale, as the parse flow
// does when the user pastes a raw query.
func (f *Form) ApplyParsed(ctx context.Context, parsed *types.ParseResponse) {
	if parsed == nil {
		return
	}
	f.mutate(ctx, func() {
		f.conditions = Normalize(f.dialect, parsed.SearchConditions)
		f.common = parsed.GoogleLikeFields
		f.uspto = parsed.USPTOSettings
	})
}

// mutate applies a state change under the lock and schedules one
// regeneration stamped with the new generation.
func (f *Form) mutate(ctx context.Context, apply func()) {
	f.mu.Lock()
	apply()
	f.generation++
	gen := f.generation
	f.pending = true
	req := f.requestLocked()
	f.mu.Unlock()

	go f.regenerate(ctx, gen, req)
}

func (f *Form) requestLocked() *types.GenerateRequest {
	snap := f.snapshotLocked()
	common := snap.CommonFields
	settings := snap.USPTOSettings
	return &types.GenerateRequest{
		Format:           snap.Dialect,
		SearchConditions: snap.Conditions,
		GoogleLikeFields: &common,
		USPTOSettings:    &settings,
	}
}

func (f *Form) regenerate(ctx context.Context, gen uint64, req *types.GenerateRequest) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.generator.Generate(reqCtx, req)

	f.mu.Lock()
	if gen < f.generation || gen <= f.applied {
		// A newer mutation superseded this request; its response is stale.
		f.mu.Unlock()
		return
	}
	f.applied = gen
	f.pending = gen != f.generation
	if err != nil {
		f.display = "Error: " + err.Error()
		f.url = types.SentinelURL
	} else {
		f.display = resp.QueryStringDisplay
		f.url = resp.URL
		if f.url == "" {
			f.url = types.SentinelURL
		}
	}
	snap := f.snapshotLocked()
	hook := f.onUpdate
	f.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

//Personal.AI order the ending
