package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	gosync "sync"

	"autosync/core/database"
	"autosync/core/reconcile"
	"autosync/core/storage"
)

// record is the item type used on both sides of the fake catalog.
type record struct {
	key string
	id  int
	val string
}

// fakeCatalog is an in-memory adapter whose mutations change the target list.
type fakeCatalog struct {
	mu        gosync.Mutex
	sources   []record
	targets   []record
	nextID    int
	sourceErr error
	// existsAlways makes Exists report every key as present.
	existsAlways bool
	deleteErr    error
}

func newFakeCatalog(sources, targets []record) *fakeCatalog {
	return &fakeCatalog{sources: sources, targets: targets, nextID: 1000}
}

func (f *fakeCatalog) Name() string {
	return "fake"
}

func (f *fakeCatalog) LoadSources(ctx context.Context) ([]reconcile.SourceItem, error) {
	if f.sourceErr != nil {
		return nil, f.sourceErr
	}
	out := make([]reconcile.SourceItem, len(f.sources))
	for i, s := range f.sources {
		out[i] = s
	}
	return out, nil
}

func (f *fakeCatalog) LoadTargets(ctx context.Context) ([]reconcile.TargetItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]reconcile.TargetItem, len(f.targets))
	for i, t := range f.targets {
		out[i] = t
	}
	return out, nil
}

func (f *fakeCatalog) SourceKey(s reconcile.SourceItem) string {
	return s.(record).key
}

func (f *fakeCatalog) TargetKey(t reconcile.TargetItem) string {
	return t.(record).key
}

func (f *fakeCatalog) TargetID(t reconcile.TargetItem) string {
	return strconv.Itoa(t.(record).id)
}

func (f *fakeCatalog) Normalize(s reconcile.SourceItem) (reconcile.Payload, error) {
	r := s.(record)
	if r.val == "" {
		return nil, errors.New("empty value")
	}
	return r, nil
}

func (f *fakeCatalog) ResolveName(p reconcile.Payload) string {
	return p.(record).key
}

func (f *fakeCatalog) CompareFields(p reconcile.Payload, t reconcile.TargetItem) []string {
	if p.(record).val != t.(record).val {
		return []string{fmt.Sprintf("val: src=%s dst=%s", p.(record).val, t.(record).val)}
	}
	return []string{}
}

func (f *fakeCatalog) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsAlways {
		return true, nil
	}
	for _, t := range f.targets {
		if t.key == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalog) CreateBatch(ctx context.Context, actions []reconcile.Action) (reconcile.BatchOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range actions {
		r := a.Payload.(record)
		f.nextID++
		f.targets = append(f.targets, record{key: r.key, id: f.nextID, val: r.val})
	}
	return reconcile.BatchOutcome{Succeeded: len(actions)}, nil
}

func (f *fakeCatalog) UpdateBatch(ctx context.Context, actions []reconcile.Action) (reconcile.BatchOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range actions {
		id, _ := strconv.Atoi(a.TargetID)
		for i := range f.targets {
			if f.targets[i].id == id {
				f.targets[i].val = a.Payload.(record).val
			}
		}
	}
	return reconcile.BatchOutcome{Succeeded: len(actions)}, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	id, _ := strconv.Atoi(targetID)
	for i, t := range f.targets {
		if t.id == id {
			f.targets = append(f.targets[:i], f.targets[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCatalog) QueryTargets(ctx context.Context, key string) ([]reconcile.TargetItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []reconcile.TargetItem
	for _, t := range f.targets {
		if t.key == key {
			out = append(out, t)
		}
	}
	return out, nil
}

// state returns key=val pairs of the catalog, sorted.
func (f *fakeCatalog) state() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.targets))
	for _, t := range f.targets {
		out = append(out, t.key+"="+t.val)
	}
	sort.Strings(out)
	return out
}

// memJournal keeps run records in memory.
type memJournal struct {
	mu      gosync.Mutex
	records []database.RunRecord
	missing []string
}

func (j *memJournal) Record(ctx context.Context, rec *database.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, *rec)
	return nil
}

func (j *memJournal) ListRecent(ctx context.Context, limit int) ([]database.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]database.RunRecord, 0, len(j.records))
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.records[i])
	}
	return out, nil
}

func (j *memJournal) MissingColumns(ctx context.Context) ([]string, error) {
	return j.missing, nil
}

// memArchive keeps reports in memory.
type memArchive struct {
	mu      gosync.Mutex
	reports map[string]*RunReport
	err     error
}

func newMemArchive() *memArchive {
	return &memArchive{reports: make(map[string]*RunReport)}
}

func (a *memArchive) Put(ctx context.Context, runID string, report any) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	r := *report.(*RunReport)
	a.reports[runID] = &r
	return "reports/" + runID + ".json", nil
}

func (a *memArchive) Get(ctx context.Context, runID string, out any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.reports[runID]
	if !ok {
		return storage.ErrReportNotFound
	}
	*out.(*RunReport) = *r
	return nil
}

func (a *memArchive) List(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.reports))
	for id := range a.reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
