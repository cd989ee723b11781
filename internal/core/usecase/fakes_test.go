package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

type docRepoFake struct {
	mu          sync.Mutex
	docs        map[string]domain.Document
	createErr   error
	getErr      error
	statusErr   error
	statusCalls []domain.DocumentStatus
	deleted     []string
	listCalls   int
}

func newDocRepoFake(docs ...domain.Document) *docRepoFake {
	f := &docRepoFake{docs: make(map[string]domain.Document)}
	for _, doc := range docs {
		f.docs[doc.ID] = doc
	}
	return f
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[doc.ID] = *doc
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get", fmt.Errorf("id=%s", id))
	}
	return &doc, nil
}

func (f *docRepoFake) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]domain.Document, 0)
	for _, doc := range f.docs {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []domain.Document{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, status)
	if f.statusErr != nil {
		return f.statusErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update", fmt.Errorf("id=%s", id))
	}
	doc.Status = status
	f.docs[id] = doc
	return nil
}

func (f *docRepoFake) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

type resultRepoFake struct {
	mu        sync.Mutex
	results   map[string]domain.PlagiarismResult
	createErr error
	getErr    error
	creates   int
	gets      int
	batchIDs  [][]string
}

func newResultRepoFake(results ...domain.PlagiarismResult) *resultRepoFake {
	f := &resultRepoFake{results: make(map[string]domain.PlagiarismResult)}
	for _, r := range results {
		f.results[r.DocumentID] = r
	}
	return f
}

func (f *resultRepoFake) Create(_ context.Context, result *domain.PlagiarismResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.results[result.DocumentID]; ok {
		return domain.WrapError(domain.ErrConflict, "create result", errors.New("duplicate"))
	}
	f.results[result.DocumentID] = *result
	return nil
}

func (f *resultRepoFake) GetByDocumentID(_ context.Context, documentID string) (*domain.PlagiarismResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.results[documentID]
	if !ok {
		return nil, domain.WrapError(domain.ErrResultNotFound, "get result", fmt.Errorf("document_id=%s", documentID))
	}
	return &r, nil
}

func (f *resultRepoFake) ListByDocumentIDs(_ context.Context, documentIDs []string) (map[string]domain.PlagiarismResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchIDs = append(f.batchIDs, documentIDs)
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make(map[string]domain.PlagiarismResult, len(documentIDs))
	for _, id := range documentIDs {
		if r, ok := f.results[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type storageFake struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newStorageFake() *storageFake {
	return &storageFake{saved: make(map[string][]byte)}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.saved[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.saved, key)
	return nil
}

type extractorFake struct {
	text  string
	err   error
	calls int
}

func (f *extractorFake) Extract(context.Context, string, []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type trackerFake struct {
	mu       sync.Mutex
	entries  map[string]domain.Progress
	history  []int
	steps    []string
	finished []domain.AnalysisState
	raiseErr error
}

func newTrackerFake() *trackerFake {
	return &trackerFake{entries: make(map[string]domain.Progress)}
}

func (f *trackerFake) Init(_ context.Context, documentID, step string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[documentID] = domain.Progress{DocumentID: documentID, Step: step, State: domain.AnalysisRunning, UpdatedAt: time.Now()}
	return nil
}

func (f *trackerFake) Raise(_ context.Context, documentID string, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raiseErr != nil {
		return 0, f.raiseErr
	}
	p := f.entries[documentID]
	next := domain.ClampPercent(p.Percent + delta)
	if next < p.Percent {
		next = p.Percent
	}
	p.Percent = next
	f.entries[documentID] = p
	f.history = append(f.history, next)
	return next, nil
}

func (f *trackerFake) SetStep(_ context.Context, documentID string, index int, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.entries[documentID]
	p.Step = label
	p.StepIndex = index
	f.entries[documentID] = p
	f.steps = append(f.steps, label)
	return nil
}

func (f *trackerFake) Finish(_ context.Context, documentID string, state domain.AnalysisState, errMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.entries[documentID]
	p.State = state
	p.Error = errMessage
	if state == domain.AnalysisCompleted {
		p.Percent = domain.ProgressMax
		f.history = append(f.history, p.Percent)
	}
	f.entries[documentID] = p
	f.finished = append(f.finished, state)
	return nil
}

func (f *trackerFake) Get(_ context.Context, documentID string) (*domain.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.entries[documentID]
	if !ok {
		return nil, domain.WrapError(domain.ErrProgressNotFound, "get progress", fmt.Errorf("id=%s", documentID))
	}
	return &p, nil
}

type hasherFake struct{}

func (hasherFake) Hash(password string) (string, error) { return "hash:" + password, nil }

func (hasherFake) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type userRepoFake struct {
	users map[string]domain.User
}

func newUserRepoFake() *userRepoFake {
	return &userRepoFake{users: make(map[string]domain.User)}
}

func (f *userRepoFake) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.Email]; ok {
		return domain.WrapError(domain.ErrConflict, "create user", errors.New("duplicate email"))
	}
	f.users[user.Email] = *user
	return nil
}

func (f *userRepoFake) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, domain.WrapError(domain.ErrUserNotFound, "get user", errors.New(email))
	}
	return &u, nil
}

type tokenFake struct{}

func (tokenFake) Issue(userID string) (string, time.Time, error) {
	return "token-" + userID, time.Now().Add(time.Hour), nil
}

func (tokenFake) Parse(token string) (string, error) {
	if len(token) <= len("token-") || token[:len("token-")] != "token-" {
		return "", errors.New("bad token")
	}
	return token[len("token-"):], nil
}
