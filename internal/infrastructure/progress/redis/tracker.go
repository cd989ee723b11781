package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/resilience"
)

const (
	fieldPercent   = "percent"
	fieldStep      = "step"
	fieldStepIndex = "step_index"
	fieldState     = "state"
	fieldError     = "error"
	fieldUpdatedAt = "updated_at"
)

// raiseScript adds ARGV[1] to the percent field, never lowering it and never
// passing 100.
var raiseScript = goredis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], 'percent') or '0')
local next = current + tonumber(ARGV[1])
if next > 100 then next = 100 end
if next < current then next = current end
redis.call('HSET', KEYS[1], 'percent', next, 'updated_at', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return next
`)

type Options struct {
	KeyPrefix string
	TTL       time.Duration
	Executor  *resilience.Executor
}

// Tracker stores analysis progress as one Redis hash per document.
type Tracker struct {
	client   goredis.UniversalClient
	prefix   string
	ttl      time.Duration
	executor *resilience.Executor
	now      func() time.Time
}

func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewTracker(client goredis.UniversalClient, options Options) *Tracker {
	prefix := options.KeyPrefix
	if prefix == "" {
		prefix = "progress:"
	}
	ttl := options.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tracker{
		client:   client,
		prefix:   prefix,
		ttl:      ttl,
		executor: options.Executor,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (t *Tracker) key(documentID string) string {
	return t.prefix + documentID
}

func (t *Tracker) Init(ctx context.Context, documentID, step string) error {
	key := t.key(documentID)
	return t.exec(ctx, "redis.progress.init", func(ctx context.Context) error {
		_, err := t.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key,
				fieldPercent, domain.ProgressMin,
				fieldStep, step,
				fieldStepIndex, 0,
				fieldState, string(domain.AnalysisRunning),
				fieldError, "",
				fieldUpdatedAt, t.now().UnixMilli(),
			)
			pipe.PExpire(ctx, key, t.ttl)
			return nil
		})
		return err
	})
}

func (t *Tracker) Raise(ctx context.Context, documentID string, delta int) (int, error) {
	key := t.key(documentID)
	percent, err := resilience.Do(ctx, t.executor, "redis.progress.raise", func(ctx context.Context) (int, error) {
		return raiseScript.Run(ctx, t.client, []string{key}, delta, t.now().UnixMilli(), t.ttl.Milliseconds()).Int()
	}, classifyRedisError)
	if err != nil {
		return 0, wrapTemporaryIfNeeded("raise progress", err)
	}
	return percent, nil
}

func (t *Tracker) SetStep(ctx context.Context, documentID string, index int, label string) error {
	key := t.key(documentID)
	return t.exec(ctx, "redis.progress.step", func(ctx context.Context) error {
		_, err := t.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, key,
				fieldStep, label,
				fieldStepIndex, index,
				fieldUpdatedAt, t.now().UnixMilli(),
			)
			pipe.PExpire(ctx, key, t.ttl)
			return nil
		})
		return err
	})
}

// Finish records the terminal state; a completed analysis always reads 100.
func (t *Tracker) Finish(ctx context.Context, documentID string, state domain.AnalysisState, errMessage string) error {
	key := t.key(documentID)
	values := []any{
		fieldState, string(state),
		fieldError, errMessage,
		fieldUpdatedAt, t.now().UnixMilli(),
	}
	if state == domain.AnalysisCompleted {
		values = append(values, fieldPercent, domain.ProgressMax)
	}
	return t.exec(ctx, "redis.progress.finish", func(ctx context.Context) error {
		_, err := t.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, key, values...)
			pipe.PExpire(ctx, key, t.ttl)
			return nil
		})
		return err
	})
}

func (t *Tracker) Get(ctx context.Context, documentID string) (*domain.Progress, error) {
	fields, err := resilience.Do(ctx, t.executor, "redis.progress.get", func(ctx context.Context) (map[string]string, error) {
		return t.client.HGetAll(ctx, t.key(documentID)).Result()
	}, classifyRedisError)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("get progress", err)
	}
	if len(fields) == 0 {
		return nil, domain.WrapError(domain.ErrProgressNotFound, "get progress", fmt.Errorf("id=%s", documentID))
	}
	return decodeProgress(documentID, fields)
}

func (t *Tracker) exec(ctx context.Context, operation string, fn func(context.Context) error) error {
	if err := t.executor.Execute(ctx, operation, fn, classifyRedisError); err != nil {
		return wrapTemporaryIfNeeded(operation, err)
	}
	return nil
}

func decodeProgress(documentID string, fields map[string]string) (*domain.Progress, error) {
	p := &domain.Progress{
		DocumentID: documentID,
		Step:       fields[fieldStep],
		State:      domain.AnalysisState(fields[fieldState]),
		Error:      fields[fieldError],
	}
	var err error
	if p.Percent, err = atoiField(fields, fieldPercent); err != nil {
		return nil, err
	}
	p.Percent = domain.ClampPercent(p.Percent)
	if p.StepIndex, err = atoiField(fields, fieldStepIndex); err != nil {
		return nil, err
	}
	if raw := fields[fieldUpdatedAt]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldUpdatedAt, err)
		}
		p.UpdatedAt = time.UnixMilli(ms).UTC()
	}
	if p.State == "" {
		p.State = domain.AnalysisRunning
	}
	return p, nil
}

func atoiField(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}
