package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"todo_api/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// Keys:
//   <prefix>:tasks:seq            id counter, never reset
//   <prefix>:task:<id>            hash with the task fields
//   <prefix>:user:<user>:tasks    sorted set of the user's ids, score = id

// toggleScript flips completed only when the hash belongs to ARGV[1].
var toggleScript = redis.NewScript(`
local owner = redis.call('HGET', KEYS[1], 'user_id')
if owner ~= ARGV[1] then
	return nil
end
local done = '1'
if redis.call('HGET', KEYS[1], 'completed') == '1' then
	done = '0'
end
redis.call('HSET', KEYS[1], 'completed', done, 'updated_at', ARGV[2])
return redis.call('HGETALL', KEYS[1])
`)

// deleteScript removes the hash and its index entry in one step.
var deleteScript = redis.NewScript(`
local owner = redis.call('HGET', KEYS[1], 'user_id')
if owner ~= ARGV[1] then
	return nil
end
local fields = redis.call('HGETALL', KEYS[1])
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[2])
return fields
`)

// RedisTaskStore keeps tasks in Redis; mutations run as Lua scripts so
// toggle and delete are atomic per (user, id).
type RedisTaskStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisTaskStore(client *redis.Client, prefix string) *RedisTaskStore {
	if prefix == "" {
		prefix = "todo"
	}
	return &RedisTaskStore{
		client: client,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *RedisTaskStore) seqKey() string {
	return s.prefix + ":tasks:seq"
}

func (s *RedisTaskStore) taskKey(id int64) string {
	return s.prefix + ":task:" + strconv.FormatInt(id, 10)
}

func (s *RedisTaskStore) userKey(userID string) string {
	return s.prefix + ":user:" + userID + ":tasks"
}

func (s *RedisTaskStore) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	ids, err := s.client.ZRange(ctx, s.userKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list task ids: %w", err)
	}

	res := make([]*domain.Task, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))
	for _, idStr := range ids {
		cmds = append(cmds, pipe.HGetAll(ctx, s.prefix+":task:"+idStr))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		t, err := taskFromFields(fields)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

func (s *RedisTaskStore) Create(ctx context.Context, t *domain.Task) error {
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("allocate task id: %w", err)
	}

	now := s.now()
	t.ID = id
	t.Completed = false
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.taskKey(id), taskToFields(t))
		pipe.ZAdd(ctx, s.userKey(t.UserID), redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *RedisTaskStore) ToggleCompleted(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	fields, err := toggleScript.Run(ctx, s.client,
		[]string{s.taskKey(id)},
		userID, s.now().Format(time.RFC3339Nano),
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return taskFromPairs(fields)
}

func (s *RedisTaskStore) Delete(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	fields, err := deleteScript.Run(ctx, s.client,
		[]string{s.taskKey(id), s.userKey(userID)},
		userID, strconv.FormatInt(id, 10),
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return taskFromPairs(fields)
}

func taskToFields(t *domain.Task) map[string]interface{} {
	fields := map[string]interface{}{
		"id":         strconv.FormatInt(t.ID, 10),
		"user_id":    t.UserID,
		"title":      t.Title,
		"completed":  boolField(t.Completed),
		"created_at": t.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.Description != nil {
		fields["description"] = *t.Description
	}
	return fields
}

// taskFromPairs decodes the flat HGETALL reply returned by the scripts
func taskFromPairs(pairs []string) (*domain.Task, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("malformed task hash: %d fields", len(pairs))
	}
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return taskFromFields(fields)
}

func taskFromFields(fields map[string]string) (*domain.Task, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed task id %q: %w", fields["id"], err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("malformed created_at for task %d: %w", id, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("malformed updated_at for task %d: %w", id, err)
	}

	t := &domain.Task{
		ID:        id,
		UserID:    fields["user_id"],
		Title:     fields["title"],
		Completed: fields["completed"] == "1",
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if d, ok := fields["description"]; ok {
		t.Description = &d
	}
	return t, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
