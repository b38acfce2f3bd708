package repository

import (
	"context"
	"errors"
	"time"

	"pizzaShop/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// SessionRepository is the per-browser session store. Each session is a
// Redis hash keyed by a uuid; the cart manager owns the "cart" field and the
// manager auth flow owns the "role" field.
type SessionRepository interface {
	CreateSession() (sessionId string, err error)
	GetValue(sessionId string, field string) (raw []byte, found bool, err error)
	SetValue(sessionId string, field string, raw []byte) (err error)
	DeleteSession(sessionId string) (err error)
	CheckSession(sessionId string) (bool, error)
	RefreshSession(sessionId string, expirationTime time.Duration) (err error)
}

type SessionRepo struct {
	rdb *redis.Client
	ctx context.Context
	ttl time.Duration
}

func NewSessionRepository(redis_conn *redis.Client, _ctx context.Context, ttl time.Duration) (SessionRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(_ctx).Err()
	if err != nil {
		return nil, err
	}
	return &SessionRepo{
		rdb: redis_conn,
		ctx: _ctx,
		ttl: ttl,
	}, nil
}

func (s *SessionRepo) CreateSession() (sessionId string, err error) {
	sessionId = uuid.NewString()
	err = s.rdb.HSet(s.ctx, sessionId, "created", time.Now().UTC().Format(time.RFC3339)).Err()
	if err != nil {
		log.WithError(err).Error("CreateSession")
		err = models.ErrServerError
		return
	}
	s.rdb.Expire(s.ctx, sessionId, s.ttl)
	return
}

func (s *SessionRepo) GetValue(sessionId string, field string) (raw []byte, found bool, err error) {
	val, e := s.rdb.HGet(s.ctx, sessionId, field).Result()
	if e != nil {
		if e == redis.Nil {
			return
		}
		log.WithError(e).Error("GetValue")
		err = models.ErrServerError
		return
	}
	raw = []byte(val)
	found = true
	return
}

func (s *SessionRepo) SetValue(sessionId string, field string, raw []byte) (err error) {
	err = s.rdb.HSet(s.ctx, sessionId, field, raw).Err()
	if err != nil {
		log.WithError(err).Error("SetValue")
		err = models.ErrServerError
		return
	}
	s.rdb.Expire(s.ctx, sessionId, s.ttl)
	return
}

func (s *SessionRepo) DeleteSession(sessionId string) (err error) {
	err = s.rdb.Del(s.ctx, sessionId).Err()
	if err != nil {
		log.WithError(err).Error("DeleteSession")
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) CheckSession(sessionId string) (bool, error) {
	exists, err := s.rdb.Exists(s.ctx, sessionId).Result()
	if err != nil {
		log.WithError(err).Error("CheckSession")
		return false, models.ErrServerError
	}
	if exists > 0 {
		return true, nil
	}
	return false, nil
}

func (s *SessionRepo) RefreshSession(sessionId string, expirationTime time.Duration) (err error) {
	err = s.rdb.Expire(s.ctx, sessionId, expirationTime).Err()
	if err != nil {
		log.WithError(err).Error("RefreshSession")
		err = models.ErrServerError
	}
	return
}
