package store

import (
	"sync"

	"github.com/sagarsuperuser/useradmin/internal/common"
	sessionUtils "github.com/sagarsuperuser/useradmin/internal/session"
)

// Store sits between the handlers and a Driver.
//
// Users are cached by id. Live sessions are cached by token hash, with a
// second index from session id to hash for bearer tokens. A revoked session
// leaves the hash cache at once, so a stale id entry just falls through to
// the driver.
type Store struct {
	driver       Driver
	userCache    sync.Map // int64 -> *UserInfo
	sessionCache sync.Map // [32]byte -> *SessionInfo
	sessionIDs   sync.Map // int64 -> [32]byte
	now          common.NowFunc
}

func New(driver Driver, now common.NowFunc) *Store {
	return &Store{driver: driver, now: now}
}

// Close releases the driver. Cached entries are left to the garbage collector.
func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) cacheSession(sInfo *SessionInfo) {
	s.sessionCache.Store(sInfo.TokenHash, sInfo)
	s.sessionIDs.Store(sInfo.ID, sInfo.TokenHash)
}

func (s *Store) forgetSession(sInfo *SessionInfo) {
	s.sessionCache.Delete(sInfo.TokenHash)
	s.sessionIDs.Delete(sInfo.ID)
}

// cachedSession reports ok=false on a cache miss. An expired entry is
// evicted and answered with ErrSessionExpired.
func (s *Store) cachedSession(hash [32]byte) (*SessionInfo, bool, error) {
	v, ok := s.sessionCache.Load(hash)
	if !ok {
		return nil, false, nil
	}
	sInfo := v.(*SessionInfo)
	if !sInfo.ExpiresAt.After(s.now()) {
		s.forgetSession(sInfo)
		return nil, true, sessionUtils.ErrSessionExpired
	}
	return sInfo, true, nil
}
